package utils

import (
	"time"
)

var saoPauloLoc *time.Location

func init() {
	var err error
	saoPauloLoc, err = time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// Brazil has not observed DST since 2019, so a fixed offset is exact for current dates.
		// In production docker, ensure tzdata is installed
		saoPauloLoc = time.FixedZone("UTC-3", -3*60*60)
	}
}

// GetSaoPauloTime returns current time in the market-hours timezone
func GetSaoPauloTime() time.Time {
	return time.Now().In(saoPauloLoc)
}

// GetLocation returns the America/Sao_Paulo *time.Location
func GetLocation() *time.Location {
	return saoPauloLoc
}

// FractionalHour returns the hour of t as hours plus minutes/60, e.g. 16:30 -> 16.5
func FractionalHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}
