package domain

import "time"

// MarketHours reports whether an asset is tradable at a given instant
type MarketHours interface {
	IsOpen(asset Asset, t time.Time) bool
}
