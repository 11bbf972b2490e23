// Package generator maps (asset, expiration, wall clock) to a deterministic
// CALL/PUT label and the boundary the label applies to.
//
// Every caller asking within the same boundary window gets the same answer,
// so concurrent viewers see one signal per asset and boundary.
package generator

import (
	"math"
	"time"

	"signaldesk/internal/domain"
)

// sineScale spreads sin(seed) across enough integer digits that the
// fractional part behaves like a uniform draw.
const sineScale = 10000

// NextBoundary rounds now up to the next multiple of the expiration interval,
// with seconds and sub-seconds zeroed. The result is always strictly after now.
func NextBoundary(now time.Time, exp domain.Expiration) time.Time {
	d := exp.Duration()
	if d == 0 {
		return time.Time{}
	}

	// Truncate works on absolute time, which matches the wall clock in any
	// zone whose UTC offset is a multiple of five minutes.
	return now.Truncate(d).Add(d)
}

// Seed combines the boundary's epoch milliseconds with the sum of the asset's code points
func Seed(asset domain.Asset, boundary time.Time) float64 {
	var chars int64
	for _, r := range string(asset) {
		chars += int64(r)
	}
	return float64(boundary.UnixMilli() + chars)
}

// Value is the pseudo-random draw in [0,1) for a seed
func Value(seed float64) float64 {
	x := math.Abs(math.Sin(seed) * sineScale)
	return x - math.Floor(x)
}

// DirectionFor maps a draw to a label
func DirectionFor(v float64) domain.Direction {
	if v < 0.5 {
		return domain.DirectionCall
	}
	return domain.DirectionPut
}

// Generate computes the signal for req at now. The caller is expected to
// have validated req; an unknown expiration yields ErrInvalidInput anyway.
func Generate(req domain.SignalRequest, now time.Time) (domain.SignalResult, error) {
	if err := req.Validate(); err != nil {
		return domain.SignalResult{}, err
	}

	boundary := NextBoundary(now, req.Expiration)
	direction := DirectionFor(Value(Seed(req.Asset, boundary)))
	if req.Invert {
		direction = direction.Opposite()
	}

	return domain.SignalResult{
		Direction:  direction,
		TargetTime: boundary.Format("15:04"),
		TargetDate: boundary,
		Source:     domain.SourceRandom,
	}, nil
}
