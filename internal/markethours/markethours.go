// Package markethours decides whether a currency pair is tradable at a given
// instant. OTC variants never close.
package markethours

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"signaldesk/internal/domain"
	"signaldesk/internal/utils"
)

//go:embed schedule.yaml
var defaultScheduleYAML []byte

// Range is an open window in fractional hours, start inclusive, end exclusive
type Range struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// Schedule maps a weekday (0 = Sunday) to its open windows
type Schedule map[int][]Range

// Calendar holds a schedule per base pair and evaluates it in one location
type Calendar struct {
	schedules map[string]Schedule
	loc       *time.Location
}

// Default returns the calendar built from the embedded schedule
func Default() *Calendar {
	cal, err := Parse(defaultScheduleYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded market schedule is invalid: %v", err))
	}
	return cal
}

// Load reads a schedule file, falling back to the embedded one when path is empty
func Load(path string) (*Calendar, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read market schedule %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML schedule document
func Parse(data []byte) (*Calendar, error) {
	var schedules map[string]Schedule
	if err := yaml.Unmarshal(data, &schedules); err != nil {
		return nil, fmt.Errorf("failed to parse market schedule: %w", err)
	}

	for pair, sched := range schedules {
		for day, ranges := range sched {
			if day < 0 || day > 6 {
				return nil, fmt.Errorf("%s: weekday %d out of range", pair, day)
			}
			for _, r := range ranges {
				if r.Start < 0 || r.End > 24 || r.Start >= r.End {
					return nil, fmt.Errorf("%s: invalid range %.2f-%.2f on weekday %d", pair, r.Start, r.End, day)
				}
			}
		}
	}

	return &Calendar{schedules: schedules, loc: utils.GetLocation()}, nil
}

// IsOpen reports whether the asset's market is open at t
func (c *Calendar) IsOpen(asset domain.Asset, t time.Time) bool {
	if asset.IsOTC() {
		return true
	}

	sched, ok := c.schedules[asset.Base()]
	if !ok {
		return false
	}

	local := t.In(c.loc)
	hour := utils.FractionalHour(local)
	for _, r := range sched[int(local.Weekday())] {
		if hour >= r.Start && hour < r.End {
			return true
		}
	}
	return false
}

// Location returns the zone schedules are evaluated in
func (c *Calendar) Location() *time.Location {
	return c.loc
}
