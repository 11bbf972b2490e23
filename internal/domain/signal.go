package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidInput is returned for an unknown asset or expiration.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMarketClosed is returned when the asset's market is outside trading hours.
	ErrMarketClosed = errors.New("market closed")
)

// Asset is one of the supported currency pairs
type Asset string

// Asset constants
const (
	AssetEURUSD    Asset = "EUR/USD"
	AssetEURUSDOTC Asset = "EUR/USD (OTC)"
	AssetEURJPY    Asset = "EUR/JPY"
	AssetEURJPYOTC Asset = "EUR/JPY (OTC)"
)

// Assets lists every supported asset in display order
var Assets = []Asset{AssetEURUSD, AssetEURUSDOTC, AssetEURJPY, AssetEURJPYOTC}

const otcSuffix = " (OTC)"

// ParseAsset validates a raw asset symbol
func ParseAsset(s string) (Asset, error) {
	for _, a := range Assets {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown asset %q", ErrInvalidInput, s)
}

// IsOTC reports whether the asset trades over-the-counter around the clock
func (a Asset) IsOTC() bool {
	return strings.HasSuffix(string(a), otcSuffix)
}

// Base returns the pair without the OTC suffix
func (a Asset) Base() string {
	return strings.TrimSuffix(string(a), otcSuffix)
}

// Expiration is the duration class of a simulated trade
type Expiration string

// Expiration constants
const (
	Expiration1m Expiration = "1m"
	Expiration5m Expiration = "5m"
)

// Expirations lists every supported expiration
var Expirations = []Expiration{Expiration1m, Expiration5m}

// ParseExpiration validates a raw expiration string
func ParseExpiration(s string) (Expiration, error) {
	switch Expiration(s) {
	case Expiration1m, Expiration5m:
		return Expiration(s), nil
	}
	return "", fmt.Errorf("%w: unknown expiration %q", ErrInvalidInput, s)
}

// Duration returns the interval length, or zero for an unknown value
func (e Expiration) Duration() time.Duration {
	switch e {
	case Expiration1m:
		return time.Minute
	case Expiration5m:
		return 5 * time.Minute
	}
	return 0
}

// Direction is the binary outcome shown to the user
type Direction string

// Direction constants
const (
	DirectionCall Direction = "CALL"
	DirectionPut  Direction = "PUT"
)

// Opposite flips the direction
func (d Direction) Opposite() Direction {
	if d == DirectionCall {
		return DirectionPut
	}
	return DirectionCall
}

// SourceRandom labels every result as coming from the seeded random policy
const SourceRandom = "random"

// SignalRequest is the immutable input of the generator
type SignalRequest struct {
	Asset      Asset      `json:"asset"`
	Expiration Expiration `json:"expiration"`
	Invert     bool       `json:"invert"`
}

// Validate checks the asset and expiration
func (r SignalRequest) Validate() error {
	if _, err := ParseAsset(string(r.Asset)); err != nil {
		return err
	}
	if _, err := ParseExpiration(string(r.Expiration)); err != nil {
		return err
	}
	return nil
}

// SignalResult is created fresh per request
type SignalResult struct {
	Direction  Direction `json:"direction"`
	TargetTime string    `json:"target_time"` // HH:MM
	TargetDate time.Time `json:"target_date"`
	Source     string    `json:"source"`
}

// IssuedSignal is a record of a result handed out by the service
type IssuedSignal struct {
	ID         uuid.UUID  `json:"id"`
	Asset      Asset      `json:"asset"`
	Expiration Expiration `json:"expiration"`
	Direction  Direction  `json:"direction"`
	TargetDate time.Time  `json:"target_date"`
	Inverted   bool       `json:"inverted"`
	IssuedAt   time.Time  `json:"issued_at"`
}

// BoundaryEvent is published when the clock reaches an expiration boundary
type BoundaryEvent struct {
	Asset      Asset      `json:"asset"`
	Expiration Expiration `json:"expiration"`
	Boundary   time.Time  `json:"boundary"`
	Open       bool       `json:"open"`
}
