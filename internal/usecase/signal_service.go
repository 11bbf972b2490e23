package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"signaldesk/internal/domain"
	"signaldesk/internal/generator"
	"signaldesk/internal/metrics"
)

// SignalService hands out signals and keeps a record of what was issued
type SignalService struct {
	hours    domain.MarketHours
	signals  domain.SignalRepository
	settings domain.SettingsRepository
	now      func() time.Time
}

// NewSignalService creates a new SignalService
func NewSignalService(hours domain.MarketHours, signals domain.SignalRepository, settings domain.SettingsRepository) *SignalService {
	return &SignalService{
		hours:    hours,
		signals:  signals,
		settings: settings,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock, for tests and the CLI's --at flag
func (s *SignalService) WithClock(now func() time.Time) *SignalService {
	s.now = now
	return s
}

// Generate validates req, checks market hours and returns the signal for the next boundary
func (s *SignalService) Generate(ctx context.Context, req domain.SignalRequest) (domain.SignalResult, error) {
	if err := req.Validate(); err != nil {
		metrics.SignalsRejected.WithLabelValues("invalid_input").Inc()
		return domain.SignalResult{}, err
	}

	now := s.now()
	if s.enforceMarketHours(ctx) && !s.hours.IsOpen(req.Asset, now) {
		metrics.SignalsRejected.WithLabelValues("market_closed").Inc()
		return domain.SignalResult{}, fmt.Errorf("%w: %s", domain.ErrMarketClosed, req.Asset)
	}

	result, err := generator.Generate(req, now)
	if err != nil {
		return domain.SignalResult{}, err
	}

	issued := &domain.IssuedSignal{
		ID:         uuid.New(),
		Asset:      req.Asset,
		Expiration: req.Expiration,
		Direction:  result.Direction,
		TargetDate: result.TargetDate,
		Inverted:   req.Invert,
		IssuedAt:   now,
	}
	if err := s.signals.Save(ctx, issued); err != nil {
		// the result is a pure function of its inputs, so a lost record does not fail the call
		log.WithError(err).WithField("asset", req.Asset).Warn("failed to record issued signal")
	}

	metrics.SignalsGenerated.WithLabelValues(string(req.Asset), string(req.Expiration), string(result.Direction)).Inc()
	log.WithFields(log.Fields{
		"asset":      req.Asset,
		"expiration": req.Expiration,
		"direction":  result.Direction,
		"target":     result.TargetTime,
	}).Debug("signal generated")

	return result, nil
}

// Recent lists issued signals, newest first
func (s *SignalService) Recent(ctx context.Context, limit int) ([]*domain.IssuedSignal, error) {
	switch {
	case limit <= 0:
		limit = 20
	case limit > 200:
		limit = 200
	}
	return s.signals.GetRecent(ctx, limit)
}

// MarketOpen reports whether the asset is tradable right now
func (s *SignalService) MarketOpen(asset domain.Asset) bool {
	return s.hours.IsOpen(asset, s.now())
}

// Now returns the service clock
func (s *SignalService) Now() time.Time {
	return s.now()
}

// enforceMarketHours reads the runtime switch, defaulting to on
func (s *SignalService) enforceMarketHours(ctx context.Context) bool {
	setting, err := s.settings.Get(ctx, domain.SettingEnforceMarketHours)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.WithError(err).Warn("failed to read market hours setting, enforcing")
		}
		return true
	}

	enabled, err := strconv.ParseBool(setting.Value)
	if err != nil {
		return true
	}
	return enabled
}
