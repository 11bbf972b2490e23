package infra

import (
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"signaldesk/internal/domain"
	"signaldesk/internal/metrics"
)

// Publisher receives boundary events
type Publisher interface {
	Publish(event domain.BoundaryEvent)
}

// Scheduler fires on every minute boundary and announces which
// (asset, expiration) windows just closed
type Scheduler struct {
	cron      *cron.Cron
	hours     domain.MarketHours
	publisher Publisher
	now       func() time.Time
}

// NewScheduler creates a new scheduler
func NewScheduler(hours domain.MarketHours, publisher Publisher) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		hours:     hours,
		publisher: publisher,
		now:       time.Now,
	}
}

// Start registers the boundary job and starts the cron runner
func (s *Scheduler) Start() error {
	log.Info("starting boundary scheduler")

	if _, err := s.cron.AddFunc("0 * * * * *", func() { s.Tick(s.now()) }); err != nil {
		return err
	}

	s.cron.Start()
	log.Info("boundary scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running tick to finish
func (s *Scheduler) Stop() {
	log.Info("stopping boundary scheduler")
	<-s.cron.Stop().Done()
	log.Info("boundary scheduler stopped")
}

// Tick publishes events for the boundary at or just before now. It returns
// the number of events published.
func (s *Scheduler) Tick(now time.Time) int {
	// cron may fire a few ms late; snap back onto the minute
	boundary := now.Truncate(time.Minute)

	published := 0
	for _, exp := range domain.Expirations {
		if !boundary.Equal(boundary.Truncate(exp.Duration())) {
			continue
		}
		for _, asset := range domain.Assets {
			s.publisher.Publish(domain.BoundaryEvent{
				Asset:      asset,
				Expiration: exp,
				Boundary:   boundary,
				Open:       s.hours.IsOpen(asset, boundary),
			})
			published++
		}
		metrics.BoundaryEvents.WithLabelValues(string(exp)).Inc()
	}

	log.WithFields(log.Fields{
		"boundary": boundary.Format(time.RFC3339),
		"events":   published,
	}).Debug("boundary reached")

	return published
}
