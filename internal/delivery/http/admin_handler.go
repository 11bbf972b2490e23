package http

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"signaldesk/internal/delivery/http/dto"
	"signaldesk/internal/domain"
)

// Pinger is satisfied by the pgx pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// AdminHandler handles admin-related requests
type AdminHandler struct {
	db         Pinger // nil when running on the in-memory store
	settings   domain.SettingsRepository
	signalRepo domain.SignalRepository
	users      domain.UserRepository
	clients    func() int
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db Pinger, settings domain.SettingsRepository, signalRepo domain.SignalRepository, users domain.UserRepository, clients func() int) *AdminHandler {
	return &AdminHandler{
		db:         db,
		settings:   settings,
		signalRepo: signalRepo,
		users:      users,
		clients:    clients,
	}
}

// settingValidators restricts which keys may be written and what they accept
var settingValidators = map[string]func(string) error{
	domain.SettingEnforceMarketHours: func(v string) error {
		_, err := strconv.ParseBool(v)
		return err
	},
}

// GetSettings returns all settings
// GET /api/admin/settings
func (h *AdminHandler) GetSettings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	settings, err := h.settings.GetAll(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to fetch settings", err)
	}
	if settings == nil {
		settings = []*domain.Setting{}
	}

	return SuccessResponse(c, map[string]interface{}{
		"settings": settings,
		"count":    len(settings),
	})
}

// UpdateSetting writes one setting
// PUT /api/admin/settings/:key
func (h *AdminHandler) UpdateSetting(c echo.Context) error {
	key := c.Param("key")
	validate, ok := settingValidators[key]
	if !ok {
		return NotFoundResponse(c, "Unknown setting")
	}

	var req dto.UpdateSettingRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if err := validate(req.Value); err != nil {
		return BadRequestResponse(c, "Invalid value for "+key)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.settings.Set(ctx, key, req.Value); err != nil {
		return InternalServerErrorResponse(c, "Failed to update setting", err)
	}

	log.WithFields(log.Fields{"key": key, "value": req.Value}).Info("setting updated")
	return SuccessMessageResponse(c, "Setting updated", map[string]string{"key": key, "value": req.Value})
}

// GetStatistics returns dashboard counters
// GET /api/admin/statistics
func (h *AdminHandler) GetStatistics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stats := make(map[string]interface{})

	if n, err := h.users.Count(ctx); err == nil {
		stats["total_users"] = n
	}

	since := time.Now().Add(-24 * time.Hour)
	counts, err := h.signalRepo.CountSince(ctx, since)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to count signals", err)
	}
	stats["signals_24h"] = map[string]int{
		string(domain.DirectionCall): counts[domain.DirectionCall],
		string(domain.DirectionPut):  counts[domain.DirectionPut],
	}
	stats["stream_clients"] = h.clients()

	return SuccessResponse(c, stats)
}

// GetSystemHealth returns dependency status
// GET /health
func (h *AdminHandler) GetSystemHealth(c echo.Context) error {
	dbStatus := "memory"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		dbStatus = "online"
		if err := h.db.Ping(ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				log.WithError(err).Warn("database ping failed")
			}
			dbStatus = "degraded"
		}
	}

	return SuccessResponse(c, map[string]interface{}{
		"status":    "healthy",
		"service":   "signaldesk",
		"db_status": dbStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
