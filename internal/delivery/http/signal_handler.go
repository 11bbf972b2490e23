package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"signaldesk/internal/delivery/http/dto"
	"signaldesk/internal/domain"
	"signaldesk/internal/usecase"
)

// SignalHandler serves the public signal endpoints
type SignalHandler struct {
	service *usecase.SignalService
}

// NewSignalHandler creates a new SignalHandler
func NewSignalHandler(service *usecase.SignalService) *SignalHandler {
	return &SignalHandler{service: service}
}

// ListAssets returns every supported asset with its market status
// GET /api/assets
func (h *SignalHandler) ListAssets(c echo.Context) error {
	out := make([]dto.AssetStatus, 0, len(domain.Assets))
	for _, a := range domain.Assets {
		out = append(out, dto.AssetStatus{Asset: string(a), OTC: a.IsOTC(), Open: h.service.MarketOpen(a)})
	}
	return SuccessResponse(c, map[string]interface{}{
		"assets":      out,
		"expirations": domain.Expirations,
	})
}

// MarketStatus reports whether one asset is open
// GET /api/market/status?asset=EUR/USD
func (h *SignalHandler) MarketStatus(c echo.Context) error {
	asset, err := domain.ParseAsset(c.QueryParam("asset"))
	if err != nil {
		return BadRequestResponse(c, err.Error())
	}

	return SuccessResponse(c, dto.AssetStatus{Asset: string(asset), OTC: asset.IsOTC(), Open: h.service.MarketOpen(asset)})
}

// Generate returns the signal for the next boundary
// POST /api/signals
func (h *SignalHandler) Generate(c echo.Context) error {
	var req dto.GenerateSignalRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	result, err := h.service.Generate(ctx, domain.SignalRequest{
		Asset:      domain.Asset(req.Asset),
		Expiration: domain.Expiration(req.Expiration),
		Invert:     req.Invert,
	})
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return BadRequestResponse(c, err.Error())
	case errors.Is(err, domain.ErrMarketClosed):
		return ErrorResponse(c, http.StatusConflict, "Market closed", err.Error())
	case err != nil:
		log.WithError(err).Error("signal generation failed")
		return InternalServerErrorResponse(c, "Failed to generate signal", err)
	}

	return SuccessResponse(c, result)
}

// Recent lists recently issued signals
// GET /api/signals/recent?limit=20
func (h *SignalHandler) Recent(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return BadRequestResponse(c, "limit must be an integer")
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	signals, err := h.service.Recent(ctx, limit)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to fetch signals", err)
	}
	if signals == nil {
		signals = []*domain.IssuedSignal{}
	}

	return SuccessResponse(c, map[string]interface{}{
		"signals": signals,
		"count":   len(signals),
	})
}
