package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signaldesk/internal/domain"
	"signaldesk/internal/middleware"
	"signaldesk/internal/repository"
	"signaldesk/internal/usecase"
)

type weekdayHours struct{}

// closed for non-OTC assets on weekends only
func (weekdayHours) IsOpen(a domain.Asset, t time.Time) bool {
	return a.IsOTC() || (t.Weekday() != time.Saturday && t.Weekday() != time.Sunday)
}

type fixture struct {
	e     *echo.Echo
	store *repository.MemoryStore
	auth  *middleware.Authenticator
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	return newFixtureWithAdmin(t, now, "password1")
}

// an empty adminPassword leaves the store without accounts
func newFixtureWithAdmin(t *testing.T, now time.Time, adminPassword string) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	auth := middleware.NewAuthenticator("test-secret", store.Users())
	require.NoError(t, usecase.EnsureAdmin(context.Background(), store.Users(), "admin", adminPassword))

	svc := usecase.NewSignalService(weekdayHours{}, store, store).WithClock(func() time.Time { return now })

	e := echo.New()
	SetupRoutes(e, &RouterConfig{
		AuthHandler:   NewAuthHandler(store.Users(), auth, false),
		SignalHandler: NewSignalHandler(svc),
		AdminHandler:  NewAdminHandler(nil, store, store, store.Users(), func() int { return 0 }),
		Auth:          auth,
		Stream:        http.NotFoundHandler(),
	})
	return &fixture{e: e, store: store, auth: auth}
}

func (f *fixture) do(t *testing.T, method, target, body, token string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	var resp Response
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

// Wednesday
var midweek = time.Date(2025, time.March, 12, 14, 32, 10, 0, time.UTC)

func TestGenerateSignalEndpoint(t *testing.T) {
	f := newFixture(t, midweek)

	rec, resp := f.do(t, http.MethodPost, "/api/signals", `{"asset":"EUR/USD","expiration":"1m"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", resp.Status)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "14:33", data["target_time"])
	assert.Equal(t, "random", data["source"])
	assert.Contains(t, []interface{}{"CALL", "PUT"}, data["direction"])

	rec, resp = f.do(t, http.MethodPost, "/api/signals", `{"asset":"EUR/USD","expiration":"1m","invert":true}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, data["direction"], resp.Data.(map[string]interface{})["direction"])

	rec, resp = f.do(t, http.MethodGet, "/api/signals/recent?limit=5", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, resp.Data.(map[string]interface{})["count"])
}

func TestGenerateSignalErrors(t *testing.T) {
	saturday := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, saturday)

	rec, _ := f.do(t, http.MethodPost, "/api/signals", `{"asset":"BTC/USD","expiration":"1m"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/api/signals", `{"asset":"EUR/USD","expiration":"15m"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp := f.do(t, http.MethodPost, "/api/signals", `{"asset":"EUR/USD","expiration":"5m"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "error", resp.Status)

	rec, _ = f.do(t, http.MethodPost, "/api/signals", `{"asset":"EUR/USD (OTC)","expiration":"5m"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/signals/recent?limit=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarketEndpoints(t *testing.T) {
	f := newFixture(t, time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC))

	rec, resp := f.do(t, http.MethodGet, "/api/market/status?asset="+url.QueryEscape("EUR/JPY"), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, resp.Data.(map[string]interface{})["open"])

	rec, resp = f.do(t, http.MethodGet, "/api/market/status?asset="+url.QueryEscape("EUR/JPY (OTC)"), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp.Data.(map[string]interface{})["open"])

	rec, _ = f.do(t, http.MethodGet, "/api/market/status?asset=XAU", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp = f.do(t, http.MethodGet, "/api/assets", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assets := resp.Data.(map[string]interface{})["assets"].([]interface{})
	assert.Len(t, assets, len(domain.Assets))
}

func login(t *testing.T, f *fixture, password string) (int, string) {
	t.Helper()
	rec, resp := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"`+password+`"}`, "")
	if rec.Code != http.StatusOK {
		return rec.Code, ""
	}
	return rec.Code, resp.Data.(map[string]interface{})["token"].(string)
}

func TestAdminSettingsFlow(t *testing.T) {
	f := newFixture(t, time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC))

	code, _ := login(t, f, "wrong")
	assert.Equal(t, http.StatusUnauthorized, code)

	rec, _ := f.do(t, http.MethodGet, "/api/admin/settings", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	code, token := login(t, f, "password1")
	require.Equal(t, http.StatusOK, code)

	rec, _ = f.do(t, http.MethodPut, "/api/admin/settings/unknown", `{"value":"1"}`, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(t, http.MethodPut, "/api/admin/settings/enforce_market_hours", `{"value":"maybe"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodPut, "/api/admin/settings/enforce_market_hours", `{"value":"false"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	// closed weekend market now serves signals
	rec, _ = f.do(t, http.MethodPost, "/api/signals", `{"asset":"EUR/USD","expiration":"5m"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp := f.do(t, http.MethodGet, "/api/admin/settings", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, resp.Data.(map[string]interface{})["count"])

	rec, resp = f.do(t, http.MethodGet, "/api/admin/statistics", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := resp.Data.(map[string]interface{})
	assert.EqualValues(t, 1, stats["total_users"])
	assert.EqualValues(t, 0, stats["stream_clients"])
}

func TestAdminRejectsTokenWithoutAccount(t *testing.T) {
	saturday := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	f := newFixtureWithAdmin(t, saturday, "")

	n, err := f.store.Users().Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)

	forged, err := f.auth.GenerateJWT(uuid.New(), domain.RoleAdmin)
	require.NoError(t, err)

	rec, _ := f.do(t, http.MethodPut, "/api/admin/settings/enforce_market_hours", `{"value":"false"}`, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/admin/settings", "", forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// enforcement is untouched
	rec, _ = f.do(t, http.MethodPost, "/api/signals", `{"asset":"EUR/USD","expiration":"5m"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminRejectsTokenForUnknownAccount(t *testing.T) {
	f := newFixture(t, midweek)

	forged, err := f.auth.GenerateJWT(uuid.New(), domain.RoleAdmin)
	require.NoError(t, err)

	rec, _ := f.do(t, http.MethodPut, "/api/admin/settings/enforce_market_hours", `{"value":"false"}`, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, token := login(t, f, "password1")
	rec, _ = f.do(t, http.MethodGet, "/api/admin/settings", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, midweek)
	rec, resp := f.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "memory", resp.Data.(map[string]interface{})["db_status"])
}
