package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signaldesk/internal/domain"
	"signaldesk/internal/repository"
)

func withAccounts(t *testing.T, roles ...string) (domain.UserRepository, []uuid.UUID) {
	t.Helper()
	users := repository.NewMemoryStore().Users()
	ids := make([]uuid.UUID, len(roles))
	for i, role := range roles {
		ids[i] = uuid.New()
		require.NoError(t, users.Create(context.Background(), &domain.User{ID: ids[i], Username: role + "-" + ids[i].String(), Role: role}))
	}
	return users, ids
}

func run(t *testing.T, auth *Authenticator, header string, cookie *http.Cookie, chain func(echo.HandlerFunc) echo.HandlerFunc) (int, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := chain(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code, c
	}
	require.NoError(t, err)
	return rec.Code, c
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	users, ids := withAccounts(t, domain.RoleAdmin)
	auth := NewAuthenticator("s3cret", users)
	id := ids[0]
	token, err := auth.GenerateJWT(id, domain.RoleAdmin)
	require.NoError(t, err)

	code, c := run(t, auth, "Bearer "+token, nil, auth.Middleware)
	assert.Equal(t, http.StatusOK, code)
	got, err := GetUserID(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	code, _ = run(t, auth, "", &http.Cookie{Name: "token", Value: token}, auth.Middleware)
	assert.Equal(t, http.StatusOK, code)
}

func TestMiddlewareRejects(t *testing.T) {
	users, ids := withAccounts(t, domain.RoleAdmin)
	auth := NewAuthenticator("s3cret", users)
	other, err := NewAuthenticator("other", users).GenerateJWT(ids[0], domain.RoleAdmin)
	require.NoError(t, err)

	code, _ := run(t, auth, "", nil, auth.Middleware)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = run(t, auth, "Token abc", nil, auth.Middleware)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = run(t, auth, "Bearer "+other, nil, auth.Middleware)
	assert.Equal(t, http.StatusUnauthorized, code)

	// well signed, but no such account
	ghost, err := auth.GenerateJWT(uuid.New(), domain.RoleAdmin)
	require.NoError(t, err)
	code, _ = run(t, auth, "Bearer "+ghost, nil, auth.Middleware)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminMiddleware(t *testing.T) {
	users, ids := withAccounts(t, domain.RoleViewer, domain.RoleAdmin)
	auth := NewAuthenticator("s3cret", users)
	both := func(next echo.HandlerFunc) echo.HandlerFunc { return auth.Middleware(AdminMiddleware(next)) }

	viewer, err := auth.GenerateJWT(ids[0], domain.RoleViewer)
	require.NoError(t, err)
	code, _ := run(t, auth, "Bearer "+viewer, nil, both)
	assert.Equal(t, http.StatusForbidden, code)

	// the stored role wins over an inflated claim
	promoted, err := auth.GenerateJWT(ids[0], domain.RoleAdmin)
	require.NoError(t, err)
	code, _ = run(t, auth, "Bearer "+promoted, nil, both)
	assert.Equal(t, http.StatusForbidden, code)

	admin, err := auth.GenerateJWT(ids[1], domain.RoleAdmin)
	require.NoError(t, err)
	code, _ = run(t, auth, "Bearer "+admin, nil, both)
	assert.Equal(t, http.StatusOK, code)
}
