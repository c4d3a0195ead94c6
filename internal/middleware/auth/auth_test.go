package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/flower_shop/internal/tokens"
)

func newIssuer() *tokens.Issuer {
	return &tokens.Issuer{Secret: []byte("s"), Issuer: "i", Audience: "a", TTL: time.Hour}
}

func newEcho(iss *tokens.Issuer, roles ...string) *echo.Echo {
	e := echo.New()
	mws := []echo.MiddlewareFunc{RequireLogin(iss)}
	if len(roles) > 0 {
		mws = append(mws, RequireRole(roles...))
	}
	e.GET("/me", func(c echo.Context) error {
		id, ok := IdentityFrom(c.Request().Context())
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, id)
	}, mws...)
	return e
}

func do(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireLogin(t *testing.T) {
	t.Parallel()

	iss := newIssuer()
	e := newEcho(iss)

	token, _, err := iss.Issue(5, "daisy", "user", time.Now())
	require.NoError(t, err)

	rec := do(e, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"UserID":5`)
	assert.Contains(t, rec.Body.String(), `"Username":"daisy"`)

	assert.Equal(t, http.StatusUnauthorized, do(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, "garbage").Code)
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	iss := newIssuer()
	e := newEcho(iss, "admin")

	userTok, _, err := iss.Issue(1, "u", "user", time.Now())
	require.NoError(t, err)
	adminTok, _, err := iss.Issue(2, "a", "admin", time.Now())
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, do(e, userTok).Code)
	assert.Equal(t, http.StatusOK, do(e, adminTok).Code)
}
