package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/oauth"
	"github.com/Skotchmaster/flower_shop/internal/service"
)

const oauthStateCookie = "oauth_state"

type GoogleOAuth interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Profile, error)
}

type AuthHTTP struct {
	Svc    *service.AuthService
	Google GoogleOAuth
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	res, err := h.Svc.Authenticate(ctx, c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		return respondError(l, "login", err)
	}

	l.Info("login_success", "user_id", res.UserID)
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	user, err := h.Svc.Register(ctx, c.FormValue("username"), c.FormValue("password"), c.FormValue("email"))
	if err != nil {
		return respondError(l, "register", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"status":   user.Status,
	})
}

func (h *AuthHTTP) GoogleLogin(c echo.Context) error {
	if h.Google == nil {
		return echo.NewHTTPError(http.StatusNotFound, "google sign-in is not configured")
	}

	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, h.Google.AuthCodeURL(state))
}

func (h *AuthHTTP) GoogleCallback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.google_callback")

	if h.Google == nil {
		return echo.NewHTTPError(http.StatusNotFound, "google sign-in is not configured")
	}

	cookie, err := c.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return badRequest(l, "google_callback", "invalid oauth state", err)
	}

	profile, err := h.Google.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		l.Warn("google_callback_error", "status", 401, "reason", "exchange failed", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "google sign-in failed")
	}

	res, err := h.Svc.GoogleSignIn(ctx, profile.Email, profile.Name)
	if err != nil {
		return respondError(l, "google_callback", err)
	}
	return c.JSON(http.StatusOK, res)
}
