package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/tokens"
)

const ctxClaims = "claims"

// RequireLogin validates the bearer token and stores the caller's Identity
// in the request context.
func RequireLogin(iss *tokens.Issuer) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ctxClaims,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return iss.Parse(auth)
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get(ctxClaims).(*tokens.Claims)
			if !ok {
				return
			}
			ctx := WithIdentity(c.Request().Context(), Identity{
				UserID:   claims.UserID,
				Username: claims.Name,
				Role:     claims.Role,
			})
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).Warn("auth_error", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		},
	})
}
