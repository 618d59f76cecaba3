package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/friendly_mart/internal/transport"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
	"github.com/Skotchmaster/friendly_mart/pkg/tokens"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/service"
)

const claimsKey = "claims"

type Guard func(*tokens.AccessClaims) bool

var (
	Staff    Guard = func(c *tokens.AccessClaims) bool { return c.IsStaff }
	Seller   Guard = func(c *tokens.AccessClaims) bool { return c.IsSeller }
	Delivery Guard = func(c *tokens.AccessClaims) bool { return c.IsDeliveryAgent }
)

// RequireAuth verifies the bearer token. A missing, invalid or expired
// token is a 401; a token that fails guard is a 403.
func RequireAuth(svc *service.ShopService, guard Guard, denied string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx)

			h := c.Request().Header.Get(echo.HeaderAuthorization)
			tok, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || strings.TrimSpace(tok) == "" {
				l.Warn("auth_error", "status", http.StatusUnauthorized, "error", "missing bearer token")
				return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{Error: "Authentication credentials were not provided."})
			}
			claims, err := svc.Authenticate(strings.TrimSpace(tok))
			if err != nil {
				l.Warn("auth_error", "status", http.StatusUnauthorized, "error", err)
				return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{Error: "Given token not valid for any token type"})
			}
			if guard != nil && !guard(claims) {
				l.Warn("auth_error", "status", http.StatusForbidden, "user_id", claims.UserID)
				return c.JSON(http.StatusForbidden, transport.ErrorResponse{Error: denied})
			}

			c.Set(claimsKey, claims)
			c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l.With("user_id", claims.UserID))))
			return next(c)
		}
	}
}

func claimsFrom(c echo.Context) *tokens.AccessClaims {
	claims, _ := c.Get(claimsKey).(*tokens.AccessClaims)
	if claims == nil {
		return &tokens.AccessClaims{}
	}
	return claims
}
