package middleware

import (
	"github.com/bookswap/bookswap-backend/internal/api/response"
	"github.com/bookswap/bookswap-backend/internal/session"
	"github.com/labstack/echo/v4"
)

// accountIDContextKey is the echo context key the authenticated account id
// is stored under
const accountIDContextKey = "account_id"

// RequireSession returns a middleware that rejects requests without a valid
// session cookie and exposes the authenticated account id to handlers.
func RequireSession(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			accountID, ok := sessions.AccountID(c.Request())
			if !ok {
				return response.Unauthorized(c, "authentication required")
			}

			c.Set(accountIDContextKey, accountID)
			return next(c)
		}
	}
}

// AccountID extracts the authenticated account id set by RequireSession.
// The second return is false on routes that skipped the middleware.
func AccountID(c echo.Context) (uint, bool) {
	id, ok := c.Get(accountIDContextKey).(uint)
	return id, ok
}
