package middleware

import (
	"net/http"
	"strings"

	"welfare-backend/pkg/token"

	"github.com/labstack/echo/v4"
)

// HeaderAuthToken matches the client's auth header.
const HeaderAuthToken = "auth-token"

const (
	ctxMemberID = "member_id"
	ctxRole     = "role"
)

// Auth resolves the caller from the auth-token header and stores the
// member id and role on the request context. Identity checks downstream
// compare member ids, never raw tokens.
func Auth(tm *token.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderAuthToken))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing auth-token"})
			}
			claims, err := tm.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid auth-token"})
			}
			c.Set(ctxMemberID, claims.MemberID)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}

// AdminOnly gates admin routes; it must run after Auth.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Role(c) != "admin" {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
			}
			return next(c)
		}
	}
}

// MemberID returns the authenticated member id, or "".
func MemberID(c echo.Context) string {
	v, _ := c.Get(ctxMemberID).(string)
	return v
}

// Role returns the authenticated member's role, or "".
func Role(c echo.Context) string {
	v, _ := c.Get(ctxRole).(string)
	return v
}
