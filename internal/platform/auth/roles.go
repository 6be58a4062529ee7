// Package auth provides the role gate for the dashboard's route groups. The
// deployment is a single-tenant terminal behind the hospital network, so the
// active role travels as a plain request header rather than a signed token.
package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// HeaderRole carries the caller's active role.
const HeaderRole = "X-Role"

// Known roles.
const (
	RoleAdmin      = "admin"
	RolePharmacist = "pharmacist"
	RoleEmployee   = "employee"
)

var validRoles = map[string]bool{
	RoleAdmin:      true,
	RolePharmacist: true,
	RoleEmployee:   true,
}

const contextKeyRole = "role"

// ExtractRole reads and validates the X-Role header, storing the role in the
// Echo context. Requests with a missing or unknown role are rejected with
// 401 so a misconfigured terminal fails loudly.
func ExtractRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderRole)))
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing X-Role header")
			}
			if !validRoles[role] {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown role: "+role)
			}
			c.Set(contextKeyRole, role)
			return next(c)
		}
	}
}

// RoleFromContext returns the validated role, or "" before ExtractRole ran.
func RoleFromContext(c echo.Context) string {
	role, _ := c.Get(contextKeyRole).(string)
	return role
}

// RequireRole gates a route group to the given roles. Admin always passes.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			has := RoleFromContext(c)
			for _, required := range roles {
				if has == required || has == RoleAdmin {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				"required role: "+strings.Join(roles, " or "))
		}
	}
}
