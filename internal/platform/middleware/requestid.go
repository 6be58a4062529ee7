// Package middleware holds the Echo middleware shared by every route group:
// request IDs, structured request logging, panic recovery, and per-request
// deadlines.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderRequestID is the header carrying the request correlation ID.
const HeaderRequestID = "X-Request-ID"

const contextKeyRequestID = "request_id"

// RequestIDFrom returns the correlation ID assigned by RequestID, or an empty
// string when the middleware did not run.
func RequestIDFrom(c echo.Context) string {
	rid, _ := c.Get(contextKeyRequestID).(string)
	return rid
}

// RequestID assigns each request a correlation ID. A client-supplied
// X-Request-ID is honored; otherwise a new UUID is generated. The ID is
// stored under the "request_id" context key and echoed in the response.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(HeaderRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Set(contextKeyRequestID, rid)
			c.Response().Header().Set(HeaderRequestID, rid)
			return next(c)
		}
	}
}
