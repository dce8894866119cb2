package middleware

import (
	"github.com/labstack/echo/v4"
)

// NoStore returns middleware that sets the cache-defeating headers on every
// response, including error responses. Widget clients poll frequently and
// anything cached between polls renders stale lesson times.
func NoStore() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
			return next(c)
		}
	}
}
