package httpserver

import (
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	apperrors "github.com/pscheid92/flashgate/internal/platform/errors"
	"golang.org/x/time/rate"
)

const rateLimiterExpiry = 5 * time.Minute

// newRateLimiter gives every client IP one token bucket per route. A visit
// to / and the /register hit its redirect triggers draw from different
// buckets, so a single visit never spends the same budget twice.
func newRateLimiter(ratePerSecond float64, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(ratePerSecond),
			Burst:     burst,
			ExpiresIn: rateLimiterExpiry,
		},
	)
	wait := retryAfter(ratePerSecond)

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		IdentifierExtractor: rateLimitKey,
		Store:               store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			c.Response().Header().Set("Retry-After", wait)
			return apperrors.RateLimitedError("rate limit exceeded").WithField("route", c.Path())
		},
	})
}

// rateLimitKey scopes the bucket to the matched route pattern and the
// client address. RealIP is only as trustworthy as the server's IPExtractor.
func rateLimitKey(c echo.Context) (string, error) {
	return c.Path() + "|" + c.RealIP(), nil
}

// retryAfter is the whole number of seconds until one token refills.
func retryAfter(ratePerSecond float64) string {
	secs := int(math.Ceil(1 / ratePerSecond))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
