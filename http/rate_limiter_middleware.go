package http

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"unburyme/logger"
)

// RateLimitMiddleware charges cost tokens per request to the client's bucket
// and reports the bucket state in X-RateLimit-* headers. Rejected requests
// get 429 with Retry-After in whole seconds.
func RateLimitMiddleware(limiter *RateLimiter, cost int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// RealIP may already have stripped the port.
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			d := limiter.Take(ip, cost)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

			if !d.Allowed {
				retry := int(math.Ceil(d.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
				logger.ForComponent(r.Context(), nil, logger.ComponentRateLimit).WarnContext(r.Context(), "rate limit exceeded",
					logger.FieldClientIP, ip,
					"cost", cost,
					"remaining", d.Remaining)
				respondRaw(w, r, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
