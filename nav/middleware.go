package nav

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit allows at most requestsPerSecond requests per second through to
// next, with bursts of the same size. A non-positive limit disables limiting.
func RateLimit(requestsPerSecond int, next http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return next
	}
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
