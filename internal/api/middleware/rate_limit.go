package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/cloo-solutions/tryonadmin/internal/api"
	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"golang.org/x/time/rate"
)

// NewRefreshLimiter allows perSecond requests with a burst of one. A
// non-positive rate disables limiting and returns nil.
func NewRefreshLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// RateLimit rejects requests beyond limiter's budget with 429. A nil limiter
// lets everything through.
func RateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				if limit := float64(limiter.Limit()); limit > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(1/limit))))
				}
				api.HandleError(w, domain.ErrRefreshRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
