package middleware

import (
	"net/http"
	"time"

	"hotel-booking/pkg/metrics"
)

// Metrics records request counts and latency per chi route pattern.
func Metrics(m *metrics.HTTP) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)

			next.ServeHTTP(rw, r)

			m.Observe(r.Method, routePattern(r), rw.statusCode, time.Since(start))
		})
	}
}
