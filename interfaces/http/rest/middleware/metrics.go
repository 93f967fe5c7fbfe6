package middleware

import (
	"net/http"
	"time"

	"tomosu-backend/application/cache"
)

// RequestTimer feeds every request's latency into the engine's performance
// metrics, which back the /system/performance endpoint and the CloudWatch
// flusher.
func RequestTimer(engine *cache.Engine) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			engine.RecordRequestTime(time.Since(start))
		})
	}
}
