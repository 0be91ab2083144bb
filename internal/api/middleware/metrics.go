package middleware

import (
	"net/http"
	"time"
)

// RequestRecorder records HTTP request counts and durations.
type RequestRecorder interface {
	RecordRequest(method, route, statusClass string, duration time.Duration)
}

// Metrics returns middleware that records request count and duration.
// When recorder is nil, recording is skipped. Put Metrics outermost so the
// measured duration is full request time.
func Metrics(recorder RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if recorder == nil {
				next.ServeHTTP(w, r)

				return
			}

			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			recorder.RecordRequest(r.Method, r.URL.Path, statusToClass(rw.statusCode), time.Since(start))
		})
	}
}

// statusToClass maps HTTP status code to 1xx..5xx.
func statusToClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	case status >= 100:
		return "1xx"
	default:
		return "unknown"
	}
}
