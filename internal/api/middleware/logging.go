package middleware

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// AccessLog пишет строку на каждый запрос и перехватывает паники
func AccessLog(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusRecorder{ResponseWriter: w}

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("%s %s - panic: %v, request_id=%s", r.Method, r.URL.Path, rec, GetRequestID(r.Context()))
					if sw.status == 0 {
						handlers.RespondInternalError(sw)
					}
					return
				}
				logger.Info("%s %s - status=%d, duration_ms=%d, request_id=%s",
					r.Method, r.URL.Path, sw.status, time.Since(start).Milliseconds(), GetRequestID(r.Context()))
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
