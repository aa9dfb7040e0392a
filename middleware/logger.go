package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/sports-api/models"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const requestUserKey contextKey = "request_user"

// requestUser заполняется в Authenticate, если запрос прошёл проверку токена.
type requestUser struct {
	id   int
	role models.UserRole
}

// RequestLogger logs one line per request through slog.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			user := &requestUser{}
			r = r.WithContext(context.WithValue(r.Context(), requestUserKey, user))

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				attrs := []any{
					slog.String("request_id", chiMiddleware.GetReqID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", status),
					slog.Int("bytes", ww.BytesWritten()),
					slog.Duration("duration", time.Since(start)),
				}
				if user.id > 0 {
					attrs = append(attrs, slog.Int("user_id", user.id))
				}
				if user.role != "" {
					attrs = append(attrs, slog.String("role", string(user.role)))
				}
				logger.Info("request", attrs...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
