package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	customerrors "github.com/taekwondodev/go-qa-forum/internal/customErrors"
)

func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.ErrorContext(r.Context(), "panic recovered",
						"error", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					writeError(w, customerrors.ErrInternalServer)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
