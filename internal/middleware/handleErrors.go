package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	customerrors "github.com/taekwondodev/go-qa-forum/internal/customErrors"
)

type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorHandler renders the error returned by h as {"error": "..."}.
// Internal errors are logged and replaced by the generic server message.
func ErrorHandler(logger *slog.Logger, h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			if customerrors.IsInternal(err) {
				logger.ErrorContext(r.Context(), "request failed",
					"method", r.Method,
					"path", r.URL.Path,
					"error", err,
				)
			}
			writeError(w, err)
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := customerrors.GetStatus(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	res := &customerrors.Error{
		Code:    status,
		Message: customerrors.GetMessage(err),
	}

	_ = json.NewEncoder(w).Encode(res)
}
