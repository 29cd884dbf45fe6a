package middleware

import (
	"net/http"
	"strings"

	"github.com/taekwondodev/go-qa-forum/internal/config"
)

const (
	allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowHeaders = "Content-Type, Authorization"
)

// CORS echoes allowed origins back and answers every preflight with 204.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[strings.ToLower(strings.TrimSpace(o))] = struct{}{}
	}

	allowed := func(origin string) bool {
		o := strings.ToLower(origin)
		if _, ok := origins[o]; ok {
			return true
		}
		for _, suffix := range cfg.AllowedSuffixes {
			suffix = strings.ToLower(strings.TrimSpace(suffix))
			if suffix != "" && strings.HasSuffix(o, suffix) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if origin := r.Header.Get("Origin"); origin != "" && allowed(origin) {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
