package api

import (
	"log/slog"
	"net/http"

	"github.com/taekwondodev/go-qa-forum/internal/config"
	"github.com/taekwondodev/go-qa-forum/internal/controller"
	customerrors "github.com/taekwondodev/go-qa-forum/internal/customErrors"
	"github.com/taekwondodev/go-qa-forum/internal/middleware"
)

type Dependencies struct {
	Auth      *controller.AuthController
	Questions *controller.QuestionController
	Gate      *middleware.AuthGate
	Limiter   *middleware.RateLimiter
	CORS      config.CORSConfig
	Logger    *slog.Logger
}

type router struct {
	mux    *http.ServeMux
	deps   Dependencies
	logger *slog.Logger
}

// SetupRoutes builds the HTTP handler. Reads are public, writes pass
// through the auth gate.
func SetupRoutes(deps Dependencies) http.Handler {
	rt := &router{
		mux:    http.NewServeMux(),
		deps:   deps,
		logger: deps.Logger,
	}

	rt.setupAuthRoutes()
	rt.setupQuestionRoutes()
	rt.setupSystemRoutes()

	return middleware.Recovery(deps.Logger)(
		middleware.CORS(deps.CORS)(rt.mux),
	)
}

func (rt *router) applyMiddleware(h middleware.HandlerFunc) http.HandlerFunc {
	return middleware.ErrorHandler(rt.logger,
		middleware.TrustProxyMiddleware(
			middleware.LoggingMiddleware(rt.logger, h),
		),
	)
}

func (rt *router) setupAuthRoutes() {
	auth := rt.deps.Auth
	limit := rt.deps.Limiter.Limit

	rt.mux.Handle("POST /api/auth/register", rt.applyMiddleware(limit(auth.Register)))
	rt.mux.Handle("POST /api/auth/login", rt.applyMiddleware(limit(auth.Login)))
}

func (rt *router) setupQuestionRoutes() {
	q := rt.deps.Questions
	gate := rt.deps.Gate

	rt.mux.Handle("GET /api/questions", rt.applyMiddleware(q.List))
	rt.mux.Handle("POST /api/questions", rt.applyMiddleware(gate.Require(q.Create)))
	rt.mux.Handle("GET /api/questions/{id}", rt.applyMiddleware(q.Get))
	rt.mux.Handle("POST /api/questions/{id}/answers", rt.applyMiddleware(gate.Require(q.CreateAnswer)))
}

func (rt *router) setupSystemRoutes() {
	rt.mux.Handle("GET /api/hello", rt.applyMiddleware(rt.deps.Auth.Hello))
	rt.mux.Handle("GET /healthz", rt.applyMiddleware(rt.deps.Auth.HealthCheck))
	rt.mux.Handle("/", rt.applyMiddleware(notFound))
}

func notFound(w http.ResponseWriter, r *http.Request) error {
	return customerrors.ErrNotFound
}
