package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	customerrors "github.com/taekwondodev/go-qa-forum/internal/customErrors"
	"github.com/taekwondodev/go-qa-forum/internal/models"
)

type identityKey struct{}

// TokenValidator turns a bearer token into the caller's identity.
type TokenValidator interface {
	Validate(accessToken string) (*models.Identity, error)
}

// AuthGate rejects requests that do not carry a valid bearer token.
// It never touches the database; the token alone establishes identity.
type AuthGate struct {
	validator TokenValidator
	logger    *slog.Logger
}

func NewAuthGate(validator TokenValidator, logger *slog.Logger) *AuthGate {
	return &AuthGate{validator: validator, logger: logger}
}

// Require answers 401 when no bearer token is present and 403 when the
// token does not verify. Otherwise the identity is attached to the request
// context before next runs.
func (g *AuthGate) Require(next HandlerFunc) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			return customerrors.ErrAccessTokenRequired
		}

		identity, err := g.validator.Validate(token)
		if err != nil {
			g.logger.DebugContext(r.Context(), "token rejected",
				"path", r.URL.Path,
				"error", err,
			)
			return err
		}

		return next(w, r.WithContext(WithIdentity(r.Context(), identity)))
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *models.Identity {
	identity, _ := ctx.Value(identityKey{}).(*models.Identity)
	return identity
}
