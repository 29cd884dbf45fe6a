package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/taekwondodev/go-qa-forum/internal/config"
	customerrors "github.com/taekwondodev/go-qa-forum/internal/customErrors"
	"github.com/taekwondodev/go-qa-forum/internal/dto"
	"github.com/taekwondodev/go-qa-forum/internal/hasher"
	"github.com/taekwondodev/go-qa-forum/internal/models"
	"github.com/taekwondodev/go-qa-forum/internal/repository"
	"github.com/taekwondodev/go-qa-forum/internal/telemetry"
)

var tracer = otel.Tracer("github.com/taekwondodev/go-qa-forum/internal/auth/service")

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Validate(accessToken string) (*models.Identity, error)
	HealthCheck(ctx context.Context) (*dto.HealthResponse, error)
}

type AuthServiceImpl struct {
	repo   repository.UserRepository
	jwt    config.Token
	hasher hasher.Hasher

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(repo repository.UserRepository, jwt config.Token, h hasher.Hasher) *AuthServiceImpl {
	return &AuthServiceImpl{repo: repo, jwt: jwt, hasher: h}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res *dto.RegisterResponse, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Register")
	defer func() { telemetry.End(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.CheckUserExists(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, customerrors.ErrUserAlreadyExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	// The pre-check above can lose a race; the unique constraint decides.
	if err := s.repo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, customerrors.ErrUserAlreadyExists
		}
		return nil, err
	}

	return &dto.RegisterResponse{
		Message: "User created successfully",
		UserID:  user.ID.String(),
	}, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (res *dto.LoginResponse, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer func() { telemetry.End(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Spend the same bcrypt work as a real comparison.
			s.hasher.Verify(req.Password, s.timingHash())
			return nil, customerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, customerrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateJWT(user.ID, user.Username, user.FirstName)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  user.Public(),
	}, nil
}

func (s *AuthServiceImpl) Validate(accessToken string) (*models.Identity, error) {
	if accessToken == "" {
		return nil, customerrors.ErrAccessTokenRequired
	}

	claims, err := s.jwt.ValidateJWT(accessToken)
	if err != nil {
		return nil, customerrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, customerrors.ErrInvalidToken
	}

	return &models.Identity{
		UserID:    userID,
		Username:  claims.Username,
		FirstName: claims.FirstName,
	}, nil
}

func (s *AuthServiceImpl) HealthCheck(ctx context.Context) (*dto.HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.repo.Healthz(ctx); err != nil {
		return nil, customerrors.ErrDbUnreachable
	}

	return &dto.HealthResponse{
		Status:   "OK",
		Database: "Connected",
	}, nil
}

func (s *AuthServiceImpl) timingHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(uuid.NewString())
	})
	return s.dummyHash
}

var _ AuthService = (*AuthServiceImpl)(nil)
