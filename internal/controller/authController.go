package controller

import (
	"encoding/json"
	"net/http"

	"github.com/taekwondodev/go-qa-forum/internal/auth/service"
	customerrors "github.com/taekwondodev/go-qa-forum/internal/customErrors"
	"github.com/taekwondodev/go-qa-forum/internal/dto"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) error {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return customerrors.ErrBadRequest
	}

	res, err := c.authService.Register(r.Context(), req)
	if err != nil {
		return err
	}

	return respond(w, http.StatusCreated, res)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) error {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return customerrors.ErrBadRequest
	}

	res, err := c.authService.Login(r.Context(), req)
	if err != nil {
		return err
	}

	return respond(w, http.StatusOK, res)
}

func (c *AuthController) HealthCheck(w http.ResponseWriter, r *http.Request) error {
	res, err := c.authService.HealthCheck(r.Context())
	if err != nil {
		return err
	}

	return respond(w, http.StatusOK, res)
}

func (c *AuthController) Hello(w http.ResponseWriter, r *http.Request) error {
	return respond(w, http.StatusOK, &dto.HelloResponse{
		Message: "API is working",
		Path:    r.URL.Path,
	})
}
