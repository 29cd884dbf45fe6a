package dto

import (
	customerrors "github.com/taekwondodev/go-qa-forum/internal/customErrors"
	"github.com/taekwondodev/go-qa-forum/internal/models"
)

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

func (r *RegisterRequest) Validate() error {
	failed, err := firstFailure(r)
	switch {
	case err != nil:
		return err
	case failed == nil:
		return nil
	case hasTag(failed, "required"):
		return customerrors.ErrMissingFields
	default:
		return customerrors.ErrPasswordTooShort
	}
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	failed, err := firstFailure(r)
	if err != nil {
		return err
	}
	if failed != nil {
		return customerrors.ErrMissingCredentials
	}
	return nil
}

type LoginResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}
