package config

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the fixed lifetime of every access token.
const TokenTTL = 24 * time.Hour

type Claims struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	jwt.RegisteredClaims
}

type Token interface {
	GenerateJWT(userID uuid.UUID, username, firstName string) (string, error)
	ValidateJWT(tokenString string) (*Claims, error)
}

type JWT struct {
	jwtSecret []byte
	now       func() time.Time
}

func NewJWT(secret string) *JWT {
	return &JWT{
		jwtSecret: []byte(secret),
		now:       time.Now,
	}
}

// WithClock replaces the time source used for issuing and validating.
func (j *JWT) WithClock(now func() time.Time) *JWT {
	j.now = now
	return j
}

func (j *JWT) GenerateJWT(userID uuid.UUID, username, firstName string) (string, error) {
	issuedAt := j.now()

	claims := Claims{
		UserID:    userID.String(),
		Username:  username,
		FirstName: firstName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenTTL)),
		},
	}

	return j.generateToken(claims)
}

// ValidateJWT reports jwt.ErrTokenExpired for a well-signed token past its
// expiry and jwt.ErrSignatureInvalid for everything else.
func (j *JWT) ValidateJWT(tokenString string) (*Claims, error) {
	token, claims, err := j.parseJWT(tokenString)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, jwt.ErrTokenExpired
	case err != nil || !token.Valid:
		return nil, jwt.ErrSignatureInvalid
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, jwt.ErrSignatureInvalid
	}

	return claims, nil
}

func (j *JWT) generateToken(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(j.jwtSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (j *JWT) parseJWT(tokenString string) (*jwt.Token, *Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return j.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)

	return token, claims, err
}
