package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taekwondodev/go-qa-forum/internal/config"
)

const (
	testSecret    = "test-secret"
	testUsername  = "testuser"
	testFirstName = "Test"
)

var issuedAt = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func issueToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token, err := config.NewJWT(testSecret).
		WithClock(fixedClock(issuedAt)).
		GenerateJWT(userID, testUsername, testFirstName)
	require.NoError(t, err)
	return token
}

func TestGenerateAndValidateJWT(t *testing.T) {
	userID := uuid.New()
	token := issueToken(t, userID)

	claims, err := config.NewJWT(testSecret).
		WithClock(fixedClock(issuedAt.Add(time.Minute))).
		ValidateJWT(token)
	require.NoError(t, err)

	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, testUsername, claims.Username)
	assert.Equal(t, testFirstName, claims.FirstName)
	assert.Equal(t, issuedAt, claims.IssuedAt.Time.UTC())
	assert.Equal(t, issuedAt.Add(config.TokenTTL), claims.ExpiresAt.Time.UTC())
}

func TestValidateJWTExpiry(t *testing.T) {
	token := issueToken(t, uuid.New())

	testCases := []struct {
		name        string
		at          time.Time
		expectedErr error
	}{
		{"JustIssued", issuedAt, nil},
		{"OneMinuteBeforeExpiry", issuedAt.Add(23*time.Hour + 59*time.Minute), nil},
		{"OneMinuteAfterExpiry", issuedAt.Add(24*time.Hour + time.Minute), jwt.ErrTokenExpired},
		{"WeekLater", issuedAt.Add(7 * 24 * time.Hour), jwt.ErrTokenExpired},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := config.NewJWT(testSecret).
				WithClock(fixedClock(tc.at)).
				ValidateJWT(token)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
			}
		})
	}
}

func TestValidateJWTRejectsForgedTokens(t *testing.T) {
	valid := issueToken(t, uuid.New())
	clock := fixedClock(issuedAt.Add(time.Hour))

	otherKey, err := config.NewJWT("another-secret").
		WithClock(fixedClock(issuedAt)).
		GenerateJWT(uuid.New(), testUsername, testFirstName)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, config.Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(config.TokenTTL)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, config.Claims{
		UserID: uuid.NewString(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	badUserID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, config.Claims{
		UserID: "42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(config.TokenTTL)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{"Empty", ""},
		{"Garbage", "not.a.token"},
		{"SwappedSignature", valid[:strings.LastIndex(valid, ".")] + otherKey[strings.LastIndex(otherKey, "."):]},
		{"WrongKey", otherKey},
		{"AlgNone", noneToken},
		{"MissingExpiry", noExpiry},
		{"NonUUIDSubject", badUserID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := config.NewJWT(testSecret).WithClock(clock).ValidateJWT(tc.token)

			assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
			assert.Nil(t, claims)
		})
	}
}
