package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taekwondodev/go-qa-forum/internal/api"
	authservice "github.com/taekwondodev/go-qa-forum/internal/auth/service"
	"github.com/taekwondodev/go-qa-forum/internal/config"
	"github.com/taekwondodev/go-qa-forum/internal/controller"
	"github.com/taekwondodev/go-qa-forum/internal/dto"
	forumservice "github.com/taekwondodev/go-qa-forum/internal/forum/service"
	"github.com/taekwondodev/go-qa-forum/internal/hasher"
	"github.com/taekwondodev/go-qa-forum/internal/middleware"
	"github.com/taekwondodev/go-qa-forum/internal/repository/sqlite"
)

const testSecret = "router-test-secret"

type forum struct {
	handler http.Handler
}

func newForum(t *testing.T, limit config.RateLimitConfig) *forum {
	t.Helper()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := config.OpenSQLite(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db, logger))

	storage := sqlite.New(db)
	authService := authservice.NewAuthService(storage, config.NewJWT(testSecret), hasher.NewBcrypt())
	forumService := forumservice.NewForumService(storage)

	limiter := middleware.NewRateLimiter(limit, logger)
	t.Cleanup(limiter.Stop)

	handler := api.SetupRoutes(api.Dependencies{
		Auth:      controller.NewAuthController(authService),
		Questions: controller.NewQuestionController(forumService),
		Gate:      middleware.NewAuthGate(authService, logger),
		Limiter:   limiter,
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Logger:    logger,
	})

	return &forum{handler: handler}
}

func defaultLimit() config.RateLimitConfig {
	return config.RateLimitConfig{PerSecond: 1000, Burst: 1000}
}

func (f *forum) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func (f *forum) registerAndLogin(t *testing.T, username, email string) string {
	t.Helper()

	w := f.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  username,
		Email:     email,
		Password:  "password1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: "password1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestRegisterLoginDuplicate(t *testing.T) {
	f := newForum(t, defaultLimit())

	register := dto.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "a",
		Email:     "a@x.com",
		Password:  "password1",
	}

	w := f.do(t, http.MethodPost, "/api/auth/register", "", register)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[dto.RegisterResponse](t, w)
	assert.Equal(t, "User created successfully", created.Message)

	w = f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "a@x.com", Password: "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[dto.LoginResponse](t, w)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, created.UserID, login.User.ID.String())
	assert.NotContains(t, w.Body.String(), "password")

	claims, err := config.NewJWT(testSecret).ValidateJWT(login.Token)
	require.NoError(t, err)
	assert.Equal(t, created.UserID, claims.UserID)

	w = f.do(t, http.MethodPost, "/api/auth/register", "", register)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email or username already exists"}`, w.Body.String())
}

func TestRegisterLongPassword(t *testing.T) {
	f := newForum(t, defaultLimit())
	password := strings.Repeat("p", 73)

	w := f.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "a",
		Email:     "a@x.com",
		Password:  password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "a@x.com", Password: password})
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "a@x.com", Password: password[:72]})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newForum(t, defaultLimit())
	f.registerAndLogin(t, "a", "a@x.com")

	wrongPassword := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "a@x.com", Password: "password2"})
	unknownEmail := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "b@x.com", Password: "password1"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, unknownEmail.Body.String())
}

func TestWriteRoutesRequireToken(t *testing.T) {
	f := newForum(t, defaultLimit())
	token := f.registerAndLogin(t, "a", "a@x.com")

	expired, err := config.NewJWT(testSecret).
		WithClock(func() time.Time { return time.Now().Add(-25 * time.Hour) }).
		GenerateJWT(userIDOf(t, token), "a", "Ada")
	require.NoError(t, err)

	forged, err := config.NewJWT("another-secret").GenerateJWT(userIDOf(t, token), "a", "Ada")
	require.NoError(t, err)

	testCases := []struct {
		name           string
		token          string
		body           any
		expectedStatus int
		expectedBody   string
	}{
		{"NoToken", "", dto.CreateQuestionRequest{Title: "t", Description: "d"}, http.StatusUnauthorized, `{"error":"Access token required"}`},
		{"NoTokenEmptyBody", "", nil, http.StatusUnauthorized, `{"error":"Access token required"}`},
		{"Garbage", "not-a-jwt", dto.CreateQuestionRequest{Title: "t", Description: "d"}, http.StatusForbidden, `{"error":"Invalid token"}`},
		{"Expired", expired, dto.CreateQuestionRequest{Title: "t", Description: "d"}, http.StatusForbidden, `{"error":"Invalid token"}`},
		{"WrongKey", forged, dto.CreateQuestionRequest{Title: "t", Description: "d"}, http.StatusForbidden, `{"error":"Invalid token"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/api/questions", tc.token, tc.body)
			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.JSONEq(t, tc.expectedBody, w.Body.String())

			w = f.do(t, http.MethodPost, "/api/questions/1/answers", tc.token, dto.CreateAnswerRequest{Answer: "x"})
			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}

	w := f.do(t, http.MethodGet, "/api/questions", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestQuestionLifecycle(t *testing.T) {
	f := newForum(t, defaultLimit())
	token := f.registerAndLogin(t, "a", "a@x.com")

	w := f.do(t, http.MethodPost, "/api/questions", token, dto.CreateQuestionRequest{
		Title:       strings.Repeat("x", 201),
		Description: "d",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Title must be 200 characters or less"}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/questions", token, dto.CreateQuestionRequest{Title: "first"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Title and description are required"}`, w.Body.String())

	var ids []int64
	for _, title := range []string{"first", "second"} {
		w = f.do(t, http.MethodPost, "/api/questions", token, dto.CreateQuestionRequest{Title: title, Description: "d"})
		require.Equal(t, http.StatusCreated, w.Code)
		res := decode[dto.CreateQuestionResponse](t, w)
		assert.Equal(t, "Question created successfully", res.Message)
		ids = append(ids, res.QuestionID)
	}

	w = f.do(t, http.MethodGet, "/api/questions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]struct {
		ID       int64  `json:"id"`
		Title    string `json:"title"`
		Username string `json:"username"`
	}](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	assert.Equal(t, "first", list[1].Title)
	assert.Equal(t, "a", list[0].Username)

	const n = 3
	for i := range n {
		w = f.do(t, http.MethodPost, fmt.Sprintf("/api/questions/%d/answers", ids[0]), token,
			dto.CreateAnswerRequest{Answer: fmt.Sprintf("answer %d", i)})
		require.Equal(t, http.StatusCreated, w.Code)
		res := decode[dto.CreateAnswerResponse](t, w)
		assert.Equal(t, "Answer posted successfully", res.Message)
	}

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/questions/%d", ids[0]), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[dto.QuestionResponse](t, w)
	assert.Equal(t, "first", detail.Question.Title)
	assert.Equal(t, "d", detail.Question.Description)
	require.Len(t, detail.Answers, n)
	for i, a := range detail.Answers {
		assert.Equal(t, fmt.Sprintf("answer %d", i), a.Answer)
		assert.Equal(t, "a", a.Username)
	}

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/questions/%d", ids[1]), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"answers":[]`)

	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/questions/%d/answers", ids[0]), token, dto.CreateAnswerRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Answer is required"}`, w.Body.String())
}

func TestMissingQuestion(t *testing.T) {
	f := newForum(t, defaultLimit())
	token := f.registerAndLogin(t, "a", "a@x.com")

	w := f.do(t, http.MethodPost, "/api/questions/999/answers", token, dto.CreateAnswerRequest{Answer: "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Question not found"}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/questions/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Question not found"}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/questions/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSystemRoutes(t *testing.T) {
	f := newForum(t, defaultLimit())

	w := f.do(t, http.MethodGet, "/api/hello", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"API is working","path":"/api/hello"}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","database":"Connected"}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/auth/login", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, w.Body.String())
}

func TestPreflight(t *testing.T) {
	f := newForum(t, defaultLimit())

	req := httptest.NewRequest(http.MethodOptions, "/api/questions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	f := newForum(t, config.RateLimitConfig{PerSecond: 0.001, Burst: 1})

	login := dto.LoginRequest{Email: "a@x.com", Password: "password1"}

	w := f.do(t, http.MethodPost, "/api/auth/login", "", login)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodPost, "/api/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/questions", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func userIDOf(t *testing.T, token string) uuid.UUID {
	t.Helper()
	claims, err := config.NewJWT(testSecret).ValidateJWT(token)
	require.NoError(t, err)
	id, err := uuid.Parse(claims.UserID)
	require.NoError(t, err)
	return id
}
