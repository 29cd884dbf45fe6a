package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/taekwondodev/go-qa-forum/internal/models"
)

var (
	// ErrUserNotFound indicates that no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser indicates that the insert hit the unique constraint
	// on username or email.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrQuestionNotFound indicates that the referenced question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
)

// UserRepository is the credential store.
type UserRepository interface {
	// CheckUserExists reports whether any user already holds the username
	// or the email. It is advisory: SaveUser still returns ErrDuplicateUser
	// when a concurrent insert wins.
	CheckUserExists(ctx context.Context, username, email string) (bool, error)
	SaveUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	Healthz(ctx context.Context) error
}

// QuestionRepository is the content store for questions and their answers.
type QuestionRepository interface {
	ListQuestions(ctx context.Context) ([]models.QuestionSummary, error)
	GetQuestion(ctx context.Context, id int64) (*models.QuestionDetail, error)
	QuestionExists(ctx context.Context, id int64) (bool, error)
	SaveQuestion(ctx context.Context, title, description string, userID uuid.UUID) (int64, error)
	ListAnswers(ctx context.Context, questionID int64) ([]models.AnswerView, error)
	SaveAnswer(ctx context.Context, body string, questionID int64, userID uuid.UUID) (int64, error)
}
