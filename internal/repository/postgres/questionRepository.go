package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/taekwondodev/go-qa-forum/internal/models"
	"github.com/taekwondodev/go-qa-forum/internal/repository"
)

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]models.QuestionSummary, error) {
	query := `
        SELECT q.id, q.title, q.created_at, u.username
        FROM questions q
        JOIN users u ON q.user_id = u.id
        ORDER BY q.created_at DESC, q.id DESC
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := []models.QuestionSummary{}
	for rows.Next() {
		var q models.QuestionSummary
		if err := rows.Scan(&q.ID, &q.Title, &q.CreatedAt, &q.Username); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	return questions, nil
}

func (r *QuestionRepository) GetQuestion(ctx context.Context, id int64) (*models.QuestionDetail, error) {
	query := `
        SELECT q.id, q.title, q.description, q.created_at, u.username
        FROM questions q
        JOIN users u ON q.user_id = u.id
        WHERE q.id = $1
    `

	var q models.QuestionDetail
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&q.ID, &q.Title, &q.Description, &q.CreatedAt, &q.Username,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	return &q, nil
}

func (r *QuestionRepository) QuestionExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM questions WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check question exists: %w", err)
	}
	return exists, nil
}

func (r *QuestionRepository) SaveQuestion(ctx context.Context, title, description string, userID uuid.UUID) (int64, error) {
	query := `INSERT INTO questions (title, description, user_id) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, title, description, userID).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return id, nil
}

func (r *QuestionRepository) ListAnswers(ctx context.Context, questionID int64) ([]models.AnswerView, error) {
	query := `
        SELECT a.id, a.answer, a.created_at, u.username
        FROM answers a
        JOIN users u ON a.user_id = u.id
        WHERE a.question_id = $1
        ORDER BY a.created_at ASC, a.id ASC
    `

	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	answers := []models.AnswerView{}
	for rows.Next() {
		var a models.AnswerView
		if err := rows.Scan(&a.ID, &a.Answer, &a.CreatedAt, &a.Username); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}

	return answers, nil
}

func (r *QuestionRepository) SaveAnswer(ctx context.Context, body string, questionID int64, userID uuid.UUID) (int64, error) {
	query := `INSERT INTO answers (answer, question_id, user_id) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, body, questionID, userID).Scan(&id); err != nil {
		if violates(err, foreignKeyViolation, answerQuestionFK) {
			return 0, repository.ErrQuestionNotFound
		}
		return 0, fmt.Errorf("insert answer: %w", err)
	}
	return id, nil
}

var _ repository.QuestionRepository = (*QuestionRepository)(nil)
