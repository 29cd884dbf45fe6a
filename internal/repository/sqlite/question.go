package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/taekwondodev/go-qa-forum/internal/models"
	"github.com/taekwondodev/go-qa-forum/internal/repository"
)

func (s *Storage) ListQuestions(ctx context.Context) ([]models.QuestionSummary, error) {
	query := `
		SELECT q.id, q.title, q.created_at, u.username
		FROM questions q
		JOIN users u ON q.user_id = u.id
		ORDER BY q.created_at DESC, q.id DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := []models.QuestionSummary{}
	for rows.Next() {
		var (
			q         models.QuestionSummary
			createdAt string
		)
		if err := rows.Scan(&q.ID, &q.Title, &createdAt, &q.Username); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if q.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	return questions, nil
}

func (s *Storage) GetQuestion(ctx context.Context, id int64) (*models.QuestionDetail, error) {
	query := `
		SELECT q.id, q.title, q.description, q.created_at, u.username
		FROM questions q
		JOIN users u ON q.user_id = u.id
		WHERE q.id = ?
	`

	var (
		q         models.QuestionDetail
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&q.ID, &q.Title, &q.Description, &createdAt, &q.Username,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	if q.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return &q, nil
}

func (s *Storage) QuestionExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM questions WHERE id = ?)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check question exists: %w", err)
	}
	return exists, nil
}

func (s *Storage) SaveQuestion(ctx context.Context, title, description string, userID uuid.UUID) (int64, error) {
	query := `INSERT INTO questions (title, description, user_id, created_at) VALUES (?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query, title, description, userID.String(), formatTime(s.stamp.next()))
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("question id: %w", err)
	}
	return id, nil
}

func (s *Storage) ListAnswers(ctx context.Context, questionID int64) ([]models.AnswerView, error) {
	query := `
		SELECT a.id, a.answer, a.created_at, u.username
		FROM answers a
		JOIN users u ON a.user_id = u.id
		WHERE a.question_id = ?
		ORDER BY a.created_at ASC, a.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	answers := []models.AnswerView{}
	for rows.Next() {
		var (
			a         models.AnswerView
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.Answer, &createdAt, &a.Username); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}

	return answers, nil
}

func (s *Storage) SaveAnswer(ctx context.Context, body string, questionID int64, userID uuid.UUID) (int64, error) {
	query := `INSERT INTO answers (answer, question_id, user_id, created_at) VALUES (?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query, body, questionID, userID.String(), formatTime(s.stamp.next()))
	if err != nil {
		if isForeignKeyViolation(err) {
			// SQLite does not say which reference failed.
			if exists, qErr := s.QuestionExists(ctx, questionID); qErr == nil && !exists {
				return 0, repository.ErrQuestionNotFound
			}
		}
		return 0, fmt.Errorf("insert answer: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("answer id: %w", err)
	}
	return id, nil
}

var _ repository.QuestionRepository = (*Storage)(nil)
