package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taekwondodev/go-qa-forum/internal/models"
	"github.com/taekwondodev/go-qa-forum/internal/repository"
)

func (s *Storage) CheckUserExists(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? OR username = ?)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, email, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := s.stamp.next()
	_, err := s.db.ExecContext(ctx, query,
		user.ID.String(),
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.PasswordHash,
		formatTime(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateUser
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.CreatedAt = createdAt
	return nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, first_name, last_name, username, email, password_hash, created_at
		FROM users
		WHERE email = ?
	`

	var (
		user      models.User
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *Storage) Healthz(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var _ repository.UserRepository = (*Storage)(nil)
