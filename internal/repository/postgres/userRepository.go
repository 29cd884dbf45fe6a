package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taekwondodev/go-qa-forum/internal/models"
	"github.com/taekwondodev/go-qa-forum/internal/repository"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CheckUserExists(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR username = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) SaveUser(ctx context.Context, user *models.User) error {
	query := `
        INSERT INTO users (id, first_name, last_name, username, email, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `

	err := r.db.QueryRowContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.PasswordHash,
	).Scan(&user.CreatedAt)
	if err != nil {
		if hasCode(err, uniqueViolation) {
			return repository.ErrDuplicateUser
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
        SELECT id, first_name, last_name, username, email, password_hash, created_at
        FROM users
        WHERE email = $1
    `

	var user models.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) Healthz(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

var _ repository.UserRepository = (*UserRepository)(nil)
