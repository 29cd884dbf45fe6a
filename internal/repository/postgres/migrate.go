package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/taekwondodev/go-qa-forum/internal/repository"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	answerQuestionFK = "answers_question_id_fkey"
)

// Migrate brings the schema up to the latest embedded migration.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(repository.MigrationLogger{Logger: logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

func violates(err error, code pq.ErrorCode, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code && pqErr.Constraint == constraint
}
