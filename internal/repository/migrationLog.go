package repository

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// MigrationLogger satisfies goose.Logger so migration output joins the
// structured log stream.
type MigrationLogger struct {
	Logger *slog.Logger
}

func (l MigrationLogger) Printf(format string, v ...any) {
	l.Logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrate")
}

func (l MigrationLogger) Fatalf(format string, v ...any) {
	l.Logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrate")
	os.Exit(1)
}
