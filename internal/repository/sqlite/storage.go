package sqlite

import (
	"database/sql"
	"time"
)

// Storage is the SQLite engine. It implements both the credential store
// and the content store over one handle.
type Storage struct {
	db    *sql.DB
	stamp *stamper
}

func New(db *sql.DB) *Storage {
	return &Storage{db: db, stamp: newStamper(time.Now)}
}

// WithClock replaces the time source for created_at.
func (s *Storage) WithClock(now func() time.Time) *Storage {
	s.stamp = newStamper(now)
	return s
}
