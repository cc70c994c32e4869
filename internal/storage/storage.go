package storage

import (
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrNoteNotFound   = errors.New("note not found")
	ErrSlugTaken      = errors.New("tenant slug already taken")
	ErrEmailTaken     = errors.New("email already taken")
	ErrQuotaExceeded  = errors.New("note quota exceeded")
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Ping() error {
	return s.db.Ping()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// sqlite (test database) reports constraint violations by message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
