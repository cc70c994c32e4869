package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"notably-backend/internal/models"
)

const selectNoteWithAuthor = `
	SELECT n.id, n.tenant_id, n.author_id, n.title, n.content, n.created_at, n.updated_at,
		u.email, u.role, u.plan
	FROM notes n
	JOIN users u ON u.id = n.author_id
`

type noteRow struct {
	ID          string
	TenantID    string
	AuthorID    string
	Title       string
	Content     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	AuthorEmail string
	AuthorRole  string
	AuthorPlan  string
}

func (r noteRow) toNote() models.Note {
	return models.Note{
		ID:        r.ID,
		TenantID:  r.TenantID,
		AuthorID:  r.AuthorID,
		Title:     r.Title,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Author: &models.UserProjection{
			ID:    r.AuthorID,
			Email: r.AuthorEmail,
			Role:  r.AuthorRole,
			Plan:  r.AuthorPlan,
		},
	}
}

func scanNoteRow(scanner interface{ Scan(...any) error }) (noteRow, error) {
	var row noteRow
	err := scanner.Scan(
		&row.ID,
		&row.TenantID,
		&row.AuthorID,
		&row.Title,
		&row.Content,
		&row.CreatedAt,
		&row.UpdatedAt,
		&row.AuthorEmail,
		&row.AuthorRole,
		&row.AuthorPlan,
	)
	return row, err
}

// ListTenantNotes returns every note of the tenant, newest-created first.
func (s *Storage) ListTenantNotes(ctx context.Context, tenantID string) ([]models.Note, error) {
	query := selectNoteWithAuthor + `
	WHERE n.tenant_id = $1
	ORDER BY n.created_at DESC
	`
	return s.listNotes(ctx, query, tenantID)
}

// ListAuthorNotes returns the notes authored by one user of the tenant, newest-created first.
func (s *Storage) ListAuthorNotes(ctx context.Context, tenantID, authorID string) ([]models.Note, error) {
	query := selectNoteWithAuthor + `
	WHERE n.tenant_id = $1 AND n.author_id = $2
	ORDER BY n.created_at DESC
	`
	return s.listNotes(ctx, query, tenantID, authorID)
}

func (s *Storage) listNotes(ctx context.Context, query string, args ...any) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		row, err := scanNoteRow(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, row.toNote())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

// CountAuthorNotes counts the notes a user has authored in a tenant.
func (s *Storage) CountAuthorNotes(ctx context.Context, tenantID, authorID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM notes WHERE tenant_id = $1 AND author_id = $2
	`, tenantID, authorID)
	return count, err
}

// CreateNote inserts a note for the author. When maxNotes is positive the
// author's existing note count is checked inside the same transaction, so
// concurrent creates cannot push an author past the cap.
func (s *Storage) CreateNote(ctx context.Context, tenantID, authorID, title, content string, maxNotes int) (*models.Note, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if maxNotes > 0 {
		var count int
		if err := tx.GetContext(ctx, &count, `
			SELECT COUNT(*) FROM notes WHERE tenant_id = $1 AND author_id = $2
		`, tenantID, authorID); err != nil {
			return nil, err
		}
		if count >= maxNotes {
			return nil, ErrQuotaExceeded
		}
	}

	var author models.UserProjection
	err = tx.GetContext(ctx, &author, `
		SELECT id, email, role, plan FROM users WHERE id = $1 AND tenant_id = $2
	`, authorID, tenantID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	note := models.Note{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Author:    &author,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes (id, tenant_id, author_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, note.ID, note.TenantID, note.AuthorID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &note, nil
}

// GetNote loads a note without its author projection (access checks only need
// the tenant and author ids).
func (s *Storage) GetNote(ctx context.Context, id string) (*models.Note, error) {
	query := `
		SELECT id, tenant_id, author_id, title, content, created_at, updated_at
		FROM notes
		WHERE id = $1
	`

	var note models.Note
	err := s.db.GetContext(ctx, &note, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}

	return &note, nil
}

func (s *Storage) UpdateNote(ctx context.Context, id, title, content string) (*models.Note, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notes
		SET title = $1, content = $2, updated_at = $3
		WHERE id = $4
	`, title, content, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNoteNotFound
	}

	row, err := scanNoteRow(s.db.QueryRowContext(ctx, selectNoteWithAuthor+` WHERE n.id = $1`, id))
	if err != nil {
		return nil, err
	}

	note := row.toNote()
	return &note, nil
}

func (s *Storage) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoteNotFound
	}
	return nil
}
