package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"notably-backend/internal/models"
)

func (s *Storage) CreateUser(ctx context.Context, tenantID, email, passwordHash, role, plan string) (*models.User, error) {
	user := models.User{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Plan:         plan,
		CreatedAt:    time.Now().UTC(),
	}

	query := `
		INSERT INTO users (id, tenant_id, email, password_hash, role, plan, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.TenantID, user.Email, user.PasswordHash, user.Role, user.Plan, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &user, nil
}

func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, tenant_id, email, password_hash, role, plan, created_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := s.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, tenant_id, email, password_hash, role, plan, created_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	err := s.db.GetContext(ctx, &user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
