package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"notably-backend/internal/models"
)

func (s *Storage) CreateTenant(ctx context.Context, name, slug, plan string) (*models.Tenant, error) {
	tenant := models.Tenant{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug,
		Plan:      plan,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO tenants (id, name, slug, plan, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query, tenant.ID, tenant.Name, tenant.Slug, tenant.Plan, tenant.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return &tenant, nil
}

func (s *Storage) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	query := `
		SELECT id, name, slug, plan, created_at
		FROM tenants
		WHERE id = $1
	`

	var tenant models.Tenant
	err := s.db.GetContext(ctx, &tenant, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}

	return &tenant, nil
}

func (s *Storage) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	query := `
		SELECT id, name, slug, plan, created_at
		FROM tenants
		WHERE slug = $1
	`

	var tenant models.Tenant
	err := s.db.GetContext(ctx, &tenant, query, slug)
	if err == sql.ErrNoRows {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}

	return &tenant, nil
}

func (s *Storage) GetTenantUsers(ctx context.Context, tenantID string) ([]models.UserProjection, error) {
	query := `
		SELECT id, email, role, plan
		FROM users
		WHERE tenant_id = $1
		ORDER BY created_at ASC
	`

	users := make([]models.UserProjection, 0)
	if err := s.db.SelectContext(ctx, &users, query, tenantID); err != nil {
		return nil, err
	}
	return users, nil
}

// TransitionPlan sets the target user's plan and the tenant's plan to the same
// value in a single transaction. Either both rows change or neither does.
func (s *Storage) TransitionPlan(ctx context.Context, tenantID, userID, plan string) (*models.UserProjection, *models.Tenant, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET plan = $1
		WHERE id = $2 AND tenant_id = $3
	`, plan, userID, tenantID)
	if err != nil {
		return nil, nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, nil, err
	}
	if affected == 0 {
		return nil, nil, ErrUserNotFound
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE tenants
		SET plan = $1
		WHERE id = $2
	`, plan, tenantID)
	if err != nil {
		return nil, nil, err
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return nil, nil, err
	}
	if affected == 0 {
		return nil, nil, ErrTenantNotFound
	}

	var user models.UserProjection
	if err := tx.GetContext(ctx, &user, `
		SELECT id, email, role, plan
		FROM users
		WHERE id = $1
	`, userID); err != nil {
		return nil, nil, err
	}

	var tenant models.Tenant
	if err := tx.GetContext(ctx, &tenant, `
		SELECT id, name, slug, plan, created_at
		FROM tenants
		WHERE id = $1
	`, tenantID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return &user, &tenant, nil
}
