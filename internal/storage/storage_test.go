package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"notably-backend/internal/models"
	"notably-backend/internal/testutil"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	return NewStorage(testutil.OpenTestDB(t))
}

func seedTenant(t *testing.T, s *Storage, slug string) *models.Tenant {
	t.Helper()
	tenant, err := s.CreateTenant(context.Background(), slug, slug, models.PlanFree)
	require.NoError(t, err)
	return tenant
}

func seedUser(t *testing.T, s *Storage, tenantID, email, role, plan string) *models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), tenantID, email, "x", role, plan)
	require.NoError(t, err)
	return user
}
