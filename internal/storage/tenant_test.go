package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notably-backend/internal/models"
)

func TestCreateTenant_DuplicateSlug(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateTenant(ctx, "Acme", "acme", models.PlanFree)
	require.NoError(t, err)

	_, err = s.CreateTenant(ctx, "Acme Again", "acme", models.PlanFree)
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestGetTenantBySlug(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created := seedTenant(t, s, "acme")

	tenant, err := s.GetTenantBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, created.ID, tenant.ID)
	assert.Equal(t, models.PlanFree, tenant.Plan)

	_, err = s.GetTenantBySlug(ctx, "globex")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestGetTenantUsers(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	tenant := seedTenant(t, s, "acme")
	other := seedTenant(t, s, "globex")
	seedUser(t, s, tenant.ID, "admin@acme.test", models.RoleAdmin, models.PlanPro)
	seedUser(t, s, tenant.ID, "user@acme.test", models.RoleMember, models.PlanFree)
	seedUser(t, s, other.ID, "admin@globex.test", models.RoleAdmin, models.PlanPro)

	users, err := s.GetTenantUsers(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin@acme.test", users[0].Email)
	assert.Equal(t, "user@acme.test", users[1].Email)
}

func TestTransitionPlan_UpdatesBoth(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	tenant := seedTenant(t, s, "acme")
	member := seedUser(t, s, tenant.ID, "user@acme.test", models.RoleMember, models.PlanFree)

	user, updatedTenant, err := s.TransitionPlan(ctx, tenant.ID, member.ID, models.PlanPro)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, user.Plan)
	assert.Equal(t, models.PlanPro, updatedTenant.Plan)

	stored, err := s.GetUser(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, stored.Plan)
}

func TestTransitionPlan_Idempotent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	tenant := seedTenant(t, s, "acme")
	member := seedUser(t, s, tenant.ID, "user@acme.test", models.RoleMember, models.PlanFree)

	_, _, err := s.TransitionPlan(ctx, tenant.ID, member.ID, models.PlanPro)
	require.NoError(t, err)

	user, updatedTenant, err := s.TransitionPlan(ctx, tenant.ID, member.ID, models.PlanPro)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, user.Plan)
	assert.Equal(t, models.PlanPro, updatedTenant.Plan)
}

// A transition that fails after the tenant row would have been touched must
// leave both plans unchanged.
func TestTransitionPlan_UnknownUser_LeavesTenantUntouched(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	tenant := seedTenant(t, s, "acme")
	seedUser(t, s, tenant.ID, "user@acme.test", models.RoleMember, models.PlanFree)

	_, _, err := s.TransitionPlan(ctx, tenant.ID, "no-such-user", models.PlanPro)
	assert.ErrorIs(t, err, ErrUserNotFound)

	stored, err := s.GetTenant(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, stored.Plan)
}

func TestTransitionPlan_UserOfOtherTenant(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	acme := seedTenant(t, s, "acme")
	globex := seedTenant(t, s, "globex")
	outsider := seedUser(t, s, globex.ID, "user@globex.test", models.RoleMember, models.PlanFree)

	_, _, err := s.TransitionPlan(ctx, acme.ID, outsider.ID, models.PlanPro)
	assert.ErrorIs(t, err, ErrUserNotFound)

	stored, err := s.GetUser(ctx, outsider.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, stored.Plan)
}

func TestTransitionPlan_Downgrade(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	tenant := seedTenant(t, s, "acme")
	admin := seedUser(t, s, tenant.ID, "admin@acme.test", models.RoleAdmin, models.PlanPro)

	// role is not consulted: an admin can itself be downgraded
	user, updatedTenant, err := s.TransitionPlan(ctx, tenant.ID, admin.ID, models.PlanFree)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, models.PlanFree, user.Plan)
	assert.Equal(t, models.PlanFree, updatedTenant.Plan)
}
