package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/resource"
)

type fakeRepository struct {
	Repository
	rows []*Policy
}

func (f *fakeRepository) Find(_ context.Context, orgID, scope string, department *string) (*Policy, error) {
	for _, p := range f.rows {
		if p.OrganizationID != orgID || p.Scope != scope {
			continue
		}
		if department == nil && p.Department == nil {
			return p, nil
		}
		if department != nil && p.Department != nil && *department == *p.Department {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func orgDefault(orgID, scope string, role identity.Role) *Policy {
	return &Policy{OrganizationID: orgID, Scope: scope, RequiredRole: role}
}

func deptPolicy(orgID, scope, dept string, role identity.Role) *Policy {
	return &Policy{OrganizationID: orgID, Scope: scope, Department: &dept, RequiredRole: role}
}

func TestResolveExactDepartmentWins(t *testing.T) {
	repo := &fakeRepository{rows: []*Policy{
		deptPolicy("org-1", "asset", "IT", identity.RoleAdmin),
		orgDefault("org-1", "asset", identity.RoleUser),
	}}
	svc := NewService(repo)

	role, err := svc.Resolve(context.Background(), "org-1", resource.KindAsset, resource.OwnedByDepartment, "IT")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, role)
}

func TestResolveFallsBackToOrgDefault(t *testing.T) {
	// A department-owned asset with no row for its department resolves
	// against the organization-wide row for the scope.
	repo := &fakeRepository{rows: []*Policy{
		deptPolicy("org-1", "asset", "Facilities", identity.RoleAdmin),
		orgDefault("org-1", "asset", identity.RoleManager),
	}}
	svc := NewService(repo)

	role, err := svc.Resolve(context.Background(), "org-1", resource.KindAsset, resource.OwnedByDepartment, "IT")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleManager, role)
}

func TestResolveFallsBackToBuiltInDefault(t *testing.T) {
	svc := NewService(&fakeRepository{})

	role, err := svc.Resolve(context.Background(), "org-1", resource.KindVehicle, resource.OwnedByDepartment, "IT")
	require.NoError(t, err)
	assert.Equal(t, DefaultRequiredRole, role)
}

func TestResolveOrgOwnedSkipsDepartmentRows(t *testing.T) {
	// Organization-owned resources never match department rows, even when
	// one exists for the borrower-facing department name.
	repo := &fakeRepository{rows: []*Policy{
		deptPolicy("org-1", "space", "IT", identity.RoleAdmin),
		orgDefault("org-1", "space", identity.RoleManager),
	}}
	svc := NewService(repo)

	role, err := svc.Resolve(context.Background(), "org-1", resource.KindSpace, resource.OwnedByOrganization, "")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleManager, role)
}

func TestResolveScopesAreIndependent(t *testing.T) {
	repo := &fakeRepository{rows: []*Policy{
		orgDefault("org-1", "vehicle", identity.RoleAdmin),
	}}
	svc := NewService(repo)

	role, err := svc.Resolve(context.Background(), "org-1", resource.KindVehicle, resource.OwnedByOrganization, "")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, role)

	// No asset row anywhere: built-in default.
	role, err = svc.Resolve(context.Background(), "org-1", resource.KindAsset, resource.OwnedByOrganization, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultRequiredRole, role)
}

func TestResolveIsIdempotent(t *testing.T) {
	repo := &fakeRepository{rows: []*Policy{
		deptPolicy("org-1", "asset", "IT", identity.RoleAdmin),
	}}
	svc := NewService(repo)

	for i := 0; i < 3; i++ {
		role, err := svc.Resolve(context.Background(), "org-1", resource.KindAsset, resource.OwnedByDepartment, "IT")
		require.NoError(t, err)
		assert.Equal(t, identity.RoleAdmin, role)
	}
}
