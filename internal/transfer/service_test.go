package transfer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossdrift/orgshare-backend/internal/audit"
	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/notification"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/resource"
)

const (
	testOrgID   = "org-1"
	testAssetID = "asset-1"
)

type fakeRepo struct {
	requests  map[string]*TransferRequest
	createErr error
	updateOK  bool
	nextID    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{requests: map[string]*TransferRequest{}, updateOK: true, nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, t *TransferRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.requests {
		if existing.AssetID == t.AssetID && existing.RequesterID == t.RequesterID && existing.Status == StatusPending {
			return ErrDuplicatePending
		}
	}
	t.ID = fmt.Sprintf("tr-%d", f.nextID)
	f.nextID++
	t.CreatedAt = time.Now()
	f.requests[t.ID] = t
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*TransferRequest, error) {
	t, ok := f.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

func (f *fakeRepo) FindPending(_ context.Context, assetID, requesterID string) (*TransferRequest, error) {
	for _, t := range f.requests {
		if t.AssetID == assetID && t.RequesterID == requesterID && t.Status == StatusPending {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, _ Filter) ([]*TransferRequest, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, expected, next Status, resolvedBy *string, resolvedAt *time.Time) (bool, error) {
	t, ok := f.requests[id]
	if !ok || t.Status != expected || !f.updateOK {
		return false, nil
	}
	t.Status = next
	t.ResolvedBy = resolvedBy
	t.ResolvedAt = resolvedAt
	return true, nil
}

type ownershipCall struct {
	id    string
	scope resource.OwnerScope
	dept  string
}

type fakeResources struct {
	resource.Service
	byID         map[string]*resource.Resource
	ownershipErr error
	ownerships   []ownershipCall
}

func (f *fakeResources) GetByID(_ context.Context, id string) (*resource.Resource, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	return r, nil
}

func (f *fakeResources) SetOwnership(_ context.Context, id string, scope resource.OwnerScope, ownerDepartment string) error {
	if f.ownershipErr != nil {
		return f.ownershipErr
	}
	f.ownerships = append(f.ownerships, ownershipCall{id: id, scope: scope, dept: ownerDepartment})
	if r, ok := f.byID[id]; ok {
		r.OwnerScope = scope
		r.OwnerDepartment = ownerDepartment
	}
	return nil
}

type fakeAudits struct {
	entries   []audit.Entry
	appendErr error
}

func (f *fakeAudits) Append(_ context.Context, e audit.Entry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAudits) List(_ context.Context, _ audit.Filter) ([]*audit.Entry, int, error) {
	return nil, 0, nil
}

type fakeNotifications struct {
	notification.Service
	queued []*notification.Notification
}

func (f *fakeNotifications) Enqueue(_ context.Context, n *notification.Notification) error {
	f.queued = append(f.queued, n)
	return nil
}

type fixture struct {
	repo      *fakeRepo
	resources *fakeResources
	audits    *fakeAudits
	notifs    *fakeNotifications
	svc       Service
}

func newFixture() *fixture {
	f := &fixture{
		repo: newFakeRepo(),
		resources: &fakeResources{byID: map[string]*resource.Resource{
			testAssetID: {
				ID:              testAssetID,
				OrganizationID:  testOrgID,
				Name:            "Retired laptop",
				Kind:            resource.KindAsset,
				OwnerScope:      resource.OwnedByDepartment,
				OwnerDepartment: "IT",
				Status:          resource.StatusRetired,
			},
		}},
		audits: &fakeAudits{},
		notifs: &fakeNotifications{},
	}
	f.svc = NewService(f.repo, f.resources, f.audits, f.notifs)
	return f
}

func requester() identity.Principal {
	return identity.Principal{UserID: "user-1", OrganizationID: testOrgID, Department: "Sales", Role: identity.RoleUser}
}

func itManager() identity.Principal {
	return identity.Principal{UserID: "mgr-it", OrganizationID: testOrgID, Department: "IT", Role: identity.RoleManager}
}

func admin() identity.Principal {
	return identity.Principal{UserID: "admin-1", OrganizationID: testOrgID, Department: "HQ", Role: identity.RoleAdmin}
}

func errKind(t *testing.T, err error) apperror.Kind {
	t.Helper()
	var ae *apperror.AppError
	require.ErrorAs(t, err, &ae)
	return ae.Kind
}

func (f *fixture) file(t *testing.T) *TransferRequest {
	t.Helper()
	result, err := f.svc.Create(context.Background(), testAssetID, requester(), nil)
	require.NoError(t, err)
	return result.Request
}

func TestCreateTransfer(t *testing.T) {
	f := newFixture()

	result, err := f.svc.Create(context.Background(), testAssetID, requester(), nil)
	require.NoError(t, err)

	tr := result.Request
	assert.Equal(t, StatusPending, tr.Status)
	assert.Equal(t, "IT", tr.FromDepartment)
	assert.Equal(t, "Sales", tr.ToDepartment)
	assert.Empty(t, result.Warning)

	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, "transfer.create", f.audits.entries[0].Action)
	require.Len(t, f.notifs.queued, 1)
}

func TestCreateTransferPreconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("not an asset", func(t *testing.T) {
		f := newFixture()
		f.resources.byID[testAssetID].Kind = resource.KindVehicle
		_, err := f.svc.Create(ctx, testAssetID, requester(), nil)
		assert.ErrorIs(t, err, ErrNotAnAsset)
	})

	t.Run("not retired", func(t *testing.T) {
		f := newFixture()
		f.resources.byID[testAssetID].Status = resource.StatusAvailable
		_, err := f.svc.Create(ctx, testAssetID, requester(), nil)
		assert.ErrorIs(t, err, ErrNotRetired)
	})

	t.Run("organization-wide asset", func(t *testing.T) {
		f := newFixture()
		f.resources.byID[testAssetID].OwnerScope = resource.OwnedByOrganization
		_, err := f.svc.Create(ctx, testAssetID, requester(), nil)
		assert.ErrorIs(t, err, ErrOrganizationWide)
	})

	t.Run("requester without department", func(t *testing.T) {
		f := newFixture()
		p := requester()
		p.Department = ""
		_, err := f.svc.Create(ctx, testAssetID, p, nil)
		assert.ErrorIs(t, err, ErrNoDepartment)
	})

	t.Run("same department", func(t *testing.T) {
		f := newFixture()
		p := requester()
		p.Department = "IT"
		_, err := f.svc.Create(ctx, testAssetID, p, nil)
		assert.ErrorIs(t, err, ErrSameDepartment)
	})

	t.Run("other organization", func(t *testing.T) {
		f := newFixture()
		p := requester()
		p.OrganizationID = "org-2"
		_, err := f.svc.Create(ctx, testAssetID, p, nil)
		assert.Equal(t, apperror.KindPermission, errKind(t, err))
	})
}

func TestCreateTransferDuplicatePending(t *testing.T) {
	f := newFixture()
	f.file(t)

	_, err := f.svc.Create(context.Background(), testAssetID, requester(), nil)
	assert.ErrorIs(t, err, ErrDuplicatePending)
}

func TestResolveApproveReassignsOwnership(t *testing.T) {
	f := newFixture()
	tr := f.file(t)

	result, err := f.svc.Resolve(context.Background(), tr.ID, StatusApproved, itManager())
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, result.Request.Status)
	require.NotNil(t, result.Request.ResolvedBy)
	assert.Equal(t, "mgr-it", *result.Request.ResolvedBy)
	assert.NotNil(t, result.Request.ResolvedAt)

	require.Len(t, f.resources.ownerships, 1)
	assert.Equal(t, ownershipCall{id: testAssetID, scope: resource.OwnedByDepartment, dept: "Sales"}, f.resources.ownerships[0])
}

func TestResolveRejectLeavesOwnership(t *testing.T) {
	f := newFixture()
	tr := f.file(t)

	result, err := f.svc.Resolve(context.Background(), tr.ID, StatusRejected, itManager())
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, result.Request.Status)
	assert.Empty(t, f.resources.ownerships)
}

func TestResolveGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("plain member", func(t *testing.T) {
		f := newFixture()
		tr := f.file(t)
		_, err := f.svc.Resolve(ctx, tr.ID, StatusApproved, requester())
		assert.Equal(t, apperror.KindPermission, errKind(t, err))
	})

	t.Run("manager of another department", func(t *testing.T) {
		f := newFixture()
		tr := f.file(t)
		outsider := itManager()
		outsider.Department = "Finance"
		_, err := f.svc.Resolve(ctx, tr.ID, StatusApproved, outsider)
		assert.Equal(t, apperror.KindPermission, errKind(t, err))
	})

	t.Run("admin of any department", func(t *testing.T) {
		f := newFixture()
		tr := f.file(t)
		result, err := f.svc.Resolve(ctx, tr.ID, StatusApproved, admin())
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, result.Request.Status)
	})

	t.Run("cancel decision not allowed", func(t *testing.T) {
		f := newFixture()
		tr := f.file(t)
		_, err := f.svc.Resolve(ctx, tr.ID, StatusCancelled, itManager())
		assert.Equal(t, apperror.KindValidation, errKind(t, err))
	})
}

func TestResolveAlreadyResolved(t *testing.T) {
	f := newFixture()
	tr := f.file(t)

	_, err := f.svc.Resolve(context.Background(), tr.ID, StatusApproved, itManager())
	require.NoError(t, err)

	_, err = f.svc.Resolve(context.Background(), tr.ID, StatusRejected, itManager())
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, errKind(t, err))
}

func TestResolveLostRace(t *testing.T) {
	f := newFixture()
	tr := f.file(t)
	f.repo.updateOK = false

	_, err := f.svc.Resolve(context.Background(), tr.ID, StatusApproved, itManager())
	require.Error(t, err)
	assert.Equal(t, apperror.KindStaleState, errKind(t, err))
}

func TestResolveOwnershipFailureWarns(t *testing.T) {
	f := newFixture()
	tr := f.file(t)
	f.resources.ownershipErr = errors.New("resource store down")

	result, err := f.svc.Resolve(context.Background(), tr.ID, StatusApproved, itManager())
	require.NoError(t, err, "the decision stands even when the ownership update fails")
	assert.Equal(t, StatusApproved, result.Request.Status)
	assert.Contains(t, result.Warning, "ownership")
}

func TestCancel(t *testing.T) {
	f := newFixture()
	f.file(t)

	result, err := f.svc.Cancel(context.Background(), testAssetID, requester())
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.Request.Status)

	// No pending request left to cancel.
	_, err = f.svc.Cancel(context.Background(), testAssetID, requester())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelOnlyOwnPendingRequest(t *testing.T) {
	f := newFixture()
	f.file(t)

	other := requester()
	other.UserID = "user-2"
	_, err := f.svc.Cancel(context.Background(), testAssetID, other)
	assert.ErrorIs(t, err, ErrNotFound)
}
