package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossdrift/orgshare-backend/internal/audit"
	"github.com/mossdrift/orgshare-backend/internal/evidence"
	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/notification"
	"github.com/mossdrift/orgshare-backend/internal/organization"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/policy"
	"github.com/mossdrift/orgshare-backend/internal/resource"
)

const (
	testOrgID      = "org-1"
	testResourceID = "res-1"
	testBorrowerID = "user-1"
)

// --- fakes ---

type stateUpdate struct {
	id       string
	expected State
	next     State
	change   StateChange
}

type fakeRepo struct {
	reservations map[string]*Reservation
	existing     []*Reservation
	batches      [][]*Reservation
	createErr    error
	updateOK     bool
	updateErr    error
	updates      []stateUpdate
}

func (f *fakeRepo) CreateBatch(_ context.Context, reservations []*Reservation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.batches = append(f.batches, reservations)
	for _, r := range reservations {
		f.reservations[r.ID] = r
	}
	return nil
}

func (f *fakeRepo) FindOverlap(_ context.Context, resourceID string, start, end time.Time, statuses []Status) (*Reservation, error) {
	for _, r := range f.existing {
		if r.ResourceID != resourceID {
			continue
		}
		matched := false
		for _, s := range statuses {
			if r.Status == s {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		// Inclusive UTC-day overlap, same rule as the store.
		if !dateOnly(r.StartDate.UTC()).After(dateOnly(end.UTC())) && !dateOnly(r.EndDate.UTC()).Before(dateOnly(start.UTC())) {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (f *fakeRepo) List(_ context.Context, filter Filter) ([]*Reservation, int, error) {
	var out []*Reservation
	for _, r := range f.reservations {
		if filter.ResourceID != "" && r.ResourceID != filter.ResourceID {
			continue
		}
		if filter.BorrowerID != "" && r.BorrowerID != filter.BorrowerID {
			continue
		}
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateState(_ context.Context, id string, expected, next State, change StateChange) (bool, error) {
	if f.updateErr != nil {
		return false, f.updateErr
	}
	f.updates = append(f.updates, stateUpdate{id: id, expected: expected, next: next, change: change})
	if !f.updateOK {
		return false, nil
	}
	if r, ok := f.reservations[id]; ok {
		r.Status = next.Status
		r.ReturnStatus = next.Return
	}
	return true, nil
}

type syncCall struct {
	id     string
	status resource.Status
	stamp  bool
}

type fakeResources struct {
	resource.Service
	byID    map[string]*resource.Resource
	syncErr error
	syncs   []syncCall
}

func (f *fakeResources) GetByID(_ context.Context, id string) (*resource.Resource, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	return r, nil
}

func (f *fakeResources) SyncStatus(_ context.Context, id string, status resource.Status, stampLastUsed bool) error {
	if f.syncErr != nil {
		return f.syncErr
	}
	f.syncs = append(f.syncs, syncCall{id: id, status: status, stamp: stampLastUsed})
	return nil
}

type fakePolicies struct {
	policy.Service
	role     identity.Role
	err      error
	resolves int
}

func (f *fakePolicies) Resolve(_ context.Context, _ string, _ resource.Kind, _ resource.OwnerScope, _ string) (identity.Role, error) {
	f.resolves++
	if f.err != nil {
		return "", f.err
	}
	return f.role, nil
}

type fakeOrgs struct {
	organization.Service
	byID map[string]*organization.Organization
}

func (f *fakeOrgs) GetByID(_ context.Context, id string) (*organization.Organization, error) {
	org, ok := f.byID[id]
	if !ok {
		return nil, organization.ErrNotFound
	}
	return org, nil
}

type fakeEvidence struct {
	evidence.Service
	attached []*evidence.Evidence
}

func (f *fakeEvidence) ListByReservation(_ context.Context, _ string) ([]*evidence.Evidence, error) {
	return f.attached, nil
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
	queued     []*notification.Notification
	enqueueErr error
}

func (f *fakeNotifications) Enqueue(_ context.Context, n *notification.Notification) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.queued = append(f.queued, n)
	return nil
}

// --- fixture ---

type fixture struct {
	repo      *fakeRepo
	resources *fakeResources
	policies  *fakePolicies
	orgs      *fakeOrgs
	evidences *fakeEvidence
	audits    *fakeAudits
	notifs    *fakeNotifications
	svc       Service
}

func newFixture() *fixture {
	f := &fixture{
		repo: &fakeRepo{reservations: map[string]*Reservation{}, updateOK: true},
		resources: &fakeResources{byID: map[string]*resource.Resource{
			testResourceID: {
				ID:              testResourceID,
				OrganizationID:  testOrgID,
				Name:            "Projector",
				Kind:            resource.KindAsset,
				OwnerScope:      resource.OwnedByOrganization,
				Status:          resource.StatusAvailable,
				Loanable:        true,
			},
		}},
		policies: &fakePolicies{role: identity.RoleManager},
		orgs: &fakeOrgs{byID: map[string]*organization.Organization{
			testOrgID: {ID: testOrgID, Name: "Acme", IsActive: true},
		}},
		evidences: &fakeEvidence{},
		audits:    &fakeAudits{},
		notifs:    &fakeNotifications{},
	}
	f.svc = NewService(f.repo, f.resources, f.policies, f.orgs, f.evidences, f.audits, f.notifs)
	return f
}

func (f *fixture) seedReservation(status Status, ret ReturnStatus) *Reservation {
	r := &Reservation{
		ID:             "resv-1",
		ResourceID:     testResourceID,
		BorrowerID:     testBorrowerID,
		OrganizationID: testOrgID,
		StartDate:      date(2025, time.March, 10, 9, 0),
		EndDate:        date(2025, time.March, 12, 18, 0),
		Status:         status,
		ReturnStatus:   ret,
	}
	f.repo.reservations[r.ID] = r
	return r
}

func (f *fixture) setReturnPolicy(enabled, photo, verify bool) {
	f.orgs.byID[testOrgID].ReturnPolicy = organization.ReturnPolicy{
		Enabled:             enabled,
		RequirePhoto:        photo,
		RequireVerification: verify,
	}
}

func manager() identity.Principal {
	return identity.Principal{UserID: "mgr-1", OrganizationID: testOrgID, Department: "IT", Role: identity.RoleManager}
}

func borrower() identity.Principal {
	return identity.Principal{UserID: testBorrowerID, OrganizationID: testOrgID, Role: identity.RoleUser}
}

func errKind(t *testing.T, err error) apperror.Kind {
	t.Helper()
	var ae *apperror.AppError
	require.ErrorAs(t, err, &ae)
	return ae.Kind
}

// --- Create ---

func TestCreateSingleReservation(t *testing.T) {
	f := newFixture()

	result, err := f.svc.Create(context.Background(), CreateRequest{
		ResourceID: testResourceID,
		BorrowerID: testBorrowerID,
		Start:      date(2025, time.March, 10, 9, 0),
		End:        date(2025, time.March, 12, 18, 0),
	})
	require.NoError(t, err)
	require.Len(t, result.Created, 1)

	created := result.Created[0]
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, ReturnPending, created.ReturnStatus)
	assert.Nil(t, created.ParentID)
	assert.Equal(t, identity.RoleManager, result.RequiredRole)
	assert.Empty(t, result.Warning)

	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, "reservation.create", f.audits.entries[0].Action)
	require.Len(t, f.notifs.queued, 1)
	assert.Equal(t, testBorrowerID, f.notifs.queued[0].UserID)
}

func TestCreateRecurringBatch(t *testing.T) {
	f := newFixture()

	rule := &Rule{
		Type:     RuleWeekly,
		Interval: 1,
		EndDate:  date(2025, time.January, 27, 0, 0),
		Weekdays: []time.Weekday{time.Monday},
	}
	result, err := f.svc.Create(context.Background(), CreateRequest{
		ResourceID: testResourceID,
		BorrowerID: testBorrowerID,
		Start:      date(2025, time.January, 6, 9, 0),
		End:        date(2025, time.January, 6, 18, 0),
		Recurrence: rule,
	})
	require.NoError(t, err)
	require.Len(t, result.Created, 4)

	parent := result.Created[0]
	assert.Nil(t, parent.ParentID)
	assert.Equal(t, rule, parent.Recurrence)

	for _, child := range result.Created[1:] {
		require.NotNil(t, child.ParentID)
		assert.Equal(t, parent.ID, *child.ParentID)
		assert.Nil(t, child.Recurrence)
	}

	// One transaction, one batch.
	require.Len(t, f.repo.batches, 1)
	assert.Len(t, f.repo.batches[0], 4)
}

func TestCreateRejectsOverlap(t *testing.T) {
	f := newFixture()
	f.repo.existing = []*Reservation{{
		ID:         "existing-1",
		ResourceID: testResourceID,
		StartDate:  date(2025, time.March, 10, 9, 0),
		EndDate:    date(2025, time.March, 12, 18, 0),
		Status:     StatusApproved,
	}}

	// Shares March 11-12 with the approved reservation.
	_, err := f.svc.Create(context.Background(), CreateRequest{
		ResourceID: testResourceID,
		BorrowerID: testBorrowerID,
		Start:      date(2025, time.March, 11, 9, 0),
		End:        date(2025, time.March, 13, 18, 0),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, errKind(t, err))

	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "existing-1", ce.ExistingID)

	// Starting the day after the existing end date is fine.
	_, err = f.svc.Create(context.Background(), CreateRequest{
		ResourceID: testResourceID,
		BorrowerID: testBorrowerID,
		Start:      date(2025, time.March, 13, 9, 0),
		End:        date(2025, time.March, 15, 18, 0),
	})
	assert.NoError(t, err)
}

func TestCreateOverlapComparesUTCDays(t *testing.T) {
	f := newFixture()
	f.repo.existing = []*Reservation{{
		ID:         "existing-1",
		ResourceID: testResourceID,
		StartDate:  date(2025, time.March, 10, 9, 0),
		EndDate:    date(2025, time.March, 12, 18, 0),
		Status:     StatusApproved,
	}}
	lint := time.FixedZone("UTC+14", 14*60*60)

	// Local calendar day is March 13, but in UTC it is still March 12 and
	// must collide with the existing reservation's last day.
	_, err := f.svc.Create(context.Background(), CreateRequest{
		ResourceID: testResourceID,
		BorrowerID: testBorrowerID,
		Start:      time.Date(2025, time.March, 13, 10, 0, 0, 0, lint),
		End:        time.Date(2025, time.March, 13, 12, 0, 0, 0, lint),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, errKind(t, err))

	// Late enough that the UTC day rolls over to March 13: no conflict.
	_, err = f.svc.Create(context.Background(), CreateRequest{
		ResourceID: testResourceID,
		BorrowerID: testBorrowerID,
		Start:      time.Date(2025, time.March, 13, 20, 0, 0, 0, lint),
		End:        time.Date(2025, time.March, 13, 22, 0, 0, 0, lint),
	})
	assert.NoError(t, err)
}

func TestCreateOneConflictRejectsWholeBatch(t *testing.T) {
	f := newFixture()
	// Blocks only the second Monday of the series.
	f.repo.existing = []*Reservation{{
		ID:         "existing-1",
		ResourceID: testResourceID,
		StartDate:  date(2025, time.January, 13, 0, 0),
		EndDate:    date(2025, time.January, 13, 23, 0),
		Status:     StatusPending,
	}}

	_, err := f.svc.Create(context.Background(), CreateRequest{
		ResourceID: testResourceID,
		BorrowerID: testBorrowerID,
		Start:      date(2025, time.January, 6, 9, 0),
		End:        date(2025, time.January, 6, 18, 0),
		Recurrence: &Rule{
			Type:     RuleWeekly,
			Interval: 1,
			EndDate:  date(2025, time.January, 27, 0, 0),
			Weekdays: []time.Weekday{time.Monday},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, errKind(t, err))

	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Index)

	assert.Empty(t, f.repo.batches, "nothing may be created when any instance conflicts")
}

func TestCreateStoreConflictSurfacesSameWay(t *testing.T) {
	f := newFixture()
	// The checker saw a free range but a racing insert won; the store's
	// constraint rejects the batch.
	f.repo.createErr = &ConflictError{Index: 0, Start: date(2025, time.March, 10, 9, 0), End: date(2025, time.March, 12, 18, 0)}

	_, err := f.svc.Create(context.Background(), CreateRequest{
		ResourceID: testResourceID,
		BorrowerID: testBorrowerID,
		Start:      date(2025, time.March, 10, 9, 0),
		End:        date(2025, time.March, 12, 18, 0),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, errKind(t, err))
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateRequest{
		ResourceID: testResourceID,
		BorrowerID: testBorrowerID,
		Start:      date(2025, time.March, 10, 9, 0),
		End:        date(2025, time.March, 10, 9, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	f.resources.byID[testResourceID].Loanable = false
	_, err = f.svc.Create(ctx, CreateRequest{
		ResourceID: testResourceID,
		BorrowerID: testBorrowerID,
		Start:      date(2025, time.March, 10, 9, 0),
		End:        date(2025, time.March, 12, 18, 0),
	})
	assert.ErrorIs(t, err, ErrNotLoanable)
	f.resources.byID[testResourceID].Loanable = true

	f.resources.byID[testResourceID].Status = resource.StatusRetired
	_, err = f.svc.Create(ctx, CreateRequest{
		ResourceID: testResourceID,
		BorrowerID: testBorrowerID,
		Start:      date(2025, time.March, 10, 9, 0),
		End:        date(2025, time.March, 12, 18, 0),
	})
	assert.ErrorIs(t, err, ErrOutOfService)
	f.resources.byID[testResourceID].Status = resource.StatusAvailable

	deadline := date(2025, time.March, 11, 0, 0)
	f.resources.byID[testResourceID].UsableUntil = &deadline
	_, err = f.svc.Create(ctx, CreateRequest{
		ResourceID: testResourceID,
		BorrowerID: testBorrowerID,
		Start:      date(2025, time.March, 10, 9, 0),
		End:        date(2025, time.March, 12, 18, 0),
	})
	assert.ErrorIs(t, err, ErrPastUsableUntil)
	f.resources.byID[testResourceID].UsableUntil = nil

	// Rule window closes before the first instance.
	_, err = f.svc.Create(ctx, CreateRequest{
		ResourceID: testResourceID,
		BorrowerID: testBorrowerID,
		Start:      date(2025, time.June, 15, 9, 0),
		End:        date(2025, time.June, 15, 18, 0),
		Recurrence: &Rule{
			Type:     RuleWeekly,
			Interval: 1,
			EndDate:  date(2025, time.June, 1, 0, 0),
			Weekdays: []time.Weekday{time.Sunday},
		},
	})
	assert.ErrorIs(t, err, ErrNothingToSchedule)
}

// --- ChangeStatus ---

func TestChangeStatusApprove(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusPending, ReturnPending)

	result, err := f.svc.ChangeStatus(context.Background(), "resv-1", StatusApproved, manager())
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, result.Reservation.Status)
	assert.Empty(t, result.Warning)

	require.Len(t, f.resources.syncs, 1)
	assert.Equal(t, syncCall{id: testResourceID, status: resource.StatusRented, stamp: true}, f.resources.syncs[0])

	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, "pending", f.audits.entries[0].FromStatus)
	assert.Equal(t, "approved", f.audits.entries[0].ToStatus)
}

func TestChangeStatusPlainMemberForbidden(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusPending, ReturnPending)
	// Even with a policy that would resolve to "user", plain members never
	// transition reservations.
	f.policies.role = identity.RoleUser

	_, err := f.svc.ChangeStatus(context.Background(), "resv-1", StatusApproved, borrower())
	require.Error(t, err)
	assert.Equal(t, apperror.KindPermission, errKind(t, err))
	assert.Zero(t, f.policies.resolves, "policy must not be consulted for plain members")
}

func TestChangeStatusRequiresResolvedRole(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusPending, ReturnPending)
	f.policies.role = identity.RoleAdmin

	_, err := f.svc.ChangeStatus(context.Background(), "resv-1", StatusApproved, manager())
	require.Error(t, err)
	assert.Equal(t, apperror.KindPermission, errKind(t, err))

	admin := manager()
	admin.Role = identity.RoleAdmin
	_, err = f.svc.ChangeStatus(context.Background(), "resv-1", StatusApproved, admin)
	assert.NoError(t, err)
}

func TestChangeStatusOtherOrganization(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusPending, ReturnPending)

	outsider := manager()
	outsider.OrganizationID = "org-2"
	_, err := f.svc.ChangeStatus(context.Background(), "resv-1", StatusApproved, outsider)
	require.Error(t, err)
	assert.Equal(t, apperror.KindPermission, errKind(t, err))
}

func TestChangeStatusDirectReturn(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusApproved, ReturnPending)

	result, err := f.svc.ChangeStatus(context.Background(), "resv-1", StatusReturned, manager())
	require.NoError(t, err)
	assert.Equal(t, StateReturnedDone, result.Reservation.State())

	require.Len(t, f.resources.syncs, 1)
	assert.Equal(t, syncCall{id: testResourceID, status: resource.StatusAvailable, stamp: false}, f.resources.syncs[0])
}

func TestReturnKeepsResourceRentedWhileOtherLoansOpen(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusApproved, ReturnPending)
	f.repo.reservations["resv-2"] = &Reservation{
		ID:             "resv-2",
		ResourceID:     testResourceID,
		BorrowerID:     "user-2",
		OrganizationID: testOrgID,
		StartDate:      date(2025, time.March, 13, 9, 0),
		EndDate:        date(2025, time.March, 15, 18, 0),
		Status:         StatusApproved,
		ReturnStatus:   ReturnPending,
	}

	// Closing the first loan must not free the resource while the second
	// approved reservation is still outstanding.
	_, err := f.svc.ChangeStatus(context.Background(), "resv-1", StatusReturned, manager())
	require.NoError(t, err)
	assert.Empty(t, f.resources.syncs)

	// Closing the last loan does.
	_, err = f.svc.ChangeStatus(context.Background(), "resv-2", StatusReturned, manager())
	require.NoError(t, err)
	require.Len(t, f.resources.syncs, 1)
	assert.Equal(t, syncCall{id: testResourceID, status: resource.StatusAvailable, stamp: false}, f.resources.syncs[0])
}

func TestChangeStatusDirectReturnBlockedByVerification(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusApproved, ReturnPending)
	f.setReturnPolicy(true, false, true)

	_, err := f.svc.ChangeStatus(context.Background(), "resv-1", StatusReturned, manager())
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, errKind(t, err))
}

func TestChangeStatusForbiddenTransition(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusRejected, ReturnPending)

	_, err := f.svc.ChangeStatus(context.Background(), "resv-1", StatusApproved, manager())
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, errKind(t, err))
}

func TestChangeStatusLostRace(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusPending, ReturnPending)
	f.repo.updateOK = false

	_, err := f.svc.ChangeStatus(context.Background(), "resv-1", StatusApproved, manager())
	require.Error(t, err)
	assert.Equal(t, apperror.KindStaleState, errKind(t, err))
}

func TestChangeStatusSideEffectFailureWarns(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusPending, ReturnPending)
	f.notifs.enqueueErr = errors.New("outbox down")

	result, err := f.svc.ChangeStatus(context.Background(), "resv-1", StatusApproved, manager())
	require.NoError(t, err, "side effect failures never fail the transition")
	assert.Equal(t, StatusApproved, result.Reservation.Status)
	assert.Contains(t, result.Warning, "notification")
}

// --- SubmitReturn / VerifyReturn ---

func TestSubmitReturnAwaitsVerification(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusApproved, ReturnPending)
	f.setReturnPolicy(true, false, true)

	note := "returned in one piece"
	result, err := f.svc.SubmitReturn(context.Background(), "resv-1", borrower(), &note)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingVerify, result.Reservation.State())
	require.NotNil(t, result.Reservation.ReturnSubmittedAt)

	// The resource stays rented until a verifier accepts the return.
	assert.Empty(t, f.resources.syncs)
}

func TestSubmitReturnAutoAcceptsWithoutVerification(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusApproved, ReturnPending)
	f.setReturnPolicy(true, false, false)

	result, err := f.svc.SubmitReturn(context.Background(), "resv-1", borrower(), nil)
	require.NoError(t, err)
	assert.Equal(t, StateReturnedDone, result.Reservation.State())

	require.Len(t, f.resources.syncs, 1)
	assert.Equal(t, resource.StatusAvailable, f.resources.syncs[0].status)
}

func TestSubmitReturnRequiresPhoto(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusApproved, ReturnPending)
	f.setReturnPolicy(true, true, true)

	_, err := f.svc.SubmitReturn(context.Background(), "resv-1", borrower(), nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, errKind(t, err))

	f.evidences.attached = []*evidence.Evidence{{ID: "ev-1", ReservationID: "resv-1"}}
	result, err := f.svc.SubmitReturn(context.Background(), "resv-1", borrower(), nil)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingVerify, result.Reservation.State())
}

func TestSubmitReturnBorrowerOnly(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusApproved, ReturnPending)

	_, err := f.svc.SubmitReturn(context.Background(), "resv-1", manager(), nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindPermission, errKind(t, err))
}

func TestSubmitReturnTwiceRejected(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusApproved, ReturnReturned)
	f.setReturnPolicy(true, false, true)

	_, err := f.svc.SubmitReturn(context.Background(), "resv-1", borrower(), nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, errKind(t, err))
}

func TestVerifyReturnAccepted(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusApproved, ReturnReturned)
	f.setReturnPolicy(true, false, true)

	actor := manager()
	result, err := f.svc.VerifyReturn(context.Background(), "resv-1", ReturnVerified, ConditionGood, actor)
	require.NoError(t, err)
	assert.Equal(t, StateReturnedDone, result.Reservation.State())
	require.NotNil(t, result.Reservation.ReturnCondition)
	assert.Equal(t, ConditionGood, *result.Reservation.ReturnCondition)
	require.NotNil(t, result.Reservation.VerifiedBy)
	assert.Equal(t, actor.UserID, *result.Reservation.VerifiedBy)

	require.Len(t, f.resources.syncs, 1)
	assert.Equal(t, resource.StatusAvailable, f.resources.syncs[0].status)
}

func TestVerifyReturnRejectedReopensLoan(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusApproved, ReturnReturned)
	f.setReturnPolicy(true, false, true)

	result, err := f.svc.VerifyReturn(context.Background(), "resv-1", ReturnRejected, ConditionDamaged, manager())
	require.NoError(t, err)
	assert.Equal(t, StateApproved, result.Reservation.State())

	// Rejection keeps the loan open; the resource must not be freed.
	assert.Empty(t, f.resources.syncs)
}

func TestVerifyReturnValidation(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusApproved, ReturnReturned)
	ctx := context.Background()

	_, err := f.svc.VerifyReturn(ctx, "resv-1", ReturnPending, ConditionGood, manager())
	assert.Equal(t, apperror.KindValidation, errKind(t, err))

	_, err = f.svc.VerifyReturn(ctx, "resv-1", ReturnVerified, Condition("pristine"), manager())
	assert.ErrorIs(t, err, ErrInvalidCondition)

	_, err = f.svc.VerifyReturn(ctx, "resv-1", ReturnVerified, ConditionGood, borrower())
	assert.Equal(t, apperror.KindPermission, errKind(t, err))
}

func TestVerifyReturnNothingSubmitted(t *testing.T) {
	f := newFixture()
	f.seedReservation(StatusApproved, ReturnPending)

	_, err := f.svc.VerifyReturn(context.Background(), "resv-1", ReturnVerified, ConditionGood, manager())
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, errKind(t, err))
}
