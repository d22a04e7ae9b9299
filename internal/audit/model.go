package audit

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

var ErrNotFound = apperror.NotFound("audit entry not found")

// Entry is one append-only audit record for a workflow transition or
// administrative action.
type Entry struct {
	ID             string
	OrganizationID string
	ActorID        string
	Action         string
	SubjectType    string // e.g. "reservation", "transfer_request", "resource"
	SubjectID      string
	ResourceID     *string
	FromStatus     string
	ToStatus       string
	Detail         map[string]any
	CreatedAt      time.Time
}

// Filter defines parameters for listing audit entries.
type Filter struct {
	OrganizationID string
	SubjectType    string
	SubjectID      string
	ActorID        string
	Page           int
	PageSize       int
}
