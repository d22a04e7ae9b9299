package identity

import (
	"errors"
	"fmt"
)

var ErrUnknownRole = errors.New("unknown role")

// Role is the membership role of a user within an organization.
// Roles form a total order: user < manager < admin.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// roleRanks maps each role to its position in the hierarchy.
// Comparisons must go through Rank/AtLeast, never string equality chains.
var roleRanks = map[Role]int{
	RoleUser:    1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// Rank returns the numeric rank of the role. Unknown roles rank below every valid role.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// AtLeast reports whether r ranks equal to or above other.
func (r Role) AtLeast(other Role) bool {
	return r.Rank() >= other.Rank()
}

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// Principal is the authenticated actor a request runs as.
// It is resolved from the user's membership row after JWT validation.
type Principal struct {
	UserID         string
	OrganizationID string
	Department     string
	Role           Role
}
