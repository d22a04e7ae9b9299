package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleManager))
	assert.True(t, RoleAdmin.AtLeast(RoleUser))
	assert.True(t, RoleManager.AtLeast(RoleUser))
	assert.True(t, RoleManager.AtLeast(RoleManager))

	assert.False(t, RoleUser.AtLeast(RoleManager))
	assert.False(t, RoleManager.AtLeast(RoleAdmin))
}

func TestUnknownRoleRanksBelowEverything(t *testing.T) {
	unknown := Role("superuser")
	assert.False(t, unknown.Valid())
	assert.False(t, unknown.AtLeast(RoleUser))
	assert.True(t, RoleUser.AtLeast(unknown))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("manager")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, r)

	_, err = ParseRole("Manager")
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrUnknownRole)
}
