package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossdrift/orgshare-backend/internal/identity"
)

func member() identity.Principal {
	return identity.Principal{
		UserID:         "user-1",
		OrganizationID: "org-1",
		Department:     "IT",
		Role:           identity.RoleManager,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.GenerateAccessToken(member(), "a@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestClaimsCarryMembershipSnapshot(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.GenerateAccessToken(member(), "a@example.com")
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "org-1", claims.OrganizationID)
	assert.Equal(t, "IT", claims.Department)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, member(), claims.Snapshot())
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, err := m.GenerateAccessToken(member(), "a@example.com")
	require.NoError(t, err)

	_, err = other.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.GenerateAccessToken(member(), "a@example.com")
	require.NoError(t, err)

	_, err = m.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	_, err := m.ParseAndValidate("not-a-token")
	assert.Error(t, err)
}
