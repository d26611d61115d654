package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todocollab/backend/internal/models"
)

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	signed, err := m.Issue(42, models.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestManager_ParseRejectsWrongSecret(t *testing.T) {
	m1 := NewManager("secret-one", time.Hour)
	m2 := NewManager("secret-two", time.Hour)

	signed, err := m1.Issue(1, models.RoleMember)
	require.NoError(t, err)

	_, err = m2.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_ParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	signed, err := m.Issue(1, models.RoleMember)
	require.NoError(t, err)

	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_ParseRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
