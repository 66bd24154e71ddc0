package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashikaparyani/event-management-backend/internal/models"
)

func TestTokenRoundTripCarriesRole(t *testing.T) {
	s := NewAuthService(nil, "test-secret")

	token, err := s.GenerateToken(42, models.RoleCoordinator)
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleCoordinator, claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(nil, "secret-a")
	verifier := NewAuthService(nil, "secret-b")

	token, err := issuer.GenerateToken(1, models.RoleParticipant)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	s := NewAuthService(nil, "test-secret")

	_, err := s.ValidateToken("not-a-token")
	assert.Error(t, err)
}
