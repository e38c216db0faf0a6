package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := CreateToken(Identity{ProfileID: 7, Role: RoleCoach})
	require.NoError(t, err)

	identity, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, identity.ProfileID)
	assert.Equal(t, RoleCoach, identity.Role)
	assert.True(t, identity.HasRole(RoleCoach, RoleAdmin))
	assert.False(t, identity.HasRole(RoleAdmin))
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := createToken(Identity{ProfileID: 1, Role: RoleArcher}, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseTokenRejectsUnknownRole(t *testing.T) {
	token, err := CreateToken(Identity{ProfileID: 1, Role: "referee"})
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}
