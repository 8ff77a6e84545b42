package utilities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "user@example.com", claims.Subject)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	original := accessTokenExpiry
	accessTokenExpiry = -time.Minute
	defer func() { accessTokenExpiry = original }()

	token, err := GenerateToken(1, "old@example.com")
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestConfigureJWTChangesSecret(t *testing.T) {
	token, err := GenerateToken(1, "a@b.c")
	require.NoError(t, err)

	ConfigureJWT("another-secret", 0)
	defer ConfigureJWT("digiassistant-dev-secret", 0)

	_, err = ValidateToken(token)
	assert.Error(t, err, "token signed with the old secret must not validate")
}
