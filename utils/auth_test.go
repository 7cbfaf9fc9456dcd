package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminToken(t *testing.T) {
	now := time.Now()
	token, expiresAt, err := GenerateAdminToken(12, "secret", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(AdminTokenTTL), expiresAt)

	claims, err := ParseAdminToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.AdminID)
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())

	_, err = ParseAdminToken(token, "other")
	assert.Error(t, err)
}

func TestAdminToken_Rejects(t *testing.T) {
	_, _, err := GenerateAdminToken(1, "", time.Now())
	assert.Error(t, err)

	expired, _, err := GenerateAdminToken(1, "secret", time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	_, err = ParseAdminToken(expired, "secret")
	assert.Error(t, err)

	noAdmin, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseAdminToken(noAdmin, "secret")
	assert.EqualError(t, err, "admin ID not found in token claims")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword("s3cret", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
