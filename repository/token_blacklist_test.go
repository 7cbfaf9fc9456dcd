package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Govind-619/ShipSphere/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTokenBlacklist(t *testing.T) {
	db := openTestDB(t)
	blacklist := NewGormTokenBlacklist(db)
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	blacklist.now = func() time.Time { return now }
	ctx := context.Background()

	revoked, err := blacklist.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, "token-a", now.Add(time.Hour)))
	require.NoError(t, blacklist.Revoke(ctx, "token-a", now.Add(time.Hour)), "revoking twice is fine")
	require.NoError(t, blacklist.Revoke(ctx, "token-b", now.Add(-time.Minute)))
	require.NoError(t, blacklist.Revoke(ctx, "token-c", now))

	revoked, err = blacklist.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked, "expired entries no longer count")

	revoked, err = blacklist.IsRevoked(ctx, "token-c")
	require.NoError(t, err)
	assert.False(t, revoked, "a token expiring now is already rejected by its own exp")

	purged, err := blacklist.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	var count int64
	require.NoError(t, db.Model(&models.BlacklistedToken{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRevokedTokenKey(t *testing.T) {
	key := revokedTokenKey("abc")
	assert.True(t, strings.HasPrefix(key, "revoked_token:"))
	assert.Len(t, strings.TrimPrefix(key, "revoked_token:"), 64)
	assert.Equal(t, key, revokedTokenKey("abc"))
	assert.NotEqual(t, key, revokedTokenKey("abd"))
}
