package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/Govind-619/ShipSphere/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenBlacklist stores admin tokens revoked by logout until they expire.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// GormTokenBlacklist keeps revoked tokens in the blacklisted_tokens table.
type GormTokenBlacklist struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormTokenBlacklist creates a database-backed blacklist
func NewGormTokenBlacklist(db *gorm.DB) *GormTokenBlacklist {
	return &GormTokenBlacklist{db: db, now: time.Now}
}

// Revoke blacklists token. Revoking the same token twice is not an error.
func (b *GormTokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	entry := models.BlacklistedToken{Token: token, ExpiresAt: expiresAt}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(&entry).Error
}

// IsRevoked reports whether token was revoked and has not yet expired
func (b *GormTokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	var entry models.BlacklistedToken
	err := b.db.WithContext(ctx).
		Where("token = ?", token).
		Limit(1).
		Find(&entry).Error
	if err != nil {
		return false, err
	}
	return entry.ID != 0 && !entry.Expired(b.now()), nil
}

// PurgeExpired deletes entries whose tokens have expired on their own
func (b *GormTokenBlacklist) PurgeExpired(ctx context.Context) (int64, error) {
	result := b.db.WithContext(ctx).
		Where("expires_at <= ?", b.now()).
		Delete(&models.BlacklistedToken{})
	return result.RowsAffected, result.Error
}

// RedisTokenBlacklist keeps revoked tokens as expiring redis keys.
type RedisTokenBlacklist struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisTokenBlacklist creates a redis-backed blacklist
func NewRedisTokenBlacklist(rdb *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{rdb: rdb, now: time.Now}
}

func revokedTokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "revoked_token:" + hex.EncodeToString(sum[:])
}

// Revoke blacklists token until expiresAt
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, revokedTokenKey(token), 1, ttl).Err()
}

// IsRevoked reports whether token is still blacklisted
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := b.rdb.Exists(ctx, revokedTokenKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
