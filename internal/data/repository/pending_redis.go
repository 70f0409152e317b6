package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dcms/internal/data/entity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pendingKeyPrefix = "dcms:pending:"

// deleteIfCodeScript removes the hash only while its code field still matches.
var deleteIfCodeScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], "code") == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// deleteIfExpiredScript removes the hash only while its expires_at is before ARGV[1].
var deleteIfExpiredScript = redis.NewScript(`
local exp = tonumber(redis.call("HGET", KEYS[1], "expires_at"))
if exp ~= nil and exp < tonumber(ARGV[1]) then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const sweepScanCount = 100

type redisPendingStore struct {
	client *redis.Client
	grace  time.Duration
	log    *zap.Logger
}

// NewRedisPendingStore keeps pending registrations in Redis hashes so entries
// are shared between instances. Keys live for grace past ExpiresAt as a
// backstop; the sweep normally removes them first.
func NewRedisPendingStore(client *redis.Client, grace time.Duration, log *zap.Logger) PendingStore {
	return &redisPendingStore{
		client: client,
		grace:  grace,
		log:    log.With(zap.String("repository", "pending_redis")),
	}
}

func (s *redisPendingStore) key(email string) string {
	return pendingKeyPrefix + email
}

func (s *redisPendingStore) Put(ctx context.Context, p *entity.PendingRegistration) error {
	key := s.key(p.Email)
	ttl := time.Until(p.ExpiresAt) + s.grace
	if ttl <= 0 {
		ttl = time.Millisecond
	}

	// DEL + HSET + PEXPIRE in one transaction so readers never see a mix of old and new fields.
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, map[string]interface{}{
			"email":      p.Email,
			"password":   p.PasswordHash,
			"code":       p.Code,
			"expires_at": p.ExpiresAt.UnixMilli(),
			"created_at": p.CreatedAt.UnixMilli(),
		})
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		s.log.Error("Failed to store pending registration", zap.Error(err), zap.String("email", p.Email))
		return fmt.Errorf("store pending registration for %s: %w", p.Email, err)
	}
	return nil
}

func (s *redisPendingStore) Get(ctx context.Context, email string) (*entity.PendingRegistration, error) {
	var fields struct {
		Email     string `redis:"email"`
		Password  string `redis:"password"`
		Code      string `redis:"code"`
		ExpiresAt int64  `redis:"expires_at"`
		CreatedAt int64  `redis:"created_at"`
	}

	res := s.client.HGetAll(ctx, s.key(email))
	if err := res.Err(); err != nil {
		s.log.Error("Failed to load pending registration", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("load pending registration for %s: %w", email, err)
	}
	if len(res.Val()) == 0 {
		return nil, nil
	}
	if err := res.Scan(&fields); err != nil {
		return nil, fmt.Errorf("decode pending registration for %s: %w", email, err)
	}

	return &entity.PendingRegistration{
		Email:        fields.Email,
		PasswordHash: fields.Password,
		Code:         fields.Code,
		ExpiresAt:    time.UnixMilli(fields.ExpiresAt),
		CreatedAt:    time.UnixMilli(fields.CreatedAt),
	}, nil
}

func (s *redisPendingStore) DeleteIfCode(ctx context.Context, email, code string) (bool, error) {
	n, err := deleteIfCodeScript.Run(ctx, s.client, []string{s.key(email)}, code).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.log.Error("Failed to delete pending registration", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("delete pending registration for %s: %w", email, err)
	}
	return n > 0, nil
}

// DeleteExpired scans the pending keys and removes every entry already past
// ExpiresAt, so the sweep behaves like the memory store instead of waiting for
// the key TTL. The check runs server-side to avoid deleting a fresh
// replacement written between the scan and the delete.
func (s *redisPendingStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.UnixMilli()
	removed := 0

	iter := s.client.Scan(ctx, 0, pendingKeyPrefix+"*", sweepScanCount).Iterator()
	for iter.Next(ctx) {
		n, err := deleteIfExpiredScript.Run(ctx, s.client, []string{iter.Val()}, cutoff).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			s.log.Error("Failed to remove expired pending registration", zap.Error(err), zap.String("key", iter.Val()))
			return removed, fmt.Errorf("sweep pending registration %s: %w", iter.Val(), err)
		}
		removed += n
	}
	if err := iter.Err(); err != nil {
		s.log.Error("Failed to scan pending registrations", zap.Error(err))
		return removed, fmt.Errorf("scan pending registrations: %w", err)
	}

	if removed > 0 {
		s.log.Debug("Expired pending registrations removed", zap.Int("count", removed))
	}
	return removed, nil
}
