package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/team-divops/backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix      = "session:id:"
	sessionTokenKeyPrefix = "session:token:"
	sessionEmailKeyPrefix = "session:email:"
)

// KEYS: session hash, token index, email index.
// ARGV: id, email, refresh_token, user_agent, ip, expires_at, created_at, expire_at_ms, now_ms.
var createSessionScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 or redis.call('EXISTS', KEYS[2]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'id', ARGV[1], 'email', ARGV[2], 'refresh_token', ARGV[3], 'user_agent', ARGV[4], 'ip', ARGV[5], 'expires_at', ARGV[6], 'created_at', ARGV[7])
redis.call('SET', KEYS[2], ARGV[1])
redis.call('PEXPIREAT', KEYS[1], ARGV[8])
redis.call('PEXPIREAT', KEYS[2], ARGV[8])
redis.call('SADD', KEYS[3], ARGV[1])
local ttl = redis.call('PTTL', KEYS[3])
if ttl < 0 or ttl < tonumber(ARGV[8]) - tonumber(ARGV[9]) then
	redis.call('PEXPIREAT', KEYS[3], ARGV[8])
end
return 1
`)

// KEYS: email index. ARGV: session key prefix, token key prefix.
var deleteByEmailScript = redis.NewScript(`
local ids = redis.call('SMEMBERS', KEYS[1])
local deleted = 0
for _, id in ipairs(ids) do
	local key = ARGV[1] .. id
	local token = redis.call('HGET', key, 'refresh_token')
	if token then
		redis.call('DEL', ARGV[2] .. token)
		deleted = deleted + redis.call('DEL', key)
	end
end
redis.call('DEL', KEYS[1])
return deleted
`)

// KEYS: token index. ARGV: session key prefix, email key prefix.
var deleteByTokenScript = redis.NewScript(`
local id = redis.call('GET', KEYS[1])
if not id then
	return 0
end
redis.call('DEL', KEYS[1])
local key = ARGV[1] .. id
local email = redis.call('HGET', key, 'email')
if email then
	redis.call('SREM', ARGV[2] .. email, id)
end
return redis.call('DEL', key)
`)

type redisSessionRepository struct {
	client redis.UniversalClient
}

func newRedisSessionRepository(client redis.UniversalClient) *redisSessionRepository {
	return &redisSessionRepository{
		client: client,
	}
}

func (r *redisSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	keys := []string{
		sessionKeyPrefix + session.ID,
		sessionTokenKeyPrefix + session.RefreshToken,
		sessionEmailKeyPrefix + session.Email,
	}
	created, err := createSessionScript.Run(ctx, r.client, keys,
		session.ID,
		session.Email,
		session.RefreshToken,
		session.UserAgent,
		session.IP,
		session.ExpiresAt.UTC().Format(time.RFC3339Nano),
		session.CreatedAt.UTC().Format(time.RFC3339Nano),
		session.ExpiresAt.UnixMilli(),
		time.Now().UnixMilli(),
	).Int64()
	if err != nil {
		return storeError("redis create session", err)
	}

	if created == 0 {
		return domain.ErrDuplicateEntry
	}

	return nil
}

func (r *redisSessionRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	id, err := r.client.Get(ctx, sessionTokenKeyPrefix+refreshToken).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, storeError("redis get session id by refresh token", err)
	}

	// the hash may expire or be deleted between the two reads
	return r.FindByID(ctx, id)
}

func (r *redisSessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	fields, err := r.client.HGetAll(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return nil, storeError("redis get session", err)
	}

	if len(fields) == 0 {
		return nil, nil
	}

	session, err := sessionFromHash(fields)
	if err != nil {
		return nil, storeError("redis decode session", err)
	}

	return session, nil
}

func (r *redisSessionRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	deleted, err := deleteByEmailScript.Run(ctx, r.client,
		[]string{sessionEmailKeyPrefix + email},
		sessionKeyPrefix,
		sessionTokenKeyPrefix,
	).Int64()
	if err != nil {
		return 0, storeError("redis delete sessions by email", err)
	}

	return deleted, nil
}

func (r *redisSessionRepository) DeleteByRefreshToken(ctx context.Context, refreshToken string) (int64, error) {
	deleted, err := deleteByTokenScript.Run(ctx, r.client,
		[]string{sessionTokenKeyPrefix + refreshToken},
		sessionKeyPrefix,
		sessionEmailKeyPrefix,
	).Int64()
	if err != nil {
		return 0, storeError("redis delete session by refresh token", err)
	}

	return deleted, nil
}

// DeleteExpired is a no-op, session keys carry their own expiry.
func (r *redisSessionRepository) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func sessionFromHash(fields map[string]string) (*domain.Session, error) {
	expiresAt, err := time.Parse(time.RFC3339Nano, fields["expires_at"])
	if err != nil {
		return nil, fmt.Errorf("parse session expires_at: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("parse session created_at: %w", err)
	}

	return &domain.Session{
		ID:           fields["id"],
		Email:        fields["email"],
		RefreshToken: fields["refresh_token"],
		UserAgent:    fields["user_agent"],
		IP:           fields["ip"],
		ExpiresAt:    expiresAt,
		CreatedAt:    createdAt,
	}, nil
}
