package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/team-divops/backend/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Repositories struct {
	Sessions Sessions
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Sessions: newSessionRepository(db),
	}
}

func NewRedisRepositories(client redis.UniversalClient) *Repositories {
	return &Repositories{
		Sessions: newRedisSessionRepository(client),
	}
}

// Sessions is the access boundary over persisted sessions.
// Implementations keep no in-process state and are safe for concurrent use.
type Sessions interface {
	Create(ctx context.Context, session *domain.Session) error
	// FindByRefreshToken returns nil and a nil error when no session holds the token.
	FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	// FindByID returns nil and a nil error when the session does not exist.
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	// DeleteByEmail removes every session whose email matches exactly, atomically.
	DeleteByEmail(ctx context.Context, email string) (int64, error)
	DeleteByRefreshToken(ctx context.Context, refreshToken string) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s failed: %w: %w", op, domain.ErrStoreUnavailable, err)
}
