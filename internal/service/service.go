package service

import (
	"context"
	"time"

	"github.com/team-divops/backend/internal/repository"
	"github.com/team-divops/backend/pkg/auth"
)

type Services struct {
	Sessions Sessions
}

type Deps struct {
	// TokenManager may be nil in processes that never issue or verify tokens.
	TokenManager auth.TokenManager
	Repos        *repository.Repositories
	// Notifier is optional, nil disables sign-out notifications.
	Notifier Notifier
}

func NewServices(deps Deps) *Services {
	return &Services{
		Sessions: newSessionService(deps.Repos.Sessions, deps.TokenManager, deps.Notifier),
	}
}

type Sessions interface {
	Create(ctx context.Context, input CreateSessionInput) (*Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, email string) (int64, error)
	// Verify parses the access token and checks that its session still exists.
	Verify(ctx context.Context, accessToken string) (*auth.Claims, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

// Notifier announces that sessions of an account were revoked.
type Notifier interface {
	SessionsRevoked(ctx context.Context, email string, count int64) error
}

type CreateSessionInput struct {
	Email     string
	UserAgent string
	IP        string
}

type Tokens struct {
	SessionID        string
	AccessToken      string
	AccessTTL        time.Duration
	RefreshToken     string
	RefreshExpiresAt time.Time
}
