package worker

import (
	"context"
	"fmt"

	"github.com/team-divops/backend/internal/service"
	"github.com/team-divops/backend/pkg/logger"

	"go.uber.org/zap"
)

type sessionPurger struct {
	sessions service.Sessions
}

func newSessionPurger(sessions service.Sessions) *sessionPurger {
	return &sessionPurger{
		sessions: sessions,
	}
}

func (p *sessionPurger) PurgeExpired(ctx context.Context) error {
	deleted, err := p.sessions.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge expired sessions failed: %w", err)
	}

	logger.Info("expired sessions purged", zap.Int64("deleted", deleted))

	return nil
}
