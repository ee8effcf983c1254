package worker

import (
	"context"

	"github.com/team-divops/backend/internal/config"
	"github.com/team-divops/backend/internal/service"
	emailProvider "github.com/team-divops/backend/pkg/email"
)

type Workers struct {
	EmailSender   EmailSender
	SessionPurger SessionPurger
}

type Deps struct {
	Services      *service.Services
	EmailProvider emailProvider.Sender
	Config        *config.Config
}

type EmailSender interface {
	SendSessionsRevokedEmail(ctx context.Context, email string, count int64) error
}

type SessionPurger interface {
	PurgeExpired(ctx context.Context) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		EmailSender:   newEmailSender(deps.EmailProvider, deps.Config.Email),
		SessionPurger: newSessionPurger(deps.Services.Sessions),
	}
}
