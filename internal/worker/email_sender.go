package worker

import (
	"context"
	"fmt"

	"github.com/team-divops/backend/internal/config"
	emailProvider "github.com/team-divops/backend/pkg/email"
	"github.com/team-divops/backend/pkg/logger"

	"go.uber.org/zap"
)

type emailSender struct {
	sender emailProvider.Sender
	config config.EmailConfig
}

func newEmailSender(
	sender emailProvider.Sender,
	config config.EmailConfig,
) *emailSender {
	return &emailSender{
		sender: sender,
		config: config,
	}
}

type sessionsRevokedEmailInput struct {
	Email string
	Count int64
}

func (s *emailSender) SendSessionsRevokedEmail(_ context.Context, email string, count int64) error {
	if !s.config.Enabled || s.sender == nil {
		logger.Debug("email disabled, skip sessions revoked email", zap.String("email", email))
		return nil
	}

	subject := "You were signed out of your devices"

	templateInput := sessionsRevokedEmailInput{Email: email, Count: count}
	sendInput := emailProvider.SendEmailInput{Subject: subject, To: email}

	if err := sendInput.GenerateBodyFromHTML(s.config.Templates.Dir, s.config.Templates.SessionsRevoked, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	if err := s.sender.Send(sendInput); err != nil {
		return fmt.Errorf("send email failed: %w", err)
	}

	return nil
}
