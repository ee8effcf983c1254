package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/team-divops/backend/internal/domain"
	"github.com/team-divops/backend/internal/repository"
	"github.com/team-divops/backend/pkg/auth"
	"github.com/team-divops/backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type sessionService struct {
	sessionRepository repository.Sessions
	tokenManager      auth.TokenManager
	notifier          Notifier
	now               func() time.Time
}

func newSessionService(sessionRepository repository.Sessions,
	tokenManager auth.TokenManager,
	notifier Notifier,
) *sessionService {
	return &sessionService{
		sessionRepository: sessionRepository,
		tokenManager:      tokenManager,
		notifier:          notifier,
		now:               time.Now,
	}
}

// Create persists a new session for an already authenticated account and issues its tokens.
func (s *sessionService) Create(ctx context.Context, input CreateSessionInput) (*Tokens, error) {
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: empty email", ErrInvalidInput)
	}

	sessionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate session id failed: %w", err)
	}

	refreshToken, refreshTTL, err := s.tokenManager.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token failed: %w", err)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	session := &domain.Session{
		ID:           sessionID.String(),
		Email:        input.Email,
		RefreshToken: refreshToken,
		UserAgent:    input.UserAgent,
		IP:           input.IP,
		ExpiresAt:    now.Add(refreshTTL),
		CreatedAt:    now,
	}

	if err := s.sessionRepository.Create(ctx, session); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, ErrSessionExists
		}
		return nil, fmt.Errorf("create session failed: %w", err)
	}

	return s.issue(session)
}

func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, fmt.Errorf("%w: empty refresh token", ErrInvalidInput)
	}

	session, err := s.sessionRepository.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("find session by refresh token failed: %w", err)
	}

	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.Expired(s.now()) {
		if _, err := s.sessionRepository.DeleteByRefreshToken(ctx, refreshToken); err != nil {
			logger.Warn("delete expired session failed", zap.String("session_id", session.ID), zap.Error(err))
		}
		return nil, ErrSessionExpired
	}

	return s.issue(session)
}

func (s *sessionService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return fmt.Errorf("%w: empty refresh token", ErrInvalidInput)
	}

	if _, err := s.sessionRepository.DeleteByRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("delete session by refresh token failed: %w", err)
	}

	return nil
}

// LogoutAll removes every session of email. Matching is exact and case-sensitive.
func (s *sessionService) LogoutAll(ctx context.Context, email string) (int64, error) {
	if strings.TrimSpace(email) == "" {
		return 0, fmt.Errorf("%w: empty email", ErrInvalidInput)
	}

	deleted, err := s.sessionRepository.DeleteByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("delete sessions by email failed: %w", err)
	}

	if deleted > 0 && s.notifier != nil {
		if err := s.notifier.SessionsRevoked(ctx, email, deleted); err != nil {
			logger.Warn("enqueue sessions revoked notification failed", zap.Error(err))
		}
	}

	return deleted, nil
}

// Verify rejects tokens whose session was logged out, revoked by email or has expired.
func (s *sessionService) Verify(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.tokenManager.Parse(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccessToken, err)
	}

	session, err := s.sessionRepository.FindByID(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("find session by id failed: %w", err)
	}

	if session == nil || session.Email != claims.Subject || session.Expired(s.now()) {
		return nil, fmt.Errorf("%w: session %q revoked", ErrInvalidAccessToken, claims.SessionID)
	}

	return claims, nil
}

func (s *sessionService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.sessionRepository.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions failed: %w", err)
	}

	return deleted, nil
}

func (s *sessionService) issue(session *domain.Session) (*Tokens, error) {
	accessToken, accessTTL, err := s.tokenManager.NewJWT(session.Email, session.ID)
	if err != nil {
		return nil, fmt.Errorf("generate access token failed: %w", err)
	}

	return &Tokens{
		SessionID:        session.ID,
		AccessToken:      accessToken,
		AccessTTL:        accessTTL,
		RefreshToken:     session.RefreshToken,
		RefreshExpiresAt: session.ExpiresAt,
	}, nil
}
