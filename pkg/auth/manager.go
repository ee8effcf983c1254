package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/team-divops/backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidAccessToken = errors.New("invalid access token")

// TokenManager provides logic for JWT & Refresh tokens generation and parsing.
type TokenManager interface {
	NewJWT(subject string, sessionID string) (string, time.Duration, error)
	Parse(accessToken string) (*Claims, error)
	NewRefreshToken() (string, time.Duration, error)
}

// Claims are the access token claims the services rely on.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type Manager struct {
	signingKey      string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	now             func() time.Time
}

func NewManager(cfg config.JWTConfig) (*Manager, error) {
	if cfg.SigningKey == "" {
		return nil, errors.New("empty signing key")
	}

	if cfg.AccessTokenTTL == 0 {
		return nil, errors.New("empty access token ttl")
	}

	if cfg.RefreshTokenTTL == 0 {
		return nil, errors.New("empty refresh token ttl")
	}

	return &Manager{
		signingKey:      cfg.SigningKey,
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		now:             time.Now,
	}, nil
}

func (m *Manager) NewJWT(subject string, sessionID string) (string, time.Duration, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTokenTTL)),
		},
	})

	accessToken, err := token.SignedString([]byte(m.signingKey))
	if err != nil {
		return "", 0, fmt.Errorf("sign jwt failed: %w", err)
	}

	return accessToken, m.accessTokenTTL, nil
}

// Parse validates the signature and expiry of accessToken. Any failure wraps ErrInvalidAccessToken.
func (m *Manager) Parse(accessToken string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(accessToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(m.signingKey), nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccessToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrInvalidAccessToken)
	}

	return &claims, nil
}

func (m *Manager) NewRefreshToken() (string, time.Duration, error) {
	refreshToken, err := uuid.NewV7()
	if err != nil {
		return "", 0, fmt.Errorf("new refresh token failed: %w", err)
	}
	return refreshToken.String(), m.refreshTokenTTL, nil
}
