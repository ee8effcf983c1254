package mock_repository

import (
	"context"
	"time"

	"github.com/team-divops/backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type Sessions struct {
	mock.Mock
}

func (m *Sessions) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)

	return args.Error(0)
}

func (m *Sessions) FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	args := m.Called(ctx, refreshToken)

	session, _ := args.Get(0).(*domain.Session)
	return session, args.Error(1)
}

func (m *Sessions) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)

	session, _ := args.Get(0).(*domain.Session)
	return session, args.Error(1)
}

func (m *Sessions) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)

	return args.Get(0).(int64), args.Error(1)
}

func (m *Sessions) DeleteByRefreshToken(ctx context.Context, refreshToken string) (int64, error) {
	args := m.Called(ctx, refreshToken)

	return args.Get(0).(int64), args.Error(1)
}

func (m *Sessions) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)

	return args.Get(0).(int64), args.Error(1)
}
