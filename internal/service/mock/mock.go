package mock_service

import (
	"context"

	"github.com/team-divops/backend/internal/service"
	"github.com/team-divops/backend/pkg/auth"

	"github.com/stretchr/testify/mock"
)

type Sessions struct {
	mock.Mock
}

func (m *Sessions) Create(ctx context.Context, input service.CreateSessionInput) (*service.Tokens, error) {
	args := m.Called(ctx, input)

	tokens, _ := args.Get(0).(*service.Tokens)
	return tokens, args.Error(1)
}

func (m *Sessions) Refresh(ctx context.Context, refreshToken string) (*service.Tokens, error) {
	args := m.Called(ctx, refreshToken)

	tokens, _ := args.Get(0).(*service.Tokens)
	return tokens, args.Error(1)
}

func (m *Sessions) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)

	return args.Error(0)
}

func (m *Sessions) LogoutAll(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)

	return args.Get(0).(int64), args.Error(1)
}

func (m *Sessions) Verify(ctx context.Context, accessToken string) (*auth.Claims, error) {
	args := m.Called(ctx, accessToken)

	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

func (m *Sessions) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}
