package discussionsHttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/team-divops/backend/internal/config"
	"github.com/team-divops/backend/internal/gatewayclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type verifierMock struct {
	mock.Mock
}

func (m *verifierMock) Verify(ctx context.Context, accessToken string) (*gatewayclient.Identity, error) {
	args := m.Called(ctx, accessToken)

	identity, _ := args.Get(0).(*gatewayclient.Identity)
	return identity, args.Error(1)
}

func newTestRouter(t *testing.T) (http.Handler, *verifierMock) {
	t.Helper()

	gateway := &verifierMock{}
	t.Cleanup(func() { gateway.AssertExpectations(t) })

	cfg := &config.Discussions{
		Limiter: config.Limiter{RPS: 100, Burst: 100, TTL: time.Minute},
	}

	return NewHandlers(gateway, cfg).Init(testContext(t)), gateway
}

func get(router http.Handler, target, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(router, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMe(t *testing.T) {
	router, gateway := newTestRouter(t)
	gateway.On("Verify", mock.Anything, "good").
		Return(&gatewayclient.Identity{Subject: "a@x.com", SessionID: "s1"}, nil)

	w := get(router, "/api/v1/me", "Bearer good")
	require.Equal(t, http.StatusOK, w.Code)

	var resp meResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, meResponse{Subject: "a@x.com", SessionID: "s1"}, resp)
}

func TestMe_Errors(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		gatewayErr error
		wantStatus int
	}{
		{name: "no header", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "rejected by gateway", header: "Bearer bad", gatewayErr: gatewayclient.ErrUnauthorized, wantStatus: http.StatusUnauthorized},
		{
			name:       "gateway down",
			header:     "Bearer bad",
			gatewayErr: fmt.Errorf("%w: %w", gatewayclient.ErrUnavailable, errors.New("connection refused")),
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, gateway := newTestRouter(t)
			if tt.gatewayErr != nil {
				gateway.On("Verify", mock.Anything, "bad").Return(nil, tt.gatewayErr)
			}

			w := get(router, "/api/v1/me", tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestMe_ThroughGatewayClient(t *testing.T) {
	gatewaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"subject":"a@x.com","session_id":"s1"}`))
	}))
	defer gatewaySrv.Close()

	cfg := &config.Discussions{Limiter: config.Limiter{RPS: 100, Burst: 100, TTL: time.Minute}}
	router := NewHandlers(gatewayclient.New(gatewaySrv.URL, gatewaySrv.Client()), cfg).Init(testContext(t))

	assert.Equal(t, http.StatusOK, get(router, "/api/v1/me", "Bearer good").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/api/v1/me", "Bearer other").Code)
}

// testContext mirrors testing.T.Context (Go 1.24+): a context cancelled when the test finishes.
func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return ctx
}
