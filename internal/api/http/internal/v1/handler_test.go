package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/team-divops/backend/internal/config"
	"github.com/team-divops/backend/internal/domain"
	"github.com/team-divops/backend/internal/service"
	mock_service "github.com/team-divops/backend/internal/service/mock"
	"github.com/team-divops/backend/pkg/auth"
	"github.com/team-divops/backend/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testInternalToken = "internal-secret"

func newTestRouter(t *testing.T) (*gin.Engine, *mock_service.Sessions) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	validator.RegisterGinValidator()

	sessions := &mock_service.Sessions{}
	t.Cleanup(func() { sessions.AssertExpectations(t) })

	h := NewHandler(&service.Services{Sessions: sessions}, &config.Config{InternalAPIToken: testInternalToken})

	router := gin.New()
	h.Init(router.Group("/api"))
	h.InitInternal(router.Group("/internal"))

	return router, sessions
}

func doRequest(router *gin.Engine, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorStruct {
	t.Helper()

	var body ErrorStruct
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   ErrorCode
	}{
		{name: "ok", body: `{"refresh_token":"t1"}`, wantStatus: http.StatusOK},
		{name: "unknown token", body: `{"refresh_token":"t1"}`, serviceErr: service.ErrSessionNotFound, wantStatus: http.StatusUnauthorized, wantCode: SessionNotFoundCode},
		{name: "expired", body: `{"refresh_token":"t1"}`, serviceErr: service.ErrSessionExpired, wantStatus: http.StatusUnauthorized, wantCode: SessionExpiredCode},
		{
			name:       "store down",
			body:       `{"refresh_token":"t1"}`,
			serviceErr: fmt.Errorf("find: %w: %w", domain.ErrStoreUnavailable, errors.New("dial tcp")),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   SessionStoreUnavailableCode,
		},
		{name: "unexpected", body: `{"refresh_token":"t1"}`, serviceErr: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: UnknownErrorCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, sessions := newTestRouter(t)

			if tt.serviceErr != nil {
				sessions.On("Refresh", mock.Anything, "t1").Return(nil, tt.serviceErr)
			} else {
				sessions.On("Refresh", mock.Anything, "t1").Return(&service.Tokens{
					AccessToken: "access",
					AccessTTL:   15 * time.Minute,
				}, nil)
			}

			w := doRequest(router, http.MethodPost, "/api/v1/auth/refresh", tt.body, nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.serviceErr == nil {
				var resp accessTokenResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "access", resp.AccessToken)
				assert.Equal(t, int64(900), resp.ExpiresIn)
				return
			}

			assert.Equal(t, tt.wantCode, decodeError(t, w).ErrorCode)
		})
	}
}

func TestRefresh_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, body := range []string{`{}`, `{"refresh_token":"   "}`} {
		w := doRequest(router, http.MethodPost, "/api/v1/auth/refresh", body, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, body)

		var resp ValidationErrorStruct
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, ValidationErrorCode, resp.ErrorCode)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "refresh_token", resp.Errors[0].FieldKey)
	}

	w := doRequest(router, http.MethodPost, "/api/v1/auth/refresh", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrorCode(InvalidInputCode), decodeError(t, w).ErrorCode)
}

func TestLogout(t *testing.T) {
	router, sessions := newTestRouter(t)
	sessions.On("Logout", mock.Anything, "t1").Return(nil)

	w := doRequest(router, http.MethodPost, "/api/v1/auth/logout", `{"refresh_token":"t1"}`, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestLogoutAll(t *testing.T) {
	router, sessions := newTestRouter(t)
	claims := &auth.Claims{SessionID: "s2"}
	claims.Subject = "a@x.com"
	sessions.On("Verify", mock.Anything, "user").Return(claims, nil)
	sessions.On("LogoutAll", mock.Anything, "a@x.com").Return(int64(3), nil)

	w := doRequest(router, http.MethodPost, "/api/v1/auth/logout-all", "", map[string]string{
		authorizationHeader: "Bearer user",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp deletedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Deleted)
}

func TestUserIdentity_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "no header"},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "empty token", header: "Bearer "},
		{name: "invalid token", header: "Bearer bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, sessions := newTestRouter(t)
			sessions.On("Verify", mock.Anything, "bad").Return(nil, service.ErrInvalidAccessToken).Maybe()

			headers := map[string]string{}
			if tt.header != "" {
				headers[authorizationHeader] = tt.header
			}

			w := doRequest(router, http.MethodGet, "/api/v1/auth/verify", "", headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, ErrorCode(UnauthorizedCode), decodeError(t, w).ErrorCode)
			sessions.AssertNotCalled(t, "LogoutAll", mock.Anything, mock.Anything)
		})
	}
}

func TestVerify(t *testing.T) {
	router, sessions := newTestRouter(t)

	claims := &auth.Claims{SessionID: "s1"}
	claims.Subject = "a@x.com"
	sessions.On("Verify", mock.Anything, "good").Return(claims, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/auth/verify", "", map[string]string{
		authorizationHeader: "Bearer good",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp verifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, verifyResponse{Subject: "a@x.com", SessionID: "s1"}, resp)
}

func TestInternalToken(t *testing.T) {
	for _, token := range []string{"", "wrong"} {
		router, _ := newTestRouter(t)

		headers := map[string]string{}
		if token != "" {
			headers[internalTokenHeader] = token
		}

		w := doRequest(router, http.MethodDelete, "/internal/v1/sessions?email=a@x.com", "", headers)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, ErrorCode(InvalidInternalTokenCode), decodeError(t, w).ErrorCode)
	}
}

func TestCreateSession(t *testing.T) {
	router, sessions := newTestRouter(t)

	expiresAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	sessions.On("Create", mock.Anything, service.CreateSessionInput{
		Email:     "a@x.com",
		UserAgent: "curl/8.0",
		IP:        "192.0.2.1",
	}).Return(&service.Tokens{
		SessionID:        "s1",
		AccessToken:      "access",
		AccessTTL:        time.Minute,
		RefreshToken:     "refresh",
		RefreshExpiresAt: expiresAt,
	}, nil)

	w := doRequest(router, http.MethodPost, "/internal/v1/sessions", `{"email":"a@x.com"}`, map[string]string{
		internalTokenHeader: testInternalToken,
		"User-Agent":        "curl/8.0",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp createSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Equal(t, int64(60), resp.ExpiresIn)
	assert.True(t, expiresAt.Equal(resp.RefreshExpiresAt))
}

func TestCreateSession_ExplicitClient(t *testing.T) {
	router, sessions := newTestRouter(t)

	sessions.On("Create", mock.Anything, service.CreateSessionInput{
		Email:     "a@x.com",
		UserAgent: "mobile",
		IP:        "10.0.0.7",
	}).Return(nil, service.ErrSessionExists)

	w := doRequest(router, http.MethodPost, "/internal/v1/sessions",
		`{"email":"a@x.com","user_agent":"mobile","ip":"10.0.0.7"}`,
		map[string]string{internalTokenHeader: testInternalToken},
	)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, ErrorCode(SessionAlreadyExistsCode), decodeError(t, w).ErrorCode)
}

func TestCreateSession_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, body := range []string{`{}`, `{"email":"not-an-email"}`, `{"email":"a@x.com","ip":"999.1.1.1"}`} {
		w := doRequest(router, http.MethodPost, "/internal/v1/sessions", body, map[string]string{
			internalTokenHeader: testInternalToken,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestDeleteSessionsByEmail(t *testing.T) {
	router, sessions := newTestRouter(t)
	sessions.On("LogoutAll", mock.Anything, "a@x.com").Return(int64(2), nil)

	headers := map[string]string{internalTokenHeader: testInternalToken}

	w := doRequest(router, http.MethodDelete, "/internal/v1/sessions?email=a@x.com", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	var resp deletedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Deleted)

	w = doRequest(router, http.MethodDelete, "/internal/v1/sessions", "", headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteSessionsByEmail_StoreUnavailable(t *testing.T) {
	router, sessions := newTestRouter(t)
	sessions.On("LogoutAll", mock.Anything, "a@x.com").
		Return(int64(0), fmt.Errorf("delete: %w", domain.ErrStoreUnavailable))

	w := doRequest(router, http.MethodDelete, "/internal/v1/sessions?email=a@x.com", "", map[string]string{
		internalTokenHeader: testInternalToken,
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, ErrorCode(SessionStoreUnavailableCode), decodeError(t, w).ErrorCode)
}

func TestUserIdentity_StoreUnavailable(t *testing.T) {
	router, sessions := newTestRouter(t)
	sessions.On("Verify", mock.Anything, "good").
		Return(nil, fmt.Errorf("find session by id failed: %w", domain.ErrStoreUnavailable))

	w := doRequest(router, http.MethodGet, "/api/v1/auth/verify", "", map[string]string{
		authorizationHeader: "Bearer good",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, ErrorCode(SessionStoreUnavailableCode), decodeError(t, w).ErrorCode)
}
