package login_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/auth/login"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	args := m.Called(ctx, email, rawPassword)
	user, _ := args.Get(1).(*models.User)
	return args.String(0), user, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler(t *testing.T) {
	user := &models.User{ID: 1, UID: "some-uuid", Email: "test@example.com"}

	tests := []struct {
		name           string
		body           string
		setupMocks     func(s *ServiceMock)
		wantStatusCode int
		wantToken      string
	}{
		{
			name: "successful login",
			body: `{"email":"test@example.com","password":"password123"}`,
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "test@example.com", "password123").
					Return("signed-token", user, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantToken:      "signed-token",
		},
		{
			name:           "invalid json",
			body:           `{"email":`,
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing password",
			body:           `{"email":"test@example.com"}`,
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "wrong credentials",
			body: `{"email":"test@example.com","password":"wrongpassword"}`,
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "test@example.com", "wrongpassword").
					Return("", nil, auth.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "service failure",
			body: `{"email":"test@example.com","password":"password123"}`,
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "test@example.com", "password123").
					Return("", nil, errors.New("db error")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMocks(svc)

			handler := login.New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantToken != "" {
				assert.Contains(t, rec.Body.String(), tt.wantToken)
			}
			svc.AssertExpectations(t)
		})
	}
}
