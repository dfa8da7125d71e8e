package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	customjwt "github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/jwt"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/password"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/services/auth"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/storage/repository"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) CreateSessionToken(ctx context.Context, st models.SessionToken) (int64, error) {
	args := m.Called(ctx, st)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepoMock) GetUserBySessionToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) DeleteSessionToken(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(userUID, email string) (string, error) {
	args := m.Called(userUID, email)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		username   string
		password   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:     "successful registration",
			email:    "test@example.com",
			username: "testuser",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "test@example.com" &&
						user.Username == "testuser" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "password123"
				})).Return(&models.User{ID: 1, UID: "some-uuid", Email: "test@example.com"}, nil).Once()
			},
		},
		{
			name:     "duplicate email",
			email:    "test@example.com",
			username: "testuser",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.Anything).
					Return(nil, repository.ErrAlreadyExists).Once()
			},
			wantErr: auth.ErrUserExists,
		},
		{
			name:     "repository error",
			email:    "test@example.com",
			username: "testuser",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.Anything).
					Return(nil, errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := auth.NewAuthService(repo, jwtMock, 24*time.Hour)

			tt.setupMocks(repo)

			got, err := svc.Register(context.Background(), tt.email, tt.username, tt.password, "")
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "some-uuid", got.UID)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hashed, err := password.GetHash(rawPassword)
	assert.NoError(t, err)

	storedUser := &models.User{
		ID:           42,
		UID:          "user-uid",
		Email:        "test@example.com",
		PasswordHash: hashed,
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantErr    error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(storedUser, nil).Once()
				j.On("GenerateToken", "user-uid", "test@example.com").Return("signed-token", nil).Once()
				r.On("CreateSessionToken", mock.Anything, mock.MatchedBy(func(st models.SessionToken) bool {
					return st.Token == "signed-token" && st.UserID == 42 && st.ExpiresAt.After(time.Now())
				})).Return(int64(1), nil).Once()
			},
			wantToken: "signed-token",
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "nobody@example.com").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(storedUser, nil).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "session store failure",
			email:    "test@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(storedUser, nil).Once()
				j.On("GenerateToken", "user-uid", "test@example.com").Return("signed-token", nil).Once()
				r.On("CreateSessionToken", mock.Anything, mock.AnythingOfType("models.SessionToken")).
					Return(int64(0), errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := auth.NewAuthService(repo, jwtMock, 24*time.Hour)

			tt.setupMocks(repo, jwtMock)

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, storedUser, user)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	storedUser := &models.User{ID: 42, UID: "user-uid", Email: "test@example.com"}

	tests := []struct {
		name       string
		token      string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantErr    error
	}{
		{
			name:  "valid token with live session",
			token: "good-token",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "good-token").Return(&customjwt.CustomClaims{UserUID: "user-uid"}, nil).Once()
				r.On("GetUserBySessionToken", mock.Anything, "good-token").Return(storedUser, nil).Once()
			},
		},
		{
			name:  "tampered token fails signature check",
			token: "bad-token",
			setupMocks: func(_ *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "bad-token").Return(nil, errors.New("signature is invalid")).Once()
			},
			wantErr: auth.ErrInvalidToken,
		},
		{
			name:  "valid signature but no session row",
			token: "revoked-token",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "revoked-token").Return(&customjwt.CustomClaims{UserUID: "user-uid"}, nil).Once()
				r.On("GetUserBySessionToken", mock.Anything, "revoked-token").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: auth.ErrSessionExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := auth.NewAuthService(repo, jwtMock, 24*time.Hour)

			tt.setupMocks(repo, jwtMock)

			user, err := svc.Authenticate(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, storedUser, user)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	repo := new(UserRepoMock)
	jwtMock := new(JwtMakerMock)
	svc := auth.NewAuthService(repo, jwtMock, 24*time.Hour)

	repo.On("DeleteSessionToken", mock.Anything, "some-token").Return(int64(1), nil).Once()
	assert.NoError(t, svc.Logout(context.Background(), "some-token"))

	// Revoking a token that is already gone still succeeds.
	repo.On("DeleteSessionToken", mock.Anything, "gone-token").Return(int64(0), nil).Once()
	assert.NoError(t, svc.Logout(context.Background(), "gone-token"))

	repo.AssertExpectations(t)
}
