package service

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/internal/app/repository"
	"github.com/ikkim/messreview-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func setupAuthServiceTest(t *testing.T) (AuthService, *memoryRevoker) {
	testDB := setupServiceDB(t)
	revoker := &memoryRevoker{}
	authService := NewAuthService(
		repository.NewUserRepository(testDB),
		revoker,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	return authService, revoker
}

func TestAuthService_Register(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		wantErr  error
	}{
		{
			name:     "Valid registration",
			email:    "asha@iitb.ac.in",
			password: "password123",
			userName: "Asha",
		},
		{
			name:     "Duplicate email differing in case",
			email:    " ASHA@iitb.ac.in",
			password: "password456",
			userName: "Another Asha",
			wantErr:  ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Register(tt.email, tt.password, tt.userName)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, tokens)
			assert.Equal(t, "asha@iitb.ac.in", user.Email)
			assert.Equal(t, tt.userName, user.Name)
			assert.Equal(t, model.RoleUser, user.Role)
			assert.NotEqual(t, tt.password, user.PasswordHash)

			claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)
	registered, _, err := authService.Register("ravi@iitb.ac.in", "password123", "Ravi")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "Valid credentials", email: "ravi@iitb.ac.in", password: "password123"},
		{name: "Wrong password", email: "ravi@iitb.ac.in", password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "Unknown user", email: "nobody@iitb.ac.in", password: "password123", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, tokens)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.ID, user.ID)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
		})
	}
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)
	user, _, err := authService.Register("meera@iitb.ac.in", "password123", "Meera")
	require.NoError(t, err)

	found, err := authService.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meera", found.Name)

	_, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Logout(t *testing.T) {
	authService, revoker := setupAuthServiceTest(t)
	_, tokens, err := authService.Register("kiran@iitb.ac.in", "password123", "Kiran")
	require.NoError(t, err)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)

	require.NoError(t, authService.Logout(context.Background(), claims))

	ttl, ok := revoker.revoked[claims.ID]
	require.True(t, ok)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 15*time.Minute)
}

func TestAuthService_LogoutWithoutRevoker(t *testing.T) {
	authService := NewAuthService(
		repository.NewUserRepository(setupServiceDB(t)),
		nil,
		testJWTSecret,
		15*time.Minute,
		time.Hour,
	)
	assert.NoError(t, authService.Logout(context.Background(), &util.Claims{UserID: 1}))
}
