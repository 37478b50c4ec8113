package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aveta_backend/internal/auth"
	"aveta_backend/internal/models"
	"aveta_backend/internal/services/dto"
	"aveta_backend/internal/validator"
	"aveta_backend/pkg/apperrors"
)

func newAuthFixture(users *fakeUserRepo) (*AuthService, *fakeMail, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	mail := &fakeMail{}
	svc := NewAuthService(users, tokens, mail, validator.New(), "http://localhost:3000")
	return svc, mail, tokens
}

func TestRegister(t *testing.T) {
	users := newFakeUserRepo()
	svc, mail, tokens := newAuthFixture(users)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserName: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.UserPlanFree, resp.User.Plan)
	assert.Equal(t, models.UserRoleStandard, resp.User.Role)
	assert.Equal(t, []string{"alice@example.com"}, mail.welcomes)

	claims, err := tokens.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo(&models.User{
		BaseModel: models.BaseModel{ID: 1},
		Email:     "alice@example.com",
	})
	svc, _, _ := newAuthFixture(users)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserName: "alice2",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestRegisterMailFailureDoesNotBlock(t *testing.T) {
	users := newFakeUserRepo()
	svc, mail, _ := newAuthFixture(users)
	mail.err = errBoom

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserName: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})

	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	users := newFakeUserRepo(&models.User{
		BaseModel:    models.BaseModel{ID: 1},
		Email:        "alice@example.com",
		PasswordHash: hash,
	})
	svc, _, _ := newAuthFixture(users)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginBlockedAccount(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	users := newFakeUserRepo(&models.User{
		BaseModel:    models.BaseModel{ID: 1},
		Email:        "alice@example.com",
		PasswordHash: hash,
		IsBlocked:    true,
	})
	svc, _, _ := newAuthFixture(users)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})

	assert.ErrorIs(t, err, apperrors.ErrUserBlocked)
}

func TestSignOutInvalidatesRefresh(t *testing.T) {
	users := newFakeUserRepo(&models.User{BaseModel: models.BaseModel{ID: 1}, Email: "a@b.c"})
	svc, _, tokens := newAuthFixture(users)

	refresh, err := tokens.GenerateRefreshToken(users.get(1))
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(context.Background(), 1))
	assert.Equal(t, 1, users.get(1).TokenVersion)

	// Tokens minted before the sign-out carry version 0 and are stale.
	_, err = svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: refresh})
	assert.ErrorIs(t, err, apperrors.ErrSignInAgain)
}

func TestRefreshToken(t *testing.T) {
	users := newFakeUserRepo(&models.User{BaseModel: models.BaseModel{ID: 1}, Email: "a@b.c"})
	svc, _, tokens := newAuthFixture(users)

	refresh, err := tokens.GenerateRefreshToken(users.get(1))
	require.NoError(t, err)

	pair, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: refresh})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	_, err = svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestUpdatePassword(t *testing.T) {
	hash, err := auth.HashPassword("old-password-1")
	require.NoError(t, err)
	users := newFakeUserRepo(&models.User{
		BaseModel:    models.BaseModel{ID: 1},
		Email:        "a@b.c",
		PasswordHash: hash,
	})
	svc, _, _ := newAuthFixture(users)

	err = svc.UpdatePassword(context.Background(), 1, &dto.UpdatePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password-1",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	err = svc.UpdatePassword(context.Background(), 1, &dto.UpdatePasswordRequest{
		CurrentPassword: "old-password-1",
		NewPassword:     "new-password-1",
	})
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("new-password-1", users.get(1).PasswordHash))
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	users := newFakeUserRepo()
	svc, mail, _ := newAuthFixture(users)

	err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "ghost@example.com"})

	assert.NoError(t, err)
	assert.Empty(t, mail.resets)
}

func TestResetPasswordFlow(t *testing.T) {
	hash, err := auth.HashPassword("old-password-1")
	require.NoError(t, err)
	users := newFakeUserRepo(&models.User{
		BaseModel:    models.BaseModel{ID: 1},
		Email:        "a@b.c",
		PasswordHash: hash,
	})
	svc, mail, tokens := newAuthFixture(users)

	require.NoError(t, svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "a@b.c"}))
	assert.Equal(t, []string{"a@b.c"}, mail.resets)

	token, err := tokens.GenerateResetToken(1)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:       token,
		NewPassword: "brand-new-pass",
	})
	require.NoError(t, err)

	user := users.get(1)
	assert.True(t, auth.CheckPasswordHash("brand-new-pass", user.PasswordHash))
	// Existing sessions are invalidated.
	assert.Equal(t, 1, user.TokenVersion)

	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:       "garbage",
		NewPassword: "brand-new-pass",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
