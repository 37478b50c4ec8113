package services

import (
	"context"
	"errors"
	"fmt"

	"aveta_backend/internal/auth"
	"aveta_backend/internal/email"
	"aveta_backend/internal/logger"
	"aveta_backend/internal/models"
	"aveta_backend/internal/repositories"
	"aveta_backend/internal/services/dto"
	"aveta_backend/internal/validator"
	"aveta_backend/pkg/apperrors"
)

// AuthService owns registration, sign-in/out and the password flows.
type AuthService struct {
	users     repositories.UserRepository
	tokens    *auth.TokenManager
	mail      email.Provider
	validator *validator.Validator

	frontendURL string
}

func NewAuthService(
	users repositories.UserRepository,
	tokens *auth.TokenManager,
	mail email.Provider,
	v *validator.Validator,
	frontendURL string,
) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		mail:        mail,
		validator:   v,
		frontendURL: frontendURL,
	}
}

// Register creates a user on the free plan and sends the welcome email.
// The mail send is best effort.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}

	user := &models.User{
		UserName:     req.UserName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.UserRoleStandard,
		Plan:         models.UserPlanFree,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.BadRequest(err)
	}

	if s.mail != nil {
		if err := s.mail.SendWelcome(user.Email, user.UserName); err != nil {
			logger.CtxWarn(ctx, "failed to send welcome email", "error", err, "email", user.Email)
		}
	}

	return s.issueTokens(user)
}

// Login verifies credentials and issues a token pair. Blocked accounts
// cannot sign in.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, apperrors.ErrUserBlocked
	}

	return s.issueTokens(user)
}

// SignOut bumps the token version so every previously issued token
// stops verifying.
func (s *AuthService) SignOut(ctx context.Context, userID uint) error {
	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrSignInAgain
		}
		return apperrors.BadRequest(err)
	}
	return nil
}

// RefreshToken exchanges a valid refresh token for a fresh pair.
func (s *AuthService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenPairResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	claims, err := s.tokens.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrSignInAgain
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, apperrors.ErrSignInAgain
	}
	if user.IsBlocked {
		return nil, apperrors.ErrUserBlocked
	}

	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}

	return &dto.TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// UpdatePassword changes the password of the authenticated user after
// verifying the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID uint, req *dto.UpdatePasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return apperrors.BadRequest(err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return apperrors.ErrSignInAgain
	}
	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.BadRequest(err)
	}
	user.PasswordHash = hash

	if err := s.users.Save(ctx, user); err != nil {
		return apperrors.BadRequest(err)
	}
	return nil
}

// ForgotPassword emails a short-lived reset link. Unknown emails get
// the same nil result so the endpoint does not leak which accounts
// exist.
func (s *AuthService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return apperrors.BadRequest(err)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		logger.CtxInfo(ctx, "password reset requested for unknown email", "email", req.Email)
		return nil
	}

	token, err := s.tokens.GenerateResetToken(user.ID)
	if err != nil {
		return apperrors.BadRequest(err)
	}
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)

	if s.mail != nil {
		if err := s.mail.SendPasswordReset(user.Email, user.UserName, resetLink); err != nil {
			logger.CtxError(ctx, "failed to send password reset email", "error", err)
			return apperrors.UpstreamError(err, "email")
		}
	}
	return nil
}

// ResetPassword consumes a reset token and sets the new password. The
// token version is bumped so existing sessions are invalidated.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return apperrors.BadRequest(err)
	}

	userID, err := s.tokens.ParseResetToken(req.Token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return apperrors.ErrSignInAgain
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.BadRequest(err)
	}
	user.PasswordHash = hash
	user.TokenVersion++

	if err := s.users.Save(ctx, user); err != nil {
		return apperrors.BadRequest(err)
	}
	return nil
}

func (s *AuthService) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}
	return &dto.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}
