package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/unimanage/unimanage-api/internal/auth"
	"github.com/unimanage/unimanage-api/internal/dto"
	"github.com/unimanage/unimanage-api/internal/models"
	"github.com/unimanage/unimanage-api/internal/repository"
)

// AuthService exposes authentication use cases.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.TokenPairResponse, error)
	SupervisorLogin(ctx context.Context, payload dto.LoginRequest) (dto.TokenPairResponse, error)
	Refresh(ctx context.Context, refreshToken string) (dto.AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	users       repository.UserRepository
	supervisors repository.SupervisorRepository
	issuer      *auth.Issuer
	blacklist   *auth.Blacklist
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAuthService builds a new authentication service.
func NewAuthService(users repository.UserRepository, supervisors repository.SupervisorRepository, issuer *auth.Issuer, blacklist *auth.Blacklist, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:       users,
		supervisors: supervisors,
		issuer:      issuer,
		blacklist:   blacklist,
		validator:   validate,
		logger:      logger.With().Str("component", "auth_service").Logger(),
		now:         time.Now,
	}
}

// Authenticate verifies the email/password pair against the stored
// hash. Inactive accounts cannot authenticate.
func (s *authService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !user.IsActive {
		return models.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.TokenPairResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenPairResponse{}, err
	}

	user, err := s.Authenticate(ctx, payload.Email, payload.Password)
	if err != nil {
		return dto.TokenPairResponse{}, err
	}

	return s.establishSession(ctx, user)
}

// SupervisorLogin additionally requires the account to own a
// supervisor profile.
func (s *authService) SupervisorLogin(ctx context.Context, payload dto.LoginRequest) (dto.TokenPairResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenPairResponse{}, err
	}

	user, err := s.Authenticate(ctx, payload.Email, payload.Password)
	if err != nil {
		return dto.TokenPairResponse{}, err
	}

	if _, err := s.supervisors.GetByUserID(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TokenPairResponse{}, ErrNotASupervisor
		}
		return dto.TokenPairResponse{}, err
	}

	return s.establishSession(ctx, user)
}

// Refresh exchanges a valid refresh token for a fresh access token.
// The presented refresh token is revoked afterwards, so each refresh
// token is good for exactly one exchange.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (dto.AccessTokenResponse, error) {
	claims, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return dto.AccessTokenResponse{}, ErrInvalidToken
	}

	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return dto.AccessTokenResponse{}, err
	}
	if revoked {
		return dto.AccessTokenResponse{}, ErrInvalidToken
	}

	access, err := s.issuer.IssueAccess(claims.UserID, claims.Email)
	if err != nil {
		return dto.AccessTokenResponse{}, err
	}

	if err := s.blacklist.Revoke(ctx, claims); err != nil {
		s.logger.Warn().Err(err).Msg("failed to revoke used refresh token")
	}

	return dto.AccessTokenResponse{Access: access}, nil
}

// Logout revokes the presented refresh token. It succeeds even for
// malformed tokens; there is nothing useful to report to the caller.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return nil
	}

	if err := s.blacklist.Revoke(ctx, claims); err != nil {
		s.logger.Warn().Err(err).Msg("failed to revoke refresh token on logout")
	}

	return nil
}

func (s *authService) establishSession(ctx context.Context, user models.User) (dto.TokenPairResponse, error) {
	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to update last login")
	}

	pair, err := s.issuer.IssuePair(user.ID, user.Email)
	if err != nil {
		return dto.TokenPairResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user logged in")

	return dto.TokenPairResponse{Access: pair.Access, Refresh: pair.Refresh}, nil
}
