package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/unimanage/unimanage-api/internal/dto"
	"github.com/unimanage/unimanage-api/internal/jobs"
	"github.com/unimanage/unimanage-api/internal/models"
	"github.com/unimanage/unimanage-api/internal/repository"
)

// WelcomeEmailEnqueuer hands welcome-email jobs off for asynchronous
// delivery.
type WelcomeEmailEnqueuer interface {
	Enqueue(ctx context.Context, job jobs.WelcomeEmailJob) error
}

// UserService exposes account management use cases.
type UserService interface {
	Signup(ctx context.Context, payload dto.SignupRequest) (dto.UserResponse, error)
	Get(ctx context.Context, id uint) (dto.UserResponse, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
	EditProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID uint, payload dto.ChangePasswordRequest) error
	RequireStaff(ctx context.Context, userID uint) error
}

type userService struct {
	users     repository.UserRepository
	welcome   WelcomeEmailEnqueuer
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewUserService builds a new user service.
func NewUserService(users repository.UserRepository, welcome WelcomeEmailEnqueuer, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		welcome:   welcome,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

// Signup registers a new account and queues the welcome email. The
// registration succeeds regardless of what happens to the email later.
func (s *userService) Signup(ctx context.Context, payload dto.SignupRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		if fields, ok := fieldErrorsFromValidator(err); ok {
			return dto.UserResponse{}, fields
		}
		return dto.UserResponse{}, err
	}

	if fields := validatePassword(payload.Password); fields != nil {
		return dto.UserResponse{}, fields
	}

	if _, err := s.users.GetByEmail(ctx, payload.Email); err == nil {
		return dto.UserResponse{}, FieldErrors{"email": {"a user with this email already exists"}}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Email:        payload.Email,
		Username:     payload.Username,
		PasswordHash: string(hash),
		FatherName:   payload.FatherName,
		Description:  strings.TrimSpace(s.sanitizer.Sanitize(payload.Description)),
		Country:      payload.Country,
		IsActive:     true,
	}
	if payload.SoftwareEngineeringExperience != nil {
		user.SoftwareEngineeringExperience = *payload.SoftwareEngineeringExperience
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user registered")

	if err := s.welcome.Enqueue(ctx, jobs.WelcomeEmailJob{Email: user.Email, Username: user.Username}); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to queue welcome email")
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) Get(ctx context.Context, id uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(users), nil
}

// EditProfile applies a partial update to the caller's own account.
func (s *userService) EditProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		if fields, ok := fieldErrorsFromValidator(err); ok {
			return dto.UserResponse{}, fields
		}
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	if payload.Email != nil && *payload.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, *payload.Email); err == nil {
			return dto.UserResponse{}, FieldErrors{"email": {"a user with this email already exists"}}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, err
		}
		user.Email = *payload.Email
	}

	if payload.Username != nil {
		user.Username = *payload.Username
	}
	if payload.FatherName != nil {
		user.FatherName = *payload.FatherName
	}
	if payload.Description != nil {
		user.Description = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Description))
	}
	if payload.Country != nil {
		user.Country = *payload.Country
	}
	if payload.SoftwareEngineeringExperience != nil {
		user.SoftwareEngineeringExperience = *payload.SoftwareEngineeringExperience
	}

	if err := s.users.Save(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("profile updated")

	return dto.NewUserResponse(user), nil
}

// RequireStaff rejects callers without the staff flag.
func (s *userService) RequireStaff(ctx context.Context, userID uint) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return err
	}

	if !user.IsStaff {
		return ErrForbidden
	}

	return nil
}

// ChangePassword verifies the old password and stores a new hash. The
// new password must satisfy the same policy as signup.
func (s *userService) ChangePassword(ctx context.Context, userID uint, payload dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		if fields, ok := fieldErrorsFromValidator(err); ok {
			return fields
		}
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.OldPassword)); err != nil {
		return ErrWrongOldPassword
	}

	if fields := validatePassword(payload.NewPassword); fields != nil {
		return FieldErrors{"new_password": fields["password"]}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	if err := s.users.Save(ctx, &user); err != nil {
		return err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("password changed")

	return nil
}
