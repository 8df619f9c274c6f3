package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/unimanage/unimanage-api/internal/dto"
	"github.com/unimanage/unimanage-api/internal/mail"
	"github.com/unimanage/unimanage-api/internal/models"
	"github.com/unimanage/unimanage-api/internal/observability"
	"github.com/unimanage/unimanage-api/internal/repository"
)

// fallbackWindow applies when no reminder setting row exists yet.
const fallbackWindow = time.Minute

// ReminderService manages the inactivity reminder policy and runs the
// periodic scan that notifies dormant accounts.
type ReminderService interface {
	GetPolicy(ctx context.Context) (dto.ReminderSettingResponse, error)
	SetPolicy(ctx context.Context, payload dto.ReminderSettingRequest) (dto.ReminderSettingResponse, error)
	CheckLastLoginAndSendEmail(ctx context.Context) (int, error)
}

type reminderService struct {
	settings  repository.ReminderSettingRepository
	users     repository.UserRepository
	mailer    mail.Mailer
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewReminderService builds a new reminder service.
func NewReminderService(settings repository.ReminderSettingRepository, users repository.UserRepository, mailer mail.Mailer, validate *validator.Validate, logger zerolog.Logger) ReminderService {
	return &reminderService{
		settings:  settings,
		users:     users,
		mailer:    mailer,
		validator: validate,
		logger:    logger.With().Str("component", "reminder_service").Logger(),
		tracer:    otel.Tracer("github.com/unimanage/unimanage-api/internal/service/reminder"),
		now:       time.Now,
	}
}

// GetPolicy returns the stored policy, or the defaults when nothing
// has been configured yet.
func (s *reminderService) GetPolicy(ctx context.Context) (dto.ReminderSettingResponse, error) {
	setting, err := s.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NewReminderSettingResponse(models.ReminderSetting{
				Duration:     30,
				DurationType: models.DurationMinutes,
			}), nil
		}
		return dto.ReminderSettingResponse{}, err
	}

	return dto.NewReminderSettingResponse(setting), nil
}

// SetPolicy edits the singleton policy, creating it on first use.
func (s *reminderService) SetPolicy(ctx context.Context, payload dto.ReminderSettingRequest) (dto.ReminderSettingResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		if fields, ok := fieldErrorsFromValidator(err); ok {
			return dto.ReminderSettingResponse{}, fields
		}
		return dto.ReminderSettingResponse{}, err
	}

	setting := models.ReminderSetting{
		Duration:     payload.Duration,
		DurationType: payload.DurationType,
	}
	if err := s.settings.Save(ctx, &setting); err != nil {
		return dto.ReminderSettingResponse{}, err
	}

	s.logger.Info().Uint("duration", setting.Duration).Str("unit", setting.DurationType).Msg("reminder policy updated")

	return dto.NewReminderSettingResponse(setting), nil
}

// CheckLastLoginAndSendEmail runs one scan: every account whose last
// login predates the policy window gets one reminder email. Delivery
// failures are logged and the scan continues. Returns the number of
// reminders actually sent.
func (s *reminderService) CheckLastLoginAndSendEmail(ctx context.Context) (int, error) {
	window := fallbackWindow
	setting, err := s.settings.Get(ctx)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// keep the fallback
	case err != nil:
		return 0, err
	default:
		window = setting.Window()
	}

	threshold := s.now().Add(-window)

	spanCtx, span := s.tracer.Start(ctx, "reminders.scan", trace.WithAttributes(
		attribute.String("reminders.threshold", threshold.Format(time.RFC3339)),
	))
	defer span.End()

	users, err := s.users.ListInactiveSince(spanCtx, threshold)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	observability.ReminderScans().Inc()

	sent := 0
	for _, user := range users {
		msg := mail.Message{
			To:       user.Email,
			ToName:   user.Username,
			Subject:  "We appreciate you!",
			TextBody: fmt.Sprintf("Hello %s,\n\nWe have noticed that its been a while since you last visited. We would love to see you back on our platform!", user.Username),
		}

		if err := s.mailer.Send(spanCtx, msg); err != nil {
			observability.EmailsFailedTotal().WithLabelValues("reminder").Inc()
			s.logger.Warn().Err(err).Str("email", user.Email).Msg("reminder email failed")
			continue
		}

		observability.EmailsSentTotal().WithLabelValues("reminder").Inc()
		sent++
	}

	span.SetAttributes(
		attribute.Int("reminders.candidates", len(users)),
		attribute.Int("reminders.sent", sent),
	)
	s.logger.Info().Int("candidates", len(users)).Int("sent", sent).Msg("reminder scan completed")

	return sent, nil
}
