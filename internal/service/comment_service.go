package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/unimanage/unimanage-api/internal/dto"
	"github.com/unimanage/unimanage-api/internal/models"
	"github.com/unimanage/unimanage-api/internal/repository"
)

// CommentService exposes project comment use cases. Project-scoped
// listing is open to any authenticated caller; the collection surface
// is restricted to the caller's own projects.
type CommentService interface {
	ListByProject(ctx context.Context, projectID uint) ([]dto.CommentResponse, error)
	ListOwned(ctx context.Context, callerID uint) ([]dto.CommentResponse, error)
	Add(ctx context.Context, callerID, projectID uint, payload dto.CommentCreateRequest) (dto.CommentResponse, error)
}

type commentService struct {
	comments  repository.CommentRepository
	projects  repository.ProjectRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewCommentService builds a new comment service.
func NewCommentService(comments repository.CommentRepository, projects repository.ProjectRepository, validate *validator.Validate, logger zerolog.Logger) CommentService {
	return &commentService{
		comments:  comments,
		projects:  projects,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "comment_service").Logger(),
	}
}

func (s *commentService) ListByProject(ctx context.Context, projectID uint) ([]dto.CommentResponse, error) {
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return dto.NewCommentResponseSlice(comments), nil
}

func (s *commentService) ListOwned(ctx context.Context, callerID uint) ([]dto.CommentResponse, error) {
	comments, err := s.comments.ListBySupervisorUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	return dto.NewCommentResponseSlice(comments), nil
}

// Add creates a comment authored by the caller. The timestamp is
// assigned by the store and never mutated afterwards.
func (s *commentService) Add(ctx context.Context, callerID, projectID uint, payload dto.CommentCreateRequest) (dto.CommentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		if fields, ok := fieldErrorsFromValidator(err); ok {
			return dto.CommentResponse{}, fields
		}
		return dto.CommentResponse{}, err
	}

	if err := s.requireProject(ctx, projectID); err != nil {
		return dto.CommentResponse{}, err
	}

	text := strings.TrimSpace(s.sanitizer.Sanitize(payload.Text))
	if text == "" {
		return dto.CommentResponse{}, FieldErrors{"text": {"this field is required"}}
	}

	comment := models.Comment{
		ProjectID: projectID,
		UserID:    callerID,
		Text:      text,
	}

	if err := s.comments.Create(ctx, &comment); err != nil {
		return dto.CommentResponse{}, err
	}

	s.logger.Info().Uint("comment_id", comment.ID).Uint("project_id", projectID).Msg("comment added")

	return dto.NewCommentResponse(comment), nil
}

func (s *commentService) requireProject(ctx context.Context, projectID uint) error {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	return nil
}
