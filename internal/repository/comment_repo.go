package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/unimanage/unimanage-api/internal/models"
)

// CommentRepository defines persistence operations for project comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByProject(ctx context.Context, projectID uint) ([]models.Comment, error)
	ListBySupervisorUser(ctx context.Context, userID uint) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository instantiates a GORM-backed repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) ListByProject(ctx context.Context, projectID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	return comments, nil
}

// ListBySupervisorUser returns comments on projects supervised by the
// given user.
func (r *commentRepository) ListBySupervisorUser(ctx context.Context, userID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Joins("JOIN projects ON projects.id = comments.project_id").
		Joins("JOIN supervisors ON supervisors.id = projects.supervisor_id").
		Where("supervisors.user_id = ?", userID).
		Order("comments.created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	return comments, nil
}
