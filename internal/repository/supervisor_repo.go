package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/unimanage/unimanage-api/internal/models"
)

// SupervisorRepository provides access to supervisor profiles.
type SupervisorRepository interface {
	GetByID(ctx context.Context, id uint) (models.Supervisor, error)
	GetByUserID(ctx context.Context, userID uint) (models.Supervisor, error)
	Create(ctx context.Context, supervisor *models.Supervisor) error
}

type supervisorRepository struct {
	db *gorm.DB
}

// NewSupervisorRepository constructs a GORM-backed supervisor repository.
func NewSupervisorRepository(db *gorm.DB) SupervisorRepository {
	return &supervisorRepository{db: db}
}

func (r *supervisorRepository) GetByID(ctx context.Context, id uint) (models.Supervisor, error) {
	var supervisor models.Supervisor
	if err := r.db.WithContext(ctx).First(&supervisor, id).Error; err != nil {
		return models.Supervisor{}, err
	}

	return supervisor, nil
}

func (r *supervisorRepository) GetByUserID(ctx context.Context, userID uint) (models.Supervisor, error) {
	var supervisor models.Supervisor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&supervisor).Error; err != nil {
		return models.Supervisor{}, err
	}

	return supervisor, nil
}

func (r *supervisorRepository) Create(ctx context.Context, supervisor *models.Supervisor) error {
	return r.db.WithContext(ctx).Create(supervisor).Error
}
