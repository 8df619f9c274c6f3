package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/unimanage/unimanage-api/internal/models"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	GetByID(ctx context.Context, id uint) (models.Project, error)
	ListBySupervisor(ctx context.Context, supervisorID uint) ([]models.Project, error)
	Create(ctx context.Context, project *models.Project, students []models.User) error
	Update(ctx context.Context, project *models.Project) error
	ReplaceStudents(ctx context.Context, project *models.Project, students []models.User) error
	Delete(ctx context.Context, id uint) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository instantiates a GORM-backed repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Students").
		First(&project, id).Error
	if err != nil {
		return models.Project{}, err
	}

	return project, nil
}

func (r *projectRepository) ListBySupervisor(ctx context.Context, supervisorID uint) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Preload("Students").
		Where("supervisor_id = ?", supervisorID).
		Order("start_date ASC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return projects, nil
}

// Create persists the project and its student set as one transaction;
// nothing is written if any step fails.
func (r *projectRepository) Create(ctx context.Context, project *models.Project, students []models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Students").Create(project).Error; err != nil {
			return err
		}

		if len(students) == 0 {
			return nil
		}

		if err := tx.Model(project).Association("Students").Replace(students); err != nil {
			return err
		}

		return nil
	})
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("Students").Save(project).Error
}

func (r *projectRepository) ReplaceStudents(ctx context.Context, project *models.Project, students []models.User) error {
	return r.db.WithContext(ctx).Model(project).Association("Students").Replace(students)
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Select("Students").Delete(&models.Project{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
