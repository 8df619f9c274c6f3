package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/unimanage/unimanage-api/internal/models"
)

// ReminderSettingRepository manages the singleton reminder
// configuration. There is intentionally no delete operation: once
// created the setting can only be edited.
type ReminderSettingRepository interface {
	Get(ctx context.Context) (models.ReminderSetting, error)
	Save(ctx context.Context, setting *models.ReminderSetting) error
}

type reminderSettingRepository struct {
	db *gorm.DB
}

// NewReminderSettingRepository constructs a GORM-backed repository.
func NewReminderSettingRepository(db *gorm.DB) ReminderSettingRepository {
	return &reminderSettingRepository{db: db}
}

func (r *reminderSettingRepository) Get(ctx context.Context) (models.ReminderSetting, error) {
	var setting models.ReminderSetting
	if err := r.db.WithContext(ctx).First(&setting).Error; err != nil {
		return models.ReminderSetting{}, err
	}

	return setting, nil
}

// Save updates the existing row when one exists and creates the first
// row otherwise, preserving the at-most-one invariant.
func (r *reminderSettingRepository) Save(ctx context.Context, setting *models.ReminderSetting) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ReminderSetting
		err := tx.First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(setting).Error
		case err != nil:
			return err
		default:
			setting.ID = existing.ID
			return tx.Save(setting).Error
		}
	})
}
