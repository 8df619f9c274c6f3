package dto

import (
	"time"

	"github.com/unimanage/unimanage-api/internal/models"
)

// ReminderSettingRequest updates the inactivity reminder policy.
type ReminderSettingRequest struct {
	Duration     uint   `json:"duration" validate:"required,min=1"`
	DurationType string `json:"duration_type" validate:"required,oneof=seconds minutes hours days"`
}

// ReminderSettingResponse is the serialized reminder policy.
type ReminderSettingResponse struct {
	Duration     uint      `json:"duration"`
	DurationType string    `json:"duration_type"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewReminderSettingResponse converts a model into a DTO.
func NewReminderSettingResponse(model models.ReminderSetting) ReminderSettingResponse {
	return ReminderSettingResponse{
		Duration:     model.Duration,
		DurationType: model.DurationType,
		UpdatedAt:    model.UpdatedAt,
	}
}
