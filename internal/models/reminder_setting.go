package models

import (
	"time"
)

// Duration units accepted by ReminderSetting.
const (
	DurationSeconds = "seconds"
	DurationMinutes = "minutes"
	DurationHours   = "hours"
	DurationDays    = "days"
)

// ReminderSetting is the singleton configuration for the inactivity
// reminder job. At most one row may exist; the repository enforces it.
type ReminderSetting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Duration     uint      `gorm:"not null;default:30" json:"duration"`
	DurationType string    `gorm:"size:20;not null;default:minutes" json:"duration_type"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Window converts the stored amount and unit into a time.Duration.
// Unknown units fall back to minutes.
func (s ReminderSetting) Window() time.Duration {
	amount := time.Duration(s.Duration)
	switch s.DurationType {
	case DurationSeconds:
		return amount * time.Second
	case DurationHours:
		return amount * time.Hour
	case DurationDays:
		return amount * 24 * time.Hour
	default:
		return amount * time.Minute
	}
}
