package models

import "time"

// Supervisor marks a user as a project supervisor. Each user owns at
// most one supervisor profile.
type Supervisor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Expertise string    `gorm:"size:200;not null" json:"expertise"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
