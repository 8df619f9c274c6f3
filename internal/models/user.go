package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account. The email address is the login key.
type User struct {
	ID                            uint       `gorm:"primaryKey" json:"id"`
	Email                         string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username                      string     `gorm:"size:150;not null" json:"username"`
	PasswordHash                  string     `gorm:"size:255;not null" json:"-"`
	FatherName                    string     `gorm:"size:100;not null" json:"father_name"`
	Description                   string     `gorm:"type:text" json:"description"`
	Country                       string     `gorm:"size:100" json:"country"`
	SoftwareEngineeringExperience uint       `gorm:"default:0" json:"software_engineering_experience"`
	IsActive                      bool       `gorm:"default:true" json:"is_active"`
	IsStaff                       bool       `gorm:"default:false" json:"is_staff"`
	LastLogin                     *time.Time `json:"last_login"`
	LastProfileUpdate             *time.Time `json:"last_profile_update"`
	CreatedAt                     time.Time  `json:"created_at"`
	UpdatedAt                     time.Time  `json:"updated_at"`
}

// BeforeSave stamps the profile-update timestamp on every write.
func (u *User) BeforeSave(tx *gorm.DB) error {
	now := time.Now()
	u.LastProfileUpdate = &now
	return nil
}
