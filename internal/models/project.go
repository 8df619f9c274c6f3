package models

import "time"

// Project is owned by exactly one supervisor and may have any number
// of participating students.
type Project struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:200;not null" json:"name"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	StartDate    time.Time  `gorm:"not null" json:"start_date"`
	EndDate      time.Time  `gorm:"not null" json:"end_date"`
	SupervisorID uint       `gorm:"not null;index" json:"supervisor_id"`
	Supervisor   Supervisor `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Students     []User     `gorm:"many2many:project_students" json:"students"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
