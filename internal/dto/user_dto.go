package dto

import (
	"time"

	"github.com/unimanage/unimanage-api/internal/models"
)

// SignupRequest describes the payload for registering an account.
type SignupRequest struct {
	Email                         string `json:"email" validate:"required,email"`
	Username                      string `json:"username" validate:"required,min=2,max=150"`
	Password                      string `json:"password" validate:"required"`
	FatherName                    string `json:"father_name" validate:"required,max=100"`
	Description                   string `json:"description" validate:"required"`
	Country                       string `json:"country" validate:"required"`
	SoftwareEngineeringExperience *uint  `json:"software_engineering_experience" validate:"omitempty"`
}

// ProfileUpdateRequest describes a partial profile edit.
type ProfileUpdateRequest struct {
	Email                         *string `json:"email" validate:"omitempty,email"`
	Username                      *string `json:"username" validate:"omitempty,min=2,max=150"`
	FatherName                    *string `json:"father_name" validate:"omitempty,max=100"`
	Description                   *string `json:"description" validate:"omitempty"`
	Country                       *string `json:"country" validate:"omitempty"`
	SoftwareEngineeringExperience *uint   `json:"software_engineering_experience" validate:"omitempty"`
}

// ChangePasswordRequest describes a password change for the caller.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// UserResponse is the serialized account representation.
type UserResponse struct {
	ID                            uint       `json:"id"`
	Email                         string     `json:"email"`
	Username                      string     `json:"username"`
	FatherName                    string     `json:"father_name"`
	Description                   string     `json:"description"`
	Country                       string     `json:"country"`
	SoftwareEngineeringExperience uint       `json:"software_engineering_experience"`
	LastProfileUpdate             *time.Time `json:"last_profile_update"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:                            model.ID,
		Email:                         model.Email,
		Username:                      model.Username,
		FatherName:                    model.FatherName,
		Description:                   model.Description,
		Country:                       model.Country,
		SoftwareEngineeringExperience: model.SoftwareEngineeringExperience,
		LastProfileUpdate:             model.LastProfileUpdate,
	}
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	return responses
}
