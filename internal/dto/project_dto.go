package dto

import (
	"time"

	"github.com/unimanage/unimanage-api/internal/models"
)

const dateLayout = "2006-01-02"

// ProjectCreateRequest describes the payload for creating a project.
// Students are referenced by email; every email must resolve to an
// existing account.
type ProjectCreateRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Description    string   `json:"description" validate:"required"`
	StartDate      string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	StudentsEmails []string `json:"students_emails" validate:"required,dive,email"`
}

// ProjectUpdateRequest describes a partial project update.
type ProjectUpdateRequest struct {
	Name           *string   `json:"name" validate:"omitempty,max=200"`
	Description    *string   `json:"description" validate:"omitempty"`
	StartDate      *string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate        *string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	StudentsEmails *[]string `json:"students_emails" validate:"omitempty,dive,email"`
}

// ProjectResponse is the serialized project representation. Students
// and supervisor are referenced by primary key.
type ProjectResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Students    []uint `json:"students"`
	Supervisor  uint   `json:"supervisor"`
}

// ProjectCreatedResponse wraps a created project with the redirect
// target for the interactive flow.
type ProjectCreatedResponse struct {
	Project     ProjectResponse `json:"project"`
	RedirectURL string          `json:"redirect_url"`
}

// NewProjectResponse converts a model into a DTO.
func NewProjectResponse(model models.Project) ProjectResponse {
	students := make([]uint, 0, len(model.Students))
	for _, student := range model.Students {
		students = append(students, student.ID)
	}

	return ProjectResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		StartDate:   model.StartDate.Format(dateLayout),
		EndDate:     model.EndDate.Format(dateLayout),
		Students:    students,
		Supervisor:  model.SupervisorID,
	}
}

// NewProjectResponseSlice converts a slice of models into DTOs.
func NewProjectResponseSlice(projects []models.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, NewProjectResponse(project))
	}

	return responses
}

// ParseDate parses a date-only field value.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
