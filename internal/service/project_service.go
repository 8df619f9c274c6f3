package service

import (
	"context"
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/unimanage/unimanage-api/internal/dto"
	"github.com/unimanage/unimanage-api/internal/models"
	"github.com/unimanage/unimanage-api/internal/repository"
)

// ProjectsListPath is the redirect target returned after a successful
// interactive project creation.
const ProjectsListPath = "/project/projects_list/"

// ProjectService exposes project management use cases. Every
// operation is scoped to the calling user's supervisor profile.
type ProjectService interface {
	Create(ctx context.Context, callerID uint, payload dto.ProjectCreateRequest) (dto.ProjectCreatedResponse, error)
	List(ctx context.Context, callerID uint) ([]dto.ProjectResponse, error)
	Get(ctx context.Context, callerID, projectID uint) (dto.ProjectResponse, error)
	Update(ctx context.Context, callerID, projectID uint, payload dto.ProjectUpdateRequest) (dto.ProjectResponse, error)
	Delete(ctx context.Context, callerID, projectID uint) error
}

type projectService struct {
	projects    repository.ProjectRepository
	supervisors repository.SupervisorRepository
	users       repository.UserRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewProjectService builds a new project service.
func NewProjectService(projects repository.ProjectRepository, supervisors repository.SupervisorRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) ProjectService {
	return &projectService{
		projects:    projects,
		supervisors: supervisors,
		users:       users,
		validator:   validate,
		logger:      logger.With().Str("component", "project_service").Logger(),
	}
}

// Create validates and persists a project atomically: every student
// email must resolve to an account, or nothing is written.
func (s *projectService) Create(ctx context.Context, callerID uint, payload dto.ProjectCreateRequest) (dto.ProjectCreatedResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		if fields, ok := fieldErrorsFromValidator(err); ok {
			return dto.ProjectCreatedResponse{}, fields
		}
		return dto.ProjectCreatedResponse{}, err
	}

	supervisor, err := s.requireSupervisor(ctx, callerID)
	if err != nil {
		return dto.ProjectCreatedResponse{}, err
	}

	startDate, err := dto.ParseDate(payload.StartDate)
	if err != nil {
		return dto.ProjectCreatedResponse{}, FieldErrors{"start_date": {"enter a valid date"}}
	}
	endDate, err := dto.ParseDate(payload.EndDate)
	if err != nil {
		return dto.ProjectCreatedResponse{}, FieldErrors{"end_date": {"enter a valid date"}}
	}

	students, err := s.resolveStudents(ctx, payload.StudentsEmails)
	if err != nil {
		return dto.ProjectCreatedResponse{}, err
	}

	project := models.Project{
		Name:         payload.Name,
		Description:  payload.Description,
		StartDate:    startDate,
		EndDate:      endDate,
		SupervisorID: supervisor.ID,
	}

	if err := s.projects.Create(ctx, &project, students); err != nil {
		return dto.ProjectCreatedResponse{}, err
	}
	project.Students = students

	s.logger.Info().Uint("project_id", project.ID).Uint("supervisor_id", supervisor.ID).Msg("project created")

	return dto.ProjectCreatedResponse{
		Project:     dto.NewProjectResponse(project),
		RedirectURL: ProjectsListPath,
	}, nil
}

// List returns the caller's own projects. A caller without a
// supervisor profile gets an empty list, not an error.
func (s *projectService) List(ctx context.Context, callerID uint) ([]dto.ProjectResponse, error) {
	supervisor, err := s.supervisors.GetByUserID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []dto.ProjectResponse{}, nil
		}
		return nil, err
	}

	projects, err := s.projects.ListBySupervisor(ctx, supervisor.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewProjectResponseSlice(projects), nil
}

func (s *projectService) Get(ctx context.Context, callerID, projectID uint) (dto.ProjectResponse, error) {
	project, err := s.authorizeOwner(ctx, callerID, projectID)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Update(ctx context.Context, callerID, projectID uint, payload dto.ProjectUpdateRequest) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		if fields, ok := fieldErrorsFromValidator(err); ok {
			return dto.ProjectResponse{}, fields
		}
		return dto.ProjectResponse{}, err
	}

	project, err := s.authorizeOwner(ctx, callerID, projectID)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	if payload.Name != nil {
		project.Name = *payload.Name
	}
	if payload.Description != nil {
		project.Description = *payload.Description
	}
	if payload.StartDate != nil {
		startDate, err := dto.ParseDate(*payload.StartDate)
		if err != nil {
			return dto.ProjectResponse{}, FieldErrors{"start_date": {"enter a valid date"}}
		}
		project.StartDate = startDate
	}
	if payload.EndDate != nil {
		endDate, err := dto.ParseDate(*payload.EndDate)
		if err != nil {
			return dto.ProjectResponse{}, FieldErrors{"end_date": {"enter a valid date"}}
		}
		project.EndDate = endDate
	}

	if err := s.projects.Update(ctx, &project); err != nil {
		return dto.ProjectResponse{}, err
	}

	if payload.StudentsEmails != nil {
		students, err := s.resolveStudents(ctx, *payload.StudentsEmails)
		if err != nil {
			return dto.ProjectResponse{}, err
		}
		if err := s.projects.ReplaceStudents(ctx, &project, students); err != nil {
			return dto.ProjectResponse{}, err
		}
		project.Students = students
	}

	s.logger.Info().Uint("project_id", project.ID).Msg("project updated")

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Delete(ctx context.Context, callerID, projectID uint) error {
	if _, err := s.authorizeOwner(ctx, callerID, projectID); err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	s.logger.Info().Uint("project_id", projectID).Msg("project deleted")
	return nil
}

// authorizeOwner loads the project and verifies the caller's
// supervisor profile owns it.
func (s *projectService) authorizeOwner(ctx context.Context, callerID, projectID uint) (models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, ErrProjectNotFound
		}
		return models.Project{}, err
	}

	supervisor, err := s.supervisors.GetByUserID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, ErrForbidden
		}
		return models.Project{}, err
	}

	if project.SupervisorID != supervisor.ID {
		return models.Project{}, ErrForbidden
	}

	return project, nil
}

func (s *projectService) requireSupervisor(ctx context.Context, callerID uint) (models.Supervisor, error) {
	supervisor, err := s.supervisors.GetByUserID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Supervisor{}, ErrNotASupervisor
		}
		return models.Supervisor{}, err
	}

	return supervisor, nil
}

// resolveStudents maps emails to accounts. Duplicate emails collapse;
// any email without an account fails the whole resolution.
func (s *projectService) resolveStudents(ctx context.Context, emails []string) ([]models.User, error) {
	unique := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		unique = append(unique, email)
	}
	sort.Strings(unique)

	users, err := s.users.GetByEmails(ctx, unique)
	if err != nil {
		return nil, err
	}

	byEmail := make(map[string]models.User, len(users))
	for _, user := range users {
		byEmail[user.Email] = user
	}

	resolved := make([]models.User, 0, len(unique))
	for _, email := range unique {
		user, ok := byEmail[email]
		if !ok {
			return nil, UnknownStudentEmailError{Email: email}
		}
		resolved = append(resolved, user)
	}

	return resolved, nil
}
