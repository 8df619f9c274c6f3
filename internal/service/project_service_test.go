package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/unimanage/unimanage-api/internal/dto"
	"github.com/unimanage/unimanage-api/internal/models"
)

func projectFixtures(t *testing.T) (*projectRepoStub, *supervisorRepoStub, *userRepoStub) {
	t.Helper()

	users := newUserRepoStub(
		models.User{Email: "supervisor@example.com"},
		models.User{Email: "alice@example.com"},
		models.User{Email: "bob@example.com"},
		models.User{Email: "rival@example.com"},
	)
	supervisors := newSupervisorRepoStub(
		models.Supervisor{ID: 1, UserID: 1, Expertise: "software"},
		models.Supervisor{ID: 2, UserID: 4, Expertise: "hardware"},
	)
	return newProjectRepoStub(), supervisors, users
}

func createPayload() dto.ProjectCreateRequest {
	return dto.ProjectCreateRequest{
		Name:           "Thesis tracker",
		Description:    "Track thesis progress",
		StartDate:      "2025-01-01",
		EndDate:        "2025-06-01",
		StudentsEmails: []string{"alice@example.com", "bob@example.com"},
	}
}

func TestProjectServiceCreate(t *testing.T) {
	projects, supervisors, users := projectFixtures(t)
	svc := NewProjectService(projects, supervisors, users, validator.New(), testLogger())

	created, err := svc.Create(context.Background(), 1, createPayload())
	require.NoError(t, err)
	require.NotZero(t, created.Project.ID)
	require.Equal(t, uint(1), created.Project.Supervisor)
	require.ElementsMatch(t, []uint{2, 3}, created.Project.Students)
	require.Equal(t, "2025-01-01", created.Project.StartDate)
	require.Equal(t, ProjectsListPath, created.RedirectURL)
}

func TestProjectServiceCreateDeduplicatesStudentEmails(t *testing.T) {
	projects, supervisors, users := projectFixtures(t)
	svc := NewProjectService(projects, supervisors, users, validator.New(), testLogger())

	payload := createPayload()
	payload.StudentsEmails = []string{"alice@example.com", "alice@example.com"}
	created, err := svc.Create(context.Background(), 1, payload)
	require.NoError(t, err)
	require.Equal(t, []uint{2}, created.Project.Students)
}

func TestProjectServiceCreateUnknownStudentWritesNothing(t *testing.T) {
	projects, supervisors, users := projectFixtures(t)
	svc := NewProjectService(projects, supervisors, users, validator.New(), testLogger())

	payload := createPayload()
	payload.StudentsEmails = append(payload.StudentsEmails, "ghost@example.com")
	_, err := svc.Create(context.Background(), 1, payload)

	var unknown UnknownStudentEmailError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "ghost@example.com", unknown.Email)
	require.Empty(t, projects.projects, "nothing may be persisted when any email fails to resolve")
}

func TestProjectServiceCreateRequiresSupervisor(t *testing.T) {
	projects, supervisors, users := projectFixtures(t)
	svc := NewProjectService(projects, supervisors, users, validator.New(), testLogger())

	_, err := svc.Create(context.Background(), 2, createPayload())
	require.ErrorIs(t, err, ErrNotASupervisor)
}

func TestProjectServiceListForNonSupervisor(t *testing.T) {
	projects, supervisors, users := projectFixtures(t)
	svc := NewProjectService(projects, supervisors, users, validator.New(), testLogger())

	list, err := svc.List(context.Background(), 2)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestProjectServiceOwnershipScoping(t *testing.T) {
	projects, supervisors, users := projectFixtures(t)
	svc := NewProjectService(projects, supervisors, users, validator.New(), testLogger())

	created, err := svc.Create(context.Background(), 1, createPayload())
	require.NoError(t, err)
	projectID := created.Project.ID

	_, err = svc.Get(context.Background(), 1, projectID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 4, projectID)
	require.ErrorIs(t, err, ErrForbidden, "another supervisor may not read the project")

	_, err = svc.Get(context.Background(), 2, projectID)
	require.ErrorIs(t, err, ErrForbidden, "a non-supervisor may not read the project")

	name := "Hijacked"
	_, err = svc.Update(context.Background(), 4, projectID, dto.ProjectUpdateRequest{Name: &name})
	require.ErrorIs(t, err, ErrForbidden)

	require.ErrorIs(t, svc.Delete(context.Background(), 4, projectID), ErrForbidden)

	_, err = svc.Get(context.Background(), 1, 999)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectServiceUpdate(t *testing.T) {
	projects, supervisors, users := projectFixtures(t)
	svc := NewProjectService(projects, supervisors, users, validator.New(), testLogger())

	created, err := svc.Create(context.Background(), 1, createPayload())
	require.NoError(t, err)

	name := "Renamed"
	studentEmails := []string{"bob@example.com"}
	updated, err := svc.Update(context.Background(), 1, created.Project.ID, dto.ProjectUpdateRequest{
		Name:           &name,
		StudentsEmails: &studentEmails,
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, []uint{3}, updated.Students)
	require.Equal(t, "2025-01-01", updated.StartDate, "dates not in the payload stay put")
}

func TestProjectServiceDelete(t *testing.T) {
	projects, supervisors, users := projectFixtures(t)
	svc := NewProjectService(projects, supervisors, users, validator.New(), testLogger())

	created, err := svc.Create(context.Background(), 1, createPayload())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1, created.Project.ID))
	_, err = svc.Get(context.Background(), 1, created.Project.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)
}
