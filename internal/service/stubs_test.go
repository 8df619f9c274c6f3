package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/unimanage/unimanage-api/internal/jobs"
	"github.com/unimanage/unimanage-api/internal/mail"
	"github.com/unimanage/unimanage-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type userRepoStub struct {
	mu       sync.Mutex
	seq      uint
	users    map[uint]models.User
	inactive []models.User

	lastThreshold time.Time
	lastLogins    map[uint]time.Time
}

func newUserRepoStub(seed ...models.User) *userRepoStub {
	stub := &userRepoStub{
		users:      map[uint]models.User{},
		lastLogins: map[uint]time.Time{},
	}
	for _, user := range seed {
		stub.seq++
		user.ID = stub.seq
		stub.users[user.ID] = user
	}
	return stub
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *userRepoStub) GetByEmails(ctx context.Context, emails []string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, email := range emails {
		for _, user := range s.users {
			if user.Email == email {
				out = append(out, user)
			}
		}
	}
	return out, nil
}

func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *userRepoStub) ListInactiveSince(ctx context.Context, threshold time.Time) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastThreshold = threshold
	return s.inactive, nil
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	user.ID = s.seq
	s.users[user.ID] = *user
	return nil
}

func (s *userRepoStub) Save(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *userRepoStub) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLogins[id] = at
	return nil
}

type supervisorRepoStub struct {
	byUser map[uint]models.Supervisor
}

func newSupervisorRepoStub(supervisors ...models.Supervisor) *supervisorRepoStub {
	stub := &supervisorRepoStub{byUser: map[uint]models.Supervisor{}}
	for _, supervisor := range supervisors {
		stub.byUser[supervisor.UserID] = supervisor
	}
	return stub
}

func (s *supervisorRepoStub) GetByID(ctx context.Context, id uint) (models.Supervisor, error) {
	for _, supervisor := range s.byUser {
		if supervisor.ID == id {
			return supervisor, nil
		}
	}
	return models.Supervisor{}, gorm.ErrRecordNotFound
}

func (s *supervisorRepoStub) GetByUserID(ctx context.Context, userID uint) (models.Supervisor, error) {
	supervisor, ok := s.byUser[userID]
	if !ok {
		return models.Supervisor{}, gorm.ErrRecordNotFound
	}
	return supervisor, nil
}

func (s *supervisorRepoStub) Create(ctx context.Context, supervisor *models.Supervisor) error {
	s.byUser[supervisor.UserID] = *supervisor
	return nil
}

type projectRepoStub struct {
	seq      uint
	projects map[uint]models.Project
}

func newProjectRepoStub() *projectRepoStub {
	return &projectRepoStub{projects: map[uint]models.Project{}}
}

func (s *projectRepoStub) GetByID(ctx context.Context, id uint) (models.Project, error) {
	project, ok := s.projects[id]
	if !ok {
		return models.Project{}, gorm.ErrRecordNotFound
	}
	return project, nil
}

func (s *projectRepoStub) ListBySupervisor(ctx context.Context, supervisorID uint) ([]models.Project, error) {
	var out []models.Project
	for _, project := range s.projects {
		if project.SupervisorID == supervisorID {
			out = append(out, project)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *projectRepoStub) Create(ctx context.Context, project *models.Project, students []models.User) error {
	s.seq++
	project.ID = s.seq
	stored := *project
	stored.Students = students
	s.projects[project.ID] = stored
	return nil
}

func (s *projectRepoStub) Update(ctx context.Context, project *models.Project) error {
	existing, ok := s.projects[project.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	students := existing.Students
	stored := *project
	stored.Students = students
	s.projects[project.ID] = stored
	return nil
}

func (s *projectRepoStub) ReplaceStudents(ctx context.Context, project *models.Project, students []models.User) error {
	existing, ok := s.projects[project.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Students = students
	s.projects[project.ID] = existing
	return nil
}

func (s *projectRepoStub) Delete(ctx context.Context, id uint) error {
	if _, ok := s.projects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.projects, id)
	return nil
}

type commentRepoStub struct {
	seq      uint
	comments []models.Comment
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	s.seq++
	comment.ID = s.seq
	comment.CreatedAt = time.Now()
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *commentRepoStub) ListByProject(ctx context.Context, projectID uint) ([]models.Comment, error) {
	var out []models.Comment
	for _, comment := range s.comments {
		if comment.ProjectID == projectID {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (s *commentRepoStub) ListBySupervisorUser(ctx context.Context, userID uint) ([]models.Comment, error) {
	return s.comments, nil
}

type reminderRepoStub struct {
	setting *models.ReminderSetting
}

func (s *reminderRepoStub) Get(ctx context.Context) (models.ReminderSetting, error) {
	if s.setting == nil {
		return models.ReminderSetting{}, gorm.ErrRecordNotFound
	}
	return *s.setting, nil
}

func (s *reminderRepoStub) Save(ctx context.Context, setting *models.ReminderSetting) error {
	if s.setting != nil {
		setting.ID = s.setting.ID
	} else {
		setting.ID = 1
	}
	copied := *setting
	s.setting = &copied
	return nil
}

type welcomeQueueStub struct {
	mu   sync.Mutex
	jobs []jobs.WelcomeEmailJob
	err  error
}

func (s *welcomeQueueStub) Enqueue(ctx context.Context, job jobs.WelcomeEmailJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

type failingMailer struct {
	failFor string
}

func (m failingMailer) Send(ctx context.Context, msg mail.Message) error {
	if m.failFor == "" || m.failFor == msg.To {
		return errors.New("delivery failed")
	}
	return nil
}
