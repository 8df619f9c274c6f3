package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/unimanage/unimanage-api/internal/auth"
	"github.com/unimanage/unimanage-api/internal/jobs"
	"github.com/unimanage/unimanage-api/internal/mail"
	"github.com/unimanage/unimanage-api/internal/middleware"
	"github.com/unimanage/unimanage-api/internal/models"
	"github.com/unimanage/unimanage-api/internal/repository"
	"github.com/unimanage/unimanage-api/internal/service"
	"github.com/unimanage/unimanage-api/internal/utils"
)

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	issuer *auth.Issuer
	mailer *mail.ConsoleMailer
}

// setupTestEnv wires the full stack over in-memory stores and mounts
// the same route layout the server uses.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Supervisor{},
		&models.Project{},
		&models.Comment{},
		&models.ReminderSetting{},
	))

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	logger := zerolog.Nop()
	validate := validator.New()
	mailer := mail.NewConsoleMailer(logger)

	userRepo := repository.NewUserRepository(db)
	supervisorRepo := repository.NewSupervisorRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reminderRepo := repository.NewReminderSettingRepository(db)

	issuer := auth.NewIssuer("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	blacklist := auth.NewBlacklist(redisClient)

	dispatcher := jobs.NewWelcomeEmailDispatcher(mailer, jobs.RetryPolicy{MaxAttempts: 1}, logger)
	queue := jobs.NewWelcomeEmailQueue(nil, dispatcher, logger)

	authService := service.NewAuthService(userRepo, supervisorRepo, issuer, blacklist, validate, logger)
	userService := service.NewUserService(userRepo, queue, validate, logger)
	projectService := service.NewProjectService(projectRepo, supervisorRepo, userRepo, validate, logger)
	commentService := service.NewCommentService(commentRepo, projectRepo, validate, logger)
	reminderService := service.NewReminderService(reminderRepo, userRepo, mailer, validate, logger)

	authHandler := NewAuthHandler(authService, logger)
	userHandler := NewUserHandler(userService, logger)
	projectHandler := NewProjectHandler(projectService, logger)
	commentHandler := NewCommentHandler(commentService, logger)
	reminderHandler := NewReminderHandler(reminderService, userService, logger)

	jwtMiddleware := middleware.JWTProtected(issuer)

	app := fiber.New()

	api := app.Group("/api")
	userHandler.RegisterPublic(api)
	authHandler.RegisterAccount(api)
	protected := api.Group("", jwtMiddleware)
	userHandler.RegisterProtected(protected)
	reminderHandler.Register(protected)

	project := app.Group("/project")
	authHandler.RegisterProject(project)
	projectHandler.RegisterAPI(project.Group("/api/projects", jwtMiddleware))
	projectHandler.RegisterInteractive(project.Group("", jwtMiddleware))
	commentHandler.RegisterAPI(project.Group("/api/comments", jwtMiddleware))
	commentHandler.RegisterProject(project.Group("", jwtMiddleware))

	return &testEnv{app: app, db: db, issuer: issuer, mailer: mailer}
}

func (e *testEnv) request(t *testing.T, method, path, token string, payload interface{}) (int, utils.APIResponse) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed utils.APIResponse
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func decodeData(t *testing.T, parsed utils.APIResponse, out interface{}) {
	t.Helper()

	raw, err := json.Marshal(parsed.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

// signupUser registers an account through the API and returns its ID.
func (e *testEnv) signupUser(t *testing.T, email, password string) uint {
	t.Helper()

	status, parsed := e.request(t, fiber.MethodPost, "/api/signup", "", fiber.Map{
		"email":       email,
		"username":    "user",
		"password":    password,
		"father_name": "Father",
		"description": "A test account",
		"country":     "Netherlands",
	})
	require.Equal(t, http.StatusCreated, status)

	var user struct {
		ID uint `json:"id"`
	}
	decodeData(t, parsed, &user)
	require.NotZero(t, user.ID)
	return user.ID
}

// promoteSupervisor gives the user a supervisor profile directly in
// the store.
func (e *testEnv) promoteSupervisor(t *testing.T, userID uint) models.Supervisor {
	t.Helper()

	supervisor := models.Supervisor{UserID: userID, Expertise: "software engineering"}
	require.NoError(t, e.db.Create(&supervisor).Error)
	return supervisor
}

func (e *testEnv) accessToken(t *testing.T, userID uint, email string) string {
	t.Helper()

	token, err := e.issuer.IssueAccess(userID, email)
	require.NoError(t, err)
	return token
}
