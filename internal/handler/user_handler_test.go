package handler

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestSignupValidation(t *testing.T) {
	env := setupTestEnv(t)

	status, parsed := env.request(t, fiber.MethodPost, "/api/signup", "", fiber.Map{
		"email": "not-an-email",
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	require.False(t, parsed.Success)
	require.NotNil(t, parsed.Details)

	status, parsed = env.request(t, fiber.MethodPost, "/api/signup", "", fiber.Map{
		"email":       "alice@example.com",
		"username":    "alice",
		"password":    "nodigits",
		"father_name": "Father",
		"description": "d",
		"country":     "NL",
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, parsed.Details)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)
	env.signupUser(t, "alice@example.com", "secret1")

	status, parsed := env.request(t, fiber.MethodPost, "/api/signup", "", fiber.Map{
		"email":       "alice@example.com",
		"username":    "alice2",
		"password":    "secret1",
		"father_name": "Father",
		"description": "d",
		"country":     "NL",
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	require.False(t, parsed.Success)
}

func TestSignupQueuesWelcomeEmail(t *testing.T) {
	env := setupTestEnv(t)
	env.signupUser(t, "alice@example.com", "secret1")

	require.Eventually(t, func() bool {
		for _, msg := range env.mailer.Sent() {
			if msg.To == "alice@example.com" && msg.Subject == "Welcome to Our Uni Management Site!" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestHomeReturnsOwnProfile(t *testing.T) {
	env := setupTestEnv(t)
	userID := env.signupUser(t, "alice@example.com", "secret1")
	token := env.accessToken(t, userID, "alice@example.com")

	status, _ := env.request(t, fiber.MethodGet, "/api/home", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, status)

	status, parsed := env.request(t, fiber.MethodGet, "/api/home", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	var profile struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}
	decodeData(t, parsed, &profile)
	require.Equal(t, userID, profile.ID)
	require.Equal(t, "alice@example.com", profile.Email)
}

func TestEditProfile(t *testing.T) {
	env := setupTestEnv(t)
	userID := env.signupUser(t, "alice@example.com", "secret1")
	token := env.accessToken(t, userID, "alice@example.com")

	status, parsed := env.request(t, fiber.MethodPut, "/api/edit-profile", token, fiber.Map{
		"country": "Germany",
	})
	require.Equal(t, fiber.StatusOK, status)

	var profile struct {
		Country           string  `json:"country"`
		LastProfileUpdate *string `json:"last_profile_update"`
	}
	decodeData(t, parsed, &profile)
	require.Equal(t, "Germany", profile.Country)
	require.NotNil(t, profile.LastProfileUpdate)
}

func TestEditProfileRejectsTakenEmail(t *testing.T) {
	env := setupTestEnv(t)
	env.signupUser(t, "taken@example.com", "secret1")
	userID := env.signupUser(t, "alice@example.com", "secret1")
	token := env.accessToken(t, userID, "alice@example.com")

	status, parsed := env.request(t, fiber.MethodPut, "/api/edit-profile", token, fiber.Map{
		"email": "taken@example.com",
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, parsed.Details)
}

func TestChangePassword(t *testing.T) {
	env := setupTestEnv(t)
	userID := env.signupUser(t, "alice@example.com", "secret1")
	token := env.accessToken(t, userID, "alice@example.com")

	status, _ := env.request(t, fiber.MethodPut, "/api/change-password", token, fiber.Map{
		"old_password": "wrong",
		"new_password": "fresh-pass2",
	})
	require.Equal(t, fiber.StatusBadRequest, status)

	status, _ = env.request(t, fiber.MethodPut, "/api/change-password", token, fiber.Map{
		"old_password": "secret1",
		"new_password": "fresh-pass2",
	})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = env.request(t, fiber.MethodPost, "/api/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "fresh-pass2",
	})
	require.Equal(t, fiber.StatusOK, status)
}

func TestListUsers(t *testing.T) {
	env := setupTestEnv(t)
	env.signupUser(t, "alice@example.com", "secret1")
	userID := env.signupUser(t, "bob@example.com", "secret1")
	token := env.accessToken(t, userID, "bob@example.com")

	status, parsed := env.request(t, fiber.MethodGet, "/api/list-users", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	var users []struct {
		Email string `json:"email"`
	}
	decodeData(t, parsed, &users)
	require.Len(t, users, 2)
}
