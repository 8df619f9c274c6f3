package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/unimanage/unimanage-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		Username:     "user",
		PasswordHash: "x",
		FatherName:   "father",
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedSupervisor(t *testing.T, db *gorm.DB, email string) (models.User, models.Supervisor) {
	t.Helper()

	user := seedUser(t, db, email)
	supervisor := models.Supervisor{UserID: user.ID, Expertise: "software"}
	require.NoError(t, db.Create(&supervisor).Error)
	return user, supervisor
}
