package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/errwatch/errwatch/internal/models"
)

// setupTestDB opens an isolated in-memory database per test. The named
// shared-cache DSN keeps all pooled connections on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Project{}, &models.PhoneNumber{}, &models.ErrorEvent{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// seedOwner creates a user with a project and an optional primary phone
// number, returning both records.
func seedOwner(t *testing.T, db *gorm.DB, notificationsEnabled bool, phone string) (*models.User, *models.Project) {
	t.Helper()

	user := models.User{
		Username:             "owner-" + t.Name(),
		NotificationsEnabled: notificationsEnabled,
		IsActive:             true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	project := models.Project{
		Name:    "checkout",
		APIKey:  "key-" + t.Name(),
		OwnerID: user.ID,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	if phone != "" {
		if err := db.Create(&models.PhoneNumber{
			UserID:    user.ID,
			Number:    phone,
			IsPrimary: true,
		}).Error; err != nil {
			t.Fatalf("failed to create phone number: %v", err)
		}
	}
	return &user, &project
}
