package repository

import (
	"testing"

	"tiepbuoc/internal/database"
	"tiepbuoc/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func intPtr(v int) *int { return &v }

func createPendingApplication(t *testing.T, db *gorm.DB, appType models.ApplicationType, phone string) *models.Application {
	t.Helper()
	app := &models.Application{
		Type:     appType,
		FullName: "Nguyen Van A",
		Phone:    phone,
		Status:   models.ApplicationStatusPending,
	}
	if err := db.Create(app).Error; err != nil {
		t.Fatalf("Failed to create application: %v", err)
	}
	return app
}
