package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"warbler/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory sqlite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Follow{},
		&models.Like{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// createTestUser persists a user with unique username/email derived from tag.
func createTestUser(t *testing.T, db *gorm.DB, tag string) *models.User {
	t.Helper()
	u := &models.User{
		Username: tag,
		Email:    fmt.Sprintf("%s@email.com", tag),
		Password: "$2a$10$hashhashhashhashhashha",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", tag, err)
	}
	return u
}

func createTestMessage(t *testing.T, db *gorm.DB, userID uint, text string) *models.Message {
	t.Helper()
	m := &models.Message{Text: text, UserID: userID, CreatedAt: time.Now()}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("create message: %v", err)
	}
	return m
}

var testCtx = context.Background()
