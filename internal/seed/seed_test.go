package seed

import (
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Follow{},
		&models.Like{},
	))
	return db
}

func TestSeedPopulatesAllTables(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 8, NumMessages: 30}))

	var userCount, msgCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Message{}).Count(&msgCount)
	assert.EqualValues(t, 8, userCount)
	assert.EqualValues(t, 30, msgCount)
}

func TestSeedInvariants(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Seed(db, Options{NumUsers: 6, NumMessages: 20}))

	// No self-follows.
	var selfFollows int64
	db.Model(&models.Follow{}).Where("follower_id = followee_id").Count(&selfFollows)
	assert.Zero(t, selfFollows)

	// No likes on the liker's own messages.
	var ownLikes int64
	db.Table("likes").
		Joins("JOIN messages ON messages.id = likes.message_id").
		Where("messages.user_id = likes.user_id").
		Count(&ownLikes)
	assert.Zero(t, ownLikes)

	// Every message stays within the length cap.
	var tooLong int64
	db.Model(&models.Message{}).Where("LENGTH(text) > ?", models.MaxMessageLength).Count(&tooLong)
	assert.Zero(t, tooLong)
}

func TestFactoryCreateUsersUnique(t *testing.T) {
	db := setupTestDB(t)
	f := NewFactory(db)

	users, err := f.CreateUsers(10)
	require.NoError(t, err)
	require.Len(t, users, 10)

	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		_, dup := seen[u.Username]
		assert.False(t, dup, "duplicate username %q", u.Username)
		seen[u.Username] = struct{}{}
		assert.NotEmpty(t, u.Password)
		assert.NotEqual(t, "password123", u.Password)
	}
}
