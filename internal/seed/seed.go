// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"warbler/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumMessages int
	ShouldClean bool
}

// Seed populates the database with demo data: users, warbles, a follow mesh,
// and likes. Every seeded user's password is "password123".
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d messages...", opts.NumUsers, opts.NumMessages)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("warning: could not clear all existing data, continuing anyway")
		}
	}

	f := NewFactory(db)

	users, err := f.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	messages, err := f.CreateMessages(users, opts.NumMessages)
	if err != nil {
		return fmt.Errorf("failed to create messages: %w", err)
	}
	log.Printf("%d messages created", len(messages))

	follows, err := f.CreateFollowMesh(users)
	if err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	log.Printf("%d follow edges created", follows)

	likes, err := f.CreateLikes(users, messages)
	if err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Printf("%d likes created", likes)

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	sql := `TRUNCATE TABLE likes, follows, messages, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUsers persists count users with unique usernames and emails.
func (f *Factory) CreateUsers(count int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		username := fmt.Sprintf("%s%d", gofakeit.Username(), i)
		user := models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@example.com", username),
			Password: string(hashed),
			ImageURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
			Bio:      gofakeit.Sentence(8),
			Location: fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
		}
		if err := f.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// CreateMessages persists count warbles spread across the users with a
// realistic created_at spread over the last 90 days.
func (f *Factory) CreateMessages(users []models.User, count int) ([]models.Message, error) {
	if len(users) == 0 {
		return nil, nil
	}

	messages := make([]models.Message, 0, count)
	for i := 0; i < count; i++ {
		author := users[f.r.Intn(len(users))]
		text := gofakeit.Sentence(f.r.Intn(12) + 3)
		if len(text) > models.MaxMessageLength {
			text = text[:models.MaxMessageLength]
		}
		msg := models.Message{
			Text:      text,
			UserID:    author.ID,
			CreatedAt: time.Now().Add(-time.Duration(f.r.Intn(90*24)) * time.Hour),
		}
		if err := f.db.Create(&msg).Error; err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// CreateFollowMesh has each user follow a handful of others. Self-follows are
// never generated; duplicate picks fall into the unique index and are skipped.
func (f *Factory) CreateFollowMesh(users []models.User) (int, error) {
	created := 0
	for _, u := range users {
		n := f.r.Intn(len(users))
		for j := 0; j < n; j++ {
			target := users[f.r.Intn(len(users))]
			if target.ID == u.ID {
				continue
			}
			res := f.db.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Follow{FollowerID: u.ID, FolloweeID: target.ID})
			if res.Error != nil {
				return created, res.Error
			}
			created += int(res.RowsAffected)
		}
	}
	return created, nil
}

// CreateLikes sprinkles likes across the messages, never on the liker's own.
func (f *Factory) CreateLikes(users []models.User, messages []models.Message) (int, error) {
	created := 0
	for _, m := range messages {
		n := f.r.Intn(4)
		for j := 0; j < n; j++ {
			liker := users[f.r.Intn(len(users))]
			if liker.ID == m.UserID {
				continue
			}
			res := f.db.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Like{UserID: liker.ID, MessageID: m.ID})
			if res.Error != nil {
				return created, res.Error
			}
			created += int(res.RowsAffected)
		}
	}
	return created, nil
}
