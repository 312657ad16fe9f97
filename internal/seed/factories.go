// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
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
)

// SeedOptions tune how the factory generates data.
type SeedOptions struct {
	// DryRun logs instead of writing to the database.
	DryRun bool
	// SkipBcrypt stores plaintext passwords for faster dev seeding.
	SkipBcrypt bool
	// MaxDays spreads generated timestamps over this many days back.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rand *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// spreadCreatedAt returns a timestamp scattered over the configured window.
func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:       gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:          gofakeit.Email(),
		Bio:            gofakeit.Sentence(10),
		Location:       gofakeit.City(),
		ImageURL:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		HeaderImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/1200/400", gofakeit.UUID()),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildMessage constructs a warble for the user without persisting it.
func (f *Factory) BuildMessage(user *models.User, overrides ...func(*models.Message)) *models.Message {
	text := gofakeit.Sentence(f.rand.Intn(12) + 3)
	if len(text) > models.MaxMessageLength {
		text = text[:models.MaxMessageLength]
	}
	message := &models.Message{
		Text:      text,
		UserID:    user.ID,
		CreatedAt: f.spreadCreatedAt(),
	}
	for _, override := range overrides {
		override(message)
	}
	return message
}

// CreateMessagesBatch persists multiple warbles in a single DB call.
func (f *Factory) CreateMessagesBatch(messages []*models.Message) error {
	if f.opts.DryRun {
		for _, m := range messages {
			f.nextID++
			m.ID = f.nextID
		}
		log.Printf("[dry-run] CreateMessagesBatch: %d messages (no DB write)", len(messages))
		return nil
	}
	return f.db.Create(&messages).Error
}

// CreateFollow persists a follow edge, ignoring duplicates.
func (f *Factory) CreateFollow(follower, followed *models.User) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateFollow: %d -> %d", follower.ID, followed.ID)
		return nil
	}
	follow := &models.Follow{
		UserBeingFollowedID: followed.ID,
		UserFollowingID:     follower.ID,
	}
	return f.db.Where(follow).FirstOrCreate(follow).Error
}

// CreateLike persists a like, ignoring duplicates.
func (f *Factory) CreateLike(user *models.User, message *models.Message) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateLike: user %d likes message %d", user.ID, message.ID)
		return nil
	}
	like := &models.Like{UserID: user.ID, MessageID: message.ID}
	return f.db.Where(like).FirstOrCreate(like).Error
}
