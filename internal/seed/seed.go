package seed

import (
	"log"
	"math/rand"
	"time"

	"warbler/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with a connected social mesh of users,
// warbles, follows, and likes.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rand    *rand.Rand
}

// NewSeeder returns a Seeder with default options.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db, SeedOptions{}),
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes every seeded table, dependents first.
func (s *Seeder) ClearAll() error {
	for _, model := range []interface{}{
		&models.Like{},
		&models.Follow{},
		&models.Message{},
		&models.User{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// SeedSocialMesh creates users and a follow graph where everyone follows a
// handful of other users.
func (s *Seeder) SeedSocialMesh(numUsers int) ([]*models.User, error) {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	// Everyone follows 3-8 random users.
	edges := 0
	for _, follower := range users {
		count := s.rand.Intn(6) + 3
		for i := 0; i < count; i++ {
			target := users[s.rand.Intn(len(users))]
			if target.ID == follower.ID {
				continue
			}
			if err := s.factory.CreateFollow(follower, target); err != nil {
				return nil, err
			}
			edges++
		}
	}
	log.Printf("Created %d follow edges", edges)

	return users, nil
}

// SeedEngagement posts warbles from random users and scatters likes on them.
func (s *Seeder) SeedEngagement(users []*models.User, numMessages int) ([]*models.Message, error) {
	if len(users) == 0 {
		return nil, nil
	}

	messages := make([]*models.Message, 0, numMessages)
	for i := 0; i < numMessages; i++ {
		author := users[s.rand.Intn(len(users))]
		messages = append(messages, s.factory.BuildMessage(author))
	}
	if err := s.factory.CreateMessagesBatch(messages); err != nil {
		return nil, err
	}
	log.Printf("Created %d warbles", len(messages))

	// Roughly a third of the warbles pick up likes from other users.
	likes := 0
	for _, message := range messages {
		if s.rand.Intn(3) != 0 {
			continue
		}
		count := s.rand.Intn(5) + 1
		for i := 0; i < count; i++ {
			fan := users[s.rand.Intn(len(users))]
			if fan.ID == message.UserID {
				continue
			}
			if err := s.factory.CreateLike(fan, message); err != nil {
				return nil, err
			}
			likes++
		}
	}
	log.Printf("Created %d likes", likes)

	return messages, nil
}
