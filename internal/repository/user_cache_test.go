package repository

import (
	"context"
	"testing"

	"warbler/internal/cache"
	"warbler/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(c)
	t.Cleanup(func() {
		cache.SetClient(nil)
		c.Close()
	})
}

func TestUserRepository_GetByID_CacheKeepsPasswordHash(t *testing.T) {
	setupTestCache(t)
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")

	// First call populates the cache, second is served from it.
	first, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed", first.Password)

	second, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed", second.Password)
	assert.Equal(t, user.Username, second.Username)
	assert.Equal(t, user.Email, second.Email)
}

func TestUserRepository_UpdateInvalidatesCache(t *testing.T) {
	setupTestCache(t)
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")

	cached, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", cached.Username)

	cached.Username = "renamed"
	require.NoError(t, repo.Update(ctx, cached))

	fresh, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", fresh.Username)
	assert.Equal(t, "hashed", fresh.Password)
}

func TestUserRepository_DeleteInvalidatesCache(t *testing.T) {
	setupTestCache(t)
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")

	_, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err = repo.GetByID(ctx, user.ID)
	assert.True(t, models.IsCode(err, models.ErrCodeNotFound))
}

func TestMessageRepository_TimelineCacheInvalidation(t *testing.T) {
	setupTestCache(t)
	db := setupTestDB(t)
	messageRepo := NewMessageRepository(db)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	timeline, err := messageRepo.GetTimeline(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, timeline)

	// Posting invalidates the author's own cached timeline.
	msg := &models.Message{Text: "hello", UserID: alice.ID}
	require.NoError(t, messageRepo.Create(ctx, msg))

	timeline, err = messageRepo.GetTimeline(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, "hello", timeline[0].Text)

	// Following invalidates the follower's cached timeline.
	require.NoError(t, db.Create(&models.Message{Text: "from bob", UserID: bob.ID}).Error)
	require.NoError(t, followRepo.Create(ctx, &models.Follow{
		UserBeingFollowedID: bob.ID,
		UserFollowingID:     alice.ID,
	}))

	timeline, err = messageRepo.GetTimeline(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, timeline, 2)

	// Deleting a warble invalidates its entry and the author's timeline.
	require.NoError(t, messageRepo.Delete(ctx, msg.ID))

	_, err = messageRepo.GetByID(ctx, msg.ID)
	assert.True(t, models.IsCode(err, models.ErrCodeNotFound))

	timeline, err = messageRepo.GetTimeline(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, timeline, 1)
}
