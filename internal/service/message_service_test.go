package service

import (
	"context"
	"strings"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_CreateMessage(t *testing.T) {
	deps := setupTestDeps(t)
	svc := NewMessageService(deps.messageRepo)
	ctx := context.Background()

	user := createUser(t, deps, "warbler1", "password")

	t.Run("Success", func(t *testing.T) {
		message, err := svc.CreateMessage(ctx, user.ID, "Hello warbler")
		require.NoError(t, err)
		assert.NotZero(t, message.ID)
		assert.Equal(t, "Hello warbler", message.Text)
		assert.Equal(t, user.ID, message.UserID)
		assert.False(t, message.CreatedAt.IsZero())
	})

	t.Run("Trims Whitespace", func(t *testing.T) {
		message, err := svc.CreateMessage(ctx, user.ID, "  padded  ")
		require.NoError(t, err)
		assert.Equal(t, "padded", message.Text)
	})

	t.Run("Empty Text", func(t *testing.T) {
		_, err := svc.CreateMessage(ctx, user.ID, "   ")
		assert.True(t, models.IsCode(err, models.ErrCodeValidation))
	})

	t.Run("Exactly 140 Characters", func(t *testing.T) {
		message, err := svc.CreateMessage(ctx, user.ID, strings.Repeat("a", 140))
		require.NoError(t, err)
		assert.Len(t, message.Text, 140)
	})

	t.Run("Over 140 Characters", func(t *testing.T) {
		_, err := svc.CreateMessage(ctx, user.ID, strings.Repeat("a", 141))
		assert.True(t, models.IsCode(err, models.ErrCodeValidation))
	})
}

func TestMessageService_DeleteMessage(t *testing.T) {
	deps := setupTestDeps(t)
	svc := NewMessageService(deps.messageRepo)
	ctx := context.Background()

	author := createUser(t, deps, "author", "password")
	other := createUser(t, deps, "other", "password")

	message, err := svc.CreateMessage(ctx, author.ID, "delete me")
	require.NoError(t, err)

	t.Run("Non-Author Rejected", func(t *testing.T) {
		err := svc.DeleteMessage(ctx, other.ID, message.ID)
		require.Error(t, err)
		assert.True(t, models.IsCode(err, models.ErrCodeForbidden))

		// still there
		_, err = svc.GetMessage(ctx, message.ID)
		assert.NoError(t, err)
	})

	t.Run("Author Deletes", func(t *testing.T) {
		require.NoError(t, svc.DeleteMessage(ctx, author.ID, message.ID))

		_, err := svc.GetMessage(ctx, message.ID)
		assert.True(t, models.IsCode(err, models.ErrCodeNotFound))
	})

	t.Run("Missing Message", func(t *testing.T) {
		err := svc.DeleteMessage(ctx, author.ID, 9999)
		assert.True(t, models.IsCode(err, models.ErrCodeNotFound))
	})
}
