package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func setupCache(t *testing.T) *miniredis.Miniredis {
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(c)
	t.Cleanup(func() {
		SetClient(nil)
		c.Close()
	})
	return mr
}

func TestAside(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	t.Run("Miss Calls Fetch And Stores", func(t *testing.T) {
		fetches := 0
		var got cachedThing
		err := Aside(ctx, "thing:1", &got, time.Minute, func() error {
			fetches++
			got = cachedThing{ID: 1, Name: "first"}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, fetches)
		assert.Equal(t, "first", got.Name)
	})

	t.Run("Hit Skips Fetch", func(t *testing.T) {
		fetches := 0
		var got cachedThing
		err := Aside(ctx, "thing:1", &got, time.Minute, func() error {
			fetches++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 0, fetches)
		assert.Equal(t, "first", got.Name)
	})

	t.Run("Fetch Error Is Not Cached", func(t *testing.T) {
		wantErr := assert.AnError
		var got cachedThing
		err := Aside(ctx, "thing:2", &got, time.Minute, func() error {
			return wantErr
		})
		assert.Equal(t, wantErr, err)

		found, err := GetJSON(ctx, "thing:2", &got)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestAside_NilClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	// Without Redis every call falls through to fetch.
	fetches := 0
	for i := 0; i < 2; i++ {
		var got cachedThing
		err := Aside(ctx, "thing:1", &got, time.Minute, func() error {
			fetches++
			got = cachedThing{ID: 1, Name: "fresh"}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh", got.Name)
	}
	assert.Equal(t, 2, fetches)
}

func TestGetSetJSON(t *testing.T) {
	mr := setupCache(t)
	ctx := context.Background()

	t.Run("Missing Key", func(t *testing.T) {
		var got cachedThing
		found, err := GetJSON(ctx, "nope", &got)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Round Trip With TTL", func(t *testing.T) {
		require.NoError(t, SetJSON(ctx, "thing:1", cachedThing{ID: 1, Name: "kept"}, time.Minute))

		var got cachedThing
		found, err := GetJSON(ctx, "thing:1", &got)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "kept", got.Name)

		mr.FastForward(2 * time.Minute)
		found, err = GetJSON(ctx, "thing:1", &got)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestInvalidateUser(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(7), cachedThing{ID: 7}, time.Minute))
	require.NoError(t, SetJSON(ctx, TimelineKey(7), []cachedThing{{ID: 1}}, time.Minute))
	require.NoError(t, SetJSON(ctx, UserKey(8), cachedThing{ID: 8}, time.Minute))

	InvalidateUser(ctx, 7)

	var got cachedThing
	found, err := GetJSON(ctx, UserKey(7), &got)
	require.NoError(t, err)
	assert.False(t, found)

	var timeline []cachedThing
	found, err = GetJSON(ctx, TimelineKey(7), &timeline)
	require.NoError(t, err)
	assert.False(t, found)

	// Other users are untouched.
	found, err = GetJSON(ctx, UserKey(8), &got)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestInvalidateMessage(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, MessageKey(3), cachedThing{ID: 3}, time.Minute))
	InvalidateMessage(ctx, 3)

	var got cachedThing
	found, err := GetJSON(ctx, MessageKey(3), &got)
	require.NoError(t, err)
	assert.False(t, found)
}
