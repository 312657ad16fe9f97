package session

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStorage(client), mr
}

func TestRedisStorage_GetSet(t *testing.T) {
	storage, _ := setupStorage(t)

	require.NoError(t, storage.Set("abc", []byte("payload"), 0))

	val, err := storage.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), val)
}

func TestRedisStorage_GetMissing(t *testing.T) {
	storage, _ := setupStorage(t)

	val, err := storage.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorage_Expiration(t *testing.T) {
	storage, mr := setupStorage(t)

	require.NoError(t, storage.Set("abc", []byte("payload"), time.Minute))
	mr.FastForward(2 * time.Minute)

	val, err := storage.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorage_Delete(t *testing.T) {
	storage, _ := setupStorage(t)

	require.NoError(t, storage.Set("abc", []byte("payload"), 0))
	require.NoError(t, storage.Delete("abc"))

	val, err := storage.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorage_Reset(t *testing.T) {
	storage, mr := setupStorage(t)

	require.NoError(t, storage.Set("one", []byte("a"), 0))
	require.NoError(t, storage.Set("two", []byte("b"), 0))
	// Keys outside the session namespace survive a reset.
	mr.Set("other:key", "keep")

	require.NoError(t, storage.Reset())

	val, err := storage.Get("one")
	require.NoError(t, err)
	assert.Nil(t, val)
	val, err = storage.Get("two")
	require.NoError(t, err)
	assert.Nil(t, val)
	assert.True(t, mr.Exists("other:key"))
}
