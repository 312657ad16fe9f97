// Package session manages cookie-backed login sessions and flash messages.
package session

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/redis/go-redis/v9"
)

const (
	// CurrentUserKey is the session key holding the logged-in user's ID.
	CurrentUserKey = "curr_user"

	flashKey = "flashes"

	cookieName = "warbler_session"
)

// FlashMessage is a one-shot notice rendered on the next page load.
type FlashMessage struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// NewStore builds the session store. When a Redis client is available sessions
// are persisted there; otherwise the in-memory storage is used.
func NewStore(rdb *redis.Client) *session.Store {
	cfg := session.Config{
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:" + cookieName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
	if rdb != nil {
		cfg.Storage = NewRedisStorage(rdb)
	}
	return session.New(cfg)
}

// CurrentUserID returns the logged-in user's ID from the session, if any.
func CurrentUserID(sess *session.Session) (uint, bool) {
	v := sess.Get(CurrentUserKey)
	if v == nil {
		return 0, false
	}
	switch id := v.(type) {
	case uint:
		return id, true
	case int:
		return uint(id), true
	case uint64:
		return uint(id), true
	case int64:
		return uint(id), true
	default:
		return 0, false
	}
}

// SetCurrentUser records the user ID in the session.
func SetCurrentUser(sess *session.Session, userID uint) {
	sess.Set(CurrentUserKey, userID)
}

// ClearCurrentUser removes the logged-in user from the session.
func ClearCurrentUser(sess *session.Session) {
	sess.Delete(CurrentUserKey)
}

// Flash queues a one-shot message for the next rendered page.
// Flashes are stored JSON-encoded so they round-trip through any storage backend.
func Flash(sess *session.Session, category, message string) {
	flashes := peekFlashes(sess)
	flashes = append(flashes, FlashMessage{Category: category, Message: message})
	if b, err := json.Marshal(flashes); err == nil {
		sess.Set(flashKey, string(b))
	}
}

// PopFlashes returns queued flash messages and clears them.
func PopFlashes(sess *session.Session) []FlashMessage {
	flashes := peekFlashes(sess)
	if len(flashes) > 0 {
		sess.Delete(flashKey)
	}
	return flashes
}

func peekFlashes(sess *session.Session) []FlashMessage {
	v := sess.Get(flashKey)
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	var flashes []FlashMessage
	if err := json.Unmarshal([]byte(s), &flashes); err != nil {
		return nil
	}
	return flashes
}

// FromCtx fetches the request's session from the store.
func FromCtx(store *session.Store, c *fiber.Ctx) (*session.Session, error) {
	return store.Get(c)
}
