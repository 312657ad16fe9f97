package server

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessagePage(t *testing.T) {
	srv, app := newTestApp(t)
	seedUser(t, srv, "testuser", "password")
	client := newClient(t, app)
	client.login("testuser", "password")

	resp := client.get("/messages/new")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Add my message!")
}

func TestCreateMessage(t *testing.T) {
	t.Run("Logged In", func(t *testing.T) {
		srv, app := newTestApp(t)
		user := seedUser(t, srv, "testuser", "password")
		client := newClient(t, app)
		client.login("testuser", "password")

		resp := client.postForm("/messages/new", url.Values{"text": {"Hello"}})
		require.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, fmt.Sprintf("/users/%d", user.ID), resp.Header.Get(fiber.HeaderLocation))

		var message models.Message
		require.NoError(t, srv.db.First(&message).Error)
		assert.Equal(t, "Hello", message.Text)
		assert.Equal(t, user.ID, message.UserID)
	})

	t.Run("Too Long Re-Renders Form", func(t *testing.T) {
		srv, app := newTestApp(t)
		seedUser(t, srv, "testuser", "password")
		client := newClient(t, app)
		client.login("testuser", "password")

		resp := client.postForm("/messages/new", url.Values{"text": {strings.Repeat("a", 141)}})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, body(t, resp), "140 characters or fewer")

		var count int64
		require.NoError(t, srv.db.Model(&models.Message{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Logged Out Is Unauthorized", func(t *testing.T) {
		srv, app := newTestApp(t)
		client := newClient(t, app)

		resp := client.postForm("/messages/new", url.Values{"text": {"Hello"}})
		require.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))

		home := body(t, client.get("/"))
		assert.Contains(t, home, "Access unauthorized.")

		var count int64
		require.NoError(t, srv.db.Model(&models.Message{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}

func TestShowMessage(t *testing.T) {
	srv, app := newTestApp(t)
	user := seedUser(t, srv, "testuser", "password")
	message := seedMessage(t, srv, user.ID, "a test warble")
	client := newClient(t, app)

	t.Run("Found", func(t *testing.T) {
		resp := client.get(fmt.Sprintf("/messages/%d", message.ID))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, body(t, resp), "a test warble")
	})

	t.Run("Missing Is 404", func(t *testing.T) {
		resp := client.get("/messages/99999999")
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteMessage(t *testing.T) {
	t.Run("Author Deletes", func(t *testing.T) {
		srv, app := newTestApp(t)
		user := seedUser(t, srv, "testuser", "password")
		message := seedMessage(t, srv, user.ID, "doomed")
		client := newClient(t, app)
		client.login("testuser", "password")

		resp := client.postForm(fmt.Sprintf("/messages/%d/delete", message.ID), url.Values{})
		require.Equal(t, fiber.StatusFound, resp.StatusCode)

		var count int64
		require.NoError(t, srv.db.Model(&models.Message{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Other User Cannot Delete", func(t *testing.T) {
		srv, app := newTestApp(t)
		author := seedUser(t, srv, "author", "password")
		seedUser(t, srv, "intruder", "password")
		message := seedMessage(t, srv, author.ID, "keep me")
		client := newClient(t, app)
		client.login("intruder", "password")

		resp := client.postForm(fmt.Sprintf("/messages/%d/delete", message.ID), url.Values{})
		require.Equal(t, fiber.StatusFound, resp.StatusCode)

		home := body(t, client.get("/"))
		assert.Contains(t, home, "Access unauthorized.")

		var count int64
		require.NoError(t, srv.db.Model(&models.Message{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Logged Out Is Unauthorized", func(t *testing.T) {
		srv, app := newTestApp(t)
		author := seedUser(t, srv, "author", "password")
		message := seedMessage(t, srv, author.ID, "keep me")
		client := newClient(t, app)

		resp := client.postForm(fmt.Sprintf("/messages/%d/delete", message.ID), url.Values{})
		require.Equal(t, fiber.StatusFound, resp.StatusCode)

		home := body(t, client.get("/"))
		assert.Contains(t, home, "Access unauthorized.")
	})
}
