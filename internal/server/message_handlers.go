package server

import (
	"fmt"

	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
)

type messageForm struct {
	Text   string
	Errors []string
}

// ShowNewMessage renders the new-warble form.
func (s *Server) ShowNewMessage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "message_new.html", "New message", messageForm{})
}

// CreateMessage posts a warble and shows the author's profile.
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	form := messageForm{Text: c.FormValue("text")}

	if _, err := s.messageService.CreateMessage(c.UserContext(), user.ID, form.Text); err != nil {
		if models.IsCode(err, models.ErrCodeValidation) {
			form.Errors = []string{err.(*models.AppError).Message}
			return s.render(c, fiber.StatusOK, "message_new.html", "New message", form)
		}
		return err
	}

	return c.Redirect(fmt.Sprintf("/users/%d", user.ID), fiber.StatusFound)
}

// ShowMessage renders a single warble.
func (s *Server) ShowMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	message, err := s.messageService.GetMessage(c.UserContext(), id)
	if err != nil {
		return err
	}

	liked := false
	if user, ok := currentUser(c); ok {
		if liked, err = s.likeService.IsLiked(c.UserContext(), user.ID, id); err != nil {
			return err
		}
	}

	return s.render(c, fiber.StatusOK, "message_show.html", "Warble", fiber.Map{
		"Message": message,
		"Liked":   liked,
	})
}

// DeleteMessage removes the warble when the author asks.
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, _ := currentUser(c)
	if err := s.messageService.DeleteMessage(c.UserContext(), user.ID, id); err != nil {
		if models.IsCode(err, models.ErrCodeForbidden) {
			return s.flashAndRedirect(c, "danger", "Access unauthorized.", "/")
		}
		return err
	}

	return c.Redirect(fmt.Sprintf("/users/%d", user.ID), fiber.StatusFound)
}
