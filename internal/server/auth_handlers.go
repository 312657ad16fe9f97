package server

import (
	"fmt"

	"warbler/internal/models"
	"warbler/internal/service"
	"warbler/internal/session"

	"github.com/gofiber/fiber/v2"
)

type signupForm struct {
	Username string
	Email    string
	ImageURL string
	Errors   []string
}

type loginForm struct {
	Username string
	Errors   []string
}

// ShowSignup renders the signup form.
func (s *Server) ShowSignup(c *fiber.Ctx) error {
	if _, ok := currentUser(c); ok {
		return c.Redirect("/", fiber.StatusFound)
	}
	return s.render(c, fiber.StatusOK, "signup.html", "Sign up", signupForm{})
}

// Signup creates the account, logs the user in, and sends them home.
// Validation failures re-render the form.
func (s *Server) Signup(c *fiber.Ctx) error {
	form := signupForm{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		ImageURL: c.FormValue("image_url"),
	}

	user, err := s.authService.Signup(c.UserContext(), service.SignupInput{
		Username: form.Username,
		Email:    form.Email,
		Password: c.FormValue("password"),
		ImageURL: form.ImageURL,
	})
	if err != nil {
		if models.IsCode(err, models.ErrCodeValidation) {
			form.Errors = []string{err.(*models.AppError).Message}
			return s.render(c, fiber.StatusOK, "signup.html", "Sign up", form)
		}
		return err
	}

	return s.startSession(c, user.ID, "")
}

// ShowLogin renders the login form.
func (s *Server) ShowLogin(c *fiber.Ctx) error {
	if _, ok := currentUser(c); ok {
		return c.Redirect("/", fiber.StatusFound)
	}
	return s.render(c, fiber.StatusOK, "login.html", "Log in", loginForm{})
}

// Login checks credentials and starts a session.
func (s *Server) Login(c *fiber.Ctx) error {
	form := loginForm{Username: c.FormValue("username")}

	user, err := s.authService.Authenticate(c.UserContext(), form.Username, c.FormValue("password"))
	if err != nil {
		return err
	}
	if user == nil {
		form.Errors = []string{"Invalid credentials."}
		return s.render(c, fiber.StatusOK, "login.html", "Log in", form)
	}

	return s.startSession(c, user.ID, fmt.Sprintf("Hello, %s!", user.Username))
}

// Logout ends the session and sends the visitor to the login page.
func (s *Server) Logout(c *fiber.Ctx) error {
	sess, err := session.FromCtx(s.sessions, c)
	if err != nil {
		return models.NewInternalError(err)
	}

	session.ClearCurrentUser(sess)
	session.Flash(sess, "success", "You have successfully logged out.")
	if err := sess.Save(); err != nil {
		return models.NewInternalError(err)
	}

	return c.Redirect("/login", fiber.StatusFound)
}

// startSession records the user in the session, optionally queues a greeting,
// and redirects home.
func (s *Server) startSession(c *fiber.Ctx, userID uint, greeting string) error {
	sess, err := session.FromCtx(s.sessions, c)
	if err != nil {
		return models.NewInternalError(err)
	}

	session.SetCurrentUser(sess, userID)
	if greeting != "" {
		session.Flash(sess, "success", greeting)
	}
	if err := sess.Save(); err != nil {
		return models.NewInternalError(err)
	}

	return c.Redirect("/", fiber.StatusFound)
}
