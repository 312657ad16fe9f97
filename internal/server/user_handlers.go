package server

import (
	"fmt"

	"warbler/internal/models"
	"warbler/internal/service"
	"warbler/internal/session"

	"github.com/gofiber/fiber/v2"
)

type homeView struct {
	Messages []models.Message
	Liked    map[uint]bool
}

type profileForm struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Location       string
	Bio            string
	Errors         []string
}

type userPage struct {
	*userDetail
	Messages []models.Message
	Users    []models.User
}

// Home shows the timeline for logged-in users and the hero page otherwise.
func (s *Server) Home(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return s.render(c, fiber.StatusOK, "home_anon.html", "", nil)
	}

	messages, err := s.messageService.GetTimeline(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	liked, err := s.likedSet(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, "home.html", "", homeView{
		Messages: messages,
		Liked:    liked,
	})
}

// ListUsers shows all users, optionally filtered by the q parameter.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	var (
		users []models.User
		err   error
	)
	if q := c.Query("q"); q != "" {
		users, err = s.userService.SearchUsers(c.UserContext(), q, 50)
	} else {
		users, err = s.userService.ListUsers(c.UserContext(), 50, 0)
	}
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, "users_index.html", "Users", fiber.Map{
		"Users": users,
	})
}

// ShowUser renders a profile with the user's latest warbles.
func (s *Server) ShowUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, err := s.userService.GetUserWithMessages(c.UserContext(), id, 0)
	if err != nil {
		return err
	}

	detail, err := s.buildUserDetail(c.UserContext(), c, user)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, "user_show.html", "@"+user.Username, userPage{
		userDetail: detail,
		Messages:   user.Messages,
	})
}

// ShowFollowing lists the users this profile follows.
func (s *Server) ShowFollowing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	following, err := s.followService.GetFollowing(c.UserContext(), id)
	if err != nil {
		return err
	}

	detail, err := s.buildUserDetail(c.UserContext(), c, user)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, "following.html", "@"+user.Username, userPage{
		userDetail: detail,
		Users:      following,
	})
}

// ShowFollowers lists the users following this profile.
func (s *Server) ShowFollowers(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	followers, err := s.followService.GetFollowers(c.UserContext(), id)
	if err != nil {
		return err
	}

	detail, err := s.buildUserDetail(c.UserContext(), c, user)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, "followers.html", "@"+user.Username, userPage{
		userDetail: detail,
		Users:      followers,
	})
}

// ShowLikes lists the warbles this profile has liked.
func (s *Server) ShowLikes(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	likedMessages, err := s.likeService.GetLikedMessages(c.UserContext(), id)
	if err != nil {
		return err
	}

	detail, err := s.buildUserDetail(c.UserContext(), c, user)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, "likes.html", "@"+user.Username, userPage{
		userDetail: detail,
		Messages:   likedMessages,
	})
}

// FollowUser makes the logged-in user follow the target.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, _ := currentUser(c)
	if err := s.followService.Follow(c.UserContext(), user.ID, id); err != nil {
		if models.IsCode(err, models.ErrCodeValidation) {
			return s.flashAndRedirect(c, "danger", err.(*models.AppError).Message, "/")
		}
		return err
	}

	return c.Redirect(fmt.Sprintf("/users/%d/following", user.ID), fiber.StatusFound)
}

// UnfollowUser removes the follow edge.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, _ := currentUser(c)
	if err := s.followService.Unfollow(c.UserContext(), user.ID, id); err != nil {
		return err
	}

	return c.Redirect(fmt.Sprintf("/users/%d/following", user.ID), fiber.StatusFound)
}

// ToggleLike flips the like state of a warble and returns to the page the
// visitor came from.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, _ := currentUser(c)
	if _, err := s.likeService.ToggleLike(c.UserContext(), user.ID, id); err != nil {
		if models.IsCode(err, models.ErrCodeForbidden) {
			return s.flashAndRedirect(c, "danger", err.(*models.AppError).Message, "/")
		}
		return err
	}

	return redirectBack(c)
}

// ShowEditProfile renders the edit-profile form with current values.
func (s *Server) ShowEditProfile(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	return s.render(c, fiber.StatusOK, "profile_edit.html", "Edit profile", profileForm{
		Username:       user.Username,
		Email:          user.Email,
		ImageURL:       user.ImageURL,
		HeaderImageURL: user.HeaderImageURL,
		Location:       user.Location,
		Bio:            user.Bio,
	})
}

// EditProfile applies profile changes after the user confirms their password.
func (s *Server) EditProfile(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	form := profileForm{
		Username:       c.FormValue("username"),
		Email:          c.FormValue("email"),
		ImageURL:       c.FormValue("image_url"),
		HeaderImageURL: c.FormValue("header_image_url"),
		Location:       c.FormValue("location"),
		Bio:            c.FormValue("bio"),
	}

	updated, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:         user.ID,
		Username:       form.Username,
		Email:          form.Email,
		ImageURL:       form.ImageURL,
		HeaderImageURL: form.HeaderImageURL,
		Location:       form.Location,
		Bio:            form.Bio,
		Password:       c.FormValue("password"),
	})
	if err != nil {
		if models.IsCode(err, models.ErrCodeUnauthorized) {
			return s.flashAndRedirect(c, "danger", "Wrong password, please try again.", "/")
		}
		if models.IsCode(err, models.ErrCodeValidation) {
			form.Errors = []string{err.(*models.AppError).Message}
			return s.render(c, fiber.StatusOK, "profile_edit.html", "Edit profile", form)
		}
		return err
	}

	return c.Redirect(fmt.Sprintf("/users/%d", updated.ID), fiber.StatusFound)
}

// DeleteAccount removes the account, ends the session, and offers signup.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	if err := s.userService.DeleteAccount(c.UserContext(), user.ID); err != nil {
		return err
	}

	sess, err := session.FromCtx(s.sessions, c)
	if err != nil {
		return models.NewInternalError(err)
	}
	session.ClearCurrentUser(sess)
	if err := sess.Save(); err != nil {
		return models.NewInternalError(err)
	}

	return c.Redirect("/signup", fiber.StatusFound)
}
