package server

import (
	"context"
	"net/url"
	"strings"

	"warbler/internal/models"
	"warbler/internal/session"

	"github.com/gofiber/fiber/v2"
)

// parseID extracts a route parameter by name as a positive uint.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("Invalid ID")
	}
	return uint(id), nil
}

// currentUser returns the logged-in user, if any.
func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("currentUser").(*models.User)
	return user, ok
}

// flashAndRedirect queues a flash message and redirects to target.
func (s *Server) flashAndRedirect(c *fiber.Ctx, category, message, target string) error {
	sess, err := session.FromCtx(s.sessions, c)
	if err != nil {
		return models.NewInternalError(err)
	}
	session.Flash(sess, category, message)
	if err := sess.Save(); err != nil {
		return models.NewInternalError(err)
	}
	return c.Redirect(target, fiber.StatusFound)
}

// redirectBack sends the visitor to the page they came from, or home.
// Only same-origin paths are followed so the Referer header cannot be
// used as an open redirect.
func redirectBack(c *fiber.Ctx) error {
	return c.Redirect(safeReferer(c), fiber.StatusFound)
}

func safeReferer(c *fiber.Ctx) string {
	ref := c.Get(fiber.HeaderReferer)
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Hostname()) {
		return "/"
	}
	path := u.RequestURI()
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/"
	}
	return path
}

// userDetail carries the numbers shown on every profile page variant.
type userDetail struct {
	User           *models.User
	MessageCount   int64
	FollowingCount int64
	FollowersCount int64
	LikesCount     int64
	IsFollowing    bool
}

// buildUserDetail assembles the profile header stats for the given user.
func (s *Server) buildUserDetail(ctx context.Context, c *fiber.Ctx, user *models.User) (*userDetail, error) {
	detail := &userDetail{User: user}

	messages, err := s.messageRepo.GetByUser(ctx, user.ID, 0)
	if err != nil {
		return nil, err
	}
	detail.MessageCount = int64(len(messages))

	if detail.FollowingCount, err = s.followRepo.CountFollowing(ctx, user.ID); err != nil {
		return nil, err
	}
	if detail.FollowersCount, err = s.followRepo.CountFollowers(ctx, user.ID); err != nil {
		return nil, err
	}
	if detail.LikesCount, err = s.likeRepo.CountForUser(ctx, user.ID); err != nil {
		return nil, err
	}

	if viewer, ok := currentUser(c); ok && viewer.ID != user.ID {
		if detail.IsFollowing, err = s.followService.IsFollowing(ctx, viewer.ID, user.ID); err != nil {
			return nil, err
		}
	}

	return detail, nil
}

// likedSet returns the IDs of warbles the user has liked, for star rendering.
func (s *Server) likedSet(ctx context.Context, userID uint) (map[uint]bool, error) {
	messages, err := s.likeService.GetLikedMessages(ctx, userID)
	if err != nil {
		return nil, err
	}
	liked := make(map[uint]bool, len(messages))
	for _, m := range messages {
		liked[m.ID] = true
	}
	return liked, nil
}
