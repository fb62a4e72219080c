package server

import (
	"warbler/internal/models"
	"warbler/internal/service"
	"warbler/internal/session"

	"github.com/gofiber/fiber/v2"
)

// GetAllUsers handles GET /api/users with optional ?q= username search.
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	q := c.Query("q")

	users, err := s.userService.ListUsers(c.Context(), q, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.userService.GetProfile(c.Context(), userID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/users/me. The current password must be
// supplied with the edit.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Password       string `json:"password"`
		Username       string `json:"username,omitempty"`
		Email          string `json:"email,omitempty"`
		ImageURL       string `json:"image_url,omitempty"`
		HeaderImageURL string `json:"header_image_url,omitempty"`
		Bio            string `json:"bio,omitempty"`
		Location       string `json:"location,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:         userID,
		Password:       req.Password,
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// DeleteMyAccount handles DELETE /api/users/me. Removes the account and
// everything it owns, then ends the session.
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.userService.DeleteAccount(c.Context(), userID); err != nil {
		return respondServiceError(c, err)
	}

	if token := c.Cookies(session.CookieName); token != "" {
		_ = s.sessions.Revoke(c.Context(), token)
	}
	s.clearSessionCookie(c)

	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserProfile handles GET /api/users/:id. The payload carries
// is_own_profile plus follower/following counts, and for other users'
// profiles whether the viewer follows them.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	profileID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID := c.Locals("userID").(uint)

	profile, err := s.userService.GetProfile(c.Context(), viewerID, profileID)
	if err != nil {
		return respondServiceError(c, err)
	}

	resp := fiber.Map{
		"user":            profile.User,
		"is_own_profile":  profile.IsOwnProfile,
		"follower_count":  profile.FollowerCount,
		"following_count": profile.FollowingCount,
	}
	if !profile.IsOwnProfile {
		following, err := s.followService.IsFollowing(c.Context(), viewerID, profileID)
		if err != nil {
			return respondServiceError(c, err)
		}
		followedBy, err := s.followService.IsFollowedBy(c.Context(), viewerID, profileID)
		if err != nil {
			return respondServiceError(c, err)
		}
		resp["is_following"] = following
		resp["is_followed_by"] = followedBy
	}

	return c.JSON(resp)
}

// GetUserMessages handles GET /api/users/:id/messages
func (s *Server) GetUserMessages(c *fiber.Ctx) error {
	profileID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	msgs, err := s.messageService.MessagesBy(c.Context(), s.identity(c), profileID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(msgs)
}

// GetUserFollowers handles GET /api/users/:id/followers
func (s *Server) GetUserFollowers(c *fiber.Ctx) error {
	profileID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	followers, err := s.followService.Followers(c.Context(), profileID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(followers)
}

// GetUserFollowing handles GET /api/users/:id/following
func (s *Server) GetUserFollowing(c *fiber.Ctx) error {
	profileID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.followService.Following(c.Context(), profileID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(following)
}

// GetUserLikes handles GET /api/users/:id/likes
func (s *Server) GetUserLikes(c *fiber.Ctx) error {
	profileID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, err := s.likeService.LikedMessagesBy(c.Context(), profileID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(liked)
}

// FollowUser handles POST /api/users/:id/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.FollowUser(c.Context(), s.identity(c), targetID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"following": true})
}

// UnfollowUser handles DELETE /api/users/:id/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.UnfollowUser(c.Context(), s.identity(c), targetID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"following": false})
}
