package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/warbler/warbler/internal/api/metrics"
	"github.com/warbler/warbler/internal/core/ports"
)

// UserHandler serves profiles and the follow graph.
type UserHandler struct {
	users    ports.UserService
	messages ports.MessageService
}

func NewUserHandler(users ports.UserService, messages ports.MessageService) *UserHandler {
	return &UserHandler{users: users, messages: messages}
}

// Search handles GET /users?q=.
//
// @Summary      Search users by username
// @Tags         users
// @Produce      json
// @Param        q    query     string  false  "Username substring"
// @Success      200  {array}   domain.User
// @Router       /users [get]
func (h *UserHandler) Search(c echo.Context) error {
	users, err := h.users.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(users))
}

// Profile handles GET /users/:username.
//
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  profileResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/{username} [get]
func (h *UserHandler) Profile(c echo.Context) error {
	user, err := h.users.Profile(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(user))
}

// Update handles PATCH /users/:username.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string                true  "Username"
// @Param        body      body      updateProfileRequest  true  "Profile fields and current password"
// @Success      200       {object}  domain.User
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Router       /users/{username} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), userID, ports.UpdateProfileInput{
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
		Password:       req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:username.
//
// @Summary      Delete own account
// @Tags         users
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Success      204
// @Failure      403       {object}  errorResponse
// @Router       /users/{username} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Messages handles GET /users/:username/messages.
func (h *UserHandler) Messages(c echo.Context) error {
	msgs, err := h.messages.ListByUser(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(msgs))
}

// Following handles GET /users/:username/following.
func (h *UserHandler) Following(c echo.Context) error {
	users, err := h.users.Following(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(users))
}

// Followers handles GET /users/:username/followers.
func (h *UserHandler) Followers(c echo.Context) error {
	users, err := h.users.Followers(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(users))
}

// Follow handles POST /users/:username/follow.
//
// @Summary      Follow a user
// @Tags         follows
// @Security     BearerAuth
// @Param        username  path  string  true  "User to follow"
// @Success      204
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /users/{username}/follow [post]
func (h *UserHandler) Follow(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.users.Follow(c.Request().Context(), userID, c.Param("username")); err != nil {
		return err
	}
	metrics.FollowActionsTotal.WithLabelValues("follow").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Unfollow handles DELETE /users/:username/follow.
//
// @Summary      Stop following a user
// @Tags         follows
// @Security     BearerAuth
// @Param        username  path  string  true  "User to unfollow"
// @Success      204
// @Failure      404       {object}  errorResponse
// @Router       /users/{username}/follow [delete]
func (h *UserHandler) Unfollow(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.users.Unfollow(c.Request().Context(), userID, c.Param("username")); err != nil {
		return err
	}
	metrics.FollowActionsTotal.WithLabelValues("unfollow").Inc()
	return c.NoContent(http.StatusNoContent)
}
