package handler

import (
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/warbler/warbler/internal/api/metrics"
	"github.com/warbler/warbler/internal/core/ports"
)

type MessageHandler struct {
	messages ports.MessageService
}

func NewMessageHandler(messages ports.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Create handles POST /messages.
//
// @Summary      Post a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postMessageRequest  true  "Message text (at most 140 characters)"
// @Success      201   {object}  domain.Message
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /messages [post]
func (h *MessageHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req postMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.messages.Post(c.Request().Context(), userID, req.Text)
	if err != nil {
		return err
	}
	metrics.MessagesPostedTotal.Inc()
	metrics.MessageLength.Observe(float64(utf8.RuneCountInString(msg.Text)))

	return c.JSON(http.StatusCreated, msg)
}

// Get handles GET /messages/:id.
//
// @Summary      Get a message
// @Tags         messages
// @Produce      json
// @Param        id   path      int  true  "Message id"
// @Success      200  {object}  domain.Message
// @Failure      404  {object}  errorResponse
// @Router       /messages/{id} [get]
func (h *MessageHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	msg, err := h.messages.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}

// Delete handles DELETE /messages/:id. Only the author may delete.
//
// @Summary      Delete a message
// @Tags         messages
// @Security     BearerAuth
// @Param        id   path  int  true  "Message id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /messages/{id} [delete]
func (h *MessageHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.messages.Delete(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Timeline handles GET /timeline?limit=.
//
// @Summary      Home timeline
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum messages (default and cap 100)"
// @Success      200    {array}   domain.Message
// @Router       /timeline [get]
func (h *MessageHandler) Timeline(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
	}

	msgs, err := h.messages.Timeline(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(msgs))
}
