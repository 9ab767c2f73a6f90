package handlers

import (
	"strconv"

	"github.com/bookswap/bookswap-backend/internal/api/middleware"
	"github.com/bookswap/bookswap-backend/internal/api/response"
	apperrors "github.com/bookswap/bookswap-backend/internal/errors"
	"github.com/bookswap/bookswap-backend/internal/services"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles sending and deleting individual messages
type MessageHandler struct {
	messaging services.MessagingService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messaging services.MessagingService) *MessageHandler {
	return &MessageHandler{messaging: messaging}
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	RecipientID    uint   `json:"recipient_id" validate:"required"`
	Body           string `json:"body" validate:"required"`
	ExchangeBookID *uint  `json:"exchange_book_id"`
}

// Send handles POST /api/messages. Sending the first message between a
// pair is what brings their conversation into existence.
func (h *MessageHandler) Send(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if req.RecipientID == 0 {
		return response.BadRequest(c, "recipient_id is required")
	}

	message, err := h.messaging.Send(c.Request().Context(), accountID, req.RecipientID, req.Body, req.ExchangeBookID)
	if err != nil {
		if apperrors.IsValidation(err) {
			return response.BadRequest(c, err.Error())
		}
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// Delete handles DELETE /api/messages/:id. Only a participant can delete;
// everyone else sees the same not-found as a missing message.
func (h *MessageHandler) Delete(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid message ID")
	}

	if err := h.messaging.DeleteMessage(c.Request().Context(), uint(id), accountID); err != nil {
		if apperrors.IsNotFound(err) {
			return response.NotFound(c, "message not found")
		}
		return response.InternalError(c, "failed to delete message")
	}

	return response.NoContent(c)
}
