package handlers

import (
	"strconv"

	"github.com/bookswap/bookswap-backend/internal/api/middleware"
	"github.com/bookswap/bookswap-backend/internal/api/response"
	"github.com/bookswap/bookswap-backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ConversationHandler handles the conversation list, thread and unread
// count HTTP requests. Conversations are addressed by the other
// participant's account id; they have no id of their own.
type ConversationHandler struct {
	messaging services.MessagingService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(messaging services.MessagingService) *ConversationHandler {
	return &ConversationHandler{messaging: messaging}
}

// List handles GET /api/conversations
func (h *ConversationHandler) List(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	conversations, err := h.messaging.ListConversations(c.Request().Context(), accountID)
	if err != nil {
		return response.InternalError(c, "failed to list conversations")
	}

	return response.Success(c, conversations)
}

// Thread handles GET /api/conversations/:other_id
func (h *ConversationHandler) Thread(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	otherID, err := strconv.ParseUint(c.Param("other_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid account ID")
	}

	thread, err := h.messaging.GetThread(c.Request().Context(), accountID, uint(otherID))
	if err != nil {
		return response.InternalError(c, "failed to get thread")
	}

	return response.Success(c, thread)
}

// MarkRead handles POST /api/conversations/:other_id/read. Repeating the
// call is harmless; the count of newly read messages is returned.
func (h *ConversationHandler) MarkRead(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	otherID, err := strconv.ParseUint(c.Param("other_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid account ID")
	}

	marked, err := h.messaging.MarkThreadRead(c.Request().Context(), accountID, uint(otherID))
	if err != nil {
		return response.InternalError(c, "failed to mark thread read")
	}

	return response.Success(c, map[string]int64{"marked_read": marked})
}

// Exists handles GET /api/conversations/:other_id/exists
func (h *ConversationHandler) Exists(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	otherID, err := strconv.ParseUint(c.Param("other_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid account ID")
	}

	exists, err := h.messaging.HasConversation(c.Request().Context(), accountID, uint(otherID))
	if err != nil {
		return response.InternalError(c, "failed to check conversation")
	}

	return response.Success(c, map[string]bool{"exists": exists})
}

// UnreadCount handles GET /api/messages/unread/count with an optional
// from query parameter restricting the count to one sender
func (h *ConversationHandler) UnreadCount(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	var count int64
	var err error

	if from := c.QueryParam("from"); from != "" {
		fromID, parseErr := strconv.ParseUint(from, 10, 32)
		if parseErr != nil {
			return response.BadRequest(c, "invalid account ID")
		}
		count, err = h.messaging.CountUnreadFrom(c.Request().Context(), accountID, uint(fromID))
	} else {
		count, err = h.messaging.CountUnreadTotal(c.Request().Context(), accountID)
	}
	if err != nil {
		return response.InternalError(c, "failed to count unread messages")
	}

	return response.Success(c, map[string]int64{"unread": count})
}
