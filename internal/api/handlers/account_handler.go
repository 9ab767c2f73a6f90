package handlers

import (
	"strconv"

	"github.com/bookswap/bookswap-backend/internal/api/middleware"
	"github.com/bookswap/bookswap-backend/internal/api/response"
	"github.com/bookswap/bookswap-backend/internal/logger"
	"github.com/bookswap/bookswap-backend/internal/services"
	"github.com/bookswap/bookswap-backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// AccountHandler handles account and profile HTTP requests
type AccountHandler struct {
	accounts    services.AccountService
	fileStorage storage.FileStorage
	secLog      *logger.SecurityLogger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts services.AccountService, fileStorage storage.FileStorage, secLog *logger.SecurityLogger) *AccountHandler {
	return &AccountHandler{
		accounts:    accounts,
		fileStorage: fileStorage,
		secLog:      secLog,
	}
}

// UpdateProfileRequest represents the request body for profile updates.
// Absent fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Password    *string `json:"password"`
}

// GetProfile handles GET /api/accounts/:id, the public profile view
func (h *AccountHandler) GetProfile(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid account ID")
	}

	profile, err := h.accounts.GetProfile(c.Request().Context(), uint(id))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

// Me handles GET /api/me
func (h *AccountHandler) Me(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	account, err := h.accounts.GetAccount(c.Request().Context(), accountID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, account)
}

// UpdateMe handles PATCH /api/me
func (h *AccountHandler) UpdateMe(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	account, err := h.accounts.UpdateProfile(c.Request().Context(), accountID, services.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Password:    req.Password,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, account)
}

// UploadAvatar handles POST /api/me/avatar
func (h *AccountHandler) UploadAvatar(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return response.BadRequest(c, "avatar file is required")
	}

	if err := storage.ValidateImageFile(fileHeader.Filename, fileHeader.Size); err != nil {
		if h.secLog != nil {
			h.secLog.BlockedFileUpload(c.RealIP(), fileHeader.Filename, err.Error())
		}
		return response.BadRequest(c, err.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return response.InternalError(c, "failed to read upload")
	}
	defer src.Close()

	// Previous avatar file is replaced after the new one is stored
	previous := ""
	if current, err := h.accounts.GetAccount(c.Request().Context(), accountID); err == nil {
		previous = current.AvatarRef
	}

	avatarRef, err := h.fileStorage.Save(fileHeader.Filename, src)
	if err != nil {
		return response.InternalError(c, "failed to store avatar")
	}

	account, err := h.accounts.SetAvatar(c.Request().Context(), accountID, avatarRef)
	if err != nil {
		_ = h.fileStorage.Delete(avatarRef)
		return response.Error(c, err)
	}

	if previous != "" {
		_ = h.fileStorage.Delete(previous)
	}

	return response.Success(c, account)
}

// Deactivate handles DELETE /api/me. The account row survives so old
// messages and books keep resolving; the session is closed.
func (h *AccountHandler) Deactivate(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	if err := h.accounts.Deactivate(c.Request().Context(), accountID); err != nil {
		return response.Error(c, err)
	}

	return response.NoContent(c)
}
