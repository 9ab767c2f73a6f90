package handlers

import (
	"errors"

	"github.com/bookswap/bookswap-backend/internal/api/response"
	apperrors "github.com/bookswap/bookswap-backend/internal/errors"
	"github.com/bookswap/bookswap-backend/internal/logger"
	"github.com/bookswap/bookswap-backend/internal/services"
	"github.com/bookswap/bookswap-backend/internal/session"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	accounts services.AccountService
	sessions *session.Manager
	secLog   *logger.SecurityLogger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts services.AccountService, sessions *session.Manager, secLog *logger.SecurityLogger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		secLog:   secLog,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/auth/register. A successful registration
// also opens a session, so new accounts land logged in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	account, err := h.accounts.Register(c.Request().Context(), services.RegisterInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	})
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.sessions.Login(c.Response(), c.Request(), account.ID); err != nil {
		return response.InternalError(c, "failed to open session")
	}

	return response.Created(c, account)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "email and password are required")
	}

	account, err := h.accounts.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			if h.secLog != nil {
				h.secLog.AuthFailure(c.RealIP(), c.Path(), "invalid credentials")
			}
			return response.Error(c, err)
		}
		return response.InternalError(c, "failed to authenticate")
	}

	if err := h.sessions.Login(c.Response(), c.Request(), account.ID); err != nil {
		return response.InternalError(c, "failed to open session")
	}

	return response.Success(c, account)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Response(), c.Request()); err != nil {
		return response.InternalError(c, "failed to close session")
	}
	return response.SuccessWithMessage(c, nil, "logged out")
}
