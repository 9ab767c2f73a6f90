package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/bookswap/bookswap-backend/internal/api/middleware"
	"github.com/bookswap/bookswap-backend/internal/api/response"
	"github.com/bookswap/bookswap-backend/internal/logger"
	"github.com/bookswap/bookswap-backend/internal/models"
	"github.com/bookswap/bookswap-backend/internal/repository"
	"github.com/bookswap/bookswap-backend/internal/storage"
	"github.com/bookswap/bookswap-backend/internal/validator"
	"github.com/labstack/echo/v4"
)

// BookHandler handles book-related HTTP requests
type BookHandler struct {
	bookRepo    repository.BookRepository
	fileStorage storage.FileStorage
	secLog      *logger.SecurityLogger
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookRepo repository.BookRepository, fileStorage storage.FileStorage, secLog *logger.SecurityLogger) *BookHandler {
	return &BookHandler{
		bookRepo:    bookRepo,
		fileStorage: fileStorage,
		secLog:      secLog,
	}
}

// CreateBookRequest represents the request body for listing a book
type CreateBookRequest struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Description string `json:"description"`
}

// UpdateBookRequest represents the request body for editing a book.
// Absent fields are left untouched.
type UpdateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// List handles GET /api/books, all available books of active owners
func (h *BookHandler) List(c echo.Context) error {
	limit, offset := paginationParams(c)

	books, total, err := h.bookRepo.ListAvailable(c.Request().Context(), limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list books")
	}

	return response.Paginated(c, books, total, limit, offset)
}

// Latest handles GET /api/books/latest, the home page strip of newest books
func (h *BookHandler) Latest(c echo.Context) error {
	limit := 4
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= validator.MaxLimit {
			limit = parsed
		}
	}

	books, err := h.bookRepo.ListLatest(c.Request().Context(), limit)
	if err != nil {
		return response.InternalError(c, "failed to list latest books")
	}

	return response.Success(c, books)
}

// Search handles GET /api/books/search?q=term, matching title or author
func (h *BookHandler) Search(c echo.Context) error {
	term := validator.SanitizeString(c.QueryParam("q"), 200)
	if term == "" {
		return response.BadRequest(c, "search term is required")
	}

	limit, offset := paginationParams(c)

	books, total, err := h.bookRepo.Search(c.Request().Context(), term, limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to search books")
	}

	return response.Paginated(c, books, total, limit, offset)
}

// Get handles GET /api/books/:id
func (h *BookHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid book ID")
	}

	book, err := h.bookRepo.GetWithOwner(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "book not found")
		}
		return response.InternalError(c, "failed to get book")
	}

	return response.Success(c, book)
}

// ListMine handles GET /api/me/books, including unavailable ones
func (h *BookHandler) ListMine(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	books, err := h.bookRepo.ListByOwner(c.Request().Context(), accountID)
	if err != nil {
		return response.InternalError(c, "failed to list books")
	}

	return response.Success(c, books)
}

// ListByAccount handles GET /api/accounts/:id/books, the public shelf shown
// on a profile page
func (h *BookHandler) ListByAccount(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid account ID")
	}

	books, err := h.bookRepo.ListPublicByOwner(c.Request().Context(), uint(id))
	if err != nil {
		return response.InternalError(c, "failed to list books")
	}

	return response.Success(c, books)
}

// Create handles POST /api/books
func (h *BookHandler) Create(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	var req CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	title := validator.SanitizeString(req.Title, 200)
	author := validator.SanitizeString(req.Author, 200)
	if title == "" {
		return response.BadRequest(c, "title is required")
	}
	if author == "" {
		return response.BadRequest(c, "author is required")
	}

	book := &models.Book{
		OwnerID:     accountID,
		Title:       title,
		Author:      author,
		Description: validator.SanitizeString(req.Description, 2000),
		Available:   true,
	}

	if err := h.bookRepo.Create(c.Request().Context(), book); err != nil {
		return response.InternalError(c, "failed to create book")
	}

	return response.Created(c, book)
}

// Update handles PATCH /api/books/:id, owner only
func (h *BookHandler) Update(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid book ID")
	}

	book, err := h.getOwnedBook(c.Request().Context(), uint(id), accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "book not found")
		}
		return response.InternalError(c, "failed to get book")
	}

	var req UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if req.Title != nil {
		title := validator.SanitizeString(*req.Title, 200)
		if title == "" {
			return response.BadRequest(c, "title cannot be empty")
		}
		book.Title = title
	}
	if req.Author != nil {
		author := validator.SanitizeString(*req.Author, 200)
		if author == "" {
			return response.BadRequest(c, "author cannot be empty")
		}
		book.Author = author
	}
	if req.Description != nil {
		book.Description = validator.SanitizeString(*req.Description, 2000)
	}
	if req.Available != nil {
		book.Available = *req.Available
	}

	if err := h.bookRepo.Update(c.Request().Context(), book); err != nil {
		return response.InternalError(c, "failed to update book")
	}

	return response.Success(c, book)
}

// UploadCover handles POST /api/books/:id/cover, owner only
func (h *BookHandler) UploadCover(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid book ID")
	}

	book, err := h.getOwnedBook(c.Request().Context(), uint(id), accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "book not found")
		}
		return response.InternalError(c, "failed to get book")
	}

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		return response.BadRequest(c, "cover file is required")
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

	coverRef, err := h.fileStorage.Save(fileHeader.Filename, src)
	if err != nil {
		return response.InternalError(c, "failed to store cover")
	}

	previous := book.CoverRef
	book.CoverRef = coverRef
	if err := h.bookRepo.Update(c.Request().Context(), book); err != nil {
		_ = h.fileStorage.Delete(coverRef)
		return response.InternalError(c, "failed to update book")
	}

	if previous != "" {
		_ = h.fileStorage.Delete(previous)
	}

	return response.Success(c, book)
}

// Delete handles DELETE /api/books/:id, owner only. A delete of someone
// else's book reports not found rather than forbidden.
func (h *BookHandler) Delete(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid book ID")
	}

	book, err := h.bookRepo.GetByID(c.Request().Context(), uint(id))
	coverRef := ""
	if err == nil {
		coverRef = book.CoverRef
	}

	if err := h.bookRepo.DeleteOwned(c.Request().Context(), uint(id), accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "book not found")
		}
		return response.InternalError(c, "failed to delete book")
	}

	if coverRef != "" {
		_ = h.fileStorage.Delete(coverRef)
	}

	return response.NoContent(c)
}

// getOwnedBook loads a book and verifies ownership. Non-owners get the
// same not-found as a missing book.
func (h *BookHandler) getOwnedBook(ctx context.Context, id, accountID uint) (*models.Book, error) {
	book, err := h.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.OwnerID != accountID {
		return nil, repository.ErrNotFound
	}
	return book, nil
}

// paginationParams reads and clamps limit/offset query parameters
func paginationParams(c echo.Context) (int, int) {
	limit := validator.DefaultLimit
	offset := 0

	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil {
			offset = parsed
		}
	}

	return validator.ValidatePagination(limit, offset)
}
