package handlers

import (
	"errors"
	"io"
	"mime"
	"path/filepath"

	"github.com/bookswap/bookswap-backend/internal/api/response"
	"github.com/bookswap/bookswap-backend/internal/logger"
	"github.com/bookswap/bookswap-backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// FileHandler serves stored covers and avatars
type FileHandler struct {
	fileStorage storage.FileStorage
	secLog      *logger.SecurityLogger
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(fileStorage storage.FileStorage, secLog *logger.SecurityLogger) *FileHandler {
	return &FileHandler{
		fileStorage: fileStorage,
		secLog:      secLog,
	}
}

// Serve handles GET /api/files/*. The wildcard path is the stored
// reference returned at upload time.
func (h *FileHandler) Serve(c echo.Context) error {
	filePath := c.Param("*")
	if filePath == "" {
		return response.BadRequest(c, "file path is required")
	}

	file, err := h.fileStorage.Get(filePath)
	if err != nil {
		if errors.Is(err, storage.ErrPathTraversal) {
			if h.secLog != nil {
				h.secLog.PathTraversalAttempt(c.RealIP(), c.Path(), filePath)
			}
			return response.BadRequest(c, "invalid file path")
		}
		if errors.Is(err, storage.ErrFileNotFound) {
			return response.NotFound(c, "file not found")
		}
		return response.InternalError(c, "failed to retrieve file")
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(filePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Response().Header().Set("Content-Type", contentType)
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := io.Copy(c.Response().Writer, file); err != nil {
		return response.InternalError(c, "failed to send file")
	}

	return nil
}
