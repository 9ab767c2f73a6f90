package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookswap/bookswap-backend/internal/models"
	"gorm.io/gorm"
)

// BookRepository defines the interface for book data access
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	GetWithOwner(ctx context.Context, id uint) (*models.BookWithOwner, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Book, error)
	ListPublicByOwner(ctx context.Context, ownerID uint) ([]models.Book, error)
	ListAvailable(ctx context.Context, limit, offset int) ([]models.BookWithOwner, int64, error)
	ListLatest(ctx context.Context, limit int) ([]models.BookWithOwner, error)
	Search(ctx context.Context, term string, limit, offset int) ([]models.BookWithOwner, int64, error)
	Update(ctx context.Context, book *models.Book) error
	DeleteOwned(ctx context.Context, id, ownerID uint) error
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
}

// bookRepository implements BookRepository using GORM
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new BookRepository instance
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

const bookWithOwnerSelect = `
	SELECT
		b.id, b.owner_id, b.title, b.author, b.description, b.cover_ref,
		b.available, b.created_at,
		a.display_name AS owner_display_name,
		a.avatar_ref AS owner_avatar_ref
	FROM books b
	INNER JOIN accounts a ON b.owner_id = a.id
`

// Create creates a new book
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	result := r.db.WithContext(ctx).Create(book)
	if result.Error != nil {
		return fmt.Errorf("failed to create book: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a book by its ID
func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	result := r.db.WithContext(ctx).First(&book, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get book by ID: %w", result.Error)
	}
	return &book, nil
}

// GetWithOwner retrieves a book annotated with its owner's public identity
func (r *bookRepository) GetWithOwner(ctx context.Context, id uint) (*models.BookWithOwner, error) {
	var row models.BookWithOwner
	query := bookWithOwnerSelect + ` WHERE b.id = ? AND a.active = true LIMIT 1`
	result := r.db.WithContext(ctx).Raw(query, id).Scan(&row)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get book with owner: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &row, nil
}

// ListByOwner retrieves all books of one owner, newest first
func (r *bookRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Book, error) {
	var books []models.Book
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&books)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list books by owner: %w", result.Error)
	}
	return books, nil
}

// ListPublicByOwner retrieves the books visible on an account's public
// profile: available ones, and only while the owner is active
func (r *bookRepository) ListPublicByOwner(ctx context.Context, ownerID uint) ([]models.Book, error) {
	var books []models.Book
	result := r.db.WithContext(ctx).
		Joins("INNER JOIN accounts a ON books.owner_id = a.id").
		Where("books.owner_id = ? AND books.available = ? AND a.active = ?", ownerID, true, true).
		Order("books.created_at DESC").
		Find(&books)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list public books by owner: %w", result.Error)
	}
	return books, nil
}

// ListAvailable retrieves available books of active owners with pagination
func (r *bookRepository) ListAvailable(ctx context.Context, limit, offset int) ([]models.BookWithOwner, int64, error) {
	var total int64
	countQuery := r.db.WithContext(ctx).Model(&models.Book{}).
		Joins("INNER JOIN accounts a ON books.owner_id = a.id").
		Where("books.available = ? AND a.active = ?", true, true)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count available books: %w", err)
	}

	var rows []models.BookWithOwner
	query := bookWithOwnerSelect + `
		WHERE b.available = true AND a.active = true
		ORDER BY b.created_at DESC
		LIMIT ? OFFSET ?
	`
	if err := r.db.WithContext(ctx).Raw(query, limit, offset).Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list available books: %w", err)
	}
	return rows, total, nil
}

// ListLatest retrieves the most recently listed available books
func (r *bookRepository) ListLatest(ctx context.Context, limit int) ([]models.BookWithOwner, error) {
	var rows []models.BookWithOwner
	query := bookWithOwnerSelect + `
		WHERE b.available = true AND a.active = true
		ORDER BY b.created_at DESC
		LIMIT ?
	`
	if err := r.db.WithContext(ctx).Raw(query, limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list latest books: %w", err)
	}
	return rows, nil
}

// Search retrieves available books whose title or author matches the term
func (r *bookRepository) Search(ctx context.Context, term string, limit, offset int) ([]models.BookWithOwner, int64, error) {
	pattern := "%" + term + "%"

	var total int64
	countQuery := r.db.WithContext(ctx).Model(&models.Book{}).
		Joins("INNER JOIN accounts a ON books.owner_id = a.id").
		Where("books.available = ? AND a.active = ?", true, true).
		Where("books.title LIKE ? OR books.author LIKE ?", pattern, pattern)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	var rows []models.BookWithOwner
	query := bookWithOwnerSelect + `
		WHERE b.available = true AND a.active = true
		AND (b.title LIKE ? OR b.author LIKE ?)
		ORDER BY b.created_at DESC
		LIMIT ? OFFSET ?
	`
	if err := r.db.WithContext(ctx).Raw(query, pattern, pattern, limit, offset).Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search books: %w", err)
	}
	return rows, total, nil
}

// Update saves changes to an existing book
func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	result := r.db.WithContext(ctx).Save(book)
	if result.Error != nil {
		return fmt.Errorf("failed to update book: %w", result.Error)
	}
	return nil
}

// DeleteOwned deletes a book only if ownerID owns it. A delete of a
// missing book and a delete by a non-owner are both reported as not found.
func (r *bookRepository) DeleteOwned(ctx context.Context, id, ownerID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Book{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByOwner counts all books of one owner
func (r *bookRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Book{}).Where("owner_id = ?", ownerID).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count books: %w", result.Error)
	}
	return count, nil
}
