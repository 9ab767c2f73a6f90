package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookswap/bookswap-backend/internal/models"
	"gorm.io/gorm"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetActiveByID(ctx context.Context, id uint) (*models.Account, error)
	GetActiveByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Account, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	DisplayNameTaken(ctx context.Context, displayName string, excludeID uint) (bool, error)
	Update(ctx context.Context, account *models.Account) error
	Deactivate(ctx context.Context, id uint) error
}

// accountRepository implements AccountRepository using GORM
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).Create(account)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return fmt.Errorf("account '%s' already exists: %w", account.DisplayName, ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create account: %w", result.Error)
	}
	return nil
}

// GetByID retrieves an account by its ID regardless of active state
func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	result := r.db.WithContext(ctx).First(&account, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", result.Error)
	}
	return &account, nil
}

// GetActiveByID retrieves an active account by its ID
func (r *accountRepository) GetActiveByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	result := r.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", result.Error)
	}
	return &account, nil
}

// GetActiveByEmail retrieves an active account by its email address
func (r *accountRepository) GetActiveByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	result := r.db.WithContext(ctx).Where("email = ? AND active = ?", email, true).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by email: %w", result.Error)
	}
	return &account, nil
}

// GetByIDs retrieves accounts for a set of ids, keyed by id, regardless
// of active state. Deactivated accounts still annotate old conversations.
func (r *accountRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Account, error) {
	accounts := make(map[uint]models.Account, len(ids))
	if len(ids) == 0 {
		return accounts, nil
	}

	var rows []models.Account
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get accounts by IDs: %w", result.Error)
	}

	for _, a := range rows {
		accounts[a.ID] = a
	}
	return accounts, nil
}

// EmailTaken reports whether an active account other than excludeID uses the email
func (r *accountRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("email = ? AND active = ? AND id <> ?", email, true, excludeID).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check email: %w", result.Error)
	}
	return count > 0, nil
}

// DisplayNameTaken reports whether an active account other than excludeID uses the name
func (r *accountRepository) DisplayNameTaken(ctx context.Context, displayName string, excludeID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("display_name = ? AND active = ? AND id <> ?", displayName, true, excludeID).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check display name: %w", result.Error)
	}
	return count > 0, nil
}

// Update saves changes to an existing account
func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).Save(account)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	return nil
}

// Deactivate flips the active flag off. The row is kept so existing
// messages and books remain resolvable.
func (r *accountRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
