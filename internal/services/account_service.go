package services

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/bookswap/bookswap-backend/internal/errors"
	"github.com/bookswap/bookswap-backend/internal/models"
	"github.com/bookswap/bookswap-backend/internal/repository"
	"github.com/bookswap/bookswap-backend/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries the fields of a registration request
type RegisterInput struct {
	DisplayName string
	Email       string
	Password    string
	FirstName   string
	LastName    string
}

// UpdateProfileInput carries profile mutations; nil fields stay unchanged
type UpdateProfileInput struct {
	DisplayName *string
	Email       *string
	FirstName   *string
	LastName    *string
	Password    *string
}

// AccountService handles registration, authentication and profile updates
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*models.Account, error)
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
	GetAccount(ctx context.Context, id uint) (*models.Account, error)
	GetProfile(ctx context.Context, id uint) (*models.PublicProfile, error)
	UpdateProfile(ctx context.Context, id uint, input UpdateProfileInput) (*models.Account, error)
	SetAvatar(ctx context.Context, id uint, avatarRef string) (*models.Account, error)
	Deactivate(ctx context.Context, id uint) error
}

// accountService implements AccountService
type accountService struct {
	accounts repository.AccountRepository
	books    repository.BookRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts repository.AccountRepository, books repository.BookRepository) AccountService {
	return &accountService{accounts: accounts, books: books}
}

// Register validates the input, enforces display-name and email uniqueness
// among active accounts and creates the account with a bcrypt credential.
func (s *accountService) Register(ctx context.Context, input RegisterInput) (*models.Account, error) {
	displayName := strings.TrimSpace(input.DisplayName)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if err := validator.ValidateDisplayName(displayName); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, err.Error(), apperrors.CodeValidation)
	}
	if err := validator.ValidateEmail(email); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, err.Error(), apperrors.CodeValidation)
	}
	if err := validator.ValidatePassword(input.Password); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, err.Error(), apperrors.CodeValidation)
	}

	if taken, err := s.accounts.EmailTaken(ctx, email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.NewAppError(apperrors.ErrDuplicateEntry, "email is already registered", apperrors.CodeDuplicateEntry)
	}
	if taken, err := s.accounts.DisplayNameTaken(ctx, displayName, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.NewAppError(apperrors.ErrDuplicateEntry, "display name is already taken", apperrors.CodeDuplicateEntry)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	account := &models.Account{
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    validator.SanitizeString(input.FirstName, 100),
		LastName:     validator.SanitizeString(input.LastName, 100),
		Active:       true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Authenticate verifies the credentials against the stored bcrypt hash.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *accountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	account, err := s.accounts.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return account, nil
}

// GetAccount retrieves an active account by id
func (s *accountService) GetAccount(ctx context.Context, id uint) (*models.Account, error) {
	account, err := s.accounts.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// GetProfile builds the public profile of an active account
func (s *accountService) GetProfile(ctx context.Context, id uint) (*models.PublicProfile, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	bookCount, err := s.books.CountByOwner(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &models.PublicProfile{
		ID:          account.ID,
		DisplayName: account.DisplayName,
		AvatarRef:   account.AvatarRef,
		CreatedAt:   account.CreatedAt,
		BookCount:   bookCount,
	}, nil
}

// UpdateProfile applies the provided mutations after re-running the same
// validation and uniqueness checks as registration.
func (s *accountService) UpdateProfile(ctx context.Context, id uint, input UpdateProfileInput) (*models.Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		displayName := strings.TrimSpace(*input.DisplayName)
		if err := validator.ValidateDisplayName(displayName); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrValidation, err.Error(), apperrors.CodeValidation)
		}
		if taken, err := s.accounts.DisplayNameTaken(ctx, displayName, id); err != nil {
			return nil, err
		} else if taken {
			return nil, apperrors.NewAppError(apperrors.ErrDuplicateEntry, "display name is already taken", apperrors.CodeDuplicateEntry)
		}
		account.DisplayName = displayName
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if err := validator.ValidateEmail(email); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrValidation, err.Error(), apperrors.CodeValidation)
		}
		if taken, err := s.accounts.EmailTaken(ctx, email, id); err != nil {
			return nil, err
		} else if taken {
			return nil, apperrors.NewAppError(apperrors.ErrDuplicateEntry, "email is already registered", apperrors.CodeDuplicateEntry)
		}
		account.Email = email
	}

	if input.FirstName != nil {
		account.FirstName = validator.SanitizeString(*input.FirstName, 100)
	}
	if input.LastName != nil {
		account.LastName = validator.SanitizeString(*input.LastName, 100)
	}

	if input.Password != nil {
		if err := validator.ValidatePassword(*input.Password); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrValidation, err.Error(), apperrors.CodeValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to hash password")
		}
		account.PasswordHash = string(hash)
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// SetAvatar stores the new avatar reference
func (s *accountService) SetAvatar(ctx context.Context, id uint, avatarRef string) (*models.Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	account.AvatarRef = avatarRef
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Deactivate soft-deletes the account; books and messages remain
func (s *accountService) Deactivate(ctx context.Context, id uint) error {
	err := s.accounts.Deactivate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrAccountNotFound
	}
	return err
}
