package mocks

import (
	"context"

	"github.com/bookswap/bookswap-backend/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository implements repository.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

// Create creates a new account
func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// GetByID retrieves an account by its ID regardless of active state
func (m *MockAccountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// GetActiveByID retrieves an active account by its ID
func (m *MockAccountRepository) GetActiveByID(ctx context.Context, id uint) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// GetActiveByEmail retrieves an active account by its email address
func (m *MockAccountRepository) GetActiveByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// GetByIDs retrieves accounts for a set of ids, keyed by id
func (m *MockAccountRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Account, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]models.Account), args.Error(1)
}

// EmailTaken reports whether an active account other than excludeID uses the email
func (m *MockAccountRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

// DisplayNameTaken reports whether an active account other than excludeID uses the name
func (m *MockAccountRepository) DisplayNameTaken(ctx context.Context, displayName string, excludeID uint) (bool, error) {
	args := m.Called(ctx, displayName, excludeID)
	return args.Bool(0), args.Error(1)
}

// Update saves changes to an existing account
func (m *MockAccountRepository) Update(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// Deactivate flips the active flag off
func (m *MockAccountRepository) Deactivate(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBookRepository implements repository.BookRepository
type MockBookRepository struct {
	mock.Mock
}

// Create creates a new book
func (m *MockBookRepository) Create(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

// GetByID retrieves a book by its ID
func (m *MockBookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

// GetWithOwner retrieves a book annotated with its owner's public identity
func (m *MockBookRepository) GetWithOwner(ctx context.Context, id uint) (*models.BookWithOwner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookWithOwner), args.Error(1)
}

// ListByOwner retrieves all books of one owner
func (m *MockBookRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Book, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) ListPublicByOwner(ctx context.Context, ownerID uint) ([]models.Book, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

// ListAvailable retrieves available books with pagination
func (m *MockBookRepository) ListAvailable(ctx context.Context, limit, offset int) ([]models.BookWithOwner, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.BookWithOwner), args.Get(1).(int64), args.Error(2)
}

// ListLatest retrieves the most recently listed available books
func (m *MockBookRepository) ListLatest(ctx context.Context, limit int) ([]models.BookWithOwner, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookWithOwner), args.Error(1)
}

// Search retrieves available books matching the term
func (m *MockBookRepository) Search(ctx context.Context, term string, limit, offset int) ([]models.BookWithOwner, int64, error) {
	args := m.Called(ctx, term, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.BookWithOwner), args.Get(1).(int64), args.Error(2)
}

// Update saves changes to an existing book
func (m *MockBookRepository) Update(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

// DeleteOwned deletes a book only if ownerID owns it
func (m *MockBookRepository) DeleteOwned(ctx context.Context, id, ownerID uint) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

// CountByOwner counts all books of one owner
func (m *MockBookRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockMessageRepository implements repository.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Create inserts a new message
func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// GetByID retrieves a message by its ID
func (m *MockMessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// ListInvolving retrieves every message the account sent or received
func (m *MockMessageRepository) ListInvolving(ctx context.Context, accountID uint) ([]models.Message, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// Thread retrieves every message between the pair
func (m *MockMessageRepository) Thread(ctx context.Context, accountA, accountB uint) ([]models.Message, error) {
	args := m.Called(ctx, accountA, accountB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// HasConversation reports whether any message exists between the pair
func (m *MockMessageRepository) HasConversation(ctx context.Context, accountA, accountB uint) (bool, error) {
	args := m.Called(ctx, accountA, accountB)
	return args.Bool(0), args.Error(1)
}

// MarkThreadRead marks unread messages from otherID as read
func (m *MockMessageRepository) MarkThreadRead(ctx context.Context, readerID, otherID uint) (int64, error) {
	args := m.Called(ctx, readerID, otherID)
	return args.Get(0).(int64), args.Error(1)
}

// CountUnread counts all unread messages addressed to the recipient
func (m *MockMessageRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

// CountUnreadFrom counts unread messages from one specific sender
func (m *MockMessageRepository) CountUnreadFrom(ctx context.Context, recipientID, senderID uint) (int64, error) {
	args := m.Called(ctx, recipientID, senderID)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteInvolving deletes a message if accountID is a participant
func (m *MockMessageRepository) DeleteInvolving(ctx context.Context, id, accountID uint) error {
	args := m.Called(ctx, id, accountID)
	return args.Error(0)
}
