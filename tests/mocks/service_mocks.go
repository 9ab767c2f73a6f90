package mocks

import (
	"context"

	"github.com/bookswap/bookswap-backend/internal/models"
	"github.com/bookswap/bookswap-backend/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockMessagingService implements services.MessagingService
type MockMessagingService struct {
	mock.Mock
}

// ListConversations produces the viewer's conversation list
func (m *MockMessagingService) ListConversations(ctx context.Context, viewerID uint) ([]models.ConversationSummary, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConversationSummary), args.Error(1)
}

// GetThread returns the thread between the viewer and the other account
func (m *MockMessagingService) GetThread(ctx context.Context, viewerID, otherID uint) ([]models.ThreadMessage, error) {
	args := m.Called(ctx, viewerID, otherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ThreadMessage), args.Error(1)
}

// HasConversation reports whether any message exists between the pair
func (m *MockMessagingService) HasConversation(ctx context.Context, accountA, accountB uint) (bool, error) {
	args := m.Called(ctx, accountA, accountB)
	return args.Bool(0), args.Error(1)
}

// Send validates and inserts a new message
func (m *MockMessagingService) Send(ctx context.Context, senderID, recipientID uint, body string, exchangeBookID *uint) (*models.Message, error) {
	args := m.Called(ctx, senderID, recipientID, body, exchangeBookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// MarkThreadRead marks the reader's unread messages from otherID as read
func (m *MockMessagingService) MarkThreadRead(ctx context.Context, readerID, otherID uint) (int64, error) {
	args := m.Called(ctx, readerID, otherID)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteMessage removes a message if the acting account is a participant
func (m *MockMessagingService) DeleteMessage(ctx context.Context, messageID, actingID uint) error {
	args := m.Called(ctx, messageID, actingID)
	return args.Error(0)
}

// CountUnreadTotal counts all unread messages addressed to the account
func (m *MockMessagingService) CountUnreadTotal(ctx context.Context, accountID uint) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// CountUnreadFrom counts unread messages from one specific sender
func (m *MockMessagingService) CountUnreadFrom(ctx context.Context, accountID, otherID uint) (int64, error) {
	args := m.Called(ctx, accountID, otherID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAccountService implements services.AccountService
type MockAccountService struct {
	mock.Mock
}

// Register creates a new account
func (m *MockAccountService) Register(ctx context.Context, input services.RegisterInput) (*models.Account, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// Authenticate verifies the credentials
func (m *MockAccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// GetAccount retrieves an active account by id
func (m *MockAccountService) GetAccount(ctx context.Context, id uint) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// GetProfile builds the public profile of an active account
func (m *MockAccountService) GetProfile(ctx context.Context, id uint) (*models.PublicProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicProfile), args.Error(1)
}

// UpdateProfile applies the provided mutations
func (m *MockAccountService) UpdateProfile(ctx context.Context, id uint, input services.UpdateProfileInput) (*models.Account, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// SetAvatar stores the new avatar reference
func (m *MockAccountService) SetAvatar(ctx context.Context, id uint, avatarRef string) (*models.Account, error) {
	args := m.Called(ctx, id, avatarRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// Deactivate soft-deletes the account
func (m *MockAccountService) Deactivate(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
