package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookswap/bookswap-backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data access.
// Conversations have no table of their own; the ordering contracts below
// are what the conversation projection in the messaging service relies on.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	ListInvolving(ctx context.Context, accountID uint) ([]models.Message, error)
	Thread(ctx context.Context, accountA, accountB uint) ([]models.Message, error)
	HasConversation(ctx context.Context, accountA, accountB uint) (bool, error)
	MarkThreadRead(ctx context.Context, readerID, otherID uint) (int64, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	CountUnreadFrom(ctx context.Context, recipientID, senderID uint) (int64, error)
	DeleteInvolving(ctx context.Context, id, accountID uint) error
}

// messageRepository implements MessageRepository using GORM
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository instance
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a new message. Read state and sent timestamp are
// server-assigned (default false, autoCreateTime).
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	result := r.db.WithContext(ctx).Create(message)
	if result.Error != nil {
		return fmt.Errorf("failed to create message: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a message by its ID
func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	result := r.db.WithContext(ctx).First(&message, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message by ID: %w", result.Error)
	}
	return &message, nil
}

// ListInvolving retrieves every message the account sent or received,
// newest first. Ties on sent_at break on highest id so the first row per
// conversation partner is always the same message.
func (r *messageRepository) ListInvolving(ctx context.Context, accountID uint) ([]models.Message, error) {
	var messages []models.Message
	result := r.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", accountID, accountID).
		Order("sent_at DESC, id DESC").
		Find(&messages)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list messages: %w", result.Error)
	}
	return messages, nil
}

// Thread retrieves every message between the pair in either direction,
// in chronological chat order (oldest first). The result is identical for
// both orderings of the pair.
func (r *messageRepository) Thread(ctx context.Context, accountA, accountB uint) ([]models.Message, error) {
	var messages []models.Message
	result := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			accountA, accountB, accountB, accountA).
		Order("sent_at ASC, id ASC").
		Find(&messages)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get thread: %w", result.Error)
	}
	return messages, nil
}

// HasConversation reports whether at least one message exists between the
// pair in either direction
func (r *messageRepository) HasConversation(ctx context.Context, accountA, accountB uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			accountA, accountB, accountB, accountA).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check conversation: %w", result.Error)
	}
	return count > 0, nil
}

// MarkThreadRead transitions every unread message from otherID to readerID
// to read and returns the number of rows transitioned. Idempotent: the
// read = false predicate makes re-application update zero rows. Messages
// the reader sent are never touched.
func (r *messageRepository) MarkThreadRead(ctx context.Context, readerID, otherID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND read = ?", readerID, otherID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark thread read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CountUnread counts all unread messages addressed to the recipient
func (r *messageRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", result.Error)
	}
	return count, nil
}

// CountUnreadFrom counts unread messages addressed to the recipient from
// one specific sender
func (r *messageRepository) CountUnreadFrom(ctx context.Context, recipientID, senderID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND read = ?", recipientID, senderID, false).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", result.Error)
	}
	return count, nil
}

// DeleteInvolving hard-deletes a message only if accountID is its sender
// or recipient. Zero rows affected covers both "no such message" and "not
// a participant"; the two cases are deliberately indistinguishable.
func (r *messageRepository) DeleteInvolving(ctx context.Context, id, accountID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND (sender_id = ? OR recipient_id = ?)", id, accountID, accountID).
		Delete(&models.Message{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
