package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/bookswap/bookswap-backend/internal/errors"
	"github.com/bookswap/bookswap-backend/internal/models"
	"github.com/bookswap/bookswap-backend/internal/repository"
	"github.com/bookswap/bookswap-backend/internal/validator"
)

// MessageNotifier receives new-message events for realtime delivery.
// The websocket hub implements it; a nil notifier disables push.
type MessageNotifier interface {
	NotifyNewMessage(recipientID uint, message *models.Message, sender models.PublicIdentity, unreadTotal int64)
}

// MessagingService is the conversation engine and messaging operation set.
// Conversations are a pure projection over the messages table: they appear
// the instant the first message between a pair is inserted and live as long
// as any message between the pair exists.
type MessagingService interface {
	ListConversations(ctx context.Context, viewerID uint) ([]models.ConversationSummary, error)
	GetThread(ctx context.Context, viewerID, otherID uint) ([]models.ThreadMessage, error)
	HasConversation(ctx context.Context, accountA, accountB uint) (bool, error)
	Send(ctx context.Context, senderID, recipientID uint, body string, exchangeBookID *uint) (*models.Message, error)
	MarkThreadRead(ctx context.Context, readerID, otherID uint) (int64, error)
	DeleteMessage(ctx context.Context, messageID, actingID uint) error
	CountUnreadTotal(ctx context.Context, accountID uint) (int64, error)
	CountUnreadFrom(ctx context.Context, accountID, otherID uint) (int64, error)
}

// messagingService implements MessagingService over the repositories
type messagingService struct {
	messages repository.MessageRepository
	accounts repository.AccountRepository
	books    repository.BookRepository
	notifier MessageNotifier
}

// NewMessagingService creates a new MessagingService. notifier may be nil.
func NewMessagingService(
	messages repository.MessageRepository,
	accounts repository.AccountRepository,
	books repository.BookRepository,
	notifier MessageNotifier,
) MessagingService {
	return &messagingService{
		messages: messages,
		accounts: accounts,
		books:    books,
		notifier: notifier,
	}
}

// ListConversations produces the viewer's conversation list, most recently
// active first. The partner of each message is computed here rather than in
// SQL: the repository returns the viewer's full message stream ordered
// sent_at DESC, id DESC, so the first message seen for a partner is that
// conversation's latest, and iteration order is already the required
// ordering of the list itself.
func (s *messagingService) ListConversations(ctx context.Context, viewerID uint) ([]models.ConversationSummary, error) {
	stream, err := s.messages.ListInvolving(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	order := make([]uint, 0)
	byPartner := make(map[uint]*models.ConversationSummary)

	for i := range stream {
		msg := &stream[i]
		partnerID := msg.OtherParticipant(viewerID)

		summary, seen := byPartner[partnerID]
		if !seen {
			summary = &models.ConversationSummary{
				Other:         models.PublicIdentity{ID: partnerID},
				LastMessageID: msg.ID,
				LastBody:      msg.Body,
				LastSenderID:  msg.SenderID,
				LastSentAt:    msg.SentAt,
				// Unread only counts messages directed at the viewer,
				// never messages the viewer sent
				Unread: !msg.Read && msg.SenderID == partnerID,
			}
			byPartner[partnerID] = summary
			order = append(order, partnerID)
		}

		if msg.RecipientID == viewerID && !msg.Read {
			summary.UnreadCount++
		}
	}

	identities, err := s.accounts.GetByIDs(ctx, order)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(order))
	for _, partnerID := range order {
		summary := byPartner[partnerID]
		if account, ok := identities[partnerID]; ok {
			summary.Other = account.Identity()
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// GetThread returns the full chronological thread between the viewer and
// the other account, each entry classified as self- or other-authored from
// the viewer's perspective. The sequence is identical for both viewers.
func (s *messagingService) GetThread(ctx context.Context, viewerID, otherID uint) ([]models.ThreadMessage, error) {
	messages, err := s.messages.Thread(ctx, viewerID, otherID)
	if err != nil {
		return nil, err
	}

	identities, err := s.accounts.GetByIDs(ctx, []uint{viewerID, otherID})
	if err != nil {
		return nil, err
	}

	thread := make([]models.ThreadMessage, 0, len(messages))
	for i := range messages {
		msg := &messages[i]

		sender := models.PublicIdentity{ID: msg.SenderID}
		if account, ok := identities[msg.SenderID]; ok {
			sender = account.Identity()
		}

		thread = append(thread, models.ThreadMessage{
			ID:             msg.ID,
			Body:           msg.Body,
			Read:           msg.Read,
			SentAt:         msg.SentAt,
			ExchangeBookID: msg.ExchangeBookID,
			Sender:         sender,
			Mine:           msg.SenderID == viewerID,
		})
	}
	return thread, nil
}

// HasConversation reports whether any message exists between the pair
func (s *messagingService) HasConversation(ctx context.Context, accountA, accountB uint) (bool, error) {
	return s.messages.HasConversation(ctx, accountA, accountB)
}

// Send validates and inserts a new message. The read flag starts false and
// the sent timestamp is server-assigned on insert. Validation failures are
// the caller's to correct; only the single insert can fail internally.
func (s *messagingService) Send(ctx context.Context, senderID, recipientID uint, body string, exchangeBookID *uint) (*models.Message, error) {
	if senderID == recipientID {
		return nil, apperrors.ErrSelfMessage
	}

	body = validator.SanitizeString(body, validator.MaxMessageBodyLength)
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.ErrEmptyBody
	}

	recipient, err := s.accounts.GetActiveByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrRecipientNotFound
		}
		return nil, err
	}

	if exchangeBookID != nil {
		if _, err := s.books.GetByID(ctx, *exchangeBookID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("exchange book %d: %w", *exchangeBookID, apperrors.ErrValidation)
			}
			return nil, err
		}
	}

	message := &models.Message{
		SenderID:       senderID,
		RecipientID:    recipient.ID,
		Body:           body,
		ExchangeBookID: exchangeBookID,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	s.notifyRecipient(ctx, message)

	return message, nil
}

// notifyRecipient pushes a realtime event to the recipient's connected
// clients. Push failure never fails the send.
func (s *messagingService) notifyRecipient(ctx context.Context, message *models.Message) {
	if s.notifier == nil {
		return
	}

	sender := models.PublicIdentity{ID: message.SenderID}
	if identities, err := s.accounts.GetByIDs(ctx, []uint{message.SenderID}); err == nil {
		if account, ok := identities[message.SenderID]; ok {
			sender = account.Identity()
		}
	}

	unreadTotal, err := s.messages.CountUnread(ctx, message.RecipientID)
	if err != nil {
		unreadTotal = 0
	}

	s.notifier.NotifyNewMessage(message.RecipientID, message, sender, unreadTotal)
}

// MarkThreadRead transitions the reader's unread messages from otherID to
// read and returns how many rows changed. Safe to repeat.
func (s *messagingService) MarkThreadRead(ctx context.Context, readerID, otherID uint) (int64, error) {
	return s.messages.MarkThreadRead(ctx, readerID, otherID)
}

// DeleteMessage removes a message if the acting account is a participant.
// Not-a-participant and no-such-message both come back as ErrMessageNotFound.
func (s *messagingService) DeleteMessage(ctx context.Context, messageID, actingID uint) error {
	err := s.messages.DeleteInvolving(ctx, messageID, actingID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrMessageNotFound
	}
	return err
}

// CountUnreadTotal counts all unread messages addressed to the account
func (s *messagingService) CountUnreadTotal(ctx context.Context, accountID uint) (int64, error) {
	return s.messages.CountUnread(ctx, accountID)
}

// CountUnreadFrom counts unread messages addressed to the account from one
// specific sender
func (s *messagingService) CountUnreadFrom(ctx context.Context, accountID, otherID uint) (int64, error) {
	return s.messages.CountUnreadFrom(ctx, accountID, otherID)
}
