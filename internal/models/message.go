package models

import (
	"time"
)

// Message represents a private message exchanged between two accounts.
// A message optionally references the book under discussion.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SenderID       uint      `gorm:"not null;index" json:"sender_id"`
	RecipientID    uint      `gorm:"not null;index" json:"recipient_id"`
	Body           string    `gorm:"not null" json:"body"`
	Read           bool      `gorm:"default:false" json:"read"`
	SentAt         time.Time `gorm:"autoCreateTime;index" json:"sent_at"`
	ExchangeBookID *uint     `gorm:"index" json:"exchange_book_id,omitempty"`

	// Relationships
	Sender       Account `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Recipient    Account `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
	ExchangeBook *Book   `gorm:"foreignKey:ExchangeBookID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// OtherParticipant returns the id of the conversation partner from the
// given viewer's perspective.
func (m *Message) OtherParticipant(viewerID uint) uint {
	if m.SenderID == viewerID {
		return m.RecipientID
	}
	return m.SenderID
}

// ConversationSummary is the computed per-partner entry of a viewer's
// conversation list. Conversations are never stored; this is a pure
// projection over the messages table.
type ConversationSummary struct {
	Other         PublicIdentity `json:"other"`
	LastMessageID uint           `json:"last_message_id"`
	LastBody      string         `json:"last_body"`
	LastSenderID  uint           `json:"last_sender_id"`
	LastSentAt    time.Time      `json:"last_sent_at"`
	Unread        bool           `json:"unread"`
	UnreadCount   int64          `json:"unread_count"`
}

// ThreadMessage is a message annotated for display inside a thread,
// classified from the viewer's perspective.
type ThreadMessage struct {
	ID             uint           `json:"id"`
	Body           string         `json:"body"`
	Read           bool           `json:"read"`
	SentAt         time.Time      `json:"sent_at"`
	ExchangeBookID *uint          `json:"exchange_book_id,omitempty"`
	Sender         PublicIdentity `json:"sender"`
	Mine           bool           `json:"mine"`
}
