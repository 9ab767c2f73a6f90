package fixtures

import (
	"fmt"
	"time"

	"github.com/bookswap/bookswap-backend/internal/models"
)

// AccountBuilder creates test Account instances with fluent API
type AccountBuilder struct {
	account models.Account
}

// NewAccountBuilder creates a new AccountBuilder with sensible defaults
func NewAccountBuilder() *AccountBuilder {
	return &AccountBuilder{
		account: models.Account{
			ID:           1,
			DisplayName:  "alice",
			Email:        "alice@example.com",
			PasswordHash: "$2a$10$fixturehash",
			Active:       true,
			CreatedAt:    time.Now(),
		},
	}
}

// WithID sets the account ID
func (b *AccountBuilder) WithID(id uint) *AccountBuilder {
	b.account.ID = id
	return b
}

// WithDisplayName sets the display name
func (b *AccountBuilder) WithDisplayName(name string) *AccountBuilder {
	b.account.DisplayName = name
	return b
}

// WithEmail sets the email address
func (b *AccountBuilder) WithEmail(email string) *AccountBuilder {
	b.account.Email = email
	return b
}

// WithActive sets the active status
func (b *AccountBuilder) WithActive(active bool) *AccountBuilder {
	b.account.Active = active
	return b
}

// WithAvatarRef sets the avatar file reference
func (b *AccountBuilder) WithAvatarRef(ref string) *AccountBuilder {
	b.account.AvatarRef = ref
	return b
}

// Build returns the constructed Account
func (b *AccountBuilder) Build() *models.Account {
	return &b.account
}

// BuildValue returns the constructed Account as a value (not pointer)
func (b *AccountBuilder) BuildValue() models.Account {
	return b.account
}

// BookBuilder creates test Book instances with fluent API
type BookBuilder struct {
	book models.Book
}

// NewBookBuilder creates a new BookBuilder with sensible defaults
func NewBookBuilder() *BookBuilder {
	return &BookBuilder{
		book: models.Book{
			ID:        1,
			OwnerID:   1,
			Title:     "The Go Programming Language",
			Author:    "Donovan & Kernighan",
			Available: true,
			CreatedAt: time.Now(),
		},
	}
}

// WithID sets the book ID
func (b *BookBuilder) WithID(id uint) *BookBuilder {
	b.book.ID = id
	return b
}

// WithOwnerID sets the owner account ID
func (b *BookBuilder) WithOwnerID(ownerID uint) *BookBuilder {
	b.book.OwnerID = ownerID
	return b
}

// WithTitle sets the book title
func (b *BookBuilder) WithTitle(title string) *BookBuilder {
	b.book.Title = title
	return b
}

// WithAuthor sets the book author
func (b *BookBuilder) WithAuthor(author string) *BookBuilder {
	b.book.Author = author
	return b
}

// WithAvailable sets the availability flag
func (b *BookBuilder) WithAvailable(available bool) *BookBuilder {
	b.book.Available = available
	return b
}

// Build returns the constructed Book
func (b *BookBuilder) Build() *models.Book {
	return &b.book
}

// BuildValue returns the constructed Book as a value (not pointer)
func (b *BookBuilder) BuildValue() models.Book {
	return b.book
}

// MessageBuilder creates test Message instances with fluent API
type MessageBuilder struct {
	message models.Message
}

// NewMessageBuilder creates a new MessageBuilder with sensible defaults
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{
		message: models.Message{
			ID:          1,
			SenderID:    1,
			RecipientID: 2,
			Body:        "hello",
			Read:        false,
			SentAt:      time.Now(),
		},
	}
}

// WithID sets the message ID
func (b *MessageBuilder) WithID(id uint) *MessageBuilder {
	b.message.ID = id
	return b
}

// WithParticipants sets sender and recipient
func (b *MessageBuilder) WithParticipants(senderID, recipientID uint) *MessageBuilder {
	b.message.SenderID = senderID
	b.message.RecipientID = recipientID
	return b
}

// WithBody sets the message body
func (b *MessageBuilder) WithBody(body string) *MessageBuilder {
	b.message.Body = body
	return b
}

// WithRead sets the read status
func (b *MessageBuilder) WithRead(read bool) *MessageBuilder {
	b.message.Read = read
	return b
}

// WithSentAt sets the sent timestamp
func (b *MessageBuilder) WithSentAt(t time.Time) *MessageBuilder {
	b.message.SentAt = t
	return b
}

// WithExchangeBookID sets the referenced exchange book
func (b *MessageBuilder) WithExchangeBookID(bookID uint) *MessageBuilder {
	b.message.ExchangeBookID = &bookID
	return b
}

// Build returns the constructed Message
func (b *MessageBuilder) Build() *models.Message {
	return &b.message
}

// BuildValue returns the constructed Message as a value (not pointer)
func (b *MessageBuilder) BuildValue() models.Message {
	return b.message
}

// CreateAccounts creates a slice of accounts with sequential IDs
func CreateAccounts(count int) []models.Account {
	accounts := make([]models.Account, count)
	for i := 0; i < count; i++ {
		name := generateDisplayName(i)
		accounts[i] = NewAccountBuilder().
			WithID(uint(i + 1)).
			WithDisplayName(name).
			WithEmail(name + "@example.com").
			BuildValue()
	}
	return accounts
}

// CreateThread creates an alternating back-and-forth between two accounts,
// oldest first, one minute apart.
func CreateThread(accountA, accountB uint, count int) []models.Message {
	base := time.Now().Add(-time.Duration(count) * time.Minute)
	messages := make([]models.Message, count)
	for i := 0; i < count; i++ {
		sender, recipient := accountA, accountB
		if i%2 == 1 {
			sender, recipient = accountB, accountA
		}
		messages[i] = NewMessageBuilder().
			WithID(uint(i + 1)).
			WithParticipants(sender, recipient).
			WithBody(fmt.Sprintf("message %d", i+1)).
			WithSentAt(base.Add(time.Duration(i) * time.Minute)).
			BuildValue()
	}
	return messages
}

func generateDisplayName(index int) string {
	names := []string{"alice", "bob", "carol", "dave", "erin"}
	if index < len(names) {
		return names[index]
	}
	return fmt.Sprintf("%s%d", names[index%len(names)], index/len(names))
}
