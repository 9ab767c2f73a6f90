package models

import (
	"time"
)

// Account represents a registered user of the exchange platform
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DisplayName  string    `gorm:"not null;size:100;index" json:"display_name"`
	Email        string    `gorm:"not null;size:255;index" json:"email"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	FirstName    string    `gorm:"size:100" json:"first_name,omitempty"`
	LastName     string    `gorm:"size:100" json:"last_name,omitempty"`
	AvatarRef    string    `gorm:"size:500" json:"avatar_ref,omitempty"`
	Active       bool      `gorm:"default:true;index" json:"active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Books []Book `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// PublicProfile is the subset of account data visible to other users
type PublicProfile struct {
	ID          uint      `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarRef   string    `json:"avatar_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	BookCount   int64     `json:"book_count"`
}

// PublicIdentity is the minimal presentation data used to annotate
// conversation entries (the "account directory" projection).
type PublicIdentity struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref,omitempty"`
}

// Identity returns the account's public identity projection
func (a *Account) Identity() PublicIdentity {
	return PublicIdentity{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		AvatarRef:   a.AvatarRef,
	}
}
