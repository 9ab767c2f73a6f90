package models

import (
	"time"
)

// Book represents a book listed for exchange by its owner
type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Author      string    `gorm:"not null;size:255" json:"author"`
	Description string    `json:"description,omitempty"`
	CoverRef    string    `gorm:"size:500" json:"cover_ref,omitempty"`
	Available   bool      `gorm:"default:true;index" json:"available"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Owner Account `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Book
func (Book) TableName() string {
	return "books"
}

// BookWithOwner is a list projection that carries the owner's display name
type BookWithOwner struct {
	ID               uint      `json:"id"`
	OwnerID          uint      `json:"owner_id"`
	Title            string    `json:"title"`
	Author           string    `json:"author"`
	Description      string    `json:"description,omitempty"`
	CoverRef         string    `json:"cover_ref,omitempty"`
	Available        bool      `json:"available"`
	CreatedAt        time.Time `json:"created_at"`
	OwnerDisplayName string    `json:"owner_display_name"`
	OwnerAvatarRef   string    `json:"owner_avatar_ref,omitempty"`
}
