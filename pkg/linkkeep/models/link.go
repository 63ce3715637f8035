package models

import "time"

// Link represents a shortened URL owned by a single user.
//
// ShortCode is exactly 6 characters from [A-Za-z0-9], unique across all
// links, and never changes after creation. Links are hard-deleted: a soft
// delete would keep dead codes occupying the unique index forever.
type Link struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"not null" json:"name"`
	OriginalURL string    `gorm:"not null" json:"original_url"`
	ShortCode   string    `gorm:"uniqueIndex;not null" json:"short_code"`
	Description string    `json:"description"`
	Clicks      uint      `gorm:"default:0" json:"clicks"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
