package models

import "time"

// User represents a registered account. It exists so links can be
// owner-scoped; credential handling lives in the auth package.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `gorm:"not null" json:"name"`

	Links []Link `gorm:"foreignKey:UserID" json:"links,omitempty"`
}
