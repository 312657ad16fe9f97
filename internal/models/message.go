package models

import "time"

// MaxMessageLength is the maximum number of characters in a warble.
const MaxMessageLength = 140

// Message represents a single warble: a short text post owned by one user.
// CreatedAt defaults to the insert time when not set explicitly.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"size:140;not null" json:"text"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Likes     []Like    `gorm:"foreignKey:MessageID" json:"likes,omitempty"`
}
