package models

import (
	"gorm.io/gorm"
)

// Message is one direct message between two users. Immutable once
// created, except for the read flag. The conversation it belongs to is
// the unordered pair {SenderID, ReceiverID}.
type Message struct {
	gorm.Model
	SenderID   uint          `gorm:"not null;index:idx_messages_sender" json:"sender_id"`
	ReceiverID uint          `gorm:"not null;index:idx_messages_receiver" json:"receiver_id"`
	Content    string        `json:"content"`
	Read       bool          `gorm:"default:false" json:"read"`
	Files      []MessageFile `json:"files"`
}
