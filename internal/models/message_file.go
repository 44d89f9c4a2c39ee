package models

import (
	"gorm.io/gorm"
)

// MessageFile is attachment metadata owned by exactly one message. The
// bytes themselves live in the object store; this row only records where
// they are and what they look like.
type MessageFile struct {
	gorm.Model
	MessageID   uint   `gorm:"not null;index" json:"message_id"`
	Url         string `gorm:"not null" json:"url"`
	ContentType string `json:"content_type"`
	FileName    string `json:"file_name"`
	FileSize    int64  `json:"file_size"`
}
