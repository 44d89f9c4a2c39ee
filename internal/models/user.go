package models

import (
	"time"

	"gorm.io/gorm"
)

// PermissionSet maps a campus module name to the access levels the
// account holds on it.
type PermissionSet map[string][]string

// HasAccess reports whether the set grants the given level on a module.
func (ps PermissionSet) HasAccess(module, level string) bool {
	for _, granted := range ps[module] {
		if granted == level {
			return true
		}
	}
	return false
}

// User is a campus account. Accounts are owned by the account import
// subsystem; the chat core only reads them.
type User struct {
	gorm.Model
	FirstName    string        `gorm:"not null" json:"first_name"`
	LastName     string        `gorm:"not null" json:"last_name"`
	ProfilePhoto *string       `json:"profile_photo"`
	Email        string        `gorm:"unique;not null" json:"email"`
	PasswordHash string        `gorm:"not null" json:"-"`
	Password     string        `gorm:"-" json:"password,omitempty"`
	Permissions  PermissionSet `gorm:"serializer:json" json:"permissions"`
	CampusWide   bool          `gorm:"default:false" json:"campus_wide"`
	LastSeen     *time.Time    `json:"last_seen"`
}

func (user *User) ToUserResponse() *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		ProfilePhoto: user.ProfilePhoto,
		CampusWide:   user.CampusWide,
		LastSeen:     user.LastSeen,
	}
}
