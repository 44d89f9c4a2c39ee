package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the session token payload: the account id that the chat
// routes trust, plus the display fields the client shows while the
// directory entry is still loading.
type Claims struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	jwt.RegisteredClaims
}
