// Package model defines domain entities for the application.
package model

import "time"

// SignupCredits is the starter balance granted to every new account.
const SignupCredits int64 = 1000

// User represents a dashboard account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	Credits      int64     `json:"credits"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserResponse is the minimal user shape exposed over HTTP.
type UserResponse struct {
	ID string `json:"id"`
}

// ToResponse converts a User to UserResponse.
func (u *User) ToResponse() UserResponse {
	return UserResponse{ID: u.ID}
}

// Session holds the identity asserted by a verified session token.
// This is injected into the request context by the auth middleware.
type Session struct {
	UserID string
	Email  string
}
