// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an identity record. MiddleName is "" when not given and stored as NULL.
type User struct {
	ID           int64
	FirstName    string
	MiddleName   string
	LastName     string
	UserName     string
	PasswordHash string
	// TokenVersion is embedded in access tokens; bumping it revokes them all.
	TokenVersion int64
	CreatedAt    time.Time
}

// Profile is the part of User that may leave the server.
type Profile struct {
	ID         int64
	FirstName  string
	MiddleName string
	LastName   string
	UserName   string
}

func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		FirstName:  u.FirstName,
		MiddleName: u.MiddleName,
		LastName:   u.LastName,
		UserName:   u.UserName,
	}
}
