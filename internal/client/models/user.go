package models

import "strings"

type Profile struct {
	ID         int64   `json:"id"`
	FirstName  string  `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   string  `json:"last_name"`
	UserName   string  `json:"username"`
}

// FullName joins the non-empty name parts.
func (p Profile) FullName() string {
	parts := []string{p.FirstName}
	if p.MiddleName != nil && *p.MiddleName != "" {
		parts = append(parts, *p.MiddleName)
	}
	parts = append(parts, p.LastName)
	return strings.Join(parts, " ")
}

type Dashboard struct {
	Message string  `json:"message"`
	User    Profile `json:"user"`
	Stats   Stats   `json:"stats"`
}

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name"`
	UserName   string `json:"username"`
	Password   string `json:"password"`
}

// Session is what the CLI keeps on disk between invocations.
type Session struct {
	UserName     string `json:"username"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
