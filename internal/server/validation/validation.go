// Package validation holds the syntactic rules for names, usernames,
// passwords and todo input. Every failure is a *common.ValidationError whose
// Message is safe to return to the client as is.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

const (
	MsgSignupRequired  = "first_name, last_name, username, and password are required"
	MsgNameFormat      = "Names must contain only letters, spaces, or hyphens (2–50 characters)"
	MsgUsernameFormat  = "Username must be 3–20 characters long and contain only letters, numbers, or underscores"
	MsgPasswordFormat  = "Password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character (#?!@$%^&*.-_)"
	MsgLoginRequired   = "username and password are required"
	MsgLoginUsername   = "Invalid username format"
	MsgLoginPassword   = "Password format invalid. It must be at least 8 characters long and contain uppercase, lowercase, number, and special character (#?!@$%^&*.-_)"
	MsgProfileRequired = "first_name and last_name are required"
	MsgPasswordsNeeded = "oldPassword and newPassword are required"
	MsgPasswordTooLong = "Password must be at most 72 bytes long"
	MsgTaskInvalid     = "Invalid task or completed value"
)

// PasswordSpecials are the characters that satisfy the special-character rule.
const PasswordSpecials = "#?!@$%^&*.-_"

// MaxPasswordBytes is the longest input bcrypt will hash.
const MaxPasswordBytes = 72

var (
	nameRe     = regexp.MustCompile(`^[A-Za-z\s-]{2,50}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
)

func IsValidName(s string) bool {
	return nameRe.MatchString(s)
}

func IsValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// IsValidPassword: at least 8 characters and at most MaxPasswordBytes bytes,
// none of them a line break, with at least one lowercase, one uppercase, one
// digit and one of PasswordSpecials.
func IsValidPassword(s string) bool {
	if utf8.RuneCountInString(s) < 8 || len(s) > MaxPasswordBytes {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029':
			return false
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// Signup checks presence first, then names, username and password, and
// reports the first rule broken.
func Signup(first, middle, last, username, password string) error {
	if first == "" || last == "" || username == "" || password == "" {
		return common.NewValidationError("fields", MsgSignupRequired)
	}
	if err := Names(first, middle, last); err != nil {
		return err
	}
	if !IsValidUsername(username) {
		return common.NewValidationError("username", MsgUsernameFormat)
	}
	return Password("password", password)
}

// Password reports a new password that cannot be stored under field.
func Password(field, password string) error {
	if len(password) > MaxPasswordBytes {
		return common.NewValidationError(field, MsgPasswordTooLong)
	}
	if !IsValidPassword(password) {
		return common.NewValidationError(field, MsgPasswordFormat)
	}
	return nil
}

// Names validates a full name; an empty middle name is allowed.
func Names(first, middle, last string) error {
	if !IsValidName(first) {
		return common.NewValidationError("first_name", MsgNameFormat)
	}
	if middle != "" && !IsValidName(middle) {
		return common.NewValidationError("middle_name", MsgNameFormat)
	}
	if !IsValidName(last) {
		return common.NewValidationError("last_name", MsgNameFormat)
	}
	return nil
}

func Login(username, password string) error {
	if username == "" || password == "" {
		return common.NewValidationError("fields", MsgLoginRequired)
	}
	if !IsValidUsername(username) {
		return common.NewValidationError("username", MsgLoginUsername)
	}
	if !IsValidPassword(password) {
		return common.NewValidationError("password", MsgLoginPassword)
	}
	return nil
}

func Task(task string) error {
	if strings.TrimSpace(task) == "" {
		return common.NewValidationError("task", MsgTaskInvalid)
	}
	return nil
}
