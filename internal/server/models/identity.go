package models

// Identity is what the access guard attaches to an authenticated request.
type Identity struct {
	ID       int64
	Username string
}
