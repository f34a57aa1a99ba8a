package models

import "time"

// AccountExport is the document written to object storage by a data export.
type AccountExport struct {
	ExportedAt time.Time
	Profile    Profile
	Todos      []*Todo
}

// ExportLink points the user at an uploaded export.
type ExportLink struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// ExportRecord remembers one object uploaded by Export.
type ExportRecord struct {
	ID         int64
	UserID     int64
	StorageKey string
	SizeBytes  int64
	CreatedAt  time.Time
}
