package models

import "time"

// Todo mirrors the server's todo view. Completed is 0 or 1 on the wire.
type Todo struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Task      string `json:"task"`
	Completed int    `json:"completed"`
}

func (t Todo) Done() bool {
	return t.Completed == 1
}

type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

type ExportLink struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}
