package models

import "time"

type Todo struct {
	ID        int64
	UserID    int64
	Task      string
	Completed bool
	CreatedAt time.Time
}

// TodoStats summarises one user's list for the dashboard.
type TodoStats struct {
	Total     int
	Completed int
}

func (s TodoStats) Pending() int {
	return s.Total - s.Completed
}
