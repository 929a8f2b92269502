package domain

import "time"

// DownloadStatus is the live view of one running download
type DownloadStatus struct {
	URL         string    `json:"url"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress"`
	HasProgress bool      `json:"has_progress"`
	StartedAt   time.Time `json:"started_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoggedEvent is an Event recorded in the session event log
type LoggedEvent struct {
	ID string `json:"id"`
	Event
}
