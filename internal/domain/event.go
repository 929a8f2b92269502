package domain

import "time"

type EventKind string

const (
	EventStarted  EventKind = "started"
	EventOutput   EventKind = "output"
	EventFinished EventKind = "finished"
)

// Event is a single lifecycle notification for a download.
// URL is empty for output events that are not tied to a URL (missing URL).
type Event struct {
	Kind EventKind `json:"kind"`
	URL  string    `json:"url,omitempty"`
	Text string    `json:"text,omitempty"`
	At   time.Time `json:"at"`
}

// EventSink receives download lifecycle notifications.
// For a single URL calls arrive as OnStarted, zero or more OnOutput, OnFinished.
// Methods are called from background goroutines and must be safe for concurrent use.
type EventSink interface {
	OnStarted(url string)
	OnOutput(url, text string)
	OnFinished(url string)
}
