package store

import (
	"time"

	"github.com/datallboy/toolfetch/internal/domain"
)

// eventDBO maps to the download_events table
type eventDBO struct {
	ID        string `db:"id"`
	URL       string `db:"url"`
	Kind      string `db:"kind"`
	Message   string `db:"message"`
	CreatedAt int64  `db:"created_at"`
}

// Mapper: DBO to Domain LoggedEvent
func (e *eventDBO) ToDomain() domain.LoggedEvent {
	return domain.LoggedEvent{
		ID: e.ID,
		Event: domain.Event{
			Kind: domain.EventKind(e.Kind),
			URL:  e.URL,
			Text: e.Message,
			At:   time.Unix(0, e.CreatedAt).UTC(),
		},
	}
}

// Mapper: Domain Event to DBO
func (e *eventDBO) FromDomain(id string, ev domain.Event) {
	e.ID = id
	e.URL = ev.URL
	e.Kind = string(ev.Kind)
	e.Message = ev.Text

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	e.CreatedAt = at.UnixNano()
}
