package store

import (
	"context"
	"time"

	"github.com/datallboy/toolfetch/internal/domain"
	"github.com/datallboy/toolfetch/internal/infra/logger"
)

const recordTimeout = 5 * time.Second

// Recorder is an event sink that writes every event to the session log.
// Write failures are logged and otherwise ignored.
type Recorder struct {
	store  *PersistentStore
	logger *logger.Logger
	now    func() time.Time
}

func NewRecorder(s *PersistentStore, log *logger.Logger) *Recorder {
	return &Recorder{store: s, logger: log.Named("store"), now: time.Now}
}

func (r *Recorder) OnStarted(url string) {
	r.record(domain.Event{Kind: domain.EventStarted, URL: url})
}

func (r *Recorder) OnOutput(url, text string) {
	r.record(domain.Event{Kind: domain.EventOutput, URL: url, Text: text})
}

func (r *Recorder) OnFinished(url string) {
	r.record(domain.Event{Kind: domain.EventFinished, URL: url})
}

func (r *Recorder) record(ev domain.Event) {
	ev.At = r.now()

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if _, err := r.store.AppendEvent(ctx, ev); err != nil {
		r.logger.Warn("Could not record event for %s: %v", ev.URL, err)
	}
}
