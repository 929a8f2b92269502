package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/datallboy/toolfetch/internal/domain"
	"github.com/datallboy/toolfetch/internal/parser"
)

// StatusBoard keeps the single status line shown to the user plus the
// latest output of every running download. New messages overwrite old ones.
type StatusBoard struct {
	mu        sync.RWMutex
	last      string
	downloads map[string]*domain.DownloadStatus
	now       func() time.Time
}

func NewStatusBoard() *StatusBoard {
	return &StatusBoard{
		downloads: make(map[string]*domain.DownloadStatus),
		now:       time.Now,
	}
}

func (b *StatusBoard) OnStarted(url string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ts := b.now()
	b.downloads[url] = &domain.DownloadStatus{URL: url, StartedAt: ts, UpdatedAt: ts}
}

func (b *StatusBoard) OnOutput(url, text string) {
	if text == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = text

	d, ok := b.downloads[url]
	if !ok {
		return
	}
	d.Status = text
	d.UpdatedAt = b.now()
	if p, ok := parser.Progress(text); ok {
		d.Progress = p
		d.HasProgress = true
	}
}

func (b *StatusBoard) OnFinished(url string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.downloads, url)
}

// Last returns the most recent non-empty status line
func (b *StatusBoard) Last() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last
}

// SetStatus records a status not tied to a download (navigation, cookies)
func (b *StatusBoard) SetStatus(text string) {
	if text == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = text
}

// Downloads returns the running downloads ordered by start time
func (b *StatusBoard) Downloads() []domain.DownloadStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.DownloadStatus, 0, len(b.downloads))
	for _, d := range b.downloads {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].URL < out[j].URL
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}
