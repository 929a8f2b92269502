// Package cli holds terminal front ends for the download orchestrator.
package cli

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/datallboy/toolfetch/internal/parser"
)

// ProgressSink renders helper output for a single download as a progress bar
// and signals when the run is over.
type ProgressSink struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	percent int
	last    string
	started bool

	done chan struct{}
	once sync.Once
}

func NewProgressSink(w io.Writer) *ProgressSink {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Waiting..."),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &ProgressSink{bar: bar, done: make(chan struct{})}
}

func (s *ProgressSink) OnStarted(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	s.bar.Describe("Downloading")
}

func (s *ProgressSink) OnOutput(url, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = text

	if p, ok := parser.Progress(text); ok && p >= s.percent {
		s.percent = p
		_ = s.bar.Set(p)
	}
	s.bar.Describe(text)
}

func (s *ProgressSink) OnFinished(url string) {
	s.mu.Lock()
	_ = s.bar.Finish()
	s.mu.Unlock()
	s.Stop()
}

// Stop releases Done without a Finished event, e.g. after a rejected start
func (s *ProgressSink) Stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *ProgressSink) Done() <-chan struct{} {
	return s.done
}

// Last returns the most recent output line
func (s *ProgressSink) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *ProgressSink) Percent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.percent
}

func (s *ProgressSink) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}
