package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// ErrCancelled is returned by Launch when the run was cancelled before it started
var ErrCancelled = errors.New("download cancelled before launch")

// Handle is one external helper process bound to a download URL.
// A handle is running from the moment the registry reserves it until Wait returns.
type Handle struct {
	URL string

	mu        sync.Mutex
	path      string
	args      []string
	cmd       *exec.Cmd
	running   bool
	cancelled bool
	done      chan struct{}
}

func NewHandle(url string) *Handle {
	done := make(chan struct{})
	close(done)
	return &Handle{URL: url, done: done}
}

// Running reports whether the handle is reserved or its process has not been reaped
func (h *Handle) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// Cancelled reports whether Cancel was called during the current run
func (h *Handle) Cancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

func (h *Handle) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.path
}

func (h *Handle) Args() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.args))
	copy(out, h.args)
	return out
}

// Done is closed when the current run has been reaped
func (h *Handle) Done() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}

// reserve marks the handle running. It fails when a run is already active.
func (h *Handle) reserve() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return false
	}
	h.running = true
	h.cancelled = false
	h.cmd = nil
	h.done = make(chan struct{})
	return true
}

// Configure sets the executable and arguments for the next Launch
func (h *Handle) Configure(path string, args []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.path = path
	h.args = append([]string(nil), args...)
}

// Launch starts the configured process with stdout and stderr merged into
// the returned reader. The reader reaches EOF once every process holding the
// write end has exited. On error the reservation is released.
func (h *Handle) Launch(ctx context.Context) (io.ReadCloser, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return nil, errors.New("launch on unreserved handle")
	}
	if h.cancelled {
		h.unreserveLocked()
		return nil, ErrCancelled
	}
	if h.path == "" {
		h.unreserveLocked()
		return nil, errors.New("helper executable not configured")
	}

	cmd := exec.CommandContext(ctx, h.path, h.args...)
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcess(cmd.Process) }

	r, w, err := os.Pipe()
	if err != nil {
		h.unreserveLocked()
		return nil, fmt.Errorf("create output pipe: %w", err)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	err = cmd.Start()
	// The child holds its own copy of the write end
	w.Close()
	if err != nil {
		r.Close()
		h.unreserveLocked()
		return nil, err
	}

	h.cmd = cmd
	return r, nil
}

func (h *Handle) unreserveLocked() {
	h.running = false
	close(h.done)
}

// Terminate kills the process and its group. Safe to call repeatedly and
// after the process has exited.
func (h *Handle) Terminate() error {
	h.mu.Lock()
	cmd := h.cmd
	h.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := killProcess(cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// Cancel flags the run as cancelled and terminates it
func (h *Handle) Cancel() error {
	h.mu.Lock()
	h.cancelled = true
	h.mu.Unlock()
	return h.Terminate()
}

// Wait reaps the process and ends the run. The exit status is informational;
// callers rely on end of stream for completion.
func (h *Handle) Wait() error {
	h.mu.Lock()
	cmd := h.cmd
	h.mu.Unlock()

	var err error
	if cmd != nil {
		err = cmd.Wait()
	}

	h.mu.Lock()
	if h.running {
		h.running = false
		close(h.done)
	}
	h.mu.Unlock()
	return err
}
