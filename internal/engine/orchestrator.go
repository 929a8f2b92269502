package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/datallboy/toolfetch/internal/app"
	"github.com/datallboy/toolfetch/internal/auth"
	"github.com/datallboy/toolfetch/internal/domain"
	"github.com/datallboy/toolfetch/internal/infra/logger"
	"github.com/datallboy/toolfetch/internal/parser"
	"github.com/datallboy/toolfetch/internal/platform"
	"github.com/datallboy/toolfetch/internal/process"
)

// maxLineSize bounds a single helper output line
const maxLineSize = 1024 * 1024

var errShuttingDown = errors.New("orchestrator is shutting down")

// Orchestrator runs one external helper process per download URL and
// reports its lifecycle to an event sink.
type Orchestrator struct {
	logger   *logger.Logger
	helpers  platform.Helpers
	tokens   *auth.TokenStore
	registry *process.Registry
	sink     domain.EventSink

	maxRuntime     time.Duration
	downgradeHTTPS bool

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewOrchestrator builds the orchestrator from the shared app context.
// All events are delivered to sink.
func NewOrchestrator(app *app.Context, sink domain.EventSink) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	if sink == nil {
		sink = Sinks{}
	}

	return &Orchestrator{
		logger:         app.Logger.Named("engine"),
		helpers:        app.Helpers,
		tokens:         app.Tokens,
		registry:       process.NewRegistry(),
		sink:           sink,
		maxRuntime:     app.Config.Helper.MaxRuntime,
		downgradeHTTPS: app.Config.Helper.DowngradeHTTPS,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// StartDownload launches the helper for url. An empty url counts as absent.
// Every outcome is reported to the sink; the returned error repeats the
// failure for callers that need it.
func (o *Orchestrator) StartDownload(source domain.Source, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		o.sink.OnOutput("", domain.StatusURLNotFound)
		return domain.ErrMissingURL
	}

	target := o.normalize(url)

	path, err := o.helpers.Resolve(source)
	if err != nil {
		return o.launchFailed(target, err)
	}

	var token string
	if source.RequiresToken {
		tok, ok := o.tokens.Get()
		if !ok || tok == "" {
			o.sink.OnOutput(target, domain.StatusAuthTokenNotFound)
			return fmt.Errorf("source %s: %w", source.ID, domain.ErrMissingAuthToken)
		}
		token = tok
	}
	args := o.helpers.Arguments(target, token)

	if !o.begin() {
		return o.launchFailed(target, errShuttingDown)
	}
	handedOff := false
	defer func() {
		if !handedOff {
			o.wg.Done()
		}
	}()

	// Lookup, create and running check are one atomic step
	h, err := o.registry.Acquire(target)
	if err != nil {
		o.logger.Debug("Rejected duplicate download: %s", target)
		o.sink.OnOutput(target, domain.StatusInProgress)
		return err
	}

	h.Configure(path, args)

	runCtx, cancel := o.runContext()
	stream, err := h.Launch(runCtx)
	if err != nil {
		cancel()
		o.registry.RemoveIf(target, h)
		if errors.Is(err, process.ErrCancelled) {
			return err
		}
		return o.launchFailed(target, err)
	}

	o.logger.Info("Download started: %s (%s)", target, source.ID)
	o.sink.OnStarted(target)

	handedOff = true
	go o.watch(runCtx, cancel, h, stream)

	return nil
}

// watch reads the merged output until end of stream, then reaps the
// process and evicts it. It owns cancel and the wait group slot.
func (o *Orchestrator) watch(ctx context.Context, cancel context.CancelFunc, h *process.Handle, stream io.ReadCloser) {
	defer o.wg.Done()
	defer cancel()
	defer stream.Close()

	sc := bufio.NewScanner(stream)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	sc.Split(parser.ScanLines)

	for sc.Scan() {
		if h.Cancelled() {
			continue
		}
		text := parser.Parse(sc.Text())
		if text == "" {
			continue
		}
		o.sink.OnOutput(h.URL, text)
	}
	if err := sc.Err(); err != nil {
		o.logger.Warn("Output of %s unreadable: %v", h.URL, err)
		_, _ = io.Copy(io.Discard, stream)
	}

	// End of stream: terminate stragglers and reap
	if err := h.Terminate(); err != nil {
		o.logger.Debug("Terminate %s: %v", h.URL, err)
	}
	waitErr := h.Wait()
	timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)

	o.registry.RemoveIf(h.URL, h)

	if h.Cancelled() {
		o.logger.Info("Download cancelled: %s", h.URL)
		return
	}

	if timedOut {
		o.logger.Warn("Download timed out after %s: %s", o.maxRuntime, h.URL)
		o.sink.OnOutput(h.URL, domain.StatusTimedOut)
	}

	if waitErr != nil {
		o.logger.Debug("Helper for %s exited: %v", h.URL, waitErr)
	}
	o.logger.Info("Download finished: %s", h.URL)
	o.sink.OnFinished(h.URL)
}

// Cancel terminates the run for url and suppresses its remaining events.
func (o *Orchestrator) Cancel(url string) error {
	target := o.normalize(strings.TrimSpace(url))

	h, ok := o.registry.Get(target)
	if !ok || !h.Running() {
		return fmt.Errorf("%s: %w", target, domain.ErrNotRunning)
	}

	o.registry.RemoveIf(target, h)
	if err := h.Cancel(); err != nil {
		return fmt.Errorf("cancel %s: %w", target, err)
	}
	return nil
}

// Active returns the URLs with a running helper
func (o *Orchestrator) Active() []string {
	var urls []string
	for _, u := range o.registry.URLs() {
		if h, ok := o.registry.Get(u); ok && h.Running() {
			urls = append(urls, u)
		}
	}
	return urls
}

// Shutdown cancels every run and waits for the readers to exit.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	for _, h := range o.registry.Handles() {
		_ = h.Cancel()
	}
	o.cancel()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// begin reserves a wait group slot unless shutdown has started
func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	o.wg.Add(1)
	return true
}

func (o *Orchestrator) runContext() (context.Context, context.CancelFunc) {
	if o.maxRuntime > 0 {
		return context.WithTimeout(o.ctx, o.maxRuntime)
	}
	return context.WithCancel(o.ctx)
}

func (o *Orchestrator) launchFailed(target string, err error) error {
	o.logger.Error("Failed to launch helper for %s: %v", target, err)
	o.sink.OnOutput(target, fmt.Sprintf("%s: %v", domain.StatusLaunchFailed, err))
	return fmt.Errorf("%w: %v", domain.ErrLaunchFailure, err)
}

// normalize applies the https to http rewrite the helper scripts expect.
// Only the scheme prefix is touched.
func (o *Orchestrator) normalize(url string) string {
	if !o.downgradeHTTPS {
		return url
	}
	if len(url) >= len("https://") && strings.EqualFold(url[:len("https://")], "https://") {
		return "http://" + url[len("https://"):]
	}
	return url
}
