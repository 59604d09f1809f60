package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"noxsub/internal/backend"
	"noxsub/internal/caption"
	"noxsub/internal/logging"
	"noxsub/internal/media"
	"noxsub/internal/services"
)

// State identifies one phase of a transcription attempt.
type State string

const (
	StateIdle           State = "idle"
	StateConnecting     State = "connecting"
	StateUploading      State = "uploading"
	StateAwaitingResult State = "awaiting_result"
	StateSucceeded      State = "succeeded"
	StateFailed         State = "failed"
	StateCancelled      State = "cancelled"
)

// Terminal reports whether the state ends an attempt.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// Request describes one caption-generation attempt. Generation starts only on
// an explicit Start call, never because inputs changed.
type Request struct {
	Source   *media.Source
	Duration float64
	Language string
	Model    string
}

// Snapshot is a consistent view of controller state for the editing shell.
type Snapshot struct {
	State     State
	SessionID string
	Status    string
	Step      int
	HasStep   bool
	Percent   int
	Elapsed   int
	Err       string
	Captions  []caption.Caption
}

// Controller orchestrates a single caption-generation attempt at a time:
// connectivity check, upload, progress subscription, result parsing, and a
// terminal success/failure/cancel transition. Starting a new attempt tears
// the previous one down completely before any new effects become visible.
type Controller struct {
	client *backend.Client
	logger *slog.Logger

	mu        sync.Mutex
	gen       int
	state     State
	sessionID string
	status    string
	step      int
	hasStep   bool
	elapsed   int
	errMsg    string
	captions  []caption.Caption
	cancel    context.CancelFunc
	done      chan struct{}
}

// New constructs an idle controller.
func New(client *backend.Client, logger *slog.Logger) *Controller {
	return &Controller{
		client: client,
		logger: logging.NewComponentLogger(logger, "session"),
		state:  StateIdle,
	}
}

// Start begins a new attempt. Any prior non-terminal attempt is cancelled and
// fully torn down (network abort, subscription closed, ticker stopped) before
// this attempt's effects become visible.
func (c *Controller) Start(ctx context.Context, req Request) error {
	if req.Source == nil {
		return services.Wrap(services.ErrValidation, "session", "start", "video source required", nil)
	}
	if req.Duration <= 0 {
		return services.Wrap(services.ErrValidation, "session", "start", "video duration must be known before generating", nil)
	}
	if req.Language == "" || req.Model == "" {
		return services.Wrap(services.ErrValidation, "session", "start", "language and model must be selected", nil)
	}

	c.Cancel()
	if prev := c.Done(); prev != nil {
		<-prev
	}

	attemptCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	sessionID := uuid.NewString()

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = StateConnecting
	c.sessionID = sessionID
	c.status = "Checking backend connection..."
	c.step = 0
	c.hasStep = false
	c.elapsed = 0
	c.errMsg = ""
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	c.logger.Info("transcription attempt started",
		slog.String(logging.FieldSessionID, sessionID),
		slog.String("language", req.Language),
		slog.String("model", req.Model))

	go c.run(attemptCtx, cancel, gen, sessionID, req, done)
	return nil
}

// Cancel aborts the in-flight attempt, closes the progress subscription, and
// stops the elapsed ticker. It clears error state rather than setting it, and
// is a no-op when no attempt is active.
func (c *Controller) Cancel() {
	c.mu.Lock()
	if c.state.Terminal() || c.state == StateIdle || c.cancel == nil {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	c.state = StateCancelled
	c.errMsg = ""
	c.status = ""
	c.step = 0
	c.hasStep = false
	c.elapsed = 0
	sessionID := c.sessionID
	c.mu.Unlock()

	cancel()
	c.logger.Info("transcription attempt cancelled", slog.String(logging.FieldSessionID, sessionID))
}

// Done returns a channel closed once the current attempt's goroutines have
// fully stopped. A controller with no attempt returns a closed channel.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return c.done
}

// Snapshot returns a consistent view of the controller.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:     c.state,
		SessionID: c.sessionID,
		Status:    c.status,
		Step:      c.step,
		HasStep:   c.hasStep,
		Percent:   PercentFor(c.status, c.step, c.hasStep),
		Elapsed:   c.elapsed,
		Err:       c.errMsg,
		Captions:  caption.Clone(c.captions),
	}
}

// State returns the current controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, gen int, sessionID string, req Request, done chan struct{}) {
	var inner sync.WaitGroup
	defer close(done)
	defer inner.Wait()
	defer cancel()

	if err := c.client.Health(ctx); err != nil {
		c.finishFailure(gen, req.Duration, services.Wrap(services.ErrConnectivity, "session", "health check", "backend unreachable", err))
		return
	}

	if !c.setPhase(gen, StateUploading, "Reading video...") {
		return
	}

	file, err := os.Open(req.Source.Path)
	if err != nil {
		c.finishFailure(gen, req.Duration, services.Wrap(services.ErrTransfer, "session", "read video", fmt.Sprintf("open %q", req.Source.Path), err))
		return
	}
	defer file.Close()

	// Elapsed-seconds ticker, stopped with the attempt context.
	inner.Add(1)
	go func() {
		defer inner.Done()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.addElapsed(gen)
			}
		}
	}()

	// Progress subscription keyed by the session id. Failures degrade to a
	// generic processing message, never to a workflow failure.
	inner.Add(1)
	go func() {
		defer inner.Done()
		err := c.client.StreamStatus(ctx, sessionID, func(ev backend.ProgressEvent) {
			c.applyProgress(gen, ev)
		})
		if err != nil && ctx.Err() == nil {
			c.logger.Debug("progress stream unavailable", slog.String(logging.FieldSessionID, sessionID), slog.Any("error", err))
			c.applyProgress(gen, backend.ProgressEvent{Status: "Processing transcription..."})
		}
	}()

	if !c.setPhase(gen, StateUploading, "Uploading video for transcription...") {
		return
	}

	call, err := c.client.BeginTranscription(ctx, backend.TranscribeRequest{
		Video:     file,
		Filename:  req.Source.Filename,
		Model:     req.Model,
		Language:  req.Language,
		SessionID: sessionID,
	})
	if err != nil {
		c.finishFailure(gen, req.Duration, services.Wrap(services.ErrTransfer, "session", "upload", "transcription upload failed", err))
		return
	}

	if !c.setPhase(gen, StateAwaitingResult, "Waiting for transcription result...") {
		_ = call.Close()
		return
	}

	parsed, err := call.Result()
	if err != nil {
		c.finishFailure(gen, req.Duration, services.Wrap(services.ErrParse, "session", "parse result", "transcription result unreadable", err))
		return
	}

	status := "Transcription complete"
	if len(parsed) == 0 {
		// Soft-fail: an empty result is a success with a seeded caption so
		// the editing surface is never empty.
		parsed = []caption.Caption{caption.Placeholder(req.Duration)}
		status = "Transcription produced no results"
	}
	c.finishSuccess(gen, parsed, status)
}

func (c *Controller) setPhase(gen int, state State, status string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.state.Terminal() {
		return false
	}
	c.state = state
	c.status = status
	return true
}

func (c *Controller) applyProgress(gen int, ev backend.ProgressEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.state.Terminal() {
		return
	}
	if ev.Status != "" {
		c.status = ev.Status
	}
	c.step = ev.Step
	c.hasStep = ev.HasStep
}

func (c *Controller) addElapsed(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.state.Terminal() {
		return
	}
	c.elapsed++
}

func (c *Controller) finishSuccess(gen int, captions []caption.Caption, status string) {
	c.mu.Lock()
	if gen != c.gen || c.state.Terminal() {
		c.mu.Unlock()
		return
	}
	c.state = StateSucceeded
	c.captions = caption.Clone(captions)
	c.status = status
	c.errMsg = ""
	sessionID := c.sessionID
	count := len(captions)
	c.mu.Unlock()

	c.logger.Info("transcription succeeded",
		slog.String(logging.FieldSessionID, sessionID),
		slog.Int("captions", count))
}

func (c *Controller) finishFailure(gen int, duration float64, err error) {
	c.mu.Lock()
	if gen != c.gen || c.state.Terminal() {
		c.mu.Unlock()
		return
	}
	if errors.Is(err, context.Canceled) {
		// The surrounding context died without an explicit Cancel call.
		// Treat it as a cancellation, not a failure.
		c.state = StateCancelled
		c.errMsg = ""
		c.status = ""
		c.step = 0
		c.hasStep = false
		c.elapsed = 0
		c.mu.Unlock()
		return
	}
	c.state = StateFailed
	c.errMsg = err.Error()
	c.status = ""
	// Usability fallback: seed one caption so editing can proceed.
	c.captions = []caption.Caption{caption.Placeholder(duration)}
	sessionID := c.sessionID
	c.mu.Unlock()

	c.logger.Warn("transcription failed",
		slog.String(logging.FieldSessionID, sessionID),
		slog.Any("error", err))
}
