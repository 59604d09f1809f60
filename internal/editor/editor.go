package editor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"noxsub/internal/backend"
	"noxsub/internal/caption"
	"noxsub/internal/logging"
	"noxsub/internal/media"
	"noxsub/internal/preview"
	"noxsub/internal/project"
	"noxsub/internal/render"
	"noxsub/internal/services"
	"noxsub/internal/session"
)

// Editor is the editing shell for one project. It is the only writer of the
// caption array and the style; the session controller and render exporter
// feed it results but never mutate its state directly.
type Editor struct {
	store   *project.Store
	proj    *project.Project
	source  *media.Source
	session *session.Controller
	logger  *slog.Logger

	mu       sync.Mutex
	captions []caption.Caption
	style    caption.Style
}

// Open loads a project into an editing shell. A project whose duration is
// known but whose caption set is empty gets the placeholder caption so the
// editing surface is never blank.
func Open(store *project.Store, proj *project.Project, client *backend.Client, logger *slog.Logger) (*Editor, error) {
	if proj == nil {
		return nil, services.Wrap(services.ErrValidation, "editor", "open", "project required", nil)
	}
	captions, err := proj.Captions()
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "editor", "open", "stored captions unreadable", err)
	}
	style, err := proj.Style()
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "editor", "open", "stored style unreadable", err)
	}
	if len(captions) == 0 && proj.Duration > 0 {
		captions = []caption.Caption{caption.Placeholder(proj.Duration)}
	}
	return &Editor{
		store:    store,
		proj:     proj,
		source:   media.Existing(proj.VideoPath, proj.VideoFilename),
		session:  session.New(client, logger),
		logger:   logging.NewComponentLogger(logger, "editor"),
		captions: captions,
		style:    style,
	}, nil
}

// Project returns the underlying project row.
func (e *Editor) Project() *project.Project {
	return e.proj
}

// Captions returns a snapshot of the caption set in its current order.
func (e *Editor) Captions() []caption.Caption {
	e.mu.Lock()
	defer e.mu.Unlock()
	return caption.Clone(e.captions)
}

// Style returns the active caption style.
func (e *Editor) Style() caption.Style {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.style
}

// AddCaption appends a new caption starting where the last one ends.
func (e *Editor) AddCaption() caption.Caption {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := 0.0
	if n := len(e.captions); n > 0 {
		start = e.captions[n-1].End
	}
	added := caption.Caption{
		ID:    caption.NextID(e.captions),
		Start: start,
		End:   start + 2,
		Text:  "New caption",
	}
	e.captions = append(e.captions, added)
	return added
}

// RemoveCaption deletes the caption with the given id.
func (e *Editor) RemoveCaption(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, c := range e.captions {
		if c.ID == id {
			e.captions = append(e.captions[:i], e.captions[i+1:]...)
			return nil
		}
	}
	return services.Wrap(services.ErrValidation, "editor", "remove caption", fmt.Sprintf("no caption with id %d", id), nil)
}

// SetCaptionText replaces one caption's text. Identity and timing are left
// untouched, and the caption keeps its position in the array.
func (e *Editor) SetCaptionText(id int, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.captions {
		if e.captions[i].ID == id {
			e.captions[i].Text = text
			return nil
		}
	}
	return services.Wrap(services.ErrValidation, "editor", "set caption text", fmt.Sprintf("no caption with id %d", id), nil)
}

// SetCaptionTiming adjusts one caption's start and end.
func (e *Editor) SetCaptionTiming(id int, start, end float64) error {
	probe := caption.Caption{ID: id, Start: start, End: end, Text: "x"}
	if err := probe.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "editor", "set caption timing", err.Error(), nil)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.captions {
		if e.captions[i].ID == id {
			e.captions[i].Start = start
			e.captions[i].End = end
			return nil
		}
	}
	return services.Wrap(services.ErrValidation, "editor", "set caption timing", fmt.Sprintf("no caption with id %d", id), nil)
}

// SetStyle replaces the caption style wholesale.
func (e *Editor) SetStyle(style caption.Style) error {
	if err := style.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "editor", "set style", err.Error(), nil)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.style = style
	return nil
}

// Generate starts a caption-generation attempt for the project's video. It
// refuses to start while a previous attempt is still in flight; use
// CancelGeneration first to abandon one deliberately.
func (e *Editor) Generate(ctx context.Context) error {
	if state := e.session.State(); state != session.StateIdle && !state.Terminal() {
		return services.Wrap(services.ErrValidation, "editor", "generate", "a caption generation is already in progress", nil)
	}
	return e.session.Start(ctx, session.Request{
		Source:   e.source,
		Duration: e.proj.Duration,
		Language: e.proj.Language,
		Model:    e.proj.Model,
	})
}

// CancelGeneration aborts the in-flight attempt, if any.
func (e *Editor) CancelGeneration() {
	e.session.Cancel()
}

// SessionSnapshot exposes the generation progress for display.
func (e *Editor) SessionSnapshot() session.Snapshot {
	return e.session.Snapshot()
}

// WaitGeneration blocks until the attempt reaches a terminal state or ctx
// expires, then adopts the outcome: success and failure replace the caption
// set with the attempt's captions (failure seeds the placeholder),
// cancellation leaves the editor untouched.
func (e *Editor) WaitGeneration(ctx context.Context) (session.Snapshot, error) {
	select {
	case <-e.session.Done():
	case <-ctx.Done():
		return e.session.Snapshot(), ctx.Err()
	}
	snap := e.session.Snapshot()
	switch snap.State {
	case session.StateSucceeded, session.StateFailed:
		if len(snap.Captions) > 0 {
			e.mu.Lock()
			e.captions = caption.Clone(snap.Captions)
			e.mu.Unlock()
		}
	}
	return snap, nil
}

// RenderVideo burns the current caption set into the video. The render is
// refused while a generation attempt is non-terminal or the caption set is
// empty.
func (e *Editor) RenderVideo(ctx context.Context, exporter *render.Exporter, quality render.Quality) (*render.Result, error) {
	if state := e.session.State(); state != session.StateIdle && !state.Terminal() {
		return nil, services.Wrap(services.ErrValidation, "editor", "render", "caption generation still in progress", nil)
	}
	captions := e.Captions()
	if len(captions) == 0 {
		return nil, services.Wrap(services.ErrValidation, "editor", "render", "no captions to render", nil)
	}
	return exporter.Render(ctx, render.Request{
		Source:   e.source,
		Captions: captions,
		Quality:  quality,
	})
}

// WriteSRT exports the caption set as SubRip text.
func (e *Editor) WriteSRT(w io.Writer) error {
	return caption.WriteSRT(w, e.Captions())
}

// WritePreviewTrack exports the caption set as a styled WebVTT track.
func (e *Editor) WritePreviewTrack(w io.Writer) error {
	e.mu.Lock()
	style := e.style
	captions := caption.Clone(e.captions)
	e.mu.Unlock()
	return preview.WriteTrack(w, style, captions)
}

// Save persists the caption set and style back to the project store.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	captions := caption.Clone(e.captions)
	style := e.style
	e.mu.Unlock()

	if err := e.proj.SetCaptions(captions); err != nil {
		return services.Wrap(services.ErrParse, "editor", "save", "encode captions", err)
	}
	if err := e.proj.SetStyle(style); err != nil {
		return services.Wrap(services.ErrParse, "editor", "save", "encode style", err)
	}
	if err := e.store.Save(ctx, e.proj); err != nil {
		return services.Wrap(services.ErrTransfer, "editor", "save", "persist project", err)
	}
	e.logger.Debug("project saved",
		slog.Int64(logging.FieldProjectID, e.proj.ID),
		slog.Int("captions", len(captions)))
	return nil
}

// Close cancels any in-flight generation and waits for its goroutines to
// stop. The staged video stays put: it belongs to the project, not to this
// editing session.
func (e *Editor) Close() {
	e.session.Cancel()
	<-e.session.Done()
}
