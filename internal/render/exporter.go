package render

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"noxsub/internal/backend"
	"noxsub/internal/caption"
	"noxsub/internal/fileutil"
	"noxsub/internal/logging"
	"noxsub/internal/media"
	"noxsub/internal/services"
)

// Request carries everything needed to burn a caption set into a video.
type Request struct {
	Source   *media.Source
	Captions []caption.Caption
	Quality  Quality
}

// Result reports where the rendered video landed.
type Result struct {
	BackendFilename string
	Path            string
}

// Exporter drives the backend render pipeline and retrieves the produced
// file into the export directory.
type Exporter struct {
	client    *backend.Client
	exportDir string
	logger    *slog.Logger
}

// NewExporter wires an exporter against the backend client.
func NewExporter(client *backend.Client, exportDir string, logger *slog.Logger) *Exporter {
	return &Exporter{
		client:    client,
		exportDir: exportDir,
		logger:    logging.NewComponentLogger(logger, "render"),
	}
}

// Render uploads the video and the exact caption snapshot, waits for the
// backend to produce the rendered file, and saves it under the export
// directory. The caption set is sent as-is: ordering and overlaps are the
// editor's business, not the renderer's.
func (e *Exporter) Render(ctx context.Context, req Request) (*Result, error) {
	if req.Source == nil {
		return nil, services.Wrap(services.ErrValidation, "render", "request", "video source required", nil)
	}
	if len(req.Captions) == 0 {
		return nil, services.Wrap(services.ErrValidation, "render", "request", "no captions to render", nil)
	}
	if _, err := ParseQuality(string(req.Quality)); err != nil {
		return nil, services.Wrap(services.ErrValidation, "render", "request", err.Error(), nil)
	}

	if err := e.client.Health(ctx); err != nil {
		return nil, services.Wrap(services.ErrConnectivity, "render", "health check", "backend unreachable", err)
	}

	file, err := os.Open(req.Source.Path)
	if err != nil {
		return nil, services.Wrap(services.ErrTransfer, "render", "read video", req.Source.Path, err)
	}
	defer file.Close()

	e.logger.Info("render started",
		slog.String("video", req.Source.Filename),
		slog.String("quality", req.Quality.String()),
		slog.Int("captions", len(req.Captions)))

	produced, err := e.client.Render(ctx, backend.RenderRequest{
		Video:    file,
		Filename: req.Source.Filename,
		Captions: req.Captions,
		Quality:  req.Quality.String(),
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransfer, "render", "render video", "backend render failed", err)
	}

	path, err := e.retrieve(ctx, produced)
	if err != nil {
		return nil, err
	}

	e.logger.Info("render complete", slog.String("path", path))
	return &Result{BackendFilename: produced, Path: path}, nil
}

func (e *Exporter) retrieve(ctx context.Context, filename string) (string, error) {
	if err := os.MkdirAll(e.exportDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrTransfer, "render", "export dir", e.exportDir, err)
	}
	path, err := fileutil.UniquePath(e.exportDir, filename)
	if err != nil {
		return "", services.Wrap(services.ErrTransfer, "render", "export path", filename, err)
	}
	out, err := os.Create(path)
	if err != nil {
		return "", services.Wrap(services.ErrTransfer, "render", "create export file", path, err)
	}
	if err := e.client.FetchFile(ctx, filename, out); err != nil {
		out.Close()
		os.Remove(path)
		return "", services.Wrap(services.ErrTransfer, "render", "fetch rendered file", filename, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", services.Wrap(services.ErrTransfer, "render", "finish export file", path, err)
	}
	return filepath.Clean(path), nil
}
