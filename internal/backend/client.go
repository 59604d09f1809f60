package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"noxsub/internal/caption"
)

// HTTPDoer describes the HTTP client used by the backend service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the transcription/render backend HTTP surface.
type Client struct {
	baseURL        string
	httpClient     HTTPDoer
	healthTimeout  time.Duration
	requestTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithHealthTimeout overrides the liveness probe deadline.
func WithHealthTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.healthTimeout = d
		}
	}
}

// WithRequestTimeout overrides the ceiling applied to every backend exchange,
// body included. Transcription and render uploads must complete within it.
// Ignored when WithHTTPClient supplies a client.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// New creates a backend client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("backend base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	client := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		healthTimeout:  5 * time.Second,
		requestTimeout: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: client.requestTimeout}
	}
	return client, nil
}

// Health probes backend liveness. The probe is bounded by the configured
// health timeout; any 2xx response is healthy.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend health check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("backend health check returned %d", resp.StatusCode)
	}
	return nil
}

// VideoMetadata is the backend's description of a remote video.
type VideoMetadata struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Thumbnail    string  `json:"thumbnail"`
	Duration     float64 `json:"duration"`
	ChannelTitle string  `json:"channelTitle"`
}

// YouTubeMetadata looks up metadata for a YouTube video without downloading it.
func (c *Client) YouTubeMetadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, errors.New("video id required")
	}
	body, err := json.Marshal(map[string]string{"video_id": videoID})
	if err != nil {
		return nil, fmt.Errorf("encode metadata request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/youtube-metadata", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build metadata request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch youtube metadata: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "youtube metadata"); err != nil {
		return nil, err
	}

	var meta VideoMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode youtube metadata: %w", err)
	}
	return &meta, nil
}

// DownloadVideo asks the backend to download a remote video and returns the
// produced filename, retrievable through FetchFile.
func (c *Client) DownloadVideo(ctx context.Context, videoURL string) (string, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return "", errors.New("video url required")
	}
	body, err := json.Marshal(map[string]string{"url": videoURL})
	if err != nil {
		return "", fmt.Errorf("encode download request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/download-video", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download video: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "download video"); err != nil {
		return "", err
	}

	var payload struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode download response: %w", err)
	}
	if payload.Filename == "" {
		return "", errors.New("download response missing filename")
	}
	return payload.Filename, nil
}

// FetchFile streams a previously produced backend file into w.
func (c *Client) FetchFile(ctx context.Context, filename string, w io.Writer) error {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return errors.New("filename required")
	}
	endpoint := c.baseURL + "/files/" + url.PathEscape(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build file request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch file %q: %w", filename, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "fetch file"); err != nil {
		return err
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read file %q: %w", filename, err)
	}
	return nil
}

// TranscribeRequest carries one transcription upload.
type TranscribeRequest struct {
	Video     io.Reader
	Filename  string
	Model     string
	Language  string
	SessionID string
}

// TranscriptionCall represents an accepted transcription upload whose result
// body has not been consumed yet.
type TranscriptionCall struct {
	resp *http.Response
}

// BeginTranscription uploads the video and returns once the backend has
// answered with response headers. Non-success statuses are returned as errors
// with the response body included.
func (c *Client) BeginTranscription(ctx context.Context, req TranscribeRequest) (*TranscriptionCall, error) {
	if req.Video == nil {
		return nil, errors.New("video reader required")
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, errors.New("session id required")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fallbackFilename(req.Filename))
	if err != nil {
		return nil, fmt.Errorf("create multipart file: %w", err)
	}
	if _, err := io.Copy(part, req.Video); err != nil {
		return nil, fmt.Errorf("copy video into upload: %w", err)
	}
	for field, value := range map[string]string{
		"model":      req.Model,
		"language":   req.Language,
		"session_id": req.SessionID,
	} {
		if err := writer.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("write field %q: %w", field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize upload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transcribe", &buf)
	if err != nil {
		return nil, fmt.Errorf("build transcribe request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upload video for transcription: %w", err)
	}
	if err := checkStatus(resp, "transcribe"); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return &TranscriptionCall{resp: resp}, nil
}

// Result decodes the caption set from the response body and closes it. The
// backend answers either {"captions":[...]} or a bare caption array.
func (t *TranscriptionCall) Result() ([]caption.Caption, error) {
	defer t.resp.Body.Close()
	data, err := io.ReadAll(t.resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read transcription result: %w", err)
	}
	return DecodeCaptions(data)
}

// Close releases the underlying response without reading the result.
func (t *TranscriptionCall) Close() error {
	return t.resp.Body.Close()
}

// DecodeCaptions parses a transcription payload in either accepted shape.
func DecodeCaptions(data []byte) ([]caption.Caption, error) {
	var wrapped struct {
		Captions []caption.Caption `json:"captions"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Captions != nil {
		return wrapped.Captions, nil
	}
	var bare []caption.Caption
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}
	return nil, fmt.Errorf("unexpected transcription result shape: %s", truncateForError(data))
}

// RenderRequest carries one render upload.
type RenderRequest struct {
	Video    io.Reader
	Filename string
	Captions []caption.Caption
	Quality  string
}

// Render uploads the video plus a caption-set snapshot and returns the
// produced filename.
func (c *Client) Render(ctx context.Context, req RenderRequest) (string, error) {
	if req.Video == nil {
		return "", errors.New("video reader required")
	}
	captionsJSON, err := json.MarshalIndent(req.Captions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode captions: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	filePart, err := writer.CreateFormFile("file", fallbackFilename(req.Filename))
	if err != nil {
		return "", fmt.Errorf("create multipart file: %w", err)
	}
	if _, err := io.Copy(filePart, req.Video); err != nil {
		return "", fmt.Errorf("copy video into upload: %w", err)
	}
	captionPart, err := writer.CreateFormFile("captions", "captions.json")
	if err != nil {
		return "", fmt.Errorf("create captions attachment: %w", err)
	}
	if _, err := captionPart.Write(captionsJSON); err != nil {
		return "", fmt.Errorf("write captions attachment: %w", err)
	}
	if err := writer.WriteField("quality", req.Quality); err != nil {
		return "", fmt.Errorf("write quality field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/render", &buf)
	if err != nil {
		return "", fmt.Errorf("build render request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("upload video for rendering: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "render"); err != nil {
		return "", err
	}

	var payload struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode render response: %w", err)
	}
	if payload.Filename == "" {
		return "", errors.New("render response missing filename")
	}
	return payload.Filename, nil
}

func checkStatus(resp *http.Response, operation string) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	detail := strings.TrimSpace(string(body))
	if detail != "" {
		return fmt.Errorf("%s returned %d: %s", operation, resp.StatusCode, detail)
	}
	return fmt.Errorf("%s returned %d", operation, resp.StatusCode)
}

func fallbackFilename(name string) string {
	if strings.TrimSpace(name) == "" {
		return "video.mp4"
	}
	return name
}

func truncateForError(data []byte) string {
	const max = 120
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) > max {
		return trimmed[:max] + "..."
	}
	return trimmed
}
