package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ProgressEvent is one status update from the transcription progress stream.
type ProgressEvent struct {
	Status string
	Step   int
	// HasStep distinguishes "step 0" from events that carried no step code.
	HasStep bool
}

// StreamStatus subscribes to the server-push progress stream for a session
// and invokes fn for every event until the stream ends or ctx is cancelled.
// The channel is best-effort: callers treat any returned error as degraded
// mode, never as a workflow failure.
func (c *Client) StreamStatus(ctx context.Context, sessionID string, fn func(ProgressEvent)) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("session id required")
	}
	endpoint := c.baseURL + "/api/transcribe-status?session_id=" + url.QueryEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("open status stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status stream returned %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 4096), 256*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		data := line
		if strings.HasPrefix(line, "data:") {
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
		if data == "" {
			continue
		}
		fn(parseProgressEvent(data))
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("read status stream: %w", err)
	}
	return ctx.Err()
}

// parseProgressEvent decodes a stream payload. JSON events carry
// {"status": ..., "stepId": ...}; anything else is treated as plain status
// text with no step code.
func parseProgressEvent(data string) ProgressEvent {
	var payload struct {
		Status string          `json:"status"`
		StepID json.RawMessage `json:"stepId"`
	}
	if err := json.Unmarshal([]byte(data), &payload); err != nil || payload.Status == "" {
		return ProgressEvent{Status: data}
	}
	event := ProgressEvent{Status: payload.Status}
	if len(payload.StepID) > 0 {
		// The backend emits step codes as numbers, but older versions used
		// quoted strings.
		var asInt int
		if err := json.Unmarshal(payload.StepID, &asInt); err == nil {
			event.Step = asInt
			event.HasStep = true
		} else {
			var asString string
			if err := json.Unmarshal(payload.StepID, &asString); err == nil {
				if _, scanErr := fmt.Sscanf(asString, "%d", &asInt); scanErr == nil {
					event.Step = asInt
					event.HasStep = true
				}
			}
		}
	}
	return event
}
