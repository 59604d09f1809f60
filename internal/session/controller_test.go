package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"noxsub/internal/backend"
	"noxsub/internal/caption"
	"noxsub/internal/media"
	"noxsub/internal/services"
)

func writeFakeVideo(t *testing.T) *media.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("not really mp4"), 0o644); err != nil {
		t.Fatalf("write fake video: %v", err)
	}
	return media.Existing(path, "clip.mp4")
}

func newTestClient(t *testing.T, handler http.Handler) (*backend.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := backend.New(srv.URL)
	if err != nil {
		t.Fatalf("backend client: %v", err)
	}
	return client, srv
}

func waitDone(t *testing.T, c *Controller) Snapshot {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("attempt did not finish in time")
	}
	return c.Snapshot()
}

func TestControllerSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/transcribe", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "small" {
			t.Errorf("model field = %q, want small", got)
		}
		if got := r.FormValue("language"); got != "en" {
			t.Errorf("language field = %q, want en", got)
		}
		if r.FormValue("session_id") == "" {
			t.Error("session_id field missing")
		}
		fmt.Fprint(w, `{"captions":[{"id":1,"start":0,"end":2.5,"text":"hello"},{"id":2,"start":2.5,"end":5,"text":"world"}]}`)
	})
	mux.HandleFunc("/api/transcribe-status", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	client, _ := newTestClient(t, mux)

	c := New(client, nil)
	err := c.Start(context.Background(), Request{Source: writeFakeVideo(t), Duration: 12, Language: "en", Model: "small"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	snap := waitDone(t, c)
	if snap.State != StateSucceeded {
		t.Fatalf("state = %s, want %s (err=%q)", snap.State, StateSucceeded, snap.Err)
	}
	if snap.Err != "" {
		t.Fatalf("unexpected error: %q", snap.Err)
	}
	if len(snap.Captions) != 2 {
		t.Fatalf("got %d captions, want 2", len(snap.Captions))
	}
	if snap.Captions[1].Text != "world" {
		t.Fatalf("second caption = %q, want world", snap.Captions[1].Text)
	}
	if snap.SessionID == "" {
		t.Fatal("session id should be set")
	}
}

func TestControllerHealthFailureSeedsPlaceholder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client, _ := newTestClient(t, mux)

	c := New(client, nil)
	if err := c.Start(context.Background(), Request{Source: writeFakeVideo(t), Duration: 12, Language: "en", Model: "small"}); err != nil {
		t.Fatalf("start: %v", err)
	}

	snap := waitDone(t, c)
	if snap.State != StateFailed {
		t.Fatalf("state = %s, want %s", snap.State, StateFailed)
	}
	if !strings.Contains(snap.Err, "backend unreachable") {
		t.Fatalf("error = %q, want connectivity message", snap.Err)
	}
	if len(snap.Captions) != 1 || snap.Captions[0].Text != caption.PlaceholderText {
		t.Fatalf("failure should seed the placeholder caption, got %+v", snap.Captions)
	}
	if snap.Captions[0].End != 5 {
		t.Fatalf("placeholder end = %v, want 5", snap.Captions[0].End)
	}
}

func TestControllerEmptyResultSeedsPlaceholder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/transcribe", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"captions":[]}`)
	})
	mux.HandleFunc("/api/transcribe-status", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	client, _ := newTestClient(t, mux)

	c := New(client, nil)
	if err := c.Start(context.Background(), Request{Source: writeFakeVideo(t), Duration: 3, Language: "en", Model: "small"}); err != nil {
		t.Fatalf("start: %v", err)
	}

	snap := waitDone(t, c)
	if snap.State != StateSucceeded {
		t.Fatalf("state = %s, want %s (err=%q)", snap.State, StateSucceeded, snap.Err)
	}
	if len(snap.Captions) != 1 {
		t.Fatalf("got %d captions, want 1 placeholder", len(snap.Captions))
	}
	got := snap.Captions[0]
	if got.ID != 1 || got.Start != 0 || got.End != 3 || got.Text != caption.PlaceholderText {
		t.Fatalf("placeholder = %+v", got)
	}
}

func TestControllerCancelClearsErrorAndKeepsCaptions(t *testing.T) {
	uploading := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/transcribe", func(w http.ResponseWriter, r *http.Request) {
		close(uploading)
		// Drain the body so the server can observe the client disconnect;
		// with unread body bytes the request context is never cancelled.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	})
	mux.HandleFunc("/api/transcribe-status", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	client, _ := newTestClient(t, mux)

	c := New(client, nil)
	if err := c.Start(context.Background(), Request{Source: writeFakeVideo(t), Duration: 12, Language: "en", Model: "small"}); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case <-uploading:
	case <-time.After(10 * time.Second):
		t.Fatal("upload never reached the backend")
	}

	c.Cancel()
	c.Cancel() // second cancel is a no-op

	snap := waitDone(t, c)
	if snap.State != StateCancelled {
		t.Fatalf("state = %s, want %s", snap.State, StateCancelled)
	}
	if snap.Err != "" {
		t.Fatalf("cancellation must clear error state, got %q", snap.Err)
	}
	if len(snap.Captions) != 0 {
		t.Fatalf("cancellation must not seed captions, got %+v", snap.Captions)
	}
	if snap.Elapsed != 0 || snap.Status != "" {
		t.Fatalf("cancellation should reset progress, got elapsed=%d status=%q", snap.Elapsed, snap.Status)
	}
}

func TestControllerRestartTearsDownPriorAttempt(t *testing.T) {
	firstUploading := make(chan struct{})
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/transcribe", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			close(firstUploading)
			// Drain the body so the server can observe the client disconnect;
			// with unread body bytes the request context is never cancelled.
			io.Copy(io.Discard, r.Body)
			<-r.Context().Done()
			return
		}
		fmt.Fprint(w, `[{"id":1,"start":0,"end":1,"text":"second attempt"}]`)
	})
	mux.HandleFunc("/api/transcribe-status", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	client, _ := newTestClient(t, mux)

	c := New(client, nil)
	req := Request{Source: writeFakeVideo(t), Duration: 12, Language: "en", Model: "small"}
	if err := c.Start(context.Background(), req); err != nil {
		t.Fatalf("first start: %v", err)
	}
	select {
	case <-firstUploading:
	case <-time.After(10 * time.Second):
		t.Fatal("first upload never reached the backend")
	}
	firstID := c.Snapshot().SessionID

	if err := c.Start(context.Background(), req); err != nil {
		t.Fatalf("second start: %v", err)
	}

	snap := waitDone(t, c)
	if snap.State != StateSucceeded {
		t.Fatalf("state = %s, want %s (err=%q)", snap.State, StateSucceeded, snap.Err)
	}
	if snap.SessionID == firstID {
		t.Fatal("restart should mint a fresh session id")
	}
	if len(snap.Captions) != 1 || snap.Captions[0].Text != "second attempt" {
		t.Fatalf("captions from torn-down attempt leaked: %+v", snap.Captions)
	}
}

func TestControllerProgressStream(t *testing.T) {
	observed := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/transcribe", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-observed:
		case <-r.Context().Done():
			return
		}
		fmt.Fprint(w, `{"captions":[{"id":1,"start":0,"end":1,"text":"done"}]}`)
	})
	mux.HandleFunc("/api/transcribe-status", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("session_id") == "" {
			t.Error("status stream missing session_id")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"status\":\"Transcribing audio\",\"stepId\":2}\n\n")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})
	client, _ := newTestClient(t, mux)

	c := New(client, nil)
	if err := c.Start(context.Background(), Request{Source: writeFakeVideo(t), Duration: 12, Language: "en", Model: "small"}); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(10 * time.Second)
	for {
		snap := c.Snapshot()
		if snap.Status == "Transcribing audio" {
			if snap.Percent != 15 {
				t.Fatalf("percent = %d, want 15 for step 2", snap.Percent)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("progress event never applied, last status %q", snap.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	close(observed)

	snap := waitDone(t, c)
	if snap.State != StateSucceeded {
		t.Fatalf("state = %s, want %s (err=%q)", snap.State, StateSucceeded, snap.Err)
	}
}

func TestControllerStartValidation(t *testing.T) {
	client, _ := newTestClient(t, http.NewServeMux())
	c := New(client, nil)

	if err := c.Start(context.Background(), Request{Duration: 12, Language: "en", Model: "small"}); err == nil {
		t.Fatal("expected error for missing source")
	} else if !services.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := c.Start(context.Background(), Request{Source: writeFakeVideo(t), Language: "en", Model: "small"}); err == nil {
		t.Fatal("expected error for unknown duration")
	}
	if got := c.State(); got != StateIdle {
		t.Fatalf("rejected start must leave controller idle, got %s", got)
	}
}
