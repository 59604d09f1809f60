package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"noxsub/internal/backend"
)

func TestStreamStatusParsesEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("session_id") != "sess-1" {
			t.Fatalf("unexpected session id %q", r.URL.Query().Get("session_id"))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: {\"status\":\"Extracting audio\",\"stepId\":3}\n\n"))
		_, _ = w.Write([]byte("data: {\"status\":\"Transcribing\",\"stepId\":6}\n\n"))
		_, _ = w.Write([]byte("data: plain text update\n\n"))
	}))
	t.Cleanup(server.Close)

	var events []backend.ProgressEvent
	err := newClient(t, server.URL).StreamStatus(context.Background(), "sess-1", func(ev backend.ProgressEvent) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("StreamStatus returned error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}
	if events[0].Status != "Extracting audio" || !events[0].HasStep || events[0].Step != 3 {
		t.Fatalf("unexpected first event %+v", events[0])
	}
	if events[1].Step != 6 {
		t.Fatalf("unexpected second event %+v", events[1])
	}
	if events[2].Status != "plain text update" || events[2].HasStep {
		t.Fatalf("unexpected fallback event %+v", events[2])
	}
}

func TestStreamStatusStopsOnCancel(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		_, _ = w.Write([]byte("data: {\"status\":\"Starting\",\"stepId\":1}\n\n"))
		flusher.Flush()
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	err := newClient(t, server.URL).StreamStatus(ctx, "sess-1", func(ev backend.ProgressEvent) {
		cancel()
	})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStreamStatusNonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	err := newClient(t, server.URL).StreamStatus(context.Background(), "sess-1", func(backend.ProgressEvent) {})
	if err == nil {
		t.Fatal("expected error for non-success stream status")
	}
}
