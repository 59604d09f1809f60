package services_test

import (
	"errors"
	"strings"
	"testing"

	"noxsub/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection refused")
	err := services.Wrap(services.ErrConnectivity, "session", "health check", "backend unreachable", base)
	if !errors.Is(err, services.ErrConnectivity) {
		t.Fatalf("expected connectivity marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
	for _, fragment := range []string{"session", "health check", "backend unreachable"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in error message %q", fragment, err.Error())
		}
	}
}

func TestWrapDefaultsToTransfer(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransfer) {
		t.Fatalf("expected transfer fallback marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected generic detail, got %q", err.Error())
	}
}

func TestIsUserCancelled(t *testing.T) {
	err := services.Wrap(services.ErrCancelled, "session", "transcribe", "aborted", nil)
	if !services.IsUserCancelled(err) {
		t.Fatalf("expected cancelled classification for %v", err)
	}
	if services.IsUserCancelled(errors.New("other")) {
		t.Fatal("unexpected cancelled classification")
	}
}
