package media_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"noxsub/internal/media"
	"noxsub/internal/services"
)

func writeVideo(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("fake video bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAcquireStagesCopy(t *testing.T) {
	dir := t.TempDir()
	staging := t.TempDir()
	original := writeVideo(t, dir, "talk.mp4")

	source, err := media.Acquire(original, staging)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if source.Filename != "talk.mp4" {
		t.Fatalf("unexpected filename %q", source.Filename)
	}
	if filepath.Dir(source.Path) != staging {
		t.Fatalf("expected staged path under %q, got %q", staging, source.Path)
	}
	if _, err := os.Stat(original); err != nil {
		t.Fatalf("original file should be untouched: %v", err)
	}

	if err := source.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	if _, err := os.Stat(source.Path); !os.IsNotExist(err) {
		t.Fatalf("expected staged file removed, got %v", err)
	}
	// Idempotent.
	if err := source.Release(); err != nil {
		t.Fatalf("second Release returned error: %v", err)
	}
}

func TestAcquireRejectsNonVideo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("text"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := media.Acquire(path, t.TempDir())
	if err == nil {
		t.Fatal("expected validation error for non-video file")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestAcquireMissingFile(t *testing.T) {
	_, err := media.Acquire(filepath.Join(t.TempDir(), "absent.mp4"), t.TempDir())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestDeriveTitle(t *testing.T) {
	cases := map[string]string{
		"/tmp/my_great.talk.mp4": "My Great Talk",
		"clip-01.mkv":            "Clip 01",
		"":                       "Untitled Project",
	}
	for input, want := range cases {
		if got := media.DeriveTitle(input); got != want {
			t.Fatalf("DeriveTitle(%q) = %q, want %q", input, got, want)
		}
	}
}
