package testsupport

import (
	"context"
	"testing"

	"noxsub/internal/config"
	"noxsub/internal/project"
)

// MustOpenStore opens a project.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *project.Store {
	t.Helper()

	store, err := project.Open(cfg)
	if err != nil {
		t.Fatalf("project.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewProject creates a project row for tests using the provided store.
func NewProject(t testing.TB, store *project.Store, title, videoPath string) *project.Project {
	t.Helper()

	created, err := store.Create(context.Background(), &project.Project{
		Title:         title,
		VideoPath:     videoPath,
		VideoFilename: "clip.mp4",
		Duration:      12,
		Language:      "en",
		Model:         "small",
	})
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return created
}
