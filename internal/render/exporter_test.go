package render

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"noxsub/internal/backend"
	"noxsub/internal/caption"
	"noxsub/internal/media"
	"noxsub/internal/services"
)

func TestParseQuality(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Quality
	}{
		{"low", QualityLow},
		{"MEDIUM", QualityMedium},
		{" high ", QualityHigh},
	} {
		got, err := ParseQuality(tc.in)
		if err != nil {
			t.Fatalf("ParseQuality(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseQuality(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
	if _, err := ParseQuality("ultra"); err == nil {
		t.Fatal("expected error for unknown quality")
	}
}

func TestQualityLabel(t *testing.T) {
	labels := map[Quality]string{
		QualityLow:    "720p",
		QualityMedium: "1080p",
		QualityHigh:   "4K",
	}
	for q, want := range labels {
		if got := q.Label(); got != want {
			t.Errorf("%s label = %q, want %q", q, got, want)
		}
	}
}

func testSource(t *testing.T) *media.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("video bytes"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	return media.Existing(path, "clip.mp4")
}

func TestExporterRender(t *testing.T) {
	var gotQuality string
	var gotCaptions []caption.Caption
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/render", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotQuality = r.FormValue("quality")
		f, _, err := r.FormFile("captions")
		if err != nil {
			t.Errorf("captions attachment: %v", err)
		} else {
			if err := json.NewDecoder(f).Decode(&gotCaptions); err != nil {
				t.Errorf("decode captions: %v", err)
			}
			f.Close()
		}
		fmt.Fprint(w, `{"filename":"rendered.mp4"}`)
	})
	mux.HandleFunc("/files/rendered.mp4", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "rendered content")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := backend.New(srv.URL)
	if err != nil {
		t.Fatalf("backend client: %v", err)
	}
	exportDir := t.TempDir()
	exp := NewExporter(client, exportDir, nil)

	captions := []caption.Caption{
		{ID: 1, Start: 0, End: 2, Text: "first"},
		{ID: 2, Start: 1.5, End: 3, Text: "overlaps on purpose"},
	}
	res, err := exp.Render(context.Background(), Request{
		Source:   testSource(t),
		Captions: captions,
		Quality:  QualityHigh,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.BackendFilename != "rendered.mp4" {
		t.Fatalf("backend filename = %q", res.BackendFilename)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if string(data) != "rendered content" {
		t.Fatalf("exported content = %q", data)
	}
	if gotQuality != "high" {
		t.Fatalf("quality field = %q, want high", gotQuality)
	}
	if len(gotCaptions) != 2 || gotCaptions[1].Text != "overlaps on purpose" {
		t.Fatalf("captions snapshot not sent verbatim: %+v", gotCaptions)
	}
}

func TestExporterRenderAvoidsOverwrite(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/render", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"filename":"out.mp4"}`)
	})
	mux.HandleFunc("/files/out.mp4", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "new render")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := backend.New(srv.URL)
	if err != nil {
		t.Fatalf("backend client: %v", err)
	}
	exportDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(exportDir, "out.mp4"), []byte("earlier export"), 0o644); err != nil {
		t.Fatalf("seed export: %v", err)
	}

	exp := NewExporter(client, exportDir, nil)
	res, err := exp.Render(context.Background(), Request{
		Source:   testSource(t),
		Captions: []caption.Caption{{ID: 1, Start: 0, End: 1, Text: "x"}},
		Quality:  QualityMedium,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if filepath.Base(res.Path) == "out.mp4" {
		t.Fatalf("export should not overwrite existing file, got %s", res.Path)
	}
	prior, err := os.ReadFile(filepath.Join(exportDir, "out.mp4"))
	if err != nil || string(prior) != "earlier export" {
		t.Fatalf("earlier export modified: %q %v", prior, err)
	}
}

func TestExporterRenderValidation(t *testing.T) {
	client, err := backend.New("http://localhost:1")
	if err != nil {
		t.Fatalf("backend client: %v", err)
	}
	exp := NewExporter(client, t.TempDir(), nil)

	_, err = exp.Render(context.Background(), Request{Source: testSource(t), Quality: QualityLow})
	if err == nil || !services.IsValidation(err) {
		t.Fatalf("empty caption set should be rejected before any network call, got %v", err)
	}
	if !strings.Contains(err.Error(), "no captions") {
		t.Fatalf("error = %v", err)
	}

	_, err = exp.Render(context.Background(), Request{
		Source:   testSource(t),
		Captions: []caption.Caption{{ID: 1, Start: 0, End: 1, Text: "x"}},
		Quality:  "ultra",
	})
	if err == nil || !services.IsValidation(err) {
		t.Fatalf("unknown quality should be rejected, got %v", err)
	}
}
