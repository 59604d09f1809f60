package media

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"noxsub/internal/fileutil"
	"noxsub/internal/services"
)

// Source is the locally-resolvable video reference owned by an editing
// session. Staged sources wrap a copy inside the staging directory and must
// be released on replacement or teardown so the backing file is not leaked.
type Source struct {
	Path     string
	Filename string

	staged  bool
	release sync.Once
}

// Acquire validates the file at path as a video, copies it into stagingDir,
// and returns a staged Source. The original file is left untouched.
func Acquire(path, stagingDir string) (*Source, error) {
	if err := ValidateVideoPath(path); err != nil {
		return nil, err
	}
	filename := filepath.Base(path)
	staged, err := fileutil.UniquePath(stagingDir, filename)
	if err != nil {
		return nil, fmt.Errorf("stage video: %w", err)
	}
	if err := fileutil.CopyFile(path, staged); err != nil {
		return nil, fmt.Errorf("stage video: %w", err)
	}
	return &Source{Path: staged, Filename: filename, staged: true}, nil
}

// Existing wraps a previously staged file without copying. Release removes
// the file, so the caller must own it.
func Existing(path, filename string) *Source {
	if filename == "" {
		filename = filepath.Base(path)
	}
	return &Source{Path: path, Filename: filename, staged: true}
}

// Release removes the staged backing file. It is idempotent and safe on every
// exit path.
func (s *Source) Release() error {
	if s == nil {
		return nil
	}
	var err error
	s.release.Do(func() {
		if s.staged && s.Path != "" {
			if rmErr := os.Remove(s.Path); rmErr != nil && !os.IsNotExist(rmErr) {
				err = fmt.Errorf("release video source: %w", rmErr)
			}
		}
	})
	return err
}

// ValidateVideoPath checks that path exists and carries a video type. The
// check runs synchronously before any workflow starts.
func ValidateVideoPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrValidation, "media", "validate", fmt.Sprintf("cannot read %q", path), err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, "media", "validate", fmt.Sprintf("%q is a directory", path), nil)
	}
	ext := strings.ToLower(filepath.Ext(path))
	mimeType := mime.TypeByExtension(ext)
	if strings.HasPrefix(mimeType, "video/") {
		return nil
	}
	if _, ok := videoExtensions[ext]; ok {
		return nil
	}
	return services.Wrap(services.ErrValidation, "media", "validate", fmt.Sprintf("%q is not a video file", path), nil)
}

// Extensions accepted even when the platform MIME table has no entry.
var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".avi":  {},
	".mov":  {},
	".webm": {},
	".m4v":  {},
}
