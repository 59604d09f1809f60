package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"noxsub/internal/caption"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	ExportDir  string `toml:"export_dir"`
	LogDir     string `toml:"log_dir"`
}

// Backend contains the transcription/render backend connection settings.
type Backend struct {
	URL                   string `toml:"url"`
	HealthTimeoutSeconds  int    `toml:"health_timeout_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Transcription contains default generation selections.
type Transcription struct {
	Language string `toml:"language"`
	Model    string `toml:"model"`
}

// Render contains default export selections.
type Render struct {
	Quality string `toml:"quality"`
}

// Style contains the default caption rendering style for new projects.
type Style struct {
	FontSize        int    `toml:"font_size"`
	Color           string `toml:"color"`
	FontFamily      string `toml:"font_family"`
	Position        string `toml:"position"`
	BackgroundColor string `toml:"background_color"`
}

// CaptionStyle converts the configured defaults into the editor's style
// value. Unrecognised positions fall back to the bottom placement.
func (s Style) CaptionStyle() caption.Style {
	position, ok := caption.ParsePosition(s.Position)
	if !ok {
		position = caption.PositionBottom
	}
	return caption.Style{
		FontSize:        s.FontSize,
		Color:           s.Color,
		FontFamily:      s.FontFamily,
		Position:        position,
		BackgroundColor: s.BackgroundColor,
	}
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the caption studio.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Backend       Backend       `toml:"backend"`
	Transcription Transcription `toml:"transcription"`
	Render        Render        `toml:"render"`
	Style         Style         `toml:"style"`
	Logging       Logging       `toml:"logging"`
}

// Load reads configuration from the provided path, falling back to the
// default locations when path is empty. It returns the resolved config, the
// path consulted, and whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			return nil, resolved, true, fmt.Errorf("read config %q: %w", resolved, readErr)
		}
		if unmarshalErr := toml.Unmarshal(data, &cfg); unmarshalErr != nil {
			return nil, resolved, true, fmt.Errorf("parse config %q: %w", resolved, unmarshalErr)
		}
	}

	cfg.applyDefaults()
	if err := cfg.expandPaths(); err != nil {
		return nil, resolved, exists, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, exists, err
	}
	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		expanded, err := expandPath(trimmed)
		if err != nil {
			return "", false, err
		}
		info, statErr := os.Stat(expanded)
		if statErr != nil {
			if errors.Is(statErr, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config %q: %w", expanded, statErr)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %q is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("noxsub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// DefaultConfigPath returns the canonical user config file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/noxsub/config.toml")
}

// EnsureDirectories creates the directories the editor needs at runtime.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.ExportDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) expandPaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return err
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
