package config

import (
	"fmt"
	"net/url"
	"strings"
)

var knownModels = map[string]struct{}{
	"tiny":     {},
	"base":     {},
	"small":    {},
	"medium":   {},
	"large-v2": {},
	"large-v3": {},
}

var knownQualities = map[string]struct{}{
	"low":    {},
	"medium": {},
	"high":   {},
}

var knownPositions = map[string]struct{}{
	"top":    {},
	"middle": {},
	"bottom": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateStyle(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateBackend() error {
	raw := strings.TrimSpace(c.Backend.URL)
	if raw == "" {
		return fmt.Errorf("backend.url must be set")
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("backend.url %q is not a valid URL", raw)
	}
	if c.Backend.HealthTimeoutSeconds <= 0 {
		return fmt.Errorf("backend.health_timeout_seconds must be positive")
	}
	if c.Backend.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("backend.request_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if _, ok := knownModels[strings.TrimSpace(c.Transcription.Model)]; !ok {
		return fmt.Errorf("transcription.model %q is not a known model size", c.Transcription.Model)
	}
	return nil
}

func (c *Config) validateRender() error {
	if _, ok := knownQualities[strings.TrimSpace(c.Render.Quality)]; !ok {
		return fmt.Errorf("render.quality %q must be one of low, medium, high", c.Render.Quality)
	}
	return nil
}

func (c *Config) validateStyle() error {
	if c.Style.FontSize <= 0 {
		return fmt.Errorf("style.font_size must be positive")
	}
	if _, ok := knownPositions[strings.TrimSpace(c.Style.Position)]; !ok {
		return fmt.Errorf("style.position %q must be one of top, middle, bottom", c.Style.Position)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	return nil
}
