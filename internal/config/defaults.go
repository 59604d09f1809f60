package config

const (
	defaultStagingDir            = "~/.local/share/noxsub/staging"
	defaultExportDir             = "~/noxsub-exports"
	defaultLogDir                = "~/.local/share/noxsub/logs"
	defaultBackendURL            = "http://localhost:8000"
	defaultHealthTimeoutSeconds  = 5
	defaultRequestTimeoutSeconds = 600
	defaultLanguage              = "en"
	defaultModel                 = "small"
	defaultQuality               = "medium"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"

	defaultStyleFontSize        = 17
	defaultStyleColor           = "#FFFFFF"
	defaultStyleFontFamily      = "Georgia, serif"
	defaultStylePosition        = "bottom"
	defaultStyleBackgroundColor = "rgba(0, 0, 0, 0.7)"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			ExportDir:  defaultExportDir,
			LogDir:     defaultLogDir,
		},
		Backend: Backend{
			URL:                   defaultBackendURL,
			HealthTimeoutSeconds:  defaultHealthTimeoutSeconds,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
		},
		Transcription: Transcription{
			Language: defaultLanguage,
			Model:    defaultModel,
		},
		Render: Render{
			Quality: defaultQuality,
		},
		Style: Style{
			FontSize:        defaultStyleFontSize,
			Color:           defaultStyleColor,
			FontFamily:      defaultStyleFontFamily,
			Position:        defaultStylePosition,
			BackgroundColor: defaultStyleBackgroundColor,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// applyDefaults fills any zero values left after parsing a config file.
func (c *Config) applyDefaults() {
	defaults := Default()
	if c.Paths.StagingDir == "" {
		c.Paths.StagingDir = defaults.Paths.StagingDir
	}
	if c.Paths.ExportDir == "" {
		c.Paths.ExportDir = defaults.Paths.ExportDir
	}
	if c.Paths.LogDir == "" {
		c.Paths.LogDir = defaults.Paths.LogDir
	}
	if c.Backend.URL == "" {
		c.Backend.URL = defaults.Backend.URL
	}
	if c.Backend.HealthTimeoutSeconds <= 0 {
		c.Backend.HealthTimeoutSeconds = defaults.Backend.HealthTimeoutSeconds
	}
	if c.Backend.RequestTimeoutSeconds <= 0 {
		c.Backend.RequestTimeoutSeconds = defaults.Backend.RequestTimeoutSeconds
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = defaults.Transcription.Language
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaults.Transcription.Model
	}
	if c.Render.Quality == "" {
		c.Render.Quality = defaults.Render.Quality
	}
	if c.Style.FontSize <= 0 {
		c.Style.FontSize = defaults.Style.FontSize
	}
	if c.Style.Color == "" {
		c.Style.Color = defaults.Style.Color
	}
	if c.Style.FontFamily == "" {
		c.Style.FontFamily = defaults.Style.FontFamily
	}
	if c.Style.Position == "" {
		c.Style.Position = defaults.Style.Position
	}
	if c.Style.BackgroundColor == "" {
		c.Style.BackgroundColor = defaults.Style.BackgroundColor
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
}
