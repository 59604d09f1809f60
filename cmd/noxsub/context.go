package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"noxsub/internal/backend"
	"noxsub/internal/config"
	"noxsub/internal/editor"
	"noxsub/internal/logging"
	"noxsub/internal/project"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logOnce sync.Once
	logger  *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) log() *slog.Logger {
	c.logOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) backendClient() (*backend.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return backend.New(
		cfg.Backend.URL,
		backend.WithHealthTimeout(time.Duration(cfg.Backend.HealthTimeoutSeconds)*time.Second),
		backend.WithRequestTimeout(time.Duration(cfg.Backend.RequestTimeoutSeconds)*time.Second),
	)
}

func (c *commandContext) openStore() (*project.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return project.Open(cfg)
}

// withEditor opens the given project inside an editing shell, runs fn, and
// tears both down afterwards.
func (c *commandContext) withEditor(projectID int64, fn func(*editor.Editor, *project.Store) error) error {
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	proj, err := store.GetByID(context.Background(), projectID)
	if err != nil {
		return err
	}
	client, err := c.backendClient()
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}
	ed, err := editor.Open(store, proj, client, c.log())
	if err != nil {
		return err
	}
	defer ed.Close()
	return fn(ed, store)
}
