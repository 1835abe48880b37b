package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"stockroom/internal/config"
	"stockroom/internal/logging"
	"stockroom/internal/store"
	"stockroom/internal/store/snapshotstore"
	"stockroom/internal/store/tablestore"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	logger     *slog.Logger
	configErr  error
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
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	if _, err := c.ensureConfig(); err != nil || c.logger == nil {
		return logging.NewNop()
	}
	return c.logger
}

// openStore builds the record store the config selects.
func (c *commandContext) openStore() (store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	switch cfg.Store.Backend {
	case "table":
		return tablestore.New(cfg.Store.TablePath, c.loggerValue()), nil
	case "snapshot":
		return snapshotstore.New(snapshotstore.Options{
			Endpoint:       cfg.Snapshot.Endpoint,
			WriteToken:     cfg.Snapshot.WriteToken,
			Scope:          cfg.Snapshot.Scope,
			RequestTimeout: time.Duration(cfg.Snapshot.RequestTimeout) * time.Second,
		}, c.loggerValue()), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// withLock serializes mutating commands against other stockroom processes
// through a lock file in the data directory. The store itself stays
// lock-free; this is the caller-side serialization for table writes.
func (c *commandContext) withLock(fn func() error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "stockroom.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire data directory lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another stockroom command holds the data directory lock")
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return fn()
}
