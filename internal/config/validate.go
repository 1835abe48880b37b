package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateSnapshot(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateSubmission(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case "table", "snapshot":
		return nil
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", "table", "snapshot", c.Store.Backend)
	}
}

func (c *Config) validateSnapshot() error {
	// Endpoint and write token stay optional here; the snapshot store reports
	// an unconfigured error at call time when the backend is selected without
	// them, so a table-backed setup does not need the section at all.
	if c.Snapshot.RequestTimeout <= 0 {
		return errors.New("snapshot.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateSubmission() error {
	if err := ensurePositiveMap(map[string]int64{
		"submission.max_products":         int64(c.Submission.MaxProducts),
		"submission.max_bytes":            c.Submission.MaxBytes,
		"submission.max_image_bytes":      c.Submission.MaxImageBytes,
		"submission.min_image_edge":       int64(c.Submission.MinImageEdge),
		"submission.max_files_scanned":    int64(c.Submission.MaxFilesScanned),
		"submission.max_matches_per_spec": int64(c.Submission.MaxMatchesPerSpec),
	}); err != nil {
		return err
	}
	if c.Submission.MaxImageBytes > c.Submission.MaxBytes {
		return errors.New("submission.max_image_bytes must not exceed submission.max_bytes")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	// Rate values are not range-checked here; invalid rates degrade to 1.0
	// inside the builder, with a warning.
	for currency := range c.Catalog.CurrencyRates {
		if strings.TrimSpace(currency) == "" {
			return errors.New("catalog.currency_rates contains an empty currency code")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", "console", "json", c.Logging.Format)
	}
	return nil
}

func ensurePositiveMap(values map[string]int64) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
