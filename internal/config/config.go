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
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir    string   `toml:"data_dir"`
	LogDir     string   `toml:"log_dir"`
	ImageRoots []string `toml:"image_roots"`
}

// Store selects and configures the draft record backend.
type Store struct {
	Backend   string `toml:"backend"`
	TablePath string `toml:"table_path"`
}

// Snapshot contains configuration for the remote snapshot document backend.
type Snapshot struct {
	Endpoint       string `toml:"endpoint"`
	WriteToken     string `toml:"write_token"`
	Scope          string `toml:"scope"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Catalog contains configuration for catalog artifact builds.
type Catalog struct {
	CurrencyRates map[string]float64 `toml:"currency_rates"`
	Strict        bool               `toml:"strict"`
}

// Submission contains limits for packaging draft submissions.
type Submission struct {
	MaxProducts       int   `toml:"max_products"`
	MaxBytes          int64 `toml:"max_bytes"`
	MaxImageBytes     int64 `toml:"max_image_bytes"`
	MinImageEdge      int   `toml:"min_image_edge"`
	MaxFilesScanned   int   `toml:"max_files_scanned"`
	MaxMatchesPerSpec int   `toml:"max_matches_per_spec"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Stockroom.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and the image root allow-list
//   - Store: backend selection ("table" or "snapshot") and the table file path
//   - Snapshot: remote document endpoint, write credential, and scope
//   - Catalog: currency rates and strict-mode toggle for artifact builds
//   - Submission: packaging limits (product count, byte budgets, image checks)
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Store      Store      `toml:"store"`
	Snapshot   Snapshot   `toml:"snapshot"`
	Catalog    Catalog    `toml:"catalog"`
	Submission Submission `toml:"submission"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/stockroom/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Finalize normalizes derived paths and validates the result. Load calls it
// automatically; code that builds a Config by hand calls it before use.
func (c *Config) Finalize() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("stockroom.toml")
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

func (c *Config) normalize() error {
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"paths.data_dir", &c.Paths.DataDir},
		{"paths.log_dir", &c.Paths.LogDir},
		{"store.table_path", &c.Store.TablePath},
	} {
		if strings.TrimSpace(*field.value) == "" {
			continue
		}
		expanded, err := expandPath(*field.value)
		if err != nil {
			return fmt.Errorf("normalize %s: %w", field.name, err)
		}
		*field.value = expanded
	}

	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if strings.TrimSpace(c.Store.TablePath) == "" {
		c.Store.TablePath = filepath.Join(c.Paths.DataDir, "products.csv")
	}

	roots := make([]string, 0, len(c.Paths.ImageRoots))
	for _, root := range c.Paths.ImageRoots {
		if strings.TrimSpace(root) == "" {
			continue
		}
		expanded, err := expandPath(root)
		if err != nil {
			return fmt.Errorf("normalize paths.image_roots entry %q: %w", root, err)
		}
		roots = append(roots, expanded)
	}
	c.Paths.ImageRoots = roots

	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Snapshot.Endpoint = strings.TrimSpace(c.Snapshot.Endpoint)
	c.Snapshot.WriteToken = strings.TrimSpace(c.Snapshot.WriteToken)
	c.Snapshot.Scope = strings.ToLower(strings.TrimSpace(c.Snapshot.Scope))
	return nil
}

// EnsureDirectories creates the directories CLI commands rely on.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
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
