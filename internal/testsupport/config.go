// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"testing"

	"stockroom/internal/config"
)

// NewConfig returns a validated config rooted in a per-test temp directory,
// with one allowed image root created and registered.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	dataDir := t.TempDir()
	imageRoot := t.TempDir()

	cfg := config.Default()
	cfg.Paths.DataDir = dataDir
	cfg.Paths.ImageRoots = []string{imageRoot}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize test config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return &cfg
}
