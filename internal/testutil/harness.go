// Package testutil holds shared helpers for the integration tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/bstgraph/internal/app"
	"github.com/vk/bstgraph/internal/engine"
	"github.com/vk/bstgraph/internal/registry"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Dir       string
	LogOutput string
	Err       error
	App       *app.App
	Registry  *engine.Registry
}

// WriteFiles writes files, keyed by slash-separated relative path, below dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// NewProjectApp writes files to a fresh project directory and returns an
// app for it. cfg may be nil; its ProjectDir is overwritten.
func NewProjectApp(t *testing.T, files map[string]string, cfg *app.Config, modules ...registry.Module) (*app.App, *app.SafeBuffer, string) {
	t.Helper()
	dir := t.TempDir()
	WriteFiles(t, dir, files)

	if cfg == nil {
		cfg = &app.Config{}
	}
	cfg.ProjectDir = dir
	cfg.LogFormat = "text"
	a, logs := app.SetupAppTest(t, cfg, modules...)
	return a, logs, dir
}

// RunIntegrationTest resolves the project made of files with the built-in
// element kinds, or with modules if any are given.
func RunIntegrationTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, modules...)
}

// RunIntegrationTestWithContext is RunIntegrationTest with a caller context.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	a, logs, dir := NewProjectApp(t, files, nil, modules...)
	reg, err := a.Resolve(ctx)
	return &HarnessResult{
		Dir:       dir,
		LogOutput: logs.String(),
		Err:       err,
		App:       a,
		Registry:  reg,
	}
}
