package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bstgraph/internal/engine"
	"github.com/vk/bstgraph/internal/loaderr"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func demoProject(t *testing.T) string {
	return writeProject(t, map[string]string{
		"project.hcl":       `name = "demo"`,
		"elements/base.bst": "kind: import\n",
		"elements/rt.bst":   "kind: import\n",
		"elements/hello.bst": `kind: manual
depends:
- filename: base.bst
  type: build
- filename: rt.bst
  type: runtime
`,
	})
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, sub := range root.Commands() {
		if sub.Name() == "help" || sub.Name() == "completion" {
			continue
		}
		names = append(names, sub.Name())
		assert.NotNil(t, sub.RunE, "command %q has nil RunE", sub.Name())
	}
	assert.ElementsMatch(t, []string{"show", "plan", "deps", "schedule", "watch"}, names)
}

func TestPlan(t *testing.T) {
	out, err := run(t, "plan", "-C", demoProject(t))
	require.NoError(t, err)
	assert.Equal(t, "base.bst\nhello.bst: base.bst\nrt.bst\n", out)
}

func TestDeps(t *testing.T) {
	dir := demoProject(t)
	testCases := []struct {
		scope string
		want  string
	}{
		{"build", "base.bst\n"},
		{"run", "rt.bst\n"},
		{"all", "base.bst\nrt.bst\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.scope, func(t *testing.T) {
			out, err := run(t, "deps", "hello.bst", "--scope", tc.scope, "--project", dir)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestShow_JSON(t *testing.T) {
	out, err := run(t, "show", "hello.bst", "--format", "json", "-C", demoProject(t))
	require.NoError(t, err)

	var got map[string]struct {
		Name      string            `json:"name"`
		Kind      string            `json:"kind"`
		Variables map[string]string `json:"variables"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Contains(t, got, "hello.bst")
	assert.Equal(t, "manual", got["hello.bst"].Kind)
	assert.Equal(t, "hello", got["hello.bst"].Variables["element-name"])
}

func TestShow_YAMLAllElements(t *testing.T) {
	out, err := run(t, "show", "-C", demoProject(t))
	require.NoError(t, err)
	assert.Contains(t, out, "base.bst:\n")
	assert.Contains(t, out, "hello.bst:\n")
	assert.Contains(t, out, "kind: manual")
}

func TestShow_UnknownElement(t *testing.T) {
	_, err := run(t, "show", "nope.bst", "-C", demoProject(t))
	assert.True(t, errors.Is(err, engine.ErrElementNotFound))
}

func TestSchedule(t *testing.T) {
	out, err := run(t, "schedule", "--workers", "1", "-C", demoProject(t))
	require.NoError(t, err)
	assert.Equal(t, "1 base.bst\n2 rt.bst\n3 hello.bst\n", out)
}

func TestResolutionError(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"project.hcl":    `name = "broken"`,
		"elements/a.bst": "kind: stack\ndepends:\n- missing.bst\n",
	})
	_, err := run(t, "plan", "-C", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, loaderr.ErrUnknownDependencyTarget))

	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func TestUsageErrors(t *testing.T) {
	dir := demoProject(t)
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"plan", "--bogus"}, "unknown flag: --bogus"},
		{"bad log level", []string{"plan", "-C", dir, "--log-level", "loud"}, "invalid log level"},
		{"bad log format", []string{"plan", "-C", dir, "--log-format", "xml"}, "invalid log format"},
		{"bad scope", []string{"deps", "hello.bst", "-C", dir, "--scope", "test"}, "invalid scope"},
		{"bad show format", []string{"show", "-C", dir, "--format", "toml"}, "invalid format"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.args...)
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "got %v", err)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}
