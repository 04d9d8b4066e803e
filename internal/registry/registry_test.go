package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bstgraph/internal/loaderr"
)

type fakeModule struct {
	name, defaults string
}

func (m *fakeModule) Register(r *Registry) {
	r.MustRegisterYAML(m.name, []byte(m.defaults))
}

func TestNew_RegistersModules(t *testing.T) {
	r := New(
		&fakeModule{name: "manual", defaults: "variables:\n  prefix: /usr\n"},
		&fakeModule{name: "stack", defaults: "config: {}\n"},
	)
	assert.Equal(t, []string{"manual", "stack"}, r.Kinds())

	k, err := r.Lookup("manual")
	require.NoError(t, err)
	assert.Equal(t, "manual", k.Name)
	assert.Equal(t, map[string]any{"prefix": "/usr"}, k.Defaults.Fields["variables"])
	assert.Equal(t, "manual defaults", k.Defaults.Origin)
}

func TestLookup_UnknownKind(t *testing.T) {
	_, err := New().Lookup("cmake")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKind))
	assert.ErrorContains(t, err, `"cmake"`)
}

func TestRegisterKind_DuplicatePanics(t *testing.T) {
	r := New(&fakeModule{name: "manual", defaults: "{}"})
	assert.Panics(t, func() { r.MustRegisterYAML("manual", []byte("{}")) })
}

func TestParseKind_Invalid(t *testing.T) {
	testCases := []struct {
		name, data, want string
	}{
		{"bad yaml", "variables: [", "parsing defaults of kind"},
		{"unknown key", "bogus: 1\n", `x.yaml:1:1: malformed declaration: unknown key "bogus"`},
		{"element-only key", "depends: [a.bst]\n", "key 'depends' cannot be set for a whole kind"},
		{"kind key", "kind: tool\n", "key 'kind' cannot be set for a whole kind"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseKind("x", "x.yaml", []byte(tc.data))
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.want)
			assert.True(t, errors.Is(err, loaderr.ErrMalformedDeclaration))
		})
	}
}

func TestParseKind_KeepsVariablesAsWritten(t *testing.T) {
	k, err := ParseKind("tool", "tool.yaml", []byte("variables:\n  version: 1.10\nenvironment:\n  JOBS: 08\nsandbox:\n  build-uid: 1000\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"version": "1.10"}, k.Defaults.Fields["variables"])
	assert.Equal(t, map[string]any{"JOBS": "08"}, k.Defaults.Fields["environment"])
	assert.Equal(t, map[string]any{"build-uid": 1000}, k.Defaults.Fields["sandbox"])
	assert.Equal(t, "tool.yaml:2:12", k.Defaults.Pos("variables.version"))
}

func TestLoadKindsDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "local"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cmake.yaml"), []byte("variables:\n  generator: Ninja\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local", "meson.yaml"), []byte("config: {}\n"), 0o644))

	r := New(&fakeModule{name: "manual", defaults: "{}"})
	require.NoError(t, r.LoadKindsDir(context.Background(), dir))
	assert.Equal(t, []string{"cmake", "local/meson", "manual"}, r.Kinds())

	k, err := r.Lookup("cmake")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cmake.yaml"), k.Defaults.Origin)
}

func TestLoadKindsDir_NoShadowing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manual.yaml"), []byte("{}"), 0o644))

	r := New(&fakeModule{name: "manual", defaults: "{}"})
	err := r.LoadKindsDir(context.Background(), dir)
	assert.ErrorContains(t, err, "kind 'manual' is already defined")
	assert.True(t, errors.Is(err, loaderr.ErrMalformedDeclaration))

	le, ok := loaderr.As(err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "manual.yaml"), le.Provenance)
}

func TestLoadKindsDir_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("sources: []\n"), 0o644))

	err := New().LoadKindsDir(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, loaderr.ErrMalformedDeclaration))
	assert.ErrorContains(t, err, "key 'sources' cannot be set for a whole kind")
}

func TestClone(t *testing.T) {
	r := New(&fakeModule{name: "manual", defaults: "{}"})
	c := r.Clone()
	c.MustRegisterYAML("stack", []byte("{}"))
	assert.Equal(t, []string{"manual"}, r.Kinds())
	assert.Equal(t, []string{"manual", "stack"}, c.Kinds())
}
