package hcl_adapter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bstgraph/internal/config"
	"github.com/vk/bstgraph/internal/loaderr"
)

func decodeSource(t *testing.T, src string) (*config.Project, error) {
	t.Helper()
	f, diags := hclparse.NewParser().ParseHCL([]byte(src), ProjectFile)
	require.False(t, diags.HasErrors(), diags.Error())
	return NewLoader().decode(context.Background(), "/proj", ProjectFile, f.Body)
}

func TestLoadProject(t *testing.T) {
	src := `
name         = "demo"
element_path = "elems"

variables = {
  prefix = "/opt"
  jobs   = 4
  bindir = "%%{prefix}/bin"
}

environment = {
  LC_ALL = "C"
}

environment_nocache = ["MAXJOBS"]

element "autotools" {
  variables = {
    conf-extra = "--disable-static"
  }
  config = {
    strip = false
    build-commands = ["make V=1"]
  }
  sandbox = {
    build-uid = 0
  }
}
`
	p, err := decodeSource(t, src)
	require.NoError(t, err)

	assert.Equal(t, "demo", p.Name)
	assert.Equal(t, "/proj", p.Dir)
	assert.Equal(t, "elems", p.ElementPath)
	assert.Empty(t, p.KindPath)

	assert.Equal(t, map[string]any{"prefix": "/opt", "jobs": "4", "bindir": "%{prefix}/bin"}, p.Defaults.Fields["variables"])
	assert.Equal(t, map[string]any{"LC_ALL": "C"}, p.Defaults.Fields["environment"])
	assert.Equal(t, []any{"MAXJOBS"}, p.Defaults.Fields["environment-nocache"])
	assert.Equal(t, "project.hcl:5:13", p.Defaults.Positions["variables"])

	l, ok := p.KindLayer("autotools")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"conf-extra": "--disable-static"}, l.Fields["variables"])
	assert.Equal(t, map[string]any{"strip": false, "build-commands": []any{"make V=1"}}, l.Fields["config"])
	assert.Equal(t, map[string]any{"build-uid": 0}, l.Fields["sandbox"])
	assert.NotContains(t, l.Fields, "public")

	_, ok = p.KindLayer("manual")
	assert.False(t, ok)
}

func TestLoadProject_Defaults(t *testing.T) {
	p, err := decodeSource(t, `name = "minimal"`)
	require.NoError(t, err)
	assert.Equal(t, DefaultElementPath, p.ElementPath)
	assert.Empty(t, p.Defaults.Fields)
	assert.Empty(t, p.KindOverrides)
}

func TestLoadProject_Errors(t *testing.T) {
	testCases := []struct {
		name, src, want string
	}{
		{"missing name", `element_path = "x"`, `The argument "name" is required`},
		{"empty name", `name = ""`, "project name must not be empty"},
		{"unknown attribute", "name = \"p\"\nbogus = 1\n", "Unsupported argument"},
		{"variables not an object", "name = \"p\"\nvariables = [\"a\"]\n", "variables: expected an object"},
		{"variable not a string", "name = \"p\"\nvariables = { a = [1] }\n", "in attribute 'a': expected a string"},
		{"duplicate kind", "name = \"p\"\nelement \"manual\" {}\nelement \"manual\" {}\n", `duplicate element block for kind "manual"`},
		{"nocache not strings", "name = \"p\"\nenvironment_nocache = [[1]]\n", "expected a list of strings"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeSource(t, tc.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, loaderr.ErrMalformedDeclaration))
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoadProject_FromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte("name = \"disk\"\nkind_path = \"kinds\"\n"), 0o644))

	p, err := NewLoader().LoadProject(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "disk", p.Name)
	assert.Equal(t, "kinds", p.KindPath)
	assert.Equal(t, filepath.Join(dir, ProjectFile), p.Origin)

	_, err = NewLoader().LoadProject(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "failed to parse project file")
}
