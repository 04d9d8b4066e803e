package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bstgraph/internal/testutil"
)

// Test for: every configuration layer contributes, highest priority last.
func TestCoreResolution_LayeredComposition(t *testing.T) {
	files := map[string]string{
		"project.hcl": `
name = "layers"

variables = {
  prefix = "/opt"
}

environment = {
  LC_ALL = "C"
}

element "autotools" {
  variables = {
    conf-local = "--disable-static"
  }
  config = {
    install-commands = ["make DESTDIR=%%{install-root} install"]
  }
}
`,
		"elements/zlib.bst": `kind: autotools
variables:
  prefix: /app
environment:
  CFLAGS: -O2
`,
	}

	result := testutil.RunIntegrationTest(t, files)
	require.NoError(t, result.Err, result.LogOutput)

	zlib, err := result.Registry.ResolvedElement("zlib.bst")
	require.NoError(t, err)

	// element layer beats the project layer
	assert.Equal(t, "/app", zlib.Variables["prefix"])
	assert.Equal(t, "/app/bin", zlib.Variables["bindir"])
	// project per-kind layer beats kind defaults
	assert.Equal(t, "--disable-static", zlib.Variables["conf-local"])
	assert.Equal(t, []any{"make DESTDIR=/buildstream-install install"}, zlib.Config["install-commands"])
	// environment mappings are merged key by key
	assert.Equal(t, "C", zlib.Environment["LC_ALL"])
	assert.Equal(t, "-O2", zlib.Environment["CFLAGS"])
	assert.Equal(t, "/usr/bin:/bin:/usr/sbin:/sbin", zlib.Environment["PATH"])
}

// Test for: variables may be referenced before they are declared.
func TestCoreResolution_DeclarationOrderIrrelevant(t *testing.T) {
	files := map[string]string{
		"project.hcl": `name = "order"`,
		"elements/a.bst": `kind: stack
variables:
  full: "%{head}-%{tail}"
  tail: "%{head}-end"
  head: start
config:
  value: "%{full}"
`,
	}

	result := testutil.RunIntegrationTest(t, files)
	require.NoError(t, result.Err, result.LogOutput)

	a, err := result.Registry.ResolvedElement("a.bst")
	require.NoError(t, err)
	assert.Equal(t, "start-start-end", a.Config["value"])
}
