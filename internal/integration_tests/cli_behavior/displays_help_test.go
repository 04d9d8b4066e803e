package integration_tests

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bstgraph/internal/cli"
)

// Test for: running without a command displays help.
func TestCLI_DisplaysHelp_WhenNoCommandIsGiven(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	err := cli.Execute(context.Background(), nil, &out, &errOut)
	require.NoError(t, err)

	for _, want := range []string{"Usage:", "show", "plan", "deps", "schedule", "watch", "--project"} {
		assert.Contains(t, out.String(), want)
	}
}
