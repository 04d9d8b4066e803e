package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDepType(t *testing.T) {
	testCases := []struct {
		in      string
		want    DepType
		build   bool
		runtime bool
	}{
		{"", DepAll, true, true},
		{"build", DepBuild, true, false},
		{"runtime", DepRuntime, false, true},
	}
	for _, tc := range testCases {
		t.Run(tc.want.String(), func(t *testing.T) {
			got, err := ParseDepType(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.build, got.Build())
			assert.Equal(t, tc.runtime, got.Runtime())
		})
	}

	_, err := ParseDepType("test")
	assert.ErrorContains(t, err, `invalid dependency type "test"`)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "base.bst", JoinKey("", "base.bst"))
	assert.Equal(t, "tc.bst:gcc.bst", JoinKey("tc.bst", "gcc.bst"))
	assert.Equal(t, "tc.bst:base.bst:libc.bst", JoinKey(JoinKey("tc.bst", "base.bst"), "libc.bst"))

	j, f := SplitKey("tc.bst:base.bst:libc.bst")
	assert.Equal(t, "tc.bst:base.bst", j)
	assert.Equal(t, "libc.bst", f)

	j, f = SplitKey("local.bst")
	assert.Empty(t, j)
	assert.Equal(t, "local.bst", f)
}

func TestResolved_Public(t *testing.T) {
	r := &Resolved{
		Public: map[string]any{
			"bst": map[string]any{
				"integration-commands": []any{"ldconfig", "update-mime-database"},
			},
			"other": "not a mapping",
		},
	}
	assert.Equal(t, []string{"ldconfig", "update-mime-database"}, r.IntegrationCommands())
	assert.Nil(t, r.PublicDomain("other"))
	assert.Nil(t, r.PublicDomain("missing"))
	assert.Empty(t, (&Resolved{}).IntegrationCommands())
}

func TestResolved_Fingerprint(t *testing.T) {
	a := &Resolved{
		Name:      "a.bst",
		Kind:      "manual",
		Variables: map[string]string{"x": "1", "y": "2"},
		Config:    map[string]any{"k": []any{"v"}},
	}
	b := &Resolved{
		Name:      "a.bst",
		Kind:      "manual",
		Variables: map[string]string{"y": "2", "x": "1"},
		Config:    map[string]any{"k": []any{"v"}},
	}

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb)

	b.Variables["x"] = "changed"
	fb, err = b.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fa, fb)
}

func TestResolved_Clone(t *testing.T) {
	orig := &Resolved{
		Name:        "a.bst",
		Kind:        "manual",
		Depends:     []Dependency{{Filename: "b.bst"}},
		Sources:     []Source{{Kind: "local", Config: map[string]any{"path": "src"}}},
		Variables:   map[string]string{"prefix": "/usr"},
		Environment: map[string]string{"CC": "gcc"},
		Config:      map[string]any{"build-commands": []any{"make"}},
		Public:      map[string]any{"bst": map[string]any{"split-rules": map[string]any{}}},
	}
	c := orig.Clone()
	assert.Equal(t, orig, c)

	c.Depends[0].Filename = "changed.bst"
	c.Sources[0].Config["path"] = "elsewhere"
	c.Variables["prefix"] = "/opt"
	c.Environment["CC"] = "clang"
	c.Config["build-commands"].([]any)[0] = "ninja"
	c.PublicDomain("bst")["split-rules"] = nil

	assert.Equal(t, "b.bst", orig.Depends[0].Filename)
	assert.Equal(t, "src", orig.Sources[0].Config["path"])
	assert.Equal(t, "/usr", orig.Variables["prefix"])
	assert.Equal(t, "gcc", orig.Environment["CC"])
	assert.Equal(t, []any{"make"}, orig.Config["build-commands"])
	assert.Equal(t, map[string]any{}, orig.PublicDomain("bst")["split-rules"])
}
