package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoutesCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "__root__")
	assert.Contains(t, out, "validate,loader,view")
	assert.Contains(t, out, "served paths: /, /test, /test/")
}

func TestResolveCommand(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		out, err := run(t, "resolve", "/test", "foo=bar&name=Tanner&filters.nested=i+am+nested&preSet=x")
		require.NoError(t, err)
		assert.Contains(t, out, "route: /test/")
		assert.Contains(t, out, "keys:  filters, foo, name, preSet")

		body := out[strings.Index(out, "{"):]
		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(body), &got))
		assert.Equal(t, map[string]any{
			"foo":     "bar",
			"name":    "Tanner",
			"preSet":  "preSearchFilters",
			"filters": map[string]any{"nested": "i am nested"},
		}, got)
	})

	t.Run("rejected", func(t *testing.T) {
		t.Parallel()

		out, err := run(t, "resolve", "/test/")
		require.Error(t, err)
		assert.Contains(t, out, "rejected by /test/")
		assert.Contains(t, out, "foo: is required")
	})

	t.Run("unknown path", func(t *testing.T) {
		t.Parallel()

		_, err := run(t, "resolve", "/nope")
		require.Error(t, err)
	})
}
