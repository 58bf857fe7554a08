package mcputils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for CoerceBindArguments:
// - Properly typed arguments bind unchanged
// - JSON-encoded arrays, booleans and numbers inside strings are decoded
// - Comma-separated strings become slices
// - Invalid JSON passes through as a single element
// - Missing and null arguments leave zero values
// - Optional booleans distinguish "absent" from false
// - JSON objects decode into maps

type mockArgumentGetter struct {
	args map[string]interface{}
}

func (m *mockArgumentGetter) GetArguments() map[string]interface{} {
	return m.args
}

type skeletonsRequest struct {
	Paths    []string `json:"paths"`
	FullDocs *bool    `json:"full_docs,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

func TestCoerceBindArguments(t *testing.T) {
	t.Parallel()

	t.Run("proper types", func(t *testing.T) {
		var result skeletonsRequest
		err := CoerceBindArguments(&mockArgumentGetter{args: map[string]interface{}{
			"paths":     []interface{}{"a.go", "b.py"},
			"full_docs": true,
			"limit":     float64(10),
		}}, &result)
		require.NoError(t, err)

		assert.Equal(t, []string{"a.go", "b.py"}, result.Paths)
		require.NotNil(t, result.FullDocs)
		assert.True(t, *result.FullDocs)
		assert.Equal(t, 10, result.Limit)
	})

	t.Run("JSON strings", func(t *testing.T) {
		var result skeletonsRequest
		err := CoerceBindArguments(&mockArgumentGetter{args: map[string]interface{}{
			"paths":     `["src/main.rs", "lib/util.ts"]`,
			"full_docs": "false",
			"limit":     "5",
		}}, &result)
		require.NoError(t, err)

		assert.Equal(t, []string{"src/main.rs", "lib/util.ts"}, result.Paths)
		require.NotNil(t, result.FullDocs)
		assert.False(t, *result.FullDocs)
		assert.Equal(t, 5, result.Limit)
	})

	t.Run("comma separated", func(t *testing.T) {
		var result skeletonsRequest
		err := CoerceBindArguments(&mockArgumentGetter{args: map[string]interface{}{
			"paths": "a.go,b.go",
		}}, &result)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.go", "b.go"}, result.Paths)
	})

	t.Run("invalid JSON passes through", func(t *testing.T) {
		var result skeletonsRequest
		err := CoerceBindArguments(&mockArgumentGetter{args: map[string]interface{}{
			"paths": "[not json",
		}}, &result)
		require.NoError(t, err)
		assert.Equal(t, []string{"[not json"}, result.Paths)
	})

	t.Run("missing and null", func(t *testing.T) {
		var result skeletonsRequest
		err := CoerceBindArguments(&mockArgumentGetter{args: map[string]interface{}{
			"limit": nil,
		}}, &result)
		require.NoError(t, err)
		assert.Empty(t, result.Paths)
		assert.Nil(t, result.FullDocs)
		assert.Zero(t, result.Limit)
	})

	t.Run("JSON object", func(t *testing.T) {
		type objectRequest struct {
			Options map[string]interface{} `json:"options"`
		}

		var result objectRequest
		err := CoerceBindArguments(&mockArgumentGetter{args: map[string]interface{}{
			"options": `{"verbose": true, "depth": 2}`,
		}}, &result)
		require.NoError(t, err)
		assert.Equal(t, true, result.Options["verbose"])
		assert.Equal(t, float64(2), result.Options["depth"])
	})
}
