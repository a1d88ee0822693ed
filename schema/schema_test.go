package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSchema() *Schema {
	return New().
		Add("path", TypeString, true, "Path relative to the workspace root").
		Add("content", TypeString, true, "File content").
		Add("mode", TypeInt, false, "Optional file mode")
}

func TestSchemaAdd(t *testing.T) {
	t.Run("preserves declaration order", func(t *testing.T) {
		s := buildSchema()

		args := s.Arguments()
		require.Len(t, args, 3)
		assert.Equal(t, "path", args[0].Name)
		assert.Equal(t, "content", args[1].Name)
		assert.Equal(t, "mode", args[2].Name)
	})

	t.Run("panics on duplicate argument", func(t *testing.T) {
		assert.Panics(t, func() {
			New().
				Add("path", TypeString, true, "first").
				Add("path", TypeString, true, "second")
		})
	})
}

func TestSchemaValidate(t *testing.T) {
	t.Run("accepts valid arguments", func(t *testing.T) {
		s := buildSchema()

		validated, err := s.Validate(map[string]any{
			"path":    "index.html",
			"content": "<html></html>",
		})

		require.NoError(t, err)
		assert.Equal(t, "index.html", validated["path"])
		assert.Equal(t, "<html></html>", validated["content"])
		assert.NotContains(t, validated, "mode")
	})

	t.Run("coerces integral float to int", func(t *testing.T) {
		s := New().Add("id", TypeInt, true, "Todo identifier")

		validated, err := s.Validate(map[string]any{"id": float64(3)})

		require.NoError(t, err)
		assert.Equal(t, 3, validated["id"])
	})

	t.Run("rejects non-integer number for int", func(t *testing.T) {
		s := New().Add("id", TypeInt, true, "Todo identifier")

		_, err := s.Validate(map[string]any{"id": 3.5})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Problems, 1)
		assert.Contains(t, verr.Problems[0], "non-integer")
	})

	t.Run("enumerates every problem", func(t *testing.T) {
		s := buildSchema()

		_, err := s.Validate(map[string]any{
			"content": 42,
			"extra":   true,
		})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Problems, 3)
		assert.Contains(t, verr.Problems[0], `missing required argument "path"`)
		assert.Contains(t, verr.Problems[1], `argument "content"`)
		assert.Contains(t, verr.Problems[2], `unexpected argument "extra"`)
	})

	t.Run("missing optional argument is not a problem", func(t *testing.T) {
		s := buildSchema()

		_, err := s.Validate(map[string]any{
			"path":    "a.txt",
			"content": "",
		})

		assert.NoError(t, err)
	})

	t.Run("checks every type kind", func(t *testing.T) {
		s := New().
			Add("s", TypeString, true, "").
			Add("n", TypeNumber, true, "").
			Add("b", TypeBool, true, "").
			Add("o", TypeObject, true, "").
			Add("a", TypeArray, true, "")

		validated, err := s.Validate(map[string]any{
			"s": "x",
			"n": 1.5,
			"b": true,
			"o": map[string]any{"k": "v"},
			"a": []any{"x"},
		})

		require.NoError(t, err)
		assert.Len(t, validated, 5)
	})
}
