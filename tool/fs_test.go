package tool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/webagent"
)

// testEnv builds an initialized registry with the fs tool set over a fresh
// temporary workspace.
func testEnv(t *testing.T, config map[string]any) (*Registry, *Environment) {
	t.Helper()
	env := NewEnvironment(t.TempDir(), config)
	r := NewRegistry()
	r.MustRegister(FSTools()...)
	require.NoError(t, r.Init(env))
	return r, env
}

func execTool(t *testing.T, r *Registry, name string, args map[string]any) ai.ToolResult {
	t.Helper()
	tl, err := r.Get(name)
	require.NoError(t, err)
	res, err := tl.Execute(context.Background(), args)
	require.NoError(t, err)
	return res
}

func TestFSWriteRead(t *testing.T) {
	t.Run("writes and reads back a file", func(t *testing.T) {
		r, env := testEnv(t, nil)

		res := execTool(t, r, "fs.write", map[string]any{
			"path":    "src/index.js",
			"content": "console.log('hi');\n",
		})
		require.True(t, res.OK, res.Error)
		assert.Equal(t, len("console.log('hi');\n"), res.Data["bytes"])

		onDisk, err := os.ReadFile(filepath.Join(env.Root(), "src", "index.js"))
		require.NoError(t, err)
		assert.Equal(t, "console.log('hi');\n", string(onDisk))

		res = execTool(t, r, "fs.read", map[string]any{"path": "src/index.js"})
		require.True(t, res.OK, res.Error)
		assert.Equal(t, "console.log('hi');\n", res.Data["content"])
	})

	t.Run("read of a missing file fails", func(t *testing.T) {
		r, _ := testEnv(t, nil)

		res := execTool(t, r, "fs.read", map[string]any{"path": "missing.txt"})
		assert.False(t, res.OK)
		assert.NotEmpty(t, res.Error)
	})

	t.Run("rejects paths escaping the workspace", func(t *testing.T) {
		r, _ := testEnv(t, nil)

		res := execTool(t, r, "fs.write", map[string]any{
			"path":    "../outside.txt",
			"content": "x",
		})
		assert.False(t, res.OK)
		assert.Contains(t, res.Error, "outside the workspace")
	})
}

func TestFSEdit(t *testing.T) {
	t.Run("replaces first occurrence only", func(t *testing.T) {
		r, _ := testEnv(t, nil)
		execTool(t, r, "fs.write", map[string]any{
			"path":    "app.js",
			"content": "const a = 1;\nconst a = 1;\n",
		})

		res := execTool(t, r, "fs.edit", map[string]any{
			"path":     "app.js",
			"old_text": "const a = 1;",
			"new_text": "const b = 2;",
		})
		require.True(t, res.OK, res.Error)

		read := execTool(t, r, "fs.read", map[string]any{"path": "app.js"})
		assert.Equal(t, "const b = 2;\nconst a = 1;\n", read.Data["content"])
	})

	t.Run("fails when old_text is absent", func(t *testing.T) {
		r, _ := testEnv(t, nil)
		execTool(t, r, "fs.write", map[string]any{"path": "app.js", "content": "hello"})

		res := execTool(t, r, "fs.edit", map[string]any{
			"path":     "app.js",
			"old_text": "goodbye",
			"new_text": "x",
		})
		assert.False(t, res.OK)
		assert.Contains(t, res.Error, "old_text not found")
	})
}

func TestFSDelete(t *testing.T) {
	t.Run("deletes a file", func(t *testing.T) {
		r, env := testEnv(t, nil)
		execTool(t, r, "fs.write", map[string]any{"path": "tmp.txt", "content": "x"})

		res := execTool(t, r, "fs.delete", map[string]any{"path": "tmp.txt"})
		require.True(t, res.OK, res.Error)
		assert.NoFileExists(t, filepath.Join(env.Root(), "tmp.txt"))
	})

	t.Run("refuses to delete a directory", func(t *testing.T) {
		r, _ := testEnv(t, nil)
		execTool(t, r, "fs.mkdir", map[string]any{"path": "sub"})

		res := execTool(t, r, "fs.delete", map[string]any{"path": "sub"})
		assert.False(t, res.OK)
		assert.Contains(t, res.Error, "fs.rmdir")
	})
}

func TestFSMkdirRmdir(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		r, env := testEnv(t, nil)

		res := execTool(t, r, "fs.mkdir", map[string]any{"path": "a/b/c"})
		require.True(t, res.OK, res.Error)
		assert.DirExists(t, filepath.Join(env.Root(), "a", "b", "c"))
	})

	t.Run("removes an empty directory", func(t *testing.T) {
		r, env := testEnv(t, nil)
		execTool(t, r, "fs.mkdir", map[string]any{"path": "empty"})

		res := execTool(t, r, "fs.rmdir", map[string]any{"path": "empty"})
		require.True(t, res.OK, res.Error)
		assert.NoDirExists(t, filepath.Join(env.Root(), "empty"))
	})

	t.Run("non-empty directory needs recursive", func(t *testing.T) {
		r, env := testEnv(t, nil)
		execTool(t, r, "fs.write", map[string]any{"path": "full/file.txt", "content": "x"})

		res := execTool(t, r, "fs.rmdir", map[string]any{"path": "full"})
		assert.False(t, res.OK)

		res = execTool(t, r, "fs.rmdir", map[string]any{"path": "full", "recursive": true})
		require.True(t, res.OK, res.Error)
		assert.NoDirExists(t, filepath.Join(env.Root(), "full"))
	})
}

func TestFSListing(t *testing.T) {
	t.Run("ls returns typed entries and hides the data dir", func(t *testing.T) {
		r, env := testEnv(t, nil)
		execTool(t, r, "fs.write", map[string]any{"path": "readme.md", "content": "x"})
		execTool(t, r, "fs.mkdir", map[string]any{"path": "src"})
		require.NoError(t, os.MkdirAll(env.DataDir(), 0o755))

		res := execTool(t, r, "fs.ls", map[string]any{})
		require.True(t, res.OK, res.Error)

		entries := res.Data["entries"].([]any)
		require.Len(t, entries, 2)
		names := map[string]string{}
		for _, e := range entries {
			m := e.(map[string]any)
			names[m["name"].(string)] = m["type"].(string)
		}
		assert.Equal(t, "file", names["readme.md"])
		assert.Equal(t, "dir", names["src"])
	})

	t.Run("tree respects max_depth", func(t *testing.T) {
		r, _ := testEnv(t, nil)
		execTool(t, r, "fs.write", map[string]any{"path": "a/b/c/deep.txt", "content": "x"})

		res := execTool(t, r, "fs.tree", map[string]any{"path": ".", "max_depth": 2})
		require.True(t, res.OK, res.Error)

		tree := res.Data["tree"].([]any)
		require.Len(t, tree, 1)
		a := tree[0].(map[string]any)
		assert.Equal(t, "a", a["name"])
		b := a["children"].([]any)[0].(map[string]any)
		assert.Equal(t, "b", b["name"])
		assert.Empty(t, b["children"])
	})
}

func TestFSProtectedPaths(t *testing.T) {
	config := map[string]any{
		"protected_files": []any{"server.js", "config"},
	}

	t.Run("write to a protected file is rejected", func(t *testing.T) {
		r, _ := testEnv(t, config)

		res := execTool(t, r, "fs.write", map[string]any{
			"path":    "server.js",
			"content": "x",
		})
		assert.False(t, res.OK)
		assert.Contains(t, res.Error, "protected")
	})

	t.Run("paths under a protected directory are rejected", func(t *testing.T) {
		r, _ := testEnv(t, config)

		res := execTool(t, r, "fs.delete", map[string]any{"path": "config/app.json"})
		assert.False(t, res.OK)
		assert.Contains(t, res.Error, "protected")
	})

	t.Run("agent data directory is always protected", func(t *testing.T) {
		r, _ := testEnv(t, nil)

		res := execTool(t, r, "fs.write", map[string]any{
			"path":    DataDirName + "/config.json",
			"content": "{}",
		})
		assert.False(t, res.OK)
		assert.Contains(t, res.Error, "protected")
	})

	t.Run("reads of protected files are allowed", func(t *testing.T) {
		r, env := testEnv(t, config)
		require.NoError(t, os.WriteFile(
			filepath.Join(env.Root(), "server.js"), []byte("keep"), 0o644))

		res := execTool(t, r, "fs.read", map[string]any{"path": "server.js"})
		require.True(t, res.OK, res.Error)
		assert.Equal(t, "keep", res.Data["content"])
	})
}
