package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ai "github.com/spetersoncode/webagent"
	"github.com/spetersoncode/webagent/schema"
)

// FSTools returns the file-system tool set. All paths are relative to the
// workspace root; writes and deletes honor the protected-paths list.
func FSTools() []Tool {
	return []Tool{
		fsWriteTool(),
		fsReadTool(),
		fsEditTool(),
		fsDeleteTool(),
		fsMkdirTool(),
		fsRmdirTool(),
		fsLsTool(),
		fsTreeTool(),
	}
}

func fsWriteTool() Tool {
	return New("fs.write",
		"Create or overwrite a file with the given content. Parent directories are created as needed.",
		schema.New().
			Add("path", schema.TypeString, true, "File path relative to the workspace root").
			Add("content", schema.TypeString, true, "Full file content"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			path := args["path"].(string)
			content := args["content"].(string)

			if env.IsProtected(path) {
				return ai.ErrorResult(fmt.Sprintf("path %q is protected", path)), nil
			}
			full, err := env.Resolve(path)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			return ai.OKResult(map[string]any{
				"path":  path,
				"bytes": len(content),
			}), nil
		})
}

func fsReadTool() Tool {
	return New("fs.read",
		"Read a file and return its content.",
		schema.New().
			Add("path", schema.TypeString, true, "File path relative to the workspace root"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			path := args["path"].(string)

			full, err := env.Resolve(path)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			content, err := os.ReadFile(full)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			return ai.OKResult(map[string]any{
				"path":    path,
				"content": string(content),
			}), nil
		})
}

func fsEditTool() Tool {
	return New("fs.edit",
		"Replace the first occurrence of old_text with new_text in a file. Fails if old_text is not found.",
		schema.New().
			Add("path", schema.TypeString, true, "File path relative to the workspace root").
			Add("old_text", schema.TypeString, true, "Exact text to replace").
			Add("new_text", schema.TypeString, true, "Replacement text"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			path := args["path"].(string)
			oldText := args["old_text"].(string)
			newText := args["new_text"].(string)

			if env.IsProtected(path) {
				return ai.ErrorResult(fmt.Sprintf("path %q is protected", path)), nil
			}
			full, err := env.Resolve(path)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			content, err := os.ReadFile(full)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			text := string(content)
			if !strings.Contains(text, oldText) {
				return ai.ErrorResult(fmt.Sprintf("old_text not found in %q", path)), nil
			}
			edited := strings.Replace(text, oldText, newText, 1)
			if err := os.WriteFile(full, []byte(edited), 0o644); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			return ai.OKResult(map[string]any{"path": path}), nil
		})
}

func fsDeleteTool() Tool {
	return New("fs.delete",
		"Delete a file. Fails if the path does not exist or is a directory.",
		schema.New().
			Add("path", schema.TypeString, true, "File path relative to the workspace root"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			path := args["path"].(string)

			if env.IsProtected(path) {
				return ai.ErrorResult(fmt.Sprintf("path %q is protected", path)), nil
			}
			full, err := env.Resolve(path)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			info, err := os.Stat(full)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			if info.IsDir() {
				return ai.ErrorResult(fmt.Sprintf("%q is a directory; use fs.rmdir", path)), nil
			}
			if err := os.Remove(full); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			return ai.OKResult(map[string]any{"path": path}), nil
		})
}

func fsMkdirTool() Tool {
	return New("fs.mkdir",
		"Create a directory, including any missing parents.",
		schema.New().
			Add("path", schema.TypeString, true, "Directory path relative to the workspace root"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			path := args["path"].(string)

			if env.IsProtected(path) {
				return ai.ErrorResult(fmt.Sprintf("path %q is protected", path)), nil
			}
			full, err := env.Resolve(path)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			if err := os.MkdirAll(full, 0o755); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			return ai.OKResult(map[string]any{"path": path}), nil
		})
}

func fsRmdirTool() Tool {
	return New("fs.rmdir",
		"Remove a directory. An empty directory is removed directly; pass recursive=true to remove contents too.",
		schema.New().
			Add("path", schema.TypeString, true, "Directory path relative to the workspace root").
			Add("recursive", schema.TypeBool, false, "Remove non-empty directories and their contents"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			path := args["path"].(string)
			recursive, _ := args["recursive"].(bool)

			if env.IsProtected(path) {
				return ai.ErrorResult(fmt.Sprintf("path %q is protected", path)), nil
			}
			full, err := env.Resolve(path)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			info, err := os.Stat(full)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			if !info.IsDir() {
				return ai.ErrorResult(fmt.Sprintf("%q is not a directory", path)), nil
			}
			if recursive {
				err = os.RemoveAll(full)
			} else {
				err = os.Remove(full)
			}
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			return ai.OKResult(map[string]any{"path": path}), nil
		})
}

func fsLsTool() Tool {
	return New("fs.ls",
		"List the entries of a directory.",
		schema.New().
			Add("path", schema.TypeString, false, "Directory path relative to the workspace root; defaults to the root"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			path, _ := args["path"].(string)
			if path == "" {
				path = "."
			}

			full, err := env.Resolve(path)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			dirEntries, err := os.ReadDir(full)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}

			entries := make([]any, 0, len(dirEntries))
			for _, de := range dirEntries {
				if de.Name() == DataDirName {
					continue
				}
				kind := "file"
				if de.IsDir() {
					kind = "dir"
				}
				entries = append(entries, map[string]any{
					"name": de.Name(),
					"type": kind,
				})
			}
			return ai.OKResult(map[string]any{
				"path":    path,
				"entries": entries,
			}), nil
		})
}

func fsTreeTool() Tool {
	return New("fs.tree",
		"Show the directory tree below a path, up to max_depth levels deep.",
		schema.New().
			Add("path", schema.TypeString, false, "Directory path relative to the workspace root; defaults to the root").
			Add("max_depth", schema.TypeInt, false, "Maximum depth to descend; defaults to 3"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			path, _ := args["path"].(string)
			if path == "" {
				path = "."
			}
			maxDepth := 3
			if d, ok := args["max_depth"].(int); ok {
				maxDepth = d
			}

			full, err := env.Resolve(path)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			tree, err := buildTree(full, maxDepth)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			return ai.OKResult(map[string]any{
				"path": path,
				"tree": tree,
			}), nil
		})
}

// buildTree lists a directory recursively as nested name/type/children maps.
func buildTree(dir string, depth int) ([]any, error) {
	if depth <= 0 {
		return []any{}, nil
	}
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	tree := make([]any, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.Name() == DataDirName {
			continue
		}
		node := map[string]any{"name": de.Name()}
		if de.IsDir() {
			node["type"] = "dir"
			children, err := buildTree(filepath.Join(dir, de.Name()), depth-1)
			if err != nil {
				return nil, err
			}
			node["children"] = children
		} else {
			node["type"] = "file"
		}
		tree = append(tree, node)
	}
	return tree, nil
}
