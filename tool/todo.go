package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ai "github.com/spetersoncode/webagent"
	"github.com/spetersoncode/webagent/schema"
)

// todoFileName is the todo store inside the agent data directory.
const todoFileName = "todos.json"

// Todo statuses.
const (
	todoStatusPending   = "pending"
	todoStatusCompleted = "completed"
)

// todoItem is one persisted todo entry.
type todoItem struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// TodoTools returns the TODO tracking tool set. Todos persist in the agent
// data directory and survive across runs; IDs are sequential integers that
// are never reused.
func TodoTools() []Tool {
	return []Tool{
		todoAddTool(),
		todoListTool(),
		todoCompleteTool(),
		todoRemoveTool(),
	}
}

func todoAddTool() Tool {
	return New("todo.add",
		"Add a todo item with the given description. Returns the new todo's id.",
		schema.New().
			Add("description", schema.TypeString, true, "What needs to be done"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			description := args["description"].(string)

			todos, err := loadTodos(env)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}

			next := 0
			for _, t := range todos {
				if t.ID > next {
					next = t.ID
				}
			}
			item := todoItem{
				ID:          next + 1,
				Description: description,
				Status:      todoStatusPending,
				CreatedAt:   time.Now().UTC().Format(time.RFC3339),
			}
			todos = append(todos, item)

			if err := saveTodos(env, todos); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			return ai.OKResult(map[string]any{
				"id":          item.ID,
				"description": item.Description,
				"status":      item.Status,
			}), nil
		})
}

func todoListTool() Tool {
	return New("todo.list",
		"List todo items, optionally filtered by status (pending, completed, or all).",
		schema.New().
			Add("status", schema.TypeString, false, "Filter: pending, completed, or all (default all)"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			status, _ := args["status"].(string)
			if status == "" {
				status = "all"
			}
			switch status {
			case "all", todoStatusPending, todoStatusCompleted:
			default:
				return ai.ErrorResult(fmt.Sprintf("invalid status filter %q: use pending, completed, or all", status)), nil
			}

			todos, err := loadTodos(env)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}

			listed := make([]any, 0, len(todos))
			for _, t := range todos {
				if status != "all" && t.Status != status {
					continue
				}
				listed = append(listed, map[string]any{
					"id":          t.ID,
					"description": t.Description,
					"status":      t.Status,
				})
			}
			return ai.OKResult(map[string]any{
				"todos": listed,
				"count": len(listed),
			}), nil
		})
}

func todoCompleteTool() Tool {
	return New("todo.complete",
		"Mark a todo item as completed. Completing an already-completed todo is a no-op.",
		schema.New().
			Add("id", schema.TypeInt, true, "Todo id to complete"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			id := args["id"].(int)

			todos, err := loadTodos(env)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}

			for i := range todos {
				if todos[i].ID != id {
					continue
				}
				if todos[i].Status != todoStatusCompleted {
					todos[i].Status = todoStatusCompleted
					todos[i].CompletedAt = time.Now().UTC().Format(time.RFC3339)
					if err := saveTodos(env, todos); err != nil {
						return ai.ErrorResult(err.Error()), nil
					}
				}
				return ai.OKResult(map[string]any{
					"id":     id,
					"status": todoStatusCompleted,
				}), nil
			}
			return ai.ErrorResult(fmt.Sprintf("no todo with id %d", id)), nil
		})
}

func todoRemoveTool() Tool {
	return New("todo.remove",
		"Remove a todo item.",
		schema.New().
			Add("id", schema.TypeInt, true, "Todo id to remove"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			id := args["id"].(int)

			todos, err := loadTodos(env)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}

			for i := range todos {
				if todos[i].ID != id {
					continue
				}
				todos = append(todos[:i], todos[i+1:]...)
				if err := saveTodos(env, todos); err != nil {
					return ai.ErrorResult(err.Error()), nil
				}
				return ai.OKResult(map[string]any{"id": id}), nil
			}
			return ai.ErrorResult(fmt.Sprintf("no todo with id %d", id)), nil
		})
}

func todoPath(env *Environment) string {
	return filepath.Join(env.DataDir(), todoFileName)
}

func loadTodos(env *Environment) ([]todoItem, error) {
	data, err := os.ReadFile(todoPath(env))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var todos []todoItem
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, fmt.Errorf("todo store is corrupt: %w", err)
	}
	return todos, nil
}

func saveTodos(env *Environment, todos []todoItem) error {
	data, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(env.DataDir(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(todoPath(env), data, 0o644)
}
