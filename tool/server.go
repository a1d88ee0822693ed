package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	ai "github.com/spetersoncode/webagent"
	"github.com/spetersoncode/webagent/schema"
)

// Server lifecycle state files inside the agent data directory.
const (
	serverPidFileName = "server.pid"
	serverLogFileName = "server.log"
)

// serverStopTimeout bounds how long npm.stop waits for a graceful exit
// before killing the process group.
const serverStopTimeout = 5 * time.Second

// ServerTools returns the npm server lifecycle tool set. The started process
// is owned by the tools, not the controller: npm.start returns promptly
// after spawning, and npm.stop blocks at most serverStopTimeout.
func ServerTools() []Tool {
	return []Tool{
		npmInitTool(),
		npmStartTool(),
		npmStopTool(),
		npmStatusTool(),
		npmLogsTool(),
	}
}

func npmInitTool() Tool {
	return New("npm.init",
		"Initialize a Node.js project by creating package.json in the workspace root.",
		schema.New(),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			pkgPath := filepath.Join(env.Root(), "package.json")
			if _, err := os.Stat(pkgPath); err == nil {
				return ai.ErrorResult("package.json already exists"), nil
			}

			pkg := map[string]any{
				"name":    filepath.Base(env.Root()),
				"version": "0.1.0",
				"private": true,
				"scripts": map[string]any{
					"start": env.ConfigString("server_command", "node server.js"),
				},
			}
			data, err := json.MarshalIndent(pkg, "", "  ")
			if err != nil {
				return ai.ToolResult{}, err
			}
			if err := os.WriteFile(pkgPath, data, 0o644); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			return ai.OKResult(map[string]any{"path": "package.json"}), nil
		})
}

func npmStartTool() Tool {
	return New("npm.start",
		"Start the project's npm server in the background. Returns promptly; output goes to the server log.",
		schema.New(),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			if _, err := os.Stat(filepath.Join(env.Root(), "package.json")); err != nil {
				return ai.ErrorResult("package.json not found: run npm.init first"), nil
			}
			if pid, running := serverPid(env); running {
				return ai.ErrorResult(fmt.Sprintf("server already running (pid %d)", pid)), nil
			}

			if err := os.MkdirAll(env.DataDir(), 0o755); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			logFile, err := os.OpenFile(serverLogPath(env),
				os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return ai.ErrorResult(err.Error()), nil
			}

			cmd := exec.Command("npm", "start")
			cmd.Dir = env.Root()
			cmd.Stdout = logFile
			cmd.Stderr = logFile
			// Own process group so stop can take down npm's children too.
			cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

			if err := cmd.Start(); err != nil {
				logFile.Close()
				return ai.ErrorResult(err.Error()), nil
			}
			logFile.Close()

			pid := cmd.Process.Pid
			if err := os.WriteFile(serverPidPath(env), []byte(strconv.Itoa(pid)), 0o644); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			// Reap the child when it exits so it never becomes a zombie.
			go cmd.Wait()

			return ai.OKResult(map[string]any{"pid": pid}), nil
		})
}

func npmStopTool() Tool {
	return New("npm.stop",
		"Stop the running npm server. Waits briefly for a graceful exit, then kills the process group.",
		schema.New(),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			pid, running := serverPid(env)
			if !running {
				return ai.ErrorResult("server is not running"), nil
			}

			// Negative pid addresses the whole process group.
			syscall.Kill(-pid, syscall.SIGTERM)

			deadline := time.Now().Add(serverStopTimeout)
			for time.Now().Before(deadline) {
				if !pidAlive(pid) {
					break
				}
				time.Sleep(100 * time.Millisecond)
			}
			if pidAlive(pid) {
				syscall.Kill(-pid, syscall.SIGKILL)
			}

			os.Remove(serverPidPath(env))
			return ai.OKResult(map[string]any{"pid": pid, "stopped": true}), nil
		})
}

func npmStatusTool() Tool {
	return New("npm.status",
		"Report whether the npm server is running.",
		schema.New(),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			pid, running := serverPid(env)
			data := map[string]any{"running": running}
			if running {
				data["pid"] = pid
			}
			return ai.OKResult(data), nil
		})
}

func npmLogsTool() Tool {
	return New("npm.logs",
		"Return the last N lines of the npm server log.",
		schema.New().
			Add("lines", schema.TypeInt, false, "Number of trailing lines to return (default 50)"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			lines := 50
			if n, ok := args["lines"].(int); ok && n > 0 {
				lines = n
			}

			data, err := os.ReadFile(serverLogPath(env))
			if err != nil {
				return ai.ErrorResult("server log not found: has the server been started?"), nil
			}

			all := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
			if len(all) > lines {
				all = all[len(all)-lines:]
			}
			return ai.OKResult(map[string]any{
				"lines": len(all),
				"log":   strings.Join(all, "\n"),
			}), nil
		})
}

func serverPidPath(env *Environment) string {
	return filepath.Join(env.DataDir(), serverPidFileName)
}

func serverLogPath(env *Environment) string {
	return filepath.Join(env.DataDir(), serverLogFileName)
}

// serverPid reads the pidfile and reports whether that process is alive.
// A stale pidfile (process gone) reads as not running.
func serverPid(env *Environment) (int, bool) {
	data, err := os.ReadFile(serverPidPath(env))
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, pidAlive(pid)
}

// pidAlive probes a pid with signal 0.
func pidAlive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}
