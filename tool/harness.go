package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	ai "github.com/spetersoncode/webagent"
	"github.com/spetersoncode/webagent/schema"
)

// harnessRunTimeout bounds a single test-suite invocation.
const harnessRunTimeout = 2 * time.Minute

const playwrightConfig = `const { defineConfig } = require('@playwright/test');

module.exports = defineConfig({
  testDir: './tests/ui',
  timeout: 30000,
  use: {
    baseURL: 'http://localhost:3000',
    headless: true,
  },
});
`

// HarnessTools returns the Playwright and Supertest test harness tools.
func HarnessTools() []Tool {
	return []Tool{
		playwrightInitTool(),
		playwrightRunTool(),
		supertestInitTool(),
		supertestRunTool(),
	}
}

func playwrightInitTool() Tool {
	return New("playwright.init",
		"Initialize Playwright UI testing: creates playwright.config.js, a tests/ui directory, and adds @playwright/test to package.json.",
		schema.New(),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			pkg, err := loadPackageJSON(env)
			if err != nil {
				return ai.ErrorResult("package.json not found: run npm.init first"), nil
			}

			configPath := filepath.Join(env.Root(), "playwright.config.js")
			if err := os.WriteFile(configPath, []byte(playwrightConfig), 0o644); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}
			if err := os.MkdirAll(filepath.Join(env.Root(), "tests", "ui"), 0o755); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}

			addDevDependency(pkg, "@playwright/test", "^1.48.0")
			addScript(pkg, "test:ui", "playwright test")
			if err := savePackageJSON(env, pkg); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}

			return ai.OKResult(map[string]any{
				"config":   "playwright.config.js",
				"test_dir": "tests/ui",
			}), nil
		})
}

func playwrightRunTool() Tool {
	return New("playwright.run",
		"Run Playwright UI tests against the server on port 3000. The server must be running.",
		schema.New().
			Add("test_file", schema.TypeString, false, "Run a single test file instead of the whole suite").
			Add("headed", schema.TypeBool, false, "Run browsers in headed mode"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			cmdArgs := []string{"playwright", "test"}
			if file, ok := args["test_file"].(string); ok && file != "" {
				cmdArgs = append(cmdArgs, file)
			}
			if headed, ok := args["headed"].(bool); ok && headed {
				cmdArgs = append(cmdArgs, "--headed")
			}
			return runHarness(ctx, env, cmdArgs)
		})
}

func supertestInitTool() Tool {
	return New("supertest.init",
		"Initialize API testing with Jest and Supertest: creates a tests/api directory and adds jest and supertest to package.json.",
		schema.New(),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			pkg, err := loadPackageJSON(env)
			if err != nil {
				return ai.ErrorResult("package.json not found: run npm.init first"), nil
			}

			if err := os.MkdirAll(filepath.Join(env.Root(), "tests", "api"), 0o755); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}

			addDevDependency(pkg, "jest", "^29.7.0")
			addDevDependency(pkg, "supertest", "^7.0.0")
			addScript(pkg, "test", "jest")
			addScript(pkg, "test:api", "jest tests/api")
			if err := savePackageJSON(env, pkg); err != nil {
				return ai.ErrorResult(err.Error()), nil
			}

			return ai.OKResult(map[string]any{"test_dir": "tests/api"}), nil
		})
}

func supertestRunTool() Tool {
	return New("supertest.run",
		"Run API tests with Jest and Supertest.",
		schema.New().
			Add("test_file", schema.TypeString, false, "Run a single test file instead of the whole suite").
			Add("verbose", schema.TypeBool, false, "Report individual test results"),
		func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error) {
			cmdArgs := []string{"jest", "tests/api"}
			if file, ok := args["test_file"].(string); ok && file != "" {
				cmdArgs = []string{"jest", file}
			}
			if verbose, ok := args["verbose"].(bool); ok && verbose {
				cmdArgs = append(cmdArgs, "--verbose")
			}
			return runHarness(ctx, env, cmdArgs)
		})
}

// runHarness executes an npx command in the workspace root with a bounded
// timeout and reports combined output. A non-zero exit is a normal failed
// result, not a tool error.
func runHarness(ctx context.Context, env *Environment, args []string) (ai.ToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, harnessRunTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "npx", args...)
	cmd.Dir = env.Root()
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	output := out.String()

	if ctx.Err() == context.DeadlineExceeded {
		return ai.ErrorResult("test run timed out"), nil
	}
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return ai.ToolResult{
				OK:    false,
				Data:  map[string]any{"passed": false, "output": output},
				Error: "tests failed",
			}, nil
		}
		return ai.ErrorResult(err.Error()), nil
	}
	return ai.OKResult(map[string]any{"passed": true, "output": output}), nil
}

func loadPackageJSON(env *Environment) (map[string]any, error) {
	data, err := os.ReadFile(filepath.Join(env.Root(), "package.json"))
	if err != nil {
		return nil, err
	}
	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func savePackageJSON(env *Environment, pkg map[string]any) error {
	data, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(env.Root(), "package.json"), data, 0o644)
}

func addDevDependency(pkg map[string]any, name, version string) {
	deps, ok := pkg["devDependencies"].(map[string]any)
	if !ok {
		deps = map[string]any{}
		pkg["devDependencies"] = deps
	}
	if _, exists := deps[name]; !exists {
		deps[name] = version
	}
}

func addScript(pkg map[string]any, name, command string) {
	scripts, ok := pkg["scripts"].(map[string]any)
	if !ok {
		scripts = map[string]any{}
		pkg["scripts"] = scripts
	}
	if _, exists := scripts[name]; !exists {
		scripts[name] = command
	}
}
