package tool

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func harnessEnv(t *testing.T) (*Registry, *Environment) {
	t.Helper()
	env := NewEnvironment(t.TempDir(), nil)
	r := NewRegistry()
	r.MustRegister(ServerTools()...)
	r.MustRegister(HarnessTools()...)
	require.NoError(t, r.Init(env))
	return r, env
}

func readPackageJSON(t *testing.T, env *Environment) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(env.Root(), "package.json"))
	require.NoError(t, err)
	var pkg map[string]any
	require.NoError(t, json.Unmarshal(data, &pkg))
	return pkg
}

func TestPlaywrightInit(t *testing.T) {
	t.Run("fails without package.json", func(t *testing.T) {
		r, _ := harnessEnv(t)

		res := execTool(t, r, "playwright.init", map[string]any{})
		assert.False(t, res.OK)
		assert.Contains(t, res.Error, "npm.init")
	})

	t.Run("creates config and test directory", func(t *testing.T) {
		r, env := harnessEnv(t)
		execTool(t, r, "npm.init", map[string]any{})

		res := execTool(t, r, "playwright.init", map[string]any{})
		require.True(t, res.OK, res.Error)

		configPath := filepath.Join(env.Root(), "playwright.config.js")
		require.FileExists(t, configPath)
		config, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Contains(t, string(config), "defineConfig")
		assert.Contains(t, string(config), "testDir")
		assert.Contains(t, string(config), "baseURL")

		assert.DirExists(t, filepath.Join(env.Root(), "tests", "ui"))
	})

	t.Run("adds the dev dependency and script", func(t *testing.T) {
		r, env := harnessEnv(t)
		execTool(t, r, "npm.init", map[string]any{})
		execTool(t, r, "playwright.init", map[string]any{})

		pkg := readPackageJSON(t, env)
		assert.Contains(t, pkg["devDependencies"].(map[string]any), "@playwright/test")
		assert.Contains(t, pkg["scripts"].(map[string]any), "test:ui")
	})
}

func TestSupertestInit(t *testing.T) {
	t.Run("fails without package.json", func(t *testing.T) {
		r, _ := harnessEnv(t)

		res := execTool(t, r, "supertest.init", map[string]any{})
		assert.False(t, res.OK)
		assert.Contains(t, res.Error, "npm.init")
	})

	t.Run("adds jest and supertest with scripts", func(t *testing.T) {
		r, env := harnessEnv(t)
		execTool(t, r, "npm.init", map[string]any{})

		res := execTool(t, r, "supertest.init", map[string]any{})
		require.True(t, res.OK, res.Error)

		pkg := readPackageJSON(t, env)
		deps := pkg["devDependencies"].(map[string]any)
		assert.Contains(t, deps, "jest")
		assert.Contains(t, deps, "supertest")

		scripts := pkg["scripts"].(map[string]any)
		assert.Contains(t, scripts, "test")
		assert.Contains(t, scripts, "test:api")

		assert.DirExists(t, filepath.Join(env.Root(), "tests", "api"))
	})

	t.Run("keeps existing dev dependencies", func(t *testing.T) {
		r, env := harnessEnv(t)
		execTool(t, r, "npm.init", map[string]any{})
		execTool(t, r, "playwright.init", map[string]any{})
		execTool(t, r, "supertest.init", map[string]any{})

		deps := readPackageJSON(t, env)["devDependencies"].(map[string]any)
		assert.Contains(t, deps, "@playwright/test")
		assert.Contains(t, deps, "jest")
	})
}

func TestHarnessSchemas(t *testing.T) {
	t.Run("run tools declare their optional arguments", func(t *testing.T) {
		r, _ := harnessEnv(t)

		pw, err := r.Get("playwright.run")
		require.NoError(t, err)
		names := map[string]bool{}
		for _, arg := range pw.Schema().Arguments() {
			names[arg.Name] = true
		}
		assert.True(t, names["test_file"])
		assert.True(t, names["headed"])

		st, err := r.Get("supertest.run")
		require.NoError(t, err)
		names = map[string]bool{}
		for _, arg := range st.Schema().Arguments() {
			names[arg.Name] = true
		}
		assert.True(t, names["test_file"])
		assert.True(t, names["verbose"])
	})
}
