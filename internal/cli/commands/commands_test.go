package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leappack/internal/cli/output"
	"github.com/leapstack-labs/leappack/internal/config"
	"github.com/leapstack-labs/leappack/internal/testutil"
)

// testConfig returns a config building into a temp directory with JSON output.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.BuildDir = filepath.Join(t.TempDir(), "build")
	cfg.SourceDir = t.TempDir()
	cfg.Autogen = false
	cfg.Loaders = []string{"json"}
	cfg.OutputFormat = string(output.ModeJSON)
	return cfg
}

// execute runs cmd with cfg on its context and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	ctx := config.WithConfig(context.Background(), cfg)
	ctx = config.WithLogger(ctx, testutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestNewBuildCommand(t *testing.T) {
	cmd := NewBuildCommand()

	assert.Equal(t, "build", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("watch"), "flag %q should exist", "watch")
}

func TestNewResolveCommand(t *testing.T) {
	cmd := NewResolveCommand()

	assert.Equal(t, "resolve <module> <source>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	for _, flag := range []string{"target", "path"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewProbeCommand(t *testing.T) {
	cmd := NewProbeCommand()

	assert.Equal(t, "probe <file>...", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestBuildCommand_JSON(t *testing.T) {
	cfg := testConfig(t)
	src := testutil.WriteFile(t, cfg.SourceDir, "data.json", `{"a": 1}`)
	cfg.Modules = []config.ModuleConfig{{Name: "json!data.json", Source: src}}

	out, err := execute(t, NewBuildCommand(), cfg)
	require.NoError(t, err)

	var got buildOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotEmpty(t, got.BuildID)
	assert.Equal(t, []string{"json!data.json"}, got.Exports)
	assert.Equal(t, map[string]string{"json!data.json": "data.json"}, got.Aliases)
	assert.Equal(t, []string{"json-loader"}, got.Loaders)
	assert.Equal(t, filepath.Join(cfg.BuildDir, cfg.ExportModule), got.ExportModule)
	assert.Equal(t, `{"a": 1}`, testutil.ReadFile(t, cfg.BuildDir, "data.json"))
}

func TestBuildCommand_Markdown(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputFormat = string(output.ModeMarkdown)
	src := testutil.WriteFile(t, cfg.SourceDir, "a.js", "module.exports = 1;")
	cfg.Modules = []config.ModuleConfig{{Name: "a", Source: src}}

	out, err := execute(t, NewBuildCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "# Build ")
	assert.Contains(t, out, "| Module | Path |")
	assert.Contains(t, out, "| a | a |")
}

func TestBuildCommand_Errors(t *testing.T) {
	cfg := testConfig(t)
	_, err := execute(t, NewBuildCommand(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Hint:")

	cfg.Modules = []config.ModuleConfig{{Name: "a", Source: filepath.Join(cfg.SourceDir, "missing.js")}}
	_, err = execute(t, NewBuildCommand(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestResolveCommand(t *testing.T) {
	cfg := testConfig(t)
	src := testutil.WriteFile(t, cfg.SourceDir, "data.json", "{}")

	out, err := execute(t, NewResolveCommand(), cfg, "json!./data.json", src, "--target", "data/data.json")
	require.NoError(t, err)

	var got resolveOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "json!./data.json", got.Module)
	assert.Equal(t, map[string]string{"json!./data.json": "data/data.json"}, got.ModulePaths)
	assert.Equal(t, []string{"json!./data.json"}, got.Exports)
	assert.Equal(t, "{}", testutil.ReadFile(t, cfg.BuildDir, "data/data.json"))
}

func TestResolveCommand_UnknownLoader(t *testing.T) {
	cfg := testConfig(t)
	src := testutil.WriteFile(t, cfg.SourceDir, "a.txt", "")

	_, err := execute(t, NewResolveCommand(), cfg, "raw!a.txt", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no loader handler "raw"`)
}

func TestProbeCommand(t *testing.T) {
	cfg := testConfig(t)
	file := testutil.WriteFile(t, cfg.SourceDir, "index.js", `var data = require("json!./data.json");
var _ = require("lodash");
`)

	out, err := execute(t, NewProbeCommand(), cfg, file)
	require.NoError(t, err)

	var got []probeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, probeOutput{
		File:    file,
		Line:    1,
		Module:  "json!./data.json",
		Loader:  "json",
		Handler: "registered",
	}, got[0])
}

func TestProbeCommand_Unresolved(t *testing.T) {
	cfg := testConfig(t)
	file := testutil.WriteFile(t, cfg.SourceDir, "index.js", `require("raw!./a.txt");`)

	out, err := execute(t, NewProbeCommand(), cfg, file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1")
	assert.Contains(t, out, `"error"`)
}

func TestManifestCommand(t *testing.T) {
	cfg := testConfig(t)
	src := testutil.WriteFile(t, cfg.SourceDir, "a.js", "")
	cfg.Modules = []config.ModuleConfig{{Name: "a", Source: src}}

	_, err := execute(t, NewManifestCommand(), cfg)
	require.Error(t, err, "no build yet")

	_, err = execute(t, NewBuildCommand(), cfg)
	require.NoError(t, err)

	out, err := execute(t, NewManifestCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `"exports": [`)
	assert.Contains(t, out, `"./a": "a"`)
}

func TestWatchPaths(t *testing.T) {
	dir := t.TempDir()
	outside := testutil.WriteFile(t, t.TempDir(), "vendor.js", "")
	cfg := config.Default()
	cfg.SourceDir = dir
	cfg.ConfigFile = filepath.Join(dir, config.ConfigFileName)
	cfg.Modules = []config.ModuleConfig{
		{Name: "a", Source: filepath.Join(dir, "a.js")},
		{Name: "vendor", Source: outside},
		{Name: "gone", Source: filepath.Join(t.TempDir(), "gone.js")},
	}

	assert.Equal(t, []string{dir, outside}, watchPaths(cfg))
}
