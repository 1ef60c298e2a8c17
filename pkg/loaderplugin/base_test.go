package loaderplugin

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leappack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHandler returns a fixed result and records the name it was called with.
type stubHandler struct {
	name   string
	result Result
	err    error
	called string
}

func (s *stubHandler) Name() string { return s.name }

func (s *stubHandler) Resolve(_ context.Context, _ *Spec, modname, _, _, _ string) (Result, error) {
	s.called = modname
	return s.result, s.err
}

// failingFS fails every copy.
type failingFS struct {
	OSFS
	err error
}

func (f failingFS) Copy(_, _ string) error { return f.err }

func setupSource(t *testing.T) (srcPath string, spec *Spec) {
	t.Helper()
	tmp := t.TempDir()
	srcPath = testutil.WriteFile(t, tmp, "src/file.txt", "hello")
	return srcPath, &Spec{BuildDir: filepath.Join(tmp, "build")}
}

func TestBaseHandler_Run(t *testing.T) {
	src, spec := setupSource(t)
	reg := NewRegistry("test")
	h := NewBaseHandler(reg, "text", WithLogger(testutil.NewTestLogger(t)))

	result, err := h.Resolve(context.Background(), spec, "text!file.txt", src, "file.txt", "file.txt")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"text!file.txt": "file.txt"}, result.ModulePaths)
	assert.Equal(t, map[string]string{
		"file.txt":   "file.txt",
		"./file.txt": "file.txt",
	}, result.Targets)
	assert.Equal(t, []string{"text!file.txt"}, result.ExportNames)

	assert.Equal(t, "hello", testutil.ReadFile(t, spec.BuildDir, "file.txt"))
}

func TestBaseHandler_TargetsAliasBareName(t *testing.T) {
	names := []string{"data.json", "pkg/mod/tmpl.html", "x"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			src, spec := setupSource(t)
			h := NewBaseHandler(nil, "text")

			result, err := h.Resolve(context.Background(), spec, name, src, "out/"+name, name)
			require.NoError(t, err)

			require.Contains(t, result.Targets, name)
			require.Contains(t, result.Targets, "./"+name)
			assert.Equal(t, result.Targets[name], result.Targets["./"+name])
			assert.Equal(t, []string{name}, result.ExportNames)
		})
	}
}

func TestBaseHandler_ExistingDirectory(t *testing.T) {
	src, spec := setupSource(t)
	require.NoError(t, os.MkdirAll(filepath.Join(spec.BuildDir, "nested", "dir"), 0o755))

	h := NewBaseHandler(nil, "text")
	_, err := h.Resolve(context.Background(), spec, "text!nested/dir/file.txt", src, "nested/dir/file.txt", "nested/dir/file.txt")
	require.NoError(t, err, "pre-existing destination directory must not fail")

	// A second build over the same output is fine too.
	_, err = h.Resolve(context.Background(), spec, "text!nested/dir/file.txt", src, "nested/dir/file.txt", "nested/dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", testutil.ReadFile(t, spec.BuildDir, "nested/dir/file.txt"))
}

func TestBaseHandler_CopyFailure(t *testing.T) {
	src, spec := setupSource(t)
	boom := errors.New("disk full")
	h := NewBaseHandler(nil, "text", WithFS(failingFS{err: boom}))

	_, err := h.Resolve(context.Background(), spec, "text!file.txt", src, "file.txt", "file.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestBaseHandler_MissingSource(t *testing.T) {
	_, spec := setupSource(t)
	h := NewBaseHandler(nil, "text")

	_, err := h.Resolve(context.Background(), spec, "text!nope.txt", filepath.Join(t.TempDir(), "nope.txt"), "nope.txt", "nope.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestBaseHandler_NoBuildDir(t *testing.T) {
	src, _ := setupSource(t)
	h := NewBaseHandler(nil, "text")

	_, err := h.Resolve(context.Background(), &Spec{}, "text!file.txt", src, "file.txt", "file.txt")
	assert.ErrorIs(t, err, ErrNoBuildDir)
}

func TestBaseHandler_Chained(t *testing.T) {
	src, spec := setupSource(t)
	reg := NewRegistry("test")
	reg.Register(NewBaseHandler(reg, "a"))
	reg.Register(NewBaseHandler(reg, "b"))

	a, _ := reg.Get("a")
	result, err := a.Resolve(context.Background(), spec, "a!b!c", src, "c", "c")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"a!b!c": "c"}, result.ModulePaths)
	assert.Equal(t, map[string]string{"c": "c", "./c": "c"}, result.Targets)
	assert.Equal(t, []string{"a!b!c"}, result.ExportNames)
}

func TestBaseHandler_ChainedThreeLevels(t *testing.T) {
	src, spec := setupSource(t)
	reg := NewRegistry("test")
	for _, name := range []string{"json", "raw", "text"} {
		reg.Register(NewBaseHandler(reg, name))
	}

	h, _ := reg.Get("json")
	result, err := h.Resolve(context.Background(), spec, "json!raw!text!./data.json", src, "data.json", "data.json")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"json!raw!text!./data.json": "data.json"}, result.ModulePaths)
	assert.Equal(t, map[string]string{"./data.json": "data.json", "././data.json": "data.json"}, result.Targets)
	assert.Equal(t, []string{"json!raw!text!./data.json"}, result.ExportNames)
}

func TestBaseHandler_ChainedPrefixesEveryInnerKey(t *testing.T) {
	_, spec := setupSource(t)
	inner := &stubHandler{
		name: "inner",
		result: Result{
			ModulePaths: map[string]string{"inner!x": "x.js", "inner!y": "y.js"},
			Targets:     map[string]string{"x": "x.js", "./x": "x.js"},
			ExportNames: []string{"inner!x", "inner!y"},
		},
	}
	reg := NewRegistry("test")
	reg.Register(inner)
	outer := NewBaseHandler(reg, "outer")

	result, err := outer.Resolve(context.Background(), spec, "outer!inner!x", "unused", "x.js", "x.js")
	require.NoError(t, err)

	assert.Equal(t, "inner!x", inner.called, "inner handler receives the stripped name")
	assert.Equal(t, map[string]string{"outer!inner!x": "x.js", "outer!inner!y": "y.js"}, result.ModulePaths)
	assert.Equal(t, inner.result.Targets, result.Targets, "targets are never re-namespaced")
	assert.Equal(t, []string{"outer!inner!x", "outer!inner!y"}, result.ExportNames)
}

func TestBaseHandler_ChainedUnknownHandler(t *testing.T) {
	src, spec := setupSource(t)
	reg := NewRegistry("strict")
	h := NewBaseHandler(reg, "a")
	reg.Register(h)

	_, err := h.Resolve(context.Background(), spec, "a!missing!c", src, "c", "c")
	require.Error(t, err)

	var unknown *UnknownHandlerError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Name)
	assert.Equal(t, []string{"a"}, unknown.Available)
}

func TestBaseHandler_ChainedInnerErrorPropagates(t *testing.T) {
	_, spec := setupSource(t)
	boom := errors.New("inner failed")
	reg := NewRegistry("test")
	reg.Register(&stubHandler{name: "inner", err: boom})
	outer := NewBaseHandler(reg, "outer")

	_, err := outer.Resolve(context.Background(), spec, "outer!inner!x", "", "x", "x")
	assert.ErrorIs(t, err, boom)
}

func TestBaseHandler_ExportNamerOverride(t *testing.T) {
	src, spec := setupSource(t)
	var calls [][2]any
	namer := func(names []string, prefix string) []string {
		calls = append(calls, [2]any{append([]string(nil), names...), prefix})
		out := GenerateExportModuleNames(names, prefix)
		for i := range out {
			out[i] = "custom:" + out[i]
		}
		return out
	}

	reg := NewRegistry("test")
	reg.Register(NewBaseHandler(reg, "a", WithExportNamer(namer)))
	reg.Register(NewBaseHandler(reg, "b", WithExportNamer(namer)))
	a, _ := reg.Get("a")

	result, err := a.Resolve(context.Background(), spec, "a!b!c", src, "c", "c")
	require.NoError(t, err)

	assert.Equal(t, []string{"custom:a!custom:b!c"}, result.ExportNames)
	require.Len(t, calls, 2, "base and chained paths both go through the namer")
	assert.Equal(t, "", calls[0][1])
	assert.Equal(t, "a", calls[1][1])
}

func TestFinalizeExportModuleNames(t *testing.T) {
	h := NewBaseHandler(nil, "text")

	names := []string{"x", "y"}
	assert.Equal(t, names, h.FinalizeExportModuleNames(names, ""))
	assert.Equal(t, []string{"p!x", "p!y"}, h.FinalizeExportModuleNames(names, "p"))
	assert.Equal(t, []string{"x", "y"}, names, "input must not be modified")
	assert.Empty(t, h.FinalizeExportModuleNames(nil, "p"))
}
