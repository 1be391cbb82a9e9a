package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/testgen/java"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so a stray testgen.yaml
// cannot leak in.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Source)
	assert.Equal(t, "src/test/java", cfg.Output)
	assert.Equal(t, "both", cfg.Type)
	assert.Equal(t, "standard", cfg.Naming)
	assert.Equal(t, []string{"**/*.java"}, cfg.Include)
	assert.Empty(t, cfg.Exclude)
	assert.Equal(t, 4, cfg.Workers)
	assert.False(t, cfg.Overwrite)
	assert.Equal(t, 0, cfg.Log.Verbosity)
	assert.Contains(t, cfg.Keys(), "log.verbosity")
}

func TestLoadPriority(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`
source: app/src/main/java
type: unit
workers: 2
exclude:
  - "**/generated/**"
log:
  verbosity: 1
`), 0o644))
	t.Setenv("TESTGEN_WORKERS", "8")
	t.Setenv("TESTGEN_INCLUDE", "**/*Service.java, **/*Controller.java")

	cfg, err := Load(Options{Overrides: map[string]any{"naming": "bdd"}})
	require.NoError(t, err)
	assert.Equal(t, "app/src/main/java", cfg.Source)
	assert.Equal(t, "unit", cfg.Type)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "bdd", cfg.Naming)
	assert.Equal(t, []string{"**/*Service.java", "**/*Controller.java"}, cfg.Include)
	assert.Equal(t, []string{"**/generated/**"}, cfg.Exclude)
	assert.Equal(t, 1, cfg.Log.Verbosity)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	inTempDir(t)
	_, err := Load(Options{Path: "nope.yaml"})
	assert.ErrorIs(t, err, java.ErrNotFound)
}

func TestLoadInvalid(t *testing.T) {
	inTempDir(t)
	_, err := Load(Options{Overrides: map[string]any{
		"type":    "smoke",
		"naming":  "bd",
		"workers": 0,
	}})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := map[string]string{}
	for _, fe := range verr.Errors {
		fields[fe.Field] = fe.Message
	}
	assert.Contains(t, fields["type"], "must be one of unit, integration, both")
	assert.Contains(t, fields["naming"], `did you mean "bdd"`)
	assert.Equal(t, "must be at least 1", fields["workers"])
}

func TestWriteRoundTrip(t *testing.T) {
	dir := inTempDir(t)
	cfg, err := Load(Options{Overrides: map[string]any{"output": "out", "overwrite": true}})
	require.NoError(t, err)

	path := filepath.Join(dir, "written.yaml")
	require.NoError(t, cfg.Write(path))

	again, err := Load(Options{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "out", again.Output)
	assert.True(t, again.Overwrite)
	assert.Equal(t, cfg.Include, again.Include)
}
