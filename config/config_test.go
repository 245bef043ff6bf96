package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbnav/dbnav/drivers"
)

// isolate points every implicit config source at empty temp locations so
// only the paths a test writes are picked up.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("DBNAV_CONFIG", "")
	// t.Chdir requires Go 1.24; replicate it for the Go 1.21 toolchain.
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, os.Chdir(oldwd)) })
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "conns.yml")
	writeFile(t, path, `conn:
  - type: sqlite
    name: demo
    path: /tmp/demo.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Connections, 1)
	assert.Equal(t, "demo", cfg.Connections[0].Name)
	assert.Equal(t, drivers.KindSQLite, cfg.Connections[0].Type)
	assert.Equal(t, defaultPageSize, cfg.UI.PageSize)
}

func TestLoadMergesSources(t *testing.T) {
	isolate(t)

	dir, err := Dir()
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, configFilename), `conn:
  - type: mysql
    name: shared
    user: root
    host: 127.0.0.1
    port: 3306
ui:
  page_size: 50
  theme: nord
`)

	explicit := filepath.Join(t.TempDir(), "extra.yml")
	writeFile(t, explicit, `conn:
  - type: sqlite
    name: local
    path: /tmp/local.db
ui:
  theme: dracula
`)

	cfg, err := Load(explicit)
	require.NoError(t, err)
	require.Len(t, cfg.Connections, 2)
	assert.Equal(t, "shared", cfg.Connections[0].Name)
	assert.Equal(t, "local", cfg.Connections[1].Name)
	// The later file wins for theme; page_size carries over untouched.
	assert.Equal(t, "dracula", cfg.UI.Theme)
	assert.Equal(t, 50, cfg.UI.PageSize)
}

func TestLoadEnvVar(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "env.yml")
	writeFile(t, path, `conn:
  - type: sqlite
    name: from-env
    path: /tmp/e.db
`)
	t.Setenv("DBNAV_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Len(t, cfg.Connections, 1)
	assert.Equal(t, "from-env", cfg.Connections[0].Name)
}

func TestLoadLocalFile(t *testing.T) {
	isolate(t)
	writeFile(t, localFilename, `conn:
  - type: sqlite
    name: project
    path: /tmp/p.db
`)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Len(t, cfg.Connections, 1)
	assert.Equal(t, "project", cfg.Connections[0].Name)
}

func TestLoadUnknownType(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.yml")
	writeFile(t, path, `conn:
  - type: mongodb
    name: nope
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestLoadMissingName(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.yml")
	writeFile(t, path, `conn:
  - type: sqlite
    path: /tmp/x.db
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name field is required")
}

func TestLoadParseErrorShowsSample(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "broken.yml")
	writeFile(t, path, "conn: [not: {valid")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected format")
}

func TestLoadNoFiles(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Connections)
	assert.Equal(t, defaultPageSize, cfg.UI.PageSize)
}
