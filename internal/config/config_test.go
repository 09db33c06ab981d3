package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courseeditor.yaml")
	contents := `
port: 9090
fetchTimeout: 3s
tagsURL: http://localhost:9999/tags.json
store:
  backend: sqlite
  sqlitePath: /tmp/editor.db
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "http://localhost:9999/tags.json", cfg.TagsURL)
	assert.Equal(t, StoreSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/editor.db", cfg.Store.SQLitePath)

	// Untouched keys keep their defaults.
	defaults := DefaultConfig()
	assert.Equal(t, defaults.CoursesURL, cfg.CoursesURL)
	assert.Equal(t, defaults.SessionCookieName, cfg.SessionCookieName)
	assert.Equal(t, defaults.Store.FirebaseCredentialsFile, cfg.Store.FirebaseCredentialsFile)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [1, 2"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
