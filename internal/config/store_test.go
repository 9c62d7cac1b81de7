package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	fs := NewFileStore(path, "PROJ")

	assert.Equal(t, "PROJ", fs.DefaultProject())
	assert.Equal(t, "", fs.DefaultSprintID())
}

func TestFileStore_CorruptFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	fs := NewFileStore(path, "PROJ")

	assert.Equal(t, "PROJ", fs.DefaultProject())
	assert.Equal(t, "", fs.DefaultSprintID())
}

func TestFileStore_NoDefaultsConfigured(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	fs := NewFileStore(path, "")

	assert.Equal(t, "", fs.DefaultProject())
	assert.Equal(t, "", fs.DefaultSprintID())
}

func TestFileStore_SetPersistsImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	fs := NewFileStore(path, "")
	require.NoError(t, fs.SetDefaultProject("TEAM"))
	require.NoError(t, fs.SetDefaultSprintID("42"))

	// A fresh store must see the persisted values.
	reloaded := NewFileStore(path, "")
	assert.Equal(t, "TEAM", reloaded.DefaultProject())
	assert.Equal(t, "42", reloaded.DefaultSprintID())
}

func TestFileStore_PersistedValuesOverrideDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"default_sprint_id": "7", "default_project": "OTHER"}`), 0o644))

	fs := NewFileStore(path, "PROJ")

	assert.Equal(t, "OTHER", fs.DefaultProject())
	assert.Equal(t, "7", fs.DefaultSprintID())
}

func TestFileStore_PartialFileKeepsDefaultForMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"default_sprint_id": "9"}`), 0o644))

	fs := NewFileStore(path, "PROJ")

	assert.Equal(t, "PROJ", fs.DefaultProject())
	assert.Equal(t, "9", fs.DefaultSprintID())
}

func TestFileStore_LastWriteWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	a := NewFileStore(path, "")
	b := NewFileStore(path, "")
	require.NoError(t, a.SetDefaultProject("FIRST"))
	require.NoError(t, b.SetDefaultProject("SECOND"))

	reloaded := NewFileStore(path, "")
	assert.Equal(t, "SECOND", reloaded.DefaultProject())
}
