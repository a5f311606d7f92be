package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, root string, m Manifest) string {
	t.Helper()
	dir := filepath.Join(root, m.Name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644))
	return dir
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()
	dir := writeManifest(t, root, Manifest{
		Name:        "fullscreen",
		Version:     "1.0.0",
		Description: "Toggles full screen",
		Executable:  "fullscreen",
		Actions:     []string{"toggle"},
	})

	manager := NewManager(root)
	require.NoError(t, manager.Discover())

	plugins := manager.List()
	require.Len(t, plugins, 1)
	p := plugins[0]
	assert.Equal(t, "fullscreen", p.Manifest.Name)
	assert.Equal(t, "1.0.0", p.Manifest.Version)
	assert.Equal(t, dir, p.Path)
	assert.Equal(t, filepath.Join(dir, "fullscreen"), p.Executable)
	assert.True(t, p.Manifest.Supports("toggle"))
	assert.False(t, p.Manifest.Supports("enter"))
}

func TestManager_Discover_MultiplePluginsSorted(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"plugin-b", "plugin-a"} {
		writeManifest(t, root, Manifest{Name: name, Executable: name, Actions: []string{"run"}})
	}

	manager := NewManager(root)
	require.NoError(t, manager.Discover())

	plugins := manager.List()
	require.Len(t, plugins, 2)
	assert.Equal(t, "plugin-a", plugins[0].Manifest.Name)
	assert.Equal(t, "plugin-b", plugins[1].Manifest.Name)
}

func TestManager_Discover_SkipsBadManifests(t *testing.T) {
	root := t.TempDir()

	bad := filepath.Join(root, "bad")
	require.NoError(t, os.MkdirAll(bad, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, manifestFile), []byte("not valid json"), 0o644))

	writeManifest(t, root, Manifest{Name: "noexec", Actions: []string{"run"}})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), nil, 0o644))

	manager := NewManager(root)
	require.NoError(t, manager.Discover())
	assert.Empty(t, manager.List())
}

func TestManager_Discover_MissingDir(t *testing.T) {
	manager := NewManager("/path/that/does/not/exist")
	require.NoError(t, manager.Discover())
	assert.Empty(t, manager.List())
}

func TestManager_Discover_ClearsPrevious(t *testing.T) {
	root := t.TempDir()
	dir := writeManifest(t, root, Manifest{Name: "once", Executable: "once"})

	manager := NewManager(root)
	require.NoError(t, manager.Discover())
	require.Len(t, manager.List(), 1)

	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, manager.Discover())
	assert.Empty(t, manager.List())
}

func TestManager_Get_NotFound(t *testing.T) {
	manager := NewManager(t.TempDir())
	_, err := manager.Get("nonexistent-plugin")
	assert.ErrorIs(t, err, ErrPluginNotFound)
}

func TestManager_PluginDir(t *testing.T) {
	assert.Equal(t, "/path/to/plugins", NewManager("/path/to/plugins").PluginDir())
}
