package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/localrag/internal/core/domain"
)

func TestNewSettingsStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewSettingsStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestSettingsStore_LoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultDimension, settings.Dimension)
	assert.Equal(t, domain.DefaultMaxTokens, settings.MaxTokens)
	assert.Equal(t, domain.DefaultCacheSize, settings.CacheSize)
	assert.Equal(t, filepath.Join(tmpDir, "data"), settings.StorageRoot)
	assert.False(t, settings.FuzzyCacheEnabled())
}

func TestSettingsStore_InstanceIDAssignedOnce(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)

	first, err := store.Load()
	require.NoError(t, err)
	require.NotEmpty(t, first.InstanceID)

	// The ID is persisted immediately and survives a fresh store.
	store2, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)
	second, err := store2.Load()
	require.NoError(t, err)

	assert.Equal(t, first.InstanceID, second.InstanceID)
}

func TestSettingsStore_SaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)

	settings.Dimension = 128
	settings.FuzzyCacheThreshold = 0.85
	require.NoError(t, store.Save(settings))

	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 128, reloaded.Dimension)
	assert.InDelta(t, 0.85, reloaded.FuzzyCacheThreshold, 1e-9)
	assert.True(t, reloaded.FuzzyCacheEnabled())
}

func TestSettingsStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)

	corrupted := []byte("this is not valid TOML {{{[[")
	require.NoError(t, os.WriteFile(store.Path(), corrupted, 0600))

	_, err = store.Load()
	assert.Error(t, err)
}

func TestSettingsStore_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)

	_, err = store.Load()
	require.NoError(t, err)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSettingsStore_NestedDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "deep")

	store, err := NewSettingsStore(nested)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nested, "config.toml"), store.Path())

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
