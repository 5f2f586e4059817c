package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/localrag/internal/core/domain"
	"github.com/custodia-labs/localrag/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore is a file-based implementation of driven.SettingsStore
// using TOML. Settings are stored in a single file within the localrag
// config directory.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSettingsStore creates a new TOML-based settings store.
// If configDir is empty, defaults to ~/.localrag/config.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".localrag")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads settings from disk. A missing file yields defaults. The
// first load assigns a stable instance ID and persists it, so every
// installation is identifiable in logs from the start.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var settings domain.Settings

	data, err := os.ReadFile(s.filePath)
	if err != nil && !os.IsNotExist(err) {
		return domain.Settings{}, err
	}
	if err == nil {
		if err := toml.Unmarshal(data, &settings); err != nil {
			return domain.Settings{}, err
		}
	}

	settings.Normalise()
	if settings.StorageRoot == "" {
		settings.StorageRoot = filepath.Join(filepath.Dir(s.filePath), "data")
	}

	if settings.InstanceID == "" {
		settings.InstanceID = uuid.NewString()
		if err := s.save(settings); err != nil {
			return domain.Settings{}, err
		}
	}

	return settings, nil
}

// Save writes the settings to disk.
func (s *SettingsStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(settings)
}

// save writes the TOML file (caller must hold lock).
func (s *SettingsStore) save(settings domain.Settings) error {
	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}

	// Restricted permissions: the file may name private storage paths.
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the settings file location.
func (s *SettingsStore) Path() string {
	return s.filePath
}
