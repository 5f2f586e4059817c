package driven

import "github.com/custodia-labs/localrag/internal/core/domain"

// SettingsStore persists engine configuration.
// Backed by a TOML file under the config directory.
type SettingsStore interface {
	// Load reads the stored settings, returning normalised defaults
	// when no file exists yet.
	Load() (domain.Settings, error)

	// Save writes the settings to disk.
	Save(settings domain.Settings) error

	// Path returns the settings file location.
	Path() string
}
