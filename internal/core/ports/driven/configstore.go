package driven

import "github.com/custodia-labs/facetag/internal/core/domain"

// ConfigStore loads and persists client settings.
type ConfigStore interface {
	// Load reads the settings. A missing file yields the defaults.
	Load() (*domain.Settings, error)

	// Save writes the settings.
	Save(settings *domain.Settings) error

	// Path returns the configuration file path.
	Path() string
}
