package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Config location under the user's home directory.
const (
	DirName  = ".facetag"
	FileName = "config.toml"
)

// ConfigStore reads and writes settings as a TOML file.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// DefaultPath returns ~/.facetag/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, DirName, FileName), nil
}

// NewConfigStore creates a store for the file at path.
// If path is empty, defaults to ~/.facetag/config.toml.
func NewConfigStore(path string) (*ConfigStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &ConfigStore{filePath: path}, nil
}

// Load reads the settings file on top of the defaults. Keys missing from
// the file keep their default values; a missing file yields the defaults.
func (s *ConfigStore) Load() (*domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &settings, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", s.filePath, err)
	}
	return &settings, nil
}

// Save writes settings with restricted permissions, creating the directory.
func (s *ConfigStore) Save(settings *domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(s.filePath, data, 0o600)
}

// Exists reports whether the settings file is present.
func (s *ConfigStore) Exists() bool {
	_, err := os.Stat(s.filePath)
	return err == nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
