package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Default service addresses and tuning values.
const (
	DefaultDocStoreURL       = "http://127.0.0.1:5000"
	DefaultDocStoreTimeout   = "30s"
	DefaultFaceServiceURL    = "http://127.0.0.1:5002"
	DefaultFaceTimeout       = "2m"
	DefaultRequestsPerSecond = 4.0
	DefaultBurst             = 8
)

// Settings is the client configuration.
type Settings struct {
	DocStore    DocStoreSettings    `toml:"docstore" json:"docstore" yaml:"docstore"`
	FaceService FaceServiceSettings `toml:"faceservice" json:"faceservice" yaml:"faceservice"`
	Display     DisplaySettings     `toml:"display" json:"display" yaml:"display"`
}

// DocStoreSettings configures the document store client.
type DocStoreSettings struct {
	BaseURL string `toml:"base_url" json:"base_url" yaml:"base_url"`
	Timeout string `toml:"timeout" json:"timeout" yaml:"timeout"`
}

// FaceServiceSettings configures the face analysis client.
type FaceServiceSettings struct {
	BaseURL           string  `toml:"base_url" json:"base_url" yaml:"base_url"`
	Timeout           string  `toml:"timeout" json:"timeout" yaml:"timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `toml:"burst" json:"burst" yaml:"burst"`
}

// DisplaySettings configures where display files are written.
// An empty Dir uses the system temp directory.
type DisplaySettings struct {
	Dir string `toml:"dir" json:"dir" yaml:"dir"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		DocStore: DocStoreSettings{
			BaseURL: DefaultDocStoreURL,
			Timeout: DefaultDocStoreTimeout,
		},
		FaceService: FaceServiceSettings{
			BaseURL:           DefaultFaceServiceURL,
			Timeout:           DefaultFaceTimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
			Burst:             DefaultBurst,
		},
	}
}

// Validate checks the service addresses and durations.
func (s *Settings) Validate() error {
	if err := validateURL("docstore.base_url", s.DocStore.BaseURL); err != nil {
		return err
	}
	if err := validateURL("faceservice.base_url", s.FaceService.BaseURL); err != nil {
		return err
	}
	if _, err := parseTimeout("docstore.timeout", s.DocStore.Timeout); err != nil {
		return err
	}
	if _, err := parseTimeout("faceservice.timeout", s.FaceService.Timeout); err != nil {
		return err
	}
	if s.FaceService.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: faceservice.requests_per_second must not be negative", ErrInvalidInput)
	}
	if s.FaceService.Burst < 0 {
		return fmt.Errorf("%w: faceservice.burst must not be negative", ErrInvalidInput)
	}
	return nil
}

// TimeoutDuration returns the parsed document store timeout, zero when unset.
func (s DocStoreSettings) TimeoutDuration() time.Duration {
	d, _ := parseTimeout("docstore.timeout", s.Timeout)
	return d
}

// TimeoutDuration returns the parsed face service timeout, zero when unset.
func (s FaceServiceSettings) TimeoutDuration() time.Duration {
	d, _ := parseTimeout("faceservice.timeout", s.Timeout)
	return d
}

func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, key)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalidInput, key, raw)
	}
	return nil
}

func parseTimeout(key, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %s must be a duration like 30s, got %q", ErrInvalidInput, key, raw)
	}
	return d, nil
}
