// Package cli provides the facetag command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/facetag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driving"
	"github.com/custodia-labs/facetag/internal/logger"
)

// EnvFaceServiceURL overrides the face service address.
const EnvFaceServiceURL = "FACE_SERVICE_URL"

// Runtime holds the services one command runs against.
type Runtime struct {
	Documents driving.DocumentListService
	Pages     driving.PaginationService
	Viewer    driving.ImageViewerService
	Faces     driving.FaceAnalysisService
	Abstract  driving.AbstractUpdateService
	Cache     driving.CacheService

	// Open shows a file in the default viewer. May be nil.
	Open func(path string) error

	// Close releases display resources. May be nil.
	Close func() error
}

// Builder creates the runtime for the loaded settings.
type Builder func(settings *domain.Settings) (*Runtime, error)

var (
	version = "dev"

	builder  Builder
	current  *Runtime
	settings *domain.Settings

	verbose     bool
	configPath  string
	docstoreURL string
	faceURL     string
)

var rootCmd = &cobra.Command{
	Use:   "facetag",
	Short: "Label faces in EDMS document images",
	Long: `facetag browses an EDMS document store, sends document images to a face
recognition service, registers names for detected faces and writes the
confirmed names back into the document abstract.

Run "facetag tui" for the interactive interface.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print diagnostic output to stderr")
	flags.StringVar(&configPath, "config", "", "Config file (default ~/.facetag/config.toml)")
	flags.StringVar(&docstoreURL, "docstore-url", "", "Document store base URL")
	flags.StringVar(&faceURL, "face-url", "", "Face service base URL (env "+EnvFaceServiceURL+")")
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Version returns the version reported by the version command.
func Version() string {
	return version
}

// SetBuilder sets the function that wires services for each command.
func SetBuilder(b Builder) {
	builder = b
}

// setup loads .env, settings and flags, then builds the runtime for
// commands that talk to the services.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	// .env is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Ignoring .env: %v", err)
	}

	loaded, err := loadSettings()
	if err != nil {
		return err
	}
	settings = loaded

	if !needsRuntime(cmd) {
		return nil
	}
	if builder == nil {
		return errors.New("services not configured")
	}
	rt, err := builder(settings)
	if err != nil {
		return fmt.Errorf("initialise services: %w", err)
	}
	current = rt
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	return Shutdown()
}

// Shutdown releases the services of the last command. Safe to call twice.
func Shutdown() error {
	rt := current
	current = nil
	if rt == nil || rt.Close == nil {
		return nil
	}
	return rt.Close()
}

// loadSettings reads the config file, then applies the environment and flags.
func loadSettings() (*domain.Settings, error) {
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, err
	}
	s, err := store.Load()
	if err != nil {
		return nil, err
	}

	if v := os.Getenv(EnvFaceServiceURL); v != "" {
		s.FaceService.BaseURL = v
	}
	if docstoreURL != "" {
		s.DocStore.BaseURL = docstoreURL
	}
	if faceURL != "" {
		s.FaceService.BaseURL = faceURL
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", store.Path(), err)
	}
	logger.Debug("Settings: docstore=%s faceservice=%s", s.DocStore.BaseURL, s.FaceService.BaseURL)
	return s, nil
}

// needsRuntime reports whether cmd talks to the services.
func needsRuntime(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationOffline] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion", "man":
			return false
		}
	}
	return cmd.Runnable()
}

// annotationOffline marks commands that never contact a service.
const annotationOffline = "offline"

// requireRuntime returns the runtime or an error when services are missing.
func requireRuntime() (*Runtime, error) {
	if current == nil {
		return nil, errors.New("services not configured")
	}
	return current, nil
}
