package cli

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/facetag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/facetag/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show or create the configuration file",
	Annotations: map[string]string{annotationOffline: "true"},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after applying the config file, the
FACE_SERVICE_URL environment variable and command line flags.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var (
	configOutput string
	configForce  bool
)

func init() {
	configShowCmd.Flags().StringVarP(&configOutput, "output", "o", formatTOML, "Output format: toml, json or yaml")
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(configOutput, formatTOML, formatJSON, formatYAML); err != nil {
		return err
	}
	if settings == nil {
		return errors.New("configuration not loaded")
	}
	if configOutput != formatTOML {
		return writeStructured(cmd.OutOrStdout(), configOutput, settings)
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}
	cmd.Print(string(data))
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return err
	}
	cmd.Println(store.Path())
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return err
	}
	if store.Exists() && !configForce {
		return errors.New(store.Path() + " already exists (use --force to overwrite)")
	}

	defaults := domain.DefaultSettings()
	if err := store.Save(&defaults); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", store.Path())
	return nil
}
