package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yildizm/ocrsnap/internal/config"
	"github.com/yildizm/ocrsnap/internal/emoji"
	"gopkg.in/yaml.v3"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ocrsnap configuration",
		Long: `Manage ocrsnap configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating, and locating configuration files.`,
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		minimal    bool
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new ocrsnap configuration file with default values.

By default, creates a full configuration file with all options and comments.
Use --minimal for a compact configuration with only the service settings.`,
		Example: `  # Create full config in current directory
  ocrsnap config init

  # Create minimal config
  ocrsnap config init --minimal

  # Create config at specific path
  ocrsnap config init --path ~/.config/ocrsnap/config.yaml

  # Overwrite existing config
  ocrsnap config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = ".ocrsnap.yaml"
			}
			return initConfigFile(outputPath, minimal, force)
		},
	}

	initCmd.Flags().StringVarP(&outputPath, "path", "p", "", "output path for config file (default: .ocrsnap.yaml)")
	initCmd.Flags().BoolVarP(&minimal, "minimal", "m", false, "create minimal configuration")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")

	return initCmd
}

func initConfigFile(outputPath string, minimal, force bool) error {
	if !force && fileExists(outputPath) {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", outputPath)
	}

	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	content := config.SampleConfig()
	if minimal {
		content = config.MinimalSampleConfig()
	}

	if err := os.WriteFile(outputPath, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("%s Configuration file created at: %s\n", emoji.GetEmoji("success"), outputPath)
	if minimal {
		fmt.Printf("%s Created minimal configuration with essential settings\n", emoji.GetEmoji("config"))
	} else {
		fmt.Printf("%s Created full configuration with all options and documentation\n", emoji.GetEmoji("config"))
	}
	return nil
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current effective configuration after loading from all sources.

Shows the merged configuration from defaults, config files, and
OCRSNAP_ environment variable overrides.`,
		Example: `  # Show config in YAML format
  ocrsnap config show

  # Show config in JSON format
  ocrsnap config show --format json

  # Show config from specific file
  ocrsnap config show --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			switch format {
			case "json":
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config to JSON: %w", err)
				}
				fmt.Println(string(data))
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config to YAML: %w", err)
				}
				fmt.Print(string(data))
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}

			return nil
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return showCmd
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate an ocrsnap configuration file for syntax and semantic errors.

Checks the configuration for:
- Valid YAML syntax
- A usable service URL
- Valid workflow, mode, language, format and theme names
- Watch extensions and debounce`,
		Example: `  # Validate current config
  ocrsnap config validate

  # Validate specific config file
  ocrsnap config validate --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				fmt.Printf("%s Configuration validation failed:\n", emoji.GetEmoji("error"))
				fmt.Printf("   %v\n", err)
				return err
			}

			fmt.Printf("%s Configuration is valid\n", emoji.GetEmoji("success"))
			fmt.Printf("%s Configuration summary:\n", emoji.GetEmoji("stats"))
			fmt.Printf("   Version: %s\n", cfg.Version)
			fmt.Printf("   Service: %s (timeout %s)\n", cfg.Service.BaseURL, cfg.Service.Timeout)
			fmt.Printf("   Defaults: %s workflow, %s mode, language %s\n",
				cfg.Defaults.Workflow, cfg.Defaults.Mode, cfg.Defaults.Language)
			fmt.Printf("   Output Format: %s\n", cfg.Output.DefaultFormat)
			fmt.Printf("   Watch Extensions: %d configured\n", len(cfg.Watch.Extensions))

			return nil
		},
	}
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths ocrsnap searches for configuration files.

Shows the search order and indicates which files exist.`,
		Example: `  # Show config search paths
  ocrsnap config path`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s Configuration file search paths (in priority order):\n", emoji.GetEmoji("folder"))
			fmt.Println()

			priority := []string{"Highest", "Medium", "Lowest"}
			for i, path := range config.GetConfigPaths() {
				exists := " (not found)"
				if fileExists(path) {
					exists = " " + emoji.GetEmoji("success") + " (exists)"
				}

				fmt.Printf("  %d. %s%s\n", i+1, path, exists)
				if i < len(priority) {
					fmt.Printf("     Priority: %s\n", priority[i])
				}
				fmt.Println()
			}

			if currentConfig, found := config.FindConfigFile(); found {
				fmt.Printf("%s Current config file: %s\n", emoji.GetEmoji("target"), currentConfig)
			} else {
				fmt.Println("No config file found, using defaults")
			}

			fmt.Println()
			fmt.Printf("%s Environment variables with OCRSNAP_ prefix will override file settings\n", emoji.GetEmoji("hint"))
		},
	}
}

// Helper function to check if file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
