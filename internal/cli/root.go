package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/yildizm/ocrsnap/internal/config"
	"github.com/yildizm/ocrsnap/internal/emoji"
	"github.com/yildizm/ocrsnap/internal/logger"
	"github.com/yildizm/ocrsnap/internal/ocr"
	"github.com/yildizm/ocrsnap/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string

	globalConfig *config.Config
)

// errSubmissionFailed is returned after a failed submission has already
// been reported to the user.
var errSubmissionFailed = errors.New("submission failed")

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ocrsnap",
		Short: "Extract and translate text from images",
		Long: `ocrsnap sends an image, either a local file or a remote URL, to a hosted
OCR service and shows the recognized text. The OCR + translate workflow also
translates the text into a target language and reports the detected source
language.

Run "ocrsnap form" for the interactive form, "ocrsnap scan" for a single
image, "ocrsnap prompt" for a line-based session or "ocrsnap watch" to
process images as they land in a directory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)

			// config subcommands load files themselves
			if isConfigCommand(cmd) {
				return nil
			}
			return initGlobalConfig(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format (text, json, markdown, csv)")

	// Add subcommands
	rootCmd.AddCommand(newFormCommand())
	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newPromptCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newLanguagesCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			fmt.Printf("ocrsnap %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" && c.HasParent() {
			return true
		}
	}
	return false
}

// initGlobalConfig loads the configuration and applies it to flags the
// user did not set.
func initGlobalConfig(cmd *cobra.Command) error {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	globalConfig = cfg

	if cfg.Output.Verbose && !cmd.Flags().Changed("verbose") {
		verbose = true
	}
	if !cmd.Flags().Changed("output") {
		outputFmt = cfg.Output.DefaultFormat
	}

	if !ui.SetThemeByName(cfg.Output.Theme) {
		newLogger("cli").Warn("unknown theme, using default", logger.F("theme", cfg.Output.Theme))
	}
	ui.SetColorDisabled(!useColor())
	return nil
}

// GetGlobalConfig returns the loaded configuration, or defaults when none
// was loaded.
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

// Global helpers
func isVerbose() bool {
	return verbose
}

func getOutputFormat() string {
	return outputFmt
}

// useColor resolves --no-color and output.color_mode against the terminal
func useColor() bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch GetGlobalConfig().Output.ColorMode {
	case "never":
		return false
	case "always":
		return true
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

// newClient creates the OCR client from the service configuration
func newClient(cfg *config.Config, log *logger.Logger) (*ocr.Client, error) {
	client, err := ocr.New(cfg.ClientConfig(), ocr.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR client: %w", err)
	}
	return client, nil
}
