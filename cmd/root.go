package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yahsan2/jira-pm/pkg/config"
	"github.com/yahsan2/jira-pm/pkg/output"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "jira-pm",
	Short: "Create Jira issues from user stories",
	Long: `A CLI for turning user stories into Jira issues.

This tool allows you to:
- Create single issues with validated summary, description, and type
- Process batches of user stories from JSON or YAML files
- Retry transient Jira failures with exponential backoff
- Record every batch run in a local history store
- Inspect issues, projects, and connection health`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadDotenv()
		setupLogger()
	},
}

// Global flags
var (
	configPath   string
	outputFormat string
	verbose      bool
)

// logger is rebuilt by PersistentPreRun once flags are parsed; the
// default keeps package-level access safe before Execute runs.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: search for .jira-pm.yml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (table, json, csv, quiet)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func setupLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads the configuration honoring the --config flag. A
// missing config file is not an error: credentials can come entirely
// from the environment, so defaults are used instead. An unreadable or
// invalid file is always an error.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return cfg, nil
	}

	if !config.Exists() {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newFormatter builds the output formatter from the --format flag.
func newFormatter() (*output.Formatter, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format), nil
}

func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
