package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yahsan2/jira-pm/pkg/retry"
)

const ConfigFileName = ".jira-pm.yml"

// Config represents the project configuration
type Config struct {
	Project  ProjectConfig  `yaml:"project"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Retry    RetryConfig    `yaml:"retry"`
	Output   OutputConfig   `yaml:"output"`
}

// ProjectConfig represents Jira project settings
type ProjectConfig struct {
	Key     string `yaml:"key"`
	BaseURL string `yaml:"base_url,omitempty"` // Overridden by JIRA_BASE_URL when set
}

// DefaultsConfig represents default values for new issues
type DefaultsConfig struct {
	IssueType string `yaml:"issue_type"`
}

// RetryConfig represents the retry policy as written in YAML.
// InitialDelay is in seconds so the file stays human-editable.
type RetryConfig struct {
	MaxRetries   int     `yaml:"max_retries"`
	InitialDelay float64 `yaml:"initial_delay"`
}

// Policy converts the YAML representation into a retry policy.
// A missing or non-positive delay falls back to the default.
func (r RetryConfig) Policy() retry.Policy {
	policy := retry.Policy{
		MaxRetries:   r.MaxRetries,
		InitialDelay: time.Duration(r.InitialDelay * float64(time.Second)),
	}
	if policy.InitialDelay <= 0 {
		policy.InitialDelay = retry.DefaultPolicy().InitialDelay
	}
	return policy
}

// OutputConfig represents output settings
type OutputConfig struct {
	Format     string `yaml:"format"`
	ResultsDir string `yaml:"results_dir,omitempty"`
}

var projectKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*$`)

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Key: "",
		},
		Defaults: DefaultsConfig{
			IssueType: "Story",
		},
		Retry: RetryConfig{
			MaxRetries:   3,
			InitialDelay: 1,
		},
		Output: OutputConfig{
			Format:     "table",
			ResultsDir: ".",
		},
	}
}

// Load loads configuration from the nearest config file, searching the
// current directory and its parents.
func Load() (*Config, error) {
	configPath := findConfigFile()
	if configPath == "" {
		return nil, fmt.Errorf("configuration file %s not found in current or parent directories", ConfigFileName)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from an explicit path
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in current and parent directories
func findConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// Exists checks if configuration file exists
func Exists() bool {
	return findConfigFile() != ""
}

// FindConfigPath returns the path to the configuration file
func FindConfigPath() string {
	return findConfigFile()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Project.Key != "" && !projectKeyPattern.MatchString(c.Project.Key) {
		return fmt.Errorf("invalid project key '%s': must be uppercase letters and digits, starting with a letter", c.Project.Key)
	}

	switch c.Output.Format {
	case "", "table", "json", "csv", "quiet":
	default:
		return fmt.Errorf("invalid output format '%s': must be one of table, json, csv, quiet", c.Output.Format)
	}

	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must be >= 0, got %d", c.Retry.MaxRetries)
	}
	if c.Retry.InitialDelay < 0 {
		return fmt.Errorf("retry.initial_delay must be >= 0, got %v", c.Retry.InitialDelay)
	}

	return nil
}
