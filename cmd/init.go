package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yahsan2/jira-pm/pkg/config"
	"github.com/yahsan2/jira-pm/pkg/jira"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize jira-pm configuration",
	Long: `Create a .jira-pm.yml configuration file in the current directory.

This command will:
- Write a .jira-pm.yml with project and default settings
- Offer the projects visible to your account when credentials resolve
- Leave credentials in the environment or keyring, never in the file`,
	Example: `  # Initialize with a known project key
  jira-pm init --project PROJ

  # Pick the project key from the reachable list
  jira-pm init

  # Overwrite an existing file without prompting
  jira-pm init --project PROJ --force`,
	RunE: runInit,
}

// Command flags
var (
	initProjectKey string
	initIssueType  string
	initForce      bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initProjectKey, "project", "p", "", "Jira project key")
	initCmd.Flags().StringVar(&initIssueType, "type", "", "Default issue type for new issues")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	if config.Exists() && !initForce {
		fmt.Printf("Configuration file %s already exists at %s.\n", config.ConfigFileName, config.FindConfigPath())
		fmt.Print("Do you want to overwrite it? (y/N): ")

		var response string
		fmt.Scanln(&response)
		if strings.ToLower(response) != "y" {
			fmt.Println("Initialization cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if initIssueType != "" {
		cfg.Defaults.IssueType = initIssueType
	}

	key := strings.ToUpper(strings.TrimSpace(initProjectKey))
	if key == "" {
		key = pickProjectKey(cmd, cfg)
	}
	cfg.Project.Key = key

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.Save(config.ConfigFileName); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("\n✓ Configuration saved to %s\n", config.ConfigFileName)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Review and edit .jira-pm.yml to customize settings")
	fmt.Println("  2. Run 'jira-pm check' to verify credentials and connectivity")
	fmt.Println("  3. Run 'jira-pm create -s \"Your summary\" -d \"Details\"' to create an issue")

	return nil
}

// pickProjectKey offers the projects visible to the resolved account.
// Unresolved credentials skip the selection; the key can be filled in
// later by editing the file.
func pickProjectKey(cmd *cobra.Command, cfg *config.Config) string {
	creds := config.NewResolver(cfg).Credentials()
	if creds.BaseURL == "" || creds.Email == "" || creds.APIToken == "" {
		fmt.Println("Credentials not configured: set JIRA_BASE_URL, JIRA_EMAIL, and JIRA_API_TOKEN")
		fmt.Println("or run 'jira-pm auth set' to pick the project key from a list.")
		return ""
	}

	fmt.Printf("Fetching projects from %s...\n", creds.BaseURL)
	client := jira.NewClient(creds.BaseURL, creds.Email, creds.APIToken)
	projects, err := client.Projects(cmd.Context())
	if err != nil {
		fmt.Printf("Warning: could not list projects: %v\n", err)
		return ""
	}

	return selectProject(projects)
}

// selectProject presents the project list and returns the chosen key.
func selectProject(projects []jira.Project) string {
	if len(projects) == 0 {
		fmt.Println("No projects visible to this account.")
		return ""
	}

	// A single project is offered directly
	if len(projects) == 1 {
		p := projects[0]
		fmt.Printf("Found 1 project: %s (%s)\n", p.Name, p.Key)
		fmt.Print("Use this project? (Y/n): ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			response := strings.ToLower(strings.TrimSpace(scanner.Text()))
			if response == "" || response == "y" || response == "yes" {
				return p.Key
			}
		}
		return ""
	}

	fmt.Printf("\nFound %d projects:\n", len(projects))
	for i, p := range projects {
		fmt.Printf("  %d. %s (%s)\n", i+1, p.Name, p.Key)
	}
	fmt.Printf("  0. Skip project selection\n")
	fmt.Printf("\nSelect a project (0-%d): ", len(projects))

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		choice, err := strconv.Atoi(input)
		if err == nil && choice >= 0 && choice <= len(projects) {
			if choice == 0 {
				return ""
			}
			return projects[choice-1].Key
		}
	}

	fmt.Println("Invalid selection, skipping project selection.")
	return ""
}
