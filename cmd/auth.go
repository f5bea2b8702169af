package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yahsan2/jira-pm/pkg/config"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored Jira credentials",
	Long: `Store, inspect, or remove Jira credentials in the system keyring.

Stored credentials are used when JIRA_EMAIL or JIRA_API_TOKEN are not
set in the environment. Environment variables always win.`,
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store Jira credentials in the system keyring",
	Example: `  # Prompt for the token
  jira-pm auth set --email dev@example.com

  # Fully non-interactive
  jira-pm auth set --email dev@example.com --token <api-token>`,
	RunE: runAuthSet,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which credentials are configured",
	RunE:  runAuthStatus,
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove stored credentials from the system keyring",
	RunE:  runAuthClear,
}

// Command flags
var (
	authEmail string
	authToken string
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authClearCmd)

	authSetCmd.Flags().StringVar(&authEmail, "email", "", "Jira account email")
	authSetCmd.Flags().StringVar(&authToken, "token", "", "Jira API token (prompted when omitted)")
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	email := strings.TrimSpace(authEmail)
	if email == "" {
		fmt.Print("Email: ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			email = strings.TrimSpace(scanner.Text())
		}
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	token := strings.TrimSpace(authToken)
	if token == "" {
		value, err := promptToken()
		if err != nil {
			return err
		}
		token = value
	}
	if token == "" {
		return fmt.Errorf("API token is required")
	}

	keystore := config.NewKeystore()
	if err := keystore.Set(config.KeyEmail, email); err != nil {
		return fmt.Errorf("failed to store email: %w", err)
	}
	if err := keystore.Set(config.KeyAPIToken, token); err != nil {
		return fmt.Errorf("failed to store API token: %w", err)
	}

	fmt.Printf("✓ Credentials stored for %s\n", email)
	return nil
}

// promptToken reads the API token from the terminal with echo disabled.
func promptToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal available to prompt for the token (use --token)")
	}

	fmt.Fprint(os.Stderr, "API token: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	return strings.TrimSpace(string(raw)), nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("Environment:")
	for _, name := range []string{config.EnvBaseURL, config.EnvEmail, config.EnvAPIToken, config.EnvProjectKey} {
		state := "not set"
		if strings.TrimSpace(os.Getenv(name)) != "" {
			state = "set"
		}
		fmt.Printf("  %s: %s\n", name, state)
	}

	keystore := config.NewKeystore()
	fmt.Println("Keyring:")
	for _, item := range []struct{ label, key string }{
		{"email", config.KeyEmail},
		{"api token", config.KeyAPIToken},
	} {
		state := "not stored"
		if keystore.Has(item.key) {
			state = "stored"
		}
		fmt.Printf("  %s: %s\n", item.label, state)
	}

	return nil
}

func runAuthClear(cmd *cobra.Command, args []string) error {
	keystore := config.NewKeystore()

	removed := 0
	for _, key := range []string{config.KeyEmail, config.KeyAPIToken} {
		if !keystore.Has(key) {
			continue
		}
		if err := keystore.Delete(key); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
		removed++
	}

	if removed == 0 {
		fmt.Println("No stored credentials to remove")
		return nil
	}

	fmt.Println("✓ Stored credentials removed")
	return nil
}
