package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build information set at compile time via ldflags
var (
	Commit = "none"
	Date   = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  `Display the version information for jira-pm including version number, commit hash, and build date.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jira-pm version %s\n", Version)
		if verbose {
			fmt.Printf("  commit: %s\n", Commit)
			fmt.Printf("  built:  %s\n", Date)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
