package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "hansel",
	Short: "Hansel - guided product discovery with a persona team",
	Long: `Hansel is a product discovery assistant that pairs you with a team of
specialist personas. Nora coordinates the session, Arthur elicits a
mission briefing, and every result lands as a markdown artifact on a
shared discovery wall.

It provides CLI commands for running chat sessions, inspecting the
discovery wall, reviewing the mandate, and serving the wall to MCP
clients.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hansel %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
