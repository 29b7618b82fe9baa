package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the discovery wall and the session transcript",
	Long: `Remove all artifacts from the discovery wall and delete the saved
session transcript. This cannot be undone; pass --force to skip the
confirmation prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ArtifactStore == nil || SessionStore == nil {
			return fmt.Errorf("application not initialized")
		}

		if !resetForce {
			fmt.Print("This removes all artifacts and the transcript. Continue? [y/N] ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := ArtifactStore.ClearAll(); err != nil {
			return fmt.Errorf("clearing wall: %w", err)
		}
		if err := SessionStore.Clear(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}

		fmt.Println("Discovery wall and session cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}
