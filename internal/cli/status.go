package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hanselhq/hansel/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the discovery wall and session at a glance",
	Long: `Show artifact counts per wall category together with the current
session state (active persona, message count, mandate status).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ArtifactStore == nil {
			return fmt.Errorf("artifact store not initialized")
		}

		counts, err := ArtifactStore.CountsByCategory()
		if err != nil {
			return fmt.Errorf("reading wall: %w", err)
		}

		fmt.Println("== Discovery Wall ==")
		total := 0
		for _, category := range models.WallCategories {
			n := counts[category]
			total += n
			fmt.Printf("  %-10s %d\n", category, n)
		}
		fmt.Printf("  %-10s %d\n", "total", total)

		if SessionStore == nil || !SessionStore.Exists() {
			fmt.Println("\nNo active session. Run `hansel chat` to start one.")
			return nil
		}

		messages, meta, err := SessionStore.Load()
		if err != nil {
			return fmt.Errorf("reading session: %w", err)
		}

		fmt.Println("\n== Session ==")
		fmt.Printf("  %-10s %s\n", "id", meta.ID)
		fmt.Printf("  %-10s %s\n", "name", meta.Name)
		fmt.Printf("  %-10s %s\n", "persona", meta.CurrentPersona)
		fmt.Printf("  %-10s %d\n", "messages", len(messages))
		if meta.MandateComplete {
			fmt.Printf("  %-10s complete\n", "mandate")
		} else {
			fmt.Printf("  %-10s pending\n", "mandate")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
