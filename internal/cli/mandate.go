package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hanselhq/hansel/pkg/models"
)

var mandateCmd = &cobra.Command{
	Use:   "mandate",
	Short: "Print the current mandate",
	Long: `Print the mandate artifact from the discovery wall, if one has been
saved. The mandate is created with Arthur (*briefing or *schnellcheck)
or the global *speichern command during a chat session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ArtifactStore == nil {
			return fmt.Errorf("artifact store not initialized")
		}

		mandates, err := ArtifactStore.LoadByType(models.TypeMandate)
		if err != nil {
			return fmt.Errorf("loading mandate: %w", err)
		}
		if len(mandates) == 0 {
			fmt.Println("No mandate yet. Run `hansel chat` and start a briefing with Arthur (*briefing).")
			return nil
		}

		m := mandates[0]
		fmt.Printf("# %s\n\n", m.Title)
		fmt.Printf("status: %s | created by: %s\n\n", m.Status, m.CreatedBy)
		fmt.Println(m.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mandateCmd)
}
