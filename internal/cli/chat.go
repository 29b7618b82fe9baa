package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hanselhq/hansel/internal/core"
	"github.com/hanselhq/hansel/internal/llm"
)

var chatFresh bool

// Chat rendering styles.
var (
	personaHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62"))

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	chatHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive discovery session",
	Long: `Start an interactive chat session with the persona team.

An existing transcript in the wall directory is resumed automatically;
use --fresh to ignore it and start over. Type a message to talk to the
active persona, or a *-command (e.g. *status, *wechsel arthur). Exit
with "exit", "quit", or Ctrl-D.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Registry == nil || Loader == nil || SessionStore == nil || Cfg == nil || ConfigMgr == nil {
			return fmt.Errorf("application not initialized")
		}

		ctx := cmd.Context()

		apiKey, err := ConfigMgr.APIKey(Cfg.LLM.Provider)
		if err != nil {
			return fmt.Errorf("starting chat: %w (set the key in your environment and retry)", err)
		}
		client, err := llm.NewClient(ctx, Cfg.LLM, apiKey)
		if err != nil {
			return fmt.Errorf("starting chat: %w", err)
		}

		sess := core.NewSessionContext()
		if !chatFresh {
			messages, meta, err := SessionStore.Load()
			if err != nil {
				return fmt.Errorf("resuming session: %w", err)
			}
			sess.Messages = messages
			if meta.CurrentPersona != "" {
				sess.CurrentPersona = meta.CurrentPersona
			}
			sess.MandateComplete = meta.MandateComplete
		}

		orch := core.NewOrchestrator(Registry, Loader, client, SessionStore, EventLog)

		fmt.Println(personaHeaderStyle.Render("Hansel") + " — discovery session (" + Cfg.SessionName + ")")
		fmt.Println(chatHelpStyle.Render("exit/quit to leave, *status for the wall, *wechsel <name> to switch persona"))
		fmt.Println()

		active := Registry.Active(sess.CurrentPersona)
		if len(sess.Messages) == 0 {
			printPersonaMessage(active.Icon(), active.Name(), active.Greeting())
		} else {
			fmt.Printf("Resumed session with %d message(s); %s is active.\n\n", len(sess.Messages), active.Name())
		}

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for {
			fmt.Print(promptStyle.Render("you> "))
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "exit" || input == "quit" {
				fmt.Println("Session saved. Bye.")
				return nil
			}

			result, err := orch.ProcessTurn(ctx, sess, input)
			if err != nil {
				fmt.Fprintf(os.Stderr, "turn failed: %v\n", err)
				continue
			}
			for _, msg := range result.Responses {
				printPersonaMessage(msg.PersonaIcon, msg.PersonaName, msg.Content)
			}
		}
	},
}

// printPersonaMessage renders one assistant message with its persona header.
func printPersonaMessage(icon, name, content string) {
	fmt.Println(personaHeaderStyle.Render(fmt.Sprintf("%s %s", icon, name)))
	fmt.Println(content)
	fmt.Println()
}

func init() {
	chatCmd.Flags().BoolVar(&chatFresh, "fresh", false, "Ignore any existing transcript and start a new session")
	rootCmd.AddCommand(chatCmd)
}
