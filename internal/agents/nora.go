package agents

import (
	"fmt"
	"strings"

	"github.com/hanselhq/hansel/internal/storage"
	"github.com/hanselhq/hansel/pkg/models"
)

// Nora is the coordinator of the discovery team. She keeps the overview of
// all four wall categories and routes the user to the right specialist.
type Nora struct {
	store storage.ArtifactStoreManager
}

// NewNora creates the coordinator over the given store.
func NewNora(store storage.ArtifactStoreManager) *Nora {
	return &Nora{store: store}
}

func (n *Nora) ID() string   { return "nora" }
func (n *Nora) Name() string { return "Nora" }
func (n *Nora) Icon() string { return "🔭" }
func (n *Nora) Role() string { return "Navigator" }

func (n *Nora) Commands() []string {
	return []string{"*status", "*check", "*agent", "*mandat"}
}

// HandleCommand handles Nora's commands.
func (n *Nora) HandleCommand(command string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "*status":
		return n.status(), true
	case "*check":
		return n.squashPointCheck(), true
	case "*agent":
		return n.suggestPersona(), true
	case "*mandat":
		return n.showMandate(), true
	}
	return "", false
}

// counts loads the wall counts, falling back to zeroes on storage errors.
func (n *Nora) counts() map[string]int {
	counts, err := n.store.CountsByCategory()
	if err != nil {
		counts = map[string]int{}
		for _, c := range models.WallCategories {
			counts[c] = 0
		}
	}
	return counts
}

func (n *Nora) status() string {
	counts := n.counts()

	parts := []string{
		"## 📊 Discovery Status\n",
		fmt.Sprintf("🎖️ **Mandate:** %d artifact(s)", counts["mandate"]),
		fmt.Sprintf("🔍 **Problem:** %d artifact(s)", counts["problem"]),
		fmt.Sprintf("💡 **Solution:** %d artifact(s)", counts["solution"]),
		fmt.Sprintf("🧪 **Test:** %d artifact(s)", counts["test"]),
		"",
	}

	total := counts["mandate"] + counts["problem"] + counts["solution"] + counts["test"]
	switch {
	case total == 0:
		parts = append(parts, "*No artifacts yet. Let's start with the mandate!*")
	case counts["mandate"] == 0:
		parts = append(parts, "⚠️ *No mandate yet. We should talk to Arthur first.*")
	default:
		parts = append(parts, "✅ *Mandate in place. We can explore!*")
	}
	return strings.Join(parts, "\n")
}

func (n *Nora) squashPointCheck() string {
	return `## 🔄 Squash Point Reflection

**What have we learned?**
- Which new insights did we gain?
- What do we know now that we didn't before?

**Do we know enough for the next step?**
- Do we have validated facts or just assumptions?
- Does our approach still fit the mandate?

*Tell me what you learned, then we decide the next step together.*`
}

// suggestPersona recommends the next specialist based on wall state.
func (n *Nora) suggestPersona() string {
	counts := n.counts()

	switch {
	case counts["mandate"] == 0:
		return `## 👤 Next: Arthur

The mandate is still missing! I recommend talking to **Arthur** 🎖️ first.
He helps you formulate a clear mandate — the foundation for everything else.

*Type ` + "`*wechsel arthur`" + ` to switch to him.*`
	case counts["problem"] == 0:
		return `## 👤 Next: Finn

The mandate stands! Now we should understand the **problem** better.
**Finn** 🔍 helps with needs analysis and user research.

*Finn is not on the team yet. Stay with me or go back to Arthur.*`
	case counts["solution"] == 0:
		return `## 👤 Next: Ida

We have insights! Time for **solution ideas**.
**Ida** 💡 helps with how-might-we questions and brainstorming.

*Ida is not on the team yet. Stay with me or go back to Arthur.*`
	default:
		return `## 👤 Next: Theo

We have ideas! Time to **test**.
**Theo** 🧪 helps you validate assumptions with test cards.

*Theo is not on the team yet. Stay with me or go back to Arthur.*`
	}
}

func (n *Nora) showMandate() string {
	mandates, err := n.store.LoadByType(models.TypeMandate)
	if err == nil && len(mandates) > 0 {
		m := mandates[0]
		return fmt.Sprintf("## 🎖️ Current Mandate\n\n**%s**\n\n%s", m.Title, m.Content)
	}
	return "## 🎖️ Mandate\n\n*No mandate yet. Talk to Arthur to create one.*"
}

// Greeting reflects the wall state: a fresh start or a resumed session.
func (n *Nora) Greeting() string {
	counts := n.counts()

	parts := []string{
		fmt.Sprintf("Hello! I'm **%s** %s, your navigator.", n.Name(), n.Icon()),
		"",
		"I stand at the squash point in the middle of our discovery model and keep the overview of all four fields:",
		"- 🎖️ **Mandate** — what is our brief?",
		"- 🔍 **Problem** — what is the need?",
		"- 💡 **Solution** — which ideas do we have?",
		"- 🧪 **Test** — what have we validated?",
		"",
	}

	total := counts["mandate"] + counts["problem"] + counts["solution"] + counts["test"]
	if counts["mandate"] == 0 {
		parts = append(parts,
			"I see we don't have a **mandate** yet. That's the most important first step!",
			"",
			"Tell me: *what brings you here?* Or type `*status` for an overview.",
			"",
			"💡 *Tip: once you tell me your plan, I can hand you over to **Arthur** — he helps with the mandate.*",
		)
	} else {
		parts = append(parts,
			fmt.Sprintf("Good to see you again! We already have %d artifact(s).", total),
			"",
			"Type `*status` for an overview or tell me where you want to pick up.",
		)
	}
	return strings.Join(parts, "\n")
}

func (n *Nora) SystemPrompt() string {
	return `You are Nora, the Navigator — the coordinator of a product discovery team.
You keep the overview of the four discovery fields (mandate, problem, solution, test) and route the user to the right specialist.
When the user describes a new undertaking without a mandate, recommend handing over to Arthur. Answer concisely and warmly.`
}
