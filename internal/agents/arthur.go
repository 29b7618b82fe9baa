package agents

import (
	"fmt"
	"strings"
	"time"

	"github.com/hanselhq/hansel/internal/storage"
	"github.com/hanselhq/hansel/pkg/models"
)

// Arthur is the mandate architect. A strategic mentor who walks the user
// through the briefing dialogue until a clear mandate stands.
type Arthur struct {
	store    storage.ArtifactStoreManager
	briefing *Briefing
}

// NewArthur creates the mandate architect over the given store.
func NewArthur(store storage.ArtifactStoreManager) *Arthur {
	return &Arthur{
		store:    store,
		briefing: NewBriefing(store),
	}
}

func (a *Arthur) ID() string   { return "arthur" }
func (a *Arthur) Name() string { return "Arthur" }
func (a *Arthur) Icon() string { return "🎖️" }
func (a *Arthur) Role() string { return "Mandate Architect" }

func (a *Arthur) Commands() []string {
	return []string{"*briefing", "*schnellcheck", "*backbriefing", "*alignment-check", "*speichern"}
}

// Briefing exposes the elicitation state machine for routing.
func (a *Arthur) Briefing() *Briefing { return a.briefing }

// HandleCommand handles Arthur's commands.
func (a *Arthur) HandleCommand(command string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "*briefing":
		return a.briefing.Start(ModeFull), true
	case "*schnellcheck":
		return a.briefing.Start(ModeQuick), true
	case "*backbriefing":
		return a.requestBackbriefing(), true
	case "*alignment-check":
		return a.checkAlignment(), true
	case "*speichern":
		return a.savePrompt(), true
	}
	return "", false
}

func (a *Arthur) requestBackbriefing() string {
	return `## Backbriefing

*Arthur pushes the notepad aside.*

Now **you**. I want to hear how you understood the mandate.

Put it in **your own words**:

1. **What** is the goal?
2. **Why** does it matter?
3. **How** do we recognize success?
4. **What** are the boundaries?

*I will listen carefully and surface anything unclear.*`
}

// checkAlignment reports whether a documented mandate exists on the wall.
func (a *Arthur) checkAlignment() string {
	mandates, err := a.store.LoadByType(models.TypeMandate)
	if err == nil && len(mandates) > 0 {
		return `## ✅ Alignment check

*Arthur nods slowly.*

We have a documented mandate on the discovery wall.

**The mandate stands.** You can explore with the team now.

*Type ` + "`*status`" + ` with Nora for the next step.*`
	}
	return `## ⚠️ Alignment check

*Arthur raises an eyebrow.*

There is **no documented mandate** on the discovery wall.

**Without a clear mandate, action is random.**

Tell me about your plan — I'll help you shape a clear mandate. Run ` + "`*briefing`" + ` when you're ready.`
}

func (a *Arthur) savePrompt() string {
	return `## Save mandate

*Arthur picks up the pen.*

To save the mandate, summarize it briefly. I need:

**Context:** Why now?
**My Intent:** What do you want to achieve?
**Higher Intent:** What does this serve?
**Key Tasks:** The 2-3 essential steps?
**Boundaries:** What do we NOT do?

---

Write it all in one message — I'll put it on the discovery wall.

*Tip: for a quick mandate (after ` + "`*schnellcheck`" + `) start with ` + "`QUICK:`" + `.*`
}

// SaveMandateFromContent persists a mandate compiled outside the briefing
// dialogue. A case-insensitive QUICK: prefix marks a quick-check mandate.
func (a *Arthur) SaveMandateFromContent(content, projectName string) (string, error) {
	if projectName == "" {
		projectName = "My Project"
	}

	trimmed := strings.TrimSpace(content)
	isQuick := strings.HasPrefix(strings.ToUpper(trimmed), "QUICK:")

	title := "Mandate: " + projectName
	body := trimmed
	if isQuick {
		title = "⚡ Quick Mandate: " + projectName
		body = "## QUICK-CHECK MANDATE\n\n*Compact version — critical elements only*\n\n---\n\n" +
			strings.TrimSpace(trimmed[len("QUICK:"):])
	}

	artifact := models.Artifact{
		ID:        models.MandateID,
		Type:      models.TypeMandate,
		Title:     title,
		Content:   body,
		Status:    models.StatusComplete,
		CreatedBy: a.ID(),
		CreatedAt: time.Now(),
	}
	if _, err := a.store.Save(artifact); err != nil {
		return "", fmt.Errorf("saving mandate: %w", err)
	}

	if isQuick {
		return `## ⚡ Quick mandate saved

*Arthur gives a short nod.*

Quick check complete. The quick mandate is on the **discovery wall**.

⚠️ *For a complete mandate, use ` + "`*briefing`" + ` later.*

---

**Next step:** Nora takes over.`, nil
	}
	return `## ✅ Mandate saved

*Arthur smiles, satisfied.*

The mandate stands. It has been saved to the **discovery wall**.

---

**Next step:** Nora takes over and shows you the way.`, nil
}

// Greeting is Arthur's characteristic opener when he becomes active.
func (a *Arthur) Greeting() string {
	return `*Arthur leans back, arms crossed.*

I am **Arthur** 🎖️. We only begin once we truly understand each other.

Strategy is not what the plan says — it is what gets **done**. Without a clear mandate, action is random.

---

**Tell me:** what brings you here? What do you want to achieve?

Run ` + "`*briefing`" + ` for the full dialogue or ` + "`*schnellcheck`" + ` if time is short. When we're done, type ` + "`*speichern`" + `.

*I'm listening.*`
}

func (a *Arthur) SystemPrompt() string {
	return `You are Arthur, the Mandate Architect — a strategic mentor in a product discovery team.
You help the user formulate a clear mandate with five elements: context, my intent, higher intent, key tasks, boundaries.
You coach through conversation, not forms. Press for concrete, measurable statements. Answer concisely.`
}
