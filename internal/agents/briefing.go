package agents

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hanselhq/hansel/internal/storage"
	"github.com/hanselhq/hansel/pkg/models"
)

// Mode selects which ordered subset of elements a briefing requires.
type Mode string

const (
	ModeFull  Mode = "full"
	ModeQuick Mode = "quick"
)

// Element is one of the five canonical mandate information slots.
type Element string

const (
	ElementContext      Element = "context"
	ElementMyIntent     Element = "my_intent"
	ElementHigherIntent Element = "higher_intent"
	ElementKeyTasks     Element = "key_tasks"
	ElementBoundaries   Element = "boundaries"
)

// canonicalElements is the full briefing sequence. Quick mode requires a
// fixed subset in the same relative order.
var canonicalElements = []Element{
	ElementContext,
	ElementMyIntent,
	ElementHigherIntent,
	ElementKeyTasks,
	ElementBoundaries,
}

var quickElements = []Element{
	ElementContext,
	ElementHigherIntent,
	ElementBoundaries,
}

// elementLabels are the display names used in prompts and summaries.
var elementLabels = map[Element]string{
	ElementContext:      "Context",
	ElementMyIntent:     "My Intent",
	ElementHigherIntent: "Higher Intent",
	ElementKeyTasks:     "Key Tasks",
	ElementBoundaries:   "Boundaries",
}

// elementPrompts are the questions asked for each element.
var elementPrompts = map[Element]string{
	ElementContext:      "**Context** — Why now? What triggered this?",
	ElementMyIntent:     "**My Intent** — What exactly do you want to achieve? Make it measurable.",
	ElementHigherIntent: "**Higher Intent** — What larger goal does this serve? The bigger picture?",
	ElementKeyTasks:     "**Key Tasks** — What are the 2-3 essential steps?",
	ElementBoundaries:   "**Boundaries** — What will we NOT do? Where are the limits?",
}

// elementClarifications are the per-element scripts used when an answer is
// vague. The %q verb is filled with the vague term that triggered them.
var elementClarifications = map[Element]string{
	ElementContext:      "You said %q — what concretely happened, and when? A date, an event, a number helps me pin down the trigger.",
	ElementMyIntent:     "%q is a direction, not a destination. What measurable outcome, by when? Give me a number or a date.",
	ElementHigherIntent: "%q could mean many things. Which larger goal exactly does this serve — and how would we know it moved?",
	ElementKeyTasks:     "%q stays abstract. Name the concrete steps — what happens first, what second?",
	ElementBoundaries:   "%q doesn't draw a line yet. What is explicitly out of scope — which features, markets, or timeframes?",
}

// quickModePlaceholder marks elements outside quick mode in the final mandate.
const quickModePlaceholder = "*Not collected in quick mode — run `*briefing` for the full version.*"

// Briefing is the per-persona elicitation state machine. It walks the user
// through the required elements, detects vague answers, requests
// clarification, and produces a confirmable summary.
type Briefing struct {
	store storage.ArtifactStoreManager

	active   bool
	mode     Mode
	required []Element

	completed []Element
	answers   map[Element]string

	awaitingClarification bool
	lastVagueAnswer       string
	awaitingConfirmation  bool
}

// NewBriefing creates an idle briefing bound to the artifact store.
func NewBriefing(store storage.ArtifactStoreManager) *Briefing {
	b := &Briefing{store: store}
	b.Reset()
	return b
}

// Reset clears all state back to idle.
func (b *Briefing) Reset() {
	b.active = false
	b.mode = ModeFull
	b.required = nil
	b.completed = nil
	b.answers = make(map[Element]string)
	b.awaitingClarification = false
	b.lastVagueAnswer = ""
	b.awaitingConfirmation = false
}

// Active reports whether a structured dialogue is running.
func (b *Briefing) Active() bool { return b.active }

// AwaitingConfirmation reports whether all elements are answered and the
// summary awaits the user's confirmation.
func (b *Briefing) AwaitingConfirmation() bool { return b.awaitingConfirmation }

// Answers returns the collected element answers.
func (b *Briefing) Answers() map[Element]string {
	out := make(map[Element]string, len(b.answers))
	for k, v := range b.answers {
		out[k] = v
	}
	return out
}

// Mode returns the current briefing mode.
func (b *Briefing) Mode() Mode { return b.mode }

// CurrentElement returns the first required element not yet completed.
func (b *Briefing) CurrentElement() (Element, bool) {
	for _, e := range b.required {
		if !b.isCompleted(e) {
			return e, true
		}
	}
	return "", false
}

func (b *Briefing) isCompleted(e Element) bool {
	for _, c := range b.completed {
		if c == e {
			return true
		}
	}
	return false
}

// Start resets the state and begins a dialogue in the given mode, returning
// the opening prompt for the first element.
func (b *Briefing) Start(mode Mode) string {
	b.Reset()
	b.active = true
	b.mode = mode
	if mode == ModeQuick {
		b.required = append([]Element(nil), quickElements...)
	} else {
		b.required = append([]Element(nil), canonicalElements...)
	}

	first, _ := b.CurrentElement()
	var intro string
	if mode == ModeQuick {
		intro = "## Quick Check\n\nShort on time? Fine. Let's nail the **3 critical elements** — context, higher intent, boundaries.\n\n"
	} else {
		intro = "## Briefing\n\nGood. Let's clarify the mandate. I'll walk you through the **5 elements** one by one.\n\n"
	}
	return intro + b.prompt(first)
}

// prompt renders the question for an element with a progress indicator.
func (b *Briefing) prompt(e Element) string {
	return fmt.Sprintf("%s\n\n*(%d/%d)*", elementPrompts[e], len(b.completed)+1, len(b.required))
}

// Answer processes a free-text answer for the current element. When no
// dialogue is active it is a no-op and returns handled=false.
func (b *Briefing) Answer(text string) (string, bool) {
	if !b.active {
		return "", false
	}
	current, ok := b.CurrentElement()
	if !ok {
		return "", false
	}

	if b.awaitingClarification {
		merged := b.lastVagueAnswer + " → " + strings.TrimSpace(text)
		b.answers[current] = merged
		b.completed = append(b.completed, current)
		b.awaitingClarification = false
		b.lastVagueAnswer = ""
		return b.advance(), true
	}

	if term, vague := classifyVague(text); vague {
		b.awaitingClarification = true
		b.lastVagueAnswer = strings.TrimSpace(text)
		return fmt.Sprintf(elementClarifications[current], term), true
	}

	b.answers[current] = strings.TrimSpace(text)
	b.completed = append(b.completed, current)
	return b.advance(), true
}

// advance moves to the next required element, or to awaiting-confirmation
// with a summary when none remains.
func (b *Briefing) advance() string {
	next, ok := b.CurrentElement()
	if ok {
		return b.prompt(next)
	}

	b.active = false
	b.awaitingConfirmation = true
	return b.summary()
}

// summary renders one block per canonical element in order, pairing each
// with its collected answer or a mode placeholder.
func (b *Briefing) summary() string {
	var sb strings.Builder
	sb.WriteString("## Summary\n\nHere is what I have. Read it carefully.\n\n")
	for _, e := range canonicalElements {
		sb.WriteString("**" + elementLabels[e] + "**\n")
		if answer, ok := b.answers[e]; ok {
			sb.WriteString(answer + "\n\n")
		} else if b.mode == ModeQuick && !b.isRequired(e) {
			sb.WriteString("*not included in quick mode*\n\n")
		} else {
			sb.WriteString("—\n\n")
		}
	}
	sb.WriteString("---\n\nDoes this fit? Reply **yes** to save the mandate, or tell me what to change.")
	return sb.String()
}

func (b *Briefing) isRequired(e Element) bool {
	for _, r := range b.required {
		if r == e {
			return true
		}
	}
	return false
}

// Confirm builds the final mandate artifact covering all five canonical
// elements and persists it, then resets to idle. The second return signals
// handback to the coordinator. Valid with empty answers: placeholders are
// used, never an error.
func (b *Briefing) Confirm(projectName string) (string, error) {
	if projectName == "" {
		projectName = "My Project"
	}
	quick := b.mode == ModeQuick

	var content strings.Builder
	if quick {
		content.WriteString("## QUICK-CHECK MANDATE\n\n*Compact version — critical elements only*\n\n---\n\n")
	}
	for _, e := range canonicalElements {
		content.WriteString("## " + elementLabels[e] + "\n")
		if answer, ok := b.answers[e]; ok && answer != "" {
			content.WriteString(answer + "\n\n")
		} else if quick {
			content.WriteString(quickModePlaceholder + "\n\n")
		} else {
			content.WriteString("*[to be clarified]*\n\n")
		}
	}

	title := "Mandate: " + projectName
	if quick {
		title = "Quick Mandate: " + projectName
	}

	artifact := models.Artifact{
		ID:        models.MandateID,
		Type:      models.TypeMandate,
		Title:     title,
		Content:   strings.TrimSpace(content.String()),
		Status:    models.StatusComplete,
		CreatedBy: "arthur",
		CreatedAt: time.Now(),
	}
	if _, err := b.store.Save(artifact); err != nil {
		return "", fmt.Errorf("confirming mandate: %w", err)
	}

	b.Reset()

	if quick {
		return "## Quick mandate saved\n\nQuick check done. The mandate is on the **discovery wall**.\n\nFor a complete mandate later, run `*briefing`.\n\n---\n\n**Next step:** Nora takes over.", nil
	}
	return "## Mandate saved\n\nThe mandate stands. It is on the **discovery wall**.\n\n---\n\n**Next step:** Nora takes over and shows you the way.", nil
}

// vaguenessLexicon lists generic outcome terms with no concrete grounding.
var vaguenessLexicon = []string{
	"better", "more", "improve", "improved", "improvement", "quality",
	"optimize", "optimized", "growth", "success", "successful",
	"efficient", "efficiency", "faster", "easier", "nicer",
}

// shortTextThreshold: answers at or above this length are never vague.
const shortTextThreshold = 100

var (
	numberPattern  = regexp.MustCompile(`\d`)
	quarterPattern = regexp.MustCompile(`(?i)\bq[1-4]\b`)
	monthPattern   = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
)

// classifyVague applies the fixed heuristic: a lexicon term is present, no
// concrete indicator (number, percentage, year, quarter, month) appears, and
// the text is short. Returns the matched lexicon term.
func classifyVague(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) >= shortTextThreshold {
		return "", false
	}
	if numberPattern.MatchString(trimmed) || quarterPattern.MatchString(trimmed) || monthPattern.MatchString(trimmed) {
		return "", false
	}

	lower := strings.ToLower(trimmed)
	for _, term := range vaguenessLexicon {
		if containsWord(lower, term) {
			return term, true
		}
	}
	return "", false
}

// containsWord reports a whole-word, case-normalized occurrence.
func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordByte(lower[start-1])
		afterOK := end == len(lower) || !isWordByte(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// affirmationTokens confirm a summary. A message counts iff it equals or
// begins with one of these, followed by end, a space, or a comma.
var affirmationTokens = []string{
	"yes", "ja", "ok", "okay", "confirmed", "passt", "fits", "correct", "right",
}

// IsAffirmation reports whether the message is an affirmative confirmation.
func IsAffirmation(message string) bool {
	msg := strings.ToLower(strings.TrimSpace(message))
	for _, tok := range affirmationTokens {
		if msg == tok {
			return true
		}
		if strings.HasPrefix(msg, tok+" ") || strings.HasPrefix(msg, tok+",") {
			return true
		}
	}
	return false
}
