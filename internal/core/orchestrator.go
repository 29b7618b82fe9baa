package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hanselhq/hansel/internal/agents"
	"github.com/hanselhq/hansel/internal/llm"
	"github.com/hanselhq/hansel/internal/observability"
	"github.com/hanselhq/hansel/internal/storage"
	"github.com/hanselhq/hansel/pkg/models"
)

// SessionContext is the explicit, mutable session state threaded through
// every turn. No ambient globals: the orchestrator reads and updates this
// struct and nothing else.
type SessionContext struct {
	Messages        []models.Message
	CurrentPersona  string
	MandateComplete bool
}

// NewSessionContext returns a session starting with the coordinator active.
func NewSessionContext() *SessionContext {
	return &SessionContext{CurrentPersona: agents.CoordinatorID}
}

// TurnResult carries the assistant messages produced by one user turn.
type TurnResult struct {
	// Responses in emission order; each already appended to the session.
	Responses []models.Message
	// SwitchedTo is set when the turn changed the active persona.
	SwitchedTo string
}

// Orchestrator routes each user turn: command dispatch, persona switching,
// the briefing dialogue, completion-service pass-through, and delegation
// detection on generated text.
type Orchestrator struct {
	registry *agents.Registry
	loader   ContextLoader
	client   llm.Client
	sessions storage.SessionStoreManager
	events   observability.EventLog // may be nil
}

// NewOrchestrator wires the turn pipeline. events may be nil.
func NewOrchestrator(registry *agents.Registry, loader ContextLoader, client llm.Client, sessions storage.SessionStoreManager, events observability.EventLog) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		loader:   loader,
		client:   client,
		sessions: sessions,
		events:   events,
	}
}

// Registry exposes the persona registry for presentation layers.
func (o *Orchestrator) Registry() *agents.Registry { return o.registry }

func (o *Orchestrator) logEvent(eventType, message string, data map[string]any) {
	if o.events == nil {
		return
	}
	_ = o.events.Write(observability.Event{
		Time:    time.Now(),
		Level:   "INFO",
		Type:    eventType,
		Message: message,
		Data:    data,
	})
}

// appendUser records the user message in the session.
func (o *Orchestrator) appendUser(sess *SessionContext, content string) {
	sess.Messages = append(sess.Messages, models.Message{
		Role:      models.RoleUser,
		Content:   content,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// appendAssistant records an assistant message attributed to the persona and
// adds it to the turn result.
func (o *Orchestrator) appendAssistant(sess *SessionContext, result *TurnResult, p agents.Persona, content string) {
	msg := models.Message{
		Role:        models.RoleAssistant,
		Content:     content,
		Persona:     p.ID(),
		PersonaIcon: p.Icon(),
		PersonaName: p.Name(),
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	sess.Messages = append(sess.Messages, msg)
	result.Responses = append(result.Responses, msg)
}

// persist writes the transcript after a turn; persistence failures are
// surfaced through the event log, not the user.
func (o *Orchestrator) persist(sess *SessionContext) {
	if o.sessions == nil {
		return
	}
	if _, err := o.sessions.Save(sess.Messages, sess.CurrentPersona, sess.MandateComplete); err != nil {
		o.logEvent("session.save_failed", err.Error(), nil)
	}
}

// ProcessTurn handles one full user turn. The completion-service call is the
// only operation that can block; its errors become inline assistant messages
// and never fail the turn.
func (o *Orchestrator) ProcessTurn(ctx context.Context, sess *SessionContext, input string) (*TurnResult, error) {
	result := &TurnResult{}
	o.appendUser(sess, input)
	defer o.persist(sess)

	active := o.registry.Active(sess.CurrentPersona)

	// Explicit switch command.
	if target, ok := agents.ParseSwitchCommand(input); ok {
		o.handleSwitch(sess, result, active, target)
		return result, nil
	}

	// Global save verb, usable regardless of the active persona.
	if strings.EqualFold(strings.TrimSpace(input), "*speichern") {
		o.handleGlobalSave(ctx, sess, result)
		return result, nil
	}

	// A running briefing consumes free text and confirmations.
	if arthur, ok := active.(*agents.Arthur); ok && !agents.IsCommand(input) {
		if o.handleBriefingTurn(sess, result, arthur, input) {
			return result, nil
		}
	}

	// Persona command.
	if agents.IsCommand(input) {
		if response, handled := active.HandleCommand(input); handled {
			o.appendAssistant(sess, result, active, response)
			o.logEvent("turn.command", input, map[string]any{"persona": active.ID()})
			return result, nil
		}
	}

	// Pass-through to the completion service.
	o.handleCompletion(ctx, sess, result, active, input)
	return result, nil
}

// handleSwitch validates an explicit `*wechsel` target. Unknown targets
// leave the active persona unchanged and name the valid alternatives.
func (o *Orchestrator) handleSwitch(sess *SessionContext, result *TurnResult, active agents.Persona, target string) {
	next, ok := o.registry.Get(target)
	if !ok {
		msg := fmt.Sprintf("⚠️ Persona %q not found. Available: %s", target, strings.Join(o.registry.IDs(), ", "))
		o.appendAssistant(sess, result, active, msg)
		return
	}
	sess.CurrentPersona = next.ID()
	result.SwitchedTo = next.ID()
	o.appendAssistant(sess, result, next, next.Greeting())
	o.logEvent("persona.switched", target, map[string]any{"from": active.ID()})
}

// handleBriefingTurn feeds free text into Arthur's briefing when it is
// running, including the confirmation step. Returns false when the briefing
// is idle so the turn falls through to the completion service.
func (o *Orchestrator) handleBriefingTurn(sess *SessionContext, result *TurnResult, arthur *agents.Arthur, input string) bool {
	b := arthur.Briefing()

	if b.AwaitingConfirmation() {
		if agents.IsAffirmation(input) {
			response, err := b.Confirm("")
			if err != nil {
				o.appendAssistant(sess, result, arthur, "⚠️ Saving the mandate failed: "+err.Error())
				return true
			}
			sess.MandateComplete = true
			o.appendAssistant(sess, result, arthur, response)
			o.handback(sess, result)
			o.logEvent("mandate.saved", "briefing confirmed", nil)
			return true
		}
		// Not a confirmation: treat as a correction request and restart the
		// conversation loop with Arthur.
		return false
	}

	if response, handled := b.Answer(input); handled {
		o.appendAssistant(sess, result, arthur, response)
		return true
	}
	return false
}

// handback returns control to the coordinator after a saved mandate.
func (o *Orchestrator) handback(sess *SessionContext, result *TurnResult) {
	nora := o.registry.Active(agents.CoordinatorID)
	sess.CurrentPersona = nora.ID()
	result.SwitchedTo = nora.ID()
	o.appendAssistant(sess, result, nora, `*Nora nods to Arthur.*

Very good! The mandate stands. I can see it on the **discovery wall**.

You have a clear base now. What would you like to explore next?

*Type `+"`*status`"+` for the overview.*`)
}

// extractionPrompt asks the completion service to compile a mandate from the
// transcript when no briefing answers were collected.
const extractionPrompt = `You are Arthur, the Mandate Architect.

Your task: extract a structured mandate from the conversation so far.

Format the mandate EXACTLY like this:

## Context
[Why now? What is the trigger?]

## My Intent
[What should be achieved, concretely? Measurable!]

## Higher Intent
[What larger goal does this serve?]

## Key Tasks
[The 2-3 essential steps]

## Boundaries
[What will NOT be done? Limits?]

---

IMPORTANT:
- Extract ONLY what was discussed in the conversation
- If an element is missing, write "[to be clarified]"
- Summarize, invent nothing
- Reply ONLY with the formatted mandate, no introduction`

// handleGlobalSave implements the global `*speichern` verb: a deterministic
// confirm when the briefing has collected answers, otherwise an LLM-compiled
// mandate from the transcript.
func (o *Orchestrator) handleGlobalSave(ctx context.Context, sess *SessionContext, result *TurnResult) {
	p, _ := o.registry.Get("arthur")
	arthur := p.(*agents.Arthur)
	if sess.CurrentPersona != arthur.ID() {
		sess.CurrentPersona = arthur.ID()
		result.SwitchedTo = arthur.ID()
	}

	b := arthur.Briefing()
	if len(b.Answers()) > 0 {
		response, err := b.Confirm("")
		if err != nil {
			o.appendAssistant(sess, result, arthur, "⚠️ Saving the mandate failed: "+err.Error())
			return
		}
		sess.MandateComplete = true
		o.appendAssistant(sess, result, arthur, response)
		o.handback(sess, result)
		o.logEvent("mandate.saved", "global save, briefing answers", nil)
		return
	}

	compiled := o.compileMandate(ctx, sess)
	if compiled == "" {
		o.appendAssistant(sess, result, arthur, `## ⚠️ Mandate incomplete

I could not extract a complete mandate from our conversation.

Let's go through the 5 elements again:
1. **Context** — why now?
2. **My Intent** — achieve what, concretely?
3. **Higher Intent** — what does it serve?
4. **Key Tasks** — which 2-3 steps?
5. **Boundaries** — what not?

*Tell me more, then we try again.*`)
		return
	}

	response, err := arthur.SaveMandateFromContent(compiled, "")
	if err != nil {
		o.appendAssistant(sess, result, arthur, "⚠️ Saving the mandate failed: "+err.Error())
		return
	}
	sess.MandateComplete = true
	o.appendAssistant(sess, result, arthur, response)
	o.handback(sess, result)
	o.logEvent("mandate.saved", "global save, compiled", nil)
}

// compileMandate asks the completion service to summarize the mandate.
// Returns "" when the service fails or produces nothing usable.
func (o *Orchestrator) compileMandate(ctx context.Context, sess *SessionContext) string {
	if o.client == nil {
		return ""
	}
	history := append(append([]models.Message(nil), sess.Messages...), models.Message{
		Role:    models.RoleUser,
		Content: "Summarize the mandate from our conversation now.",
	})
	response, err := o.client.Complete(ctx, history, extractionPrompt)
	if err != nil {
		o.logEvent("mandate.compile_failed", err.Error(), nil)
		return ""
	}
	if len(response) < 50 || !strings.Contains(response, "Context") {
		return ""
	}
	return response
}

// handleCompletion performs the pass-through completion call with the
// persona's assembled context, then scans the response for delegations.
func (o *Orchestrator) handleCompletion(ctx context.Context, sess *SessionContext, result *TurnResult, active agents.Persona, input string) {
	if o.client == nil {
		o.appendAssistant(sess, result, active, "⚠️ No completion service configured. Commands still work — type one of: "+strings.Join(active.Commands(), ", "))
		return
	}

	systemPrompt := active.SystemPrompt()
	if o.loader != nil {
		if pc, err := o.loader.Load(active.ID()); err == nil && pc.Summary != "" {
			systemPrompt = systemPrompt + "\n\n" + pc.Summary
		}
	}

	response, err := o.client.Complete(ctx, sess.Messages, systemPrompt)
	if err != nil {
		o.appendAssistant(sess, result, active, "⚠️ Completion request failed: "+err.Error())
		o.logEvent("turn.completion_failed", err.Error(), map[string]any{"persona": active.ID()})
		return
	}
	o.appendAssistant(sess, result, active, response)
	o.logEvent("turn.completed", input, map[string]any{"persona": active.ID()})

	// Automatic delegation from the generated text.
	if target, ok := o.registry.DetectDelegation(response); ok && target != active.ID() {
		next, _ := o.registry.Get(target)
		sess.CurrentPersona = next.ID()
		result.SwitchedTo = next.ID()
		o.appendAssistant(sess, result, next, next.Greeting())
		o.logEvent("persona.delegated", target, map[string]any{"from": active.ID()})
	}
}
