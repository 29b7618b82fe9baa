// Package agents implements the persona registry, command routing, and the
// structured briefing dialogue that elicits a mandate from the user.
package agents

import "strings"

// CommandPrefix marks a message as a command.
const CommandPrefix = "*"

// switchVerb is the reserved switch command verb.
const switchVerb = "*wechsel "

// Persona is the uniform capability interface of every team member.
// New personas are added as variants of this closed set, not subclasses.
type Persona interface {
	ID() string
	Name() string
	Icon() string
	Role() string
	Commands() []string
	// HandleCommand handles a persona command. The second return reports
	// whether the command was recognized.
	HandleCommand(command string) (string, bool)
	Greeting() string
	// SystemPrompt is the persona's base instruction text for the
	// completion service, without assembled context.
	SystemPrompt() string
}

// IsCommand reports whether the trimmed message starts with the command prefix.
func IsCommand(message string) bool {
	return strings.HasPrefix(strings.TrimSpace(message), CommandPrefix)
}

// ParseSwitchCommand parses a `*wechsel <target>` command. The target is
// lower-cased; an empty target is not a switch command.
func ParseSwitchCommand(message string) (string, bool) {
	msg := strings.ToLower(strings.TrimSpace(message))
	if !strings.HasPrefix(msg, switchVerb) {
		return "", false
	}
	target := strings.TrimSpace(strings.TrimPrefix(msg, switchVerb))
	if target == "" {
		return "", false
	}
	return target, true
}
