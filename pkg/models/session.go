package models

// Message roles used in the session transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry in the session transcript. Persona attribution
// fields are set only on assistant messages produced by a persona.
type Message struct {
	Role        string `yaml:"role"`
	Content     string `yaml:"content"`
	Persona     string `yaml:"persona,omitempty"`
	PersonaIcon string `yaml:"persona_icon,omitempty"`
	PersonaName string `yaml:"persona_name,omitempty"`
	Timestamp   string `yaml:"timestamp,omitempty"`
}

// SessionMeta is the lightweight session metadata persisted alongside the
// transcript. ID and CreatedAt are assigned on first save and preserved
// across subsequent saves.
type SessionMeta struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	CreatedAt       string `yaml:"created_at"`
	UpdatedAt       string `yaml:"updated_at"`
	CurrentPersona  string `yaml:"current_persona"`
	MandateComplete bool   `yaml:"mandate_complete"`
}

// SessionFile is the on-disk layout of the transcript document.
type SessionFile struct {
	Session     SessionMeta `yaml:"session"`
	ChatHistory []Message   `yaml:"chat_history"`
}
