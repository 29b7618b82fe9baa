package agents

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hanselhq/hansel/internal/storage"
)

// CoordinatorID is the persona that greets first and receives handbacks.
const CoordinatorID = "nora"

// Registry holds the persona instances keyed by identifier.
type Registry struct {
	personas map[string]Persona
}

// NewRegistry builds the persona team over the given artifact store.
func NewRegistry(store storage.ArtifactStoreManager) *Registry {
	r := &Registry{personas: make(map[string]Persona)}
	r.register(NewNora(store))
	r.register(NewArthur(store))
	return r
}

func (r *Registry) register(p Persona) {
	r.personas[p.ID()] = p
}

// Get returns the persona with the given id.
func (r *Registry) Get(id string) (Persona, bool) {
	p, ok := r.personas[id]
	return p, ok
}

// Has reports whether the id names a registered persona.
func (r *Registry) Has(id string) bool {
	_, ok := r.personas[id]
	return ok
}

// Active resolves the active persona for a session. Unknown or empty ids
// fall back to the coordinator, so the result is always usable.
func (r *Registry) Active(id string) Persona {
	if p, ok := r.personas[id]; ok {
		return p
	}
	return r.personas[CoordinatorID]
}

// IDs returns the registered persona ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.personas))
	for id := range r.personas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// delegationPatterns is the ordered handoff phrase table. The first pattern
// that matches wins; captured names must be whole words.
var delegationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`handover to (\w+)`),
	regexp.MustCompile(`(\w+),? takes over`),
	regexp.MustCompile(`switch(?:ing)? to (\w+)`),
	regexp.MustCompile(`hand(?:ing)? over to (\w+)`),
	regexp.MustCompile(`forward(?:ing)?(?: this)? to (\w+)`),
	regexp.MustCompile(`(\w+) enters`),
}

// DetectDelegation scans generated response text for a handoff phrase whose
// captured name resolves to a registered persona. Matching is done on the
// lower-cased text.
func (r *Registry) DetectDelegation(response string) (string, bool) {
	lower := strings.ToLower(response)
	for _, pattern := range delegationPatterns {
		m := pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		name := m[1]
		if r.Has(name) {
			return name, true
		}
	}
	return "", false
}
