package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hanselhq/hansel/internal/storage"
	"github.com/hanselhq/hansel/pkg/models"
)

// defaultTokenBudget applies to personas without an explicit budget entry.
const defaultTokenBudget = 3000

// personaTokenBudgets is the per-persona ceiling on assembled context size.
var personaTokenBudgets = map[string]int{
	"nora":   2000,
	"arthur": 8000, // Larger budget for the briefing knowledge base.
	"finn":   5000,
	"ida":    4000,
	"theo":   4000,
}

// personaArtifactRelevance declares which artifact types each persona sees.
var personaArtifactRelevance = map[string][]models.ArtifactType{
	"nora":   {models.TypeMandate},
	"arthur": {models.TypeMandate},
	"finn":   {models.TypeResearchQuestion, models.TypeInsight},
	"ida":    {models.TypeHMWChallenge, models.TypeIdea},
	"theo":   {models.TypeTestCard, models.TypeLearningCard},
}

// personaKnowledgeFiles lists static reference texts loaded per persona.
var personaKnowledgeFiles = map[string][]string{
	"arthur": {"docs/knowledge/briefing-method.md"},
	"nora":   {"docs/knowledge/exploration-model.md"},
}

// PersonaContext is the assembled context for one persona's system prompt.
type PersonaContext struct {
	PersonaID     string
	Artifacts     []models.Artifact
	Knowledge     string
	Summary       string
	TokenEstimate int
}

// ContextLoader assembles bounded per-persona context from the artifact
// store and static knowledge files.
type ContextLoader interface {
	Load(personaID string) (*PersonaContext, error)
}

type jitContextLoader struct {
	basePath string
	store    storage.ArtifactStoreManager
}

// NewContextLoader creates a ContextLoader reading from the given store.
// Knowledge file paths are resolved relative to basePath.
func NewContextLoader(basePath string, store storage.ArtifactStoreManager) ContextLoader {
	return &jitContextLoader{basePath: basePath, store: store}
}

// loadKnowledge reads the persona's knowledge files. Unreadable files are
// skipped, never fatal.
func (l *jitContextLoader) loadKnowledge(personaID string) string {
	var parts []string
	for _, path := range personaKnowledgeFiles[personaID] {
		data, err := os.ReadFile(filepath.Join(l.basePath, path))
		if err != nil {
			continue
		}
		parts = append(parts, string(data))
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// Load assembles the persona's context: knowledge text followed by the
// relevant artifacts, truncated by dropping artifacts from the end of the
// list until the token estimate fits the persona's budget. Knowledge text is
// never dropped.
func (l *jitContextLoader) Load(personaID string) (*PersonaContext, error) {
	knowledge := l.loadKnowledge(personaID)

	all, err := l.store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("loading context for %s: %w", personaID, err)
	}

	relevantTypes := personaArtifactRelevance[personaID]
	var relevant []models.Artifact
	for _, a := range all {
		for _, t := range relevantTypes {
			if a.Type == t {
				relevant = append(relevant, a)
				break
			}
		}
	}

	budget, ok := personaTokenBudgets[personaID]
	if !ok {
		budget = defaultTokenBudget
	}

	summary := renderContext(relevant, knowledge)
	estimate := estimateTokens(summary)
	for estimate > budget && len(relevant) > 0 {
		relevant = relevant[:len(relevant)-1]
		summary = renderContext(relevant, knowledge)
		estimate = estimateTokens(summary)
	}

	return &PersonaContext{
		PersonaID:     personaID,
		Artifacts:     relevant,
		Knowledge:     knowledge,
		Summary:       summary,
		TokenEstimate: estimate,
	}, nil
}

// renderContext formats knowledge and artifacts into one summary block.
func renderContext(artifacts []models.Artifact, knowledge string) string {
	var parts []string

	if knowledge != "" {
		parts = append(parts,
			"## Your Knowledge Base\n",
			knowledge,
			"\n---\n",
			"*Use this knowledge to guide the user through discovery.*\n",
		)
	}

	if len(artifacts) > 0 {
		parts = append(parts, "## Discovery Context\n")
		for _, a := range artifacts {
			parts = append(parts,
				fmt.Sprintf("### %s: %s", strings.ToUpper(string(a.Type)), a.Title),
				"Status: "+string(a.Status),
				"Created by: "+a.CreatedBy,
				"",
				a.Content,
				"",
				"---",
				"",
			)
		}
		parts = append(parts, "*Refer to these artifacts when the user asks about the project, the mandate, or prior findings.*")
	}

	return strings.Join(parts, "\n")
}

// estimateTokens approximates token count at four characters per token.
func estimateTokens(text string) int {
	return len(text) / 4
}
