package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hanselhq/hansel/internal/storage"
	"github.com/hanselhq/hansel/pkg/models"
)

func saveWallArtifact(t *testing.T, store storage.ArtifactStoreManager, id string, artifactType models.ArtifactType, content string) {
	t.Helper()
	_, err := store.Save(models.Artifact{
		ID:        id,
		Type:      artifactType,
		Title:     "Artifact " + id,
		Content:   content,
		Status:    models.StatusDraft,
		CreatedBy: "user",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("saving %s: %v", id, err)
	}
}

func TestContextLoader_FiltersByRelevance(t *testing.T) {
	base := t.TempDir()
	store := storage.NewArtifactStoreManager(filepath.Join(base, "wall"))
	loader := NewContextLoader(base, store)

	saveWallArtifact(t, store, models.MandateID, models.TypeMandate, "The mandate.")
	saveWallArtifact(t, store, "rq-001", models.TypeResearchQuestion, "A research question.")
	saveWallArtifact(t, store, "idea-001", models.TypeIdea, "An idea.")

	// Arthur only sees the mandate.
	pc, err := loader.Load("arthur")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pc.Artifacts) != 1 || pc.Artifacts[0].Type != models.TypeMandate {
		t.Errorf("expected only the mandate, got %v", pc.Artifacts)
	}
	if !strings.Contains(pc.Summary, "The mandate.") {
		t.Errorf("expected mandate content in summary, got %q", pc.Summary)
	}
	if strings.Contains(pc.Summary, "An idea.") {
		t.Errorf("irrelevant artifact leaked into summary: %q", pc.Summary)
	}

	// Finn sees research questions and insights.
	pc, err = loader.Load("finn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pc.Artifacts) != 1 || pc.Artifacts[0].ID != "rq-001" {
		t.Errorf("expected only rq-001 for finn, got %v", pc.Artifacts)
	}
}

func TestContextLoader_TruncatesToBudget(t *testing.T) {
	base := t.TempDir()
	store := storage.NewArtifactStoreManager(filepath.Join(base, "wall"))
	loader := NewContextLoader(base, store)

	// finn's budget is 5000 tokens (~20000 chars); each artifact is ~6000
	// chars, so at most three can survive.
	big := strings.Repeat("evidence ", 600)
	for i := 0; i < 6; i++ {
		saveWallArtifact(t, store, fmt.Sprintf("rq-%03d", i), models.TypeResearchQuestion, big)
	}

	pc, err := loader.Load("finn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pc.TokenEstimate > 5000 {
		t.Errorf("estimate %d exceeds finn's budget", pc.TokenEstimate)
	}
	if len(pc.Artifacts) == 0 {
		t.Error("expected at least one artifact to survive truncation")
	}
	if len(pc.Artifacts) >= 6 {
		t.Errorf("expected truncation, got all %d artifacts", len(pc.Artifacts))
	}
	// Artifacts are dropped from the end of the list: the survivors are a
	// prefix of the lexical file order.
	for i, a := range pc.Artifacts {
		want := fmt.Sprintf("rq-%03d", i)
		if a.ID != want {
			t.Errorf("artifact %d: expected %s, got %s", i, want, a.ID)
		}
	}
}

func TestContextLoader_KnowledgeIsNeverDropped(t *testing.T) {
	base := t.TempDir()
	store := storage.NewArtifactStoreManager(filepath.Join(base, "wall"))

	knowledgeDir := filepath.Join(base, "docs", "knowledge")
	if err := os.MkdirAll(knowledgeDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	knowledge := "# Exploration Model\n\n" + strings.Repeat("zone notes ", 1000)
	if err := os.WriteFile(filepath.Join(knowledgeDir, "exploration-model.md"), []byte(knowledge), 0o644); err != nil {
		t.Fatalf("writing knowledge: %v", err)
	}

	// nora's budget is 2000 tokens; the knowledge file alone exceeds it.
	saveWallArtifact(t, store, models.MandateID, models.TypeMandate, "The mandate.")

	loader := NewContextLoader(base, store)
	pc, err := loader.Load("nora")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(pc.Knowledge, "Exploration Model") {
		t.Errorf("expected knowledge loaded, got %q", pc.Knowledge)
	}
	if !strings.Contains(pc.Summary, "Exploration Model") {
		t.Error("expected knowledge kept in summary despite budget")
	}
	if len(pc.Artifacts) != 0 {
		t.Errorf("expected all artifacts dropped before knowledge, got %d", len(pc.Artifacts))
	}
}

func TestContextLoader_MissingKnowledgeFilesAreSkipped(t *testing.T) {
	base := t.TempDir()
	store := storage.NewArtifactStoreManager(filepath.Join(base, "wall"))
	loader := NewContextLoader(base, store)

	pc, err := loader.Load("arthur")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pc.Knowledge != "" {
		t.Errorf("expected empty knowledge, got %q", pc.Knowledge)
	}
}

func TestContextLoader_UnknownPersonaGetsDefaults(t *testing.T) {
	base := t.TempDir()
	store := storage.NewArtifactStoreManager(filepath.Join(base, "wall"))
	loader := NewContextLoader(base, store)

	saveWallArtifact(t, store, "rq-001", models.TypeResearchQuestion, "A question.")

	pc, err := loader.Load("stranger")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pc.Artifacts) != 0 {
		t.Errorf("expected no relevant artifacts for unknown persona, got %d", len(pc.Artifacts))
	}
	if pc.Summary != "" {
		t.Errorf("expected empty summary, got %q", pc.Summary)
	}
}
