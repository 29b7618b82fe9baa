package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hanselhq/hansel/pkg/models"
)

func testArtifact(id string, artifactType models.ArtifactType) models.Artifact {
	return models.Artifact{
		ID:        id,
		Type:      artifactType,
		Title:     "Test " + id,
		Content:   "Some body text for " + id + ".",
		Status:    models.StatusDraft,
		CreatedBy: "nora",
		CreatedAt: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestArtifactStore_SaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStoreManager(dir)

	artifact := testArtifact("rq-001", models.TypeResearchQuestion)
	path, err := store.Save(artifact)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join("research", "rq-001.md")) {
		t.Errorf("expected research slot path, got %s", path)
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 artifact, got %d", len(loaded))
	}
	got := loaded[0]
	if got.ID != artifact.ID {
		t.Errorf("expected id %s, got %s", artifact.ID, got.ID)
	}
	if got.Type != artifact.Type {
		t.Errorf("expected type %s, got %s", artifact.Type, got.Type)
	}
	if got.Title != artifact.Title {
		t.Errorf("expected title %q, got %q", artifact.Title, got.Title)
	}
	if got.Content != artifact.Content {
		t.Errorf("expected content %q, got %q", artifact.Content, got.Content)
	}
	if got.Status != models.StatusDraft {
		t.Errorf("expected status draft, got %s", got.Status)
	}
	if got.CreatedBy != "nora" {
		t.Errorf("expected created_by nora, got %s", got.CreatedBy)
	}
	if !got.CreatedAt.Equal(artifact.CreatedAt) {
		t.Errorf("expected created_at %v, got %v", artifact.CreatedAt, got.CreatedAt)
	}
}

func TestArtifactStore_StorageSlots(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStoreManager(dir)

	tests := []struct {
		artifactType models.ArtifactType
		wantDir      string
	}{
		{models.TypeMandate, "."},
		{models.TypeResearchQuestion, "research"},
		{models.TypeInsight, filepath.Join("research", "insights")},
		{models.TypeHMWChallenge, "ideas"},
		{models.TypeIdea, "ideas"},
		{models.TypeTestCard, "tests"},
		{models.TypeLearningCard, "tests"},
	}

	for _, tt := range tests {
		a := testArtifact("a-"+string(tt.artifactType), tt.artifactType)
		path, err := store.Save(a)
		if err != nil {
			t.Fatalf("saving %s: %v", tt.artifactType, err)
		}
		rel, err := filepath.Rel(dir, filepath.Dir(path))
		if err != nil {
			t.Fatalf("rel path: %v", err)
		}
		if rel != tt.wantDir {
			t.Errorf("%s: expected dir %q, got %q", tt.artifactType, tt.wantDir, rel)
		}
	}
}

func TestArtifactStore_MandateIsSingleton(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStoreManager(dir)

	first := testArtifact(models.MandateID, models.TypeMandate)
	first.Content = "First version."
	if _, err := store.Save(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := testArtifact(models.MandateID, models.TypeMandate)
	second.Content = "Second version."
	if _, err := store.Save(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mandates, err := store.LoadByType(models.TypeMandate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mandates) != 1 {
		t.Fatalf("expected a single mandate, got %d", len(mandates))
	}
	if mandates[0].Content != "Second version." {
		t.Errorf("expected overwrite, got %q", mandates[0].Content)
	}
}

func TestArtifactStore_SaveRejectsEmptyID(t *testing.T) {
	store := NewArtifactStoreManager(t.TempDir())
	a := testArtifact("", models.TypeIdea)
	if _, err := store.Save(a); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestArtifactStore_ScanSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStoreManager(dir)

	if _, err := store.Save(testArtifact("idea-001", models.TypeIdea)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No frontmatter block at all.
	noHeader := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(noHeader, []byte("# Just notes\n\nNo header here."), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	// Frontmatter missing the required fields.
	noID := filepath.Join(dir, "anonymous.md")
	if err := os.WriteFile(noID, []byte("---\nstatus: draft\n---\n\n# Anonymous\n"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	outcomes, err := store.Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed, skipped int
	for _, o := range outcomes {
		if o.Skipped {
			skipped++
			if o.Reason == "" {
				t.Errorf("skipped outcome %s has no reason", o.Path)
			}
		} else {
			parsed++
		}
	}
	if parsed != 1 {
		t.Errorf("expected 1 parsed artifact, got %d", parsed)
	}
	if skipped != 2 {
		t.Errorf("expected 2 skipped files, got %d", skipped)
	}

	// LoadAll ignores the skipped files silently.
	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("expected 1 loaded artifact, got %d", len(loaded))
	}
}

func TestArtifactStore_ParseDefaults(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStoreManager(dir)

	raw := "---\nid: bare-001\ntype: idea\n---\n\nBody without heading.\n"
	if err := os.MkdirAll(filepath.Join(dir, "ideas"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ideas", "bare-001.md"), []byte(raw), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 artifact, got %d", len(loaded))
	}
	got := loaded[0]
	if got.Title != "Untitled" {
		t.Errorf("expected default title Untitled, got %q", got.Title)
	}
	if got.Status != models.StatusDraft {
		t.Errorf("expected default status draft, got %s", got.Status)
	}
	if got.CreatedBy != "unknown" {
		t.Errorf("expected default created_by unknown, got %s", got.CreatedBy)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected non-zero created_at fallback")
	}
}

func TestArtifactStore_CountsByCategory(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStoreManager(dir)

	artifacts := []models.Artifact{
		testArtifact(models.MandateID, models.TypeMandate),
		testArtifact("rq-001", models.TypeResearchQuestion),
		testArtifact("ins-001", models.TypeInsight),
		testArtifact("idea-001", models.TypeIdea),
		testArtifact("tc-001", models.TypeTestCard),
		testArtifact("lc-001", models.TypeLearningCard),
	}
	for _, a := range artifacts {
		if _, err := store.Save(a); err != nil {
			t.Fatalf("saving %s: %v", a.ID, err)
		}
	}

	counts, err := store.CountsByCategory()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]int{
		"mandate":  1,
		"problem":  2,
		"solution": 1,
		"test":     2,
	}
	for category, n := range want {
		if counts[category] != n {
			t.Errorf("category %s: expected %d, got %d", category, n, counts[category])
		}
	}
}

func TestArtifactStore_CountsByCategoryEmptyWall(t *testing.T) {
	store := NewArtifactStoreManager(t.TempDir())

	counts, err := store.CountsByCategory()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, category := range models.WallCategories {
		if n, ok := counts[category]; !ok || n != 0 {
			t.Errorf("category %s: expected present with 0, got %d (present=%v)", category, n, ok)
		}
	}
}

func TestArtifactStore_ClearAll(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStoreManager(dir)

	if _, err := store.Save(testArtifact("rq-001", models.TypeResearchQuestion)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sessionPath := filepath.Join(dir, sessionFileName)
	if err := os.WriteFile(sessionPath, []byte("session: {}\n"), 0o644); err != nil {
		t.Fatalf("writing session file: %v", err)
	}

	if err := store.ClearAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty wall, got %d artifacts", len(loaded))
	}
	if _, err := os.Stat(sessionPath); !os.IsNotExist(err) {
		t.Error("expected session file removed")
	}

	// Idempotent: clearing again is fine, as is clearing a missing dir.
	if err := store.ClearAll(); err != nil {
		t.Errorf("second ClearAll failed: %v", err)
	}
	missing := NewArtifactStoreManager(filepath.Join(dir, "does-not-exist"))
	if err := missing.ClearAll(); err != nil {
		t.Errorf("ClearAll on missing dir failed: %v", err)
	}
}

func TestArtifactStore_LoadByTypeFilters(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStoreManager(dir)

	if _, err := store.Save(testArtifact("rq-001", models.TypeResearchQuestion)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Save(testArtifact("idea-001", models.TypeIdea)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ideas, err := store.LoadByType(models.TypeIdea)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ideas) != 1 || ideas[0].ID != "idea-001" {
		t.Errorf("expected only idea-001, got %v", ideas)
	}
}
