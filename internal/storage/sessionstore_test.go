package storage

import (
	"strings"
	"testing"

	"github.com/hanselhq/hansel/pkg/models"
)

func testMessages() []models.Message {
	return []models.Message{
		{Role: models.RoleUser, Content: "Hello", Timestamp: "2025-03-10T09:00:00Z"},
		{Role: models.RoleAssistant, Content: "Welcome!", Persona: "nora", PersonaIcon: "🧭", PersonaName: "Nora", Timestamp: "2025-03-10T09:00:01Z"},
		{Role: models.RoleUser, Content: "*briefing", Timestamp: "2025-03-10T09:00:10Z"},
	}
}

func TestSessionStore_SaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewSessionStoreManager(dir, "Test Discovery")

	messages := testMessages()
	if _, err := store.Save(messages, "nora", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, meta, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != len(messages) {
		t.Fatalf("expected %d messages, got %d", len(messages), len(loaded))
	}
	for i, want := range messages {
		got := loaded[i]
		if got.Role != want.Role || got.Content != want.Content {
			t.Errorf("message %d: got %+v, want %+v", i, got, want)
		}
	}
	if meta.Name != "Test Discovery" {
		t.Errorf("expected session name Test Discovery, got %q", meta.Name)
	}
	if meta.CurrentPersona != "nora" {
		t.Errorf("expected current persona nora, got %q", meta.CurrentPersona)
	}
	if meta.MandateComplete {
		t.Error("expected mandate incomplete")
	}
}

func TestSessionStore_GeneratesAndPreservesID(t *testing.T) {
	dir := t.TempDir()
	store := NewSessionStoreManager(dir, "")

	if _, err := store.Save(testMessages(), "nora", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, meta1, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(meta1.ID, "session-") {
		t.Errorf("expected session- prefix, got %q", meta1.ID)
	}
	if meta1.CreatedAt == "" {
		t.Error("expected created_at stamp")
	}

	// A second save keeps the id and creation time.
	if _, err := store.Save(testMessages(), "arthur", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, meta2, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta2.ID != meta1.ID {
		t.Errorf("expected id preserved, got %q then %q", meta1.ID, meta2.ID)
	}
	if meta2.CreatedAt != meta1.CreatedAt {
		t.Errorf("expected created_at preserved, got %q then %q", meta1.CreatedAt, meta2.CreatedAt)
	}
	if meta2.CurrentPersona != "arthur" {
		t.Errorf("expected current persona updated to arthur, got %q", meta2.CurrentPersona)
	}
	if !meta2.MandateComplete {
		t.Error("expected mandate complete after second save")
	}
}

func TestSessionStore_DefaultSessionName(t *testing.T) {
	store := NewSessionStoreManager(t.TempDir(), "")
	if _, err := store.Save(nil, "nora", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, meta, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Name != "My Discovery" {
		t.Errorf("expected default session name, got %q", meta.Name)
	}
}

func TestSessionStore_LoadMissingFile(t *testing.T) {
	store := NewSessionStoreManager(t.TempDir(), "Test")

	messages, meta, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("expected no messages, got %d", len(messages))
	}
	if meta.ID != "" {
		t.Errorf("expected zero metadata, got id %q", meta.ID)
	}
	if store.Exists() {
		t.Error("expected Exists to be false")
	}
}

func TestSessionStore_ClearIsIdempotent(t *testing.T) {
	store := NewSessionStoreManager(t.TempDir(), "Test")

	if _, err := store.Save(testMessages(), "nora", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.Exists() {
		t.Fatal("expected transcript to exist")
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Exists() {
		t.Error("expected transcript removed")
	}
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}
