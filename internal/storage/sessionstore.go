package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hanselhq/hansel/pkg/models"
	"gopkg.in/yaml.v3"
)

// sessionFileName is the transcript document inside the wall directory.
const sessionFileName = "session-meta.yaml"

// SessionStoreManager persists the ordered message transcript and session
// metadata so a session can be resumed verbatim.
type SessionStoreManager interface {
	Save(messages []models.Message, currentPersona string, mandateComplete bool) (string, error)
	Load() ([]models.Message, models.SessionMeta, error)
	Clear() error
	Exists() bool
}

type fileSessionStore struct {
	wallDir     string
	sessionName string
}

// NewSessionStoreManager creates a SessionStoreManager writing the transcript
// under the given wall directory.
func NewSessionStoreManager(wallDir, sessionName string) SessionStoreManager {
	if sessionName == "" {
		sessionName = "My Discovery"
	}
	return &fileSessionStore{wallDir: wallDir, sessionName: sessionName}
}

func (s *fileSessionStore) path() string {
	return filepath.Join(s.wallDir, sessionFileName)
}

// generateSessionID returns a short unique session identifier.
func generateSessionID() string {
	return "session-" + uuid.NewString()[:8]
}

// Save serializes the full message list in order. The session id and creation
// time of an existing transcript are preserved; only updated_at is stamped.
func (s *fileSessionStore) Save(messages []models.Message, currentPersona string, mandateComplete bool) (string, error) {
	if err := os.MkdirAll(s.wallDir, 0o755); err != nil {
		return "", fmt.Errorf("saving session: creating directory: %w", err)
	}

	existing := s.loadRaw()

	id := existing.Session.ID
	if id == "" {
		id = generateSessionID()
	}
	createdAt := existing.Session.CreatedAt
	now := time.Now().Format(time.RFC3339)
	if createdAt == "" {
		createdAt = now
	}

	doc := models.SessionFile{
		Session: models.SessionMeta{
			ID:              id,
			Name:            s.sessionName,
			CreatedAt:       createdAt,
			UpdatedAt:       now,
			CurrentPersona:  currentPersona,
			MandateComplete: mandateComplete,
		},
	}
	doc.ChatHistory = make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if m.Timestamp == "" {
			m.Timestamp = now
		}
		doc.ChatHistory = append(doc.ChatHistory, m)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("saving session: marshalling: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0o644); err != nil {
		return "", fmt.Errorf("saving session: writing file: %w", err)
	}
	return s.path(), nil
}

// loadRaw reads the transcript document, returning a zero value when the file
// is missing or malformed.
func (s *fileSessionStore) loadRaw() models.SessionFile {
	var doc models.SessionFile
	data, err := os.ReadFile(s.path())
	if err != nil {
		return doc
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return models.SessionFile{}
	}
	return doc
}

// Load returns the ordered transcript and session metadata. A missing
// transcript yields an empty list and zero metadata, not an error.
func (s *fileSessionStore) Load() ([]models.Message, models.SessionMeta, error) {
	doc := s.loadRaw()
	return doc.ChatHistory, doc.Session, nil
}

// Clear deletes the transcript file if present.
func (s *fileSessionStore) Clear() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Exists reports whether a transcript file is present.
func (s *fileSessionStore) Exists() bool {
	_, err := os.Stat(s.path())
	return err == nil
}
