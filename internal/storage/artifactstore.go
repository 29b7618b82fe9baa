// Package storage implements the file-backed persistence layer for the
// discovery wall: typed artifacts as markdown files with YAML frontmatter,
// and the session transcript as a single YAML document.
package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hanselhq/hansel/pkg/models"
	"gopkg.in/yaml.v3"
)

// ParseOutcome is the per-file result of scanning the wall. Malformed files
// are reported as skipped, never as load failures.
type ParseOutcome struct {
	Path     string
	Artifact *models.Artifact
	Skipped  bool
	Reason   string
}

// ArtifactStoreManager defines the interface for the discovery wall store.
type ArtifactStoreManager interface {
	Save(artifact models.Artifact) (string, error)
	LoadAll() ([]models.Artifact, error)
	LoadByType(artifactType models.ArtifactType) ([]models.Artifact, error)
	CountsByCategory() (map[string]int, error)
	// Scan returns one outcome per markdown file found, including skipped ones.
	Scan() ([]ParseOutcome, error)
	// ClearAll removes every artifact file and the session transcript.
	// Safe to call when the wall directory is empty or absent.
	ClearAll() error
}

type fileArtifactStore struct {
	wallDir string
}

// NewArtifactStoreManager creates an ArtifactStoreManager backed by markdown
// files under the given wall directory.
func NewArtifactStoreManager(wallDir string) ArtifactStoreManager {
	return &fileArtifactStore{wallDir: wallDir}
}

func (s *fileArtifactStore) ensureDirectories() error {
	dirs := []string{
		s.wallDir,
		filepath.Join(s.wallDir, "research"),
		filepath.Join(s.wallDir, "research", "insights"),
		filepath.Join(s.wallDir, "ideas"),
		filepath.Join(s.wallDir, "tests"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating wall directory %s: %w", d, err)
		}
	}
	return nil
}

// artifactPath returns the type-determined file path. The mandate occupies a
// fixed filename at the wall root; other types are addressed by id.
func (s *fileArtifactStore) artifactPath(a models.Artifact) string {
	dir := s.wallDir
	if slot := a.StorageSlot(); slot != "" {
		dir = filepath.Join(dir, filepath.FromSlash(slot))
	}
	name := a.ID + ".md"
	if a.Type == models.TypeMandate {
		name = "mandate.md"
	}
	return filepath.Join(dir, name)
}

// frontmatter is the persisted header block of an artifact file. Timestamps
// are written as ISO-8601 strings and re-parsed leniently on load.
type frontmatter struct {
	ID        string   `yaml:"id"`
	Type      string   `yaml:"type"`
	Status    string   `yaml:"status"`
	CreatedBy string   `yaml:"created_by"`
	CreatedAt string   `yaml:"created_at"`
	UpdatedAt string   `yaml:"updated_at"`
	RelatedTo []string `yaml:"related_to,omitempty"`
}

// Save writes (or overwrites) the artifact at its type-determined slot,
// stamping a fresh updated_at.
func (s *fileArtifactStore) Save(artifact models.Artifact) (string, error) {
	if artifact.ID == "" {
		return "", fmt.Errorf("saving artifact: ID must not be empty")
	}
	if err := s.ensureDirectories(); err != nil {
		return "", fmt.Errorf("saving artifact %s: %w", artifact.ID, err)
	}

	created := artifact.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	fm := frontmatter{
		ID:        artifact.ID,
		Type:      string(artifact.Type),
		Status:    string(artifact.Status),
		CreatedBy: artifact.CreatedBy,
		CreatedAt: created.Format(time.RFC3339),
		UpdatedAt: time.Now().Format(time.RFC3339),
		RelatedTo: artifact.RelatedTo,
	}
	header, err := yaml.Marshal(&fm)
	if err != nil {
		return "", fmt.Errorf("saving artifact %s: marshalling frontmatter: %w", artifact.ID, err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString("# " + artifact.Title + "\n\n")
	b.WriteString(artifact.Content)
	b.WriteString("\n")

	path := s.artifactPath(artifact)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("saving artifact %s: writing file: %w", artifact.ID, err)
	}
	return path, nil
}

var (
	frontmatterPattern = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n(.*)$`)
	titlePattern       = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

// parseArtifactFile parses one markdown file into an outcome. Files without
// the required id/type fields, or with an unparseable header, are skipped.
func parseArtifactFile(path string, data []byte) ParseOutcome {
	m := frontmatterPattern.FindSubmatch(data)
	if m == nil {
		return ParseOutcome{Path: path, Skipped: true, Reason: "no frontmatter block"}
	}

	var fm frontmatter
	if err := yaml.Unmarshal(m[1], &fm); err != nil {
		return ParseOutcome{Path: path, Skipped: true, Reason: fmt.Sprintf("invalid frontmatter: %v", err)}
	}
	if fm.ID == "" || fm.Type == "" {
		return ParseOutcome{Path: path, Skipped: true, Reason: "missing id or type"}
	}

	body := strings.TrimSpace(string(m[2]))

	title := "Untitled"
	if tm := titlePattern.FindStringSubmatch(body); tm != nil {
		title = tm[1]
		// Strip the heading line from the body.
		body = strings.TrimSpace(strings.Replace(body, tm[0], "", 1))
	}

	status := fm.Status
	if status == "" {
		status = string(models.StatusDraft)
	}
	createdBy := fm.CreatedBy
	if createdBy == "" {
		createdBy = "unknown"
	}

	a := models.Artifact{
		ID:        fm.ID,
		Type:      models.ArtifactType(fm.Type),
		Title:     title,
		Content:   body,
		Status:    models.ArtifactStatus(status),
		CreatedBy: createdBy,
		CreatedAt: parseTimeOrNow(fm.CreatedAt),
		UpdatedAt: parseTimeOrNow(fm.UpdatedAt),
		RelatedTo: fm.RelatedTo,
	}
	return ParseOutcome{Path: path, Artifact: &a}
}

// parseTimeOrNow accepts an ISO-8601 string and falls back to now for
// anything else.
func parseTimeOrNow(v string) time.Time {
	if v == "" {
		return time.Now()
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	// Frontmatter written by other tools may omit the timezone.
	if t, err := time.Parse("2006-01-02T15:04:05", v); err == nil {
		return t
	}
	return time.Now()
}

// Scan walks the wall directory and parses every markdown file found.
func (s *fileArtifactStore) Scan() ([]ParseOutcome, error) {
	if err := s.ensureDirectories(); err != nil {
		return nil, fmt.Errorf("scanning wall: %w", err)
	}

	var outcomes []ParseOutcome
	err := filepath.WalkDir(s.wallDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			outcomes = append(outcomes, ParseOutcome{Path: path, Skipped: true, Reason: readErr.Error()})
			return nil
		}
		outcomes = append(outcomes, parseArtifactFile(path, data))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning wall: %w", err)
	}
	return outcomes, nil
}

// LoadAll returns every parseable artifact on the wall.
func (s *fileArtifactStore) LoadAll() ([]models.Artifact, error) {
	outcomes, err := s.Scan()
	if err != nil {
		return nil, err
	}
	var artifacts []models.Artifact
	for _, o := range outcomes {
		if o.Artifact != nil {
			artifacts = append(artifacts, *o.Artifact)
		}
	}
	return artifacts, nil
}

// LoadByType returns all artifacts of the given type.
func (s *fileArtifactStore) LoadByType(artifactType models.ArtifactType) ([]models.Artifact, error) {
	all, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	var result []models.Artifact
	for _, a := range all {
		if a.Type == artifactType {
			result = append(result, a)
		}
	}
	return result, nil
}

// CountsByCategory returns the number of artifacts in each wall category.
// All four categories are always present in the result.
func (s *fileArtifactStore) CountsByCategory() (map[string]int, error) {
	all, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(models.WallCategories))
	for _, c := range models.WallCategories {
		counts[c] = 0
	}
	for _, a := range all {
		counts[a.Category()]++
	}
	return counts, nil
}

// ClearAll deletes every artifact markdown file and the session transcript.
func (s *fileArtifactStore) ClearAll() error {
	if _, err := os.Stat(s.wallDir); os.IsNotExist(err) {
		return nil
	}

	err := filepath.WalkDir(s.wallDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		return os.Remove(path)
	})
	if err != nil {
		return fmt.Errorf("clearing wall: %w", err)
	}

	sessionPath := filepath.Join(s.wallDir, sessionFileName)
	if err := os.Remove(sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing session file: %w", err)
	}
	return nil
}
