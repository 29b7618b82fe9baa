package models

import "time"

// ArtifactType identifies the kind of discovery artifact.
type ArtifactType string

const (
	TypeMandate          ArtifactType = "mandate"
	TypeResearchQuestion ArtifactType = "research_question"
	TypeInsight          ArtifactType = "insight"
	TypeHMWChallenge     ArtifactType = "hmw_challenge"
	TypeIdea             ArtifactType = "idea"
	TypeTestCard         ArtifactType = "test_card"
	TypeLearningCard     ArtifactType = "learning_card"
)

// ArtifactStatus tracks the lifecycle state of an artifact.
type ArtifactStatus string

const (
	StatusDraft      ArtifactStatus = "draft"
	StatusInProgress ArtifactStatus = "in_progress"
	StatusComplete   ArtifactStatus = "complete"
)

// MandateID is the fixed singleton id of the mandate artifact. Saving a new
// mandate always overwrites the previous one.
const MandateID = "mandate"

// Artifact is a persisted unit of elicited discovery knowledge. It is
// serialized as a markdown file with a YAML frontmatter header; the title
// becomes the first top-level heading of the body.
type Artifact struct {
	ID        string         `yaml:"id"`
	Type      ArtifactType   `yaml:"type"`
	Title     string         `yaml:"-"`
	Content   string         `yaml:"-"`
	Status    ArtifactStatus `yaml:"status"`
	CreatedBy string         `yaml:"created_by"`
	CreatedAt time.Time      `yaml:"created_at"`
	UpdatedAt time.Time      `yaml:"updated_at"`
	RelatedTo []string       `yaml:"related_to,omitempty"`
}

// Category returns the wall display category for the artifact's type.
// Unknown types group under "problem".
func (a Artifact) Category() string {
	switch a.Type {
	case TypeMandate:
		return "mandate"
	case TypeResearchQuestion, TypeInsight:
		return "problem"
	case TypeHMWChallenge, TypeIdea:
		return "solution"
	case TypeTestCard, TypeLearningCard:
		return "test"
	default:
		return "problem"
	}
}

// StorageSlot returns the sub-directory under the wall root where artifacts
// of this type are stored. The mandate lives at the root.
func (a Artifact) StorageSlot() string {
	switch a.Type {
	case TypeResearchQuestion:
		return "research"
	case TypeInsight:
		return "research/insights"
	case TypeHMWChallenge, TypeIdea:
		return "ideas"
	case TypeTestCard, TypeLearningCard:
		return "tests"
	default:
		return ""
	}
}

// WallCategories lists the display categories in wall order.
var WallCategories = []string{"mandate", "problem", "solution", "test"}
