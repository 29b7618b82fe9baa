package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hanselhq/hansel/pkg/models"
)

// Wall panel indices.
const (
	panelCategories = iota
	panelArtifacts
	panelSession
	panelCount
)

type wallModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	counts    map[string]int
	artifacts []artifactSnapshot
	session   *sessionSnapshot

	// State.
	loading bool
	err     error
}

type artifactSnapshot struct {
	category string
	title    string
	status   string
}

type sessionSnapshot struct {
	id              string
	name            string
	persona         string
	messageCount    int
	mandateComplete bool
}

// wallLoadedMsg carries loaded data back to the model.
type wallLoadedMsg struct {
	counts    map[string]int
	artifacts []artifactSnapshot
	session   *sessionSnapshot
	err       error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	statusComplete   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusDraft      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newWallModel() wallModel {
	return wallModel{
		activePanel: panelCategories,
		loading:     true,
		counts:      make(map[string]int),
	}
}

func (m wallModel) Init() tea.Cmd {
	return loadWall
}

func (m wallModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadWall
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case wallLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.counts = msg.counts
		m.artifacts = msg.artifacts
		m.session = msg.session
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m wallModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" Discovery Wall ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	categoriesPanel := m.renderCategoriesPanel()
	artifactsPanel := m.renderArtifactsPanel()
	sessionPanel := m.renderSessionPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: three columns.
		colWidth := availableWidth / 3
		categoriesPanel = m.applyPanelStyle(panelCategories, categoriesPanel, colWidth-4)
		artifactsPanel = m.applyPanelStyle(panelArtifacts, artifactsPanel, colWidth-4)
		sessionPanel = m.applyPanelStyle(panelSession, sessionPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, categoriesPanel, artifactsPanel, sessionPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		categoriesPanel = m.applyPanelStyle(panelCategories, categoriesPanel, panelWidth)
		artifactsPanel = m.applyPanelStyle(panelArtifacts, artifactsPanel, panelWidth)
		sessionPanel = m.applyPanelStyle(panelSession, sessionPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, categoriesPanel, artifactsPanel, sessionPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m wallModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m wallModel) renderCategoriesPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Categories"))
	b.WriteString("\n")

	total := 0
	for _, category := range models.WallCategories {
		count := m.counts[category]
		total += count
		b.WriteString(fmt.Sprintf("  %-10s %d\n", category, count))
	}
	b.WriteString(fmt.Sprintf("\n  Total: %d", total))

	return b.String()
}

func (m wallModel) renderArtifactsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Artifacts"))
	b.WriteString("\n")

	if len(m.artifacts) == 0 {
		b.WriteString("  The wall is empty.")
		return b.String()
	}

	for _, a := range m.artifacts {
		status := styleForArtifactStatus(a.status).Render(fmt.Sprintf("[%s]", a.status))
		b.WriteString(fmt.Sprintf("  %-10s %s %s\n", a.category, status, a.title))
	}

	return b.String()
}

func (m wallModel) renderSessionPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Session"))
	b.WriteString("\n")

	if m.session == nil {
		b.WriteString("  No active session.")
		return b.String()
	}

	s := m.session
	mandate := "pending"
	if s.mandateComplete {
		mandate = "complete"
	}
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "id", s.id))
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "name", s.name))
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "persona", s.persona))
	b.WriteString(fmt.Sprintf("  %-10s %d\n", "messages", s.messageCount))
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "mandate", mandate))

	return b.String()
}

func styleForArtifactStatus(status string) lipgloss.Style {
	switch status {
	case string(models.StatusComplete):
		return statusComplete
	case string(models.StatusInProgress):
		return statusInProgress
	case string(models.StatusDraft):
		return statusDraft
	default:
		return lipgloss.NewStyle()
	}
}

func loadWall() tea.Msg {
	result := wallLoadedMsg{
		counts: make(map[string]int),
	}

	if ArtifactStore != nil {
		counts, err := ArtifactStore.CountsByCategory()
		if err != nil {
			result.err = fmt.Errorf("loading wall counts: %w", err)
			return result
		}
		result.counts = counts

		artifacts, err := ArtifactStore.LoadAll()
		if err != nil {
			result.err = fmt.Errorf("loading artifacts: %w", err)
			return result
		}
		result.artifacts = make([]artifactSnapshot, 0, len(artifacts))
		for _, a := range artifacts {
			result.artifacts = append(result.artifacts, artifactSnapshot{
				category: a.Category(),
				title:    a.Title,
				status:   string(a.Status),
			})
		}
	}

	if SessionStore != nil && SessionStore.Exists() {
		messages, meta, err := SessionStore.Load()
		if err != nil {
			result.err = fmt.Errorf("loading session: %w", err)
			return result
		}
		result.session = &sessionSnapshot{
			id:              meta.ID,
			name:            meta.Name,
			persona:         meta.CurrentPersona,
			messageCount:    len(messages),
			mandateComplete: meta.MandateComplete,
		}
	}

	return result
}

var wallCmd = &cobra.Command{
	Use:   "wall",
	Short: "Interactive TUI view of the discovery wall",
	Long: `Launch an interactive terminal view of the discovery wall showing
category counts, the stored artifacts, and the session state.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ArtifactStore == nil {
			return fmt.Errorf("artifact store not initialized")
		}
		p := tea.NewProgram(newWallModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(wallCmd)
}
