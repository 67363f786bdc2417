// Package ui provides the interactive terminal browser for grammar
// mismatch reports.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/huxxhu/oxc/pkg/estree"
)

// headerHeight is the number of terminal rows the header occupies.
const headerHeight = 4

type item struct {
	mismatch estree.Mismatch
}

func (i item) Title() string {
	return fmt.Sprintf("%s (%s)", i.mismatch.Type, kindLabel(i.mismatch.Kind))
}

func (i item) Description() string {
	m := i.mismatch
	if m.Kind == estree.KindMissingFields {
		return "not in reference grammar: " + strings.Join(m.Missing, ", ")
	}
	return fmt.Sprintf("%s out of order; reference: %s / community: %s",
		m.Field, strings.Join(m.Reference, " "), strings.Join(m.Community, " "))
}

func (i item) FilterValue() string {
	return i.mismatch.Type + " " + i.mismatch.Field + " " + strings.Join(i.mismatch.Missing, " ")
}

func kindLabel(k estree.Kind) string {
	switch k {
	case estree.KindMissingFields:
		return "unknown fields"
	case estree.KindOrderViolation:
		return "field order"
	default:
		return "mismatch"
	}
}

// Model is the bubbletea model behind the mismatch browser.
type Model struct {
	list       list.Model
	report     *estree.Report
	reconciled time.Time
	styles     Styles
}

// NewModel builds the browser model for one reconciliation report.
func NewModel(report *estree.Report, reconciled time.Time) Model {
	items := make([]list.Item, 0, len(report.Mismatches))
	for _, m := range report.Mismatches {
		items = append(items, item{mismatch: m})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Mismatches"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return Model{
		list:       l,
		report:     report,
		reconciled: reconciled,
		styles:     NewStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			// "q" is a regular character while the filter prompt is open.
			if m.list.FilterState() != list.Filtering {
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		h, v := m.styles.Doc.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-headerHeight)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.styles.Doc.Render(m.headerView() + "\n" + m.list.View())
}

func (m Model) headerView() string {
	status := m.styles.Status.Render(fmt.Sprintf("%s vs %s | reconciled %s",
		m.report.Reference, m.report.Community, m.reconciled.Format("15:04:05")))

	var summary string
	if m.report.Empty() {
		summary = m.styles.Success.Render(fmt.Sprintf("✓ traversal-compatible (%d shared types)", m.report.Shared))
	} else {
		summary = m.styles.Error.Render(fmt.Sprintf("✗ %d of %d shared types mismatch", m.report.Len(), m.report.Shared))
	}

	return fmt.Sprintf("%s\n%s\n%s\n", m.styles.Title.Render("Grammar Browser"), status, summary)
}

// Browse opens the interactive browser and blocks until the user quits.
func Browse(report *estree.Report, reconciled time.Time) error {
	p := tea.NewProgram(NewModel(report, reconciled), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
