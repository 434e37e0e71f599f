// SPDX-License-Identifier: MPL-2.0

package selector

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#7C3AED"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	installedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	unstableStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// promptModel is the bubbletea model for the version selection prompt.
// It is a plain cursor-over-list model; enter confirms, esc cancels.
type promptModel struct {
	items     []Item
	cursor    int
	choice    *Item
	cancelled bool
}

// Prompt shows the interactive version selection and returns the chosen
// item. ok is false when the user cancelled without choosing.
func Prompt(items []Item) (item Item, ok bool, err error) {
	m, err := tea.NewProgram(&promptModel{items: items}).Run()
	if err != nil {
		return Item{}, false, fmt.Errorf("running selection prompt: %w", err)
	}

	final := m.(*promptModel)
	if final.cancelled || final.choice == nil {
		return Item{}, false, nil
	}
	return *final.choice, true, nil
}

// Init implements tea.Model.
func (m *promptModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.items) > 0 {
			m.choice = &m.items[m.cursor]
		}
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m *promptModel) View() string {
	var b strings.Builder

	b.WriteString(promptTitleStyle.Render("Select a version to install"))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(cursor)
		b.WriteString(renderItem(item))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("up/down: move • enter: install • esc: cancel"))
	b.WriteString("\n")

	return b.String()
}

// renderItem formats one list line, visually distinguishing the installed
// version and unstable builds.
func renderItem(item Item) string {
	switch item.Annotation {
	case AnnotationInstalled:
		return installedStyle.Render(fmt.Sprintf("%s (%s)", item.Version, item.Annotation))
	case AnnotationUnstable:
		return item.Version + unstableStyle.Render(fmt.Sprintf(" (%s)", item.Annotation))
	}
	return item.Version
}
