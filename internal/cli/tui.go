package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// FormatListModel - Interactive format selection
// =============================================================================

// FormatListModel is the bubbletea model for interactive format selection,
// shown when export runs without --format.
type FormatListModel struct {
	Formats  []string
	Cursor   int
	Selected string
}

// NewFormatListModel creates a new format list model.
func NewFormatListModel(formats []string) FormatListModel {
	return FormatListModel{Formats: formats}
}

func (m FormatListModel) Init() tea.Cmd {
	return nil
}

func (m FormatListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Formats)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Formats[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m FormatListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Export Format"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, f := range m.Formats {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		desc := formatDescriptions[f]
		line := fmt.Sprintf("%s%-6s %s", cursor, f, listDimStyle.Render(desc))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Formats))))

	return b.String()
}

// pickFormat runs the interactive format picker and returns the chosen
// format key, or "" when the user quits without selecting.
func pickFormat(formats []string) (string, error) {
	final, err := tea.NewProgram(NewFormatListModel(formats)).Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(FormatListModel); ok {
		return m.Selected, nil
	}
	return "", nil
}
