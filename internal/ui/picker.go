// Package ui provides the interactive fuzzy picker for jumping into a
// recorded repository.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

var (
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	unselectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
)

// Item is one pickable entry.
type Item struct {
	// Display is the string shown and matched against,
	// e.g. "github.com/user/repo".
	Display string
	// Dir is the repository directory the item stands for.
	Dir string
}

// items implements fuzzy.Source over the display strings.
type items []Item

func (it items) String(i int) string { return it[i].Display }
func (it items) Len() int            { return len(it) }

// filterItems ranks entries against the query. An empty query keeps
// the original order (callers pre-sort by recency).
func filterItems(all []Item, query string) []Item {
	if strings.TrimSpace(query) == "" {
		return all
	}

	matches := fuzzy.FindFrom(query, items(all))
	filtered := make([]Item, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, all[m.Index])
	}
	return filtered
}

// BestMatch returns the top-ranked entry for a query without any
// interaction, for non-interactive use. The second return is false
// when nothing matches.
func BestMatch(all []Item, query string) (Item, bool) {
	filtered := filterItems(all, query)
	if len(filtered) == 0 {
		return Item{}, false
	}
	return filtered[0], true
}

// PickerResult contains the outcome of the picker.
type PickerResult struct {
	Item      Item
	Selected  bool
	Cancelled bool
}

// pickerModel is the bubbletea model for repository selection.
type pickerModel struct {
	all       []Item
	filtered  []Item
	textInput textinput.Model
	cursor    int
	selected  *Item
	cancelled bool
	maxHeight int
}

func newPickerModel(all []Item, initialQuery string) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40
	ti.PromptStyle = cursorStyle
	ti.SetValue(initialQuery)

	return pickerModel{
		all:       all,
		filtered:  filterItems(all, initialQuery),
		textInput: ti,
		maxHeight: 10,
	}
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
				m.selected = &m.filtered[m.cursor]
			}
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)

	m.filtered = filterItems(m.all, m.textInput.Value())
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}

	return m, cmd
}

func (m pickerModel) View() string {
	var sb strings.Builder

	sb.WriteString("Jump to repository:\n")
	sb.WriteString(m.textInput.View())
	sb.WriteString("\n\n")

	if len(m.filtered) == 0 {
		sb.WriteString(dimStyle.Render("  No matches found"))
		sb.WriteString("\n")
	} else {
		// Window the list around the cursor.
		start := 0
		end := len(m.filtered)
		if end > m.maxHeight {
			halfHeight := m.maxHeight / 2
			start = m.cursor - halfHeight
			if start < 0 {
				start = 0
			}
			end = start + m.maxHeight
			if end > len(m.filtered) {
				end = len(m.filtered)
				start = max(0, end-m.maxHeight)
			}
		}

		for i := start; i < end; i++ {
			if i == m.cursor {
				sb.WriteString(cursorStyle.Render("> "))
				sb.WriteString(selectedStyle.Render(m.filtered[i].Display))
			} else {
				sb.WriteString("  ")
				sb.WriteString(unselectedStyle.Render(m.filtered[i].Display))
			}
			sb.WriteString("\n")
		}

		if len(m.filtered) > m.maxHeight {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  %d/%d", m.cursor+1, len(m.filtered))))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("↑/↓ navigate • enter select • esc cancel"))

	return sb.String()
}

// RunPicker shows the interactive fuzzy picker.
// Returns the selected item, or a cancelled result.
func RunPicker(all []Item, initialQuery string) (*PickerResult, error) {
	if len(all) == 0 {
		return &PickerResult{Cancelled: true}, nil
	}

	model := newPickerModel(all, initialQuery)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := finalModel.(pickerModel)
	if m.cancelled {
		return &PickerResult{Cancelled: true}, nil
	}
	if m.selected != nil {
		return &PickerResult{Item: *m.selected, Selected: true}, nil
	}
	return &PickerResult{Cancelled: true}, nil
}
