package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/layerstack/pkg/instructions"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// StackPickerModel - Interactive stack selection
// =============================================================================

// StackPickerModel is the bubbletea model for choosing which stacks to build.
type StackPickerModel struct {
	Stacks []instructions.Stack
	Cursor int
	Chosen map[int]bool
	Done   bool
	Height int
	Offset int
}

// NewStackPickerModel creates a picker over stacks with nothing chosen.
func NewStackPickerModel(stacks []instructions.Stack) StackPickerModel {
	return StackPickerModel{
		Stacks: stacks,
		Chosen: make(map[int]bool),
		Height: 15,
	}
}

func (m StackPickerModel) Init() tea.Cmd {
	return nil
}

func (m StackPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Stacks)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
		case "a":
			all := len(m.Selected()) == len(m.Stacks)
			for i := range m.Stacks {
				m.Chosen[i] = !all
			}
		case "enter":
			if len(m.Stacks) > 0 {
				m.Done = true
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

// Selected returns the chosen stack names in file order. After enter with
// nothing chosen, the stack under the cursor counts as chosen.
func (m StackPickerModel) Selected() []string {
	var out []string
	for i, s := range m.Stacks {
		if m.Chosen[i] {
			out = append(out, s.Name)
		}
	}
	if len(out) == 0 && m.Done {
		out = append(out, m.Stacks[m.Cursor].Name)
	}
	return out
}

func (m StackPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Stacks"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ build  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Stacks))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Stacks[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Chosen[i] {
			check = "[x]"
		}
		mode := ""
		if s.SimMode {
			mode = "sim"
		}
		rows = append(rows, []string{cursor, check, s.Name, fmt.Sprintf("%d", len(s.Layers)), mode})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Stack", "Layers", "Mode").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case m.Chosen[idx]:
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d selected", m.Cursor+1, len(m.Stacks), len(m.Selected()))))

	return b.String()
}

// pickStacks runs the picker and returns the chosen stack names, or nil if
// the user quit.
func pickStacks(ctx context.Context, stacks []instructions.Stack) ([]string, error) {
	final, err := tea.NewProgram(NewStackPickerModel(stacks), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(StackPickerModel)
	if !ok || !m.Done {
		return nil, nil
	}
	return m.Selected(), nil
}
