package cli

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/layerstack/pkg/instructions"
)

func pickerStacks() []instructions.Stack {
	return []instructions.Stack{
		{Name: "glass", Layers: make([]instructions.Layer, 3)},
		{Name: "tco", Layers: make([]instructions.Layer, 2), SimMode: true},
		{Name: "active"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m StackPickerModel, keys ...string) StackPickerModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(StackPickerModel)
	}
	return m
}

func TestStackPicker(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		want     []string
		wantDone bool
	}{
		{name: "enter picks cursor", keys: []string{"down", "enter"}, want: []string{"tco"}, wantDone: true},
		{name: "toggle keeps file order", keys: []string{"down", "down", "x", "up", "up", "x", "enter"}, want: []string{"glass", "active"}, wantDone: true},
		{name: "toggle twice clears", keys: []string{"x", "x"}, want: nil},
		{name: "select all", keys: []string{"a", "enter"}, want: []string{"glass", "tco", "active"}, wantDone: true},
		{name: "cursor stays in range", keys: []string{"up", "down", "down", "down", "down", "enter"}, want: []string{"active"}, wantDone: true},
		{name: "quit", keys: []string{"x", "q"}, want: []string{"glass"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewStackPickerModel(pickerStacks()), tt.keys...)
			if m.Done != tt.wantDone {
				t.Errorf("Done = %v, want %v", m.Done, tt.wantDone)
			}
			if got := m.Selected(); !slices.Equal(got, tt.want) {
				t.Errorf("Selected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStackPickerView(t *testing.T) {
	m := press(NewStackPickerModel(pickerStacks()), "x")
	view := m.View()
	for _, want := range []string{"Select Stacks", "glass", "tco", "[x]", "sim", "1 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
