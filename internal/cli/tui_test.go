package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orreryworks/orrery/pkg/layout"
)

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEnginePickerStartsOnCurrent(t *testing.T) {
	m := NewEnginePickerModel(layout.AlgorithmForce)
	if m.Choices[m.Cursor].Name != layout.AlgorithmForce {
		t.Errorf("cursor on %q, want %q", m.Choices[m.Cursor].Name, layout.AlgorithmForce)
	}

	m = NewEnginePickerModel("unknown")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d for unknown engine, want 0", m.Cursor)
	}
}

func TestEnginePickerNavigationAndSelect(t *testing.T) {
	m := NewEnginePickerModel("")

	next, _ := m.Update(keyMsg("j"))
	m = next.(EnginePickerModel)
	if m.Cursor != 1 {
		t.Fatalf("cursor after j = %d, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(EnginePickerModel)
	if m.Cursor != 0 {
		t.Fatalf("cursor after k = %d, want 0", m.Cursor)
	}

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(EnginePickerModel)
	if m.Selected != layout.AlgorithmBasic {
		t.Errorf("Selected = %q, want %q", m.Selected, layout.AlgorithmBasic)
	}
	if cmd == nil {
		t.Error("enter did not quit")
	}
}

func TestEnginePickerStaysInBounds(t *testing.T) {
	m := NewEnginePickerModel("")

	next, _ := m.Update(keyMsg("k"))
	m = next.(EnginePickerModel)
	if m.Cursor != 0 {
		t.Errorf("cursor after k at top = %d, want 0", m.Cursor)
	}

	for range 10 {
		next, _ = m.Update(keyMsg("j"))
		m = next.(EnginePickerModel)
	}
	if m.Cursor != len(m.Choices)-1 {
		t.Errorf("cursor after repeated j = %d, want %d", m.Cursor, len(m.Choices)-1)
	}
}

func TestEnginePickerViewListsEngines(t *testing.T) {
	view := NewEnginePickerModel("").View()
	for _, name := range []string{layout.AlgorithmBasic, layout.AlgorithmForce, layout.AlgorithmHierarchical} {
		if !strings.Contains(view, name) {
			t.Errorf("view missing engine %q", name)
		}
	}
}
