package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orreryworks/orrery/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// engineChoice describes one selectable component engine.
type engineChoice struct {
	Name        string
	Description string
}

// engineChoices lists the component engines in menu order.
var engineChoices = []engineChoice{
	{layout.AlgorithmBasic, "layered rows by graph distance, deterministic"},
	{layout.AlgorithmForce, "force-directed simulation, seedable"},
	{layout.AlgorithmHierarchical, "ranked placement via Graphviz, falls back to basic"},
}

// =============================================================================
// EnginePickerModel - Interactive engine selection
// =============================================================================

// EnginePickerModel is the bubbletea model for interactive engine selection.
type EnginePickerModel struct {
	Choices  []engineChoice
	Cursor   int
	Selected string
}

// NewEnginePickerModel creates an engine picker. The cursor starts on
// current when it names a known engine.
func NewEnginePickerModel(current string) EnginePickerModel {
	m := EnginePickerModel{Choices: engineChoices}
	for i, choice := range engineChoices {
		if choice.Name == current {
			m.Cursor = i
		}
	}
	return m
}

func (m EnginePickerModel) Init() tea.Cmd {
	return nil
}

func (m EnginePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Choices)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Choices[m.Cursor].Name
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m EnginePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout Engine"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, choice := range m.Choices {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-14s %s", cursor, choice.Name, listDimStyle.Render(choice.Description))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// pickAlgorithm runs the engine picker and returns the chosen engine
// name. An empty result means the user cancelled.
func pickAlgorithm(current string) (string, error) {
	final, err := tea.NewProgram(NewEnginePickerModel(current)).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(EnginePickerModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type %T", final)
	}
	return m.Selected, nil
}
