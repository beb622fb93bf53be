// Package ui provides the interactive terminal pickers used by the CLI.
// Items are rendered as plain text; nothing from upstream is interpreted
// by a shell.
package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user leaves a picker without choosing.
var ErrCancelled = errors.New("selection cancelled")

var (
	docStyle = lipgloss.NewStyle().Padding(1, 2)

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD700"))
)

type item struct {
	index int
	title string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return "" }
func (i item) FilterValue() string { return i.title }

type selectModel struct {
	list   list.Model
	chosen int
}

func newSelectModel(prompt string, items []string) selectModel {
	listItems := make([]list.Item, len(items))
	for i, title := range items {
		listItems[i] = item{index: i, title: title}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(listItems, delegate, 0, 0)
	l.Title = prompt
	l.Styles.Title = promptStyle
	l.SetShowStatusBar(false)

	return selectModel{list: l, chosen: -1}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		return m, nil

	case tea.KeyMsg:
		// the filter input owns every key while it is open
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if it, ok := m.list.SelectedItem().(item); ok {
				m.chosen = it.index
			}
			return m, tea.Quit
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	return docStyle.Render(m.list.View())
}

// Select presents items in a filterable list and returns the chosen index.
func Select(prompt string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("no items to select from")
	}

	p := tea.NewProgram(newSelectModel(prompt, items), tea.WithAltScreen(), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return -1, fmt.Errorf("running picker: %w", err)
	}

	m, ok := final.(selectModel)
	if !ok || m.chosen < 0 {
		return -1, ErrCancelled
	}
	return m.chosen, nil
}

type inputModel struct {
	input     textinput.Model
	prompt    string
	submitted bool
}

func newInputModel(prompt string) inputModel {
	ti := textinput.New()
	ti.Placeholder = "type and press enter"
	ti.CharLimit = 200
	ti.Focus()
	return inputModel{input: ti, prompt: prompt}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	return docStyle.Render(promptStyle.Render(m.prompt) + "\n\n" + m.input.View())
}

func (m inputModel) value() string {
	return strings.TrimSpace(m.input.Value())
}

// Input prompts the user for a line of free text.
func Input(prompt string) (string, error) {
	p := tea.NewProgram(newInputModel(prompt), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("running prompt: %w", err)
	}

	m, ok := final.(inputModel)
	if !ok || !m.submitted {
		return "", ErrCancelled
	}
	if m.value() == "" {
		return "", fmt.Errorf("no input provided")
	}
	return m.value(), nil
}
