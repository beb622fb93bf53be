package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func sendAll(m tea.Model, msgs ...tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		m, cmd = m.Update(msg)
	}
	return m, cmd
}

func TestSelectModelChoosesHighlighted(t *testing.T) {
	m := newSelectModel("Series", []string{"Доктор Хаус", "Шерлок", "Lost"})

	final, cmd := sendAll(m,
		tea.WindowSizeMsg{Width: 80, Height: 24},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	if got := final.(selectModel).chosen; got != 1 {
		t.Errorf("chosen = %d, want 1", got)
	}
	if cmd == nil {
		t.Fatal("enter should quit the picker")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("enter should return tea.Quit")
	}
}

func TestSelectModelCancel(t *testing.T) {
	m := newSelectModel("Series", []string{"a", "b"})

	final, _ := sendAll(m,
		tea.WindowSizeMsg{Width: 80, Height: 24},
		tea.KeyMsg{Type: tea.KeyEsc},
	)

	if got := final.(selectModel).chosen; got != -1 {
		t.Errorf("chosen = %d, want -1", got)
	}
}

func TestSelectEmpty(t *testing.T) {
	if _, err := Select("nothing", nil); err == nil {
		t.Error("Select() with no items should fail")
	}
}

func TestInputModel(t *testing.T) {
	m := newInputModel("Search")

	final, _ := sendAll(m,
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" house ")},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	im := final.(inputModel)
	if !im.submitted {
		t.Fatal("enter should submit")
	}
	if got := im.value(); got != "house" {
		t.Errorf("value = %q, want house", got)
	}
}

func TestInputModelCancel(t *testing.T) {
	final, _ := sendAll(newInputModel("Search"), tea.KeyMsg{Type: tea.KeyEsc})
	if final.(inputModel).submitted {
		t.Error("esc should not submit")
	}
}
