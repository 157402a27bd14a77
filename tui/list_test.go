package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	taskdomain "github.com/example/taskhub/domain/task"
)

// keyMsg builds a key press for Update-driven tests.
func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func loadedList(t *testing.T, tasks []taskdomain.Task) ListModel {
	t.Helper()
	m := NewListModel(&stubService{tasks: tasks}, "user-1")
	m, _ = m.Update(tasksLoadedMsg{tasks: tasks})
	return m
}

func TestListShowsLoadedTasks(t *testing.T) {
	m := loadedList(t, sampleTasks())
	if len(m.Visible()) != 3 {
		t.Fatalf("expected 3 visible tasks, got %d", len(m.Visible()))
	}
}

func TestListStatusFilterCycling(t *testing.T) {
	m := loadedList(t, sampleTasks())

	// all → todo
	m, _ = m.Update(keyMsg("s"))
	if m.view.Status != "todo" {
		t.Fatalf("expected todo filter, got %q", m.view.Status)
	}
	assertOrder(t, m.Visible(), "t1")

	// todo → in-progress
	m, _ = m.Update(keyMsg("s"))
	assertOrder(t, m.Visible(), "t2")
}

func TestListSearchNarrowsView(t *testing.T) {
	m := loadedList(t, sampleTasks())

	m, _ = m.Update(keyMsg("/"))
	for _, r := range "cherry" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	assertOrder(t, m.Visible(), "t3")

	// esc clears the search
	m, _ = m.Update(keyMsg("esc"))
	if len(m.Visible()) != 3 {
		t.Errorf("expected full view after clearing search, got %d", len(m.Visible()))
	}
}

func TestListSearchHandlesMultibyteRunes(t *testing.T) {
	m := loadedList(t, sampleTasks())

	m, _ = m.Update(keyMsg("/"))
	for _, r := range "日本語" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	if m.view.Search != "日本語" {
		t.Fatalf("expected multibyte search text, got %q", m.view.Search)
	}

	// Backspace removes one rune, not one byte.
	m, _ = m.Update(keyMsg("backspace"))
	if m.view.Search != "日本" {
		t.Errorf("expected %q after backspace, got %q", "日本", m.view.Search)
	}
}

func TestListDisplayToggleKeepsData(t *testing.T) {
	m := loadedList(t, sampleTasks())
	before := ids(m.Visible())

	m, _ = m.Update(keyMsg("v"))
	if !m.view.DisplayGrid {
		t.Fatal("expected grid mode")
	}
	after := ids(m.Visible())

	if len(before) != len(after) {
		t.Fatal("display toggle must not change the derived data")
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("display toggle must not change the derived data")
		}
	}
}

func TestListEmptyStates(t *testing.T) {
	t.Run("no tasks at all", func(t *testing.T) {
		m := loadedList(t, nil)
		if !strings.Contains(m.View(), "No tasks yet") {
			t.Error("expected empty-account message")
		}
	})

	t.Run("filtered out", func(t *testing.T) {
		m := loadedList(t, sampleTasks())
		m.view.Search = "zebra"
		m.refresh()
		if !strings.Contains(m.View(), "No tasks match your filters") {
			t.Error("expected filtered-out message")
		}
	})
}

func TestListSelectionClampedAfterFilter(t *testing.T) {
	m := loadedList(t, sampleTasks())
	m.selected = 2

	m.view.Status = "in-progress"
	m.refresh()

	if m.selected != 0 {
		t.Errorf("expected selection clamped to 0, got %d", m.selected)
	}
}

func TestListOpensFormForSelectedTask(t *testing.T) {
	m := loadedList(t, sampleTasks())
	m.selected = 1

	_, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected open-form command")
	}
	open, ok := cmd().(OpenFormMsg)
	if !ok {
		t.Fatalf("expected OpenFormMsg, got %T", cmd())
	}
	if open.TaskID != m.Visible()[1].ID {
		t.Errorf("expected selected task ID, got %q", open.TaskID)
	}
}
