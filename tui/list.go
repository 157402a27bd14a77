package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	taskdomain "github.com/example/taskhub/domain/task"
)

var (
	statusFilters   = []string{FilterAll, "todo", "in-progress", "completed"}
	priorityFilters = []string{FilterAll, "high", "medium", "low"}
	sortKeys        = []SortKey{SortCreated, SortPriority, SortTitle}
)

// Messages produced by list commands.
type (
	tasksLoadedMsg     struct{ tasks []taskdomain.Task }
	tasksLoadFailedMsg struct{ err error }
	taskDeletedMsg     struct{ taskID string }

	// OpenFormMsg asks the parent model to show the task form. An empty
	// TaskID means create mode.
	OpenFormMsg struct{ TaskID string }
)

// ListModel shows the fetched tasks with search, filters, and sorting.
// The rendered rows are always derived through ApplyView.
type ListModel struct {
	svc    TaskService
	userID string

	tasks   []taskdomain.Task
	view    ViewState
	visible []taskdomain.Task

	selected    int
	searchFocus bool
	loading     bool
	errMsg      string

	width, height int
}

// NewListModel creates the task list model. Call Init to trigger the fetch.
func NewListModel(svc TaskService, userID string) ListModel {
	return ListModel{
		svc:     svc,
		userID:  userID,
		view:    ViewState{Status: FilterAll, Priority: FilterAll, Sort: SortCreated},
		loading: true,
	}
}

func (m ListModel) Init() tea.Cmd {
	return m.fetchCmd()
}

func (m ListModel) fetchCmd() tea.Cmd {
	svc, userID := m.svc, m.userID
	return func() tea.Msg {
		tasks, err := svc.GetTasks(context.Background(), userID)
		if err != nil {
			return tasksLoadFailedMsg{err: err}
		}
		return tasksLoadedMsg{tasks: tasks}
	}
}

func (m ListModel) deleteCmd(taskID string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if err := svc.DeleteTask(context.Background(), taskID); err != nil {
			return tasksLoadFailedMsg{err: err}
		}
		return taskDeletedMsg{taskID: taskID}
	}
}

// refresh recomputes the derived view and clamps the selection.
func (m *ListModel) refresh() {
	m.visible = ApplyView(m.tasks, m.view)
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// Visible returns the currently derived view.
func (m ListModel) Visible() []taskdomain.Task {
	return m.visible
}

func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tasksLoadedMsg:
		m.loading = false
		m.errMsg = ""
		m.tasks = msg.tasks
		m.refresh()
		return m, nil

	case tasksLoadFailedMsg:
		m.loading = false
		m.errMsg = msg.err.Error()
		return m, nil

	case taskDeletedMsg:
		return m, m.fetchCmd()

	case tea.KeyMsg:
		if m.searchFocus {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m ListModel) handleSearchKey(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchFocus = false
		m.view.Search = ""
		m.refresh()
	case "enter":
		m.searchFocus = false
	case "backspace":
		if runes := []rune(m.view.Search); len(runes) > 0 {
			m.view.Search = string(runes[:len(runes)-1])
			m.refresh()
		}
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.view.Search += string(msg.Runes)
			m.refresh()
		case tea.KeySpace:
			m.view.Search += " "
			m.refresh()
		}
	}
	return m, nil
}

func (m ListModel) handleKey(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "/":
		m.searchFocus = true
		return m, nil

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}

	case "s":
		m.view.Status = nextOption(statusFilters, m.view.Status)
		m.refresh()
	case "p":
		m.view.Priority = nextOption(priorityFilters, m.view.Priority)
		m.refresh()
	case "o":
		m.view.Sort = nextSort(m.view.Sort)
		m.refresh()
	case "v":
		// Layout toggle only; the derived data is unchanged.
		m.view.DisplayGrid = !m.view.DisplayGrid

	case "r":
		m.loading = true
		return m, m.fetchCmd()

	case "n":
		return m, func() tea.Msg { return OpenFormMsg{} }

	case "enter":
		if len(m.visible) > 0 {
			taskID := m.visible[m.selected].ID
			return m, func() tea.Msg { return OpenFormMsg{TaskID: taskID} }
		}

	case "d":
		if len(m.visible) > 0 {
			return m, m.deleteCmd(m.visible[m.selected].ID)
		}

	case "c":
		if len(m.visible) > 0 {
			taskID := m.visible[m.selected].ID
			svc := m.svc
			return m, func() tea.Msg {
				if _, err := svc.UpdateTaskStatus(context.Background(), taskID, string(taskdomain.StatusCompleted)); err != nil {
					return tasksLoadFailedMsg{err: err}
				}
				return taskDeletedMsg{taskID: taskID} // triggers refetch
			}
		}
	}

	return m, nil
}

func nextOption(options []string, current string) string {
	for i, opt := range options {
		if opt == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func nextSort(current SortKey) SortKey {
	for i, key := range sortKeys {
		if key == current {
			return sortKeys[(i+1)%len(sortKeys)]
		}
	}
	return sortKeys[0]
}

func (m ListModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(labelStyle.Render("Loading tasks..."))
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg))
	case len(m.visible) == 0:
		b.WriteString(m.renderEmptyState())
	case m.view.DisplayGrid:
		b.WriteString(m.renderGrid())
	default:
		b.WriteString(m.renderRows())
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("/: search • s/p: filters • o: sort • v: view • n: new • enter: edit • d: delete • c: complete • q: quit"))
	return b.String()
}

func (m ListModel) renderFilterBar() string {
	search := m.view.Search
	if m.searchFocus {
		search += "█"
	}
	if search == "" {
		search = "-"
	}
	return labelStyle.Render(fmt.Sprintf(
		"search: %s  status: %s  priority: %s  sort: %s",
		search, m.view.Status, m.view.Priority, m.view.Sort,
	))
}

// renderEmptyState distinguishes a filtered-out view from an empty account.
func (m ListModel) renderEmptyState() string {
	if len(m.tasks) > 0 {
		return labelStyle.Render("No tasks match your filters")
	}
	return labelStyle.Render("No tasks yet. Press 'n' to create one.")
}

func (m ListModel) renderRows() string {
	var b strings.Builder
	for i, t := range m.visible {
		line := fmt.Sprintf("%s %s  %s  %s",
			priorityStyle(string(t.Priority)).Render("●"),
			t.Name,
			labelStyle.Render(string(t.Status)),
			labelStyle.Render(t.Project),
		)
		if i == m.selected {
			line = selectedStyle.Render("▶ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m ListModel) renderGrid() string {
	cards := make([]string, 0, len(m.visible))
	for i, t := range m.visible {
		style := cardStyle
		if i == m.selected {
			style = style.BorderForeground(lipgloss.Color(colorAccentBright))
		}
		cards = append(cards, style.Render(fmt.Sprintf(
			"%s\n%s  %s",
			t.Name,
			priorityStyle(string(t.Priority)).Render(string(t.Priority)),
			labelStyle.Render(string(t.Status)),
		)))
	}

	columns := 3
	var rows []string
	for start := 0; start < len(cards); start += columns {
		end := start + columns
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
