// Package tui implements the terminal dashboard: a task list with
// search/filter/sort and a create/edit form, both built on Bubble Tea.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type appScreen int

const (
	screenList appScreen = iota
	screenForm
)

// App is the top-level dashboard model switching between list and form.
type App struct {
	svc    TaskService
	userID string

	screen appScreen
	list   ListModel
	form   FormModel
}

// NewApp creates the dashboard rooted at the task list.
func NewApp(svc TaskService, userID string) App {
	return App{
		svc:    svc,
		userID: userID,
		list:   NewListModel(svc, userID),
	}
}

func (a App) Init() tea.Cmd {
	return a.list.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OpenFormMsg:
		a.screen = screenForm
		if msg.TaskID == "" {
			a.form = NewCreateForm(a.svc, a.userID)
		} else {
			a.form = NewEditForm(a.svc, a.userID, msg.TaskID)
		}
		return a, a.form.Init()

	case BackToListMsg:
		a.screen = screenList
		if msg.Reload {
			return a, a.list.fetchCmd()
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.screen {
	case screenForm:
		a.form, cmd = a.form.Update(msg)
	default:
		a.list, cmd = a.list.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.screen == screenForm {
		return a.form.View()
	}
	return a.list.View()
}
