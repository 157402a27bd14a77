package tui

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/example/taskhub/client"
	taskdomain "github.com/example/taskhub/domain/task"
)

// TaskService is the slice of the API client the dashboard uses.
// *client.Client satisfies it.
type TaskService interface {
	CreateTask(ctx context.Context, input *client.TaskInput) (*taskdomain.Task, error)
	GetTask(ctx context.Context, taskID string) (*taskdomain.Task, error)
	GetTasks(ctx context.Context, userID string) ([]taskdomain.Task, error)
	UpdateTask(ctx context.Context, taskID string, input *client.TaskInput) (*taskdomain.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	UpdateTaskStatus(ctx context.Context, taskID, status string) (*taskdomain.Task, error)
	BulkDeleteTasks(ctx context.Context, taskIDs []string) (int, error)
}

// formPhase tracks where the form is in its lifecycle.
type formPhase int

const (
	phaseIdle formPhase = iota
	phaseLoading
	phaseEditing
	phaseSaving
	phaseSuccess
	phaseError
)

// Form input fields, in focus order. Priority and status are cycled
// selectors rather than free text.
const (
	fieldName = iota
	fieldAssignee
	fieldProject
	fieldDeadline
	fieldTags
	fieldDescription
	fieldImagePath
	fieldCount

	focusPriority = fieldCount
	focusStatus   = fieldCount + 1
	focusMax      = fieldCount + 2
)

const (
	maxImageBytes = 10 << 20
	successDelay  = 1500 * time.Millisecond
	dateLayout    = "2006-01-02"
)

var (
	priorityOptions = []string{"low", "medium", "high"}
	statusOptions   = []string{"todo", "in-progress", "completed"}
)

// Messages produced by form commands.
type (
	formLoadedMsg     struct{ task *taskdomain.Task }
	formLoadFailedMsg struct{ err error }
	formSavedMsg      struct{ task *taskdomain.Task }
	formSaveFailedMsg struct{ err error }
	formSuccessMsg    struct{}

	// BackToListMsg asks the parent model to return to the task list.
	BackToListMsg struct{ Reload bool }
)

// FormModel is the create/edit task form.
type FormModel struct {
	svc    TaskService
	userID string

	phase  formPhase
	taskID string // non-empty in edit mode

	inputs        []textinput.Model
	focus         int
	priorityIndex int
	statusIndex   int

	imageName       string
	imageData       []byte
	currentImageURL string

	errMsg string

	showDiscardModal bool
	discardChoice    bool

	// Snapshot for change detection, taken when editing begins.
	initial [fieldCount]string
	initialPriority,
	initialStatus int

	width, height int
}

// NewCreateForm creates a form for a new task.
func NewCreateForm(svc TaskService, userID string) FormModel {
	m := newForm(svc, userID)
	m.phase = phaseEditing
	m.snapshot()
	return m
}

// NewEditForm creates a form that first loads the existing task.
func NewEditForm(svc TaskService, userID, taskID string) FormModel {
	m := newForm(svc, userID)
	m.phase = phaseLoading
	m.taskID = taskID
	return m
}

func newForm(svc TaskService, userID string) FormModel {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 50
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPlaceholder))
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimaryText))
	}

	inputs[fieldName].Placeholder = "Task name (required)"
	inputs[fieldName].CharLimit = 200
	inputs[fieldName].Focus()
	inputs[fieldAssignee].Placeholder = "Assignee (required)"
	inputs[fieldAssignee].CharLimit = 100
	inputs[fieldProject].Placeholder = "Project (required)"
	inputs[fieldProject].CharLimit = 100
	inputs[fieldDeadline].Placeholder = "Deadline YYYY-MM-DD (required)"
	inputs[fieldDeadline].CharLimit = 10
	inputs[fieldTags].Placeholder = "Tags, comma-separated"
	inputs[fieldTags].CharLimit = 200
	inputs[fieldDescription].Placeholder = "Description"
	inputs[fieldDescription].CharLimit = 2000
	inputs[fieldImagePath].Placeholder = "Image path (ctrl+i to attach)"
	inputs[fieldImagePath].CharLimit = 500

	return FormModel{
		svc:    svc,
		userID: userID,
		inputs: inputs,
	}
}

func (m FormModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.phase == phaseLoading {
		cmds = append(cmds, m.loadCmd())
	}
	return tea.Batch(cmds...)
}

func (m FormModel) loadCmd() tea.Cmd {
	svc, taskID := m.svc, m.taskID
	return func() tea.Msg {
		found, err := svc.GetTask(context.Background(), taskID)
		if err != nil {
			return formLoadFailedMsg{err: err}
		}
		return formLoadedMsg{task: found}
	}
}

func (m FormModel) saveCmd() tea.Cmd {
	svc, taskID := m.svc, m.taskID
	input := m.taskInput()
	return func() tea.Msg {
		var saved *taskdomain.Task
		var err error
		if taskID == "" {
			saved, err = svc.CreateTask(context.Background(), input)
		} else {
			saved, err = svc.UpdateTask(context.Background(), taskID, input)
		}
		if err != nil {
			return formSaveFailedMsg{err: err}
		}
		return formSavedMsg{task: saved}
	}
}

// taskInput assembles the outgoing form values.
func (m FormModel) taskInput() *client.TaskInput {
	return &client.TaskInput{
		Name:            m.inputs[fieldName].Value(),
		Assignee:        m.inputs[fieldAssignee].Value(),
		Tags:            m.inputs[fieldTags].Value(),
		Deadline:        m.inputs[fieldDeadline].Value(),
		Description:     m.inputs[fieldDescription].Value(),
		Project:         m.inputs[fieldProject].Value(),
		Priority:        priorityOptions[m.priorityIndex],
		Status:          statusOptions[m.statusIndex],
		UserID:          m.userID,
		CurrentImageURL: m.currentImageURL,
		ImageName:       m.imageName,
		ImageData:       m.imageData,
	}
}

// validate returns the first violation message, or "" when the form is valid.
// Validation runs entirely client-side before any network call.
func (m FormModel) validate() string {
	if strings.TrimSpace(m.inputs[fieldName].Value()) == "" {
		return "Task name is required"
	}
	if strings.TrimSpace(m.inputs[fieldAssignee].Value()) == "" {
		return "Please select an assignee"
	}
	if strings.TrimSpace(m.inputs[fieldProject].Value()) == "" {
		return "Project name is required"
	}
	deadline := strings.TrimSpace(m.inputs[fieldDeadline].Value())
	if deadline == "" {
		return "Deadline is required"
	}
	if _, err := time.Parse(dateLayout, deadline); err == nil {
		// Compare calendar dates as strings in the user's local zone;
		// parsing to UTC midnight shifts the boundary for non-UTC users.
		if deadline < time.Now().Format(dateLayout) {
			return "Deadline cannot be in the past"
		}
	}
	return ""
}

// AttachImage validates and stages an image for upload. It returns a
// user-facing message when the file is rejected, or "" on success.
func (m *FormModel) AttachImage(name string, data []byte) string {
	if len(data) > maxImageBytes {
		return "Image size must be less than 10MB"
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return "Please select a valid image file"
	}
	m.imageName = name
	m.imageData = data
	return ""
}

// snapshot records the current values for later change detection.
func (m *FormModel) snapshot() {
	for i := 0; i < fieldCount; i++ {
		m.initial[i] = m.inputs[i].Value()
	}
	m.initialPriority = m.priorityIndex
	m.initialStatus = m.statusIndex
}

// hasChanges reports whether any value differs from the snapshot.
func (m FormModel) hasChanges() bool {
	for i := 0; i < fieldCount; i++ {
		if m.inputs[i].Value() != m.initial[i] {
			return true
		}
	}
	return m.priorityIndex != m.initialPriority ||
		m.statusIndex != m.initialStatus ||
		len(m.imageData) > 0
}

func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case formLoadedMsg:
		m.applyTask(msg.task)
		m.phase = phaseEditing
		m.snapshot()
		return m, nil

	case formLoadFailedMsg:
		m.phase = phaseError
		m.errMsg = msg.err.Error()
		return m, nil

	case formSavedMsg:
		m.phase = phaseSuccess
		m.errMsg = ""
		return m, tea.Tick(successDelay, func(time.Time) tea.Msg {
			return formSuccessMsg{}
		})

	case formSaveFailedMsg:
		// Back to editing with all entered values intact.
		m.phase = phaseEditing
		m.errMsg = msg.err.Error()
		return m, nil

	case formSuccessMsg:
		return m, func() tea.Msg { return BackToListMsg{Reload: true} }

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocusedInput(msg)
}

func (m FormModel) handleKey(msg tea.KeyMsg) (FormModel, tea.Cmd) {
	if m.phase == phaseSaving || m.phase == phaseSuccess || m.phase == phaseLoading {
		return m, nil
	}

	if m.showDiscardModal {
		switch msg.String() {
		case "left", "right":
			m.discardChoice = !m.discardChoice
			return m, nil
		case "y", "Y":
			m.showDiscardModal = false
			return m, func() tea.Msg { return BackToListMsg{} }
		case "n", "N", "esc":
			m.showDiscardModal = false
			return m, nil
		case "enter":
			m.showDiscardModal = false
			if m.discardChoice {
				return m, func() tea.Msg { return BackToListMsg{} }
			}
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		if !m.hasChanges() {
			return m, func() tea.Msg { return BackToListMsg{} }
		}
		m.showDiscardModal = true
		m.discardChoice = false
		return m, nil

	case "tab", "down":
		return m.moveFocus(1), nil

	case "shift+tab", "up":
		return m.moveFocus(-1), nil

	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		switch m.focus {
		case focusPriority:
			m.priorityIndex = cycle(m.priorityIndex, delta, len(priorityOptions))
			return m, nil
		case focusStatus:
			m.statusIndex = cycle(m.statusIndex, delta, len(statusOptions))
			return m, nil
		}

	case "ctrl+i":
		return m.attachFromPath(), nil

	case "ctrl+s", "enter":
		if msg.String() == "enter" && m.focus < fieldCount {
			return m.moveFocus(1), nil
		}
		if violation := m.validate(); violation != "" {
			m.errMsg = violation
			return m, nil
		}
		m.phase = phaseSaving
		m.errMsg = ""
		return m, m.saveCmd()
	}

	return m.updateFocusedInput(msg)
}

func (m FormModel) attachFromPath() FormModel {
	path := strings.TrimSpace(m.inputs[fieldImagePath].Value())
	if path == "" {
		return m
	}
	data, err := os.ReadFile(path)
	if err != nil {
		m.errMsg = "Please select a valid image file"
		return m
	}
	if violation := m.AttachImage(filepath.Base(path), data); violation != "" {
		m.errMsg = violation
		return m
	}
	m.errMsg = ""
	return m
}

func (m FormModel) updateFocusedInput(msg tea.Msg) (FormModel, tea.Cmd) {
	if m.focus >= fieldCount {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m FormModel) moveFocus(delta int) FormModel {
	if m.focus < fieldCount {
		m.inputs[m.focus].Blur()
	}
	m.focus = cycle(m.focus, delta, focusMax)
	if m.focus < fieldCount {
		m.inputs[m.focus].Focus()
	}
	return m
}

func cycle(current, delta, size int) int {
	return (current + delta + size) % size
}

// applyTask fills the form from an existing task for edit mode.
func (m *FormModel) applyTask(t *taskdomain.Task) {
	m.inputs[fieldName].SetValue(t.Name)
	m.inputs[fieldAssignee].SetValue(t.Assignee)
	m.inputs[fieldProject].SetValue(t.Project)
	m.inputs[fieldDeadline].SetValue(t.Deadline)
	m.inputs[fieldTags].SetValue(strings.Join(t.Tags, ", "))
	m.inputs[fieldDescription].SetValue(t.Description)
	m.currentImageURL = t.ImageURL

	for i, p := range priorityOptions {
		if p == string(t.Priority) {
			m.priorityIndex = i
		}
	}
	for i, s := range statusOptions {
		if s == string(t.Status) {
			m.statusIndex = i
		}
	}
}

func (m FormModel) View() string {
	switch m.phase {
	case phaseLoading:
		return labelStyle.Render("Loading task...")
	case phaseSaving:
		return labelStyle.Render("Saving...")
	case phaseSuccess:
		if m.taskID == "" {
			return successStyle.Render("✓ Task created")
		}
		return successStyle.Render("✓ Task updated")
	}

	var b strings.Builder

	heading := "Create Task"
	if m.taskID != "" {
		heading = "Edit Task"
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")

	labels := []string{"Name", "Assignee", "Project", "Deadline", "Tags", "Description", "Image"}
	for i := 0; i < fieldCount; i++ {
		label := labels[i]
		if i == m.focus {
			b.WriteString(selectedStyle.Render("▶ " + label))
		} else {
			b.WriteString(labelStyle.Render("  " + label))
		}
		b.WriteString("\n  " + m.inputs[i].View() + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderSelector("Priority", priorityOptions[m.priorityIndex], m.focus == focusPriority))
	b.WriteString(m.renderSelector("Status", statusOptions[m.statusIndex], m.focus == focusStatus))

	if m.imageName != "" {
		b.WriteString(labelStyle.Render("  Attached: "+m.imageName) + "\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(m.errMsg) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("tab: next • ctrl+s: save • esc: back"))

	view := b.String()
	if m.showDiscardModal {
		return m.renderDiscardModal(view)
	}
	return view
}

func (m FormModel) renderSelector(label, value string, focused bool) string {
	marker := "  "
	if focused {
		marker = selectedStyle.Render("▶ ")
	}
	return fmt.Sprintf("%s%s: %s\n", marker, labelStyle.Render(label),
		priorityStyle(value).Render("◂ "+value+" ▸"))
}

func (m FormModel) renderDiscardModal(background string) string {
	yes, no := "  Yes  ", "  No  "
	if m.discardChoice {
		yes = selectedStyle.Render("▶ Yes ◀")
	} else {
		no = selectedStyle.Render("▶ No ◀")
	}
	modal := modalStyle.Render("Discard unsaved changes?\n\n" + yes + "   " + no)
	return background + "\n\n" + modal
}
