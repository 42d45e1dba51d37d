package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tickoff/internal/model"
	"github.com/dori/tickoff/internal/ui/theme"
)

// ListMode represents the current input mode of the list view
type ListMode int

const (
	ListModeNormal ListMode = iota
	ListModeEdit
)

// ListView renders the filtered tasks and hosts the per-item editor
type ListView struct {
	width  int
	height int

	tasks        []model.Task // visible tasks, already filtered by the root
	total        int          // size of the unfiltered list
	filter       model.Filter
	cursor       int
	scrollOffset int

	mode      ListMode
	input     textinput.Model
	editingID string
}

// NewListView creates an empty list view
func NewListView() ListView {
	ti := textinput.New()
	// no limit: stored text has none either
	ti.CharLimit = 0
	ti.Prompt = ""

	return ListView{
		filter: model.FilterAll,
		input:  ti,
	}
}

// Init implements tea.Model
func (v ListView) Init() tea.Cmd {
	return nil
}

// IsInputMode returns true when the view is capturing text input
func (v ListView) IsInputMode() bool {
	return v.mode == ListModeEdit
}

// EditingID returns the id of the task being edited, if any
func (v ListView) EditingID() string {
	if v.mode != ListModeEdit {
		return ""
	}
	return v.editingID
}

// Cursor returns the index of the highlighted task
func (v ListView) Cursor() int {
	return v.cursor
}

// Selected returns the highlighted task
func (v ListView) Selected() (model.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return model.Task{}, false
	}
	return v.tasks[v.cursor], true
}

// SetSize updates the view dimensions
func (v ListView) SetSize(width, height int) ListView {
	v.width = width
	v.height = height
	v.input.Width = max(width-8, 10)
	v.ensureCursorVisible()
	return v
}

// SetTasks replaces the visible tasks. total is the unfiltered count, used
// to decide whether the clear-completed control is offered.
func (v ListView) SetTasks(tasks []model.Task, total int, filter model.Filter) ListView {
	var keepID string
	if t, ok := v.Selected(); ok {
		keepID = t.ID
	}

	v.tasks = tasks
	v.total = total
	v.filter = filter

	// keep the cursor on the same task when it is still visible
	v.cursor = min(v.cursor, max(len(tasks)-1, 0))
	for i, t := range tasks {
		if t.ID == keepID {
			v.cursor = i
			break
		}
	}

	if v.mode == ListModeEdit && !v.contains(v.editingID) {
		v.exitEdit()
	}

	v.ensureCursorVisible()
	return v
}

func (v ListView) contains(id string) bool {
	for _, t := range v.tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// visibleTaskCount returns how many tasks can fit in the viewport
func (v ListView) visibleTaskCount() int {
	// Reserve lines for the scroll indicators
	return max(v.height-2, 1)
}

// ensureCursorVisible adjusts scrollOffset to keep cursor in view
func (v *ListView) ensureCursorVisible() {
	visible := v.visibleTaskCount()

	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}

	maxOffset := max(len(v.tasks)-visible, 0)
	v.scrollOffset = min(max(v.scrollOffset, 0), maxOffset)
}

// Update handles messages for the list view
func (v ListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if v.mode == ListModeEdit {
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}
		return v, nil
	}

	if v.mode == ListModeEdit {
		return v.handleEditMode(key)
	}
	return v.handleNormalMode(key)
}

// handleNormalMode handles keypresses in normal mode
func (v ListView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
			v.ensureCursorVisible()
		}
	case "down", "j":
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureCursorVisible()
		}
	case "g", "home":
		v.cursor = 0
		v.ensureCursorVisible()
	case "G", "end":
		v.cursor = max(0, len(v.tasks)-1)
		v.ensureCursorVisible()

	case " ", "x":
		if t, ok := v.Selected(); ok {
			return v, request(ToggleRequest{ID: t.ID})
		}

	case "enter", "e":
		if t, ok := v.Selected(); ok {
			v.mode = ListModeEdit
			v.editingID = t.ID
			v.input.SetValue(t.Text)
			v.input.CursorEnd()
			return v, v.input.Focus()
		}

	case "d", "delete":
		if t, ok := v.Selected(); ok {
			return v, request(DeleteRequest{ID: t.ID})
		}

	case "c":
		if v.total > 0 {
			return v, request(ClearCompletedRequest{})
		}
	}

	return v, nil
}

// handleEditMode handles keypresses while a task is being edited. Enter
// submits and leaves edit mode even when the edit will be rejected; esc
// discards the buffer.
func (v ListView) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		req := EditRequest{ID: v.editingID, Text: v.input.Value()}
		v.exitEdit()
		return v, request(req)
	case "esc":
		v.exitEdit()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *ListView) exitEdit() {
	v.mode = ListModeNormal
	v.editingID = ""
	v.input.SetValue("")
	v.input.Blur()
}

// View renders the task list
func (v ListView) View() string {
	styles := theme.Current.Styles

	if len(v.tasks) == 0 {
		return styles.EmptyState.Render("No tasks to display")
	}

	var b strings.Builder

	visible := v.visibleTaskCount()
	endIdx := min(v.scrollOffset+visible, len(v.tasks))

	if v.scrollOffset > 0 {
		b.WriteString(styles.ScrollHint.Render(fmt.Sprintf("  ↑ %d more above", v.scrollOffset)))
		b.WriteString("\n")
	}

	for i := v.scrollOffset; i < endIdx; i++ {
		b.WriteString(v.renderTask(v.tasks[i], i == v.cursor))
		if i < endIdx-1 {
			b.WriteString("\n")
		}
	}

	if endIdx < len(v.tasks) {
		b.WriteString("\n")
		b.WriteString(styles.ScrollHint.Render(fmt.Sprintf("  ↓ %d more below", len(v.tasks)-endIdx)))
	}

	return b.String()
}

func (v ListView) renderTask(t model.Task, focused bool) string {
	styles := theme.Current.Styles

	pointer := "  "
	if focused {
		pointer = styles.TaskCursor.Render("> ")
	}

	checkbox := styles.Checkbox.Render("[ ]")
	if t.Completed {
		checkbox = styles.CheckboxOn.Render("[x]")
	}

	if v.mode == ListModeEdit && t.ID == v.editingID {
		return pointer + checkbox + " " + v.input.View()
	}

	var text string
	switch {
	case t.Completed:
		text = styles.TaskDone.Render(t.Text)
	case focused:
		text = styles.TaskCursor.Render(t.Text)
	default:
		text = styles.TaskNormal.Render(t.Text)
	}

	line := pointer + checkbox + " " + text
	if v.width > 0 && lipgloss.Width(line) > v.width {
		line = lipgloss.NewStyle().MaxWidth(v.width).Render(line)
	}
	return line
}

// ClearControl renders the clear-completed control, or "" when the list is empty
func (v ListView) ClearControl() string {
	if v.total == 0 {
		return ""
	}
	styles := theme.Current.Styles
	return styles.HelpKey.Render("c") + styles.HelpDesc.Render(" clear completed")
}
