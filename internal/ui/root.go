package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tickoff/internal/app"
	"github.com/dori/tickoff/internal/store"
	"github.com/dori/tickoff/internal/ui/theme"
	"github.com/dori/tickoff/internal/ui/views"
)

// Lines used by everything except the task list: header, form box, filter
// row, summary, footer and the blank separators between them.
const chromeHeight = 13

// RootModel is the main application model. It owns the store; child views
// only see snapshots and send requests back.
type RootModel struct {
	store  *store.Store
	keys   KeyMap
	help   help.Model
	width  int
	height int

	focus       Focus
	form        views.FormView
	filterBar   views.FilterBar
	listView    views.ListView
	summaryView views.SummaryView
	helpVisible bool

	// Status message
	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App) RootModel {
	if t, ok := theme.ByName(application.Config.UI.Theme); ok {
		theme.SetTheme(t)
	}

	h := help.New()
	h.ShowAll = true

	form, _ := views.NewFormView().Focus()

	m := RootModel{
		store:       application.Store,
		keys:        DefaultKeyMap(),
		help:        h,
		focus:       FocusForm,
		form:        form,
		filterBar:   views.NewFilterBar(),
		listView:    views.NewListView(),
		summaryView: views.NewSummaryView(),
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return textinput.Blink
}

// Focus returns the component receiving keystrokes
func (m RootModel) Focus() Focus {
	return m.focus
}

// refresh pushes the store's current state into the child views
func (m *RootModel) refresh() {
	snap := m.store.Snapshot()
	m.listView = m.listView.SetTasks(snap.Visible, len(snap.Tasks), snap.Filter)
	m.filterBar = m.filterBar.SetFilter(snap.Filter)
	m.summaryView = m.summaryView.SetSummary(snap.Summary)
}

func (m RootModel) isInputMode() bool {
	return m.focus == FocusForm || m.listView.IsInputMode()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		m.form = m.form.SetSize(m.width)
		m.summaryView = m.summaryView.SetSize(m.width)
		m.listView = m.listView.SetSize(m.width, max(m.height-chromeHeight, 3))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case views.AddRequest:
		if _, added, err := m.store.Add(msg.Text); err != nil {
			m.errorMsg = err.Error()
		} else if added {
			m.statusMsg = "Task added"
		}
		m.refresh()
		return m, nil

	case views.EditRequest:
		if _, err := m.store.Edit(msg.ID, msg.Text); err != nil {
			m.errorMsg = err.Error()
		}
		m.refresh()
		return m, nil

	case views.ToggleRequest:
		if _, err := m.store.Toggle(msg.ID); err != nil {
			m.errorMsg = err.Error()
		}
		m.refresh()
		return m, nil

	case views.DeleteRequest:
		if ok, err := m.store.Delete(msg.ID); err != nil {
			m.errorMsg = err.Error()
		} else if ok {
			m.statusMsg = "Task deleted"
		}
		m.refresh()
		return m, nil

	case views.ClearCompletedRequest:
		n, err := m.store.ClearCompleted()
		switch {
		case err != nil:
			m.errorMsg = err.Error()
		case n == 0:
			m.statusMsg = "No completed tasks"
		case n == 1:
			m.statusMsg = "Cleared 1 completed task"
		default:
			m.statusMsg = fmt.Sprintf("Cleared %d completed tasks", n)
		}
		m.refresh()
		return m, nil

	case views.FilterRequest:
		if err := m.store.SetFilter(msg.Filter); err != nil {
			m.errorMsg = err.Error()
		}
		m.refresh()
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil
	}

	// Cursor blink and other internal messages go to both inputs
	var cmds []tea.Cmd
	newForm, cmd := m.form.Update(msg)
	m.form = newForm.(views.FormView)
	cmds = append(cmds, cmd)

	newList, cmd := m.listView.Update(msg)
	m.listView = newList.(views.ListView)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m RootModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear status/error on any keypress
	m.statusMsg = ""
	m.errorMsg = ""

	inputMode := m.isInputMode()

	// Global keybindings
	switch {
	case key.Matches(msg, m.keys.Quit):
		// ctrl+c always quits, but 'q' only quits when not typing
		if msg.String() == "ctrl+c" || !inputMode {
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.ThemeCycle):
		return m, m.cycleTheme()
	}

	if m.focus == FocusForm {
		if key.Matches(msg, m.keys.SwitchFocus, m.keys.Back) {
			return m.focusList(), nil
		}
		newForm, cmd := m.form.Update(msg)
		m.form = newForm.(views.FormView)
		return m, cmd
	}

	if m.listView.IsInputMode() {
		newList, cmd := m.listView.Update(msg)
		m.listView = newList.(views.ListView)
		return m, cmd
	}

	if m.helpVisible {
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.helpVisible = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = true
		return m, nil

	case key.Matches(msg, m.keys.SwitchFocus, m.keys.Add):
		return m.focusForm()

	case m.filterBar.Handles(msg):
		newBar, cmd := m.filterBar.Update(msg)
		m.filterBar = newBar.(views.FilterBar)
		return m, cmd
	}

	newList, cmd := m.listView.Update(msg)
	m.listView = newList.(views.ListView)
	return m, cmd
}

func (m RootModel) focusForm() (RootModel, tea.Cmd) {
	var cmd tea.Cmd
	m.focus = FocusForm
	m.form, cmd = m.form.Focus()
	return m, cmd
}

func (m RootModel) focusList() RootModel {
	m.focus = FocusList
	m.form = m.form.Blur()
	return m
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader(), "")

	listHeight := max(m.height-chromeHeight, 3)
	if m.helpVisible {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, m.form.View(), m.renderFilterRow(), "")

		// Ensure the list fills its space so the summary stays put
		content := m.listView.View()
		contentLines := strings.Count(content, "\n") + 1
		if contentLines < listHeight {
			content += strings.Repeat("\n", listHeight-contentLines)
		}
		sections = append(sections, content, "", m.summaryView.View())
	}

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("tickoff")

	indicatorStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	focusIndicator := indicatorStyle.Render(fmt.Sprintf("[%s]", m.focus.String()))
	themeIndicator := indicatorStyle.Render(fmt.Sprintf("theme: %s", t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, focusIndicator)
	gap := max(m.width-lipgloss.Width(leftSide)-lipgloss.Width(themeIndicator), 0)

	return leftSide + strings.Repeat(" ", gap) + themeIndicator
}

// renderFilterRow renders the filter controls and the clear-completed control
func (m RootModel) renderFilterRow() string {
	row := m.filterBar.View()
	if control := m.listView.ClearControl(); control != "" {
		row += "   " + control
	}
	return row
}

// renderFooter renders the status line and context-aware key hints
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles

	hint := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var lines []string
	if m.errorMsg != "" {
		lines = append(lines, styles.Error.Render(m.errorMsg))
	} else if m.statusMsg != "" {
		lines = append(lines, styles.Status.Render(m.statusMsg))
	}

	switch {
	case m.helpVisible:
		lines = append(lines, hint("?/esc", "close help"))
	case m.focus == FocusForm:
		lines = append(lines, hint("enter", "add")+sep+
			hint("tab/esc", "tasks")+sep+
			hint("ctrl+c", "quit"))
	case m.listView.IsInputMode():
		lines = append(lines, hint("enter", "save")+sep+hint("esc", "cancel"))
	default:
		lines = append(lines, hint("j/k", "move")+sep+
			hint("space", "toggle")+sep+
			hint("e", "edit")+sep+
			hint("d", "del")+sep+
			hint("a", "add")+sep+
			hint("1-3", "filter")+sep+
			hint("?", "help")+sep+
			hint("q", "quit"))
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	var b strings.Builder
	b.WriteString(titleStyle.Render("tickoff Help"))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(descStyle.Render("Press ? or esc to close"))
	return b.String()
}

// cycleTheme switches to the next theme
func (m RootModel) cycleTheme() tea.Cmd {
	next := theme.Next()
	theme.SetTheme(next)
	return func() tea.Msg {
		return ThemeChangedMsg{ThemeName: next.Name}
	}
}
