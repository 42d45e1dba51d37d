package views

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/tickoff/internal/ui/theme"
)

// FormView is the new-task input
type FormView struct {
	input textinput.Model
	width int
}

// NewFormView creates an empty, unfocused form
func NewFormView() FormView {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	// no limit: stored text has none either
	ti.CharLimit = 0
	ti.Prompt = "+ "

	return FormView{input: ti}
}

// Init implements tea.Model
func (v FormView) Init() tea.Cmd {
	return nil
}

// SetSize updates the view width
func (v FormView) SetSize(width int) FormView {
	v.width = width
	// border and padding
	v.input.Width = max(width-6, 10)
	return v
}

// Focus starts capturing keystrokes
func (v FormView) Focus() (FormView, tea.Cmd) {
	cmd := v.input.Focus()
	return v, cmd
}

// Blur stops capturing keystrokes; the buffer is kept
func (v FormView) Blur() FormView {
	v.input.Blur()
	return v
}

// Focused reports whether the form is capturing keystrokes
func (v FormView) Focused() bool {
	return v.input.Focused()
}

// Value returns the current buffer
func (v FormView) Value() string {
	return v.input.Value()
}

// Update handles messages for the form. Enter submits the buffer and clears
// it whether or not the add is accepted.
func (v FormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		text := v.input.Value()
		v.input.SetValue("")
		return v, request(AddRequest{Text: text})
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the input box
func (v FormView) View() string {
	styles := theme.Current.Styles

	style := styles.Input
	if v.Focused() {
		style = styles.InputFocused
	}
	if v.width > 0 {
		style = style.Width(v.width - 2)
	}
	return style.Render(v.input.View())
}
