package views

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/tickoff/internal/model"
)

// Views never touch the store. They emit these requests and the root model
// applies them. Defined here to avoid a circular import with the ui package.

// AddRequest asks for a new task
type AddRequest struct {
	Text string
}

// EditRequest asks to replace a task's text
type EditRequest struct {
	ID   string
	Text string
}

// ToggleRequest asks to flip a task's completion flag
type ToggleRequest struct {
	ID string
}

// DeleteRequest asks to remove a task
type DeleteRequest struct {
	ID string
}

// ClearCompletedRequest asks to remove every completed task
type ClearCompletedRequest struct{}

// FilterRequest asks to change the active filter
type FilterRequest struct {
	Filter model.Filter
}

func request(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}
