package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/tickoff/internal/model"
	"github.com/dori/tickoff/internal/ui/theme"
)

// FilterBar shows the three filter controls and turns key presses into
// FilterRequests. It only mirrors the root's filter.
type FilterBar struct {
	active model.Filter
}

// NewFilterBar creates a bar showing the all filter
func NewFilterBar() FilterBar {
	return FilterBar{active: model.FilterAll}
}

// Init implements tea.Model
func (v FilterBar) Init() tea.Cmd {
	return nil
}

// SetFilter updates the highlighted control
func (v FilterBar) SetFilter(f model.Filter) FilterBar {
	v.active = f
	return v
}

// Active returns the highlighted filter
func (v FilterBar) Active() model.Filter {
	return v.active
}

// Handles reports whether the key is a filter key
func (v FilterBar) Handles(msg tea.KeyMsg) bool {
	_, ok := v.target(msg.String())
	return ok
}

func (v FilterBar) target(key string) (model.Filter, bool) {
	switch key {
	case "1":
		return model.FilterAll, true
	case "2":
		return model.FilterActive, true
	case "3":
		return model.FilterCompleted, true
	case "f", "right", "l":
		return v.active.Next(), true
	case "F", "left", "h":
		return v.prev(), true
	}
	return "", false
}

func (v FilterBar) prev() model.Filter {
	// three steps forward is a full cycle, so two steps is one back
	return v.active.Next().Next()
}

// Update handles messages for the filter bar
func (v FilterBar) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	f, ok := v.target(key.String())
	if !ok || f == v.active {
		return v, nil
	}
	return v, request(FilterRequest{Filter: f})
}

// View renders the filter controls
func (v FilterBar) View() string {
	styles := theme.Current.Styles

	var parts []string
	for _, f := range model.Filters() {
		if f == v.active {
			parts = append(parts, styles.FilterActive.Render(f.Label()))
		} else {
			parts = append(parts, styles.FilterInactive.Render(f.Label()))
		}
	}
	return strings.Join(parts, " ")
}
