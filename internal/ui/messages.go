package ui

// Focus is the component receiving keystrokes
type Focus int

const (
	FocusForm Focus = iota
	FocusList
)

// String returns the display name for a focus target
func (f Focus) String() string {
	switch f {
	case FocusForm:
		return "New"
	case FocusList:
		return "Tasks"
	default:
		return "Unknown"
	}
}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}
