package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tickoff/internal/model"
	"github.com/dori/tickoff/internal/ui/theme"
)

const maxBarWidth = 40

// SummaryView shows "N of M tasks completed" and, once the list has tasks, a
// progress bar.
type SummaryView struct {
	summary model.Summary
	width   int
}

// NewSummaryView creates an empty summary
func NewSummaryView() SummaryView {
	return SummaryView{}
}

// SetSummary updates the counts
func (v SummaryView) SetSummary(s model.Summary) SummaryView {
	v.summary = s
	return v
}

// SetSize updates the view width
func (v SummaryView) SetSize(width int) SummaryView {
	v.width = width
	return v
}

// Text returns the summary line without styling
func (v SummaryView) Text() string {
	return fmt.Sprintf("%d of %d tasks completed", v.summary.Completed, v.summary.Total)
}

func (v SummaryView) barWidth() int {
	// room for the percentage after the bar
	return min(max(v.width-8, 10), maxBarWidth)
}

// View renders the summary
func (v SummaryView) View() string {
	styles := theme.Current.Styles

	line := styles.SummaryText.Render(v.Text())
	if v.summary.Total == 0 {
		return line
	}

	width := v.barWidth()
	filled := int(v.summary.Proportion()*float64(width) + 0.5)
	bar := styles.ProgressFilled.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmpty.Render(strings.Repeat("░", width-filled))

	return lipgloss.JoinVertical(lipgloss.Left,
		line,
		bar+styles.SummaryText.Render(fmt.Sprintf(" %3d%%", v.summary.Percent())),
	)
}
