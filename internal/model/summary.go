package model

import "math"

// Summary is the completion count over the full list
type Summary struct {
	Completed int
	Total     int
}

// Summarize counts completed tasks
func Summarize(tasks []Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	return s
}

// Proportion returns Completed/Total, or 0 for an empty list
func (s Summary) Proportion() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

// Percent returns the proportion as a rounded whole percentage
func (s Summary) Percent() int {
	return int(math.Round(s.Proportion() * 100))
}

// AllDone reports whether there is at least one task and none are open
func (s Summary) AllDone() bool {
	return s.Total > 0 && s.Completed == s.Total
}
