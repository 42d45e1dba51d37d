package cli

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"github.com/dori/tickoff/internal/model"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the 1-based task number in the first argument.
// Numbers count positions in the unfiltered list, as printed by list.
func ParseTaskRef(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskRefRequired
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid task reference: %s", ref)
	}
	num, err := strconv.Atoi(ref)
	if err != nil || num < 1 {
		return 0, fmt.Errorf("invalid task reference: %s", ref)
	}
	return num, nil
}

// resolveTask returns the task at a 1-based position
func resolveTask(tasks []model.Task, num int) (model.Task, error) {
	if num > len(tasks) {
		return model.Task{}, fmt.Errorf("task %d not found (%d tasks)", num, len(tasks))
	}
	return tasks[num-1], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
