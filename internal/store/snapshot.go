package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dori/tickoff/internal/model"
)

// Encode serializes the task list as a JSON array. A nil list encodes as [].
func Encode(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return string(data), nil
}

// Decode parses a stored snapshot. The value must be a JSON array; null is
// rejected like any other non-array value.
func Decode(raw string) ([]model.Task, error) {
	var tasks *[]model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if tasks == nil {
		return nil, errors.New("failed to decode snapshot: value is null")
	}
	return *tasks, nil
}
