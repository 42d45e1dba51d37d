package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Task represents a todo item
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"isCompleted"`
}

// NewTask creates an open task with a fresh time-ordered identifier.
// The text is trimmed; callers are expected to have rejected blank text.
func NewTask(text string) (Task, error) {
	id, err := NewID()
	if err != nil {
		return Task{}, err
	}
	return Task{
		ID:   id,
		Text: strings.TrimSpace(text),
	}, nil
}

// NewID returns a UUIDv7 string. Version 7 embeds a millisecond timestamp,
// so identifiers sort in creation order.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate task id: %w", err)
	}
	return id.String(), nil
}

// UnmarshalJSON accepts both string ids and the numeric (epoch millisecond)
// ids written by older snapshots.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        json.RawMessage `json:"id"`
		Text      string          `json:"text"`
		Completed bool            `json:"isCompleted"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}

	t.ID = id
	t.Text = raw.Text
	t.Completed = raw.Completed
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("task id missing")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", fmt.Errorf("task id empty")
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid task id %s", string(raw))
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}
