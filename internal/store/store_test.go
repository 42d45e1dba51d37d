package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/dori/tickoff/internal/db"
	"github.com/dori/tickoff/internal/model"
)

// failingBackend reads like an empty store and rejects every write
type failingBackend struct{}

func (failingBackend) GetItem(string) (string, bool, error) { return "", false, nil }
func (failingBackend) SetItem(string, string) error         { return errors.New("disk full") }

func seqIDs() func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("id-%d", n), nil
	}
}

func newTestStore(t *testing.T) (*Store, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	return New(backend, WithIDGenerator(seqIDs())), backend
}

func mustAdd(t *testing.T, s *Store, text string) model.Task {
	t.Helper()
	task, ok, err := s.Add(text)
	if err != nil || !ok {
		t.Fatalf("Add(%q): ok=%v err=%v", text, ok, err)
	}
	return task
}

func TestAddAppendsOpenTask(t *testing.T) {
	s, _ := newTestStore(t)

	task := mustAdd(t, s, "Buy milk")

	tasks := s.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Completed {
		t.Error("new task should not be completed")
	}
	if tasks[0].Text != "Buy milk" || tasks[0].ID != task.ID {
		t.Errorf("unexpected task %+v", tasks[0])
	}
}

func TestAddWhitespaceIsNoop(t *testing.T) {
	s, backend := newTestStore(t)
	mustAdd(t, s, "first")
	writes := backend.Writes()

	_, ok, err := s.Add("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("whitespace add should be rejected")
	}
	if len(s.Tasks()) != 1 {
		t.Errorf("expected list unchanged, got %d tasks", len(s.Tasks()))
	}
	if backend.Writes() != writes {
		t.Error("rejected add must not persist")
	}
}

func TestAddTrimsText(t *testing.T) {
	s, _ := newTestStore(t)
	task := mustAdd(t, s, "  padded  ")
	if task.Text != "padded" {
		t.Errorf("expected trimmed text, got %q", task.Text)
	}
}

func TestAddRetriesCollidingID(t *testing.T) {
	ids := []string{"dup", "dup", "fresh"}
	backend := NewMemoryBackend()
	s := New(backend, WithIDGenerator(func() (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}))

	first := mustAdd(t, s, "one")
	second := mustAdd(t, s, "two")
	if first.ID != "dup" || second.ID != "fresh" {
		t.Errorf("expected dup then fresh, got %s then %s", first.ID, second.ID)
	}
}

func TestAddGivesUpOnPersistentCollision(t *testing.T) {
	s := New(NewMemoryBackend(), WithIDGenerator(func() (string, error) { return "same", nil }))
	mustAdd(t, s, "one")

	_, ok, err := s.Add("two")
	if err == nil || ok {
		t.Fatalf("expected failure, got ok=%v err=%v", ok, err)
	}
	if len(s.Tasks()) != 1 {
		t.Error("list must be unchanged when no id is available")
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustAdd(t, s, "a")
	b := mustAdd(t, s, "b")

	ok, err := s.Delete(a.ID)
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != b.ID {
		t.Errorf("expected only b left, got %+v", tasks)
	}

	ok, err = s.Delete("missing")
	if err != nil || ok {
		t.Errorf("deleting a missing id should be a no-op, got ok=%v err=%v", ok, err)
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	s, _ := newTestStore(t)
	task := mustAdd(t, s, "a")

	if ok, _ := s.Toggle(task.ID); !ok {
		t.Fatal("toggle rejected")
	}
	got, _ := s.Get(task.ID)
	if !got.Completed {
		t.Error("expected completed after one toggle")
	}

	s.Toggle(task.ID)
	got, _ = s.Get(task.ID)
	if got.Completed {
		t.Error("expected open after two toggles")
	}

	if ok, _ := s.Toggle("missing"); ok {
		t.Error("toggle of missing id should be a no-op")
	}
}

func TestEdit(t *testing.T) {
	s, backend := newTestStore(t)
	task := mustAdd(t, s, "Original")
	s.Toggle(task.ID)
	writes := backend.Writes()

	if ok, _ := s.Edit(task.ID, ""); ok {
		t.Error("empty edit should be rejected")
	}
	if ok, _ := s.Edit(task.ID, "   "); ok {
		t.Error("whitespace edit should be rejected")
	}
	got, _ := s.Get(task.ID)
	if got.Text != "Original" {
		t.Errorf("rejected edit changed text to %q", got.Text)
	}
	if backend.Writes() != writes {
		t.Error("rejected edit must not persist")
	}

	if ok, err := s.Edit(task.ID, "New text"); !ok || err != nil {
		t.Fatalf("Edit: ok=%v err=%v", ok, err)
	}
	got, _ = s.Get(task.ID)
	if got.Text != "New text" {
		t.Errorf("expected New text, got %q", got.Text)
	}
	if !got.Completed {
		t.Error("edit must leave completion unchanged")
	}

	if ok, _ := s.Edit("missing", "x"); ok {
		t.Error("edit of missing id should be a no-op")
	}
}

func TestClearCompleted(t *testing.T) {
	t.Run("all completed", func(t *testing.T) {
		s, _ := newTestStore(t)
		for _, text := range []string{"a", "b", "c"} {
			task := mustAdd(t, s, text)
			s.Toggle(task.ID)
		}
		removed, err := s.ClearCompleted()
		if err != nil {
			t.Fatal(err)
		}
		if removed != 3 || len(s.Tasks()) != 0 {
			t.Errorf("expected empty list, removed=%d left=%d", removed, len(s.Tasks()))
		}
	})

	t.Run("none completed", func(t *testing.T) {
		s, backend := newTestStore(t)
		mustAdd(t, s, "a")
		mustAdd(t, s, "b")
		before := s.Tasks()
		writes := backend.Writes()

		removed, err := s.ClearCompleted()
		if err != nil {
			t.Fatal(err)
		}
		if removed != 0 {
			t.Errorf("expected nothing removed, got %d", removed)
		}
		after := s.Tasks()
		if len(after) != len(before) || after[0] != before[0] || after[1] != before[1] {
			t.Errorf("list changed: %+v -> %+v", before, after)
		}
		if backend.Writes() != writes {
			t.Error("clearing nothing must not persist")
		}
	})

	t.Run("mixed keeps order", func(t *testing.T) {
		s, _ := newTestStore(t)
		a := mustAdd(t, s, "a")
		b := mustAdd(t, s, "b")
		c := mustAdd(t, s, "c")
		s.Toggle(b.ID)

		s.ClearCompleted()
		tasks := s.Tasks()
		if len(tasks) != 2 || tasks[0].ID != a.ID || tasks[1].ID != c.ID {
			t.Errorf("unexpected list %+v", tasks)
		}
	})
}

func TestSetFilter(t *testing.T) {
	s, backend := newTestStore(t)
	a := mustAdd(t, s, "open")
	b := mustAdd(t, s, "done")
	s.Toggle(b.ID)
	writes := backend.Writes()

	if err := s.SetFilter(model.FilterActive); err != nil {
		t.Fatal(err)
	}
	visible := s.Visible()
	if len(visible) != 1 || visible[0].ID != a.ID {
		t.Errorf("expected only open task visible, got %+v", visible)
	}
	if len(s.Tasks()) != 2 {
		t.Error("filtering must not change the list")
	}
	if backend.Writes() != writes {
		t.Error("filter changes must not persist")
	}

	err := s.SetFilter(model.Filter("later"))
	if !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
	if s.Filter() != model.FilterActive {
		t.Error("invalid filter must not replace the active one")
	}
}

func TestEveryMutationPersistsFullList(t *testing.T) {
	s, backend := newTestStore(t)
	a := mustAdd(t, s, "a")
	mustAdd(t, s, "b")
	s.Toggle(a.ID)

	raw, ok, _ := backend.GetItem(DefaultKey)
	if !ok {
		t.Fatal("nothing persisted")
	}
	persisted, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	current := s.Tasks()
	if len(persisted) != len(current) {
		t.Fatalf("persisted %d tasks, have %d", len(persisted), len(current))
	}
	for i := range current {
		if persisted[i] != current[i] {
			t.Errorf("position %d: persisted %+v, have %+v", i, persisted[i], current[i])
		}
	}
	if backend.Writes() != 3 {
		t.Errorf("expected one write per mutation (3), got %d", backend.Writes())
	}
}

func TestLoadRestoresSnapshot(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SetItem(DefaultKey, `[{"id":"x","text":"saved","isCompleted":true}]`)

	s := New(backend)
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0] != (model.Task{ID: "x", Text: "saved", Completed: true}) {
		t.Errorf("unexpected loaded list %+v", tasks)
	}
	if s.Filter() != model.FilterAll {
		t.Error("filter should start at all")
	}
}

func TestLoadCorruptStartsEmpty(t *testing.T) {
	for name, raw := range map[string]string{
		"garbage":  "{not json",
		"object":   `{"id":"x"}`,
		"null":     "null",
		"bad item": `[{"text":"no id"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			backend := NewMemoryBackend()
			backend.SetItem(DefaultKey, raw)

			s := New(backend)
			if len(s.Tasks()) != 0 {
				t.Errorf("expected empty list, got %+v", s.Tasks())
			}
		})
	}
}

func TestLoadCorruptKeepsBackup(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SetItem(DefaultKey, "{broken")

	s := New(backend, WithIDGenerator(seqIDs()))
	mustAdd(t, s, "fresh start")

	backup, ok, _ := backend.GetItem(DefaultKey + ".corrupt")
	if !ok || backup != "{broken" {
		t.Errorf("expected corrupt value backed up, got %q (ok=%v)", backup, ok)
	}
}

func TestLoadDropsDuplicateIDs(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SetItem(DefaultKey, `[{"id":"1","text":"a"},{"id":"1","text":"b"},{"id":"2","text":"c"}]`)

	tasks := New(backend).Tasks()
	if len(tasks) != 2 || tasks[0].Text != "a" || tasks[1].Text != "c" {
		t.Errorf("unexpected deduped list %+v", tasks)
	}
}

func TestLoadDropsBlankText(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SetItem(DefaultKey, `[{"id":"a","text":"   "},{"id":"b"},{"id":"c","text":"  keep  "}]`)

	tasks := New(backend).Tasks()
	if len(tasks) != 1 || tasks[0] != (model.Task{ID: "c", Text: "keep"}) {
		t.Errorf("expected only the trimmed task c, got %+v", tasks)
	}
}

func TestLoadNullKeepsBackup(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SetItem(DefaultKey, "null")

	s := New(backend)
	if len(s.Tasks()) != 0 {
		t.Errorf("expected empty list, got %+v", s.Tasks())
	}
	backup, ok, _ := backend.GetItem(DefaultKey + ".corrupt")
	if !ok || backup != "null" {
		t.Errorf("expected null snapshot backed up, got %q (ok=%v)", backup, ok)
	}
}

func TestDecodeRejectsNull(t *testing.T) {
	if _, err := Decode("null"); err == nil {
		t.Error("expected error for a null snapshot")
	}
	tasks, err := Decode("[]")
	if err != nil || tasks == nil || len(tasks) != 0 {
		t.Errorf("expected empty non-nil list, got %v (err=%v)", tasks, err)
	}
}

func TestRoundTrip(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Text: "first", Completed: false},
		{ID: "2", Text: "second \"quoted\"", Completed: true},
		{ID: "3", Text: "ünïcode ✓", Completed: false},
	}
	raw, err := Encode(tasks)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(tasks) {
		t.Fatalf("expected %d tasks, got %d", len(tasks), len(got))
	}
	for i := range tasks {
		if got[i] != tasks[i] {
			t.Errorf("position %d: %+v != %+v", i, got[i], tasks[i])
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	raw, err := Encode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if raw != "[]" {
		t.Errorf("expected [], got %s", raw)
	}
}

func TestSubscribe(t *testing.T) {
	s, _ := newTestStore(t)

	var snaps []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		snaps = append(snaps, snap)
	})

	task := mustAdd(t, s, "a")
	s.Add("  ") // rejected: no notification
	s.Toggle(task.ID)
	s.SetFilter(model.FilterCompleted)

	if len(snaps) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(snaps))
	}
	last := snaps[2]
	if last.Filter != model.FilterCompleted || len(last.Visible) != 1 {
		t.Errorf("unexpected last snapshot %+v", last)
	}
	if last.Summary.Completed != 1 || last.Summary.Total != 1 {
		t.Errorf("unexpected summary %+v", last.Summary)
	}

	unsubscribe()
	s.Delete(task.ID)
	if len(snaps) != 3 {
		t.Error("unsubscribed observer was still notified")
	}
}

func TestWriteFailureKeepsStateAndReportsError(t *testing.T) {
	var notified int
	s := New(failingBackend{}, WithIDGenerator(seqIDs()))
	s.Subscribe(func(Snapshot) { notified++ })

	_, ok, err := s.Add("a")
	if err == nil {
		t.Fatal("expected write error")
	}
	if !ok {
		t.Error("mutation should still be accepted")
	}
	if len(s.Tasks()) != 1 {
		t.Error("in-memory state should keep the mutation")
	}
	if notified != 1 {
		t.Errorf("expected observers notified once, got %d", notified)
	}
}

func TestPersistsAcrossSQLiteReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tickoff.db")

	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := New(database)
	a := mustAdd(t, s, "Buy milk")
	mustAdd(t, s, "Walk dog")
	s.Toggle(a.ID)
	s.SetFilter(model.FilterCompleted)
	before := s.Tasks()
	database.Close()

	database, err = db.Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer database.Close()

	s = New(database)
	after := s.Tasks()
	if len(after) != len(before) {
		t.Fatalf("expected %d tasks after reopen, got %d", len(before), len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("position %d: %+v != %+v", i, after[i], before[i])
		}
	}
	if s.Filter() != model.FilterAll {
		t.Error("filter must reset to all on reload")
	}
}

func TestCustomKey(t *testing.T) {
	backend := NewMemoryBackend()
	s := New(backend, WithKey("work"), WithIDGenerator(seqIDs()))
	mustAdd(t, s, "a")

	if _, ok, _ := backend.GetItem(DefaultKey); ok {
		t.Error("default key should be untouched")
	}
	if _, ok, _ := backend.GetItem("work"); !ok {
		t.Error("custom key not written")
	}
}
