package jsonldb

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/maruel/ksid"
)

// ErrNotFound is returned when a row with the requested ID does not exist.
var ErrNotFound = errors.New("row not found")

// ErrDuplicateID is returned when appending a row whose ID already exists.
var ErrDuplicateID = errors.New("duplicate row ID")

// Cloner is implemented by types that can clone themselves.
type Cloner[T any] interface {
	Clone() T
}

// Row is the constraint for types stored in a Table.
type Row[T any] interface {
	Cloner[T]
	GetID() ksid.ID
	Validate() error
}

// TableObserver receives notifications about table mutations.
// Used by secondary indexes to stay synchronized.
type TableObserver[T Row[T]] interface {
	OnAppend(row T)
	OnUpdate(prev, curr T)
	OnDelete(row T)
}

// Table handles storage and in-memory caching for a single table in JSONL format.
type Table[T Row[T]] struct {
	path string

	mu        sync.RWMutex
	rows      []T
	byID      map[ksid.ID]int
	observers []TableObserver[T]
}

// NewTable creates a new Table and loads all data from the file.
func NewTable[T Row[T]](path string) (*Table[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	t := &Table[T]{path: path}
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table[T]) load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			t.rows = []T{}
			t.byID = map[ksid.ID]int{}
			return nil
		}
		return fmt.Errorf("failed to open table file %s: %w", t.path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var rows []T
	byID := map[ksid.ID]int{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var row T
		if err := json.Unmarshal(line, &row); err != nil {
			return fmt.Errorf("failed to unmarshal row in %s: %w", t.path, err)
		}
		if prev, ok := byID[row.GetID()]; ok {
			// Last write wins for duplicated IDs (handles partial rewrites).
			rows[prev] = row
			continue
		}
		byID[row.GetID()] = len(rows)
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read table file %s: %w", t.path, err)
	}

	t.rows = rows
	t.byID = byID
	return nil
}

// AddObserver registers an observer for table mutations.
// Existing rows are replayed through OnAppend so indexes start complete.
func (t *Table[T]) AddObserver(o TableObserver[T]) {
	t.mu.Lock()
	t.observers = append(t.observers, o)
	rows := make([]T, len(t.rows))
	copy(rows, t.rows)
	t.mu.Unlock()
	for _, row := range rows {
		o.OnAppend(row)
	}
}

// Len returns the number of rows.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Get returns a clone of the row with the given ID, or the zero value if absent.
func (t *Table[T]) Get(id ksid.ID) T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i, ok := t.byID[id]; ok {
		return t.rows[i].Clone()
	}
	var zero T
	return zero
}

// All returns an iterator over clones of all rows.
func (t *Table[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		t.mu.RLock()
		rows := make([]T, len(t.rows))
		for i, row := range t.rows {
			rows[i] = row.Clone()
		}
		t.mu.RUnlock()
		for _, row := range rows {
			if !yield(row) {
				return
			}
		}
	}
}

// Append adds a new row to the table and persists it.
func (t *Table[T]) Append(row T) error {
	if err := row.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	if _, ok := t.byID[row.GetID()]; ok {
		t.mu.Unlock()
		return ErrDuplicateID
	}
	if err := t.appendToFile(row); err != nil {
		t.mu.Unlock()
		return err
	}
	t.byID[row.GetID()] = len(t.rows)
	t.rows = append(t.rows, row.Clone())
	observers := t.observers
	t.mu.Unlock()
	for _, o := range observers {
		o.OnAppend(row)
	}
	return nil
}

// Modify applies fn to a clone of the row with the given ID under the write
// lock, then persists the result. fn must return the updated row or an error.
// The mutation is atomic with respect to other Table operations.
func (t *Table[T]) Modify(id ksid.ID, fn func(row T) (T, error)) (T, error) {
	var zero T
	t.mu.Lock()
	i, ok := t.byID[id]
	if !ok {
		t.mu.Unlock()
		return zero, ErrNotFound
	}
	prev := t.rows[i]
	curr, err := fn(prev.Clone())
	if err != nil {
		t.mu.Unlock()
		return zero, err
	}
	if curr.GetID() != id {
		t.mu.Unlock()
		return zero, errors.New("modify must not change the row ID")
	}
	if err := curr.Validate(); err != nil {
		t.mu.Unlock()
		return zero, err
	}
	t.rows[i] = curr.Clone()
	if err := t.flushLocked(); err != nil {
		t.rows[i] = prev
		t.mu.Unlock()
		return zero, err
	}
	observers := t.observers
	t.mu.Unlock()
	for _, o := range observers {
		o.OnUpdate(prev, curr)
	}
	return curr.Clone(), nil
}

// Delete removes the row with the given ID and persists the table.
func (t *Table[T]) Delete(id ksid.ID) error {
	t.mu.Lock()
	i, ok := t.byID[id]
	if !ok {
		t.mu.Unlock()
		return ErrNotFound
	}
	row := t.rows[i]
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	delete(t.byID, id)
	for j := i; j < len(t.rows); j++ {
		t.byID[t.rows[j].GetID()] = j
	}
	if err := t.flushLocked(); err != nil {
		t.mu.Unlock()
		return err
	}
	observers := t.observers
	t.mu.Unlock()
	for _, o := range observers {
		o.OnDelete(row)
	}
	return nil
}

// appendToFile writes a single row to the end of the file. Caller holds the lock.
func (t *Table[T]) appendToFile(row T) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open table file for append: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

// flushLocked rewrites the whole file from the in-memory rows. Caller holds the lock.
func (t *Table[T]) flushLocked() error {
	tmp := t.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}
	writer := bufio.NewWriter(f)
	for _, row := range t.rows {
		data, err := json.Marshal(row)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to marshal row: %w", err)
		}
		if _, err := writer.Write(data); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write newline: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close table file: %w", err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		return fmt.Errorf("failed to replace table file: %w", err)
	}
	return nil
}
