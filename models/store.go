package models

import (
	"encoding/json"
	"errors"
)

var (
	ErrLastReading     = errors.New("cannot delete the last reading")
	ErrReadingNotFound = errors.New("reading not found")
)

// Reading is implemented by every record kept in a ToolStore.
type Reading interface {
	ReadingID() int
}

// Direction moves a reading one slot towards the start (Up) or the end (Down)
// of its store.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// ToolStore is the ordered collection of readings for one tool. Order is
// significant: it is the order readings appear in the generated report.
// ReadingCounter only ever grows so ids are never handed out twice.
type ToolStore[R Reading] struct {
	Readings       []R `json:"readings"`
	ReadingCounter int `json:"readingCounter"`
}

// Add assigns the next id, builds the reading with it and appends it.
func (s *ToolStore[R]) Add(build func(id int) R) R {
	s.ReadingCounter++
	r := build(s.ReadingCounter)
	s.Readings = append(s.Readings, r)
	return r
}

func (s *ToolStore[R]) Len() int {
	return len(s.Readings)
}

func (s *ToolStore[R]) Index(id int) int {
	for i, r := range s.Readings {
		if r.ReadingID() == id {
			return i
		}
	}
	return -1
}

// Find returns a pointer to the stored reading so callers can mutate it in place.
func (s *ToolStore[R]) Find(id int) (*R, error) {
	i := s.Index(id)
	if i < 0 {
		return nil, ErrReadingNotFound
	}
	return &s.Readings[i], nil
}

// Delete removes the reading with the given id. The last remaining reading
// can never be deleted.
func (s *ToolStore[R]) Delete(id int) error {
	i := s.Index(id)
	if i < 0 {
		return ErrReadingNotFound
	}
	if len(s.Readings) == 1 {
		return ErrLastReading
	}
	s.Readings = append(s.Readings[:i], s.Readings[i+1:]...)
	return nil
}

// Move swaps the reading with its neighbour in the given direction. Moving
// past either end is a no-op.
func (s *ToolStore[R]) Move(id int, dir Direction) error {
	i := s.Index(id)
	if i < 0 {
		return ErrReadingNotFound
	}
	j := i + int(dir)
	if j < 0 || j >= len(s.Readings) {
		return nil
	}
	s.Readings[i], s.Readings[j] = s.Readings[j], s.Readings[i]
	return nil
}

// Reset drops every reading and adds a single fresh one. The counter keeps
// counting from where it was.
func (s *ToolStore[R]) Reset(build func(id int) R) {
	s.Readings = nil
	s.Add(build)
}

// EnsureOne adds a fresh reading when the store is empty.
func (s *ToolStore[R]) EnsureOne(build func(id int) R) {
	if len(s.Readings) == 0 {
		s.Add(build)
	}
}

// NotesStore is the general notes store. It is a ToolStore that serializes
// with the `notes` / `noteCounter` keys used by stored documents.
type NotesStore struct {
	ToolStore[GeneralNote]
}

type notesDocument struct {
	Notes       []GeneralNote `json:"notes"`
	NoteCounter int           `json:"noteCounter"`
}

func (s NotesStore) MarshalJSON() ([]byte, error) {
	notes := s.Readings
	if notes == nil {
		notes = []GeneralNote{}
	}
	return json.Marshal(notesDocument{Notes: notes, NoteCounter: s.ReadingCounter})
}

func (s *NotesStore) UnmarshalJSON(data []byte) error {
	var doc notesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	s.Readings = doc.Notes
	s.ReadingCounter = doc.NoteCounter
	return nil
}
