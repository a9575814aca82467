package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNote(id int) GeneralNote {
	return GeneralNote{ID: id}
}

func noteIDs(s *ToolStore[GeneralNote]) []int {
	ids := make([]int, 0, len(s.Readings))
	for _, n := range s.Readings {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestToolStore_AddAssignsMonotonicIDs(t *testing.T) {
	var s ToolStore[GeneralNote]
	s.Add(newNote)
	s.Add(newNote)
	require.NoError(t, s.Delete(2))
	added := s.Add(newNote)

	assert.Equal(t, 3, added.ID, "deleted ids must not be reused")
	assert.Equal(t, []int{1, 3}, noteIDs(&s))
}

func TestToolStore_DeleteLastReadingRejected(t *testing.T) {
	var s ToolStore[GeneralNote]
	s.Add(newNote)

	err := s.Delete(1)

	assert.ErrorIs(t, err, ErrLastReading)
	assert.Equal(t, []int{1}, noteIDs(&s))
	assert.Equal(t, 1, s.ReadingCounter)
}

func TestToolStore_DeleteUnknown(t *testing.T) {
	var s ToolStore[GeneralNote]
	s.Add(newNote)
	s.Add(newNote)

	assert.ErrorIs(t, s.Delete(42), ErrReadingNotFound)
	assert.Len(t, s.Readings, 2)
}

func TestToolStore_Move(t *testing.T) {
	tests := []struct {
		name string
		id   int
		dir  Direction
		want []int
	}{
		{"up from middle", 2, Up, []int{2, 1, 3}},
		{"down from middle", 2, Down, []int{1, 3, 2}},
		{"up at top is a no-op", 1, Up, []int{1, 2, 3}},
		{"down at bottom is a no-op", 3, Down, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s ToolStore[GeneralNote]
			for i := 0; i < 3; i++ {
				s.Add(newNote)
			}
			require.NoError(t, s.Move(tt.id, tt.dir))
			assert.Equal(t, tt.want, noteIDs(&s))
		})
	}
}

func TestToolStore_ResetKeepsCounter(t *testing.T) {
	var s ToolStore[GeneralNote]
	s.Add(newNote)
	s.Add(newNote)

	s.Reset(newNote)

	assert.Equal(t, []int{3}, noteIDs(&s))
}

func TestToolStore_FindMutatesInPlace(t *testing.T) {
	var s ToolStore[GeneralNote]
	s.Add(newNote)

	n, err := s.Find(1)
	require.NoError(t, err)
	n.Content = "changed"

	assert.Equal(t, "changed", s.Readings[0].Content)
}

func TestNotesStore_JSONKeys(t *testing.T) {
	var s NotesStore
	s.Add(func(id int) GeneralNote { return GeneralNote{ID: id, Content: "Rain delay"} })

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"notes":[{"id":1,"content":"Rain delay"}],"noteCounter":1}`, string(data))

	var back NotesStore
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestNotesStore_EmptyMarshalsAsList(t *testing.T) {
	data, err := json.Marshal(NotesStore{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"notes":[],"noteCounter":0}`, string(data))
}

func TestParseTool(t *testing.T) {
	tool, ok := ParseTool("grade-check")
	assert.True(t, ok)
	assert.Equal(t, ToolGradeCheck, tool)

	_, ok = ParseTool("calculator")
	assert.False(t, ok)
}

func TestReportTitle(t *testing.T) {
	assert.Equal(t, "Stage 4 Sewer", Report{ProjectName: "Stage 4", Stage: "Sewer"}.Title())
	assert.Equal(t, "Untitled", Report{}.Title())
}
