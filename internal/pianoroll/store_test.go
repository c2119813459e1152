package pianoroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeNotes(starts ...float64) []Note {
	notes := make([]Note, len(starts))
	for i, start := range starts {
		notes[i] = Note{Pitch: 60 + i, Start: start, Length: 1, Velocity: 0.8}
	}
	return notes
}

func TestAddAndRemove(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()

	var added []Note
	var removed []int
	store.OnNoteAdded = func(n Note) { added = append(added, n) }
	store.OnNoteRemoved = func(i int) { removed = append(removed, i) }

	idx := store.Add(Note{Pitch: 60, Start: 1, Length: 1})
	assert.Equal(0, idx)
	assert.Equal(1, store.Len())
	assert.Len(added, 1)

	store.RemoveAt(0)
	assert.Equal(0, store.Len())
	assert.Equal([]int{0}, removed)
}

func TestRemoveAtOutOfRangeIsNoOp(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()
	store.SetAll(makeNotes(0, 1))

	store.RemoveAt(-1)
	store.RemoveAt(2)
	assert.Equal(2, store.Len())
}

func TestSelectReplacesUnlessAdditive(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()
	store.SetAll(makeNotes(0, 1, 2))

	store.Select(0, false)
	store.Select(1, true)
	assert.Len(store.SelectedNotes(), 2)

	store.Select(2, false)
	selected := store.SelectedNotes()
	assert.Len(selected, 1)
	assert.Equal(2.0, selected[0].Start)
}

func TestSelectOutOfRangeIsNoOp(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()
	store.SetAll(makeNotes(0, 1))
	store.Select(0, false)

	store.Select(5, false)
	assert.Len(store.SelectedNotes(), 1)
}

func TestSelectionChangedFires(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()
	store.SetAll(makeNotes(0, 1))

	var fired int
	store.OnSelectionChanged = func([]*Note) { fired++ }

	store.Select(0, false)
	assert.Equal(1, fired)

	store.SelectAll()
	assert.Equal(2, fired)

	store.DeselectAll()
	assert.Equal(3, fired)

	// Nothing selected, nothing changes.
	store.DeselectAll()
	assert.Equal(3, fired)
}

func TestDeleteSelectedLeavesOthersIntact(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()
	store.SetAll(makeNotes(0, 1, 2, 3, 4))

	// Select 3 of 5, non-contiguous.
	store.At(0).Selected = true
	store.At(2).Selected = true
	store.At(4).Selected = true
	store.DeleteSelected()

	assert.Equal(2, store.Len())
	assert.Equal(Note{Pitch: 61, Start: 1, Length: 1, Velocity: 0.8}, *store.At(0))
	assert.Equal(Note{Pitch: 63, Start: 3, Length: 1, Velocity: 0.8}, *store.At(1))
}

func TestSetAllCopiesInput(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()

	input := makeNotes(0, 1)
	store.SetAll(input)
	input[0].Start = 99

	assert.Equal(0.0, store.At(0).Start)
}

func TestHandleInvalidatedByStructuralMutation(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()
	store.SetAll(makeNotes(0, 1))

	h := store.HandleAt(1)
	assert.NotNil(store.Resolve(h))

	store.Add(Note{Pitch: 70, Start: 5, Length: 1})
	assert.Nil(store.Resolve(h))

	h = store.HandleAt(1)
	store.SetAll(makeNotes(0))
	assert.Nil(store.Resolve(h))
}
