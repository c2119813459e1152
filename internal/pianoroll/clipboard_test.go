package pianoroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasteAtPlayheadOffset(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()
	store.SetAll([]Note{
		{Pitch: 60, Start: 2, Length: 1, Selected: true},
		{Pitch: 64, Start: 3, Length: 0.5, Selected: true},
	})

	clip := NewClipboard()
	clip.Copy(store)
	clip.PasteAt(store, 10)

	assert.Equal(4, store.Len())
	assert.Equal(10.0, store.At(2).Start)
	assert.Equal(11.0, store.At(3).Start)

	// Pasted notes become the selection; the originals are deselected.
	assert.False(store.At(0).Selected)
	assert.False(store.At(1).Selected)
	assert.True(store.At(2).Selected)
	assert.True(store.At(3).Selected)
}

func TestCopyKeepsLiveSelection(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()
	store.SetAll([]Note{{Pitch: 60, Start: 1, Length: 1, Selected: true}})

	clip := NewClipboard()
	clip.Copy(store)

	assert.Equal(1, clip.Len())
	assert.True(store.At(0).Selected)
}

func TestCopyIsValueSnapshot(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()
	store.SetAll([]Note{{Pitch: 60, Start: 2, Length: 1, Selected: true}})

	clip := NewClipboard()
	clip.Copy(store)

	// Mutating the store afterwards must not affect what gets pasted.
	store.At(0).Start = 7
	store.At(0).Pitch = 100
	clip.PasteAt(store, 2)

	assert.Equal(60, store.At(1).Pitch)
	assert.Equal(2.0, store.At(1).Start)
}

func TestPasteEmptyClipboardIsNoOp(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()
	store.SetAll([]Note{{Pitch: 60, Start: 1, Length: 1, Selected: true}})

	clip := NewClipboard()
	clip.PasteAt(store, 10)

	assert.Equal(1, store.Len())
	assert.True(store.At(0).Selected)
}

func TestDuplicatePlacesAfterSelection(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()
	store.SetAll([]Note{
		{Pitch: 60, Start: 2, Length: 1, Selected: true},
		{Pitch: 62, Start: 4, Length: 2, Selected: true},
		{Pitch: 64, Start: 20, Length: 1}, // not selected, ignored
	})

	clip := NewClipboard()
	clip.DuplicateSelected(store)

	// Rightmost selected edge is 6; earliest selected start is 2.
	assert.Equal(5, store.Len())
	assert.Equal(6.0, store.At(3).Start)
	assert.Equal(1.0, store.At(3).Length)
	assert.Equal(8.0, store.At(4).Start)
	assert.Equal(2.0, store.At(4).Length)
	assert.True(store.At(3).Selected)
	assert.True(store.At(4).Selected)
	assert.False(store.At(0).Selected)
}

func TestDuplicateNothingSelectedIsNoOp(t *testing.T) {
	assert := assert.New(t)
	store := NewNoteStore()
	store.SetAll([]Note{{Pitch: 60, Start: 1, Length: 1}})

	clip := NewClipboard()
	clip.DuplicateSelected(store)

	assert.Equal(1, store.Len())
}
