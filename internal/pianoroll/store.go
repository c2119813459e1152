package pianoroll

// NoteStore owns the note collection and the per-note selection flags. It is
// mutated only on the interaction thread; the callbacks fire synchronously.
//
// Pointers handed out by At and SelectedNotes stay valid only until the next
// structural mutation (Add, RemoveAt, SetAll, Clear). Anything that must
// survive a mutation holds a Handle instead and re-resolves it.
type NoteStore struct {
	notes      []Note
	generation uint64

	OnNoteAdded        func(Note)
	OnNoteRemoved      func(index int)
	OnSelectionChanged func(selected []*Note)
}

// NewNoteStore creates an empty store.
func NewNoteStore() *NoteStore {
	return &NoteStore{}
}

// Len returns the number of notes.
func (s *NoteStore) Len() int {
	return len(s.notes)
}

// At returns a pointer to the note at index, or nil if out of range.
func (s *NoteStore) At(index int) *Note {
	if index < 0 || index >= len(s.notes) {
		return nil
	}
	return &s.notes[index]
}

// Add appends a note and returns its index.
func (s *NoteStore) Add(n Note) int {
	s.notes = append(s.notes, n)
	s.generation++
	if s.OnNoteAdded != nil {
		s.OnNoteAdded(n)
	}
	return len(s.notes) - 1
}

// RemoveAt deletes the note at index. Out-of-range indices are a no-op.
func (s *NoteStore) RemoveAt(index int) {
	if index < 0 || index >= len(s.notes) {
		return
	}
	s.notes = append(s.notes[:index], s.notes[index+1:]...)
	s.generation++
	if s.OnNoteRemoved != nil {
		s.OnNoteRemoved(index)
	}
}

// All returns a copy of the note collection.
func (s *NoteStore) All() []Note {
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// SetAll replaces the whole collection.
func (s *NoteStore) SetAll(notes []Note) {
	s.notes = make([]Note, len(notes))
	copy(s.notes, notes)
	s.generation++
}

// Clear removes every note.
func (s *NoteStore) Clear() {
	s.notes = nil
	s.generation++
}

// SelectedNotes returns pointers to the selected notes, valid until the next
// structural mutation.
func (s *NoteStore) SelectedNotes() []*Note {
	var selected []*Note
	for i := range s.notes {
		if s.notes[i].Selected {
			selected = append(selected, &s.notes[i])
		}
	}
	return selected
}

// Select marks the note at index selected. Without additive, every other
// note is deselected first. Out-of-range indices are a no-op.
func (s *NoteStore) Select(index int, additive bool) {
	n := s.At(index)
	if n == nil {
		return
	}
	changed := false
	if !additive {
		changed = s.clearSelection()
	}
	if !n.Selected {
		n.Selected = true
		changed = true
	}
	if changed {
		s.fireSelectionChanged()
	}
}

// SelectOnly makes the note at index the sole selection.
func (s *NoteStore) SelectOnly(index int) {
	s.Select(index, false)
}

// DeselectAll clears every selection flag.
func (s *NoteStore) DeselectAll() {
	if s.clearSelection() {
		s.fireSelectionChanged()
	}
}

// SelectAll selects every note.
func (s *NoteStore) SelectAll() {
	changed := false
	for i := range s.notes {
		if !s.notes[i].Selected {
			s.notes[i].Selected = true
			changed = true
		}
	}
	if changed {
		s.fireSelectionChanged()
	}
}

// DeleteSelected removes every selected note, iterating from the end so
// removal does not shift the indices still to be visited.
func (s *NoteStore) DeleteSelected() {
	for i := len(s.notes) - 1; i >= 0; i-- {
		if s.notes[i].Selected {
			s.RemoveAt(i)
		}
	}
}

func (s *NoteStore) clearSelection() bool {
	changed := false
	for i := range s.notes {
		if s.notes[i].Selected {
			s.notes[i].Selected = false
			changed = true
		}
	}
	return changed
}

func (s *NoteStore) fireSelectionChanged() {
	if s.OnSelectionChanged != nil {
		s.OnSelectionChanged(s.SelectedNotes())
	}
}

// Handle is a generation-checked reference to a note. It survives value
// edits but is invalidated by any structural mutation of the store.
type Handle struct {
	index      int
	generation uint64
}

// HandleAt returns a handle for the note at index.
func (s *NoteStore) HandleAt(index int) Handle {
	return Handle{index: index, generation: s.generation}
}

// Resolve returns the note a handle points at, or nil if the store has been
// structurally mutated since the handle was taken.
func (s *NoteStore) Resolve(h Handle) *Note {
	if h.generation != s.generation {
		return nil
	}
	return s.At(h.index)
}
