package pianoroll

// Clipboard holds a value snapshot of copied notes, independent of the store
// they came from.
type Clipboard struct {
	notes []Note
}

// NewClipboard creates an empty clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// Copy snapshots the store's selected notes. The live selection is left
// untouched.
func (c *Clipboard) Copy(store *NoteStore) {
	c.notes = c.notes[:0]
	for _, n := range store.All() {
		if n.Selected {
			c.notes = append(c.notes, n)
		}
	}
}

// IsEmpty reports whether the clipboard holds no notes.
func (c *Clipboard) IsEmpty() bool {
	return len(c.notes) == 0
}

// Len returns the number of notes on the clipboard.
func (c *Clipboard) Len() int {
	return len(c.notes)
}

// PasteAt clones the clipboard into the store so the earliest note lands on
// the given beat. The pasted notes become the new selection. An empty
// clipboard is a no-op.
func (c *Clipboard) PasteAt(store *NoteStore, beat float64) {
	if c.IsEmpty() {
		return
	}
	c.pasteWithOffset(store, beat-c.earliestStart())
}

// DuplicateSelected copies the store's selection and pastes it immediately
// after the rightmost edge of that selection.
func (c *Clipboard) DuplicateSelected(store *NoteStore) {
	c.Copy(store)
	if c.IsEmpty() {
		return
	}

	rightmostEnd := 0.0
	for _, n := range store.SelectedNotes() {
		if n.End() > rightmostEnd {
			rightmostEnd = n.End()
		}
	}

	c.pasteWithOffset(store, rightmostEnd-c.earliestStart())
}

func (c *Clipboard) earliestStart() float64 {
	earliest := c.notes[0].Start
	for _, n := range c.notes[1:] {
		if n.Start < earliest {
			earliest = n.Start
		}
	}
	return earliest
}

func (c *Clipboard) pasteWithOffset(store *NoteStore, offset float64) {
	store.DeselectAll()
	for _, n := range c.notes {
		n.Start += offset
		n.Selected = true
		store.Add(n)
	}
}
