package pianoroll

import (
	"image/color"
	"math"
)

// Modifier is a bitmask of held modifier keys during a pointer event.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota // additive selection
	ModAlt                        // rectangle select
	ModSuper                      // rectangle select; horizontal zoom on wheel
)

// Pixel distance from a note edge within which a press starts a resize.
const edgeThreshold = 5.0

// Length given to a drawn note when snapping is off.
const fallbackNoteLength = 0.25

// Velocity given to freshly drawn notes.
const defaultNoteVelocity = 0.8

// DefaultNoteColor is applied to drawn notes; the host may override it.
var DefaultNoteColor = color.NRGBA{R: 0x4A, G: 0x90, B: 0xE2, A: 0xFF}

// gesture is the closed set of edit-session states. Each variant carries
// exactly the data that state needs, so illegal combinations cannot be
// represented.
type gesture interface {
	gesture()
}

type gestureIdle struct{}

// gestureDrawing is the transient state while a new note is synthesized on
// pointer-down; the session leaves it for gestureResizeRight before the
// first drag sample arrives.
type gestureDrawing struct{}

type gestureMoving struct {
	last Point // previous drag sample, updated incrementally
}

type gestureResizeLeft struct {
	target Handle
}

type gestureResizeRight struct {
	target Handle
}

type gestureBoxSelect struct {
	anchor Point
	box    Rect
}

func (gestureIdle) gesture()        {}
func (gestureDrawing) gesture()     {}
func (*gestureMoving) gesture()     {}
func (gestureResizeLeft) gesture()  {}
func (gestureResizeRight) gesture() {}
func (*gestureBoxSelect) gesture()  {}

// EditSession is the gesture state machine. It interprets pointer events in
// raw widget coordinates, resolves them through the Mapper and mutates the
// NoteStore. Everything runs synchronously on the interaction thread.
type EditSession struct {
	Store     *NoteStore
	View      *ViewState
	Grid      *GridConfig
	Clipboard *Clipboard

	// NoteColor is stamped onto drawn notes.
	NoteColor color.Color

	// OnPreviewNote fires when the keyboard strip is pressed; the transport
	// collaborator is expected to sound the pitch.
	OnPreviewNote func(pitch int)

	// OnChanged signals that visible state changed and a redraw is due.
	OnChanged func()

	current gesture
}

// NewEditSession wires a session over its collaborators.
func NewEditSession(store *NoteStore, view *ViewState, grid *GridConfig) *EditSession {
	return &EditSession{
		Store:     store,
		View:      view,
		Grid:      grid,
		Clipboard: NewClipboard(),
		NoteColor: DefaultNoteColor,
		current:   gestureIdle{},
	}
}

// Mapper returns the coordinate mapper for the session's current view.
func (s *EditSession) Mapper() Mapper {
	return Mapper{View: s.View}
}

// Idle reports whether no gesture is in progress.
func (s *EditSession) Idle() bool {
	_, ok := s.current.(gestureIdle)
	return ok
}

// SelectionBox returns the active rectangle-select box, if any.
func (s *EditSession) SelectionBox() (Rect, bool) {
	if g, ok := s.current.(*gestureBoxSelect); ok {
		return g.box, true
	}
	return Rect{}, false
}

// PointerDown resolves the press target and enters the matching gesture.
func (s *EditSession) PointerDown(p Point, mods Modifier) {
	m := s.Mapper()

	// Presses on the keyboard strip preview the pitch and edit nothing.
	if m.InKeyboard(p.X) {
		if s.OnPreviewNote != nil {
			s.OnPreviewNote(m.YToPitch(p.Y))
		}
		return
	}

	if index := s.findNoteAt(p); index >= 0 {
		if onLeft, onRight := s.nearNoteEdge(p, index); onLeft || onRight {
			target := s.Store.HandleAt(index)
			if onLeft {
				s.current = gestureResizeLeft{target: target}
			} else {
				s.current = gestureResizeRight{target: target}
			}
		} else {
			s.Store.Select(index, mods&ModShift != 0)
			s.current = &gestureMoving{last: p}
		}
		s.changed()
		return
	}

	if mods&(ModAlt|ModSuper) != 0 {
		if mods&ModShift == 0 {
			s.Store.DeselectAll()
		}
		s.current = &gestureBoxSelect{anchor: p, box: RectFromPoints(p, p)}
		s.changed()
		return
	}

	// Empty space without a select modifier draws a new note; the same drag
	// that created it sizes it.
	s.current = gestureDrawing{}
	length := s.Grid.SnapValue()
	if length == 0 {
		length = fallbackNoteLength
	}
	n := Note{
		Pitch:    m.YToPitch(p.Y),
		Start:    s.Grid.SnapBeat(m.ScreenXToBeat(p.X)),
		Length:   length,
		Velocity: defaultNoteVelocity,
		Selected: true,
		Color:    s.NoteColor,
	}
	index := s.Store.Add(n)
	s.current = gestureResizeRight{target: s.Store.HandleAt(index)}
	s.changed()
}

// PointerDrag advances the active gesture with a new sample.
func (s *EditSession) PointerDrag(p Point) {
	m := s.Mapper()

	switch g := s.current.(type) {
	case *gestureMoving:
		deltaBeat := m.ScreenXToBeat(p.X) - m.ScreenXToBeat(g.last.X)
		deltaPitch := m.YToPitch(p.Y) - m.YToPitch(g.last.Y)
		for _, n := range s.Store.SelectedNotes() {
			n.Start = math.Max(0, s.Grid.SnapBeat(n.Start+deltaBeat))
			n.Pitch = ClampPitch(n.Pitch + deltaPitch)
		}
		g.last = p
		s.changed()

	case gestureResizeRight:
		n := s.Store.Resolve(g.target)
		if n == nil {
			return
		}
		newLength := s.Grid.SnapBeat(m.ScreenXToBeat(p.X)) - n.Start
		if newLength > 0 {
			n.Length = newLength
			s.changed()
		}

	case gestureResizeLeft:
		n := s.Store.Resolve(g.target)
		if n == nil {
			return
		}
		newStart := s.Grid.SnapBeat(m.ScreenXToBeat(p.X))
		oldEnd := n.End()
		if newStart >= 0 && newStart < oldEnd {
			n.Start = newStart
			n.Length = oldEnd - newStart
			s.changed()
		}

	case *gestureBoxSelect:
		g.box = RectFromPoints(g.anchor, p)
		changed := false
		for i := 0; i < s.Store.Len(); i++ {
			n := s.Store.At(i)
			inBox := m.NoteRect(*n).Intersects(g.box)
			if n.Selected != inBox {
				n.Selected = inBox
				changed = true
			}
		}
		if changed {
			s.Store.fireSelectionChanged()
		}
		s.changed()
	}
}

// PointerUp ends the active gesture. Edits applied during the drag are
// already permanent; nothing is finalized or rolled back here.
func (s *EditSession) PointerUp() {
	if s.Idle() {
		return
	}
	s.current = gestureIdle{}
	s.changed()
}

// DoubleClick deletes the note under the pointer outright.
func (s *EditSession) DoubleClick(p Point) {
	if index := s.findNoteAt(p); index >= 0 {
		s.Store.RemoveAt(index)
		s.changed()
	}
}

// Wheel handles scroll input. dx and dy are normalized wheel increments
// (about 0.1 per notch). A Super/Ctrl modifier zooms horizontally, Shift
// zooms vertically, no modifier scrolls the view.
func (s *EditSession) Wheel(dx, dy float64, mods Modifier) {
	switch {
	case mods&ModSuper != 0:
		s.View.SetHorizontalZoom(s.View.BeatsPerPixel * (1 + dy))
	case mods&ModShift != 0:
		s.View.SetVerticalZoom(s.View.RowHeight + verticalZoomStep(dy))
	default:
		s.View.ScrollBeat += dx * 50
		s.View.ScrollY += dy * 50
	}
	s.changed()
}

// verticalZoomStep turns a wheel increment into at least one row-height
// pixel, so a single notch is never lost to truncation.
func verticalZoomStep(dy float64) int {
	step := int(math.Round(dy * 2))
	if step == 0 && dy > 0 {
		step = 1
	}
	if step == 0 && dy < 0 {
		step = -1
	}
	return step
}

// QuantizeSelected snaps the start of every selected note to the grid, and
// its length too when the snapped length stays positive.
func (s *EditSession) QuantizeSelected() {
	snap := s.Grid.SnapValue()
	if snap == 0 {
		return
	}
	for _, n := range s.Store.SelectedNotes() {
		n.Start = math.Round(n.Start/snap) * snap
		if quantized := math.Round(n.Length/snap) * snap; quantized > 0 {
			n.Length = quantized
		}
	}
	s.changed()
}

// TransposeSelected shifts every selected note by the given semitones,
// clamped to the pitch range.
func (s *EditSession) TransposeSelected(semitones int) {
	for _, n := range s.Store.SelectedNotes() {
		n.Pitch = ClampPitch(n.Pitch + semitones)
	}
	s.changed()
}

// SetSelectedVelocity applies one velocity to every selected note.
func (s *EditSession) SetSelectedVelocity(v float64) {
	v = ClampVelocity(v)
	for _, n := range s.Store.SelectedNotes() {
		n.Velocity = v
	}
	s.changed()
}

// CopySelected snapshots the selection onto the clipboard.
func (s *EditSession) CopySelected() {
	s.Clipboard.Copy(s.Store)
}

// Paste places the clipboard at the playhead.
func (s *EditSession) Paste() {
	s.Clipboard.PasteAt(s.Store, s.View.PlayheadBeat)
	s.changed()
}

// DuplicateSelected copies the selection and pastes it after its own
// rightmost edge.
func (s *EditSession) DuplicateSelected() {
	s.Clipboard.DuplicateSelected(s.Store)
	s.changed()
}

// DeleteSelected removes every selected note.
func (s *EditSession) DeleteSelected() {
	s.Store.DeleteSelected()
	s.changed()
}

// ZoomToFit adjusts horizontal zoom and scroll so every note fits in the
// given content width (widget width minus the keyboard strip).
func (s *EditSession) ZoomToFit(contentWidth float64) {
	if s.Store.Len() == 0 || contentWidth <= 0 {
		return
	}

	minBeat := math.MaxFloat64
	maxBeat := 0.0
	for _, n := range s.Store.All() {
		minBeat = math.Min(minBeat, n.Start)
		maxBeat = math.Max(maxBeat, n.End())
	}

	if total := maxBeat - minBeat; total > 0 {
		s.View.SetHorizontalZoom(total / contentWidth)
		s.View.ScrollBeat = minBeat
	}
	s.changed()
}

// findNoteAt returns the index of the first note whose bounds contain the
// point, or -1.
func (s *EditSession) findNoteAt(p Point) int {
	m := s.Mapper()
	for i := 0; i < s.Store.Len(); i++ {
		if m.NoteRect(*s.Store.At(i)).Contains(p) {
			return i
		}
	}
	return -1
}

// nearNoteEdge reports whether the point is within the resize threshold of
// the note's left or right edge.
func (s *EditSession) nearNoteEdge(p Point, index int) (left, right bool) {
	bounds := s.Mapper().NoteRect(*s.Store.At(index))
	if math.Abs(p.X-bounds.X) < edgeThreshold {
		return true, false
	}
	if math.Abs(p.X-bounds.Right()) < edgeThreshold {
		return false, true
	}
	return false, false
}

func (s *EditSession) changed() {
	if s.OnChanged != nil {
		s.OnChanged()
	}
}
