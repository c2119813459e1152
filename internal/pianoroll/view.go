package pianoroll

import "math"

// Zoom and layout bounds.
const (
	MinBeatsPerPixel = 0.01
	MaxBeatsPerPixel = 2.0

	MinRowHeight = 4
	MaxRowHeight = 40

	MinKeyboardWidth = 40
	MaxKeyboardWidth = 200
)

// ViewState holds the zoom, scroll and layout parameters of the roll. The
// playhead beat is written by the transport collaborator and only read here.
type ViewState struct {
	BeatsPerPixel float64 // horizontal zoom
	RowHeight     int     // vertical zoom, pixels per pitch row
	ScrollBeat    float64 // horizontal scroll offset, in beats
	ScrollY       float64 // vertical scroll offset, in pixels
	KeyboardWidth float64 // width of the fixed keyboard strip
	PlayheadBeat  float64
}

// NewViewState returns the default view: 50 px per beat, 12 px rows.
func NewViewState() *ViewState {
	return &ViewState{
		BeatsPerPixel: 0.02,
		RowHeight:     12,
		KeyboardWidth: 80,
	}
}

// SetHorizontalZoom sets beats-per-pixel, clamped to the valid range.
func (v *ViewState) SetHorizontalZoom(beatsPerPixel float64) {
	v.BeatsPerPixel = math.Min(MaxBeatsPerPixel, math.Max(MinBeatsPerPixel, beatsPerPixel))
}

// SetVerticalZoom sets the pitch row height, clamped to the valid range.
func (v *ViewState) SetVerticalZoom(rowHeight int) {
	if rowHeight < MinRowHeight {
		rowHeight = MinRowHeight
	}
	if rowHeight > MaxRowHeight {
		rowHeight = MaxRowHeight
	}
	v.RowHeight = rowHeight
}

// SetKeyboardWidth sets the keyboard strip width, clamped to the valid range.
func (v *ViewState) SetKeyboardWidth(width float64) {
	v.KeyboardWidth = math.Min(MaxKeyboardWidth, math.Max(MinKeyboardWidth, width))
}

// ScrollToPosition scrolls the left edge of the note area to the given beat.
func (v *ViewState) ScrollToPosition(beat float64) {
	v.ScrollBeat = beat
}

// Point is a pixel position in widget coordinates.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X, Y, W, H float64
}

// RectFromPoints returns the normalized rectangle spanned by two corners.
func RectFromPoints(a, b Point) Rect {
	r := Rect{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y}
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Right returns the x coordinate of the rectangle's right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && r.Right() > o.X && r.Y < o.Bottom() && r.Bottom() > o.Y
}

// Mapper converts between pixel and musical coordinates for one ViewState.
// The content-space methods measure x from the left edge of the note area;
// the screen-space methods apply the keyboard strip offset exactly once, so
// every call site agrees on it.
type Mapper struct {
	View *ViewState
}

// XToBeat converts a content-space x coordinate to a beat position.
func (m Mapper) XToBeat(x float64) float64 {
	return x*m.View.BeatsPerPixel + m.View.ScrollBeat
}

// BeatToX converts a beat position to a content-space x coordinate.
func (m Mapper) BeatToX(beat float64) float64 {
	return (beat - m.View.ScrollBeat) / m.View.BeatsPerPixel
}

// YToPitch converts a y coordinate to a pitch. Rows are drawn top-down with
// pitch 127 at the top; the result is always clamped to the valid range.
func (m Mapper) YToPitch(y float64) int {
	rowFromTop := int(math.Floor((y - m.View.ScrollY) / float64(m.View.RowHeight)))
	return ClampPitch(MaxPitch - rowFromTop)
}

// PitchToY converts a pitch to the y coordinate of its row's top edge.
func (m Mapper) PitchToY(pitch int) float64 {
	return float64(MaxPitch-pitch)*float64(m.View.RowHeight) + m.View.ScrollY
}

// ScreenXToBeat converts a raw widget x coordinate, keyboard strip included.
func (m Mapper) ScreenXToBeat(x float64) float64 {
	return m.XToBeat(x - m.View.KeyboardWidth)
}

// BeatToScreenX converts a beat position to a raw widget x coordinate.
func (m Mapper) BeatToScreenX(beat float64) float64 {
	return m.BeatToX(beat) + m.View.KeyboardWidth
}

// InKeyboard reports whether a raw x coordinate falls in the keyboard strip.
func (m Mapper) InKeyboard(x float64) bool {
	return x < m.View.KeyboardWidth
}

// NoteRect returns the note's bounds in raw widget coordinates.
func (m Mapper) NoteRect(n Note) Rect {
	return Rect{
		X: m.BeatToScreenX(n.Start),
		Y: m.PitchToY(n.Pitch),
		W: n.Length / m.View.BeatsPerPixel,
		H: float64(m.View.RowHeight),
	}
}
