package pianoroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeatPixelRoundTrip(t *testing.T) {
	assert := assert.New(t)

	zooms := []float64{MinBeatsPerPixel, 0.02, 0.5, MaxBeatsPerPixel}
	scrolls := []float64{0, 3.17, 128}
	xs := []float64{0, 1, 17.5, 123.4, 1999}

	for _, zoom := range zooms {
		for _, scroll := range scrolls {
			view := NewViewState()
			view.BeatsPerPixel = zoom
			view.ScrollBeat = scroll
			m := Mapper{View: view}

			for _, x := range xs {
				assert.InDelta(x, m.BeatToX(m.XToBeat(x)), 1.0,
					"zoom %v scroll %v x %v", zoom, scroll, x)
				assert.InDelta(x, m.BeatToScreenX(m.ScreenXToBeat(x)), 1.0,
					"screen zoom %v scroll %v x %v", zoom, scroll, x)
			}
		}
	}
}

func TestPitchPixelRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for _, scrollY := range []float64{0, -25, 300} {
		for _, rowHeight := range []int{MinRowHeight, 12, MaxRowHeight} {
			view := NewViewState()
			view.RowHeight = rowHeight
			view.ScrollY = scrollY
			m := Mapper{View: view}

			for pitch := MinPitch; pitch <= MaxPitch; pitch += 7 {
				assert.Equal(pitch, m.YToPitch(m.PitchToY(pitch)),
					"rowHeight %d scrollY %v", rowHeight, scrollY)
			}
		}
	}
}

func TestPitchOrientationTopDown(t *testing.T) {
	assert := assert.New(t)
	m := Mapper{View: NewViewState()}

	// Highest pitch sits at the top of the roll.
	assert.Equal(MaxPitch, m.YToPitch(0))
	assert.Less(m.PitchToY(127), m.PitchToY(0))
}

func TestPitchClampedAtExtremes(t *testing.T) {
	assert := assert.New(t)
	m := Mapper{View: NewViewState()}

	assert.Equal(MaxPitch, m.YToPitch(-10000))
	assert.Equal(MinPitch, m.YToPitch(1e7))
}

func TestZoomClamping(t *testing.T) {
	assert := assert.New(t)
	view := NewViewState()

	view.SetHorizontalZoom(5.0)
	assert.Equal(MaxBeatsPerPixel, view.BeatsPerPixel)
	view.SetHorizontalZoom(0.0001)
	assert.Equal(MinBeatsPerPixel, view.BeatsPerPixel)

	view.SetVerticalZoom(100)
	assert.Equal(MaxRowHeight, view.RowHeight)
	view.SetVerticalZoom(1)
	assert.Equal(MinRowHeight, view.RowHeight)

	view.SetKeyboardWidth(10)
	assert.Equal(float64(MinKeyboardWidth), view.KeyboardWidth)
	view.SetKeyboardWidth(1000)
	assert.Equal(float64(MaxKeyboardWidth), view.KeyboardWidth)
}

func TestKeyboardOffsetAppliedOnce(t *testing.T) {
	assert := assert.New(t)
	view := NewViewState()
	m := Mapper{View: view}

	// The same screen x must map to the beat a keyboard-width smaller x maps
	// to in content space.
	x := 250.0
	assert.InDelta(m.XToBeat(x-view.KeyboardWidth), m.ScreenXToBeat(x), 1e-12)
	assert.True(m.InKeyboard(view.KeyboardWidth - 1))
	assert.False(m.InKeyboard(view.KeyboardWidth))
}

func TestNoteRectMatchesMapper(t *testing.T) {
	assert := assert.New(t)
	view := NewViewState()
	m := Mapper{View: view}

	n := Note{Pitch: 60, Start: 2, Length: 1}
	r := m.NoteRect(n)

	assert.InDelta(m.BeatToScreenX(2), r.X, 1e-9)
	assert.InDelta(m.BeatToScreenX(3), r.Right(), 1e-9)
	assert.InDelta(m.PitchToY(60), r.Y, 1e-9)
	assert.InDelta(float64(view.RowHeight), r.H, 1e-9)
}

func TestRectFromPointsNormalizes(t *testing.T) {
	assert := assert.New(t)

	r := RectFromPoints(Point{X: 10, Y: 20}, Point{X: 4, Y: 2})
	assert.Equal(Rect{X: 4, Y: 2, W: 6, H: 18}, r)
	assert.True(r.Intersects(Rect{X: 9, Y: 19, W: 5, H: 5}))
	assert.False(r.Intersects(Rect{X: 11, Y: 2, W: 5, H: 5}))
}
