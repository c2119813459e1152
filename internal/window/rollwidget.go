package window

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/PixPMusic/gopher-roll/internal/pianoroll"
)

// Roll palette
var (
	rollBackground   = color.NRGBA{R: 0x1E, G: 0x1E, B: 0x24, A: 0xFF}
	rollRowShade     = color.NRGBA{R: 0x18, G: 0x18, B: 0x1E, A: 0xFF}
	rollBeatLine     = color.NRGBA{R: 0x34, G: 0x34, B: 0x3E, A: 0xFF}
	rollBarLine      = color.NRGBA{R: 0x50, G: 0x50, B: 0x5E, A: 0xFF}
	rollPlayhead     = color.NRGBA{R: 0xE2, G: 0x4A, B: 0x4A, A: 0xFF}
	rollSelectionBox = color.NRGBA{R: 0x4A, G: 0x90, B: 0xE2, A: 0x30}
	rollSelectedEdge = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// ============ PIANO ROLL WIDGET ============

// RollWidget draws the note grid and feeds pointer input to the edit session.
type RollWidget struct {
	widget.BaseWidget

	session *pianoroll.EditSession

	// Modifiers reports the currently held modifier keys. Fyne scroll events
	// do not carry them, so the window tracks key state and supplies it here.
	Modifiers func() pianoroll.Modifier

	// BeatsPerBar controls where the heavier bar lines fall.
	BeatsPerBar func() int
}

var _ desktop.Mouseable = (*RollWidget)(nil)
var _ fyne.Draggable = (*RollWidget)(nil)
var _ fyne.DoubleTappable = (*RollWidget)(nil)
var _ fyne.Scrollable = (*RollWidget)(nil)

// NewRollWidget creates the roll over an edit session.
func NewRollWidget(session *pianoroll.EditSession) *RollWidget {
	r := &RollWidget{
		session:     session,
		Modifiers:   func() pianoroll.Modifier { return 0 },
		BeatsPerBar: func() int { return 4 },
	}
	r.ExtendBaseWidget(r)
	return r
}

func (r *RollWidget) CreateRenderer() fyne.WidgetRenderer {
	return &rollRenderer{roll: r}
}

// ============ POINTER INPUT ============

func (r *RollWidget) MouseDown(ev *desktop.MouseEvent) {
	r.session.PointerDown(toPoint(ev.Position), modifiersOf(ev.Modifier)|r.Modifiers())
}

func (r *RollWidget) MouseUp(_ *desktop.MouseEvent) {
	r.session.PointerUp()
}

func (r *RollWidget) Dragged(ev *fyne.DragEvent) {
	r.session.PointerDrag(toPoint(ev.Position))
}

func (r *RollWidget) DragEnd() {
	r.session.PointerUp()
}

func (r *RollWidget) DoubleTapped(ev *fyne.PointEvent) {
	r.session.DoubleClick(toPoint(ev.Position))
}

func (r *RollWidget) Scrolled(ev *fyne.ScrollEvent) {
	// Fyne reports wheel deltas in points per notch; the session expects
	// normalized increments of roughly 0.1 per notch.
	r.session.Wheel(float64(ev.Scrolled.DX)/250, float64(ev.Scrolled.DY)/250, r.Modifiers())
}

func toPoint(p fyne.Position) pianoroll.Point {
	return pianoroll.Point{X: float64(p.X), Y: float64(p.Y)}
}

func modifiersOf(m fyne.KeyModifier) pianoroll.Modifier {
	var mods pianoroll.Modifier
	if m&fyne.KeyModifierShift != 0 {
		mods |= pianoroll.ModShift
	}
	if m&fyne.KeyModifierAlt != 0 {
		mods |= pianoroll.ModAlt
	}
	if m&(fyne.KeyModifierSuper|fyne.KeyModifierControl) != 0 {
		mods |= pianoroll.ModSuper
	}
	return mods
}

// ============ RENDERER ============

type rollRenderer struct {
	roll    *RollWidget
	objects []fyne.CanvasObject
	keys    *keyboardCache
}

func (r *rollRenderer) Layout(size fyne.Size) {
	r.rebuild(size)
}

func (r *rollRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 200)
}

func (r *rollRenderer) Refresh() {
	r.rebuild(r.roll.Size())
	canvas.Refresh(r.roll)
}

func (r *rollRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *rollRenderer) Destroy() {}

// rebuild regenerates the whole object list from the session state. The roll
// redraws wholesale on every change; per-object diffing is not worth it at
// this object count.
func (r *rollRenderer) rebuild(size fyne.Size) {
	s := r.roll.session
	v := s.View
	m := s.Mapper()
	w := float64(size.Width)
	h := float64(size.Height)
	if w <= 0 || h <= 0 {
		r.objects = nil
		return
	}

	objs := make([]fyne.CanvasObject, 0, 64)

	bg := canvas.NewRectangle(rollBackground)
	bg.Resize(size)
	objs = append(objs, bg)

	objs = r.appendRowShading(objs, m, v, size, h)
	if s.Grid.ShowGrid {
		objs = r.appendGridLines(objs, m, v, w, h)
	}
	objs = r.appendNotes(objs, s, m, v, w, h)

	if box, ok := s.SelectionBox(); ok {
		sel := canvas.NewRectangle(rollSelectionBox)
		sel.StrokeColor = pianoroll.DefaultNoteColor
		sel.StrokeWidth = 1
		sel.Move(fyne.NewPos(float32(box.X), float32(box.Y)))
		sel.Resize(fyne.NewSize(float32(box.W), float32(box.H)))
		objs = append(objs, sel)
	}

	if x := m.BeatToScreenX(v.PlayheadBeat); x >= v.KeyboardWidth && x <= w {
		playhead := canvas.NewLine(rollPlayhead)
		playhead.StrokeWidth = 2
		playhead.Position1 = fyne.NewPos(float32(x), 0)
		playhead.Position2 = fyne.NewPos(float32(x), float32(h))
		objs = append(objs, playhead)
	}

	objs = append(objs, r.keyboardImage(v, h))
	r.objects = objs
}

// appendRowShading darkens the rows of black keys so octaves read at a glance.
func (r *rollRenderer) appendRowShading(objs []fyne.CanvasObject, m pianoroll.Mapper, v *pianoroll.ViewState, size fyne.Size, h float64) []fyne.CanvasObject {
	top := m.YToPitch(0)
	bottom := m.YToPitch(h)
	for p := bottom; p <= top; p++ {
		if !pianoroll.IsBlackKey(p) {
			continue
		}
		row := canvas.NewRectangle(rollRowShade)
		row.Move(fyne.NewPos(float32(v.KeyboardWidth), float32(m.PitchToY(p))))
		row.Resize(fyne.NewSize(size.Width-float32(v.KeyboardWidth), float32(v.RowHeight)))
		objs = append(objs, row)
	}
	return objs
}

func (r *rollRenderer) appendGridLines(objs []fyne.CanvasObject, m pianoroll.Mapper, v *pianoroll.ViewState, w, h float64) []fyne.CanvasObject {
	step := r.roll.session.Grid.SnapValue()
	if step == 0 {
		step = 1
	}
	// Coarsen the grid as the view zooms out so lines never crowd together.
	for step/v.BeatsPerPixel < 6 {
		step *= 2
	}

	bar := float64(r.roll.BeatsPerBar())
	if bar <= 0 {
		bar = 4
	}

	for beat := math.Floor(v.ScrollBeat/step) * step; ; beat += step {
		x := m.BeatToScreenX(beat)
		if x > w {
			break
		}
		if x < v.KeyboardWidth {
			continue
		}

		lineColor := rollBeatLine
		if math.Abs(math.Remainder(beat, bar)) < 1e-9 {
			lineColor = rollBarLine
		}
		line := canvas.NewLine(lineColor)
		line.Position1 = fyne.NewPos(float32(x), 0)
		line.Position2 = fyne.NewPos(float32(x), float32(h))
		objs = append(objs, line)
	}
	return objs
}

func (r *rollRenderer) appendNotes(objs []fyne.CanvasObject, s *pianoroll.EditSession, m pianoroll.Mapper, v *pianoroll.ViewState, w, h float64) []fyne.CanvasObject {
	for _, n := range s.Store.All() {
		bounds := m.NoteRect(n)
		if bounds.Right() < v.KeyboardWidth || bounds.X > w || bounds.Bottom() < 0 || bounds.Y > h {
			continue
		}
		// Clip against the keyboard strip so notes scroll under it.
		if bounds.X < v.KeyboardWidth {
			bounds.W -= v.KeyboardWidth - bounds.X
			bounds.X = v.KeyboardWidth
		}

		rect := canvas.NewRectangle(noteFill(n))
		rect.CornerRadius = 2
		if n.Selected {
			rect.StrokeColor = rollSelectedEdge
			rect.StrokeWidth = 1.5
		}
		rect.Move(fyne.NewPos(float32(bounds.X), float32(bounds.Y)+1))
		rect.Resize(fyne.NewSize(float32(bounds.W), float32(bounds.H)-2))
		objs = append(objs, rect)
	}
	return objs
}

// noteFill renders velocity as opacity, so quiet notes read fainter.
func noteFill(n pianoroll.Note) color.Color {
	c := color.NRGBAModel.Convert(n.Color).(color.NRGBA)
	c.A = uint8((0.3 + 0.7*pianoroll.ClampVelocity(n.Velocity)) * 255)
	return c
}

func (r *rollRenderer) keyboardImage(v *pianoroll.ViewState, h float64) fyne.CanvasObject {
	if r.keys == nil {
		r.keys = &keyboardCache{}
	}
	img := canvas.NewImageFromImage(r.keys.image(v, int(v.KeyboardWidth), int(h)))
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	img.Resize(fyne.NewSize(float32(v.KeyboardWidth), float32(h)))
	return img
}
