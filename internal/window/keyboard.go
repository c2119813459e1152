package window

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"fyne.io/fyne/v2/theme"
	"github.com/PixPMusic/gopher-roll/internal/pianoroll"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
)

// Keyboard strip palette
var (
	keyWhite   = color.NRGBA{R: 0xE8, G: 0xE8, B: 0xE4, A: 0xFF}
	keyBlack   = color.NRGBA{R: 0x2A, G: 0x2A, B: 0x30, A: 0xFF}
	keyDivider = color.NRGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xFF}
	keyLabel   = color.NRGBA{R: 0x40, G: 0x40, B: 0x48, A: 0xFF}
)

var (
	labelFontOnce sync.Once
	labelFontVal  *truetype.Font
)

// labelFont parses the theme font once; rendering degrades to unlabeled keys
// if parsing fails.
func labelFont() *truetype.Font {
	labelFontOnce.Do(func() {
		f, err := freetype.ParseFont(theme.DefaultTextFont().Content())
		if err != nil {
			log.Printf("Failed to parse label font: %v", err)
			return
		}
		labelFontVal = f
	})
	return labelFontVal
}

// keyboardCache regenerates the keyboard strip image only when the view
// parameters it depends on change. The strip redraws at the tick rate while
// the transport runs, and freetype rendering is too slow to repeat for an
// unchanged view.
type keyboardCache struct {
	width, height int
	rowHeight     int
	scrollY       float64
	img           image.Image
}

func (k *keyboardCache) image(v *pianoroll.ViewState, width, height int) image.Image {
	if k.img != nil && k.width == width && k.height == height &&
		k.rowHeight == v.RowHeight && k.scrollY == v.ScrollY {
		return k.img
	}
	k.width, k.height = width, height
	k.rowHeight, k.scrollY = v.RowHeight, v.ScrollY
	k.img = renderKeyboard(v, width, height)
	return k.img
}

// renderKeyboard rasterizes the fixed keyboard strip: one equal-height row
// per pitch, black keys darkened, C rows labeled with their octave.
func renderKeyboard(v *pianoroll.ViewState, width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(keyWhite), image.Point{}, draw.Src)
	if width <= 0 || height <= 0 {
		return img
	}

	m := pianoroll.Mapper{View: v}
	top := m.YToPitch(0)
	bottom := m.YToPitch(float64(height))

	for p := bottom; p <= top; p++ {
		y := int(m.PitchToY(p))
		rowRect := image.Rect(0, y, width, y+v.RowHeight)

		if pianoroll.IsBlackKey(p) {
			draw.Draw(img, rowRect, image.NewUniform(keyBlack), image.Point{}, draw.Src)
		}

		// Divider under each B and E, where a real keyboard has no black key.
		if p%12 == 11 || p%12 == 4 {
			draw.Draw(img, image.Rect(0, y+v.RowHeight-1, width, y+v.RowHeight),
				image.NewUniform(keyDivider), image.Point{}, draw.Src)
		}
	}

	if v.RowHeight >= 10 {
		labelKeys(img, m, v, bottom, top)
	}

	// Right border separating the strip from the note area.
	draw.Draw(img, image.Rect(width-1, 0, width, height),
		image.NewUniform(keyDivider), image.Point{}, draw.Src)

	return img
}

func labelKeys(img *image.RGBA, m pianoroll.Mapper, v *pianoroll.ViewState, bottom, top int) {
	f := labelFont()
	if f == nil {
		return
	}

	fontSize := float64(v.RowHeight) - 3
	if fontSize > 11 {
		fontSize = 11
	}

	c := freetype.NewContext()
	c.SetFont(f)
	c.SetFontSize(fontSize)
	c.SetDPI(72)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.NewUniform(keyLabel))

	for p := bottom; p <= top; p++ {
		if p%12 != 0 { // only C rows carry a label
			continue
		}
		y := int(m.PitchToY(p))
		pt := freetype.Pt(4, y+v.RowHeight-2)
		if _, err := c.DrawString(pianoroll.NoteName(p), pt); err != nil {
			log.Printf("Failed to draw key label: %v", err)
			return
		}
	}
}
