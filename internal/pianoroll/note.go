package pianoroll

import (
	"image/color"
	"strconv"
)

// Pitch range follows piano-key MIDI numbering.
const (
	MinPitch = 0
	MaxPitch = 127
)

// Note is a single musical event on the roll. Notes have no identity beyond
// their index in the NoteStore; copying a Note copies the whole event.
type Note struct {
	Pitch    int         // 0-127, 127 drawn at the top of the roll
	Start    float64     // position in beats
	Length   float64     // duration in beats, always > 0
	Velocity float64     // 0.0-1.0
	Selected bool
	Color    color.Color // display color, carried but never interpreted here
}

// End returns the beat position of the note's right edge.
func (n Note) End() float64 {
	return n.Start + n.Length
}

// ClampPitch limits a pitch to the valid piano-key range.
func ClampPitch(pitch int) int {
	if pitch < MinPitch {
		return MinPitch
	}
	if pitch > MaxPitch {
		return MaxPitch
	}
	return pitch
}

// ClampVelocity limits a velocity to [0, 1].
func ClampVelocity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the conventional name of a pitch, e.g. 60 -> "C4".
func NoteName(pitch int) string {
	pitch = ClampPitch(pitch)
	octave := pitch/12 - 1
	return noteNames[pitch%12] + strconv.Itoa(octave)
}

// IsBlackKey reports whether a pitch is a black key on a piano keyboard.
func IsBlackKey(pitch int) bool {
	switch pitch % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}
