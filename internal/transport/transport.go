// Package transport owns the playhead position and the periodic redraw tick.
// It never mutates note data; the editor only reads the playhead beat from
// it (on paste) and the tick exists solely to drive playhead repaints.
package transport

import (
	"sync"
	"time"
)

// Tick interval, about 30 frames per second.
const tickInterval = 33 * time.Millisecond

// Transport publishes the playhead beat position as a thread-safe snapshot
// and fires OnTick from its own goroutine while running. Callers marshal the
// tick onto their UI thread themselves.
type Transport struct {
	mu       sync.Mutex
	beat     float64
	tempo    float64 // BPM
	timeSigN int
	timeSigD int
	playing  bool
	lastTick time.Time

	done chan struct{}
	once sync.Once

	// OnTick fires roughly 30 times per second while the transport runs,
	// whether or not playback is active.
	OnTick func()
}

// New creates a stopped transport at beat 0, 120 BPM, 4/4.
func New() *Transport {
	return &Transport{
		tempo:    120,
		timeSigN: 4,
		timeSigD: 4,
		done:     make(chan struct{}),
	}
}

// Run starts the tick loop. It returns immediately; Close stops the loop.
func (t *Transport) Run() {
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				t.step(now)
				if t.OnTick != nil {
					t.OnTick()
				}
			case <-t.done:
				return
			}
		}
	}()
}

// Close stops the tick loop.
func (t *Transport) Close() {
	t.once.Do(func() { close(t.done) })
}

// Play starts advancing the playhead.
func (t *Transport) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.playing {
		t.playing = true
		t.lastTick = time.Now()
	}
}

// Stop halts the playhead where it is.
func (t *Transport) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.playing = false
}

// Playing reports whether the playhead is advancing.
func (t *Transport) Playing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}

// PlayheadBeat returns the current playhead position snapshot.
func (t *Transport) PlayheadBeat() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.beat
}

// SetPlayheadBeat repositions the playhead. Negative positions clamp to 0.
func (t *Transport) SetPlayheadBeat(beat float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if beat < 0 {
		beat = 0
	}
	t.beat = beat
}

// Tempo returns the tempo in BPM.
func (t *Transport) Tempo() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tempo
}

// SetTempo sets the tempo in BPM; non-positive values are ignored.
func (t *Transport) SetTempo(bpm float64) {
	if bpm <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tempo = bpm
}

// TimeSignature returns the numerator and denominator.
func (t *Transport) TimeSignature() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeSigN, t.timeSigD
}

// SetTimeSignature sets the time signature; non-positive parts are ignored.
func (t *Transport) SetTimeSignature(numerator, denominator int) {
	if numerator <= 0 || denominator <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeSigN = numerator
	t.timeSigD = denominator
}

// step advances the playhead by the wall-clock time since the last tick.
func (t *Transport) step(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.playing {
		return
	}
	t.beat += beatsFor(now.Sub(t.lastTick), t.tempo)
	t.lastTick = now
}

// beatsFor converts a wall-clock duration to beats at the given tempo.
func beatsFor(d time.Duration, bpm float64) float64 {
	return d.Seconds() * bpm / 60.0
}
