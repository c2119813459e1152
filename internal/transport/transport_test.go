package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBeatsFor(t *testing.T) {
	assert := assert.New(t)

	assert.InDelta(2.0, beatsFor(time.Second, 120), 1e-9)
	assert.InDelta(1.0, beatsFor(500*time.Millisecond, 120), 1e-9)
	assert.InDelta(0.5, beatsFor(500*time.Millisecond, 60), 1e-9)
}

func TestStepAdvancesOnlyWhilePlaying(t *testing.T) {
	assert := assert.New(t)
	tr := New()

	now := time.Now()
	tr.step(now)
	assert.Equal(0.0, tr.PlayheadBeat())

	tr.Play()
	tr.lastTick = now
	tr.step(now.Add(time.Second))
	assert.InDelta(2.0, tr.PlayheadBeat(), 1e-9) // 120 BPM

	tr.Stop()
	tr.step(now.Add(2 * time.Second))
	assert.InDelta(2.0, tr.PlayheadBeat(), 1e-9)
}

func TestSetPlayheadClampsNegative(t *testing.T) {
	tr := New()
	tr.SetPlayheadBeat(-3)
	assert.Equal(t, 0.0, tr.PlayheadBeat())
}

func TestInvalidTempoAndSignatureIgnored(t *testing.T) {
	assert := assert.New(t)
	tr := New()

	tr.SetTempo(0)
	assert.Equal(120.0, tr.Tempo())

	tr.SetTimeSignature(0, 4)
	n, d := tr.TimeSignature()
	assert.Equal(4, n)
	assert.Equal(4, d)

	tr.SetTimeSignature(3, 4)
	n, _ = tr.TimeSignature()
	assert.Equal(3, n)
}
