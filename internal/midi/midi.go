package midi

import (
	"fmt"
	"log"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver
)

// Manager handles MIDI output port discovery and preview-note playback
type Manager struct {
	mu sync.Mutex
}

// NewManager creates a new MIDI manager
func NewManager() *Manager {
	return &Manager{}
}

// Close cleans up the MIDI driver
func (m *Manager) Close() {
	midi.CloseDriver()
}

// ListOutPorts returns the names of available MIDI output ports
func (m *Manager) ListOutPorts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	outs := midi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

// PreviewNote sounds a pitch on the given output port for the given duration.
// The velocity is a 0-1 fraction and is scaled to the MIDI 0-127 range.
// An empty port name is a no-op.
func (m *Manager) PreviewNote(outPortName string, pitch int, velocity float64, duration time.Duration) error {
	if outPortName == "" {
		return nil
	}
	if pitch < 0 || pitch > 127 {
		return fmt.Errorf("pitch out of range: %d", pitch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	outPort := m.findOutPort(outPortName)
	if outPort == nil {
		return fmt.Errorf("output port not found: %s", outPortName)
	}

	send, err := midi.SendTo(outPort)
	if err != nil {
		return fmt.Errorf("failed to create sender: %w", err)
	}

	vel := uint8(velocity * 127)
	if vel > 127 {
		vel = 127
	}

	key := uint8(pitch)
	if err := send(midi.NoteOn(0, key, vel)); err != nil {
		return fmt.Errorf("failed to send note on: %w", err)
	}

	time.AfterFunc(duration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if err := send(midi.NoteOff(0, key)); err != nil {
			log.Printf("Failed to send note off: %v", err)
		}
	})

	return nil
}

func (m *Manager) findOutPort(name string) drivers.Out {
	outs := midi.GetOutPorts()
	for _, out := range outs {
		if out.String() == name {
			return out
		}
	}
	return nil
}
