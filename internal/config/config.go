package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/PixPMusic/gopher-roll/internal/pianoroll"
	"github.com/google/uuid"
)

// GridSettings mirrors pianoroll.GridConfig for persistence
type GridSettings struct {
	SnapEnabled  bool   `json:"snap_enabled"`
	Quantization string `json:"quantization"`
	ShowGrid     bool   `json:"show_grid"`
}

// ViewSettings stores the zoom and layout the user last worked with
type ViewSettings struct {
	BeatsPerPixel float64 `json:"beats_per_pixel"`
	RowHeight     int     `json:"row_height"`
	KeyboardWidth float64 `json:"keyboard_width"`
}

// NoteRecord is one persisted note of a clip
type NoteRecord struct {
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"start"`
	Length   float64 `json:"length"`
	Velocity float64 `json:"velocity"`
}

// ClipRecord is a named, saved set of notes
type ClipRecord struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Tempo float64      `json:"tempo"`
	Notes []NoteRecord `json:"notes"`
}

// NewClipRecord creates an empty clip with a generated ID
func NewClipRecord(name string) ClipRecord {
	return ClipRecord{
		ID:    uuid.New().String(),
		Name:  name,
		Tempo: 120,
	}
}

// ToNotes converts the clip's records into editable notes. The display color
// is not persisted; loaded notes get the default note color.
func (c *ClipRecord) ToNotes() []pianoroll.Note {
	notes := make([]pianoroll.Note, len(c.Notes))
	for i, r := range c.Notes {
		notes[i] = pianoroll.Note{
			Pitch:    pianoroll.ClampPitch(r.Pitch),
			Start:    r.Start,
			Length:   r.Length,
			Velocity: pianoroll.ClampVelocity(r.Velocity),
			Color:    pianoroll.DefaultNoteColor,
		}
	}
	return notes
}

// SetNotes replaces the clip's records from editable notes
func (c *ClipRecord) SetNotes(notes []pianoroll.Note) {
	c.Notes = make([]NoteRecord, len(notes))
	for i, n := range notes {
		c.Notes[i] = NoteRecord{
			Pitch:    n.Pitch,
			Start:    n.Start,
			Length:   n.Length,
			Velocity: n.Velocity,
		}
	}
}

// Config holds application configuration
type Config struct {
	FirstLaunchCompleted bool         `json:"first_launch_completed"`
	PreviewPort          string       `json:"preview_port"`
	Grid                 GridSettings `json:"grid"`
	View                 ViewSettings `json:"view"`
	Clips                []ClipRecord `json:"clips"`
	CurrentClipID        string       `json:"current_clip_id"`
}

// GridConfig converts the persisted grid settings to the editor's form
func (c *Config) GridConfig() pianoroll.GridConfig {
	return pianoroll.GridConfig{
		Snap:         c.Grid.SnapEnabled,
		Quantization: pianoroll.ParseQuantization(c.Grid.Quantization),
		ShowGrid:     c.Grid.ShowGrid,
	}
}

// SetGridConfig stores the editor's grid settings for persistence
func (c *Config) SetGridConfig(g pianoroll.GridConfig) {
	c.Grid = GridSettings{
		SnapEnabled:  g.Snap,
		Quantization: g.Quantization.String(),
		ShowGrid:     g.ShowGrid,
	}
}

// ApplyView copies persisted view settings onto a live view state, going
// through the setters so stale config values get clamped
func (c *Config) ApplyView(v *pianoroll.ViewState) {
	if c.View.BeatsPerPixel > 0 {
		v.SetHorizontalZoom(c.View.BeatsPerPixel)
	}
	if c.View.RowHeight > 0 {
		v.SetVerticalZoom(c.View.RowHeight)
	}
	if c.View.KeyboardWidth > 0 {
		v.SetKeyboardWidth(c.View.KeyboardWidth)
	}
}

// SnapshotView stores a live view state for persistence
func (c *Config) SnapshotView(v *pianoroll.ViewState) {
	c.View = ViewSettings{
		BeatsPerPixel: v.BeatsPerPixel,
		RowHeight:     v.RowHeight,
		KeyboardWidth: v.KeyboardWidth,
	}
}

// GetCurrentClip returns the current clip, or the first one as a fallback
func (c *Config) GetCurrentClip() *ClipRecord {
	for i := range c.Clips {
		if c.Clips[i].ID == c.CurrentClipID {
			return &c.Clips[i]
		}
	}
	if len(c.Clips) > 0 {
		return &c.Clips[0]
	}
	return nil
}

// AddClip adds a clip and makes it current
func (c *Config) AddClip(clip ClipRecord) {
	c.Clips = append(c.Clips, clip)
	c.CurrentClipID = clip.ID
}

// RemoveClip removes a clip by ID
func (c *Config) RemoveClip(id string) {
	for i, clip := range c.Clips {
		if clip.ID == id {
			c.Clips = append(c.Clips[:i], c.Clips[i+1:]...)
			break
		}
	}
	if c.CurrentClipID == id && len(c.Clips) > 0 {
		c.CurrentClipID = c.Clips[0].ID
	}
}

// configDir returns the platform-appropriate config directory
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "gopher-roll"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, returning defaults if not found
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if len(cfg.Clips) == 0 {
		defaultClip := NewClipRecord("Untitled Clip")
		cfg.Clips = []ClipRecord{defaultClip}
		cfg.CurrentClipID = defaultClip.ID
	}

	return &cfg, nil
}

func defaultConfig() *Config {
	defaultClip := NewClipRecord("Untitled Clip")
	cfg := &Config{
		Clips:         []ClipRecord{defaultClip},
		CurrentClipID: defaultClip.ID,
	}
	cfg.SetGridConfig(pianoroll.NewGridConfig())
	cfg.SnapshotView(pianoroll.NewViewState())
	return cfg
}

// Save writes the config to disk
func (c *Config) Save() error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
