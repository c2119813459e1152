package window

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/PixPMusic/gopher-roll/internal/config"
	"github.com/PixPMusic/gopher-roll/internal/midi"
	"github.com/PixPMusic/gopher-roll/internal/pianoroll"
	"github.com/PixPMusic/gopher-roll/internal/transport"
)

const previewVelocity = 0.8

// MainWindow manages the main application window
type MainWindow struct {
	window      fyne.Window
	app         fyne.App
	cfg         *config.Config
	midiManager *midi.Manager
	trans       *transport.Transport

	store   *pianoroll.NoteStore
	view    *pianoroll.ViewState
	grid    *pianoroll.GridConfig
	session *pianoroll.EditSession

	roll        *RollWidget
	clipSelect  *widget.Select
	playBtn     *widget.Button
	velocity    *widget.Slider
	statusLabel *widget.Label

	// Held modifier keys, tracked from raw key events so scroll gestures can
	// see them. Only touched on the UI thread.
	heldMods pianoroll.Modifier
}

// NewMainWindow creates the main application window
func NewMainWindow(app fyne.App, cfg *config.Config, midiManager *midi.Manager, trans *transport.Transport) *MainWindow {
	win := app.NewWindow("GopherRoll")

	view := pianoroll.NewViewState()
	cfg.ApplyView(view)
	grid := cfg.GridConfig()

	store := pianoroll.NewNoteStore()
	session := pianoroll.NewEditSession(store, view, &grid)

	mw := &MainWindow{
		window:      win,
		app:         app,
		cfg:         cfg,
		midiManager: midiManager,
		trans:       trans,
		store:       store,
		view:        view,
		grid:        &grid,
		session:     session,
	}

	mw.roll = NewRollWidget(session)
	mw.roll.Modifiers = func() pianoroll.Modifier { return mw.heldMods }
	mw.roll.BeatsPerBar = func() int {
		n, _ := trans.TimeSignature()
		return n
	}

	session.OnChanged = func() { mw.roll.Refresh() }
	session.OnPreviewNote = func(pitch int) { mw.previewPitch(pitch) }

	store.OnNoteAdded = func(pianoroll.Note) { mw.updateStatus() }
	store.OnNoteRemoved = func(int) { mw.updateStatus() }
	store.OnSelectionChanged = func([]*pianoroll.Note) { mw.updateStatus() }

	trans.OnTick = func() {
		fyne.Do(func() {
			mw.view.PlayheadBeat = mw.trans.PlayheadBeat()
			mw.roll.Refresh()
		})
	}

	if clip := cfg.GetCurrentClip(); clip != nil {
		store.SetAll(clip.ToNotes())
		trans.SetTempo(clip.Tempo)
	}

	mw.setupUI()
	mw.setupShortcuts()

	win.Resize(fyne.NewSize(1100, 600))
	win.CenterOnScreen()

	win.SetCloseIntercept(func() {
		mw.persist()
		app.Quit()
	})

	return mw
}

func (mw *MainWindow) setupUI() {
	status := widget.NewLabel("")
	mw.statusLabel = status

	content := container.NewBorder(
		container.NewVBox(mw.createToolbar(), widget.NewSeparator()),
		container.NewBorder(nil, nil, mw.createClipBar(), status),
		nil, nil,
		mw.roll,
	)
	mw.window.SetContent(content)
	mw.updateStatus()
}

// ============ TOOLBAR ============

func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.playBtn = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() {
		mw.togglePlayback()
	})
	rewindBtn := widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), func() {
		mw.trans.SetPlayheadBeat(0)
		mw.view.PlayheadBeat = 0
		mw.view.ScrollToPosition(0)
		mw.roll.Refresh()
	})

	tempoEntry := widget.NewEntry()
	tempoEntry.SetText(strconv.FormatFloat(mw.trans.Tempo(), 'f', -1, 64))
	tempoEntry.OnSubmitted = func(s string) {
		bpm, err := strconv.ParseFloat(s, 64)
		if err != nil || bpm <= 0 {
			tempoEntry.SetText(strconv.FormatFloat(mw.trans.Tempo(), 'f', -1, 64))
			return
		}
		mw.trans.SetTempo(bpm)
	}

	sigSelect := widget.NewSelect([]string{"4/4", "3/4", "6/8", "5/4", "7/8"}, func(selected string) {
		var n, d int
		if _, err := fmt.Sscanf(selected, "%d/%d", &n, &d); err == nil {
			mw.trans.SetTimeSignature(n, d)
			mw.roll.Refresh()
		}
	})
	n, d := mw.trans.TimeSignature()
	sigSelect.SetSelected(fmt.Sprintf("%d/%d", n, d))

	quantSelect := widget.NewSelect(pianoroll.QuantizationNames, func(selected string) {
		mw.grid.Quantization = pianoroll.ParseQuantization(selected)
		mw.roll.Refresh()
	})
	quantSelect.SetSelected(mw.grid.Quantization.String())

	snapCheck := widget.NewCheck("Snap", func(checked bool) {
		mw.grid.Snap = checked
	})
	snapCheck.Checked = mw.grid.Snap

	gridCheck := widget.NewCheck("Grid", func(checked bool) {
		mw.grid.ShowGrid = checked
		mw.roll.Refresh()
	})
	gridCheck.Checked = mw.grid.ShowGrid

	mw.velocity = widget.NewSlider(0, 1)
	mw.velocity.Step = 0.01
	mw.velocity.Value = 0.8
	mw.velocity.OnChanged = func(v float64) {
		mw.session.SetSelectedVelocity(v)
	}

	quantizeBtn := widget.NewButtonWithIcon("Quantize", theme.ViewRefreshIcon(), func() {
		mw.session.QuantizeSelected()
	})
	zoomFitBtn := widget.NewButtonWithIcon("Fit", theme.ZoomFitIcon(), func() {
		mw.zoomToFit()
	})

	upBtn := widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() {
		mw.session.TransposeSelected(1)
	})
	downBtn := widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() {
		mw.session.TransposeSelected(-1)
	})
	octUpBtn := widget.NewButton("+8va", func() {
		mw.session.TransposeSelected(12)
	})
	octDownBtn := widget.NewButton("-8va", func() {
		mw.session.TransposeSelected(-12)
	})

	previewSelect := widget.NewSelect(append([]string{"(None)"}, mw.midiManager.ListOutPorts()...), func(selected string) {
		if selected == "(None)" {
			mw.cfg.PreviewPort = ""
		} else {
			mw.cfg.PreviewPort = selected
		}
	})
	if mw.cfg.PreviewPort == "" {
		previewSelect.SetSelected("(None)")
	} else {
		previewSelect.SetSelected(mw.cfg.PreviewPort)
	}

	return container.NewHBox(
		mw.playBtn, rewindBtn,
		widget.NewLabel("BPM:"), tempoEntry, sigSelect,
		widget.NewSeparator(),
		quantSelect, snapCheck, gridCheck, quantizeBtn,
		widget.NewSeparator(),
		upBtn, downBtn, octUpBtn, octDownBtn,
		widget.NewSeparator(),
		widget.NewLabel("Vel:"), mw.velocity,
		zoomFitBtn,
		widget.NewSeparator(),
		widget.NewLabel("Preview:"), previewSelect,
	)
}

// ============ CLIP LIBRARY ============

func (mw *MainWindow) createClipBar() fyne.CanvasObject {
	mw.clipSelect = widget.NewSelect(mw.clipNames(), nil)
	mw.clipSelect.SetSelected(mw.currentClipName())
	mw.clipSelect.OnChanged = func(selected string) {
		mw.switchClip(selected)
	}

	newBtn := widget.NewButtonWithIcon("New", theme.ContentAddIcon(), func() {
		mw.createClip()
	})
	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		mw.deleteCurrentClip()
	})
	saveBtn := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		mw.persist()
	})
	saveBtn.Importance = widget.HighImportance

	return container.NewHBox(
		widget.NewLabel("Clip:"), mw.clipSelect, newBtn, deleteBtn, saveBtn,
	)
}

func (mw *MainWindow) clipNames() []string {
	names := make([]string, len(mw.cfg.Clips))
	for i, c := range mw.cfg.Clips {
		names[i] = c.Name
	}
	return names
}

func (mw *MainWindow) currentClipName() string {
	if clip := mw.cfg.GetCurrentClip(); clip != nil {
		return clip.Name
	}
	return ""
}

func (mw *MainWindow) switchClip(name string) {
	if name == mw.currentClipName() {
		return
	}
	mw.snapshotCurrentClip()
	for i := range mw.cfg.Clips {
		if mw.cfg.Clips[i].Name == name {
			mw.cfg.CurrentClipID = mw.cfg.Clips[i].ID
			mw.store.SetAll(mw.cfg.Clips[i].ToNotes())
			mw.trans.SetTempo(mw.cfg.Clips[i].Tempo)
			mw.roll.Refresh()
			return
		}
	}
}

func (mw *MainWindow) createClip() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Clip Name")
	entry.SetText("New Clip")

	dialog.ShowCustomConfirm("Create New Clip", "Create", "Cancel",
		container.NewVBox(widget.NewLabel("Enter a name for the new clip:"), entry),
		func(confirm bool) {
			if !confirm || entry.Text == "" {
				return
			}
			mw.snapshotCurrentClip()
			clip := config.NewClipRecord(entry.Text)
			clip.Tempo = mw.trans.Tempo()
			mw.cfg.AddClip(clip)
			mw.store.Clear()
			mw.clipSelect.Options = mw.clipNames()
			mw.clipSelect.SetSelected(clip.Name)
			mw.roll.Refresh()
		}, mw.window)
}

func (mw *MainWindow) deleteCurrentClip() {
	if len(mw.cfg.Clips) <= 1 {
		dialog.ShowInformation("Cannot Delete", "You must have at least one clip.", mw.window)
		return
	}
	clip := mw.cfg.GetCurrentClip()
	if clip == nil {
		return
	}

	dialog.ShowConfirm("Delete Clip", "Are you sure you want to delete '"+clip.Name+"'?",
		func(confirm bool) {
			if !confirm {
				return
			}
			mw.cfg.RemoveClip(clip.ID)
			mw.clipSelect.Options = mw.clipNames()
			mw.clipSelect.SetSelected(mw.currentClipName())
			if current := mw.cfg.GetCurrentClip(); current != nil {
				mw.store.SetAll(current.ToNotes())
				mw.trans.SetTempo(current.Tempo)
			}
			mw.roll.Refresh()
		}, mw.window)
}

func (mw *MainWindow) snapshotCurrentClip() {
	if clip := mw.cfg.GetCurrentClip(); clip != nil {
		clip.SetNotes(mw.store.All())
		clip.Tempo = mw.trans.Tempo()
	}
}

// ============ KEYBOARD INPUT ============

func (mw *MainWindow) setupShortcuts() {
	canv := mw.window.Canvas()

	if deskCanvas, ok := canv.(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			mw.heldMods |= modifierForKey(ev.Name)
		})
		deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			mw.heldMods &^= modifierForKey(ev.Name)
		})
	}

	canv.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.session.DeleteSelected()
		case fyne.KeySpace:
			mw.togglePlayback()
		}
	})

	canv.AddShortcut(&fyne.ShortcutCopy{}, func(fyne.Shortcut) {
		mw.session.CopySelected()
	})
	canv.AddShortcut(&fyne.ShortcutPaste{}, func(fyne.Shortcut) {
		mw.session.Paste()
	})
	canv.AddShortcut(&fyne.ShortcutSelectAll{}, func(fyne.Shortcut) {
		mw.store.SelectAll()
		mw.roll.Refresh()
	})
	canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyD, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) {
		mw.session.DuplicateSelected()
	})
	canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyQ, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) {
		mw.session.QuantizeSelected()
	})
}

func modifierForKey(name fyne.KeyName) pianoroll.Modifier {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return pianoroll.ModShift
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		return pianoroll.ModAlt
	case desktop.KeySuperLeft, desktop.KeySuperRight,
		desktop.KeyControlLeft, desktop.KeyControlRight:
		return pianoroll.ModSuper
	}
	return 0
}

// ============ PLAYBACK ============

func (mw *MainWindow) togglePlayback() {
	if mw.trans.Playing() {
		mw.trans.Stop()
		mw.playBtn.SetIcon(theme.MediaPlayIcon())
	} else {
		mw.trans.Play()
		mw.playBtn.SetIcon(theme.MediaStopIcon())
	}
}

func (mw *MainWindow) previewPitch(pitch int) {
	if mw.cfg.PreviewPort == "" {
		return
	}
	go func() {
		if err := mw.midiManager.PreviewNote(mw.cfg.PreviewPort, pitch, previewVelocity, 300*time.Millisecond); err != nil {
			log.Printf("Failed to preview note: %v", err)
		}
	}()
}

func (mw *MainWindow) zoomToFit() {
	width := mw.roll.Size().Width - float32(mw.view.KeyboardWidth)
	mw.session.ZoomToFit(float64(width))
}

func (mw *MainWindow) updateStatus() {
	selected := len(mw.store.SelectedNotes())
	if selected > 0 {
		mw.statusLabel.SetText(fmt.Sprintf("%d notes, %d selected", mw.store.Len(), selected))
	} else {
		mw.statusLabel.SetText(fmt.Sprintf("%d notes", mw.store.Len()))
	}
}

func (mw *MainWindow) persist() {
	mw.snapshotCurrentClip()
	mw.cfg.SetGridConfig(*mw.grid)
	mw.cfg.SnapshotView(mw.view)
	if err := mw.cfg.Save(); err != nil {
		log.Printf("Failed to save config: %v", err)
		return
	}
	log.Printf("Saved %d clips", len(mw.cfg.Clips))
}

// Show displays the window
func (mw *MainWindow) Show() {
	mw.window.Show()
}

// Window returns the underlying fyne.Window
func (mw *MainWindow) Window() fyne.Window {
	return mw.window
}
