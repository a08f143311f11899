// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"marker-maker/internal/app"
	"marker-maker/internal/config"
	"marker-maker/internal/image"
	"marker-maker/internal/logging"
	"marker-maker/internal/marker"
	"marker-maker/internal/version"
	"marker-maker/ui/canvas"
)

const (
	appTitle       = "Map Marker Maker"
	prefKeyLastDir = "lastDirectory"
)

// clipboard adapts the fyne clipboard to marker.Clipboard.
type clipboard struct {
	cb fyne.Clipboard
}

func (c clipboard) WriteText(text string) error {
	if c.cb == nil {
		return marker.ErrNoClipboard
	}
	c.cb.SetContent(text)
	return nil
}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	log   zerolog.Logger

	canvas    *canvas.MarkerCanvas
	jsonLabel *widget.Label
	copyBtn   *widget.Button
	placeBtn  *widget.Button
	statusBar *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, settings config.Settings) *MainWindow {
	win := fyneApp.NewWindow(appTitle)
	if settings.WindowWidth > 0 && settings.WindowHeight > 0 {
		win.Resize(fyne.NewSize(settings.WindowWidth, settings.WindowHeight))
	}

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		log:    logging.WithComponent("mainwindow"),
	}
	state.SetClipboard(clipboard{cb: win.Clipboard()})

	mw.setupUI(settings)
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.refreshJSON()
	mw.refreshStatus()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI(settings config.Settings) {
	mw.canvas = canvas.NewMarkerCanvas(mw.state, settings.MarkerSize)

	mw.statusBar = widget.NewLabel("Open an image to start placing markers")

	mw.jsonLabel = widget.NewLabel("[]")
	mw.jsonLabel.TextStyle = fyne.TextStyle{Monospace: true}
	jsonScroll := container.NewVScroll(mw.jsonLabel)
	jsonScroll.SetMinSize(fyne.NewSize(0, 160))

	mw.copyBtn = widget.NewButtonWithIcon("Copy", theme.ContentCopyIcon(), mw.onCopy)

	jsonHeader := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("Marker Positions (JSON):", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		mw.copyBtn,
	)
	jsonPanel := container.NewBorder(jsonHeader, nil, nil, nil, jsonScroll)

	split := container.NewVSplit(
		container.NewBorder(mw.createToolbar(), nil, nil, nil, mw.canvas),
		jsonPanel,
	)
	split.SetOffset(0.75)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with image, zoom and marker controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	openBtn := widget.NewButtonWithIcon("Open Image", theme.FolderOpenIcon(), mw.onOpenImage)
	zoomInBtn := widget.NewButtonWithIcon("Zoom In", theme.ZoomInIcon(), mw.state.ZoomIn)
	zoomOutBtn := widget.NewButtonWithIcon("Zoom Out", theme.ZoomOutIcon(), mw.state.ZoomOut)
	resetBtn := widget.NewButtonWithIcon("Reset View", theme.ViewRefreshIcon(), mw.state.ResetView)
	mw.placeBtn = widget.NewButtonWithIcon("Add Marker", theme.ContentAddIcon(), mw.state.TogglePlacing)

	return container.NewHBox(
		openBtn,
		widget.NewSeparator(),
		zoomInBtn,
		zoomOutBtn,
		resetBtn,
		widget.NewSeparator(),
		mw.placeBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Copy Markers as JSON", mw.onCopy),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.state.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.state.ZoomOut),
		fyne.NewMenuItem("Reset View", mw.state.ResetView),
	)

	markersMenu := fyne.NewMenu("Markers",
		fyne.NewMenuItem("Add Marker", mw.state.StartPlacing),
		fyne.NewMenuItem("Cancel Placement", mw.state.CancelPlacing),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, markersMenu, helpMenu))
}

// setupShortcuts binds keyboard shortcuts on the window canvas.
func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			mw.state.CancelPlacing()
		}
	})
	c.SetOnTypedRune(func(r rune) {
		switch r {
		case '+', '=':
			mw.state.ZoomIn()
		case '-':
			mw.state.ZoomOut()
		case '0':
			mw.state.ResetView()
		case 'm':
			mw.state.TogglePlacing()
		}
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { mw.onOpenImage() })
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		src := mw.state.Image()
		if src == nil {
			mw.canvas.SetImage(nil)
			return
		}
		mw.canvas.SetImage(src.Image)
		if name, ok := data.(string); ok && name != "" {
			mw.SetTitle(appTitle + " - " + filepath.Base(name))
		}
	})

	mw.state.On(app.EventMarkersChanged, func(interface{}) {
		mw.refreshJSON()
		mw.refreshStatus()
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventViewChanged, func(interface{}) {
		mw.refreshStatus()
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventModeChanged, func(data interface{}) {
		if mode, ok := data.(marker.Mode); ok {
			if mode.Kind == marker.PlacingMarker {
				mw.placeBtn.Importance = widget.HighImportance
			} else {
				mw.placeBtn.Importance = widget.MediumImportance
			}
			mw.placeBtn.Refresh()
		}
		mw.refreshStatus()
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventCopyStatusChanged, func(data interface{}) {
		status, _ := data.(marker.CopyStatus)
		switch status {
		case marker.CopyCopied:
			mw.copyBtn.SetText("Copied!")
			mw.copyBtn.SetIcon(theme.ConfirmIcon())
		case marker.CopyFailed:
			mw.copyBtn.SetText("Copy failed")
			mw.copyBtn.SetIcon(theme.ErrorIcon())
		default:
			mw.copyBtn.SetText("Copy")
			mw.copyBtn.SetIcon(theme.ContentCopyIcon())
		}
	})
}

// OpenImage loads the image at path and reports failures in a dialog.
func (mw *MainWindow) OpenImage(path string) {
	if err := mw.state.LoadImage(path); err != nil {
		mw.log.Error().Err(err).Str("path", path).Msg("Failed to load image")
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.saveLastDir(path)
}

// refreshJSON updates the JSON panel.
func (mw *MainWindow) refreshJSON() {
	mw.jsonLabel.SetText(mw.state.ExportJSON())
}

// refreshStatus updates the status bar text.
func (mw *MainWindow) refreshStatus() {
	if mw.state.Image() == nil {
		mw.statusBar.SetText("Open an image to start placing markers")
		return
	}

	sum := mw.state.Summary()
	text := fmt.Sprintf("%d markers", sum.Count)
	if sum.Count == 1 {
		text = "1 marker"
	}
	if sum.Count > 0 {
		text += fmt.Sprintf("  |  centroid (%.1f%%, %.1f%%)", sum.Centroid.X, sum.Centroid.Y)
	}
	if sum.Count > 1 {
		text += fmt.Sprintf("  spread %.1f", sum.Spread)
	}
	text += fmt.Sprintf("  |  zoom %.0f%%", mw.state.View().Scale*100)
	if mw.state.Mode().Kind == marker.PlacingMarker {
		text += "  |  click the image to place a marker (Esc cancels)"
	}
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		mw.OpenImage(path)
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(image.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onCopy() {
	// Failures are shown on the copy button.
	_ = mw.state.CopyMarkers()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Place markers on an image and export their\n"+
			"positions as percentages of the image size.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
