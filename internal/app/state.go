// Package app provides application state, events, and theming.
package app

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"marker-maker/internal/image"
	"marker-maker/internal/marker"
	"marker-maker/pkg/geometry"
)

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventMarkersChanged
	EventViewChanged
	EventModeChanged
	EventCopyStatusChanged
)

func (e EventType) String() string {
	switch e {
	case EventImageLoaded:
		return "image-loaded"
	case EventMarkersChanged:
		return "markers-changed"
	case EventViewChanged:
		return "view-changed"
	case EventModeChanged:
		return "mode-changed"
	case EventCopyStatusChanged:
		return "copy-status-changed"
	default:
		return "unknown"
	}
}

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Options configures a State.
type Options struct {
	Zoom        marker.ZoomLimits
	IDs         marker.IDSource
	Clipboard   marker.Clipboard
	RevertAfter time.Duration
}

// State holds the loaded image and the marker session, and notifies
// listeners when either changes. Marker and view operations must be called
// from the UI goroutine.
type State struct {
	mu sync.RWMutex

	controller *marker.Controller
	images     *image.Library
	current    image.Handle
	copier     *marker.Copier

	// Event listeners
	listeners map[EventType][]EventListener
}

// NewState creates a new application state.
func NewState(opts Options) *State {
	s := &State{
		controller: marker.NewController(marker.Options{Zoom: opts.Zoom, IDs: opts.IDs}),
		images:     image.NewLibrary(),
		copier:     marker.NewCopier(opts.Clipboard, opts.RevertAfter),
		listeners:  make(map[EventType][]EventListener),
	}
	s.copier.OnChange(func(status marker.CopyStatus) {
		s.Emit(EventCopyStatusChanged, status)
	})
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetClipboard sets the clipboard used by CopyMarkers.
func (s *State) SetClipboard(clipboard marker.Clipboard) {
	s.copier.SetClipboard(clipboard)
}

// LoadImage decodes the image at path and starts a new marker session on it.
func (s *State) LoadImage(path string) error {
	h, err := s.images.Open(path)
	if err != nil {
		return err
	}
	s.replaceImage(h, path)
	return nil
}

// LoadImageReader decodes an image from r and starts a new marker session.
func (s *State) LoadImageReader(r io.Reader, name string) error {
	h, err := s.images.OpenReader(r)
	if err != nil {
		return err
	}
	s.replaceImage(h, name)
	return nil
}

// replaceImage makes h current and releases the previous image.
func (s *State) replaceImage(h image.Handle, name string) {
	s.mu.Lock()
	prev := s.current
	s.current = h
	s.mu.Unlock()

	if prev.Valid() {
		if err := s.images.Release(prev); err != nil {
			log.Warn().Err(err).Msg("Failed to release previous image")
		}
	}

	s.controller.LoadImage()
	log.Info().Str("image", name).Uint64("handle", uint64(h)).Msg("Image loaded")

	s.Emit(EventImageLoaded, name)
	s.Emit(EventMarkersChanged, s.controller.Markers())
	s.Emit(EventViewChanged, s.controller.View())
	s.Emit(EventModeChanged, s.controller.Mode())
}

// Image returns the current image source, or nil if none is loaded.
func (s *State) Image() *image.Source {
	s.mu.RLock()
	h := s.current
	s.mu.RUnlock()
	if !h.Valid() {
		return nil
	}
	src, err := s.images.Source(h)
	if err != nil {
		return nil
	}
	return src
}

// LoadedImages returns the number of decoded images kept alive.
func (s *State) LoadedImages() int {
	return s.images.Len()
}

// Mode returns the current interaction mode.
func (s *State) Mode() marker.Mode { return s.controller.Mode() }

// View returns the current view transform.
func (s *State) View() marker.ViewTransform { return s.controller.View() }

// Markers returns the markers in placement order.
func (s *State) Markers() []marker.Marker { return s.controller.Markers() }

// Summary returns marker statistics for the status bar.
func (s *State) Summary() marker.Summary { return marker.Summarize(s.controller.Markers()) }

// Frame returns the render snapshot for an image laid out at base size.
func (s *State) Frame(base geometry.Size) marker.Frame { return s.controller.Frame(base) }

// Cursor returns the pointer affordance for the current mode.
func (s *State) Cursor(hoveringMarker bool) marker.Cursor {
	return s.controller.Cursor(hoveringMarker)
}

// StartPlacing arms marker placement.
func (s *State) StartPlacing() {
	s.track(func() bool { s.controller.StartPlacing(); return false }, false)
}

// CancelPlacing leaves placement mode.
func (s *State) CancelPlacing() {
	s.track(func() bool { s.controller.CancelPlacing(); return false }, false)
}

// TogglePlacing arms placement when idle and cancels it when armed.
func (s *State) TogglePlacing() {
	if s.controller.Mode().Kind == marker.PlacingMarker {
		s.CancelPlacing()
		return
	}
	s.StartPlacing()
}

// Click forwards a click on the image surface.
func (s *State) Click(pointer geometry.Point2D, rect geometry.Rect) {
	s.track(func() bool {
		m, ok := s.controller.Click(pointer, rect)
		if ok {
			log.Debug().Int64("id", m.ID).Float64("x", m.X).Float64("y", m.Y).Msg("Marker placed")
		}
		return ok
	}, false)
}

// PressMarker starts dragging a marker.
func (s *State) PressMarker(id int64) {
	s.track(func() bool { s.controller.PressMarker(id); return false }, false)
}

// PressCanvas starts panning.
func (s *State) PressCanvas(pointer geometry.Point2D) {
	s.track(func() bool { s.controller.PressCanvas(pointer); return false }, false)
}

// Move forwards a pointer move.
func (s *State) Move(pointer geometry.Point2D, rect geometry.Rect) {
	kind := s.controller.Mode().Kind
	if !s.controller.Move(pointer, rect) {
		return
	}
	switch kind {
	case marker.DraggingMarker:
		s.Emit(EventMarkersChanged, s.controller.Markers())
	case marker.PanningCanvas:
		s.Emit(EventViewChanged, s.controller.View())
	}
}

// Release ends a drag or pan on pointer-up.
func (s *State) Release() {
	s.track(func() bool { s.controller.Release(); return false }, false)
}

// Leave ends a drag or pan when the pointer leaves the canvas.
func (s *State) Leave() {
	s.track(func() bool { s.controller.Leave(); return false }, false)
}

// Delete removes a marker.
func (s *State) Delete(id int64) {
	s.track(func() bool {
		ok := s.controller.Delete(id)
		if ok {
			log.Debug().Int64("id", id).Msg("Marker deleted")
		}
		return ok
	}, false)
}

// ZoomIn zooms in by one step.
func (s *State) ZoomIn() {
	s.track(func() bool { s.controller.ZoomIn(); return false }, true)
}

// ZoomOut zooms out by one step.
func (s *State) ZoomOut() {
	s.track(func() bool { s.controller.ZoomOut(); return false }, true)
}

// ResetView restores scale 1 and zero offset.
func (s *State) ResetView() {
	s.track(func() bool { s.controller.ResetView(); return false }, true)
}

// ExportJSON returns the marker list as pretty-printed JSON.
func (s *State) ExportJSON() string {
	text, err := marker.ExportString(s.controller.Markers())
	if err != nil {
		log.Error().Err(err).Msg("Failed to export markers")
		return "[]"
	}
	return text
}

// CopyMarkers copies the JSON export to the clipboard.
func (s *State) CopyMarkers() error {
	err := s.copier.Copy(s.controller.Markers())
	if err != nil {
		log.Warn().Err(err).Msg("Copy to clipboard failed")
		return err
	}
	log.Debug().Int("markers", len(s.controller.Markers())).Msg("Copied markers to clipboard")
	return nil
}

// CopyStatus returns the transient copy result.
func (s *State) CopyStatus() marker.CopyStatus {
	return s.copier.Status()
}

// Close stops pending timers.
func (s *State) Close() {
	s.copier.Stop()
}

// track runs op and emits events for what changed. op reports whether
// markers changed; viewChanged is set by callers that touch the view.
func (s *State) track(op func() bool, viewChanged bool) {
	modeBefore := s.controller.Mode()
	viewBefore := s.controller.View()

	markersChanged := op()

	if markersChanged {
		s.Emit(EventMarkersChanged, s.controller.Markers())
	}
	if viewChanged && s.controller.View() != viewBefore {
		s.Emit(EventViewChanged, s.controller.View())
	}
	if mode := s.controller.Mode(); mode != modeBefore {
		log.Debug().Stringer("from", modeBefore).Stringer("to", mode).Msg("Interaction mode changed")
		s.Emit(EventModeChanged, mode)
	}
}
