package marker

import (
	"marker-maker/pkg/geometry"
)

// Options configures a Controller.
type Options struct {
	Zoom ZoomLimits
	IDs  IDSource // nil uses wall-clock IDs
}

// Controller owns the marker store, the view transform and the interaction
// mode, and applies pointer and toolbar input to them. It is not safe for
// concurrent use; all calls are expected from the UI goroutine.
//
// No operation fails. Input that cannot be mapped (no image geometry) is
// ignored.
type Controller struct {
	store *Store
	view  ViewTransform
	mode  Mode
	zoom  ZoomLimits

	// pointer minus offset, recorded when a pan starts
	panDelta geometry.Point2D
}

// NewController creates a controller in Idle mode with an identity view.
func NewController(opts Options) *Controller {
	return &Controller{
		store: NewStore(opts.IDs),
		view:  IdentityView(),
		zoom:  opts.Zoom.normalized(),
	}
}

// Mode returns the current interaction mode.
func (c *Controller) Mode() Mode { return c.mode }

// View returns the current view transform.
func (c *Controller) View() ViewTransform { return c.view }

// Markers returns the markers in store order.
func (c *Controller) Markers() []Marker { return c.store.All() }

// Marker returns a single marker by ID.
func (c *Controller) Marker(id int64) (Marker, bool) { return c.store.Get(id) }

// ZoomLimits returns the zoom configuration in effect.
func (c *Controller) ZoomLimits() ZoomLimits { return c.zoom }

// LoadImage resets the session for a newly loaded image: markers are
// cleared, the view returns to identity and the mode to Idle.
func (c *Controller) LoadImage() {
	c.store.Clear()
	c.view = IdentityView()
	c.mode = Mode{}
	c.panDelta = geometry.Point2D{}
}

// StartPlacing arms placement: the next click on the image drops a marker.
// Ignored while a drag or pan is in progress.
func (c *Controller) StartPlacing() bool {
	if c.mode.Kind != Idle {
		return false
	}
	c.mode = Mode{Kind: PlacingMarker}
	return true
}

// CancelPlacing leaves placement mode without adding a marker.
func (c *Controller) CancelPlacing() bool {
	if c.mode.Kind != PlacingMarker {
		return false
	}
	c.mode = Mode{}
	return true
}

// Click handles a click on the image surface. In placement mode it appends
// a marker at the mapped position and returns to Idle.
func (c *Controller) Click(pointer geometry.Point2D, rect geometry.Rect) (Marker, bool) {
	if c.mode.Kind != PlacingMarker {
		return Marker{}, false
	}
	p, ok := ToPercent(pointer, rect)
	if !ok {
		return Marker{}, false
	}
	m := c.store.Add(p)
	c.mode = Mode{}
	return m, true
}

// PressMarker starts dragging the marker with the given ID. A pending
// placement is folded into the drag. The caller must not forward the same
// press to PressCanvas.
func (c *Controller) PressMarker(id int64) bool {
	if c.mode.Kind != Idle && c.mode.Kind != PlacingMarker {
		return false
	}
	if _, ok := c.store.Get(id); !ok {
		return false
	}
	c.mode = Mode{Kind: DraggingMarker, MarkerID: id}
	return true
}

// PressCanvas starts panning from a press on the canvas background. In
// placement mode the press is absorbed so the following click places.
func (c *Controller) PressCanvas(pointer geometry.Point2D) bool {
	if c.mode.Kind != Idle {
		return false
	}
	c.panDelta = pointer.Sub(c.view.Offset())
	c.mode = Mode{Kind: PanningCanvas}
	return true
}

// Move applies a pointer move. While dragging, the marker takes the mapped
// position (last write wins). While panning, the offset follows the pointer.
// Returns true if markers or view changed.
func (c *Controller) Move(pointer geometry.Point2D, rect geometry.Rect) bool {
	switch c.mode.Kind {
	case DraggingMarker:
		p, ok := ToPercent(pointer, rect)
		if !ok {
			return false
		}
		return c.store.Move(c.mode.MarkerID, p)
	case PanningCanvas:
		c.view = c.view.WithOffset(pointer.Sub(c.panDelta))
		return true
	default:
		return false
	}
}

// Release ends a drag or pan on pointer-up.
func (c *Controller) Release() bool {
	switch c.mode.Kind {
	case DraggingMarker, PanningCanvas:
		c.mode = Mode{}
		return true
	default:
		return false
	}
}

// Leave ends a drag or pan when the pointer leaves the canvas.
func (c *Controller) Leave() bool {
	return c.Release()
}

// Delete removes the marker with the given ID in any mode. If that marker
// was being dragged the mode returns to Idle.
func (c *Controller) Delete(id int64) bool {
	if !c.store.Remove(id) {
		return false
	}
	if c.mode.Kind == DraggingMarker && c.mode.MarkerID == id {
		c.mode = Mode{}
	}
	return true
}

// ZoomIn multiplies the scale by the zoom step.
func (c *Controller) ZoomIn() {
	c.view = c.view.Zoom(true, c.zoom)
}

// ZoomOut divides the scale by the zoom step.
func (c *Controller) ZoomOut() {
	c.view = c.view.Zoom(false, c.zoom)
}

// ResetView restores scale 1 and offset (0, 0).
func (c *Controller) ResetView() {
	c.view = IdentityView()
}

// Cursor returns the pointer affordance for the current mode.
// hoveringMarker tells whether the pointer is over a marker handle.
func (c *Controller) Cursor(hoveringMarker bool) Cursor {
	switch c.mode.Kind {
	case PlacingMarker:
		return CursorCrosshair
	case DraggingMarker:
		return CursorGrabbing
	}
	if hoveringMarker {
		return CursorGrab
	}
	return CursorMove
}

// ProjectedMarker is a marker together with its viewport position.
type ProjectedMarker struct {
	Marker
	Screen geometry.Point2D
}

// Frame is the per-frame snapshot handed to the renderer.
type Frame struct {
	Markers     []ProjectedMarker
	View        ViewTransform
	ImageRect   geometry.Rect
	Mode        Mode
	MarkerScale float64
}

// Frame projects the markers for an image whose untransformed layout size
// is base.
func (c *Controller) Frame(base geometry.Size) Frame {
	rect := c.view.ImageRect(base)
	markers := c.store.All()
	projected := make([]ProjectedMarker, len(markers))
	for i, m := range markers {
		projected[i] = ProjectedMarker{Marker: m, Screen: FromPercent(m.Position(), rect)}
	}
	return Frame{
		Markers:     projected,
		View:        c.view,
		ImageRect:   rect,
		Mode:        c.mode,
		MarkerScale: c.view.MarkerScale(),
	}
}
