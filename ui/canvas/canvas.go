// Package canvas provides an image canvas with pan, zoom, and draggable markers.
package canvas

import (
	"image"
	"math"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"marker-maker/internal/marker"
	"marker-maker/pkg/colorutil"
	"marker-maker/pkg/geometry"
)

// Controller receives the interpreted pointer input of the canvas and
// provides what to draw.
type Controller interface {
	Frame(base geometry.Size) marker.Frame
	Cursor(hoveringMarker bool) marker.Cursor

	Click(pointer geometry.Point2D, rect geometry.Rect)
	PressMarker(id int64)
	PressCanvas(pointer geometry.Point2D)
	Move(pointer geometry.Point2D, rect geometry.Rect)
	Release()
	Leave()
	Delete(id int64)
	ZoomIn()
	ZoomOut()
}

// MarkerCanvas displays an image under a pan/zoom transform with markers
// drawn on top at constant screen size.
type MarkerCanvas struct {
	widget.BaseWidget

	ctrl Controller
	img  image.Image
	geom MarkerGeometry

	raster *fynecanvas.Raster

	// Interaction state
	hover       Hit
	suppressTap bool // set when a press was consumed by a delete button
}

var (
	_ fyne.Widget        = (*MarkerCanvas)(nil)
	_ fyne.Tappable      = (*MarkerCanvas)(nil)
	_ fyne.Draggable     = (*MarkerCanvas)(nil)
	_ fyne.Scrollable    = (*MarkerCanvas)(nil)
	_ desktop.Mouseable  = (*MarkerCanvas)(nil)
	_ desktop.Hoverable  = (*MarkerCanvas)(nil)
	_ desktop.Cursorable = (*MarkerCanvas)(nil)
)

// NewMarkerCanvas creates a canvas driving ctrl. markerSize is the on-screen
// marker diameter; non-positive uses DefaultMarkerSize.
func NewMarkerCanvas(ctrl Controller, markerSize float64) *MarkerCanvas {
	if markerSize <= 0 {
		markerSize = DefaultMarkerSize
	}
	mc := &MarkerCanvas{
		ctrl: ctrl,
		geom: MarkerGeometry{Size: markerSize},
	}
	mc.raster = fynecanvas.NewRaster(mc.draw)
	mc.raster.ScaleMode = fynecanvas.ImageScalePixels
	mc.ExtendBaseWidget(mc)
	return mc
}

// SetImage sets the image to display. nil clears the canvas.
func (mc *MarkerCanvas) SetImage(img image.Image) {
	mc.img = img
	mc.hover = Hit{}
	mc.Refresh()
}

// imageSize returns the intrinsic size of the current image.
func (mc *MarkerCanvas) imageSize() geometry.Size {
	if mc.img == nil {
		return geometry.Size{}
	}
	b := mc.img.Bounds()
	return geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
}

// frame returns the current render snapshot in logical coordinates.
func (mc *MarkerCanvas) frame() marker.Frame {
	size := mc.Size()
	viewport := geometry.NewSize(float64(size.Width), float64(size.Height))
	return mc.ctrl.Frame(BaseSize(mc.imageSize(), viewport))
}

func toPoint(p fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(p.X), float64(p.Y))
}

// MouseDown routes a press to the delete button, a marker handle, or the
// background, in that order. A press on a marker never starts a pan.
func (mc *MarkerCanvas) MouseDown(ev *desktop.MouseEvent) {
	mc.suppressTap = false
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	pos := toPoint(ev.Position)
	hit := HitTest(pos, mc.frame().Markers, mc.geom)
	switch hit.Kind {
	case HitDelete:
		mc.suppressTap = true
		mc.ctrl.Delete(hit.MarkerID)
		mc.hover = Hit{}
	case HitMarker:
		mc.ctrl.PressMarker(hit.MarkerID)
	default:
		mc.ctrl.PressCanvas(pos)
	}
	mc.Refresh()
}

// MouseUp ends a drag or pan.
func (mc *MarkerCanvas) MouseUp(*desktop.MouseEvent) {
	mc.ctrl.Release()
	mc.Refresh()
}

// Tapped handles a click on the image surface.
func (mc *MarkerCanvas) Tapped(ev *fyne.PointEvent) {
	if mc.suppressTap {
		mc.suppressTap = false
		return
	}
	mc.ctrl.Click(toPoint(ev.Position), mc.frame().ImageRect)
	mc.Refresh()
}

// Dragged forwards pointer motion while a button is held.
func (mc *MarkerCanvas) Dragged(ev *fyne.DragEvent) {
	mc.move(toPoint(ev.Position))
}

// DragEnd ends a drag or pan.
func (mc *MarkerCanvas) DragEnd() {
	mc.ctrl.Release()
	mc.Refresh()
}

// MouseIn starts hover tracking.
func (mc *MarkerCanvas) MouseIn(ev *desktop.MouseEvent) {
	mc.move(toPoint(ev.Position))
}

// MouseMoved forwards hover motion.
func (mc *MarkerCanvas) MouseMoved(ev *desktop.MouseEvent) {
	mc.move(toPoint(ev.Position))
}

// MouseOut ends any drag or pan when the pointer leaves the canvas.
func (mc *MarkerCanvas) MouseOut() {
	mc.hover = Hit{}
	mc.ctrl.Leave()
	mc.Refresh()
}

func (mc *MarkerCanvas) move(pos geometry.Point2D) {
	f := mc.frame()
	mc.ctrl.Move(pos, f.ImageRect)
	mc.hover = HitTest(pos, mc.frame().Markers, mc.geom)
	mc.Refresh()
}

// Scrolled zooms with the mouse wheel.
func (mc *MarkerCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		mc.ctrl.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		mc.ctrl.ZoomOut()
	}
	mc.Refresh()
}

// Cursor implements desktop.Cursorable.
func (mc *MarkerCanvas) Cursor() desktop.Cursor {
	switch mc.ctrl.Cursor(mc.hover.Kind != HitNone) {
	case marker.CursorCrosshair:
		return desktop.CrosshairCursor
	case marker.CursorGrab, marker.CursorGrabbing:
		return desktop.PointerCursor
	default:
		return desktop.DefaultCursor
	}
}

// MinSize returns the smallest useful canvas size.
func (mc *MarkerCanvas) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// Refresh redraws the canvas.
func (mc *MarkerCanvas) Refresh() {
	mc.raster.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (mc *MarkerCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(mc.raster)
}

// draw is the raster drawing function. w and h are in device pixels.
func (mc *MarkerCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(output, colorutil.Background)

	size := mc.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return output
	}
	px := float64(w) / float64(size.Width)

	f := mc.frame()
	if mc.img != nil && !f.ImageRect.Empty() {
		dst := image.Rect(
			int(math.Round(f.ImageRect.X*px)),
			int(math.Round(f.ImageRect.Y*px)),
			int(math.Round((f.ImageRect.X+f.ImageRect.Width)*px)),
			int(math.Round((f.ImageRect.Y+f.ImageRect.Height)*px)),
		)
		xdraw.ApproxBiLinear.Scale(output, dst, mc.img, mc.img.Bounds(), xdraw.Over, nil)
	}

	// Glyphs are sized in the image-local box, counter-scaled by the zoom.
	glyph := f.View.ProjectLength(mc.geom.Size*f.MarkerScale) * px
	g := MarkerGeometry{Size: glyph}
	thickness := int(math.Max(1, glyph/16))
	viewport := geometry.NewRect(0, 0, float64(size.Width), float64(size.Height))

	for i, m := range f.Markers {
		if !mc.geom.Visible(m.Screen, viewport) {
			continue
		}
		c := m.Screen.Scale(px)
		col := colorutil.MarkerBlue
		if f.Mode.Kind == marker.DraggingMarker && f.Mode.MarkerID == m.ID {
			col = colorutil.MarkerDrag
		}
		drawDisc(output, c.X, c.Y, g.Radius()+float64(thickness), colorutil.White)
		drawDisc(output, c.X, c.Y, g.Radius(), col)
		drawMoveGlyph(output, c.X, c.Y, g.Radius()*0.55, colorutil.White, thickness)
		drawNumber(output, i+1, int(c.X+g.Radius())+2*thickness, int(c.Y+g.Radius()), colorutil.Black, int(glyph/12))

		if mc.hover.Kind != HitNone && mc.hover.MarkerID == m.ID {
			d := g.DeleteCenter(c)
			drawDisc(output, d.X, d.Y, g.DeleteRadius(), colorutil.DeleteRed)
			drawCross(output, d.X, d.Y, g.DeleteRadius()*0.5, colorutil.White, thickness)
		}
	}

	return output
}
