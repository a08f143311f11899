package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marker-maker/pkg/geometry"
)

// imageRect is a 200x100 image drawn at the origin.
var imageRect = geometry.NewRect(0, 0, 200, 100)

func newTestController() *Controller {
	return NewController(Options{IDs: NewSequentialIDs(1)})
}

func place(t *testing.T, c *Controller, x, y float64) Marker {
	t.Helper()
	require.True(t, c.StartPlacing())
	m, ok := c.Click(geometry.NewPoint2D(x, y), imageRect)
	require.True(t, ok)
	return m
}

func TestController_PlaceThenExport(t *testing.T) {
	c := newTestController()

	m := place(t, c, 100, 50)
	assert.Equal(t, Idle, c.Mode().Kind)

	out, err := ExportString(c.Markers())
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": 1,\n    \"x\": 50,\n    \"y\": 50\n  }\n]", out)
	assert.Equal(t, int64(1), m.ID)
}

func TestController_ClickOutsidePlacementIsIgnored(t *testing.T) {
	c := newTestController()

	_, ok := c.Click(geometry.NewPoint2D(10, 10), imageRect)
	assert.False(t, ok)
	assert.Empty(t, c.Markers())
}

func TestController_PlacementWithoutGeometryStaysArmed(t *testing.T) {
	c := newTestController()
	require.True(t, c.StartPlacing())

	_, ok := c.Click(geometry.NewPoint2D(10, 10), geometry.Rect{})
	assert.False(t, ok)
	assert.Equal(t, PlacingMarker, c.Mode().Kind)
}

func TestController_CancelPlacing(t *testing.T) {
	c := newTestController()

	assert.False(t, c.CancelPlacing())
	require.True(t, c.StartPlacing())
	assert.True(t, c.CancelPlacing())
	assert.Equal(t, Idle, c.Mode().Kind)

	_, ok := c.Click(geometry.NewPoint2D(10, 10), imageRect)
	assert.False(t, ok)
}

func TestController_DragKeepsOnlyFinalPosition(t *testing.T) {
	c := newTestController()
	m := place(t, c, 20, 20)

	require.True(t, c.PressMarker(m.ID))
	assert.Equal(t, Mode{Kind: DraggingMarker, MarkerID: m.ID}, c.Mode())

	for _, p := range []geometry.Point2D{{X: 40, Y: 10}, {X: 60, Y: 30}, {X: 150, Y: 75}} {
		assert.True(t, c.Move(p, imageRect))
	}
	require.True(t, c.Release())

	got, ok := c.Marker(m.ID)
	require.True(t, ok)
	assert.Equal(t, Marker{ID: m.ID, X: 75, Y: 75}, got)
	assert.Len(t, c.Markers(), 1)
	assert.Equal(t, Idle, c.Mode().Kind)
}

func TestController_DragClampsOutsideImage(t *testing.T) {
	c := newTestController()
	m := place(t, c, 100, 50)

	require.True(t, c.PressMarker(m.ID))
	c.Move(geometry.NewPoint2D(-500, 900), imageRect)
	c.Leave()

	got, _ := c.Marker(m.ID)
	assert.Equal(t, 0.0, got.X)
	assert.Equal(t, 100.0, got.Y)
}

func TestController_DragFoldsPlacement(t *testing.T) {
	c := newTestController()
	m := place(t, c, 100, 50)

	require.True(t, c.StartPlacing())
	require.True(t, c.PressMarker(m.ID))
	c.Release()

	_, ok := c.Click(geometry.NewPoint2D(10, 10), imageRect)
	assert.False(t, ok, "placement must be cancelled once a drag starts")
	assert.Len(t, c.Markers(), 1)
}

func TestController_PressUnknownMarker(t *testing.T) {
	c := newTestController()
	assert.False(t, c.PressMarker(42))
	assert.Equal(t, Idle, c.Mode().Kind)
}

func TestController_DragSuppressesPan(t *testing.T) {
	c := newTestController()
	m := place(t, c, 100, 50)

	require.True(t, c.PressMarker(m.ID))
	assert.False(t, c.PressCanvas(geometry.NewPoint2D(0, 0)))
	c.Move(geometry.NewPoint2D(50, 50), imageRect)

	assert.Equal(t, IdentityView(), c.View())
}

func TestController_Pan(t *testing.T) {
	c := newTestController()

	require.True(t, c.PressCanvas(geometry.NewPoint2D(100, 100)))
	assert.Equal(t, PanningCanvas, c.Mode().Kind)
	c.Move(geometry.NewPoint2D(130, 90), imageRect)
	c.Move(geometry.NewPoint2D(150, 120), imageRect)
	require.True(t, c.Release())

	assert.Equal(t, ViewTransform{Scale: 1, OffsetX: 50, OffsetY: 20}, c.View())

	// A second pan continues from the current offset.
	require.True(t, c.PressCanvas(geometry.NewPoint2D(0, 0)))
	c.Move(geometry.NewPoint2D(-10, 5), imageRect)
	c.Leave()
	assert.Equal(t, ViewTransform{Scale: 1, OffsetX: 40, OffsetY: 25}, c.View())
}

func TestController_PressCanvasWhilePlacingIsAbsorbed(t *testing.T) {
	c := newTestController()
	require.True(t, c.StartPlacing())

	assert.False(t, c.PressCanvas(geometry.NewPoint2D(10, 10)))
	c.Move(geometry.NewPoint2D(80, 80), imageRect)
	c.Release()

	assert.Equal(t, IdentityView(), c.View())
	_, ok := c.Click(geometry.NewPoint2D(50, 50), imageRect)
	assert.True(t, ok)
}

func TestController_DeleteRemovesOnlyThatMarker(t *testing.T) {
	c := newTestController()
	a := place(t, c, 10, 10)
	b := place(t, c, 20, 20)
	d := place(t, c, 30, 30)

	require.True(t, c.Delete(b.ID))
	assert.Equal(t, []int64{a.ID, d.ID}, ids(c.Markers()))
	assert.False(t, c.Delete(b.ID))
}

func TestController_DeleteWhileDraggingEndsDrag(t *testing.T) {
	c := newTestController()
	m := place(t, c, 10, 10)

	require.True(t, c.PressMarker(m.ID))
	require.True(t, c.Delete(m.ID))
	assert.Equal(t, Idle, c.Mode().Kind)
	assert.False(t, c.Move(geometry.NewPoint2D(5, 5), imageRect))
}

func TestController_DeleteWhilePlacingKeepsPlacement(t *testing.T) {
	c := newTestController()
	m := place(t, c, 10, 10)

	require.True(t, c.StartPlacing())
	require.True(t, c.Delete(m.ID))
	assert.Equal(t, PlacingMarker, c.Mode().Kind)
}

func TestController_ZoomPanDoNotMoveMarkers(t *testing.T) {
	c := newTestController()
	place(t, c, 50, 25)
	before := c.Markers()

	c.ZoomIn()
	c.ZoomIn()
	c.PressCanvas(geometry.NewPoint2D(0, 0))
	c.Move(geometry.NewPoint2D(300, -200), imageRect)
	c.Release()
	c.ZoomOut()

	assert.Equal(t, before, c.Markers())
}

func TestController_ResetAfterAnySequence(t *testing.T) {
	c := newTestController()

	c.ZoomIn()
	c.PressCanvas(geometry.NewPoint2D(10, 10))
	c.Move(geometry.NewPoint2D(70, 90), imageRect)
	c.Release()
	c.ZoomOut()
	c.ZoomOut()
	c.ZoomOut()

	c.ResetView()
	assert.Equal(t, ViewTransform{Scale: 1}, c.View())
}

func TestController_ZoomSequence(t *testing.T) {
	c := newTestController()
	c.ZoomIn()
	c.ZoomIn()
	assert.InDelta(t, 2.25, c.View().Scale, 1e-12)
	c.ZoomOut()
	assert.InDelta(t, 1.5, c.View().Scale, 1e-12)
}

func TestController_LoadImageResets(t *testing.T) {
	c := newTestController()
	place(t, c, 10, 10)
	c.ZoomIn()
	c.StartPlacing()

	c.LoadImage()

	assert.Empty(t, c.Markers())
	assert.Equal(t, IdentityView(), c.View())
	assert.Equal(t, Idle, c.Mode().Kind)

	m := place(t, c, 10, 10)
	assert.Equal(t, int64(2), m.ID, "IDs are never reused")
}

func TestController_StartPlacingIgnoredWhileBusy(t *testing.T) {
	c := newTestController()
	c.PressCanvas(geometry.NewPoint2D(0, 0))
	assert.False(t, c.StartPlacing())
	assert.Equal(t, PanningCanvas, c.Mode().Kind)
}

func TestController_Cursor(t *testing.T) {
	c := newTestController()
	assert.Equal(t, CursorMove, c.Cursor(false))
	assert.Equal(t, CursorGrab, c.Cursor(true))

	c.StartPlacing()
	assert.Equal(t, CursorCrosshair, c.Cursor(true))

	m, _ := c.Click(geometry.NewPoint2D(10, 10), imageRect)
	c.PressMarker(m.ID)
	assert.Equal(t, CursorGrabbing, c.Cursor(false))
}

func TestController_FrameProjectsMarkers(t *testing.T) {
	c := newTestController()
	place(t, c, 100, 50)
	c.ZoomIn()

	f := c.Frame(geometry.NewSize(200, 100))
	require.Len(t, f.Markers, 1)
	assert.Equal(t, geometry.NewRect(0, 0, 300, 150), f.ImageRect)
	assert.Equal(t, geometry.NewPoint2D(150, 75), f.Markers[0].Screen)
	assert.InDelta(t, 1/1.5, f.MarkerScale, 1e-12)
	assert.Equal(t, Idle, f.Mode.Kind)
}
