package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marker-maker/internal/app"
	"marker-maker/internal/marker"
	"marker-maker/pkg/geometry"
)

// recordingController logs every call the canvas makes.
type recordingController struct {
	frame  marker.Frame
	cursor marker.Cursor
	calls  []string
}

func (r *recordingController) Frame(geometry.Size) marker.Frame { return r.frame }

func (r *recordingController) Cursor(bool) marker.Cursor { return r.cursor }

func (r *recordingController) Click(pointer geometry.Point2D, _ geometry.Rect) {
	r.calls = append(r.calls, fmt.Sprintf("click %.0f,%.0f", pointer.X, pointer.Y))
}

func (r *recordingController) PressMarker(id int64) {
	r.calls = append(r.calls, fmt.Sprintf("press-marker %d", id))
}

func (r *recordingController) PressCanvas(pointer geometry.Point2D) {
	r.calls = append(r.calls, fmt.Sprintf("press-canvas %.0f,%.0f", pointer.X, pointer.Y))
}

func (r *recordingController) Move(geometry.Point2D, geometry.Rect) {}

func (r *recordingController) Release() { r.calls = append(r.calls, "release") }

func (r *recordingController) Leave() { r.calls = append(r.calls, "leave") }

func (r *recordingController) Delete(id int64) {
	r.calls = append(r.calls, fmt.Sprintf("delete %d", id))
}

func (r *recordingController) ZoomIn() { r.calls = append(r.calls, "zoom-in") }

func (r *recordingController) ZoomOut() { r.calls = append(r.calls, "zoom-out") }

func newRecordingCanvas(t *testing.T) (*MarkerCanvas, *recordingController) {
	t.Helper()
	test.NewApp()
	ctrl := &recordingController{
		frame: marker.Frame{
			Markers:   []marker.ProjectedMarker{projected(1, 100, 100)},
			ImageRect: geometry.NewRect(0, 0, 400, 200),
		},
	}
	return NewMarkerCanvas(ctrl, DefaultMarkerSize), ctrl
}

func press(p geometry.Point2D, button desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(float32(p.X), float32(p.Y))},
		Button:     button,
	}
}

func tap(p geometry.Point2D) *fyne.PointEvent {
	return &fyne.PointEvent{Position: fyne.NewPos(float32(p.X), float32(p.Y))}
}

func TestMarkerCanvas_DeletePressSuppressesTap(t *testing.T) {
	mc, ctrl := newRecordingCanvas(t)
	del := MarkerGeometry{Size: DefaultMarkerSize}.DeleteCenter(geometry.NewPoint2D(100, 100))

	mc.MouseDown(press(del, desktop.MouseButtonPrimary))
	assert.Equal(t, []string{"delete 1"}, ctrl.calls, "delete must not start a drag or pan")

	mc.MouseUp(press(del, desktop.MouseButtonPrimary))
	mc.Tapped(tap(del))
	assert.Equal(t, []string{"delete 1", "release"}, ctrl.calls, "tap after delete must not click")

	mc.Tapped(tap(geometry.NewPoint2D(10, 10)))
	assert.Equal(t, "click 10,10", ctrl.calls[len(ctrl.calls)-1], "only one tap is suppressed")
}

func TestMarkerCanvas_PressRouting(t *testing.T) {
	tests := []struct {
		name   string
		pos    geometry.Point2D
		button desktop.MouseButton
		want   []string
	}{
		{"marker handle", geometry.NewPoint2D(100, 100), desktop.MouseButtonPrimary, []string{"press-marker 1"}},
		{"handle edge", geometry.NewPoint2D(85, 100), desktop.MouseButtonPrimary, []string{"press-marker 1"}},
		{"background", geometry.NewPoint2D(10, 10), desktop.MouseButtonPrimary, []string{"press-canvas 10,10"}},
		{"secondary button", geometry.NewPoint2D(100, 100), desktop.MouseButtonSecondary, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc, ctrl := newRecordingCanvas(t)
			mc.MouseDown(press(tt.pos, tt.button))
			assert.Equal(t, tt.want, ctrl.calls)
		})
	}
}

func TestMarkerCanvas_ScrollZooms(t *testing.T) {
	mc, ctrl := newRecordingCanvas(t)

	mc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 1)})
	mc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, -1)})
	mc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(3, 0)})

	assert.Equal(t, []string{"zoom-in", "zoom-out"}, ctrl.calls)
}

func TestMarkerCanvas_MouseOutLeaves(t *testing.T) {
	mc, ctrl := newRecordingCanvas(t)
	mc.MouseOut()
	assert.Equal(t, []string{"leave"}, ctrl.calls)
}

func TestMarkerCanvas_Cursor(t *testing.T) {
	mc, ctrl := newRecordingCanvas(t)

	ctrl.cursor = marker.CursorCrosshair
	assert.Equal(t, desktop.CrosshairCursor, mc.Cursor())
	ctrl.cursor = marker.CursorGrab
	assert.Equal(t, desktop.PointerCursor, mc.Cursor())
	ctrl.cursor = marker.CursorMove
	assert.Equal(t, desktop.DefaultCursor, mc.Cursor())
}

// newStateCanvas returns a 400x200 canvas showing an 8x4 image, so the
// image covers the whole canvas at identity view.
func newStateCanvas(t *testing.T) (*MarkerCanvas, *app.State) {
	t.Helper()
	test.NewApp()

	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 8, 4))))

	s := app.NewState(app.Options{IDs: marker.NewSequentialIDs(1), RevertAfter: time.Hour})
	t.Cleanup(s.Close)
	require.NoError(t, s.LoadImageReader(buf, "map.png"))

	mc := NewMarkerCanvas(s, DefaultMarkerSize)
	mc.SetImage(s.Image().Image)
	mc.Resize(fyne.NewSize(400, 200))
	return mc, s
}

func TestMarkerCanvas_PlacingAbsorbsBackgroundPress(t *testing.T) {
	mc, s := newStateCanvas(t)
	pos := geometry.NewPoint2D(50, 50)

	s.StartPlacing()
	mc.MouseDown(press(pos, desktop.MouseButtonPrimary))
	assert.Equal(t, marker.PlacingMarker, s.Mode().Kind, "press must not start a pan")

	mc.MouseUp(press(pos, desktop.MouseButtonPrimary))
	mc.Tapped(tap(pos))

	markers := s.Markers()
	require.Len(t, markers, 1)
	assert.InDelta(t, 12.5, markers[0].X, 1e-9)
	assert.InDelta(t, 25, markers[0].Y, 1e-9)
	assert.Equal(t, marker.Idle, s.Mode().Kind)
	assert.Equal(t, marker.IdentityView(), s.View())
}

func TestMarkerCanvas_DragMarkerInsteadOfPan(t *testing.T) {
	mc, s := newStateCanvas(t)
	s.StartPlacing()
	mc.Tapped(tap(geometry.NewPoint2D(50, 50)))
	require.Len(t, s.Markers(), 1)

	mc.MouseDown(press(geometry.NewPoint2D(50, 50), desktop.MouseButtonPrimary))
	assert.Equal(t, marker.DraggingMarker, s.Mode().Kind)

	mc.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 100)},
		Dragged:    fyne.NewDelta(50, 50),
	})
	mc.DragEnd()

	m := s.Markers()[0]
	assert.InDelta(t, 25, m.X, 1e-9)
	assert.InDelta(t, 50, m.Y, 1e-9)
	assert.Equal(t, marker.IdentityView(), s.View(), "view must not pan")
	assert.Equal(t, marker.Idle, s.Mode().Kind)
}

func TestMarkerCanvas_DeleteWhilePlacingDoesNotPlace(t *testing.T) {
	mc, s := newStateCanvas(t)
	s.StartPlacing()
	mc.Tapped(tap(geometry.NewPoint2D(50, 50)))
	require.Len(t, s.Markers(), 1)

	s.StartPlacing()
	del := MarkerGeometry{Size: DefaultMarkerSize}.DeleteCenter(geometry.NewPoint2D(50, 50))
	mc.MouseDown(press(del, desktop.MouseButtonPrimary))
	mc.MouseUp(press(del, desktop.MouseButtonPrimary))
	mc.Tapped(tap(del))

	assert.Empty(t, s.Markers())
	assert.Equal(t, marker.PlacingMarker, s.Mode().Kind, "placement stays armed")
}
