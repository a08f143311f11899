package marker

import "fmt"

// ModeKind identifies how pointer events are currently interpreted.
type ModeKind int

const (
	Idle ModeKind = iota
	PlacingMarker
	DraggingMarker
	PanningCanvas
)

func (k ModeKind) String() string {
	switch k {
	case Idle:
		return "idle"
	case PlacingMarker:
		return "placing"
	case DraggingMarker:
		return "dragging"
	case PanningCanvas:
		return "panning"
	default:
		return "unknown"
	}
}

// Mode is the interaction state. MarkerID is only meaningful when Kind is
// DraggingMarker.
type Mode struct {
	Kind     ModeKind
	MarkerID int64
}

func (m Mode) String() string {
	if m.Kind == DraggingMarker {
		return fmt.Sprintf("dragging(%d)", m.MarkerID)
	}
	return m.Kind.String()
}

// Cursor is the pointer affordance the renderer should show.
type Cursor int

const (
	CursorMove Cursor = iota
	CursorCrosshair
	CursorGrab
	CursorGrabbing
)

func (c Cursor) String() string {
	switch c {
	case CursorCrosshair:
		return "crosshair"
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	default:
		return "move"
	}
}
