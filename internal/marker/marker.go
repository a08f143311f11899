// Package marker implements the marker canvas controller: the marker store,
// the view transform, the pointer-to-image coordinate mapping, the
// interaction state machine, and the JSON export of marker positions.
//
// All coordinates stored in a Marker are percentages of the displayed image
// width and height, so they do not depend on zoom, pan, or display size.
package marker

import (
	"sync"
	"time"

	"marker-maker/pkg/geometry"
)

// Marker is a user-placed point of interest on the image.
type Marker struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"` // percent of image width, 0-100
	Y  float64 `json:"y"` // percent of image height, 0-100
}

// Position returns the marker coordinates as a point in percent space.
func (m Marker) Position() geometry.Point2D {
	return geometry.Point2D{X: m.X, Y: m.Y}
}

// IDSource returns a fresh marker identifier on each call.
type IDSource func() int64

// NewClockIDs returns an IDSource based on wall-clock milliseconds. When the
// clock has not advanced past the last issued ID, the next ID is last+1, so
// IDs are strictly increasing within a session.
func NewClockIDs(now func() time.Time) IDSource {
	if now == nil {
		now = time.Now
	}
	var (
		mu   sync.Mutex
		last int64
	)
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		id := now().UnixMilli()
		if id <= last {
			id = last + 1
		}
		last = id
		return id
	}
}

// NewSequentialIDs returns an IDSource counting up from start.
func NewSequentialIDs(start int64) IDSource {
	next := start
	return func() int64 {
		id := next
		next++
		return id
	}
}

// Store is the ordered in-memory marker list. Order is insertion order.
type Store struct {
	markers []Marker
	nextID  IDSource
}

// NewStore creates an empty store. A nil source uses wall-clock IDs.
func NewStore(ids IDSource) *Store {
	if ids == nil {
		ids = NewClockIDs(nil)
	}
	return &Store{nextID: ids}
}

// Add appends a marker at p (clamped to percent space) with a fresh ID.
func (s *Store) Add(p geometry.Point2D) Marker {
	m := Marker{
		ID: s.nextID(),
		X:  clampPercent(p.X),
		Y:  clampPercent(p.Y),
	}
	s.markers = append(s.markers, m)
	return m
}

// Move overwrites the coordinates of the marker with the given ID.
// Returns false if no such marker exists.
func (s *Store) Move(id int64, p geometry.Point2D) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.markers[i].X = clampPercent(p.X)
	s.markers[i].Y = clampPercent(p.Y)
	return true
}

// Remove deletes the marker with the given ID, keeping the order of the rest.
func (s *Store) Remove(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.markers = append(s.markers[:i], s.markers[i+1:]...)
	return true
}

// Get returns the marker with the given ID.
func (s *Store) Get(id int64) (Marker, bool) {
	i := s.index(id)
	if i < 0 {
		return Marker{}, false
	}
	return s.markers[i], true
}

// All returns a copy of the markers in store order. Never nil.
func (s *Store) All() []Marker {
	out := make([]Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

// Len returns the number of markers.
func (s *Store) Len() int {
	return len(s.markers)
}

// Clear removes all markers. Issued IDs are not reused.
func (s *Store) Clear() {
	s.markers = nil
}

func (s *Store) index(id int64) int {
	for i := range s.markers {
		if s.markers[i].ID == id {
			return i
		}
	}
	return -1
}
