package marker

import (
	"encoding/json"
	"fmt"
)

const exportIndent = "  "

// Export serializes markers as a pretty-printed JSON array of {id, x, y}
// objects in the given order. An empty list exports as "[]".
func Export(markers []Marker) ([]byte, error) {
	if markers == nil {
		markers = []Marker{}
	}
	data, err := json.MarshalIndent(markers, "", exportIndent)
	if err != nil {
		return nil, fmt.Errorf("marshal markers: %w", err)
	}
	return data, nil
}

// ExportString is Export returning text.
func ExportString(markers []Marker) (string, error) {
	data, err := Export(markers)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
