package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/destinations.json
var embeddedJSON []byte

// Embedded is the Source bundled into the binary.
type Embedded struct{}

// Load decodes the bundled destination data.
func (Embedded) Load(_ context.Context) (map[string]Entry, error) {
	return Decode(embeddedJSON)
}

// Decode parses a JSON object of destination name to Entry.
func Decode(raw []byte) (map[string]Entry, error) {
	var entries map[string]Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding catalog json: %w", err)
	}
	return entries, nil
}
