package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"property-extractor/models"
)

// WriteJSONFile mirrors the record set as an array of objects keyed by
// canonical field name, for machine consumption alongside the CSV.
func WriteJSONFile(path string, records []models.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("json: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("json: create file %q: %w", path, err)
	}

	// Records serialize as plain maps; the canonical key set is identical
	// on every record, so consumers get a stable schema.
	out := make([]map[string]string, len(records))
	for i, record := range records {
		out[i] = record
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		_ = f.Close()
		return fmt.Errorf("json: encode records: %w", err)
	}
	return f.Close()
}
