package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"property-extractor/models"
)

// utf8BOM makes the file open cleanly in Excel and other spreadsheet tools.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes property records to a CSV file with friendly column
// headers in canonical field order.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the BOM plus header row. Intermediate directories are created
// automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	if _, err := f.Write(utf8BOM); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write BOM: %w", err)
	}

	w := csv.NewWriter(f)

	header := make([]string, len(models.CanonicalFields))
	for i, field := range models.CanonicalFields {
		header[i] = models.FriendlyHeaders[field]
	}
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends records as rows in canonical field order.
func (c *CSVWriter) Write(records []models.Record) error {
	for _, record := range records {
		if err := c.writer.Write(record.Row()); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// WriteCSVFile writes the full record set to path in one shot.
func WriteCSVFile(path string, records []models.Record) error {
	w, err := NewCSVWriter(path)
	if err != nil {
		return err
	}
	if err := w.Write(records); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
