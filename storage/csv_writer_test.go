package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"property-extractor/models"
)

func sampleRecord() models.Record {
	r := models.NewRecord()
	r.Set(models.FieldPropertyAddress, "123 Main St")
	r.Set(models.FieldOwnerName, "Smith John")
	r.Set(models.FieldSalePrice, "$450,000")
	r.Set(models.FieldPageNumber, "1")
	return r
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "records.csv")
	if err := WriteCSVFile(path, []models.Record{sampleRecord()}); err != nil {
		t.Fatalf("WriteCSVFile failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("file does not start with a UTF-8 BOM")
	}

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows; want header + 1 record", len(rows))
	}
	if len(rows[0]) != len(models.CanonicalFields) {
		t.Errorf("header has %d columns; want %d", len(rows[0]), len(models.CanonicalFields))
	}
	if rows[0][0] != "Property Address" {
		t.Errorf("first header = %q; want %q", rows[0][0], "Property Address")
	}
	if rows[1][0] != "123 Main St" {
		t.Errorf("first cell = %q; want %q", rows[1][0], "123 Main St")
	}
}

func TestCSVWriterAppendsAcrossWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	if err := w.Write([]models.Record{sampleRecord()}); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := w.Write([]models.Record{sampleRecord()}); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("got %d rows; want header + 2 records", len(rows))
	}
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	if err := WriteJSONFile(path, []models.Record{sampleRecord()}); err != nil {
		t.Fatalf("WriteJSONFile failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var decoded []map[string]string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d objects; want 1", len(decoded))
	}
	obj := decoded[0]
	if len(obj) != len(models.CanonicalFields) {
		t.Errorf("object has %d keys; want the full canonical set (%d)", len(obj), len(models.CanonicalFields))
	}
	if obj[models.FieldOwnerName] != "Smith John" {
		t.Errorf("owner_name = %q; want %q", obj[models.FieldOwnerName], "Smith John")
	}
}

func TestWriteJSONFileEmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	if err := WriteJSONFile(path, nil); err != nil {
		t.Fatalf("WriteJSONFile(nil) failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var decoded []map[string]string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("got %d objects; want 0", len(decoded))
	}
}
