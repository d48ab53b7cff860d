package storage

import "property-extractor/models"

// RecordWriter is the interface any record sink must satisfy.
type RecordWriter interface {
	Write(records []models.Record) error
	Close() error
}
