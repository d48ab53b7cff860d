package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"property-extractor/models"
)

// PostgresWriter persists finalized property records to PostgreSQL. The sink
// is optional; file output is always the primary artifact.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	var cols strings.Builder
	for _, field := range models.CanonicalFields {
		cols.WriteString(field)
		cols.WriteString(" TEXT NOT NULL DEFAULT '',\n\t\t\t")
	}

	_, err := pw.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS property_records (
			id         SERIAL PRIMARY KEY,
			%s
			dedup_key  TEXT UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_property_records_parcel  ON property_records(parcel_number);
		CREATE INDEX IF NOT EXISTS idx_property_records_address ON property_records(property_address);
		CREATE INDEX IF NOT EXISTS idx_property_records_owner   ON property_records(owner_name);
	`, cols.String()))
	return err
}

// Write batch-inserts records, skipping any whose dedup key already exists.
func (pw *PostgresWriter) Write(records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := pw.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.Record) error {
	width := len(models.CanonicalFields) + 1 // +1 for dedup_key
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*width)

	for idx, record := range batch {
		placeholders := make([]string, width)
		for j := 0; j < width; j++ {
			placeholders[j] = fmt.Sprintf("$%d", idx*width+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		for _, field := range models.CanonicalFields {
			valueArgs = append(valueArgs, record.Get(field))
		}
		// NULL dedup key for unidentifiable rows so UNIQUE never collides.
		if key := record.DedupKey(); key != "" {
			valueArgs = append(valueArgs, key)
		} else {
			valueArgs = append(valueArgs, sql.NullString{})
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO property_records (%s, dedup_key)
		VALUES %s
		ON CONFLICT (dedup_key) DO NOTHING
	`, strings.Join(models.CanonicalFields, ", "), strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// Close releases the database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
