package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"property-extractor/storage"
	"property-extractor/utils"
)

// CheckpointManager persists the session: disposable snapshots every few
// pages, and a final timestamped CSV + JSON pair. Partial output is always
// preferable to none, so Finalize runs on every termination path.
type CheckpointManager struct {
	dir    string
	every  int
	logger *utils.Logger
	now    func() time.Time

	checkpoints []string
}

// NewCheckpointManager creates a manager writing into dir, snapshotting every
// `every` pages.
func NewCheckpointManager(dir string, every int, logger *utils.Logger) *CheckpointManager {
	if every < 1 {
		every = 1
	}
	return &CheckpointManager{dir: dir, every: every, logger: logger, now: time.Now}
}

// MaybeSnapshot writes a checkpoint when the session's page count hits the
// snapshot interval. Checkpoint failures are logged, never fatal: losing a
// backup must not lose the run.
func (m *CheckpointManager) MaybeSnapshot(s *Session) {
	if s.CurrentPage%m.every != 0 || s.Len() == 0 {
		return
	}
	path, err := m.Snapshot(s)
	if err != nil {
		m.logger.Warn("[checkpoint] Snapshot failed: %v", err)
		return
	}
	m.logger.Info("[checkpoint] Incremental backup saved: %s", path)
}

// Snapshot persists the current accumulated records to a checkpoint file.
func (m *CheckpointManager) Snapshot(s *Session) (string, error) {
	name := fmt.Sprintf("checkpoint_p%03d_%s.csv", s.CurrentPage, m.timestamp())
	path := filepath.Join(m.dir, name)
	if err := storage.WriteCSVFile(path, s.Records()); err != nil {
		return "", err
	}
	m.checkpoints = append(m.checkpoints, path)
	return path, nil
}

// Finalize persists the complete record set as the run's durable output and
// removes the now-redundant checkpoints. It returns the CSV and JSON paths.
func (m *CheckpointManager) Finalize(s *Session) (string, string, error) {
	ts := m.timestamp()
	csvPath := filepath.Join(m.dir, fmt.Sprintf("property_records_%s.csv", ts))
	jsonPath := filepath.Join(m.dir, fmt.Sprintf("property_records_%s.json", ts))

	if err := storage.WriteCSVFile(csvPath, s.Records()); err != nil {
		return "", "", fmt.Errorf("finalize csv: %w", err)
	}
	if err := storage.WriteJSONFile(jsonPath, s.Records()); err != nil {
		return csvPath, "", fmt.Errorf("finalize json: %w", err)
	}

	m.removeCheckpoints()
	return csvPath, jsonPath, nil
}

func (m *CheckpointManager) removeCheckpoints() {
	removed := 0
	for _, path := range m.checkpoints {
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("[checkpoint] Cleaned up %d backup file(s)", removed)
	}
	m.checkpoints = nil
}

func (m *CheckpointManager) timestamp() string {
	return m.now().Format("20060102_150405")
}
