// Package session owns the accumulated record set of one extraction run and
// its durable checkpoints.
package session

import (
	"property-extractor/models"
)

// TerminationReason states why a traversal ended.
type TerminationReason string

const (
	ReasonReachedKnownTotal TerminationReason = "reached_known_total"
	ReasonNoNextAffordance  TerminationReason = "no_next_affordance"
	ReasonEmptyPages        TerminationReason = "three_consecutive_empty_pages"
	ReasonUserInterrupt     TerminationReason = "user_interrupt"
	ReasonMaxPageCap        TerminationReason = "max_page_cap"
	ReasonFatalError        TerminationReason = "fatal_error"
)

// Session accumulates records across pages for the lifetime of one run. It
// has a single owner — the pagination controller's goroutine — and therefore
// needs no locking. Deduplication happens incrementally on append, so memory
// is bounded by the accumulated unique set.
type Session struct {
	records []models.Record
	seen    map[string]struct{}

	CurrentPage int
	TotalPages  int // 0 = unknown
	EmptyStreak int
	Reason      TerminationReason
}

// New creates a Session starting at the given page number.
func New(startPage int) *Session {
	return &Session{
		seen:        make(map[string]struct{}),
		CurrentPage: startPage,
	}
}

// Append adds a page's records, dropping duplicates of anything already
// accumulated, and returns how many records were actually added. The
// consecutive-empty-page counter resets when anything new arrived and
// increments otherwise.
func (s *Session) Append(records []models.Record) int {
	added := 0
	for _, record := range records {
		key := record.DedupKey()
		if key != "" {
			if _, dup := s.seen[key]; dup {
				continue
			}
			s.seen[key] = struct{}{}
		}
		s.records = append(s.records, record)
		added++
	}

	if added > 0 {
		s.EmptyStreak = 0
	} else {
		s.EmptyStreak++
	}
	return added
}

// Records returns the accumulated records in extraction order.
func (s *Session) Records() []models.Record { return s.records }

// Len returns the number of accumulated records.
func (s *Session) Len() int { return len(s.records) }

// Terminate records the first termination reason; later calls are ignored so
// the original cause is preserved through cleanup paths.
func (s *Session) Terminate(reason TerminationReason) {
	if s.Reason == "" {
		s.Reason = reason
	}
}
