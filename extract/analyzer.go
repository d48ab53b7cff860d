// Package extract turns a classified page snapshot into property records.
package extract

import (
	"sort"
	"strings"

	"property-extractor/browser"
)

// StructureKind classifies how a page presents its data.
type StructureKind string

const (
	KindTabular      StructureKind = "tabular"
	KindContainer    StructureKind = "record-container"
	KindUnstructured StructureKind = "unstructured-text"
)

// Classification is the result of analyzing one rendered page. Candidates are
// ordered by confidence; it is built fresh per page visit and discarded after
// extraction.
type Classification struct {
	Kind       StructureKind
	Tables     []browser.Handle
	Containers []browser.Handle
}

// structureKeywords mark a table as carrying record data rather than layout.
var structureKeywords = []string{"property", "address", "owner", "value", "parcel", "account"}

// containerQueries are tried in order; the first query yielding more than one
// element wins. A single match is usually a page wrapper, not a repeated
// record, so it never qualifies.
var containerQueries = []string{
	".property-result",
	".result-item",
	".search-result",
	"[data-property]",
	".property-card",
	".listing",
	"[class*='result']",
	"[class*='property']",
	"[class*='record']",
	"[id*='result']",
}

// Classify determines the structure kind of a snapshot and ranks candidate
// regions. The result is deterministic for a fixed page render.
func Classify(snap *browser.Snapshot) Classification {
	if tables := qualifyingTables(snap); len(tables) > 0 {
		return Classification{Kind: KindTabular, Tables: tables}
	}

	for _, query := range containerQueries {
		if els := snap.FindAll(query); len(els) > 1 {
			return Classification{Kind: KindContainer, Containers: els}
		}
	}

	return Classification{Kind: KindUnstructured}
}

type rankedTable struct {
	handle   browser.Handle
	rows     int
	docOrder int
}

// qualifyingTables returns data tables ranked by row count, document order
// breaking ties. A table qualifies with at least a header plus one data row
// and aggregate text containing a record keyword; that filters layout tables.
func qualifyingTables(snap *browser.Snapshot) []browser.Handle {
	var ranked []rankedTable
	for i, table := range snap.FindAll("table") {
		rows := table.FindAll("tr")
		if len(rows) < 2 {
			continue
		}
		text := strings.ToLower(table.Text())
		if !containsAny(text, structureKeywords) {
			continue
		}
		ranked = append(ranked, rankedTable{handle: table, rows: len(rows), docOrder: i})
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].rows != ranked[b].rows {
			return ranked[a].rows > ranked[b].rows
		}
		return ranked[a].docOrder < ranked[b].docOrder
	})

	handles := make([]browser.Handle, len(ranked))
	for i, t := range ranked {
		handles[i] = t.handle
	}
	return handles
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
