package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"property-extractor/browser"
	"property-extractor/models"
	"property-extractor/patterns"
	"property-extractor/utils"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	minBlockLength  = 50
	maxTextBlocks   = 50
)

// Extractor walks a classified page structure and produces property records.
// A single malformed row, container or block is skipped; it never aborts the
// page.
type Extractor struct {
	logger *utils.Logger
	now    func() time.Time
}

// New creates an Extractor.
func New(logger *utils.Logger) *Extractor {
	return &Extractor{logger: logger, now: time.Now}
}

// ExtractPage produces the records of one classified page. Only records
// carrying at least one identifying field are returned.
func (e *Extractor) ExtractPage(snap *browser.Snapshot, cls Classification, pageNum int) []models.Record {
	switch cls.Kind {
	case KindTabular:
		return e.extractFromTable(cls.Tables[0], pageNum)
	case KindContainer:
		return e.extractFromContainers(cls.Containers, pageNum)
	default:
		return e.extractFromText(snap.FullText(), pageNum)
	}
}

// extractFromTable builds one record per non-header row: header-mapped cells
// first, then a content-sniffing backfill over all of the row's cell text.
func (e *Extractor) extractFromTable(table browser.Handle, pageNum int) []models.Record {
	rows := table.FindAll("tr")
	if len(rows) < 2 {
		return nil
	}

	headerCells := rows[0].FindAll("th")
	if len(headerCells) == 0 {
		headerCells = rows[0].FindAll("td")
	}
	headers := make([]string, len(headerCells))
	for i, cell := range headerCells {
		headers[i] = cell.Text()
	}
	e.logger.Debug("[extract] Table headers: %v", headers)

	mapping := MapHeaders(headers)
	if mapping.LowConfidence() {
		e.logger.Debug("[extract] Low-confidence mapping (%d columns bound), applying position defaults", len(mapping))
		mapping.ApplyPositionDefaults(cellTexts(rows[1]))
	}

	var records []models.Record
	for rowIdx, row := range rows[1:] {
		cells := row.FindAll("td")
		if len(cells) == 0 {
			continue
		}

		record := e.newStampedRecord(pageNum)
		for colIdx, cell := range cells {
			if field, ok := mapping[colIdx]; ok {
				record.Set(field, cleanText(cell.Text()))
			}
		}

		// Backfill pass over every cell, mapped columns included, so data
		// co-located inside a mapped cell is not lost.
		for _, cell := range cells {
			SniffCell(cell.Text(), record)
		}

		setFirstLink(row, record)

		if record.HasIdentity() {
			records = append(records, record)
		} else {
			e.logger.Debug("[extract] Row %d discarded: no identifying field", rowIdx+1)
		}
	}

	e.logger.Info("[extract] Table yielded %d records", len(records))
	return records
}

// extractFromContainers builds one record per container element by running
// the Pattern Library extractors over the container's full text in priority
// order; the first match per field wins.
func (e *Extractor) extractFromContainers(containers []browser.Handle, pageNum int) []models.Record {
	var records []models.Record
	for idx, container := range containers {
		text := container.BlockText()
		if strings.TrimSpace(text) == "" {
			continue
		}

		record := e.newStampedRecord(pageNum)
		applyPatternSweep(text, record)
		setFirstLink(container, record)

		if record.HasIdentity() {
			records = append(records, record)
		} else {
			e.logger.Debug("[extract] Container %d discarded: no identifying field", idx)
		}
	}

	e.logger.Info("[extract] Containers yielded %d records", len(records))
	return records
}

var blockSeparatorRe = regexp.MustCompile(`\n\s*\n|\t\t+|_{3,}|-{3,}|={3,}|(?i)(?:Property|Record)\s*#`)

// extractFromText is the last-resort path: split the page text into blocks,
// keep property-looking ones, and run the regex sweep per block. Block count
// is capped to bound cost on pathological pages.
func (e *Extractor) extractFromText(pageText string, pageNum int) []models.Record {
	blocks := blockSeparatorRe.Split(pageText, -1)

	var records []models.Record
	kept := 0
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if len(block) < minBlockLength || !containsAny(strings.ToLower(block), structureKeywords) {
			continue
		}
		kept++
		if kept > maxTextBlocks {
			e.logger.Warn("[extract] Text block cap (%d) reached, ignoring the rest", maxTextBlocks)
			break
		}

		record := e.newStampedRecord(pageNum)
		applyPatternSweep(block, record)

		if record.HasIdentity() {
			records = append(records, record)
		}
	}

	e.logger.Info("[extract] Text blocks yielded %d records", len(records))
	return records
}

func (e *Extractor) newStampedRecord(pageNum int) models.Record {
	record := models.NewRecord()
	record.Set(models.FieldExtractionDate, e.now().Format(timestampLayout))
	record.Set(models.FieldPageNumber, strconv.Itoa(pageNum))
	return record
}

// applyPatternSweep runs the Pattern Library extractors over free text in
// fixed field priority order, filling only fields that are still empty.
func applyPatternSweep(text string, record models.Record) {
	for _, field := range patterns.Fields() {
		if record.Get(field) != "" {
			continue
		}
		if value := patterns.Extract(field, text); value != "" {
			record.SetIfEmpty(field, normalizeValue(field, value))
		}
	}
}

// setFirstLink stores the first hyperlink target found under the element.
func setFirstLink(el browser.Handle, record models.Record) {
	for _, link := range el.FindAll("a") {
		if href, ok := link.Attr("href"); ok && href != "" {
			record.SetIfEmpty(models.FieldRecordURL, href)
			return
		}
	}
}

func cellTexts(row browser.Handle) []string {
	cells := row.FindAll("td")
	texts := make([]string, len(cells))
	for i, cell := range cells {
		texts[i] = cell.Text()
	}
	return texts
}

var (
	edgePunctRe  = regexp.MustCompile(`^[:\-\s]+|[:\-\s]+$`)
	currencyGap  = regexp.MustCompile(`\$\s+(\d)`)
	innerSpaceRe = regexp.MustCompile(`\s+`)
)

// cleanText collapses whitespace and strips stray punctuation the source
// markup tends to leave around cell values.
func cleanText(text string) string {
	text = innerSpaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	text = edgePunctRe.ReplaceAllString(text, "")
	text = currencyGap.ReplaceAllString(text, "$$$1")
	return text
}

// normalizeValue canonicalizes a handful of extracted values.
func normalizeValue(field, value string) string {
	if field == models.FieldHomesteaded {
		switch strings.ToUpper(value) {
		case "YES", "Y", "HOMESTEAD EXEMPTION":
			return "Yes"
		case "NO", "N":
			return "No"
		}
	}
	return value
}
