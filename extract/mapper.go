package extract

import (
	"property-extractor/models"
	"property-extractor/patterns"
)

// FieldMapping binds raw column indexes to canonical fields. At most one
// field per column; columns matching no field stay unmapped.
type FieldMapping map[int]string

// lowConfidenceThreshold is the minimum number of bound columns below which a
// header-based mapping is distrusted and position-based defaults kick in.
const lowConfidenceThreshold = 3

// MapHeaders builds a FieldMapping from header cell texts. For each column
// the canonical fields are scanned in Pattern Library priority order and the
// first keyword hit claims the column; the same input always produces the
// same mapping.
func MapHeaders(headers []string) FieldMapping {
	mapping := make(FieldMapping)
	for idx, header := range headers {
		if field := patterns.MatchField(header); field != "" {
			mapping[idx] = field
		}
	}
	return mapping
}

// LowConfidence reports whether too few columns were bound for the mapping to
// be trusted on its own.
func (m FieldMapping) LowConfidence() bool {
	return len(m) < lowConfidenceThreshold
}

// ApplyPositionDefaults adds fixed positional guesses for the leading columns
// when header mapping was absent or low-confidence, using the first data
// row's cell contents to choose between the candidates. Columns already
// bound by headers keep their binding.
func (m FieldMapping) ApplyPositionDefaults(firstRow []string) {
	if len(firstRow) > 0 {
		if _, bound := m[0]; !bound && !m.fieldBound(models.FieldSalePrice, models.FieldParcelNumber) {
			if looksLikeCurrency(firstRow[0]) {
				m[0] = models.FieldSalePrice
			} else {
				m[0] = models.FieldParcelNumber
			}
		}
	}
	if len(firstRow) > 1 {
		if _, bound := m[1]; !bound && !m.fieldBound(models.FieldSaleDate, models.FieldAssessedValue) {
			if looksLikeDate(firstRow[1]) {
				m[1] = models.FieldSaleDate
			} else if looksLikeCurrency(firstRow[1]) {
				m[1] = models.FieldAssessedValue
			}
		}
	}
}

func (m FieldMapping) fieldBound(fields ...string) bool {
	for _, bound := range m {
		for _, f := range fields {
			if bound == f {
				return true
			}
		}
	}
	return false
}
