// Package patterns is the single source of field-matching heuristics shared by
// every extraction path: keyword synonyms for header mapping and regex
// extractors for free-text sweeps.
package patterns

import (
	"regexp"
	"strings"

	"property-extractor/models"
)

// Extractor is one regex extraction rule. Extractors for a field are tried in
// order and the first match wins. Group selects the capture group carrying the
// value (0 = whole match).
type Extractor struct {
	Pattern *regexp.Regexp
	Group   int
}

// fieldPriority fixes the tie-break order for header keyword matching. Several
// keyword sets overlap ("value", "sale", "mail ... address", "city"), so the
// first field whose keywords match a header claims the column. Specific fields
// are listed before generic ones: mailing fields before property_address so
// "Mailing Address" does not bind to the property address, sale_date before
// sale_price so "Sale Date" is not claimed by the "sale" synonym, and the
// named value fields before the catch-all property_value.
var fieldPriority = []string{
	models.FieldParcelNumber,
	models.FieldMailCityStateZip,
	models.FieldMailAddress,
	models.FieldPropertyAddress,
	models.FieldOwnerName,
	models.FieldMunicipality,
	models.FieldHomesteaded,
	models.FieldSaleDate,
	models.FieldSalePrice,
	models.FieldAssessedValue,
	models.FieldMarketValue,
	models.FieldTaxableValue,
	models.FieldPropertyValue,
	models.FieldSquareFootage,
	models.FieldAcres,
	models.FieldLotSize,
	models.FieldYearBuilt,
	models.FieldZoning,
	models.FieldPropertyType,
}

// fieldKeywords lists lower-case substrings that identify each field in a
// column header. Matching is case-insensitive containment, never equality:
// "Sq. Ft", "SqFt" and "Square Footage" must all resolve to square_footage.
var fieldKeywords = map[string][]string{
	models.FieldParcelNumber:     {"parcel", "pcn", "folio"},
	models.FieldMailCityStateZip: {"mail city", "city state zip", "city, state", "owner city", "mail state", "mail zip"},
	models.FieldMailAddress:      {"mailing", "mail", "owner address"},
	models.FieldPropertyAddress:  {"address", "location", "street", "situs", "site"},
	models.FieldOwnerName:        {"owner", "taxpayer", "name"},
	models.FieldMunicipality:     {"municipality", "city", "jurisdiction"},
	models.FieldHomesteaded:      {"homestead"},
	models.FieldSaleDate:         {"sale date", "sold date", "date sold", "date"},
	models.FieldSalePrice:        {"sale price", "last sale", "sale", "sold", "price"},
	models.FieldAssessedValue:    {"assessed", "assessment"},
	models.FieldMarketValue:      {"market", "just value"},
	models.FieldTaxableValue:     {"taxable"},
	models.FieldPropertyValue:    {"value", "appraised"},
	models.FieldSquareFootage:    {"sqft", "sq ft", "sq. ft", "square", "footage", "living area", "building area"},
	models.FieldAcres:            {"acre"},
	models.FieldLotSize:          {"lot", "land"},
	models.FieldYearBuilt:        {"year built", "built", "construction"},
	models.FieldZoning:           {"zoning", "zone"},
	models.FieldPropertyType:     {"type", "use", "class"},
}

var fieldExtractors = map[string][]Extractor{
	models.FieldPropertyAddress: {
		{regexp.MustCompile(`(?i)\b(\d+\s+[A-Z][A-Z ]*?\b(?:ST|AVE|RD|DR|LN|CT|PL|WAY|BLVD|CIR|TER|HWY)\b(?:\s+(?:APT|UNIT|STE)\s*\w+)?)`), 1},
		{regexp.MustCompile(`(?i)\b(\d+\s+[A-Z][A-Za-z ]+?\b(?:STREET|AVENUE|ROAD|DRIVE|LANE|COURT|PLACE|WAY|BOULEVARD|CIRCLE|TERRACE)\b)`), 1},
		{regexp.MustCompile(`(?i)(?:property address|site address|location)[:\s]+([^\n\r]+)`), 1},
	},
	models.FieldOwnerName: {
		{regexp.MustCompile(`(?i)owner(?: name)?[:\s]+([^\n\r]+)`), 1},
		{regexp.MustCompile(`(?i)taxpayer[:\s]+([^\n\r]+)`), 1},
	},
	models.FieldParcelNumber: {
		{regexp.MustCompile(`\b(\d{2}-\d{4}-\d{3}-\d{4})\b`), 1},
		{regexp.MustCompile(`(?i)(?:parcel|pcn|folio)[:\s#]*([A-Z0-9][A-Z0-9-]{4,})`), 1},
	},
	models.FieldSalePrice: {
		{regexp.MustCompile(`(?i)(?:sale price|last sale|sold for)[:\s]*(\$[\d,]+(?:\.\d{2})?)`), 1},
		{regexp.MustCompile(`(?i)sale[:\s]*(\$[\d,]+)`), 1},
	},
	models.FieldSaleDate: {
		{regexp.MustCompile(`(?i)(?:sale|sold)(?: date)?[:\s]*(\d{1,2}/\d{1,2}/\d{4})`), 1},
		{regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`), 1},
		{regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`), 1},
	},
	models.FieldAssessedValue: {
		{regexp.MustCompile(`(?i)assessed(?: value)?[:\s]*(\$?[\d,]+)`), 1},
	},
	models.FieldMarketValue: {
		{regexp.MustCompile(`(?i)(?:market|just) value[:\s]*(\$?[\d,]+)`), 1},
	},
	models.FieldTaxableValue: {
		{regexp.MustCompile(`(?i)taxable(?: value)?[:\s]*(\$?[\d,]+)`), 1},
	},
	models.FieldPropertyValue: {
		{regexp.MustCompile(`(?i)(?:total|property|appraised) value[:\s]*(\$?[\d,]+)`), 1},
		{regexp.MustCompile(`(\$\d[\d,]*(?:\.\d{2})?)`), 1},
	},
	models.FieldSquareFootage: {
		{regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*|\d+)\s*(?:sq\.?\s*ft\.?|sqft|square\s*feet)`), 1},
		{regexp.MustCompile(`(?i)(?:sqft|sq\.?\s*ft\.?|square footage)[:\s]*(\d{1,3}(?:,\d{3})*|\d+)`), 1},
	},
	models.FieldLotSize: {
		{regexp.MustCompile(`(?i)lot size[:\s]*([\d,]+)`), 1},
		{regexp.MustCompile(`(?i)land area[:\s]*([\d,]+)`), 1},
		{regexp.MustCompile(`(?i)([\d,]+)\s*sq\s*ft\s*lot`), 1},
	},
	models.FieldAcres: {
		{regexp.MustCompile(`(?i)\b(\d+\.?\d*)\s*acres?\b`), 1},
		{regexp.MustCompile(`(?i)acres?[:\s]*(\d+\.?\d*)`), 1},
	},
	models.FieldYearBuilt: {
		{regexp.MustCompile(`(?i)(?:year built|built|constructed)[:\s]*((?:19|20)\d{2})`), 1},
	},
	models.FieldMunicipality: {
		{regexp.MustCompile(`(?i)municipality[:\s]+([^\n\r]+)`), 1},
	},
	models.FieldMailCityStateZip: {
		{regexp.MustCompile(`([A-Z][A-Z ]+,\s*[A-Z]{2}\s+\d{5}(?:-\d{4})?)`), 1},
	},
	models.FieldHomesteaded: {
		{regexp.MustCompile(`(?i)homestead(?:ed)?[:\s]*(yes|no|y|n)\b`), 1},
		{regexp.MustCompile(`(?i)(homestead exemption)`), 1},
	},
	models.FieldZoning: {
		{regexp.MustCompile(`(?i)zoning[:\s]*([A-Z0-9-]+)`), 1},
	},
	models.FieldPropertyType: {
		{regexp.MustCompile(`(?i)property (?:type|use)[:\s]+([^\n\r]+)`), 1},
	},
}

// Fields returns the canonical fields that participate in header mapping and
// regex extraction, in fixed priority order.
func Fields() []string {
	out := make([]string, len(fieldPriority))
	copy(out, fieldPriority)
	return out
}

// KeywordsFor returns the header keyword synonyms for a field.
func KeywordsFor(field string) []string {
	return fieldKeywords[field]
}

// ExtractorsFor returns the ordered regex extractors for a field.
func ExtractorsFor(field string) []Extractor {
	return fieldExtractors[field]
}

// MatchField returns the first field in priority order whose keywords appear
// in the given header text, or "" when no field matches.
func MatchField(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" {
		return ""
	}
	for _, field := range fieldPriority {
		for _, kw := range fieldKeywords[field] {
			if strings.Contains(h, kw) {
				return field
			}
		}
	}
	return ""
}

// Extract runs the field's extractors against text and returns the first
// captured value, or "".
func Extract(field, text string) string {
	for _, ex := range fieldExtractors[field] {
		m := ex.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if ex.Group < len(m) {
			return strings.TrimSpace(m[ex.Group])
		}
	}
	return ""
}
