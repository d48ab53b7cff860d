package models

import "strings"

// Canonical field names. Every Record carries all of them; an empty string
// means the value is unknown. The order here is the output column order.
const (
	FieldPropertyAddress  = "property_address"
	FieldOwnerName        = "owner_name"
	FieldMunicipality     = "municipality"
	FieldParcelNumber     = "parcel_number"
	FieldSalePrice        = "sale_price"
	FieldSaleDate         = "sale_date"
	FieldAssessedValue    = "assessed_value"
	FieldMarketValue      = "market_value"
	FieldTaxableValue     = "taxable_value"
	FieldPropertyValue    = "property_value"
	FieldSquareFootage    = "square_footage"
	FieldLotSize          = "lot_size"
	FieldAcres            = "acres"
	FieldYearBuilt        = "year_built"
	FieldPropertyType     = "property_type"
	FieldZoning           = "zoning"
	FieldMailAddress      = "mail_address"
	FieldMailCityStateZip = "mail_city_state_zip"
	FieldHomesteaded      = "homesteaded"
	FieldRecordURL        = "record_url"
	FieldExtractionDate   = "extraction_date"
	FieldPageNumber       = "page_number"
)

// CanonicalFields is the fixed output order for every serialized record.
var CanonicalFields = []string{
	FieldPropertyAddress,
	FieldOwnerName,
	FieldMunicipality,
	FieldParcelNumber,
	FieldSalePrice,
	FieldSaleDate,
	FieldAssessedValue,
	FieldMarketValue,
	FieldTaxableValue,
	FieldPropertyValue,
	FieldSquareFootage,
	FieldLotSize,
	FieldAcres,
	FieldYearBuilt,
	FieldPropertyType,
	FieldZoning,
	FieldMailAddress,
	FieldMailCityStateZip,
	FieldHomesteaded,
	FieldRecordURL,
	FieldExtractionDate,
	FieldPageNumber,
}

// FriendlyHeaders maps canonical field names to spreadsheet column headers.
var FriendlyHeaders = map[string]string{
	FieldPropertyAddress:  "Property Address",
	FieldOwnerName:        "Owner Name",
	FieldMunicipality:     "Municipality",
	FieldParcelNumber:     "Parcel Number",
	FieldSalePrice:        "Sale Price",
	FieldSaleDate:         "Sale Date",
	FieldAssessedValue:    "Assessed Value",
	FieldMarketValue:      "Market Value",
	FieldTaxableValue:     "Taxable Value",
	FieldPropertyValue:    "Property Value",
	FieldSquareFootage:    "Square Footage",
	FieldLotSize:          "Lot Size (SqFt)",
	FieldAcres:            "Acres",
	FieldYearBuilt:        "Year Built",
	FieldPropertyType:     "Property Type",
	FieldZoning:           "Zoning",
	FieldMailAddress:      "Mail Address",
	FieldMailCityStateZip: "Mail City, State, Zip",
	FieldHomesteaded:      "Homesteaded",
	FieldRecordURL:        "Record URL",
	FieldExtractionDate:   "Extraction Date",
	FieldPageNumber:       "Source Page",
}

// Record is one extracted property record: a complete mapping from canonical
// field name to string value. Missing data is an empty string, never an
// absent key, so the output schema is stable across pages and structures.
type Record map[string]string

// NewRecord returns a Record with every canonical field present and empty.
func NewRecord() Record {
	r := make(Record, len(CanonicalFields))
	for _, f := range CanonicalFields {
		r[f] = ""
	}
	return r
}

// Get returns the value of a canonical field.
func (r Record) Get(field string) string { return r[field] }

// Set assigns a canonical field unconditionally.
func (r Record) Set(field, value string) {
	if _, ok := r[field]; ok {
		r[field] = value
	}
}

// SetIfEmpty assigns a canonical field only when it is still unknown. This is
// the backfill rule: a lower-confidence pass never overwrites a value a
// higher-confidence pass already produced.
func (r Record) SetIfEmpty(field, value string) {
	if cur, ok := r[field]; ok && cur == "" && value != "" {
		r[field] = value
	}
}

// HasIdentity reports whether the record carries at least one identifying
// field. Records without identity are discarded.
func (r Record) HasIdentity() bool {
	return r[FieldPropertyAddress] != "" || r[FieldOwnerName] != "" || r[FieldParcelNumber] != ""
}

// DedupKey builds the deduplication key from address, parcel and owner.
// An all-empty key is returned as "" and must never be used to dedup.
func (r Record) DedupKey() string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(r[FieldPropertyAddress])),
		strings.TrimSpace(r[FieldParcelNumber]),
		strings.ToLower(strings.TrimSpace(r[FieldOwnerName])),
	}
	if parts[0] == "" && parts[1] == "" && parts[2] == "" {
		return ""
	}
	return strings.Join(parts, "|")
}

// Row returns the record's values in canonical field order.
func (r Record) Row() []string {
	row := make([]string, len(CanonicalFields))
	for i, f := range CanonicalFields {
		row[i] = r[f]
	}
	return row
}
