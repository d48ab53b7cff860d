package extract

import (
	"testing"

	"property-extractor/models"
)

func TestSniffCellMonetaryChain(t *testing.T) {
	record := models.NewRecord()

	SniffCell("$500,000", record)
	SniffCell("$310,000", record)
	SniffCell("$280,000", record)
	SniffCell("$999,999", record)

	if got := record.Get(models.FieldSalePrice); got != "$500,000" {
		t.Errorf("sale_price = %q; want $500,000", got)
	}
	if got := record.Get(models.FieldAssessedValue); got != "$310,000" {
		t.Errorf("assessed_value = %q; want $310,000", got)
	}
	if got := record.Get(models.FieldPropertyValue); got != "$280,000" {
		t.Errorf("property_value = %q; want $280,000", got)
	}
}

func TestSniffCellSkipsAlreadyCapturedAmount(t *testing.T) {
	record := models.NewRecord()
	record.Set(models.FieldSalePrice, "$500,000")

	SniffCell("$500,000", record)

	if got := record.Get(models.FieldAssessedValue); got != "" {
		t.Errorf("assessed_value = %q; a repeated amount must not cascade", got)
	}
	if got := record.Get(models.FieldPropertyValue); got != "" {
		t.Errorf("property_value = %q; want empty", got)
	}
}

func TestSniffCellNeverOverwrites(t *testing.T) {
	record := models.NewRecord()
	record.Set(models.FieldSaleDate, "01/15/2020")

	SniffCell("12/31/2021", record)

	if got := record.Get(models.FieldSaleDate); got != "01/15/2020" {
		t.Errorf("sale_date = %q; existing value must be kept", got)
	}
}

func TestSniffCellRecognizers(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field string
		want  string
	}{
		{"date", "01/15/2020", models.FieldSaleDate, "01/15/2020"},
		{"iso date", "2020-01-15", models.FieldSaleDate, "2020-01-15"},
		{"city state zip", "WEST PALM BEACH, FL 33401", models.FieldMailCityStateZip, "WEST PALM BEACH, FL 33401"},
		{"street address", "123 Main St", models.FieldPropertyAddress, "123 Main St"},
		{"owner name", "SMITH JOHN R", models.FieldOwnerName, "SMITH JOHN R"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := models.NewRecord()
			SniffCell(tt.text, record)
			if got := record.Get(tt.field); got != tt.want {
				t.Errorf("SniffCell(%q): %s = %q; want %q", tt.text, tt.field, got, tt.want)
			}
		})
	}
}

func TestSniffCellRejectsNonNames(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"single word", "SMITH"},
		{"jurisdiction", "PALM BEACH COUNTY"},
		{"street-like", "OCEAN BLVD"},
		{"numeric noise", "A1B2 C3D4"},
		{"too many words", "ONE TWO THREE FOUR FIVE SIX SEVEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := models.NewRecord()
			SniffCell(tt.text, record)
			if got := record.Get(models.FieldOwnerName); got != "" {
				t.Errorf("SniffCell(%q) set owner_name = %q; want empty", tt.text, got)
			}
		})
	}
}
