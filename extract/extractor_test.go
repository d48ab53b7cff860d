package extract

import (
	"testing"
	"time"

	"property-extractor/models"
	"property-extractor/utils"
)

func testExtractor() *Extractor {
	e := New(utils.NewLogger(false))
	e.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	}
	return e
}

func TestExtractTableHeaderMappedRow(t *testing.T) {
	snap := mustSnapshot(t, `<html><body>
		<table>
			<tr><th>Sale Price</th><th>Owner Name</th><th>Location</th></tr>
			<tr><td>$500,000</td><td>Jane Doe</td><td>123 Main St</td></tr>
		</table>
	</body></html>`)

	cls := Classify(snap)
	if cls.Kind != KindTabular {
		t.Fatalf("Kind = %q; want %q", cls.Kind, KindTabular)
	}

	records := testExtractor().ExtractPage(snap, cls, 1)
	if len(records) != 1 {
		t.Fatalf("got %d records; want 1", len(records))
	}

	rec := records[0]
	want := map[string]string{
		models.FieldSalePrice:       "$500,000",
		models.FieldOwnerName:       "Jane Doe",
		models.FieldPropertyAddress: "123 Main St",
		models.FieldExtractionDate:  "2025-06-01 12:30:00",
		models.FieldPageNumber:      "1",
	}
	for field, value := range want {
		if got := rec.Get(field); got != value {
			t.Errorf("%s = %q; want %q", field, got, value)
		}
	}
	for _, field := range models.CanonicalFields {
		if _, expected := want[field]; expected {
			continue
		}
		if got := rec.Get(field); got != "" {
			t.Errorf("%s = %q; want empty (column not mapped, cell not sniffed)", field, got)
		}
	}
}

// The sniff backfill sweeps every cell, mapped columns included, and it never
// displaces a header-mapped value.
func TestExtractTableBackfillSweepsAllCells(t *testing.T) {
	snap := mustSnapshot(t, `<html><body>
		<table>
			<tr><th>Sale Price</th><th>Owner Name</th><th>Location</th><th>Notes</th></tr>
			<tr><td>$500,000</td><td>Jane Doe</td><td>123 Main St (sold 01/15/2020)</td><td>$999,999</td></tr>
		</table>
	</body></html>`)

	records := testExtractor().ExtractPage(snap, Classify(snap), 1)
	if len(records) != 1 {
		t.Fatalf("got %d records; want 1", len(records))
	}

	rec := records[0]
	if got := rec.Get(models.FieldSalePrice); got != "$500,000" {
		t.Errorf("sale_price = %q; header-mapped value must survive the backfill", got)
	}
	// Data co-located inside a mapped column still backfills empty fields.
	if got := rec.Get(models.FieldSaleDate); got != "01/15/2020" {
		t.Errorf("sale_date = %q; want 01/15/2020 sniffed from the mapped address cell", got)
	}
	if got := rec.Get(models.FieldAssessedValue); got != "$999,999" {
		t.Errorf("assessed_value = %q; want $999,999 from the unmapped column", got)
	}
}

// A monetary token identical to an amount a header already captured is the
// same value seen again, not a second monetary field.
func TestExtractTableRepeatedAmountNotRebinned(t *testing.T) {
	snap := mustSnapshot(t, `<html><body>
		<table>
			<tr><th>Sale Price</th><th>Owner Name</th><th>Location</th></tr>
			<tr><td>$500,000</td><td>Jane Doe</td><td>123 Main St</td></tr>
		</table>
	</body></html>`)

	records := testExtractor().ExtractPage(snap, Classify(snap), 1)
	if len(records) != 1 {
		t.Fatalf("got %d records; want 1", len(records))
	}
	rec := records[0]
	if got := rec.Get(models.FieldAssessedValue); got != "" {
		t.Errorf("assessed_value = %q; want empty — the sale price cell must not re-bin", got)
	}
	if got := rec.Get(models.FieldPropertyValue); got != "" {
		t.Errorf("property_value = %q; want empty", got)
	}
}

func TestExtractTableDiscardsRowsWithoutIdentity(t *testing.T) {
	snap := mustSnapshot(t, `<html><body>
		<table>
			<tr><th>Sale Price</th><th>Owner Name</th><th>Location</th></tr>
			<tr><td>$500,000</td><td>Jane Doe</td><td>123 Main St</td></tr>
			<tr><td>-</td><td></td><td></td></tr>
			<tr><th>Section break</th></tr>
			<tr><td>$410,000</td><td>Sam Brown</td><td>77 Palm Ave</td></tr>
		</table>
	</body></html>`)

	records := testExtractor().ExtractPage(snap, Classify(snap), 2)
	if len(records) != 2 {
		t.Fatalf("got %d records; want 2 (identity-free and cell-free rows dropped)", len(records))
	}
	if got := records[1].Get(models.FieldOwnerName); got != "Sam Brown" {
		t.Errorf("second record owner_name = %q; want %q", got, "Sam Brown")
	}
	if got := records[1].Get(models.FieldPageNumber); got != "2" {
		t.Errorf("page_number = %q; want %q", got, "2")
	}
}

func TestExtractTablePositionDefaultsOnAnonymousColumns(t *testing.T) {
	snap := mustSnapshot(t, `<html><body>
		<table>
			<tr><td>Results</td><td>Property Listing</td><td>Details</td></tr>
			<tr><td>$450,000</td><td>01/15/2020</td><td>Jane Doe</td></tr>
		</table>
	</body></html>`)

	records := testExtractor().ExtractPage(snap, Classify(snap), 1)
	if len(records) != 1 {
		t.Fatalf("got %d records; want 1", len(records))
	}

	rec := records[0]
	if got := rec.Get(models.FieldSalePrice); got != "$450,000" {
		t.Errorf("sale_price = %q; want positional default $450,000", got)
	}
	if got := rec.Get(models.FieldSaleDate); got != "01/15/2020" {
		t.Errorf("sale_date = %q; want positional default 01/15/2020", got)
	}
	if got := rec.Get(models.FieldOwnerName); got != "Jane Doe" {
		t.Errorf("owner_name = %q; want sniffed Jane Doe", got)
	}
}

func TestExtractContainers(t *testing.T) {
	snap := mustSnapshot(t, `<html><body>
		<div class="result-item">
			<a href="/record/1">Detail</a>
			<p>Owner: SMITH JOHN R</p>
			<p>Parcel: 12-3456-789-0123</p>
			<p>123 OCEAN BLVD</p>
			<p>Sale Price: $450,000 on 01/15/2020</p>
		</div>
		<div class="result-item">
			<a href="/record/2">Detail</a>
			<p>Owner: ADAMS MARY LOU</p>
			<p>Parcel: 45-6789-012-3456</p>
			<p>77 SUNSET DR</p>
		</div>
	</body></html>`)

	cls := Classify(snap)
	if cls.Kind != KindContainer {
		t.Fatalf("Kind = %q; want %q", cls.Kind, KindContainer)
	}

	records := testExtractor().ExtractPage(snap, cls, 1)
	if len(records) != 2 {
		t.Fatalf("got %d records; want 2", len(records))
	}

	first := records[0]
	checks := map[string]string{
		models.FieldParcelNumber:    "12-3456-789-0123",
		models.FieldOwnerName:       "SMITH JOHN R",
		models.FieldPropertyAddress: "123 OCEAN BLVD",
		models.FieldSalePrice:       "$450,000",
		models.FieldSaleDate:        "01/15/2020",
		models.FieldRecordURL:       "/record/1",
	}
	for field, value := range checks {
		if got := first.Get(field); got != value {
			t.Errorf("%s = %q; want %q", field, got, value)
		}
	}

	if got := records[1].Get(models.FieldRecordURL); got != "/record/2" {
		t.Errorf("second record_url = %q; want /record/2", got)
	}
}

func TestExtractTextBlocks(t *testing.T) {
	snap := mustSnapshot(t, `<html><body>
		<p>Welcome to the search portal</p>
		<p>Record # Owner: ADAMS MARY LOU<br>Parcel: 11-2233-445-6677<br>456 PALM AVE<br>Assessed Value: $210,000</p>
		<p>Record # Owner: BROWN SAM<br>Parcel: 22-3344-556-7788<br>9 LAKE DR<br>Assessed Value: $185,500</p>
	</body></html>`)

	cls := Classify(snap)
	if cls.Kind != KindUnstructured {
		t.Fatalf("Kind = %q; want %q", cls.Kind, KindUnstructured)
	}

	records := testExtractor().ExtractPage(snap, cls, 4)
	if len(records) != 2 {
		t.Fatalf("got %d records; want 2", len(records))
	}

	if got := records[0].Get(models.FieldParcelNumber); got != "11-2233-445-6677" {
		t.Errorf("first parcel_number = %q; want 11-2233-445-6677", got)
	}
	if got := records[1].Get(models.FieldOwnerName); got != "BROWN SAM" {
		t.Errorf("second owner_name = %q; want BROWN SAM", got)
	}
	if got := records[1].Get(models.FieldAssessedValue); got != "$185,500" {
		t.Errorf("second assessed_value = %q; want $185,500", got)
	}
}
