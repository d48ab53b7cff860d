package extract

import (
	"testing"

	"property-extractor/browser"
)

func mustSnapshot(t *testing.T, src string) *browser.Snapshot {
	t.Helper()
	snap, err := browser.ParseSnapshot(src)
	if err != nil {
		t.Fatalf("ParseSnapshot failed: %v", err)
	}
	return snap
}

func TestClassifyTabular(t *testing.T) {
	snap := mustSnapshot(t, `<html><body>
		<table>
			<tr><th>Owner Name</th><th>Property Address</th></tr>
			<tr><td>SMITH JOHN</td><td>123 MAIN ST</td></tr>
		</table>
	</body></html>`)

	cls := Classify(snap)
	if cls.Kind != KindTabular {
		t.Fatalf("Kind = %q; want %q", cls.Kind, KindTabular)
	}
	if len(cls.Tables) != 1 {
		t.Errorf("got %d candidate tables; want 1", len(cls.Tables))
	}
}

// A navigation table with no record keywords must not win classification.
func TestClassifyIgnoresLayoutTables(t *testing.T) {
	snap := mustSnapshot(t, `<html><body>
		<table>
			<tr><td>Home</td><td>About</td></tr>
			<tr><td>Contact</td><td>Help</td></tr>
		</table>
		<div class="result-item">Owner: SMITH JOHN</div>
		<div class="result-item">Owner: DOE JANE</div>
	</body></html>`)

	cls := Classify(snap)
	if cls.Kind != KindContainer {
		t.Fatalf("Kind = %q; want %q", cls.Kind, KindContainer)
	}
	if len(cls.Containers) != 2 {
		t.Errorf("got %d containers; want 2", len(cls.Containers))
	}
}

func TestClassifyRanksTablesByRowCount(t *testing.T) {
	snap := mustSnapshot(t, `<html><body>
		<table id="small">
			<tr><th>Owner</th></tr>
			<tr><td>DOE JANE</td></tr>
		</table>
		<table id="big">
			<tr><th>Owner</th></tr>
			<tr><td>SMITH JOHN</td></tr>
			<tr><td>BROWN SAM</td></tr>
		</table>
	</body></html>`)

	cls := Classify(snap)
	if cls.Kind != KindTabular {
		t.Fatalf("Kind = %q; want %q", cls.Kind, KindTabular)
	}
	if len(cls.Tables) != 2 {
		t.Fatalf("got %d candidate tables; want 2", len(cls.Tables))
	}
	if id, _ := cls.Tables[0].Attr("id"); id != "big" {
		t.Errorf("top-ranked table id = %q; want %q", id, "big")
	}
}

// A table without a data row never qualifies.
func TestClassifySkipsHeaderOnlyTables(t *testing.T) {
	snap := mustSnapshot(t, `<html><body>
		<table><tr><th>Owner Name</th><th>Parcel</th></tr></table>
		<p>No results found.</p>
	</body></html>`)

	if cls := Classify(snap); cls.Kind != KindUnstructured {
		t.Errorf("Kind = %q; want %q", cls.Kind, KindUnstructured)
	}
}

// One matching element is a wrapper, not a repeated record container.
func TestClassifySingleContainerDoesNotQualify(t *testing.T) {
	snap := mustSnapshot(t, `<html><body>
		<div class="result-item">Owner: SMITH JOHN, 123 MAIN ST</div>
	</body></html>`)

	if cls := Classify(snap); cls.Kind != KindUnstructured {
		t.Errorf("Kind = %q; want %q", cls.Kind, KindUnstructured)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	src := `<html><body>
		<table>
			<tr><th>Parcel</th></tr>
			<tr><td>12-3456-789-0123</td></tr>
		</table>
		<div class="result-item">a</div>
		<div class="result-item">b</div>
	</body></html>`

	first := Classify(mustSnapshot(t, src))
	for i := 0; i < 5; i++ {
		got := Classify(mustSnapshot(t, src))
		if got.Kind != first.Kind || len(got.Tables) != len(first.Tables) {
			t.Fatalf("run %d: Kind=%q tables=%d; first run Kind=%q tables=%d",
				i, got.Kind, len(got.Tables), first.Kind, len(first.Tables))
		}
	}
}
