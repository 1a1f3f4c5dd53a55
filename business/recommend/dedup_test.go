package recommend

import (
	"testing"

	"myHairMatch/domain"
)

func TestDeduplicate_MergesByUPC(t *testing.T) {
	records := []domain.CatalogRecord{
		{ID: "a", UPC: "012345", Name: "Hydra Shampoo", Brand: "Lush Locks", Source: "one"},
		{ID: "b", UPC: "012345", Name: "Hydra Shampoo 250ml", Brand: "Lush Locks", Source: "two",
			Price: 12.5, Tags: []string{"sulfate-free"}},
	}

	out := Deduplicate(records)
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}

	merged := out[0]
	if merged.ID != "a" || merged.Source != "one" {
		t.Errorf("identity should stay with the first record, got id=%s source=%s", merged.ID, merged.Source)
	}
	if merged.Price != 12.5 {
		t.Errorf("expected price filled from second record, got %v", merged.Price)
	}
	if len(merged.Tags) != 1 || merged.Tags[0] != "sulfate-free" {
		t.Errorf("expected tags union, got %v", merged.Tags)
	}
}

func TestDeduplicate_BrandNameNormalization(t *testing.T) {
	records := []domain.CatalogRecord{
		{ID: "a", Name: "Curl Cream!", Brand: "The Brand"},
		{ID: "b", Name: "curl cream", Brand: "the-brand"},
		{ID: "c", Name: "Curl Cream", Brand: "Other Brand"},
	}

	out := Deduplicate(records)
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].ID != "a" || out[1].ID != "c" {
		t.Errorf("expected first-seen order preserved, got %s then %s", out[0].ID, out[1].ID)
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	records := []domain.CatalogRecord{
		{ID: "a", UPC: "1", Name: "A", Brand: "X", Tags: []string{"x", "y"}},
		{ID: "b", UPC: "1", Name: "A", Brand: "X", Tags: []string{"y", "z"}},
		{ID: "c", Name: "B", Brand: "Y"},
	}

	once := Deduplicate(records)
	twice := Deduplicate(once)

	if len(once) != len(twice) {
		t.Fatalf("second pass changed length: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID || len(once[i].Tags) != len(twice[i].Tags) {
			t.Errorf("record %d changed on second pass", i)
		}
	}
}

func TestDeduplicate_EnrichmentKeptWhole(t *testing.T) {
	first := &domain.Sustainability{Score: 80, Grade: "B+"}
	second := &domain.Sustainability{Score: 10, Grade: "F"}

	records := []domain.CatalogRecord{
		{ID: "a", UPC: "9", Sustainability: first},
		{ID: "b", UPC: "9", Sustainability: second},
	}

	out := Deduplicate(records)
	if out[0].Sustainability != first {
		t.Error("expected first non-nil sub-record kept whole")
	}
}
