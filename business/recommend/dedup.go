package recommend

import (
	"strings"

	"myHairMatch/domain"
)

// Deduplicate merges records referring to the same physical product into one
// canonical record. Pure and idempotent; merge precedence is first-seen.
//
// Identity is heuristic: UPC when present, else normalized brand+name. Two
// different products sharing brand and name will collapse into one; that is a
// known limitation of the key, not a bug.
func Deduplicate(records []domain.CatalogRecord) []domain.CatalogRecord {
	merged := make(map[string]domain.CatalogRecord, len(records))
	order := make([]string, 0, len(records))

	for _, record := range records {
		key := identityKey(record)
		if existing, ok := merged[key]; ok {
			merged[key] = mergeRecords(existing, record)
			continue
		}
		merged[key] = record
		order = append(order, key)
	}

	out := make([]domain.CatalogRecord, 0, len(order))
	for _, key := range order {
		out = append(out, merged[key])
	}

	return out
}

func identityKey(record domain.CatalogRecord) string {
	if record.UPC != "" {
		return "upc:" + record.UPC
	}
	return "brand_name:" + normalizeIdentity(record.Brand) + "_" + normalizeIdentity(record.Name)
}

// normalizeIdentity lowercases and strips everything except letters and
// digits.
func normalizeIdentity(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// mergeRecords folds next into base. Scalars keep the first non-empty value,
// tags and ingredients become a stable-ordered union, enrichment sub-records
// keep the first non-nil value whole (never merged field by field). ID and
// Source always stay with the record that produced the key.
func mergeRecords(base, next domain.CatalogRecord) domain.CatalogRecord {
	out := base

	out.UPC = firstNonEmpty(base.UPC, next.UPC)
	out.Name = firstNonEmpty(base.Name, next.Name)
	out.Brand = firstNonEmpty(base.Brand, next.Brand)
	out.Description = firstNonEmpty(base.Description, next.Description)
	out.Currency = firstNonEmpty(base.Currency, next.Currency)
	out.URL = firstNonEmpty(base.URL, next.URL)
	out.SourceID = firstNonEmpty(base.SourceID, next.SourceID)
	if out.Price == 0 {
		out.Price = next.Price
	}

	out.Tags = unionStrings(base.Tags, next.Tags)
	out.Ingredients = unionStrings(base.Ingredients, next.Ingredients)
	out.NormalizedIngredients = unionStrings(base.NormalizedIngredients, next.NormalizedIngredients)

	if out.IngredientSafety == nil {
		out.IngredientSafety = next.IngredientSafety
	}
	if out.Sustainability == nil {
		out.Sustainability = next.Sustainability
	}
	if out.Reviews == nil {
		out.Reviews = next.Reviews
	}

	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range b {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
