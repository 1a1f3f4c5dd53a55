package eco

import (
	"fmt"
	"strings"

	"myHairMatch/domain"
)

const baselineScore = 50

// Config holds the keyword lists and tag bonuses behind the sustainability
// grade. All matching is case-insensitive substring membership.
type Config struct {
	HarmfulChemicals       []string
	NaturalKeywords        []string
	SyntheticPreservatives []string
	Microplastics          []string
	TagBonuses             []TagBonus
}

// TagBonus awards a fixed bonus when any of its keywords appears in the
// product's catalog tags.
type TagBonus struct {
	Label    string
	Keywords []string
	Bonus    float64
}

func DefaultConfig() Config {
	return Config{
		HarmfulChemicals: []string{
			"sodium lauryl sulfate", "sodium laureth sulfate", "ammonium lauryl sulfate",
			"paraben", "methylparaben", "propylparaben", "butylparaben",
			"formaldehyde", "dmdm hydantoin", "quaternium-15", "imidazolidinyl urea",
			"diazolidinyl urea", "phthalate", "triclosan",
			"diethanolamine", "triethanolamine", "cocamide dea", "cocamide mea",
		},
		NaturalKeywords: []string{
			"oil", "butter", "aloe", "extract", "botanical", "flower", "leaf",
			"root", "seed", "fruit", "vitamin", "tocopherol", "honey", "clay",
		},
		SyntheticPreservatives: []string{
			"methylisothiazolinone", "methylchloroisothiazolinone",
			"phenoxyethanol", "benzyl alcohol", "chlorphenesin",
		},
		Microplastics: []string{
			"polyethylene", "polypropylene", "nylon", "polymethyl methacrylate",
			"acrylates copolymer", "carbomer", "polyquaternium",
		},
		TagBonuses: []TagBonus{
			{Label: "eco-friendly", Keywords: []string{"eco", "green"}, Bonus: 10},
			{Label: "organic", Keywords: []string{"organic"}, Bonus: 15},
			{Label: "cruelty-free", Keywords: []string{"cruelty-free", "cruelty free"}, Bonus: 10},
			{Label: "vegan", Keywords: []string{"vegan"}, Bonus: 5},
			{Label: "recyclable packaging", Keywords: []string{"recyclable", "recycled"}, Bonus: 10},
			{Label: "plant-based", Keywords: []string{"plant-based", "plant based"}, Bonus: 8},
			{Label: "fair-trade", Keywords: []string{"fair-trade", "fair trade"}, Bonus: 10},
			{Label: "local production", Keywords: []string{"local", "small-batch", "small batch"}, Bonus: 5},
			{Label: "biodegradable", Keywords: []string{"biodegradable"}, Bonus: 8},
		},
	}
}

// Scorer derives a 0-100 sustainability grade from ingredients and catalog
// tags. Pure; safe for concurrent use.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

func (s *Scorer) Score(record domain.CatalogRecord) domain.Sustainability {
	score := float64(baselineScore)

	var positives, negatives []string

	ingredients := record.NormalizedIngredients
	if len(ingredients) == 0 {
		ingredients = record.Ingredients
	}

	lowered := make([]string, len(ingredients))
	for i, ing := range ingredients {
		lowered[i] = strings.ToLower(ing)
	}

	// harmful chemicals: min(30, count*8)
	if n := countMatches(lowered, s.cfg.HarmfulChemicals); n > 0 {
		penalty := min(30, float64(n)*8)
		score -= penalty
		negatives = append(negatives, fmt.Sprintf("%d potentially harmful chemical(s) detected", n))
	}

	// natural ingredients: min(20, count*2)
	if n := countMatches(lowered, s.cfg.NaturalKeywords); n > 0 {
		bonus := min(20, float64(n)*2)
		score += bonus
		positives = append(positives, fmt.Sprintf("%d natural or plant-derived ingredient(s)", n))
	}

	// certification / packaging tag bonuses
	tags := make([]string, len(record.Tags))
	for i, t := range record.Tags {
		tags[i] = strings.ToLower(t)
	}
	matched := make(map[string]bool, len(s.cfg.TagBonuses))
	for _, tb := range s.cfg.TagBonuses {
		if anyTagMatches(tags, tb.Keywords) {
			score += tb.Bonus
			matched[tb.Label] = true
			positives = append(positives, tb.Label)
		}
	}

	// synthetic preservatives: min(15, count*5)
	if n := countMatches(lowered, s.cfg.SyntheticPreservatives); n > 0 {
		penalty := min(15, float64(n)*5)
		score -= penalty
		negatives = append(negatives, fmt.Sprintf("%d synthetic preservative(s)", n))
	}

	// any microplastic indicator is a flat -20
	if countMatches(lowered, s.cfg.Microplastics) > 0 {
		score -= 20
		negatives = append(negatives, "microplastic-indicating ingredients")
	}

	// water-first formulas are typically diluted, lower-concentration products
	if len(lowered) > 0 && (strings.Contains(lowered[0], "water") || strings.Contains(lowered[0], "aqua")) {
		score += 3
		positives = append(positives, "water-based formula")
	}

	score = clamp(score, 0, 100)

	return domain.Sustainability{
		Score:           score,
		Grade:           gradeFor(score),
		Reasoning:       buildReasoning(score, positives, negatives),
		PositiveFactors: positives,
		NegativeFactors: negatives,
		Recommendations: s.recommendations(score, matched),
	}
}

func gradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 80:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C+"
	case score >= 50:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

func buildReasoning(score float64, positives, negatives []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Sustainability score %.0f/100.", score)
	if len(positives) > 0 {
		sb.WriteString(" Positives: " + strings.Join(positives, ", ") + ".")
	}
	if len(negatives) > 0 {
		sb.WriteString(" Negatives: " + strings.Join(negatives, ", ") + ".")
	}

	return sb.String()
}

// recommendations depend on the score band and reference missing positive
// factors the product could still earn.
func (s *Scorer) recommendations(score float64, matched map[string]bool) []string {
	var out []string

	switch {
	case score < 50:
		out = append(out, "Consider alternatives with fewer synthetic or harmful ingredients")
	case score < 70:
		out = append(out, "A reasonable choice; greener options exist in this category")
	default:
		out = append(out, "A strong sustainability pick in this category")
	}

	for _, tb := range s.cfg.TagBonuses {
		if !matched[tb.Label] {
			out = append(out, "Not certified "+tb.Label)
			if len(out) >= 4 {
				break
			}
		}
	}

	return out
}

func countMatches(ingredients []string, keywords []string) int {
	count := 0
	for _, ing := range ingredients {
		for _, kw := range keywords {
			if strings.Contains(ing, kw) {
				count++
				break
			}
		}
	}
	return count
}

func anyTagMatches(tags []string, keywords []string) bool {
	for _, tag := range tags {
		for _, kw := range keywords {
			if strings.Contains(tag, kw) {
				return true
			}
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
