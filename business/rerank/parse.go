package rerank

import (
	"encoding/json"
	"strings"
)

const placeholderExplanation = "Recommended based on your hair profile."

// RankedItem is one entry of a successfully parsed oracle response.
type RankedItem struct {
	ID          string  `json:"id"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// RankingParse is the tagged boundary result: either Items when OK, or the
// raw payload for logging when malformed. The core never touches untyped
// oracle output beyond this point.
type RankingParse struct {
	OK    bool
	Items []RankedItem
	Raw   string
}

type rawRankedItem struct {
	ID          string   `json:"id"`
	ProductID   string   `json:"product_id"`
	Score       *float64 `json:"score"`
	Explanation string   `json:"explanation"`
	Reason      string   `json:"reason"`
}

type rawRankingObject struct {
	Rankings        []rawRankedItem `json:"rankings"`
	Results         []rawRankedItem `json:"results"`
	Items           []rawRankedItem `json:"items"`
	Products        []rawRankedItem `json:"products"`
	Recommendations []rawRankedItem `json:"recommendations"`
}

// ParseRanking parses an oracle response permissively: a bare JSON array, a
// fenced code block containing one, or an object exposing a known array field.
func ParseRanking(raw string) RankingParse {
	candidates := []string{strings.TrimSpace(raw)}
	if fenced, ok := extractFencedBlock(raw); ok {
		candidates = append(candidates, fenced)
	}

	for _, payload := range candidates {
		if items, ok := tryParse(payload); ok {
			return RankingParse{OK: true, Items: items}
		}
	}

	return RankingParse{OK: false, Raw: raw}
}

func tryParse(payload string) ([]RankedItem, bool) {
	var rawItems []rawRankedItem
	if err := json.Unmarshal([]byte(payload), &rawItems); err == nil {
		return validateItems(rawItems)
	}

	var obj rawRankingObject
	if err := json.Unmarshal([]byte(payload), &obj); err == nil {
		for _, arr := range [][]rawRankedItem{
			obj.Rankings, obj.Results, obj.Items, obj.Products, obj.Recommendations,
		} {
			if len(arr) > 0 {
				return validateItems(arr)
			}
		}
	}

	return nil, false
}

// validateItems drops entries without an identifier, clamps scores to [0,100]
// and backfills missing explanations with a placeholder.
func validateItems(raw []rawRankedItem) ([]RankedItem, bool) {
	items := make([]RankedItem, 0, len(raw))

	for _, r := range raw {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			id = strings.TrimSpace(r.ProductID)
		}
		if id == "" {
			continue
		}

		score := 0.0
		if r.Score != nil {
			score = *r.Score
		}
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}

		explanation := strings.TrimSpace(r.Explanation)
		if explanation == "" {
			explanation = strings.TrimSpace(r.Reason)
		}
		if explanation == "" {
			explanation = placeholderExplanation
		}

		items = append(items, RankedItem{
			ID:          id,
			Score:       score,
			Explanation: explanation,
		})
	}

	if len(items) == 0 {
		return nil, false
	}

	return items, true
}

// extractFencedBlock pulls the contents of the first ``` fence, tolerating a
// language hint after the opening backticks.
func extractFencedBlock(raw string) (string, bool) {
	start := strings.Index(raw, "```")
	if start < 0 {
		return "", false
	}

	rest := raw[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(rest[:nl])
		if firstLine == "" || isLanguageHint(firstLine) {
			rest = rest[nl+1:]
		}
	}

	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}

	return strings.TrimSpace(rest[:end]), true
}

func isLanguageHint(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) <= 10
}
