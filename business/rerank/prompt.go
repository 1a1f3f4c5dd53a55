package rerank

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"myHairMatch/domain"
)

// buildPrompt renders the candidate list plus task instructions for the
// oracle. The response contract is a strict JSON array.
func buildPrompt(candidates []domain.ProductScore, profile domain.HairProfile) string {
	var sb strings.Builder

	sb.WriteString("You are a hair-care product recommendation expert.\n")
	fmt.Fprintf(&sb,
		"The user has %s hair with %s porosity",
		orUnknown(profile.HairType), orUnknown(profile.Porosity),
	)
	if len(profile.Concerns) > 0 {
		fmt.Fprintf(&sb, " and these concerns: %s", strings.Join(profile.Concerns, ", "))
	}
	sb.WriteString(".\n\n")

	sb.WriteString("Re-rank the following candidate products for this user.\n\n")

	for i, c := range candidates {
		fmt.Fprintf(&sb, "Candidate %d:\n", i+1)
		fmt.Fprintf(&sb, "  id: %s\n", c.Record.ID)
		fmt.Fprintf(&sb, "  brand: %s\n", c.Record.Brand)
		fmt.Fprintf(&sb, "  name: %s\n", c.Record.Name)
		fmt.Fprintf(&sb,
			"  sub-scores: tag_match=%.0f sustainability=%.0f ingredient_safety=%.0f review_sentiment=%.0f price_match=%.0f\n",
			c.Breakdown.TagMatch,
			c.Breakdown.Sustainability,
			c.Breakdown.IngredientSafety,
			c.Breakdown.ReviewSentiment,
			c.Breakdown.PriceMatch,
		)
		if len(c.Record.Tags) > 0 {
			fmt.Fprintf(&sb, "  tags: %s\n", strings.Join(c.Record.Tags, ", "))
		}
		if c.Record.Price > 0 {
			fmt.Fprintf(&sb, "  price: %.2f %s\n", c.Record.Price, c.Record.Currency)
		}
		if c.Record.Description != "" {
			fmt.Fprintf(&sb, "  description: %s\n", truncate(c.Record.Description, 240))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Respond with ONLY a JSON array, no prose and no markdown. ")
	sb.WriteString("Each element must be an object with fields ")
	sb.WriteString(`"id" (string, copied from the candidate), "score" (number 0-100) `)
	sb.WriteString(`and "explanation" (one sentence on why this product suits the user).`)

	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unspecified"
	}
	return s
}

// truncate cuts on a rune boundary so multi-byte characters survive intact.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
