package compat

import "strings"

// Traits are the lexical ingredient classes the rule set reasons about.
type Traits struct {
	HeavyOil         bool
	LightweightOil   bool
	Silicone         bool
	Protein          bool
	HarshSurfactant  bool
	GentleSurfactant bool
	Humectant        bool
	Lightweight      bool
}

// Classifier maps a single ingredient name to its traits. The default is a
// keyword matcher; it can be swapped for a real ontology without touching the
// rule logic.
type Classifier interface {
	Classify(ingredient string) Traits
}

// KeywordLists are the curated substring lists behind the default classifier.
// This is a heuristic lexical classifier, not a chemical ontology.
type KeywordLists struct {
	HeavyOils         []string
	LightweightOils   []string
	Silicones         []string
	Proteins          []string
	HarshSurfactants  []string
	GentleSurfactants []string
	Humectants        []string
	Lightweight       []string
}

func DefaultKeywordLists() KeywordLists {
	return KeywordLists{
		HeavyOils: []string{
			"coconut oil", "castor oil", "olive oil", "shea butter",
			"cocoa butter", "mineral oil", "petrolatum", "lanolin",
		},
		LightweightOils: []string{
			"argan oil", "jojoba oil", "grapeseed oil", "sweet almond oil",
			"apricot kernel oil", "squalane",
		},
		Silicones: []string{
			"dimethicone", "cyclomethicone", "cyclopentasiloxane",
			"amodimethicone", "dimethiconol", "phenyl trimethicone",
		},
		Proteins: []string{
			"keratin", "hydrolyzed wheat protein", "hydrolyzed silk",
			"hydrolyzed rice protein", "hydrolyzed soy protein",
			"collagen", "amino acid",
		},
		HarshSurfactants: []string{
			"sodium lauryl sulfate", "sodium laureth sulfate",
			"ammonium lauryl sulfate", "ammonium laureth sulfate",
			"sodium c14-16 olefin sulfonate",
		},
		GentleSurfactants: []string{
			"cocamidopropyl betaine", "decyl glucoside", "coco glucoside",
			"lauryl glucoside", "sodium cocoyl isethionate",
			"disodium laureth sulfosuccinate",
		},
		Humectants: []string{
			"glycerin", "glycerol", "hyaluronic acid", "sodium hyaluronate",
			"honey", "aloe", "panthenol", "propylene glycol", "sorbitol",
		},
		Lightweight: []string{
			"argan oil", "jojoba oil", "grapeseed oil", "squalane",
			"aloe", "rice water", "green tea",
		},
	}
}

// KeywordClassifier classifies by case-insensitive substring membership.
type KeywordClassifier struct {
	lists KeywordLists
}

func NewKeywordClassifier(lists KeywordLists) *KeywordClassifier {
	return &KeywordClassifier{lists: lists}
}

func (c *KeywordClassifier) Classify(ingredient string) Traits {
	name := strings.ToLower(ingredient)

	return Traits{
		HeavyOil:         matchesAny(name, c.lists.HeavyOils),
		LightweightOil:   matchesAny(name, c.lists.LightweightOils),
		Silicone:         matchesAny(name, c.lists.Silicones),
		Protein:          matchesAny(name, c.lists.Proteins),
		HarshSurfactant:  matchesAny(name, c.lists.HarshSurfactants),
		GentleSurfactant: matchesAny(name, c.lists.GentleSurfactants),
		Humectant:        matchesAny(name, c.lists.Humectants),
		Lightweight:      matchesAny(name, c.lists.Lightweight),
	}
}

func matchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
