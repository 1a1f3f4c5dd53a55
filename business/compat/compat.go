package compat

import (
	"strings"

	"myHairMatch/domain"
)

// Config holds the rule adjustments. Defaults mirror the curated rule set;
// tests can inject their own values.
type Config struct {
	LowPorosityHeavyOilPenalty int
	LowPorositySiliconePenalty int
	LowPorosityLightOilBonus   int
	HighPorosityHeavyOilBonus  int
	HighPorosityProteinBonus   int
	CurlHumectantBonus         int
	HarshSurfactantPenalty     int
	GentleSurfactantBonus      int
	DrynessHumectantBonus      int
	FrizzSealantBonus          int
	DamageProteinBonus         int
	VolumeLightweightBonus     int
}

func DefaultConfig() Config {
	return Config{
		LowPorosityHeavyOilPenalty: -15,
		LowPorositySiliconePenalty: -10,
		LowPorosityLightOilBonus:   10,
		HighPorosityHeavyOilBonus:  15,
		HighPorosityProteinBonus:   10,
		CurlHumectantBonus:         10,
		HarshSurfactantPenalty:     -20,
		GentleSurfactantBonus:      15,
		DrynessHumectantBonus:      15,
		FrizzSealantBonus:          10,
		DamageProteinBonus:         15,
		VolumeLightweightBonus:     10,
	}
}

// Assessment is the outcome of evaluating one ingredient list against a
// profile. Adjustment is a delta from a neutral baseline of 50; the caller
// clamps the total to [0,100].
type Assessment struct {
	Adjustment      int      `json:"adjustment"`
	Reasons         []string `json:"reasons,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Engine is the rule-based ingredient/hair-profile compatibility engine. Pure;
// safe for concurrent use.
type Engine struct {
	cfg        Config
	classifier Classifier
}

func NewEngine(cfg Config, classifier Classifier) *Engine {
	if classifier == nil {
		classifier = NewKeywordClassifier(DefaultKeywordLists())
	}
	return &Engine{cfg: cfg, classifier: classifier}
}

// presence aggregates traits over a whole ingredient list, remembering one
// example ingredient per trait for the generated messages.
type presence struct {
	heavyOil         string
	lightweightOil   string
	silicone         string
	protein          string
	harshSurfactant  string
	gentleSurfactant string
	humectant        string
	lightweight      string

	hasHeavyOil         bool
	hasLightweightOil   bool
	hasSilicone         bool
	hasProtein          bool
	hasHarshSurfactant  bool
	hasGentleSurfactant bool
	hasHumectant        bool
	hasLightweight      bool
}

// ScoreForProfile evaluates the rule set once per product. Rule categories run
// independently and their adjustments sum. Science facts refine humectant and
// protein detection when the lexical classifier misses them.
func (e *Engine) ScoreForProfile(
	ingredients []string,
	profile domain.HairProfile,
	facts map[string]domain.IngredientScienceFact,
) Assessment {

	p := e.collect(ingredients, facts)
	a := Assessment{}

	e.applyPorosityRules(&a, profile, p)
	e.applyHairTypeRules(&a, profile, p)
	e.applyScalpRules(&a, profile, p)
	e.applyConcernRules(&a, profile, p)

	a.Reasons = dedupeStrings(a.Reasons)
	a.Warnings = dedupeStrings(a.Warnings)
	a.Recommendations = dedupeStrings(a.Recommendations)

	return a
}

func (e *Engine) collect(ingredients []string, facts map[string]domain.IngredientScienceFact) presence {
	var p presence

	for _, ing := range ingredients {
		t := e.classifier.Classify(ing)

		// facts are keyed by lowercased INCI name
		if fact, ok := facts[strings.ToLower(strings.TrimSpace(ing))]; ok {
			for _, fn := range fact.Functions {
				switch strings.ToLower(fn) {
				case "humectant":
					t.Humectant = true
				case "protein":
					t.Protein = true
				case "surfactant":
					// facts only say "surfactant"; harshness stays lexical
				}
			}
		}

		if t.HeavyOil && !p.hasHeavyOil {
			p.hasHeavyOil = true
			p.heavyOil = ing
		}
		if t.LightweightOil && !p.hasLightweightOil {
			p.hasLightweightOil = true
			p.lightweightOil = ing
		}
		if t.Silicone && !p.hasSilicone {
			p.hasSilicone = true
			p.silicone = ing
		}
		if t.Protein && !p.hasProtein {
			p.hasProtein = true
			p.protein = ing
		}
		if t.HarshSurfactant && !p.hasHarshSurfactant {
			p.hasHarshSurfactant = true
			p.harshSurfactant = ing
		}
		if t.GentleSurfactant && !p.hasGentleSurfactant {
			p.hasGentleSurfactant = true
			p.gentleSurfactant = ing
		}
		if t.Humectant && !p.hasHumectant {
			p.hasHumectant = true
			p.humectant = ing
		}
		if t.Lightweight && !p.hasLightweight {
			p.hasLightweight = true
			p.lightweight = ing
		}
	}

	return p
}

func (e *Engine) applyPorosityRules(a *Assessment, profile domain.HairProfile, p presence) {
	switch profile.Porosity {
	case domain.PorosityLow:
		if p.hasHeavyOil {
			a.Adjustment += e.cfg.LowPorosityHeavyOilPenalty
			a.Warnings = append(a.Warnings,
				p.heavyOil+" is a heavy oil that can sit on low-porosity hair and cause buildup")
		}
		if p.hasSilicone {
			a.Adjustment += e.cfg.LowPorositySiliconePenalty
			a.Warnings = append(a.Warnings,
				p.silicone+" is a silicone that tends to coat low-porosity hair")
		}
		if p.hasLightweightOil {
			a.Adjustment += e.cfg.LowPorosityLightOilBonus
			a.Reasons = append(a.Reasons,
				p.lightweightOil+" is a lightweight oil that absorbs well into low-porosity hair")
		}
	case domain.PorosityHigh:
		if p.hasHeavyOil {
			a.Adjustment += e.cfg.HighPorosityHeavyOilBonus
			a.Reasons = append(a.Reasons,
				p.heavyOil+" helps seal moisture into high-porosity hair")
		}
		if p.hasProtein {
			a.Adjustment += e.cfg.HighPorosityProteinBonus
			a.Reasons = append(a.Reasons,
				p.protein+" helps fill gaps in the cuticle of high-porosity hair")
		}
	}
}

func (e *Engine) applyHairTypeRules(a *Assessment, profile domain.HairProfile, p presence) {
	if profile.HairType != domain.HairTypeCurly && profile.HairType != domain.HairTypeCoily {
		return
	}

	if p.hasHumectant {
		a.Adjustment += e.cfg.CurlHumectantBonus
		a.Reasons = append(a.Reasons,
			p.humectant+" is a humectant that draws moisture into "+profile.HairType+" hair")
	}
}

func (e *Engine) applyScalpRules(a *Assessment, profile domain.HairProfile, p presence) {
	if !profile.ScalpSensitive {
		return
	}

	if p.hasHarshSurfactant {
		a.Adjustment += e.cfg.HarshSurfactantPenalty
		a.Warnings = append(a.Warnings,
			p.harshSurfactant+" is a harsh surfactant that can irritate a sensitive scalp")
		a.Recommendations = append(a.Recommendations,
			"Look for sulfate-free cleansers with gentle surfactants")
	}
	if p.hasGentleSurfactant {
		a.Adjustment += e.cfg.GentleSurfactantBonus
		a.Reasons = append(a.Reasons,
			p.gentleSurfactant+" is a gentle surfactant suitable for a sensitive scalp")
	}
}

func (e *Engine) applyConcernRules(a *Assessment, profile domain.HairProfile, p presence) {
	for _, concern := range profile.Concerns {
		switch strings.ToLower(concern) {
		case "dryness":
			if p.hasHumectant {
				a.Adjustment += e.cfg.DrynessHumectantBonus
				a.Reasons = append(a.Reasons,
					p.humectant+" adds moisture, which targets dryness")
			}
		case "frizz":
			if p.hasSilicone || p.hasHeavyOil || p.hasLightweightOil {
				a.Adjustment += e.cfg.FrizzSealantBonus
				a.Reasons = append(a.Reasons,
					"Contains smoothing ingredients that help control frizz")
			}
		case "damage":
			if p.hasProtein {
				a.Adjustment += e.cfg.DamageProteinBonus
				a.Reasons = append(a.Reasons,
					p.protein+" helps rebuild damaged strands")
			}
		case "volume":
			if p.hasLightweight {
				a.Adjustment += e.cfg.VolumeLightweightBonus
				a.Reasons = append(a.Reasons,
					"Lightweight formula that will not weigh hair down")
			}
		}
	}
}

// dedupeStrings keeps the first occurrence of each string, preserving order.
func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return in
	}

	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
