package rerank

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"myHairMatch/domain"
	"myHairMatch/pkg/logger"
)

// Rerank modes surfaced in run metadata.
const (
	ModeAI       = "ai"
	ModeMock     = "mock"
	ModeFallback = "fallback"
	// ModeNone means there was nothing to rank, so no path ran.
	ModeNone = "none"
)

// RankOracle is the external re-ranking collaborator. It may be entirely
// absent (no credentials configured), which is a normal setup, not an error.
type RankOracle interface {
	Rank(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	// Timeout bounds the single oracle call per pipeline run.
	Timeout time.Duration
	// CandidateMultiplier widens the re-ranking context beyond topK.
	CandidateMultiplier int
	// MockJitter bounds the score jitter applied in mock mode only.
	MockJitter float64
}

func DefaultConfig() Config {
	return Config{
		Timeout:             20 * time.Second,
		CandidateMultiplier: 2,
		MockJitter:          2.0,
	}
}

var genericExplanations = []string{
	"A solid match for your hair type and stated concerns.",
	"Scores well across ingredient safety and sustainability for your profile.",
	"Well aligned with your preferences and budget.",
	"A balanced pick based on its overall compatibility score.",
	"Popular with similar hair profiles and fits your criteria.",
}

// Service is the AI-assisted re-ranking stage with deterministic fallback.
type Service struct {
	oracle RankOracle // nil means no credentials: mock mode
	cfg    Config
}

func NewService(oracle RankOracle, cfg Config) *Service {
	if cfg.CandidateMultiplier <= 0 {
		cfg.CandidateMultiplier = 2
	}
	return &Service{oracle: oracle, cfg: cfg}
}

// ReRank takes deterministically scored products (sorted descending) and
// returns at most topK of them with FinalRank set 1..N. The returned mode
// reports which path produced the ranking.
func (s *Service) ReRank(
	ctx context.Context,
	scored []domain.ProductScore,
	topK int,
	profile domain.HairProfile,
) ([]domain.ProductScore, string) {

	if topK <= 0 {
		topK = 10
	}

	candidates := scored
	if limit := topK * s.cfg.CandidateMultiplier; len(candidates) > limit {
		candidates = candidates[:limit]
	}
	if len(candidates) == 0 {
		return []domain.ProductScore{}, ModeNone
	}

	if s.oracle == nil {
		return s.mockRank(candidates, topK), ModeMock
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	raw, err := s.oracle.Rank(callCtx, buildPrompt(candidates, profile))
	if err != nil {
		logger.Warn("rerank_oracle_failed", "error", err, "candidates", len(candidates))
		return s.fallbackRank(candidates, topK), ModeFallback
	}

	parsed := ParseRanking(raw)
	if !parsed.OK {
		logger.Warn("rerank_response_malformed", "raw_length", len(parsed.Raw))
		return s.fallbackRank(candidates, topK), ModeFallback
	}

	return s.mergeRanking(candidates, parsed.Items, topK), ModeAI
}

// mergeRanking matches oracle items onto candidates by id. Unmatched
// candidates keep only their deterministic score. The merged set is ordered
// by AI score when present, deterministic score otherwise.
func (s *Service) mergeRanking(
	candidates []domain.ProductScore,
	items []RankedItem,
	topK int,
) []domain.ProductScore {

	byID := make(map[string]RankedItem, len(items))
	for _, item := range items {
		if _, seen := byID[item.ID]; !seen {
			byID[item.ID] = item
		}
	}

	merged := make([]domain.ProductScore, len(candidates))
	copy(merged, candidates)

	for i := range merged {
		if item, ok := byID[merged[i].Record.ID]; ok {
			score := item.Score
			merged[i].AIScore = &score
			merged[i].AIExplanation = item.Explanation
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return effectiveScore(merged[i]) > effectiveScore(merged[j])
	})

	return finalize(merged, topK)
}

// mockRank is the no-credential path: deterministic order, rotating generic
// explanations, and a small bounded jitter on the displayed score.
func (s *Service) mockRank(candidates []domain.ProductScore, topK int) []domain.ProductScore {
	out := make([]domain.ProductScore, len(candidates))
	copy(out, candidates)

	for i := range out {
		jitter := (rand.Float64()*2 - 1) * s.cfg.MockJitter
		score := clampScore(out[i].DeterministicScore + jitter)
		out[i].AIScore = &score
		out[i].AIExplanation = genericExplanations[i%len(genericExplanations)]
	}

	return finalize(out, topK)
}

// fallbackRank is the real-failure path: deterministic order, no jitter, no
// AI score, and explanations flagged as generic.
func (s *Service) fallbackRank(candidates []domain.ProductScore, topK int) []domain.ProductScore {
	out := make([]domain.ProductScore, len(candidates))
	copy(out, candidates)

	for i := range out {
		out[i].AIScore = nil
		out[i].AIExplanation = genericExplanations[i%len(genericExplanations)] + " (generic)"
	}

	return finalize(out, topK)
}

func finalize(scored []domain.ProductScore, topK int) []domain.ProductScore {
	if len(scored) > topK {
		scored = scored[:topK]
	}
	for i := range scored {
		scored[i].FinalRank = i + 1
	}
	return scored
}

func effectiveScore(p domain.ProductScore) float64 {
	if p.AIScore != nil {
		return *p.AIScore
	}
	return p.DeterministicScore
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
