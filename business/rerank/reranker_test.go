package rerank

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"myHairMatch/domain"
)

type stubOracle struct {
	response string
	err      error
	prompts  []string
}

func (s *stubOracle) Rank(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func scoredFixture(n int) []domain.ProductScore {
	out := make([]domain.ProductScore, n)
	for i := range out {
		out[i] = domain.ProductScore{
			Record:             domain.CatalogRecord{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Product %d", i)},
			DeterministicScore: float64(90 - i*5),
		}
	}
	return out
}

func TestReRank_MockMode(t *testing.T) {
	s := NewService(nil, DefaultConfig())

	scored := scoredFixture(4)
	out, mode := s.ReRank(context.Background(), scored, 3, domain.HairProfile{})

	if mode != ModeMock {
		t.Fatalf("expected mock mode, got %s", mode)
	}
	if len(out) != 3 {
		t.Fatalf("expected truncation to topK, got %d", len(out))
	}

	for i, p := range out {
		if p.Record.ID != scored[i].Record.ID {
			t.Errorf("expected deterministic order preserved at %d, got %s", i, p.Record.ID)
		}
		if p.FinalRank != i+1 {
			t.Errorf("expected final rank %d, got %d", i+1, p.FinalRank)
		}
		if p.AIScore == nil {
			t.Fatal("expected displayed score in mock mode")
		}
		if math.Abs(*p.AIScore-p.DeterministicScore) > DefaultConfig().MockJitter {
			t.Errorf("jitter out of bounds: %v vs %v", *p.AIScore, p.DeterministicScore)
		}
		if p.AIExplanation == "" {
			t.Error("expected a generic explanation in mock mode")
		}
	}
}

func TestReRank_OracleFailureFallsBack(t *testing.T) {
	oracle := &stubOracle{err: errors.New("quota exceeded")}
	s := NewService(oracle, DefaultConfig())

	scored := scoredFixture(3)
	out, mode := s.ReRank(context.Background(), scored, 3, domain.HairProfile{})

	if mode != ModeFallback {
		t.Fatalf("expected fallback mode, got %s", mode)
	}
	for i, p := range out {
		if p.Record.ID != scored[i].Record.ID {
			t.Errorf("expected deterministic order preserved at %d", i)
		}
		if p.AIScore != nil {
			t.Error("fallback must not fabricate AI scores")
		}
		if !strings.HasSuffix(p.AIExplanation, " (generic)") {
			t.Errorf("expected generic-flagged explanation, got %q", p.AIExplanation)
		}
	}
}

func TestReRank_MalformedResponseFallsBack(t *testing.T) {
	oracle := &stubOracle{response: "Sorry, I can only help with hair care questions."}
	s := NewService(oracle, DefaultConfig())

	out, mode := s.ReRank(context.Background(), scoredFixture(2), 2, domain.HairProfile{})

	if mode != ModeFallback {
		t.Fatalf("expected fallback mode on malformed response, got %s", mode)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
}

func TestReRank_AIMerge(t *testing.T) {
	// oracle flips the deterministic order
	oracle := &stubOracle{
		response: `[{"id":"p1","score":95,"explanation":"best fit"},{"id":"p0","score":60,"explanation":"decent"}]`,
	}
	s := NewService(oracle, DefaultConfig())

	out, mode := s.ReRank(context.Background(), scoredFixture(3), 3, domain.HairProfile{})

	if mode != ModeAI {
		t.Fatalf("expected ai mode, got %s", mode)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}

	if out[0].Record.ID != "p1" {
		t.Errorf("expected oracle winner first, got %s", out[0].Record.ID)
	}
	if out[0].AIScore == nil || *out[0].AIScore != 95 {
		t.Errorf("expected merged ai score, got %v", out[0].AIScore)
	}
	if out[0].AIExplanation != "best fit" {
		t.Errorf("unexpected explanation %q", out[0].AIExplanation)
	}

	// p2 was unmatched and keeps only its deterministic score
	for _, p := range out {
		if p.Record.ID == "p2" && p.AIScore != nil {
			t.Error("unmatched candidate must not gain an ai score")
		}
	}

	for i, p := range out {
		if p.FinalRank != i+1 {
			t.Errorf("expected contiguous final ranks, got %d at %d", p.FinalRank, i)
		}
	}
}

func TestReRank_CandidateWindow(t *testing.T) {
	oracle := &stubOracle{err: errors.New("down")}
	cfg := DefaultConfig()
	cfg.CandidateMultiplier = 2
	s := NewService(oracle, cfg)

	s.ReRank(context.Background(), scoredFixture(10), 3, domain.HairProfile{})

	if len(oracle.prompts) != 1 {
		t.Fatalf("expected one oracle call, got %d", len(oracle.prompts))
	}
	// 3*2 candidates in the prompt, not all 10
	if strings.Contains(oracle.prompts[0], "p6") {
		t.Error("expected prompt limited to the candidate window")
	}
	if !strings.Contains(oracle.prompts[0], "p5") {
		t.Error("expected the full candidate window in the prompt")
	}
}

func TestReRank_EmptyCandidates(t *testing.T) {
	t.Run("without oracle", func(t *testing.T) {
		s := NewService(nil, DefaultConfig())

		out, mode := s.ReRank(context.Background(), nil, 5, domain.HairProfile{})
		if len(out) != 0 {
			t.Errorf("expected empty result, got %d", len(out))
		}
		if mode != ModeNone {
			t.Errorf("expected none mode, got %s", mode)
		}
	})

	// an oracle being configured does not mean it ran
	t.Run("with oracle", func(t *testing.T) {
		oracle := &stubOracle{response: "[]"}
		s := NewService(oracle, DefaultConfig())

		out, mode := s.ReRank(context.Background(), nil, 5, domain.HairProfile{})
		if len(out) != 0 {
			t.Errorf("expected empty result, got %d", len(out))
		}
		if mode != ModeNone {
			t.Errorf("expected none mode, got %s", mode)
		}
		if len(oracle.prompts) != 0 {
			t.Errorf("expected no oracle call, got %d", len(oracle.prompts))
		}
	})
}

func TestTruncate_RuneBoundary(t *testing.T) {
	// "é" is two bytes; cutting at byte 3 would split the first one
	s := "abéé"

	got := truncate(s, 3)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated string is not valid UTF-8: %q", got)
	}
	if got != "ab..." {
		t.Errorf("expected cut before the split rune, got %q", got)
	}

	if got := truncate("plain", 10); got != "plain" {
		t.Errorf("short strings must pass through, got %q", got)
	}
}
