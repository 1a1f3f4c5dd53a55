package recommend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"myHairMatch/business/compat"
	"myHairMatch/business/eco"
	"myHairMatch/business/rerank"
	"myHairMatch/business/scoring"
	"myHairMatch/domain"
	"myHairMatch/pkg/logger"

	"github.com/google/uuid"
	"github.com/pobyzaarif/goshortcute"
)

// ErrProfileRequired is returned when a pipeline run is requested for a user
// without a stored hair profile. This is a caller validation error, not a
// recoverable pipeline condition.
var ErrProfileRequired = errors.New("hair profile required")

var ErrResultNotFound = errors.New("recommendation result not found")

// ---- Collaborator interfaces ----

// CatalogSource is one external product catalog. Implementations return an
// empty slice for ordinary "no results" and an error only for real failures.
type CatalogSource interface {
	Search(ctx context.Context, tags []string, limit int) ([]domain.CatalogRecord, error)
}

type ScienceLookup interface {
	BatchLookup(ctx context.Context, names []string) (map[string]domain.IngredientScienceFact, error)
}

type ProductRepository interface {
	UpsertBatch(ctx context.Context, records []domain.CatalogRecord) error
	FindByID(ctx context.Context, id string) (domain.CatalogRecord, error)
}

type ResultRepository interface {
	Create(ctx context.Context, result *domain.RecommendationResult) error
	FindByID(ctx context.Context, id string) (domain.RecommendationResult, error)
	FindLatestByUser(ctx context.Context, userID uint) (domain.RecommendationResult, error)
	FindAllByUser(ctx context.Context, userID uint, limit int) ([]domain.RecommendationResult, error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uint) (domain.HairProfile, bool, error)
}

// ResultCache fronts the result repository for latest-result reads.
type ResultCache interface {
	StoreLatest(ctx context.Context, userID uint, result domain.RecommendationResult) error
	GetLatest(ctx context.Context, userID uint) (*domain.RecommendationResult, error)
}

// ---- Service ----

type Config struct {
	TopK             int
	SearchLimit      int
	EnrichBatchSize  int
	PersistBatchSize int
	SourceTimeout    time.Duration
	ShareCodeKey     string
	ShareCodeTTL     time.Duration
}

func DefaultConfig() Config {
	return Config{
		TopK:             10,
		SearchLimit:      50,
		EnrichBatchSize:  5,
		PersistBatchSize: 20,
		SourceTimeout:    10 * time.Second,
		ShareCodeTTL:     7 * 24 * time.Hour,
	}
}

// Service sequences the recommendation pipeline: fetch, deduplicate, enrich,
// score, re-rank, persist.
type Service struct {
	sources  map[string]CatalogSource
	scorer   *scoring.Engine
	reranker *rerank.Service
	eco      *eco.Scorer
	compat   *compat.Engine

	science  ScienceLookup
	safety   scoring.SafetyAnalyzer
	reviewer scoring.ReviewFetcher

	productRepo ProductRepository
	resultRepo  ResultRepository
	profileRepo ProfileRepository
	cache       ResultCache

	cfg Config

	resync *resyncState
}

func NewService(
	sources map[string]CatalogSource,
	scorer *scoring.Engine,
	reranker *rerank.Service,
	ecoScorer *eco.Scorer,
	compatEngine *compat.Engine,
	science ScienceLookup,
	safety scoring.SafetyAnalyzer,
	reviewer scoring.ReviewFetcher,
	productRepo ProductRepository,
	resultRepo ResultRepository,
	profileRepo ProfileRepository,
	cache ResultCache,
	cfg Config,
) *Service {
	return &Service{
		sources:     sources,
		scorer:      scorer,
		reranker:    reranker,
		eco:         ecoScorer,
		compat:      compatEngine,
		science:     science,
		safety:      safety,
		reviewer:    reviewer,
		productRepo: productRepo,
		resultRepo:  resultRepo,
		profileRepo: profileRepo,
		cache:       cache,
		cfg:         cfg,
		resync:      newResyncState(),
	}
}

type RunOptions struct {
	TopK int
	Tags []string
}

// Run executes one full pipeline run for the user. A run either completes
// (possibly with partial enrichment and persistence failures, surfaced in the
// metadata) or fails with a reported error; there is no mid-run cancel.
func (s *Service) Run(ctx context.Context, userID uint, opts RunOptions) (domain.RecommendationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("context error: %w", err)
	}

	profile, ok, err := s.profileRepo.GetProfile(ctx, userID)
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("load hair profile: %w", err)
	}
	if !ok {
		return domain.RecommendationResult{}, ErrProfileRequired
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	searchTags := opts.Tags
	if len(searchTags) == 0 {
		searchTags = searchTagsFromProfile(profile)
	}

	start := time.Now()
	metadata := domain.RunMetadata{SourcesQueried: len(s.sources)}

	candidates := s.fetchAll(ctx, searchTags, &metadata)
	metadata.CandidateCount = len(candidates)

	deduped := Deduplicate(candidates)
	metadata.DedupedCount = len(deduped)

	enriched := s.enrichRecords(ctx, deduped, profile)

	scored := s.scorer.ScoreAll(ctx, enriched, profile)
	metadata.ScoredCount = len(scored)

	ranked, mode := s.reranker.ReRank(ctx, scored, topK, profile)
	metadata.RerankMode = mode

	metadata.PersistFailures = s.persistRecords(ctx, enriched)

	metadata.DurationMS = time.Since(start).Milliseconds()

	result := domain.RecommendationResult{
		ID:              uuid.NewString(),
		UserID:          userID,
		Profile:         profile,
		Recommendations: ranked,
		Metadata:        metadata,
		CreatedAt:       time.Now(),
	}

	if err := s.resultRepo.Create(ctx, &result); err != nil {
		logger.Error("pipeline_result_persist_failed", "user_id", userID, "error", err)
		result.Metadata.PersistFailures++
		PersistFailuresTotal.Inc()
	}

	if s.cache != nil {
		if err := s.cache.StoreLatest(ctx, userID, result); err != nil {
			logger.Warn("pipeline_result_cache_failed", "user_id", userID, "error", err)
		}
	}

	PipelineRunsTotal.WithLabelValues(mode).Inc()
	PipelineDuration.Observe(time.Since(start).Seconds())

	logger.Info("pipeline_run_complete",
		"user_id", userID,
		"candidates", metadata.CandidateCount,
		"deduped", metadata.DedupedCount,
		"scored", metadata.ScoredCount,
		"returned", len(ranked),
		"rerank_mode", mode,
		"duration_ms", metadata.DurationMS,
	)

	return result, nil
}

// fetchAll queries every catalog source concurrently and joins the results.
// A failing source is logged and surfaced in the metadata; the run continues
// with whatever succeeded.
func (s *Service) fetchAll(ctx context.Context, tags []string, metadata *domain.RunMetadata) []domain.CatalogRecord {
	type fetchResult struct {
		source  string
		records []domain.CatalogRecord
		err     error
	}

	results := make(chan fetchResult, len(s.sources))

	for name, source := range s.sources {
		go func(name string, source CatalogSource) {
			fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
			defer cancel()

			records, err := source.Search(fetchCtx, tags, s.cfg.SearchLimit)
			results <- fetchResult{source: name, records: records, err: err}
		}(name, source)
	}

	var all []domain.CatalogRecord
	for range s.sources {
		res := <-results
		if res.err != nil {
			metadata.SourcesFailed++
			metadata.SourceErrors = append(metadata.SourceErrors,
				fmt.Sprintf("%s: %v", res.source, res.err))
			SourceFailuresTotal.WithLabelValues(res.source).Inc()
			logger.Warn("catalog_source_failed", "source", res.source, "error", res.err)
			continue
		}
		all = append(all, res.records...)
	}

	return all
}

// persistRecords upserts the enriched catalog in fixed-size chunks. A failed
// chunk loses only its own records; remaining chunks still run.
func (s *Service) persistRecords(ctx context.Context, records []domain.CatalogRecord) int {
	if s.productRepo == nil || len(records) == 0 {
		return 0
	}

	batchSize := s.cfg.PersistBatchSize
	if batchSize <= 0 {
		batchSize = 20
	}

	failures := 0
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}

		if err := s.productRepo.UpsertBatch(ctx, records[start:end]); err != nil {
			failures++
			PersistFailuresTotal.Inc()
			logger.Error("catalog_persist_chunk_failed", "offset", start, "size", end-start, "error", err)
		}
	}

	return failures
}

// Latest returns the user's most recent result, trying the cache first.
func (s *Service) Latest(ctx context.Context, userID uint) (domain.RecommendationResult, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetLatest(ctx, userID); err == nil && cached != nil {
			return *cached, nil
		}
	}

	result, err := s.resultRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		return domain.RecommendationResult{}, err
	}

	return result, nil
}

// History lists the user's past results, newest first.
func (s *Service) History(ctx context.Context, userID uint, limit int) ([]domain.RecommendationResult, error) {
	return s.resultRepo.FindAllByUser(ctx, userID, limit)
}

// CheckCompatibility runs the rule engine for one product against the user's
// stored profile, for the product detail view.
func (s *Service) CheckCompatibility(ctx context.Context, userID uint, productID string) (compat.Assessment, error) {
	profile, ok, err := s.profileRepo.GetProfile(ctx, userID)
	if err != nil {
		return compat.Assessment{}, fmt.Errorf("load hair profile: %w", err)
	}
	if !ok {
		return compat.Assessment{}, ErrProfileRequired
	}

	record, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return compat.Assessment{}, err
	}

	ingredients := record.NormalizedIngredients
	if len(ingredients) == 0 {
		ingredients = record.Ingredients
	}

	return s.compatAssessment(ctx, ingredients, profile), nil
}

// ---- Result sharing ----

// ShareCode produces an encrypted, expiring code for a persisted result, in
// the same AES-CBC + base64 shape used for other short-lived links.
func (s *Service) ShareCode(ctx context.Context, userID uint, resultID string) (string, error) {
	result, err := s.resultRepo.FindByID(ctx, resultID)
	if err != nil {
		return "", ErrResultNotFound
	}
	if result.UserID != userID {
		return "", ErrResultNotFound
	}

	expAt := time.Now().Add(s.cfg.ShareCodeTTL).Unix()
	payload := fmt.Sprintf("%s|%d", result.ID, expAt)

	encrypted, err := goshortcute.AESCBCEncrypt([]byte(payload), []byte(s.cfg.ShareCodeKey))
	if err != nil {
		return "", fmt.Errorf("encrypt share code: %w", err)
	}

	return goshortcute.StringtoBase64Encode(encrypted), nil
}

// ResolveShareCode validates a share code and returns the referenced result.
func (s *Service) ResolveShareCode(ctx context.Context, code string) (domain.RecommendationResult, error) {
	decoded := goshortcute.StringtoBase64Decode(code)

	payload, err := goshortcute.AESCBCDecrypt([]byte(decoded), []byte(s.cfg.ShareCodeKey))
	if err != nil {
		return domain.RecommendationResult{}, errors.New("invalid or expired share code")
	}

	parts := strings.SplitN(payload, "|", 2)
	if len(parts) != 2 {
		return domain.RecommendationResult{}, errors.New("invalid or expired share code")
	}

	expAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || time.Now().After(time.Unix(expAt, 0)) {
		return domain.RecommendationResult{}, errors.New("invalid or expired share code")
	}

	result, err := s.resultRepo.FindByID(ctx, parts[0])
	if err != nil {
		return domain.RecommendationResult{}, ErrResultNotFound
	}

	return result, nil
}

func searchTagsFromProfile(profile domain.HairProfile) []string {
	var tags []string
	if profile.HairType != "" {
		tags = append(tags, profile.HairType)
	}
	if profile.Porosity != "" {
		tags = append(tags, profile.Porosity+" porosity")
	}
	tags = append(tags, profile.Concerns...)
	return tags
}
