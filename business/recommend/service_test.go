package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"myHairMatch/business/compat"
	"myHairMatch/business/eco"
	"myHairMatch/business/rerank"
	"myHairMatch/business/scoring"
	"myHairMatch/domain"
)

// ---- fakes ----

type fakeSource struct {
	records []domain.CatalogRecord
	err     error
}

func (f *fakeSource) Search(ctx context.Context, tags []string, limit int) ([]domain.CatalogRecord, error) {
	return f.records, f.err
}

type fakeProfileRepo struct {
	profile domain.HairProfile
	found   bool
	err     error
}

func (f *fakeProfileRepo) GetProfile(ctx context.Context, userID uint) (domain.HairProfile, bool, error) {
	return f.profile, f.found, f.err
}

type fakeProductRepo struct {
	upserts   int
	upsertErr error
	byID      map[string]domain.CatalogRecord
}

func (f *fakeProductRepo) UpsertBatch(ctx context.Context, records []domain.CatalogRecord) error {
	f.upserts++
	return f.upsertErr
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id string) (domain.CatalogRecord, error) {
	record, ok := f.byID[id]
	if !ok {
		return domain.CatalogRecord{}, errors.New("product not found")
	}
	return record, nil
}

type fakeResultRepo struct {
	created   []domain.RecommendationResult
	createErr error
	byID      map[string]domain.RecommendationResult
	latest    *domain.RecommendationResult
}

func (f *fakeResultRepo) Create(ctx context.Context, result *domain.RecommendationResult) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *result)
	if f.byID == nil {
		f.byID = map[string]domain.RecommendationResult{}
	}
	f.byID[result.ID] = *result
	return nil
}

func (f *fakeResultRepo) FindByID(ctx context.Context, id string) (domain.RecommendationResult, error) {
	result, ok := f.byID[id]
	if !ok {
		return domain.RecommendationResult{}, errors.New("result not found")
	}
	return result, nil
}

func (f *fakeResultRepo) FindLatestByUser(ctx context.Context, userID uint) (domain.RecommendationResult, error) {
	if f.latest == nil {
		return domain.RecommendationResult{}, errors.New("result not found")
	}
	return *f.latest, nil
}

func (f *fakeResultRepo) FindAllByUser(ctx context.Context, userID uint, limit int) ([]domain.RecommendationResult, error) {
	return f.created, nil
}

type fakeCache struct {
	stored map[uint]domain.RecommendationResult
	latest *domain.RecommendationResult
}

func (f *fakeCache) StoreLatest(ctx context.Context, userID uint, result domain.RecommendationResult) error {
	if f.stored == nil {
		f.stored = map[uint]domain.RecommendationResult{}
	}
	f.stored[userID] = result
	return nil
}

func (f *fakeCache) GetLatest(ctx context.Context, userID uint) (*domain.RecommendationResult, error) {
	if f.latest == nil {
		return nil, errors.New("result not cached")
	}
	return f.latest, nil
}

func testProfile() domain.HairProfile {
	return domain.HairProfile{
		HairType: domain.HairTypeCurly,
		Porosity: domain.PorosityLow,
		Concerns: []string{"frizz"},
	}
}

func newTestService(
	sources map[string]CatalogSource,
	productRepo ProductRepository,
	resultRepo ResultRepository,
	profileRepo ProfileRepository,
	cache ResultCache,
	cfg Config,
) *Service {
	return NewService(
		sources,
		scoring.NewEngine(scoring.DefaultConfig(), nil, nil),
		rerank.NewService(nil, rerank.DefaultConfig()),
		eco.NewScorer(eco.DefaultConfig()),
		compat.NewEngine(compat.DefaultConfig(), nil),
		nil, nil, nil,
		productRepo,
		resultRepo,
		profileRepo,
		cache,
		cfg,
	)
}

// ---- pipeline runs ----

func TestRun_ToleratesFailedSource(t *testing.T) {
	sources := map[string]CatalogSource{
		"good": &fakeSource{records: []domain.CatalogRecord{
			{ID: "a", Name: "Curl Cream", Brand: "X", Source: "good",
				Tags: []string{"curly", "anti-frizz"}},
			{ID: "b", Name: "Hydra Mask", Brand: "Y", Source: "good"},
		}},
		"down": &fakeSource{err: errors.New("connection refused")},
	}

	resultRepo := &fakeResultRepo{}
	cache := &fakeCache{}
	svc := newTestService(sources, &fakeProductRepo{}, resultRepo,
		&fakeProfileRepo{profile: testProfile(), found: true}, cache, DefaultConfig())

	result, err := svc.Run(context.Background(), 7, RunOptions{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Metadata.SourcesQueried != 2 || result.Metadata.SourcesFailed != 1 {
		t.Errorf("unexpected source accounting: %+v", result.Metadata)
	}
	if len(result.Metadata.SourceErrors) != 1 {
		t.Errorf("expected one surfaced source error, got %v", result.Metadata.SourceErrors)
	}
	if result.Metadata.CandidateCount != 2 || result.Metadata.ScoredCount != 2 {
		t.Errorf("expected the surviving source's records scored: %+v", result.Metadata)
	}
	if result.Metadata.RerankMode != rerank.ModeMock {
		t.Errorf("expected mock rerank mode without oracle, got %s", result.Metadata.RerankMode)
	}

	if result.ID == "" {
		t.Error("expected generated result id")
	}
	if len(resultRepo.created) != 1 {
		t.Fatalf("expected result persisted once, got %d", len(resultRepo.created))
	}
	if _, ok := cache.stored[7]; !ok {
		t.Error("expected latest result cached")
	}

	for i, rec := range result.Recommendations {
		if rec.FinalRank != i+1 {
			t.Errorf("expected final rank %d, got %d", i+1, rec.FinalRank)
		}
		if rec.Record.Sustainability == nil {
			t.Error("expected sustainability enrichment on every recommendation")
		}
	}
}

func TestRun_ProfileRequired(t *testing.T) {
	svc := newTestService(
		map[string]CatalogSource{"s": &fakeSource{}},
		&fakeProductRepo{}, &fakeResultRepo{},
		&fakeProfileRepo{found: false}, nil, DefaultConfig(),
	)

	_, err := svc.Run(context.Background(), 1, RunOptions{})
	if !errors.Is(err, ErrProfileRequired) {
		t.Fatalf("expected ErrProfileRequired, got %v", err)
	}
}

func TestRun_PersistChunkFailuresNotFatal(t *testing.T) {
	records := []domain.CatalogRecord{
		{ID: "a", Name: "A", Brand: "X", Source: "s"},
		{ID: "b", Name: "B", Brand: "X", Source: "s"},
		{ID: "c", Name: "C", Brand: "X", Source: "s"},
	}

	cfg := DefaultConfig()
	cfg.PersistBatchSize = 1

	productRepo := &fakeProductRepo{upsertErr: errors.New("disk full")}
	svc := newTestService(
		map[string]CatalogSource{"s": &fakeSource{records: records}},
		productRepo, &fakeResultRepo{},
		&fakeProfileRepo{profile: testProfile(), found: true}, nil, cfg,
	)

	result, err := svc.Run(context.Background(), 1, RunOptions{})
	if err != nil {
		t.Fatalf("persist failures must not fail the run: %v", err)
	}
	if productRepo.upserts != 3 {
		t.Errorf("expected every chunk attempted, got %d", productRepo.upserts)
	}
	if result.Metadata.PersistFailures != 3 {
		t.Errorf("expected 3 persist failures surfaced, got %d", result.Metadata.PersistFailures)
	}
	if len(result.Recommendations) == 0 {
		t.Error("expected recommendations despite persist failures")
	}
}

func TestRun_TopKOverride(t *testing.T) {
	records := make([]domain.CatalogRecord, 8)
	for i := range records {
		records[i] = domain.CatalogRecord{
			ID:     fmt.Sprintf("p%d", i),
			Name:   fmt.Sprintf("Product %d", i),
			Brand:  "X",
			Source: "s",
		}
	}

	svc := newTestService(
		map[string]CatalogSource{"s": &fakeSource{records: records}},
		&fakeProductRepo{}, &fakeResultRepo{},
		&fakeProfileRepo{profile: testProfile(), found: true}, nil, DefaultConfig(),
	)

	result, err := svc.Run(context.Background(), 1, RunOptions{TopK: 3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Recommendations) != 3 {
		t.Errorf("expected topK override honored, got %d", len(result.Recommendations))
	}
}

// ---- latest ----

func TestLatest_CacheFirst(t *testing.T) {
	cached := domain.RecommendationResult{ID: "cached", UserID: 3}
	repoResult := domain.RecommendationResult{ID: "from-db", UserID: 3}

	svc := newTestService(nil, &fakeProductRepo{},
		&fakeResultRepo{latest: &repoResult},
		&fakeProfileRepo{}, &fakeCache{latest: &cached}, DefaultConfig())

	got, err := svc.Latest(context.Background(), 3)
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if got.ID != "cached" {
		t.Errorf("expected cache hit, got %s", got.ID)
	}
}

func TestLatest_CacheMissFallsThrough(t *testing.T) {
	repoResult := domain.RecommendationResult{ID: "from-db", UserID: 3}

	svc := newTestService(nil, &fakeProductRepo{},
		&fakeResultRepo{latest: &repoResult},
		&fakeProfileRepo{}, &fakeCache{}, DefaultConfig())

	got, err := svc.Latest(context.Background(), 3)
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if got.ID != "from-db" {
		t.Errorf("expected repository fallback, got %s", got.ID)
	}
}

// ---- sharing ----

func shareTestService(resultRepo *fakeResultRepo, ttl time.Duration) *Service {
	cfg := DefaultConfig()
	cfg.ShareCodeKey = "0123456789abcdef0123456789abcdef"
	cfg.ShareCodeTTL = ttl
	return newTestService(nil, &fakeProductRepo{}, resultRepo, &fakeProfileRepo{}, nil, cfg)
}

func TestShareCode_RoundTrip(t *testing.T) {
	result := domain.RecommendationResult{ID: "res-1", UserID: 5}
	resultRepo := &fakeResultRepo{byID: map[string]domain.RecommendationResult{"res-1": result}}
	svc := shareTestService(resultRepo, time.Hour)

	code, err := svc.ShareCode(context.Background(), 5, "res-1")
	if err != nil {
		t.Fatalf("share code failed: %v", err)
	}
	if code == "" || code == "res-1" {
		t.Fatalf("expected opaque code, got %q", code)
	}

	resolved, err := svc.ResolveShareCode(context.Background(), code)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.ID != "res-1" {
		t.Errorf("expected original result, got %s", resolved.ID)
	}
}

func TestShareCode_WrongOwner(t *testing.T) {
	result := domain.RecommendationResult{ID: "res-1", UserID: 5}
	resultRepo := &fakeResultRepo{byID: map[string]domain.RecommendationResult{"res-1": result}}
	svc := shareTestService(resultRepo, time.Hour)

	if _, err := svc.ShareCode(context.Background(), 6, "res-1"); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("expected ErrResultNotFound for foreign result, got %v", err)
	}
}

func TestResolveShareCode_Expired(t *testing.T) {
	result := domain.RecommendationResult{ID: "res-1", UserID: 5}
	resultRepo := &fakeResultRepo{byID: map[string]domain.RecommendationResult{"res-1": result}}
	svc := shareTestService(resultRepo, -time.Hour)

	code, err := svc.ShareCode(context.Background(), 5, "res-1")
	if err != nil {
		t.Fatalf("share code failed: %v", err)
	}
	if _, err := svc.ResolveShareCode(context.Background(), code); err == nil {
		t.Fatal("expected expired code rejected")
	}
}

func TestResolveShareCode_Garbage(t *testing.T) {
	svc := shareTestService(&fakeResultRepo{}, time.Hour)

	if _, err := svc.ResolveShareCode(context.Background(), "not-a-code"); err == nil {
		t.Fatal("expected garbage code rejected")
	}
}

// ---- compatibility check ----

func TestCheckCompatibility(t *testing.T) {
	productRepo := &fakeProductRepo{byID: map[string]domain.CatalogRecord{
		"p1": {ID: "p1", Ingredients: []string{"Coconut Oil"}},
	}}
	svc := newTestService(nil, productRepo, &fakeResultRepo{},
		&fakeProfileRepo{profile: testProfile(), found: true}, nil, DefaultConfig())

	assessment, err := svc.CheckCompatibility(context.Background(), 1, "p1")
	if err != nil {
		t.Fatalf("compatibility check failed: %v", err)
	}
	// low porosity profile against a heavy oil
	if assessment.Adjustment >= 0 {
		t.Errorf("expected negative adjustment, got %d", assessment.Adjustment)
	}
}

func TestCheckCompatibility_ProfileRequired(t *testing.T) {
	svc := newTestService(nil, &fakeProductRepo{}, &fakeResultRepo{},
		&fakeProfileRepo{found: false}, nil, DefaultConfig())

	if _, err := svc.CheckCompatibility(context.Background(), 1, "p1"); !errors.Is(err, ErrProfileRequired) {
		t.Fatalf("expected ErrProfileRequired, got %v", err)
	}
}
