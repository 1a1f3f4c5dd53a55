package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"myHairMatch/domain"
	"myHairMatch/pkg/logger"

	"github.com/google/uuid"
)

// CatalogRepository contract interface
type CatalogRepository interface {
	UpsertBatch(ctx context.Context, records []domain.CatalogRecord) error
	FindByID(ctx context.Context, id string) (domain.CatalogRecord, error)
	FindAll(ctx context.Context, query string, limit, offset int) ([]domain.CatalogRecord, error)
	Search(ctx context.Context, tags []string, limit int) ([]domain.CatalogRecord, error)
	Delete(ctx context.Context, id string) error
}

// ScienceRepository contract interface
type ScienceRepository interface {
	Upsert(ctx context.Context, fact domain.IngredientScienceFact) error
	BatchLookup(ctx context.Context, names []string) (map[string]domain.IngredientScienceFact, error)
}

type catalogService struct {
	catalogRepo CatalogRepository
	scienceRepo ScienceRepository
}

func NewCatalogService(catalogRepo CatalogRepository, scienceRepo ScienceRepository) *catalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		scienceRepo: scienceRepo,
	}
}

func (s *catalogService) GetAllProducts(ctx context.Context, query string, limit, offset int) ([]domain.CatalogRecord, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all products")
		return nil, fmt.Errorf("context error: %w", err)
	}

	records, err := s.catalogRepo.FindAll(ctx, query, limit, offset)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}

	return records, nil
}

func (s *catalogService) GetProductByID(ctx context.Context, id string) (*domain.CatalogRecord, error) {
	if id == "" {
		logger.Error("invalid product id")
		return nil, errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get product by id")
		return nil, fmt.Errorf("context error: %w", err)
	}

	record, err := s.catalogRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", err.Error())
		return nil, err
	}

	return &record, nil
}

// CreateProduct stores a manually curated record. Ingredient names are
// normalized here so the pipeline and the rule engine see one canonical form.
func (s *catalogService) CreateProduct(ctx context.Context, record *domain.CatalogRecord) (*domain.CatalogRecord, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	// Validation
	if record.Name == "" {
		logger.Error("Invalid product data: name is required")
		return nil, errors.New("product name is required")
	}

	if record.Brand == "" {
		logger.Error("Invalid product data: brand is required")
		return nil, errors.New("product brand is required")
	}

	if record.Price < 0 {
		logger.Error("Invalid product data: price cannot be negative")
		return nil, errors.New("price cannot be negative")
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Source == "" {
		record.Source = "manual"
	}
	if len(record.NormalizedIngredients) == 0 {
		record.NormalizedIngredients = NormalizeIngredients(record.Ingredients)
	}

	if err := s.catalogRepo.UpsertBatch(ctx, []domain.CatalogRecord{*record}); err != nil {
		logger.Error("failed to create new product", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Info("product created successfully", "id", record.ID)

	return record, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		logger.Error("Invalid product id when deleting product")
		return errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting product")
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.catalogRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete product", err)
		return err
	}

	logger.Info("product deleted success", "id", id)

	return nil
}

// UpsertIngredientFact stores one curated ingredient record for the rule
// engine's science lookups.
func (s *catalogService) UpsertIngredientFact(ctx context.Context, fact domain.IngredientScienceFact) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if strings.TrimSpace(fact.InciName) == "" {
		logger.Error("Invalid ingredient fact: inci name is required")
		return errors.New("inci name is required")
	}

	if err := s.scienceRepo.Upsert(ctx, fact); err != nil {
		logger.Error("failed to upsert ingredient fact", err)
		return err
	}

	return nil
}

// NormalizeIngredients lowercases and trims names, dropping empties and
// duplicates while keeping first-seen order.
func NormalizeIngredients(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}

	return out
}
