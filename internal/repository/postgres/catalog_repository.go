package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"myHairMatch/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		DB: db,
	}
}

// UpsertBatch writes one chunk of records, updating existing rows by primary
// key. Enrichment written earlier is overwritten by the fresher copy.
func (r *CatalogRepository) UpsertBatch(ctx context.Context, records []domain.CatalogRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&records).Error
	if err != nil {
		return fmt.Errorf("failed to upsert catalog records: %w", err)
	}

	return nil
}

func (r *CatalogRepository) FindByID(ctx context.Context, id string) (domain.CatalogRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.CatalogRecord{}, fmt.Errorf("context error: %w", err)
	}

	var record domain.CatalogRecord

	err := r.DB.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CatalogRecord{}, errors.New("product not found")
		}
		return domain.CatalogRecord{}, fmt.Errorf("failed to find product: %w", err)
	}

	return record, nil
}

// FindAll lists stored records with optional free-text filtering on name and
// brand, newest first.
func (r *CatalogRepository) FindAll(ctx context.Context, query string, limit, offset int) ([]domain.CatalogRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	db := r.DB.WithContext(ctx).Model(&domain.CatalogRecord{})
	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + q + "%"
		db = db.Where("name ILIKE ? OR brand ILIKE ?", pattern, pattern)
	}

	var records []domain.CatalogRecord
	err := db.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return records, nil
}

// Search makes the stored catalog queryable as one more pipeline source. Tag
// matching is substring-based against the jsonb tags column plus name and
// brand, so profile-derived tags like "low porosity" hit loosely labeled
// records too.
func (r *CatalogRepository) Search(ctx context.Context, tags []string, limit int) ([]domain.CatalogRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}

	db := r.DB.WithContext(ctx).Model(&domain.CatalogRecord{})

	if len(tags) > 0 {
		var conditions []string
		var args []interface{}
		for _, tag := range tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			pattern := "%" + strings.ToLower(tag) + "%"
			conditions = append(conditions, "(LOWER(tags::text) LIKE ? OR name ILIKE ? OR brand ILIKE ?)")
			args = append(args, pattern, pattern, pattern)
		}
		if len(conditions) > 0 {
			db = db.Where(strings.Join(conditions, " OR "), args...)
		}
	}

	var records []domain.CatalogRecord
	err := db.Order("updated_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return records, nil
}

func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.CatalogRecord{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("product not found or already deleted")
	}

	return nil
}
