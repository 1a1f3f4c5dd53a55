package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"myHairMatch/domain"
)

type fakeCatalogRepo struct {
	upserted []domain.CatalogRecord
	byID     map[string]domain.CatalogRecord
}

func (f *fakeCatalogRepo) UpsertBatch(ctx context.Context, records []domain.CatalogRecord) error {
	f.upserted = append(f.upserted, records...)
	return nil
}

func (f *fakeCatalogRepo) FindByID(ctx context.Context, id string) (domain.CatalogRecord, error) {
	r, ok := f.byID[id]
	if !ok {
		return domain.CatalogRecord{}, errors.New("product not found")
	}
	return r, nil
}

func (f *fakeCatalogRepo) FindAll(ctx context.Context, query string, limit, offset int) ([]domain.CatalogRecord, error) {
	return nil, nil
}

func (f *fakeCatalogRepo) Search(ctx context.Context, tags []string, limit int) ([]domain.CatalogRecord, error) {
	return nil, nil
}

func (f *fakeCatalogRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeScienceRepo struct {
	upserted []domain.IngredientScienceFact
}

func (f *fakeScienceRepo) Upsert(ctx context.Context, fact domain.IngredientScienceFact) error {
	f.upserted = append(f.upserted, fact)
	return nil
}

func (f *fakeScienceRepo) BatchLookup(ctx context.Context, names []string) (map[string]domain.IngredientScienceFact, error) {
	return nil, nil
}

func TestCreateProduct(t *testing.T) {
	repo := &fakeCatalogRepo{}
	svc := NewCatalogService(repo, &fakeScienceRepo{})

	record := &domain.CatalogRecord{
		Name:        "Curl Cream",
		Brand:       "Lush Locks",
		Price:       14.5,
		Ingredients: []string{"Aqua", " Glycerin ", "aqua"},
	}

	created, err := svc.CreateProduct(context.Background(), record)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}
	if created.Source != "manual" {
		t.Errorf("expected manual source, got %s", created.Source)
	}
	if want := []string{"aqua", "glycerin"}; !reflect.DeepEqual([]string(created.NormalizedIngredients), want) {
		t.Errorf("unexpected normalized ingredients: %v", created.NormalizedIngredients)
	}
	if len(repo.upserted) != 1 {
		t.Error("expected record persisted")
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := NewCatalogService(&fakeCatalogRepo{}, &fakeScienceRepo{})

	cases := []struct {
		name   string
		record domain.CatalogRecord
	}{
		{"missing name", domain.CatalogRecord{Brand: "X"}},
		{"missing brand", domain.CatalogRecord{Name: "P"}},
		{"negative price", domain.CatalogRecord{Name: "P", Brand: "X", Price: -1}},
	}

	for _, c := range cases {
		record := c.record
		if _, err := svc.CreateProduct(context.Background(), &record); err == nil {
			t.Errorf("%s: expected rejection", c.name)
		}
	}
}

func TestUpsertIngredientFact_RequiresName(t *testing.T) {
	science := &fakeScienceRepo{}
	svc := NewCatalogService(&fakeCatalogRepo{}, science)

	if err := svc.UpsertIngredientFact(context.Background(), domain.IngredientScienceFact{InciName: "  "}); err == nil {
		t.Error("expected blank inci name rejected")
	}

	if err := svc.UpsertIngredientFact(context.Background(), domain.IngredientScienceFact{InciName: "glycerin"}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if len(science.upserted) != 1 {
		t.Error("expected fact persisted")
	}
}

func TestNormalizeIngredients(t *testing.T) {
	got := NormalizeIngredients([]string{"Aqua", "  ", "GLYCERIN", "aqua", ""})
	want := []string{"aqua", "glycerin"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
