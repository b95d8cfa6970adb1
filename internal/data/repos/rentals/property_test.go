package rentals

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vistral/rentals-backend/internal/data/repos/testutil"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
)

func TestPropertyRepo_UpsertIsIdempotentOnUniqueID(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewPropertyRepo(gdb, testutil.Logger(t))

	first, err := repo.Upsert(ctx, tx, &rentals.Property{
		PropertyUniqueID: "PROP-UP-1",
		City:             "Madrid",
		CurrentStage:     rentals.StageSourcing,
		PurchasePrice:    100000,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	_, err = repo.Upsert(ctx, tx, &rentals.Property{
		PropertyUniqueID: "PROP-UP-1",
		City:             "Madrid",
		CurrentStage:     rentals.StageProphero,
		PurchasePrice:    120000,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	if err := tx.Model(&rentals.Property{}).Where("property_unique_id = ?", "PROP-UP-1").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d rows, want 1", count)
	}

	got, err := repo.GetByUniqueID(ctx, tx, "PROP-UP-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CurrentStage != rentals.StageProphero || got.PurchasePrice != 120000 {
		t.Fatalf("second upsert did not win: %+v", got)
	}
	if got.ID != first.ID {
		t.Fatalf("row identity changed across upserts: %s vs %s", first.ID, got.ID)
	}
}

func TestPropertyRepo_GetMissingIsNotFound(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewPropertyRepo(gdb, testutil.Logger(t))

	_, err := repo.GetByUniqueID(context.Background(), tx, "PROP-MISSING")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("got %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestPropertyRepo_ListFilters(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewPropertyRepo(gdb, testutil.Logger(t))

	seed := []*rentals.Property{
		{PropertyUniqueID: "PROP-F-1", City: "Madrid", CurrentStage: rentals.StageProphero, Status: "active", PurchasePrice: 90000, Bedrooms: 2},
		{PropertyUniqueID: "PROP-F-2", City: "Madrid", CurrentStage: rentals.StagePublished, Status: "paused", PurchasePrice: 150000, Bedrooms: 4},
		{PropertyUniqueID: "PROP-F-3", City: "Valencia", CurrentStage: rentals.StageProphero, Status: "active", PurchasePrice: 80000, Bedrooms: 3},
	}
	for _, p := range seed {
		if _, err := repo.Upsert(ctx, tx, p); err != nil {
			t.Fatalf("seed %s: %v", p.PropertyUniqueID, err)
		}
	}

	byCity, err := repo.List(ctx, tx, PropertyFilter{City: "Madrid"})
	if err != nil {
		t.Fatalf("list by city: %v", err)
	}
	if len(byCity) != 2 {
		t.Fatalf("city filter returned %d, want 2", len(byCity))
	}

	cheap, err := repo.List(ctx, tx, PropertyFilter{MaxPrice: testutil.PtrFloat(100000)})
	if err != nil {
		t.Fatalf("list by price: %v", err)
	}
	if len(cheap) != 2 {
		t.Fatalf("price filter returned %d, want 2", len(cheap))
	}

	big, err := repo.List(ctx, tx, PropertyFilter{MinBedrooms: testutil.PtrInt(3)})
	if err != nil {
		t.Fatalf("list by bedrooms: %v", err)
	}
	if len(big) != 2 {
		t.Fatalf("bedrooms filter returned %d, want 2", len(big))
	}

	active, err := repo.List(ctx, tx, PropertyFilter{Statuses: []string{"active"}, Stage: rentals.StageProphero})
	if err != nil {
		t.Fatalf("list by status+stage: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("status+stage filter returned %d, want 2", len(active))
	}
}

func TestPropertyRepo_UpdateSectionReviewsPersists(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewPropertyRepo(gdb, testutil.Logger(t))

	testutil.SeedProperty(t, ctx, tx, "PROP-SR-1")

	reviews := datatypes.JSON([]byte(`{"legal-documents":{"isCorrect":false,"reviewed":true}}`))
	if err := repo.UpdateSectionReviews(ctx, tx, "PROP-SR-1", reviews); err != nil {
		t.Fatalf("update reviews: %v", err)
	}

	got, err := repo.GetByUniqueID(ctx, tx, "PROP-SR-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	parsed, err := rentals.ParseSectionReviews(got.PropheroSectionReviews)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	review, ok := parsed["legal-documents"]
	if !ok || review.IsCorrect == nil || *review.IsCorrect || !review.Reviewed {
		t.Fatalf("stored reviews wrong: %+v", parsed)
	}
}
