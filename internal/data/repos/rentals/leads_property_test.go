package rentals

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/vistral/rentals-backend/internal/data/repos/testutil"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
)

func TestLeadsPropertyRepo_DuplicatePairIsConflict(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewLeadsPropertyRepo(gdb, testutil.Logger(t))

	testutil.SeedLead(t, ctx, tx, "LEAD-A-1")
	testutil.SeedProperty(t, ctx, tx, "PROP-A-1")

	if _, err := repo.Create(ctx, tx, &rentals.LeadsProperty{
		LeadsUniqueID:      "LEAD-A-1",
		PropertiesUniqueID: "PROP-A-1",
		Status:             "assigned",
	}); err != nil {
		t.Fatalf("first assignment: %v", err)
	}

	_, err := repo.Create(ctx, tx, &rentals.LeadsProperty{
		LeadsUniqueID:      "LEAD-A-1",
		PropertiesUniqueID: "PROP-A-1",
		Status:             "assigned",
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("got %v, want gorm.ErrDuplicatedKey", err)
	}

	var count int64
	if err := tx.Model(&rentals.LeadsProperty{}).
		Where("leads_unique_id = ? AND properties_unique_id = ?", "LEAD-A-1", "PROP-A-1").
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d join rows, want exactly 1", count)
	}
}

func TestLeadsPropertyRepo_SamePairDifferentLeadIsFine(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewLeadsPropertyRepo(gdb, testutil.Logger(t))

	testutil.SeedLead(t, ctx, tx, "LEAD-B-1")
	testutil.SeedLead(t, ctx, tx, "LEAD-B-2")
	testutil.SeedProperty(t, ctx, tx, "PROP-B-1")

	for _, lead := range []string{"LEAD-B-1", "LEAD-B-2"} {
		if _, err := repo.Create(ctx, tx, &rentals.LeadsProperty{
			LeadsUniqueID:      lead,
			PropertiesUniqueID: "PROP-B-1",
		}); err != nil {
			t.Fatalf("assign %s: %v", lead, err)
		}
	}

	list, err := repo.ListByProperty(ctx, tx, "PROP-B-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d assignments, want 2", len(list))
	}
}

func TestLeadsPropertyRepo_DeleteByPair(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewLeadsPropertyRepo(gdb, testutil.Logger(t))

	testutil.SeedLead(t, ctx, tx, "LEAD-C-1")
	testutil.SeedProperty(t, ctx, tx, "PROP-C-1")

	if _, err := repo.Create(ctx, tx, &rentals.LeadsProperty{
		LeadsUniqueID:      "LEAD-C-1",
		PropertiesUniqueID: "PROP-C-1",
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := repo.DeleteByPair(ctx, tx, "LEAD-C-1", "PROP-C-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByPair(ctx, tx, "LEAD-C-1", "PROP-C-1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("got %v, want gorm.ErrRecordNotFound", err)
	}
}
