package rentals

import (
	"context"
	"testing"

	"github.com/vistral/rentals-backend/internal/data/repos/testutil"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
)

func TestLeadRepo_UpsertAndDocsUpdate(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewLeadRepo(gdb, testutil.Logger(t))

	lead := testutil.SeedLead(t, ctx, tx, "LEAD-R-1")

	lead.MonthlyIncome = 2500
	if _, err := repo.Upsert(ctx, tx, lead); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var count int64
	if err := tx.Model(&rentals.Lead{}).Where("leads_unique_id = ?", "LEAD-R-1").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d rows, want 1", count)
	}

	docs := rentals.LaboralFinancialDocs{
		Obligatory: map[string]string{"id_document": "https://example.com/id.pdf"},
	}
	encoded, err := docs.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := repo.UpdateLaboralFinancialDocs(ctx, tx, "LEAD-R-1", encoded); err != nil {
		t.Fatalf("update docs: %v", err)
	}

	got, err := repo.GetByUniqueID(ctx, tx, "LEAD-R-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	parsed, err := rentals.ParseLaboralFinancialDocs(got.LaboralFinancialDocs)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Obligatory["id_document"] != "https://example.com/id.pdf" {
		t.Fatalf("stored docs wrong: %+v", parsed)
	}
	if got.MonthlyIncome != 2500 {
		t.Fatalf("upsert lost field update: %+v", got)
	}
}

func TestLeadRepo_ListByEmploymentStatus(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewLeadRepo(gdb, testutil.Logger(t))

	testutil.SeedLead(t, ctx, tx, "LEAD-R-2")
	self := testutil.SeedLead(t, ctx, tx, "LEAD-R-3")
	self.EmploymentStatus = rentals.EmploymentSelfEmployed
	if _, err := repo.Upsert(ctx, tx, self); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	list, err := repo.List(ctx, tx, LeadFilter{EmploymentStatus: rentals.EmploymentSelfEmployed})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].LeadsUniqueID != "LEAD-R-3" {
		t.Fatalf("employment filter wrong: %+v", list)
	}
}
