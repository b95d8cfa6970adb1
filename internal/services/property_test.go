package services

import (
	"context"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/sse"
)

type fakeBoardRepo struct {
	repos.PropertyRepo

	props        []*rentals.Property
	savedFields  map[string]any
	savedReviews datatypes.JSON
	deleted      []string
}

func (f *fakeBoardRepo) Upsert(ctx context.Context, tx *gorm.DB, p *rentals.Property) (*rentals.Property, error) {
	f.props = append(f.props, p)
	return p, nil
}

func (f *fakeBoardRepo) GetByUniqueID(ctx context.Context, tx *gorm.DB, uniqueID string) (*rentals.Property, error) {
	for _, p := range f.props {
		if p.PropertyUniqueID == uniqueID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBoardRepo) List(ctx context.Context, tx *gorm.DB, filter repos.PropertyFilter) ([]*rentals.Property, error) {
	return f.props, nil
}

func (f *fakeBoardRepo) UpdateFields(ctx context.Context, tx *gorm.DB, uniqueID string, fields map[string]any) error {
	f.savedFields = fields
	return nil
}

func (f *fakeBoardRepo) UpdateSectionReviews(ctx context.Context, tx *gorm.DB, uniqueID string, reviews datatypes.JSON) error {
	f.savedReviews = reviews
	return nil
}

func (f *fakeBoardRepo) DeleteByUniqueID(ctx context.Context, tx *gorm.DB, uniqueID string) error {
	f.deleted = append(f.deleted, uniqueID)
	return nil
}

func propertySvc(t *testing.T, repo *fakeBoardRepo, bucket *fakeBucket, review *fakeSectionReview, notif *fakeNotifier) PropertyService {
	t.Helper()
	return NewPropertyService(nil, testLogger(t), repo, bucket, review, notif)
}

func TestPropertyService_KanbanSeedsEveryStage(t *testing.T) {
	repo := &fakeBoardRepo{props: []*rentals.Property{
		{PropertyUniqueID: "PROP-1", CurrentStage: rentals.StageProphero},
		{PropertyUniqueID: "PROP-2", CurrentStage: rentals.StageProphero},
		{PropertyUniqueID: "PROP-3", CurrentStage: rentals.StageRented},
	}}
	svc := propertySvc(t, repo, newFakeBucket(), &fakeSectionReview{}, &fakeNotifier{})

	board, err := svc.Kanban(context.Background())
	if err != nil {
		t.Fatalf("kanban: %v", err)
	}
	for _, stage := range rentals.Stages {
		if _, ok := board[stage]; !ok {
			t.Fatalf("stage %q missing from board", stage)
		}
	}
	if len(board[rentals.StageProphero]) != 2 {
		t.Fatalf("expected 2 properties in %q, got %d", rentals.StageProphero, len(board[rentals.StageProphero]))
	}
	if len(board[rentals.StageSourcing]) != 0 {
		t.Fatalf("empty stage should hold an empty column, got %d entries", len(board[rentals.StageSourcing]))
	}
}

func TestPropertyService_UpdateSkipsImmutableColumns(t *testing.T) {
	repo := &fakeBoardRepo{props: []*rentals.Property{
		{PropertyUniqueID: "PROP-1", CurrentStage: rentals.StageSourcing},
	}}
	review := &fakeSectionReview{}
	notif := &fakeNotifier{}
	svc := propertySvc(t, repo, newFakeBucket(), review, notif)

	_, err := svc.Update(context.Background(), "PROP-1", map[string]any{
		"city":                     "Sevilla",
		"property_unique_id":       "PROP-HACKED",
		"prophero_section_reviews": "{}",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := repo.savedFields["property_unique_id"]; ok {
		t.Fatal("identity column leaked into the patch")
	}
	if _, ok := repo.savedFields["prophero_section_reviews"]; ok {
		t.Fatal("review map must not be patchable through Update")
	}
	if repo.savedFields["city"] != "Sevilla" {
		t.Fatalf("city not patched: %v", repo.savedFields)
	}
	if len(review.calls) != 1 {
		t.Fatalf("review invalidation should run once, ran %d times", len(review.calls))
	}
	if len(notif.messages) != 1 || notif.messages[0].Event != sse.SSEEventPropertyUpdated {
		t.Fatalf("expected one PropertyUpdated event, got %+v", notif.messages)
	}
}

func TestPropertyService_UpdateWithOnlyImmutableFieldsFails(t *testing.T) {
	repo := &fakeBoardRepo{props: []*rentals.Property{
		{PropertyUniqueID: "PROP-1"},
	}}
	svc := propertySvc(t, repo, newFakeBucket(), &fakeSectionReview{}, &fakeNotifier{})

	if _, err := svc.Update(context.Background(), "PROP-1", map[string]any{"id": "x"}); err == nil {
		t.Fatal("expected error when nothing is updatable")
	}
	if repo.savedFields != nil {
		t.Fatal("no write should happen for an empty patch")
	}
}

func TestPropertyService_DeleteRemovesRowThenObjects(t *testing.T) {
	repo := &fakeBoardRepo{props: []*rentals.Property{
		{PropertyUniqueID: "PROP-1"},
	}}
	bucket := newFakeBucket()
	bucket.objects["PROP-1/documents/doc_home_insurance.pdf"] = true
	bucket.objects["PROP-2/documents/doc_home_insurance.pdf"] = true
	svc := propertySvc(t, repo, bucket, &fakeSectionReview{}, &fakeNotifier{})

	if err := svc.Delete(context.Background(), "PROP-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "PROP-1" {
		t.Fatalf("row not deleted: %v", repo.deleted)
	}
	if bucket.objects["PROP-1/documents/doc_home_insurance.pdf"] {
		t.Fatal("property objects should be removed with the row")
	}
	if !bucket.objects["PROP-2/documents/doc_home_insurance.pdf"] {
		t.Fatal("other properties' objects must survive")
	}
}

func TestPropertyService_SetSectionReviewsCapturesSnapshot(t *testing.T) {
	repo := &fakeBoardRepo{props: []*rentals.Property{
		{PropertyUniqueID: "PROP-1", CurrentStage: rentals.StageProphero, City: "Madrid", Bedrooms: 3},
	}}
	svc := propertySvc(t, repo, newFakeBucket(), &fakeSectionReview{}, &fakeNotifier{})

	_, err := svc.SetSectionReviews(context.Background(), "PROP-1", rentals.SectionReviewMap{
		"property-data": {IsCorrect: boolPtr(false)},
	})
	if err != nil {
		t.Fatalf("set section reviews: %v", err)
	}

	persisted, err := rentals.ParseSectionReviews(repo.savedReviews)
	if err != nil {
		t.Fatalf("parse persisted reviews: %v", err)
	}
	review, ok := persisted["property-data"]
	if !ok {
		t.Fatal("property-data review missing from persisted map")
	}
	if !review.Reviewed {
		t.Fatal("Reviewed must be set on submission")
	}
	if review.IsCorrect == nil || *review.IsCorrect {
		t.Fatalf("isCorrect not preserved: %+v", review.IsCorrect)
	}
	if review.Snapshot == nil {
		t.Fatal("incorrect submission must capture a snapshot")
	}
	if review.Snapshot["city"] != "Madrid" {
		t.Fatalf("snapshot missing tracked field values: %v", review.Snapshot)
	}
	if _, ok := review.Snapshot["status"]; ok {
		t.Fatal("snapshot must only hold the section's own fields")
	}
}

func TestPropertyService_SetSectionReviewsCorrectHasNoSnapshot(t *testing.T) {
	repo := &fakeBoardRepo{props: []*rentals.Property{
		{PropertyUniqueID: "PROP-1", CurrentStage: rentals.StageProphero, City: "Madrid"},
	}}
	svc := propertySvc(t, repo, newFakeBucket(), &fakeSectionReview{}, &fakeNotifier{})

	_, err := svc.SetSectionReviews(context.Background(), "PROP-1", rentals.SectionReviewMap{
		"property-data": {IsCorrect: boolPtr(true)},
	})
	if err != nil {
		t.Fatalf("set section reviews: %v", err)
	}

	persisted, err := rentals.ParseSectionReviews(repo.savedReviews)
	if err != nil {
		t.Fatalf("parse persisted reviews: %v", err)
	}
	review := persisted["property-data"]
	if !review.Reviewed {
		t.Fatal("Reviewed must be set on submission")
	}
	if review.Snapshot != nil {
		t.Fatal("a correct submission must not capture a snapshot")
	}
}

func TestPropertyService_SetSectionReviewsRejectsUnknownSection(t *testing.T) {
	repo := &fakeBoardRepo{props: []*rentals.Property{
		{PropertyUniqueID: "PROP-1"},
	}}
	svc := propertySvc(t, repo, newFakeBucket(), &fakeSectionReview{}, &fakeNotifier{})

	_, err := svc.SetSectionReviews(context.Background(), "PROP-1", rentals.SectionReviewMap{
		"no-such-section": {IsCorrect: boolPtr(false)},
	})
	if !IsInvalidInput(err) {
		t.Fatalf("want invalid-input error, got %v", err)
	}
	if repo.savedReviews != nil {
		t.Fatal("nothing should persist for a rejected submission")
	}
}

func TestPropertyService_UpsertRequiresUniqueID(t *testing.T) {
	svc := propertySvc(t, &fakeBoardRepo{}, newFakeBucket(), &fakeSectionReview{}, &fakeNotifier{})
	if _, err := svc.Upsert(context.Background(), &rentals.Property{}); err == nil {
		t.Fatal("expected error for missing property_unique_id")
	}

	saved, err := svc.Upsert(context.Background(), &rentals.Property{PropertyUniqueID: "PROP-9"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if saved.CurrentStage != rentals.StageSourcing {
		t.Fatalf("new properties default to sourcing, got %q", saved.CurrentStage)
	}
}
