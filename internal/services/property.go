package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/gcp"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/sse"
)

// immutablePropertyColumns cannot be patched through Update; they are either
// identity or managed by the document and review flows.
var immutablePropertyColumns = map[string]bool{
	"id":                       true,
	"property_unique_id":       true,
	"prophero_section_reviews": true,
	"created_at":               true,
	"updated_at":               true,
	"deleted_at":               true,
}

type PropertyService interface {
	Upsert(ctx context.Context, p *rentals.Property) (*rentals.Property, error)
	Get(ctx context.Context, uniqueID string) (*rentals.Property, error)
	List(ctx context.Context, f repos.PropertyFilter) ([]*rentals.Property, error)
	Update(ctx context.Context, uniqueID string, fields map[string]any) (*rentals.Property, error)
	Delete(ctx context.Context, uniqueID string) error
	Kanban(ctx context.Context) (map[string][]*rentals.Property, error)
	SetSectionReviews(ctx context.Context, uniqueID string, reviews rentals.SectionReviewMap) (*rentals.Property, error)
}

type propertyService struct {
	db            *gorm.DB
	log           *logger.Logger
	propertyRepo  repos.PropertyRepo
	bucket        gcp.BucketService
	sectionReview SectionReviewService
	notifier      Notifier
}

func NewPropertyService(
	db *gorm.DB,
	baseLog *logger.Logger,
	propertyRepo repos.PropertyRepo,
	bucket gcp.BucketService,
	sectionReview SectionReviewService,
	notifier Notifier,
) PropertyService {
	return &propertyService{
		db:            db,
		log:           baseLog.With("service", "PropertyService"),
		propertyRepo:  propertyRepo,
		bucket:        bucket,
		sectionReview: sectionReview,
		notifier:      notifier,
	}
}

func (s *propertyService) Upsert(ctx context.Context, p *rentals.Property) (*rentals.Property, error) {
	if p.PropertyUniqueID == "" {
		return nil, invalidf("property_unique_id is required")
	}
	if p.CurrentStage == "" {
		p.CurrentStage = rentals.StageSourcing
	}
	return s.propertyRepo.Upsert(ctx, nil, p)
}

func (s *propertyService) Get(ctx context.Context, uniqueID string) (*rentals.Property, error) {
	return s.propertyRepo.GetByUniqueID(ctx, nil, uniqueID)
}

func (s *propertyService) List(ctx context.Context, f repos.PropertyFilter) ([]*rentals.Property, error) {
	return s.propertyRepo.List(ctx, nil, f)
}

func (s *propertyService) Update(ctx context.Context, uniqueID string, fields map[string]any) (*rentals.Property, error) {
	patch := map[string]any{}
	for k, v := range fields {
		if immutablePropertyColumns[k] {
			continue
		}
		patch[k] = v
	}
	if len(patch) == 0 {
		return nil, invalidf("no updatable fields in request")
	}
	if err := s.propertyRepo.UpdateFields(ctx, nil, uniqueID, patch); err != nil {
		return nil, err
	}

	// Review invalidation runs after the write and never fails the update.
	if s.sectionReview != nil {
		s.sectionReview.ResetOnFieldChanges(ctx, uniqueID, patch)
	}

	updated, err := s.propertyRepo.GetByUniqueID(ctx, nil, uniqueID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, sse.SSEMessage{
			Channel: sse.PropertyChannel(uniqueID),
			Event:   sse.SSEEventPropertyUpdated,
			Data:    updated,
		})
	}
	return updated, nil
}

func (s *propertyService) Delete(ctx context.Context, uniqueID string) error {
	if _, err := s.propertyRepo.GetByUniqueID(ctx, nil, uniqueID); err != nil {
		return err
	}
	if err := s.propertyRepo.DeleteByUniqueID(ctx, nil, uniqueID); err != nil {
		return err
	}
	// Row is gone; orphaned objects are acceptable, dangling pointers are not.
	if s.bucket != nil {
		if err := s.bucket.DeletePrefix(ctx, gcp.BucketCategoryPropertyDocs, uniqueID+"/"); err != nil {
			s.log.Warn("document cleanup after property delete failed", "error", err, "property_unique_id", uniqueID)
		}
	}
	return nil
}

func (s *propertyService) Kanban(ctx context.Context) (map[string][]*rentals.Property, error) {
	all, err := s.propertyRepo.List(ctx, nil, repos.PropertyFilter{})
	if err != nil {
		return nil, err
	}
	board := map[string][]*rentals.Property{}
	for _, stage := range rentals.Stages {
		board[stage] = []*rentals.Property{}
	}
	for _, p := range all {
		board[p.CurrentStage] = append(board[p.CurrentStage], p)
	}
	return board, nil
}

// SetSectionReviews stores a reviewer's submission. Snapshots are captured
// here so the reset rule has a baseline to compare later writes against.
func (s *propertyService) SetSectionReviews(ctx context.Context, uniqueID string, reviews rentals.SectionReviewMap) (*rentals.Property, error) {
	prop, err := s.propertyRepo.GetByUniqueID(ctx, nil, uniqueID)
	if err != nil {
		return nil, err
	}
	for section := range reviews {
		if _, ok := sectionFields[section]; !ok {
			return nil, invalidf("unknown review section %q", section)
		}
	}
	for section, review := range reviews {
		review.Reviewed = true
		// A snapshot exists only once the section has been marked incorrect;
		// it is the baseline later field writes are compared against.
		if review.IsCorrect != nil && !*review.IsCorrect && review.Snapshot == nil {
			review.Snapshot = snapshotForSection(prop, section)
		}
		reviews[section] = review
	}
	encoded, err := reviews.Encode()
	if err != nil {
		return nil, err
	}
	if err := s.propertyRepo.UpdateSectionReviews(ctx, nil, uniqueID, encoded); err != nil {
		return nil, err
	}
	updated, err := s.propertyRepo.GetByUniqueID(ctx, nil, uniqueID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, sse.SSEMessage{
			Channel: sse.PropertyChannel(uniqueID),
			Event:   sse.SSEEventPropertyUpdated,
			Data:    updated,
		})
	}
	return updated, nil
}

// snapshotForSection captures the current value of every field the section
// tracks, keyed by column name. The property's json tags mirror its column
// names, so the JSON form doubles as a column lookup.
func snapshotForSection(p *rentals.Property, section string) map[string]any {
	raw, err := json.Marshal(p)
	if err != nil {
		return map[string]any{}
	}
	var byColumn map[string]any
	if err := json.Unmarshal(raw, &byColumn); err != nil {
		return map[string]any{}
	}
	snap := map[string]any{}
	for _, field := range sectionFields[section] {
		snap[field] = byColumn[field]
	}
	return snap
}
