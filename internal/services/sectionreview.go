package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"gorm.io/gorm"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/sse"
)

// sectionFields maps each review section to the property columns it owns.
// A field belongs to at most one section.
var sectionFields = map[string][]string{
	"legal-documents": {
		"doc_purchase_contract",
		"doc_land_registry_note",
		"doc_energy_certificate",
		"doc_iban_certificate",
		"doc_home_insurance",
	},
	"property-data": {
		"address",
		"city",
		"area_cluster",
		"bedrooms",
		"bathrooms",
		"square_meters",
		"rental_type",
		"purchase_price",
		"target_rent",
	},
	"utility-contracts": {
		"doc_utility_contract_power",
		"doc_utility_contract_water",
		"doc_utility_bill_power",
		"doc_utility_bill_water",
	},
	"renovation": {
		"renovation_file_urls",
		"renovation_cost",
	},
}

var fieldSection = func() map[string]string {
	m := make(map[string]string)
	for section, fields := range sectionFields {
		for _, f := range fields {
			m[f] = section
		}
	}
	return m
}()

// SectionReviewService reverts a section to "not yet reviewed" when a field it
// owns diverges from the snapshot taken at the time the section was marked
// incorrect. It runs as a best-effort side effect after the caller's primary
// write; failures degrade to "no reset performed" and never propagate.
type SectionReviewService interface {
	ResetOnFieldChanges(ctx context.Context, propertyUniqueID string, changed map[string]any) bool
}

type sectionReviewService struct {
	db           *gorm.DB
	log          *logger.Logger
	propertyRepo repos.PropertyRepo
	notifier     Notifier
}

func NewSectionReviewService(
	db *gorm.DB,
	baseLog *logger.Logger,
	propertyRepo repos.PropertyRepo,
	notifier Notifier,
) SectionReviewService {
	return &sectionReviewService{
		db:           db,
		log:          baseLog.With("service", "SectionReviewService"),
		propertyRepo: propertyRepo,
		notifier:     notifier,
	}
}

func (s *sectionReviewService) ResetOnFieldChanges(ctx context.Context, propertyUniqueID string, changed map[string]any) bool {
	if len(changed) == 0 {
		return false
	}

	prop, err := s.propertyRepo.GetByUniqueID(ctx, nil, propertyUniqueID)
	if err != nil {
		s.log.Warn("section review load failed", "error", err, "property_unique_id", propertyUniqueID)
		return false
	}
	if prop.CurrentStage != rentals.StageProphero {
		return false
	}

	reviews, err := rentals.ParseSectionReviews(prop.PropheroSectionReviews)
	if err != nil {
		s.log.Error("unparsable section reviews, skipping reset", "error", err, "property_unique_id", propertyUniqueID)
		return false
	}

	toReset := map[string]bool{}
	for field, newValue := range changed {
		section, ok := fieldSection[field]
		if !ok {
			continue
		}
		review, ok := reviews[section]
		if !ok {
			continue
		}
		if review.IsCorrect == nil || *review.IsCorrect || review.Snapshot == nil {
			continue
		}
		if !snapshotEqual(newValue, review.Snapshot[field]) {
			toReset[section] = true
		}
	}
	if len(toReset) == 0 {
		return false
	}

	for section := range toReset {
		review := reviews[section]
		review.IsCorrect = nil
		review.Reviewed = false
		review.Comments = nil
		// SubmittedComments and Snapshot are kept as the audit record.
		reviews[section] = review
	}

	encoded, err := reviews.Encode()
	if err != nil {
		s.log.Error("encode section reviews failed", "error", err, "property_unique_id", propertyUniqueID)
		return false
	}
	if err := s.propertyRepo.UpdateSectionReviews(ctx, nil, propertyUniqueID, encoded); err != nil {
		s.log.Error("persist section reviews failed", "error", err, "property_unique_id", propertyUniqueID)
		return false
	}

	sections := make([]string, 0, len(toReset))
	for section := range toReset {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	s.log.Info("section reviews reset",
		"property_unique_id", propertyUniqueID,
		"sections", strings.Join(sections, ","),
	)

	if s.notifier != nil {
		s.notifier.Notify(ctx, sse.SSEMessage{
			Channel: sse.PropertyChannel(propertyUniqueID),
			Event:   sse.SSEEventPropertySectionReviewsReset,
			Data: map[string]any{
				"property_unique_id": propertyUniqueID,
				"sections":           sections,
				"section_reviews":    reviews,
			},
		})
	}
	return true
}

// snapshotEqual compares a freshly-written value against its snapshot value.
// Arrays compare as order-independent multisets; scalars compare after JSON
// canonicalization with nil normalized to null. Values may arrive as Go typed
// values (from request payloads) or as decoded JSON (from the stored
// snapshot), so both sides round-trip through JSON first.
func snapshotEqual(a, b any) bool {
	return canonicalValue(a) == canonicalValue(b)
}

func canonicalValue(v any) string {
	if v == nil {
		return "null"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return string(raw)
	}
	if decoded == nil {
		return "null"
	}
	if arr, ok := decoded.([]any); ok {
		elems := make([]string, 0, len(arr))
		for _, e := range arr {
			eb, err := json.Marshal(e)
			if err != nil {
				eb = []byte("null")
			}
			elems = append(elems, string(eb))
		}
		sort.Strings(elems)
		return "[" + strings.Join(elems, ",") + "]"
	}
	out, err := json.Marshal(decoded)
	if err != nil {
		return "null"
	}
	return string(out)
}

// SectionForField resolves a property column to its owning review section;
// the second return is false for untracked columns.
func SectionForField(field string) (string, bool) {
	s, ok := fieldSection[field]
	return s, ok
}
