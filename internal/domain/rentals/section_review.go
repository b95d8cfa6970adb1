package rentals

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// SectionReview is one reviewer judgment inside the property's
// prophero_section_reviews map, keyed by section id.
//
// IsCorrect == nil means the section has not been reviewed since creation or
// since the last reset. Snapshot holds the values of the section's monitored
// fields captured when the section was last marked incorrect; it exists only
// for sections that have been marked incorrect at least once.
type SectionReview struct {
	IsCorrect         *bool          `json:"isCorrect"`
	Reviewed          bool           `json:"reviewed"`
	Comments          *string        `json:"comments"`
	SubmittedComments *string        `json:"submittedComments"`
	Snapshot          map[string]any `json:"snapshot,omitempty"`
}

type SectionReviewMap map[string]SectionReview

// ParseSectionReviews decodes the stored JSON map. A null/empty column decodes
// to an empty map; malformed JSON returns an error so callers can fail closed.
func ParseSectionReviews(raw datatypes.JSON) (SectionReviewMap, error) {
	if len(raw) == 0 {
		return SectionReviewMap{}, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		// Double-encoded payloads written by older clients.
		raw = datatypes.JSON(s)
	}
	out := SectionReviewMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m SectionReviewMap) Encode() (datatypes.JSON, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
