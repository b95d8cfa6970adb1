package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/domain/user"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, role string) *user.User {
	tb.Helper()
	u := &user.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProperty(tb testing.TB, ctx context.Context, tx *gorm.DB, uniqueID string) *rentals.Property {
	tb.Helper()
	p := &rentals.Property{
		ID:               uuid.New(),
		PropertyUniqueID: uniqueID,
		Address:          "Calle Mayor 1",
		City:             "Madrid",
		AreaCluster:      "Centro",
		Bedrooms:         3,
		CurrentStage:     rentals.StageProphero,
		Status:           "active",
		RenovationFileURLs:     datatypes.JSON([]byte("[]")),
		PropheroSectionReviews: datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed property: %v", err)
	}
	return p
}

func SeedLead(tb testing.TB, ctx context.Context, tx *gorm.DB, uniqueID string) *rentals.Lead {
	tb.Helper()
	l := &rentals.Lead{
		ID:               uuid.New(),
		LeadsUniqueID:    uniqueID,
		FullName:         "Test Lead",
		Email:            fmt.Sprintf("%s@example.com", uniqueID),
		EmploymentStatus: rentals.EmploymentEmployed,
		Status:           "new",
		LaboralFinancialDocs: datatypes.JSON([]byte(`{"obligatory":{},"complementary":[]}`)),
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lead: %v", err)
	}
	return l
}

func PtrFloat(f float64) *float64 { return &f }
func PtrInt(i int) *int           { return &i }
