package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/domain/user"
)

// Models returns every model the automigration manages, in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&user.UserToken{},
		&rentals.Property{},
		&rentals.Lead{},
		&rentals.LeadsProperty{},
		&rentals.PropertyTask{},
		&rentals.PropertyVisit{},
		&rentals.PropertyTenant{},
		&rentals.PropertyRental{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}
