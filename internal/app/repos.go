package app

import (
	"gorm.io/gorm"

	authrepos "github.com/vistral/rentals-backend/internal/data/repos/auth"
	rentalrepos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

type Repos struct {
	User          authrepos.UserRepo
	UserToken     authrepos.UserTokenRepo
	Property      rentalrepos.PropertyRepo
	Lead          rentalrepos.LeadRepo
	LeadsProperty rentalrepos.LeadsPropertyRepo
	Task          rentalrepos.PropertyTaskRepo
	Visit         rentalrepos.PropertyVisitRepo
	Tenant        rentalrepos.PropertyTenantRepo
	Rental        rentalrepos.PropertyRentalRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          authrepos.NewUserRepo(db, log),
		UserToken:     authrepos.NewUserTokenRepo(db, log),
		Property:      rentalrepos.NewPropertyRepo(db, log),
		Lead:          rentalrepos.NewLeadRepo(db, log),
		LeadsProperty: rentalrepos.NewLeadsPropertyRepo(db, log),
		Task:          rentalrepos.NewPropertyTaskRepo(db, log),
		Visit:         rentalrepos.NewPropertyVisitRepo(db, log),
		Tenant:        rentalrepos.NewPropertyTenantRepo(db, log),
		Rental:        rentalrepos.NewPropertyRentalRepo(db, log),
	}
}
