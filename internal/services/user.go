package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authrepos "github.com/vistral/rentals-backend/internal/data/repos/auth"
	"github.com/vistral/rentals-backend/internal/domain/user"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role string) (*user.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo authrepos.UserRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo authrepos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      baseLog.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return users[0], nil
}

func (s *userService) SetRole(ctx context.Context, id uuid.UUID, role string) (*user.User, error) {
	switch role {
	case user.RoleAdmin, user.RoleAnalyst, user.RoleSupply, user.RoleViewer:
	default:
		return nil, invalidf("unknown role %q", role)
	}
	if err := s.userRepo.UpdateRole(ctx, nil, id, role); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}
