package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	authrepos "github.com/vistral/rentals-backend/internal/data/repos/auth"
	"github.com/vistral/rentals-backend/internal/domain/user"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/requestdata"
	"github.com/vistral/rentals-backend/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("email already registered")
)

type AuthConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type accessClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*user.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*user.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, rd requestdata.RequestData) error
	SetContextFromToken(ctx context.Context, tokenString string) (requestdata.RequestData, error)
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	cfg       AuthConfig
	userRepo  authrepos.UserRepo
	tokenRepo authrepos.UserTokenRepo
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg AuthConfig,
	userRepo authrepos.UserRepo,
	tokenRepo authrepos.UserTokenRepo,
) AuthService {
	return &authService{
		db:        db,
		log:       baseLog.With("service", "AuthService"),
		cfg:       cfg,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

func (s *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*user.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, invalidf("email and password are required")
	}
	existing, err := s.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, nil, err
	}
	if len(existing) > 0 {
		return nil, nil, ErrEmailTaken
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}
	created, err := s.userRepo.Create(ctx, nil, []*user.User{{
		Email:     email,
		Password:  hashed,
		FirstName: firstName,
		LastName:  lastName,
		Role:      user.RoleViewer,
	}})
	if err != nil {
		return nil, nil, err
	}
	u := created[0]

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("user registered", "user_id", u.ID, "email", u.Email)
	return u, pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*user.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	found, err := s.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, nil, err
	}
	if len(found) == 0 {
		return nil, nil, ErrInvalidCredentials
	}
	u := found[0]
	if err := utils.CheckPassword(u.Password, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}
	tokens, err := s.tokenRepo.GetByRefreshTokens(ctx, nil, []string{refreshToken})
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, ErrInvalidToken
	}
	stored := tokens[0]
	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokenRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{stored.ID})
		return nil, ErrInvalidToken
	}
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{stored.UserID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrInvalidToken
	}

	// Rotate: the old refresh token is spent.
	if err := s.tokenRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{stored.ID}); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, users[0])
}

func (s *authService) Logout(ctx context.Context, rd requestdata.RequestData) error {
	if rd.UserID == uuid.Nil {
		return ErrInvalidToken
	}
	return s.tokenRepo.FullDeleteByUserIDs(ctx, nil, []uuid.UUID{rd.UserID})
}

// SetContextFromToken validates a bearer token and returns the request's
// session data.
func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (requestdata.RequestData, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return requestdata.RequestData{}, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return requestdata.RequestData{}, ErrInvalidToken
	}
	return requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Role:        claims.Role,
	}, nil
}

func (s *authService) issueTokens(ctx context.Context, u *user.User) (*TokenPair, error) {
	now := time.Now()
	claims := accessClaims{
		UserID: u.ID.String(),
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	expires := now.Add(s.cfg.RefreshTTL)
	if _, err := s.tokenRepo.Create(ctx, nil, []*user.UserToken{{
		UserID:       u.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expires,
	}}); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expires}, nil
}
