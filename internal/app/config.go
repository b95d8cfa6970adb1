package app

import (
	"fmt"
	"time"

	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/utils"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:            utils.GetEnv("PORT", "8080", log),
		JWTSecretKey:    utils.GetEnv("JWT_SECRET_KEY", "", log),
		AccessTokenTTL:  time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
		RefreshTokenTTL: time.Duration(utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 604800, log)) * time.Second,
	}
}

// Validate runs at startup so a misconfigured process refuses to boot instead
// of failing requests later.
func (c Config) Validate() error {
	if c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	return nil
}
