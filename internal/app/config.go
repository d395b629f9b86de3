package app

import (
	"time"

	"github.com/wanderly/wanderly-backend/internal/pkg/envutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
)

type Config struct {
	ServiceName     string
	Environment     string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		ServiceName:     envutil.String("SERVICE_NAME", "wanderly"),
		Environment:     envutil.String("ENVIRONMENT", "development"),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", ""),
		AccessTokenTTL:  time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		RefreshTokenTTL: time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 604800)) * time.Second,
	}
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set, auth will fail to initialize")
	}
	return cfg
}
