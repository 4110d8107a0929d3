package auth

import (
	"github.com/smallbiznis/garagebook/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("auth",
	fx.Provide(NewVerifier),
	fx.Invoke(warnIfUnconfigured),
)

func warnIfUnconfigured(cfg config.Config, log *zap.Logger) {
	if cfg.AuthJWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET is empty, every API request will be rejected")
	}
}
