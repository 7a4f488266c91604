package logger

import (
	"go.uber.org/zap"

	"github.com/rajaryan190/world-map/internal/config"
)

// New returns a JSON production logger in production and a console development logger elsewhere.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Env == "production" {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}
