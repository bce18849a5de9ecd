package app

import (
	"time"

	"github.com/yungbote/lexipath/internal/platform/envutil"
	"github.com/yungbote/lexipath/internal/platform/logger"
	"github.com/yungbote/lexipath/internal/recommender"
)

type Config struct {
	Language     string
	CacheTTL     time.Duration
	TelemetryDSN string
	Weights      recommender.Config
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Language:     envutil.String("LEXIPATH_LANG", ""),
		CacheTTL:     time.Duration(envutil.Int("NODE_CACHE_TTL_SECONDS", 300)) * time.Second,
		TelemetryDSN: envutil.String("SRS_DB_DSN", ""),
		Weights:      recommender.LoadConfig(log),
	}
}
