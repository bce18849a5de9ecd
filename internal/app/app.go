// Package app wires the engine together: logger, config, collaborator
// clients, cache tier and the recommender itself.
package app

import (
	"context"
	"fmt"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lexipath/internal/graph"
	"github.com/yungbote/lexipath/internal/observability"
	"github.com/yungbote/lexipath/internal/platform/logger"
	"github.com/yungbote/lexipath/internal/platform/neo4jdb"
	"github.com/yungbote/lexipath/internal/platform/redisdb"
	"github.com/yungbote/lexipath/internal/recommender"
	"github.com/yungbote/lexipath/internal/telemetry"
)

// Options carries command-line overrides. Anything left at its zero value
// falls back to the environment or the weight profile.
type Options struct {
	GraphURI     string
	TelemetryURL string
	TelemetryDSN string
	Language     string
	TargetLevel  *int
	TopN         *int
	Slider       *float64
}

type App struct {
	Log         *logger.Logger
	Cfg         Config
	Neo4j       *neo4jdb.Client
	Redis       *goredis.Client
	Graph       graph.Service
	Telemetry   telemetry.Source
	Recommender *recommender.Recommender

	shutdownOtel func(context.Context) error
}

func New(ctx context.Context, opts Options) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "production"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)
	applyOptions(&cfg, opts)

	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{})

	neoCfg := neo4jdb.ConfigFromEnv()
	if opts.GraphURI != "" {
		neoCfg.URI = opts.GraphURI
	}
	neo, err := neo4jdb.New(neoCfg, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init neo4j: %w", err)
	}

	rdb, err := redisdb.New(log)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-process node cache", "error", err)
		rdb = nil
	}

	var cache graph.NodeCache
	if rdb != nil {
		cache = graph.NewRedisCache(rdb, cfg.CacheTTL, log)
	} else {
		cache = graph.NewMemoryCache(cfg.CacheTTL)
	}
	graphSvc := graph.NewCachedService(graph.NewNeo4jService(neo, log), cache, log)

	source, err := buildTelemetrySource(cfg, opts, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	adapter := telemetry.NewAdapter(source, log)
	rec := recommender.New(adapter, graphSvc, cfg.Weights, log)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Neo4j:        neo,
		Redis:        rdb,
		Graph:        graphSvc,
		Telemetry:    source,
		Recommender:  rec,
		shutdownOtel: shutdownOtel,
	}, nil
}

func applyOptions(cfg *Config, opts Options) {
	if opts.TelemetryDSN != "" {
		cfg.TelemetryDSN = opts.TelemetryDSN
	}
	if opts.Language != "" {
		cfg.Language = opts.Language
	}
	if opts.TargetLevel != nil {
		cfg.Weights.TargetDiscreteLevel = *opts.TargetLevel
	}
	if opts.TopN != nil && *opts.TopN > 0 {
		cfg.Weights.TopN = *opts.TopN
	}
	if opts.Slider != nil {
		s := *opts.Slider
		if s < 0 {
			s = 0
		}
		if s > 1 {
			s = 1
		}
		cfg.Weights.Slider = s
	}
}

// buildTelemetrySource prefers a local review-state database when a DSN is
// configured; otherwise it talks to the review platform API.
func buildTelemetrySource(cfg Config, opts Options, log *logger.Logger) (telemetry.Source, error) {
	if cfg.TelemetryDSN != "" {
		src, err := telemetry.NewDBSource(cfg.TelemetryDSN, log)
		if err != nil {
			return nil, fmt.Errorf("init telemetry store: %w", err)
		}
		return src, nil
	}
	src, err := telemetry.NewHTTPSource(log, opts.TelemetryURL)
	if err != nil {
		return nil, fmt.Errorf("init telemetry connector: %w", err)
	}
	return src, nil
}

// Scope resolves the configured language to its graph scope; unset or
// unregistered languages fetch unscoped.
func (a *App) Scope() graph.LanguageScope {
	if a.Cfg.Language != "" {
		if scope, ok := graph.ScopeFor(a.Cfg.Language); ok {
			return scope
		}
		a.Log.Warn("Unknown language, fetching unscoped", "language", a.Cfg.Language)
	}
	return graph.DefaultScope()
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.Neo4j != nil {
		if err := a.Neo4j.Close(ctx); err != nil {
			a.Log.Warn("Neo4j close failed", "error", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warn("Redis close failed", "error", err)
		}
	}
	if a.shutdownOtel != nil {
		if err := a.shutdownOtel(ctx); err != nil {
			a.Log.Warn("Tracer shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
