package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yungbote/lexipath/internal/domain"
	"github.com/yungbote/lexipath/internal/graph"
	"github.com/yungbote/lexipath/internal/platform/envutil"
	"github.com/yungbote/lexipath/internal/platform/logger"
	"github.com/yungbote/lexipath/internal/telemetry"
)

func newLogger() (*logger.Logger, error) {
	mode := os.Getenv("LOG_MODE")
	if mode == "" {
		mode = "production"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// scopeFor resolves the --lang flag, falling back to LEXIPATH_LANG and then
// to an unscoped fetch.
func scopeFor(language string, log *logger.Logger) graph.LanguageScope {
	if language == "" {
		language = envutil.String("LEXIPATH_LANG", "")
	}
	if language != "" {
		if scope, ok := graph.ScopeFor(language); ok {
			return scope
		}
		log.Warn("Unknown language, fetching unscoped", "language", language)
	}
	return graph.DefaultScope()
}

// newTelemetrySource prefers a local review-state database when a DSN is
// given; otherwise it talks to the review platform API.
func newTelemetrySource(dsn, apiURL string, log *logger.Logger) (telemetry.Source, error) {
	if dsn == "" {
		dsn = envutil.String("SRS_DB_DSN", "")
	}
	if dsn != "" {
		src, err := telemetry.NewDBSource(dsn, log)
		if err != nil {
			return nil, fmt.Errorf("opening review-state store: %w", err)
		}
		return src, nil
	}
	src, err := telemetry.NewHTTPSource(log, apiURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to the review platform: %w", err)
	}
	return src, nil
}

func nodeLevel(node domain.KnowledgeNode) string {
	if node.DiscreteLevel != nil {
		return "tier " + strconv.Itoa(*node.DiscreteLevel)
	}
	if node.ContinuousLevel != nil {
		return *node.ContinuousLevel
	}
	return ""
}

// resolveTargetLevel accepts a tier ordinal ("3") or a proficiency label
// ("B1") and returns the 1-based ordinal shared by both ladders.
func resolveTargetLevel(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 1 {
			return 0, fmt.Errorf("target level must be at least 1, got %d", n)
		}
		return n, nil
	}
	if idx, ok := domain.ContinuousTierIndex(trimmed); ok {
		return idx + 1, nil
	}
	return 0, fmt.Errorf("unrecognized target level %q: use a tier number or one of %s",
		raw, strings.Join(domain.ContinuousTiers, ", "))
}
