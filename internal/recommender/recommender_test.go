package recommender

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/yungbote/lexipath/internal/domain"
	"github.com/yungbote/lexipath/internal/graph"
	"github.com/yungbote/lexipath/internal/platform/logger"
	"github.com/yungbote/lexipath/internal/telemetry"
)

type stubSource struct {
	records []telemetry.RawReviewRecord
	err     error
}

func (s *stubSource) Query(ctx context.Context, filter string) ([]telemetry.RawReviewRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

type stubGraph struct {
	nodes map[string]domain.KnowledgeNode
	err   error
}

func (s *stubGraph) FetchNodes(ctx context.Context, scope graph.LanguageScope) (map[string]domain.KnowledgeNode, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.nodes, nil
}

func newTestRecommender(src telemetry.Source, g graph.Service, cfg Config) *Recommender {
	return New(telemetry.NewAdapter(src, logger.Nop()), g, cfg, logger.Nop())
}

func discreteGraph() *stubGraph {
	base := discreteNode("lex:base", 1)
	next := discreteNode("lex:next", 1)
	next.Prerequisites = []string{"lex:base"}
	far := discreteNode("lex:far", 3)
	return &stubGraph{nodes: map[string]domain.KnowledgeNode{
		"lex:base": base,
		"lex:next": next,
		"lex:far":  far,
	}}
}

func reviewedBase() *stubSource {
	return &stubSource{records: []telemetry.RawReviewRecord{
		{
			RecordID:     "card-1",
			IntervalDays: 60,
			EaseFactor:   intPtr(2600),
			Linkage:      json.RawMessage(`{"0": ["lex:base"]}`),
		},
	}}
}

func TestGenerateDiscreteEndToEnd(t *testing.T) {
	r := newTestRecommender(reviewedBase(), discreteGraph(), DefaultConfig())

	res, err := r.Generate(context.Background(), "deck:mandarin", graph.DefaultScope())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Regime != domain.RegimeDiscrete {
		t.Fatalf("expected discrete regime, got %s", res.Regime)
	}
	if res.FrontierTier == nil || *res.FrontierTier != 1 {
		t.Fatalf("expected frontier at tier 1, got %v", res.FrontierTier)
	}
	if len(res.Degraded) != 0 {
		t.Fatalf("no collaborator degraded, got %v", res.Degraded)
	}
	if res.Mastery.Score("lex:base") < 0.7 {
		t.Fatalf("well-reviewed base node should be mastered, got %f", res.Mastery.Score("lex:base"))
	}

	if len(res.Exploratory) != 2 {
		t.Fatalf("expected next and far as exploratory, got %v", res.Exploratory)
	}
	if res.Exploratory[0].NodeID != "lex:next" {
		t.Fatalf("frontier-matched node must rank first, got %s", res.Exploratory[0].NodeID)
	}
	for _, rec := range res.Exploratory {
		if rec.NodeID == "lex:base" {
			t.Fatalf("mastered node leaked into exploratory output")
		}
	}
	if len(res.Remedial) != 0 {
		t.Fatalf("nothing is weak-but-seen here, got %v", res.Remedial)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	r := newTestRecommender(reviewedBase(), discreteGraph(), DefaultConfig())

	first, err := r.Generate(context.Background(), "", graph.DefaultScope())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := r.Generate(context.Background(), "", graph.DefaultScope())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !reflect.DeepEqual(first.Exploratory, second.Exploratory) {
		t.Fatalf("exploratory output differs across identical calls")
	}
	if !reflect.DeepEqual(first.Remedial, second.Remedial) {
		t.Fatalf("remedial output differs across identical calls")
	}
	if !reflect.DeepEqual(first.Mastery, second.Mastery) {
		t.Fatalf("mastery vector differs across identical calls")
	}
	if first.Regime != second.Regime {
		t.Fatalf("regime differs across identical calls")
	}
}

func TestGenerateTelemetryTimeoutDegrades(t *testing.T) {
	src := &stubSource{err: &telemetry.Error{Op: "query", Timeout: true, Err: context.DeadlineExceeded}}
	r := newTestRecommender(src, discreteGraph(), DefaultConfig())

	res, err := r.Generate(context.Background(), "", graph.DefaultScope())
	if err != nil {
		t.Fatalf("timeout must degrade, not fail: %v", err)
	}
	if len(res.Mastery) != 0 {
		t.Fatalf("degraded run should carry an empty mastery vector, got %v", res.Mastery)
	}
	if len(res.Degraded) != 1 || res.Degraded[0] != "telemetry" {
		t.Fatalf("expected telemetry named as degraded, got %v", res.Degraded)
	}
	// Every node is unreviewed now; recommendations still come back.
	if len(res.Exploratory) == 0 {
		t.Fatalf("expected best-effort exploratory output")
	}
}

func TestGenerateGraphTimeoutDegrades(t *testing.T) {
	g := &stubGraph{err: &graph.Error{Op: "fetch_nodes", Timeout: true, Err: context.DeadlineExceeded}}
	r := newTestRecommender(reviewedBase(), g, DefaultConfig())

	res, err := r.Generate(context.Background(), "", graph.DefaultScope())
	if err != nil {
		t.Fatalf("timeout must degrade, not fail: %v", err)
	}
	if len(res.Nodes) != 0 || len(res.Exploratory) != 0 {
		t.Fatalf("no graph context means no exploratory output, got %v", res.Exploratory)
	}
	if len(res.Degraded) != 1 || res.Degraded[0] != "graph" {
		t.Fatalf("expected graph named as degraded, got %v", res.Degraded)
	}
}

func TestGenerateHardFailuresPropagate(t *testing.T) {
	src := &stubSource{err: &telemetry.Error{Op: "query", Err: errors.New("401 unauthorized")}}
	r := newTestRecommender(src, discreteGraph(), DefaultConfig())
	_, err := r.Generate(context.Background(), "", graph.DefaultScope())
	var te *telemetry.Error
	if err == nil || !errors.As(err, &te) {
		t.Fatalf("expected telemetry error to propagate, got %v", err)
	}

	g := &stubGraph{err: &graph.Error{Op: "fetch_nodes", Err: errors.New("malformed response")}}
	r = newTestRecommender(reviewedBase(), g, DefaultConfig())
	_, err = r.Generate(context.Background(), "", graph.DefaultScope())
	var ge *graph.Error
	if err == nil || !errors.As(err, &ge) {
		t.Fatalf("expected graph error to propagate, got %v", err)
	}
}

func TestGenerateScopePinsRegime(t *testing.T) {
	scope, ok := graph.ScopeFor("de")
	if !ok {
		t.Fatalf("de scope should be registered")
	}
	// Nodes look discrete, but the caller asked for a continuous language.
	r := newTestRecommender(reviewedBase(), discreteGraph(), DefaultConfig())
	res, err := r.Generate(context.Background(), "", scope)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Regime != domain.RegimeContinuous {
		t.Fatalf("scope regime must win, got %s", res.Regime)
	}
}

func TestGenerateExplicitTargetLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetDiscreteLevel = 3
	r := newTestRecommender(reviewedBase(), discreteGraph(), cfg)

	res, err := r.Generate(context.Background(), "", graph.DefaultScope())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.FrontierTier == nil || *res.FrontierTier != 3 {
		t.Fatalf("explicit target must override detection, got %v", res.FrontierTier)
	}
	// The HSK3 node now sits on the frontier and outranks the HSK1 one.
	if len(res.Exploratory) == 0 || res.Exploratory[0].NodeID != "lex:far" {
		t.Fatalf("expected lex:far first at target level 3, got %v", res.Exploratory)
	}
}
