package recommender

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/lexipath/internal/domain"
	"github.com/yungbote/lexipath/internal/graph"
	"github.com/yungbote/lexipath/internal/observability"
	"github.com/yungbote/lexipath/internal/platform/logger"
	"github.com/yungbote/lexipath/internal/telemetry"
)

// Result is one full recommendation pass. Everything inside is built fresh
// per call; the engine keeps nothing between invocations.
type Result struct {
	RunID        string                          `json:"run_id"`
	Regime       domain.Regime                   `json:"regime"`
	FrontierTier *int                            `json:"frontier_tier,omitempty"`
	Exploratory  []domain.Recommendation         `json:"exploratory"`
	Remedial     []domain.Recommendation         `json:"remedial"`
	Mastery      domain.MasteryVector            `json:"mastery"`
	Nodes        map[string]domain.KnowledgeNode `json:"nodes"`
	Degraded     []string                        `json:"degraded,omitempty"`
}

// FrontierLabel renders the frontier tier in the regime's vocabulary: the
// ladder label for continuous, the bare level number for discrete.
func (res *Result) FrontierLabel() string {
	if res.FrontierTier == nil {
		return ""
	}
	if res.Regime == domain.RegimeContinuous {
		if label, ok := domain.ContinuousTierAt(*res.FrontierTier); ok {
			return label
		}
		return ""
	}
	return strconv.Itoa(*res.FrontierTier)
}

// Recommender runs the pipeline: telemetry to mastery, graph fetch, frontier
// detection, strategy scoring, assembly. Stateless between calls, so
// concurrent invocations with different inputs are safe.
type Recommender struct {
	telemetry *telemetry.Adapter
	graph     graph.Service
	cfg       Config
	log       *logger.Logger
	tracer    trace.Tracer
}

func New(adapter *telemetry.Adapter, graphSvc graph.Service, cfg Config, log *logger.Logger) *Recommender {
	return &Recommender{
		telemetry: adapter,
		graph:     graphSvc,
		cfg:       cfg,
		log:       log.With("service", "Recommender"),
		tracer:    observability.Tracer("recommender"),
	}
}

// Generate runs one full pass. A collaborator timeout degrades to empty
// input with a warning (and is named in Result.Degraded); any other
// collaborator failure aborts the pass.
func (r *Recommender) Generate(ctx context.Context, collectionFilter string, scope graph.LanguageScope) (*Result, error) {
	runID := uuid.New().String()
	log := r.log.With("run_id", runID)

	ctx, span := r.tracer.Start(ctx, "recommender.generate")
	defer span.End()

	states, telemetryDegraded, err := r.collectStates(ctx, collectionFilter, log)
	if err != nil {
		return nil, err
	}
	mastery := BuildMasteryVector(states, r.cfg)

	nodes, graphDegraded, err := r.fetchNodes(ctx, scope, log)
	if err != nil {
		return nil, err
	}

	regime := r.decideRegime(scope, nodes)
	frontier, hasFrontier := r.decideFrontier(nodes, mastery, regime, log)
	strategy := strategyFor(regime, r.cfg, nodes)

	_, scoreSpan := r.tracer.Start(ctx, "recommender.score")
	exploratory := Exploratory(nodes, mastery, strategy, frontier, hasFrontier, r.cfg)
	remedial := Remedial(nodes, mastery, r.cfg)
	scoreSpan.SetAttributes(
		attribute.String("regime", regime.String()),
		attribute.Int("exploratory", len(exploratory)),
		attribute.Int("remedial", len(remedial)),
	)
	scoreSpan.End()

	result := &Result{
		RunID:       runID,
		Regime:      regime,
		Exploratory: exploratory,
		Remedial:    remedial,
		Mastery:     mastery,
		Nodes:       nodes,
	}
	if hasFrontier {
		result.FrontierTier = &frontier
	}
	if telemetryDegraded {
		result.Degraded = append(result.Degraded, "telemetry")
	}
	if graphDegraded {
		result.Degraded = append(result.Degraded, "graph")
	}

	log.Info("Generated recommendations",
		"regime", regime.String(),
		"frontier", result.FrontierLabel(),
		"exploratory", len(exploratory),
		"remedial", len(remedial),
		"nodes", len(nodes),
		"reviewed", len(mastery),
	)
	return result, nil
}

func (r *Recommender) collectStates(ctx context.Context, filter string, log *logger.Logger) (map[string][]domain.ReviewState, bool, error) {
	ctx, span := r.tracer.Start(ctx, "recommender.telemetry")
	defer span.End()

	states, err := r.telemetry.Collect(ctx, filter)
	if err != nil {
		span.RecordError(err)
		if telemetry.IsTimeout(err) {
			log.Warn("Telemetry timed out, continuing with empty review history", "error", err)
			return map[string][]domain.ReviewState{}, true, nil
		}
		return nil, false, err
	}
	span.SetAttributes(attribute.Int("nodes_reviewed", len(states)))
	return states, false, nil
}

func (r *Recommender) fetchNodes(ctx context.Context, scope graph.LanguageScope, log *logger.Logger) (map[string]domain.KnowledgeNode, bool, error) {
	ctx, span := r.tracer.Start(ctx, "recommender.graph")
	defer span.End()

	nodes, err := r.graph.FetchNodes(ctx, scope)
	if err != nil {
		span.RecordError(err)
		if graph.IsTimeout(err) {
			log.Warn("Graph fetch timed out, continuing with empty node set", "error", err)
			return map[string]domain.KnowledgeNode{}, true, nil
		}
		return nil, false, err
	}
	span.SetAttributes(attribute.Int("nodes", len(nodes)))
	return nodes, false, nil
}

// decideRegime: an explicitly scoped language pins its regime; otherwise the
// config may force one; otherwise detect from the fetched nodes.
func (r *Recommender) decideRegime(scope graph.LanguageScope, nodes map[string]domain.KnowledgeNode) domain.Regime {
	if scope.Regime != domain.RegimeUnknown {
		return scope.Regime
	}
	if !r.cfg.AutoDetectLanguage {
		if r.cfg.TargetDiscreteLevel > 0 {
			return domain.RegimeDiscrete
		}
		return domain.RegimeContinuous
	}
	return DetectRegime(nodes)
}

// decideFrontier honors an explicit target ordinal (1-based on either
// ladder) before falling back to detection.
func (r *Recommender) decideFrontier(nodes map[string]domain.KnowledgeNode, mastery domain.MasteryVector, regime domain.Regime, log *logger.Logger) (int, bool) {
	if t := r.cfg.TargetDiscreteLevel; t > 0 {
		if regime != domain.RegimeContinuous {
			return t, true
		}
		idx := t - 1
		if _, ok := domain.ContinuousTierAt(idx); ok {
			return idx, true
		}
		log.Warn("Target level is off the continuous ladder, detecting frontier instead", "target", t)
	}
	return FrontierTier(nodes, mastery, regime, r.cfg)
}
