package telemetry

import (
	"context"

	"github.com/yungbote/lexipath/internal/domain"
	"github.com/yungbote/lexipath/internal/platform/logger"
)

// Adapter resolves linkage blocks and groups per-card review state by
// canonical node id. It is the only place that understands the linkage
// schema; everything downstream sees domain.ReviewState keyed by node.
type Adapter struct {
	source Source
	log    *logger.Logger
}

func NewAdapter(source Source, log *logger.Logger) *Adapter {
	return &Adapter{source: source, log: log.With("service", "TelemetryAdapter")}
}

// Collect queries the source once and returns review states grouped by node
// id. Records whose linkage block cannot be decoded are dropped with a
// warning; they never abort the batch. A record referencing the same node
// from several cloze indices contributes a single review state for it.
func (a *Adapter) Collect(ctx context.Context, filter string) (map[string][]domain.ReviewState, error) {
	records, err := a.source.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	states := make(map[string][]domain.ReviewState)
	dropped := 0
	for _, rec := range records {
		linked, err := decodeLinkage(rec.Linkage)
		if err != nil {
			dropped++
			a.log.Warn("Skipping review record with malformed linkage", "record_id", rec.RecordID, "error", err)
			continue
		}
		seen := make(map[string]bool)
		for _, ids := range linked {
			for _, raw := range ids {
				id := domain.CanonicalNodeID(raw)
				if id == "" || seen[id] {
					continue
				}
				seen[id] = true
				states[id] = append(states[id], domain.ReviewState{
					NodeID:       id,
					IntervalDays: rec.IntervalDays,
					Lapses:       rec.Lapses,
					Reps:         rec.Reps,
					EaseFactor:   rec.EaseFactor,
				})
			}
		}
	}

	a.log.Debug("Collected review states", "records", len(records), "nodes", len(states), "dropped", dropped)
	return states, nil
}
