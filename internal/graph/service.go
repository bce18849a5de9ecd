// Package graph fetches knowledge nodes and their prerequisite edges from the
// graph store. One aggregate query per fetch; no per-node round trips.
package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/lexipath/internal/domain"
	"github.com/yungbote/lexipath/internal/platform/envutil"
	"github.com/yungbote/lexipath/internal/platform/logger"
	"github.com/yungbote/lexipath/internal/platform/neo4jdb"
)

// Service is the client-side contract for the knowledge graph collaborator.
type Service interface {
	FetchNodes(ctx context.Context, scope LanguageScope) (map[string]domain.KnowledgeNode, error)
}

// placeholderPrefix marks synthetic bookkeeping nodes that must never be
// recommended as learning content.
const placeholderPrefix = "__"

// Neo4jService fetches nodes over bolt.
type Neo4jService struct {
	client       *neo4jdb.Client
	queryTimeout time.Duration
	log          *logger.Logger
}

func NewNeo4jService(client *neo4jdb.Client, log *logger.Logger) *Neo4jService {
	return &Neo4jService{
		client:       client,
		queryTimeout: time.Duration(envutil.Int("NEO4J_QUERY_TIMEOUT_SECONDS", 15)) * time.Second,
		log:          log.With("service", "GraphService"),
	}
}

// FetchNodes runs the scope's aggregate query and returns every matching node
// keyed by canonical id, prerequisites folded in. Rows missing id or label
// are skipped; optional attributes degrade to absent on a bad value.
func (s *Neo4jService) FetchNodes(ctx context.Context, scope LanguageScope) (map[string]domain.KnowledgeNode, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	query, params := buildNodeQuery(scope)
	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, wrapErr("fetch_nodes", err)
	}

	nodes := make(map[string]domain.KnowledgeNode)
	skipped := 0
	for result.Next(ctx) {
		node, ok := nodeFromRow(result.Record().AsMap())
		if !ok {
			skipped++
			continue
		}
		nodes[node.NodeID] = node
	}
	if err := result.Err(); err != nil {
		return nil, wrapErr("fetch_nodes", err)
	}

	if skipped > 0 {
		s.log.Warn("Skipped graph rows without id or label", "skipped", skipped)
	}
	s.log.Debug("Fetched knowledge nodes", "count", len(nodes), "scope", scope.Code)
	return nodes, nil
}

// buildNodeQuery assembles the single aggregate fetch. The tier attribute is
// interpolated, not parameterized, because Cypher cannot parameterize
// property names; values come only from the closed scope registry.
func buildNodeQuery(scope LanguageScope) (string, map[string]any) {
	kinds := scope.Kinds
	if len(kinds) == 0 {
		kinds = defaultKinds
	}
	params := map[string]any{
		"kinds":       kinds,
		"placeholder": placeholderPrefix,
	}

	var b strings.Builder
	b.WriteString("MATCH (n:Concept)\n")
	b.WriteString("WHERE n.kind IN $kinds\n")
	b.WriteString("  AND NOT n.label STARTS WITH $placeholder\n")
	if scope.Code != "" {
		b.WriteString("  AND n.lang = $lang\n")
		params["lang"] = scope.Code
	}
	if scope.TierAttribute != "" {
		fmt.Fprintf(&b, "  AND n.%s IS NOT NULL\n", scope.TierAttribute)
	}
	b.WriteString("OPTIONAL MATCH (n)-[:REQUIRES]->(p:Concept)\n")
	b.WriteString(`RETURN n.id AS node_id,
       n.label AS label,
       n.hsk_level AS hsk_level,
       n.cefr_level AS cefr_level,
       n.concreteness AS concreteness,
       n.frequency AS frequency,
       n.frequency_rank AS frequency_rank,
       n.aoa AS age_of_acquisition,
       collect(DISTINCT p.id) AS prerequisites`)
	return b.String(), params
}

// nodeFromRow maps one result row onto a KnowledgeNode. Returns false when
// the required id or label is unusable.
func nodeFromRow(row map[string]any) (domain.KnowledgeNode, bool) {
	id := domain.CanonicalNodeID(asString(row["node_id"]))
	label := strings.TrimSpace(asString(row["label"]))
	if id == "" || label == "" {
		return domain.KnowledgeNode{}, false
	}

	node := domain.KnowledgeNode{
		NodeID:           id,
		Label:            label,
		DiscreteLevel:    asIntPtr(row["hsk_level"]),
		Concreteness:     asFloatPtr(row["concreteness"]),
		Frequency:        asFloatPtr(row["frequency"]),
		FrequencyRank:    asIntPtr(row["frequency_rank"]),
		AgeOfAcquisition: asFloatPtr(row["age_of_acquisition"]),
	}
	if lvl := strings.ToUpper(strings.TrimSpace(asString(row["cefr_level"]))); lvl != "" {
		node.ContinuousLevel = &lvl
	}

	seen := make(map[string]bool)
	for _, raw := range asStringList(row["prerequisites"]) {
		pid := domain.CanonicalNodeID(raw)
		if pid == "" || pid == id || seen[pid] {
			continue
		}
		seen[pid] = true
		node.Prerequisites = append(node.Prerequisites, pid)
	}
	sort.Strings(node.Prerequisites)
	return node, true
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asIntPtr(v any) *int {
	switch n := v.(type) {
	case int64:
		i := int(n)
		return &i
	case int:
		return &n
	case float64:
		if n == float64(int64(n)) {
			i := int(n)
			return &i
		}
	}
	return nil
}

func asFloatPtr(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int64:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	}
	return nil
}

func asStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
