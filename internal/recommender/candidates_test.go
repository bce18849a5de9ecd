package recommender

import (
	"fmt"
	"sort"
	"testing"

	"github.com/yungbote/lexipath/internal/domain"
)

func TestExploratoryDropsNodesWithWeakPrerequisites(t *testing.T) {
	cfg := DefaultConfig()
	nodes := map[string]domain.KnowledgeNode{
		"lex:ready":   {NodeID: "lex:ready", Label: "ready", Prerequisites: []string{"lex:base"}},
		"lex:blocked": {NodeID: "lex:blocked", Label: "blocked", Prerequisites: []string{"lex:base", "lex:weak"}},
		"lex:base":    {NodeID: "lex:base", Label: "base"},
		"lex:weak":    {NodeID: "lex:weak", Label: "weak"},
	}
	mastery := domain.MasteryVector{"lex:base": 0.9, "lex:weak": 0.3}
	s := NewContinuousStrategy(cfg, nodes)

	out := Exploratory(nodes, mastery, s, 0, false, cfg)
	for _, rec := range out {
		if rec.NodeID == "lex:blocked" {
			t.Fatalf("node with a weak prerequisite must be dropped entirely")
		}
		if len(rec.MissingPrereqs) != 0 {
			t.Fatalf("exploratory output must not carry missing_prereqs")
		}
	}
	found := false
	for _, rec := range out {
		if rec.NodeID == "lex:ready" {
			found = true
			if rec.PrereqMastery != 0.9 {
				t.Fatalf("expected prereq mastery 0.9, got %f", rec.PrereqMastery)
			}
		}
	}
	if !found {
		t.Fatalf("ready node missing from exploratory output: %v", out)
	}
}

func TestExploratorySkipsMasteredNodes(t *testing.T) {
	cfg := DefaultConfig()
	nodes := map[string]domain.KnowledgeNode{
		"lex:known": {NodeID: "lex:known", Label: "known"},
	}
	mastery := domain.MasteryVector{"lex:known": 0.95}
	s := NewContinuousStrategy(cfg, nodes)

	if out := Exploratory(nodes, mastery, s, 0, false, cfg); len(out) != 0 {
		t.Fatalf("mastered node must not be exploratory, got %v", out)
	}
}

func TestExploratoryExcludesSentinelScores(t *testing.T) {
	cfg := DefaultConfig()
	nodes := map[string]domain.KnowledgeNode{
		"lex:far":  continuousNode("lex:far", "C1"),
		"lex:near": continuousNode("lex:near", "B1"),
	}
	s := NewContinuousStrategy(cfg, nodes)

	// Frontier at B1 (index 2): C1 is two steps out and must vanish.
	out := Exploratory(nodes, domain.MasteryVector{}, s, 2, true, cfg)
	if len(out) != 1 || out[0].NodeID != "lex:near" {
		t.Fatalf("expected only the near node, got %v", out)
	}
}

func TestExploratorySortedAndCapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopN = 3
	nodes := make(map[string]domain.KnowledgeNode)
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("lex:n%02d", i)
		nodes[id] = domain.KnowledgeNode{NodeID: id, Label: id, FrequencyRank: intPtr(i + 1)}
	}
	s := NewContinuousStrategy(cfg, nodes)

	out := Exploratory(nodes, domain.MasteryVector{}, s, 0, false, cfg)
	if len(out) != 3 {
		t.Fatalf("expected top_n cap of 3, got %d", len(out))
	}
	if !sort.SliceIsSorted(out, func(i, j int) bool { return out[i].Score > out[j].Score }) {
		t.Fatalf("exploratory output must be sorted descending by score: %v", out)
	}
	if out[0].NodeID != "lex:n00" {
		t.Fatalf("most frequent node should rank first, got %s", out[0].NodeID)
	}
}

func TestExploratoryDeterministicTieBreak(t *testing.T) {
	cfg := DefaultConfig()
	nodes := map[string]domain.KnowledgeNode{
		"lex:b": {NodeID: "lex:b", Label: "b"},
		"lex:a": {NodeID: "lex:a", Label: "a"},
		"lex:c": {NodeID: "lex:c", Label: "c"},
	}
	s := NewContinuousStrategy(cfg, nodes)

	first := Exploratory(nodes, domain.MasteryVector{}, s, 0, false, cfg)
	for i := 0; i < 5; i++ {
		again := Exploratory(nodes, domain.MasteryVector{}, s, 0, false, cfg)
		for j := range first {
			if first[j].NodeID != again[j].NodeID {
				t.Fatalf("tied scores must order deterministically: %v vs %v", first, again)
			}
		}
	}
	if first[0].NodeID != "lex:a" || first[1].NodeID != "lex:b" || first[2].NodeID != "lex:c" {
		t.Fatalf("ties break by node id, got %v", first)
	}
}

func TestRemedialWeakestFirstWithDiagnostics(t *testing.T) {
	cfg := DefaultConfig()
	nodes := map[string]domain.KnowledgeNode{
		"lex:weak":   {NodeID: "lex:weak", Label: "weak", Prerequisites: []string{"lex:gap", "lex:solid"}},
		"lex:weaker": {NodeID: "lex:weaker", Label: "weaker"},
		"lex:gap":    {NodeID: "lex:gap", Label: "gap"},
		"lex:solid":  {NodeID: "lex:solid", Label: "solid"},
	}
	mastery := domain.MasteryVector{
		"lex:weak":   0.2,
		"lex:weaker": 0.1,
		"lex:gap":    0.3,
		"lex:solid":  0.9,
	}

	out := Remedial(nodes, mastery, cfg)
	if len(out) != 3 {
		t.Fatalf("expected weak, weaker and gap, got %v", out)
	}
	if out[0].NodeID != "lex:weaker" || out[0].Mastery != 0.1 {
		t.Fatalf("weakest node must come first, got %v", out[0])
	}
	var weak *domain.Recommendation
	for i := range out {
		if out[i].NodeID == "lex:weak" {
			weak = &out[i]
		}
	}
	if weak == nil {
		t.Fatalf("node with mastery 0.2 must be remedial")
	}
	if len(weak.MissingPrereqs) != 1 || weak.MissingPrereqs[0] != "lex:gap" {
		t.Fatalf("expected lex:gap flagged as missing, got %v", weak.MissingPrereqs)
	}
}

func TestRemedialIgnoresNodesOutsideGraph(t *testing.T) {
	cfg := DefaultConfig()
	mastery := domain.MasteryVector{"lex:ghost": 0.1}
	if out := Remedial(map[string]domain.KnowledgeNode{}, mastery, cfg); len(out) != 0 {
		t.Fatalf("reviewed node absent from the graph slice must be skipped, got %v", out)
	}
}

func TestRemedialIndependentOfExploratoryEligibility(t *testing.T) {
	cfg := DefaultConfig()
	// Weak node whose prerequisite is also weak: excluded from exploratory,
	// still present in remedial.
	nodes := map[string]domain.KnowledgeNode{
		"lex:weak": {NodeID: "lex:weak", Label: "weak", Prerequisites: []string{"lex:gap"}},
		"lex:gap":  {NodeID: "lex:gap", Label: "gap"},
	}
	mastery := domain.MasteryVector{"lex:weak": 0.2, "lex:gap": 0.1}

	s := NewContinuousStrategy(cfg, nodes)
	for _, rec := range Exploratory(nodes, mastery, s, 0, false, cfg) {
		if rec.NodeID == "lex:weak" {
			t.Fatalf("weak prerequisite must keep the node out of exploratory")
		}
	}
	found := false
	for _, rec := range Remedial(nodes, mastery, cfg) {
		if rec.NodeID == "lex:weak" {
			found = true
		}
	}
	if !found {
		t.Fatalf("remedial inclusion must ignore prerequisite state")
	}
}
