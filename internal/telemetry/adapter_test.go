package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/yungbote/lexipath/internal/platform/logger"
)

type fakeSource struct {
	records []RawReviewRecord
	err     error
}

func (f *fakeSource) Query(ctx context.Context, filter string) ([]RawReviewRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func intPtr(v int) *int { return &v }

func TestDecodeLinkageLegacy(t *testing.T) {
	linked, err := decodeLinkage(json.RawMessage(`{"0": ["lex:apfel", "lex:baum"], "1": ["lex:haus"]}`))
	if err != nil {
		t.Fatalf("decodeLinkage failed: %v", err)
	}
	if len(linked) != 2 {
		t.Fatalf("expected 2 indices, got %d", len(linked))
	}
	if len(linked["0"]) != 2 || linked["0"][0] != "lex:apfel" {
		t.Fatalf("unexpected ids for index 0: %v", linked["0"])
	}
}

func TestDecodeLinkageRelation(t *testing.T) {
	linked, err := decodeLinkage(json.RawMessage(`{"0": {"source": "lex:card12", "target": "lex:apfel"}}`))
	if err != nil {
		t.Fatalf("decodeLinkage failed: %v", err)
	}
	if len(linked["0"]) != 1 || linked["0"][0] != "lex:apfel" {
		t.Fatalf("expected target side, got %v", linked["0"])
	}

	// Older exports populated only source.
	linked, err = decodeLinkage(json.RawMessage(`{"0": [{"source": "lex:baum", "target": ""}]}`))
	if err != nil {
		t.Fatalf("decodeLinkage failed: %v", err)
	}
	if len(linked["0"]) != 1 || linked["0"][0] != "lex:baum" {
		t.Fatalf("expected source fallback, got %v", linked["0"])
	}
}

func TestDecodeLinkageRejectsUnknownSchema(t *testing.T) {
	if _, err := decodeLinkage(json.RawMessage(`{"0": 42}`)); err == nil {
		t.Fatalf("expected error for numeric linkage payload")
	}
	if _, err := decodeLinkage(json.RawMessage(`not json`)); err == nil {
		t.Fatalf("expected error for unparsable block")
	}
}

func TestDecodeLinkageEmpty(t *testing.T) {
	linked, err := decodeLinkage(nil)
	if err != nil {
		t.Fatalf("decodeLinkage failed on empty block: %v", err)
	}
	if len(linked) != 0 {
		t.Fatalf("expected no ids, got %v", linked)
	}
}

func TestAdapterCollectGroupsByNode(t *testing.T) {
	src := &fakeSource{records: []RawReviewRecord{
		{
			RecordID:     "card-1",
			IntervalDays: 31,
			Lapses:       1,
			EaseFactor:   intPtr(2500),
			Linkage:      json.RawMessage(`{"0": ["lex:apfel"], "1": ["http://kg.example/vocab#apfel"]}`),
		},
		{
			RecordID:     "card-2",
			IntervalDays: 4,
			Linkage:      json.RawMessage(`{"0": {"source": "", "target": "apfel"}}`),
		},
		{
			RecordID:     "card-3",
			IntervalDays: 10,
			Linkage:      json.RawMessage(`{"0": ["lex:baum"]}`),
		},
	}}
	a := NewAdapter(src, logger.Nop())

	states, err := a.Collect(context.Background(), "")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("expected 2 nodes, got %d: %v", len(states), states)
	}
	// card-1 references lex:apfel from two indices but contributes once; the
	// bare name on card-2 normalizes into the same node.
	if got := len(states["lex:apfel"]); got != 2 {
		t.Fatalf("expected 2 states for lex:apfel, got %d", got)
	}
	if got := len(states["lex:baum"]); got != 1 {
		t.Fatalf("expected 1 state for lex:baum, got %d", got)
	}
	if states["lex:apfel"][0].EaseFactor == nil || *states["lex:apfel"][0].EaseFactor != 2500 {
		t.Fatalf("ease factor not carried through")
	}
}

func TestAdapterCollectSkipsMalformedRecords(t *testing.T) {
	src := &fakeSource{records: []RawReviewRecord{
		{RecordID: "bad", Linkage: json.RawMessage(`{"0": 42}`)},
		{RecordID: "good", IntervalDays: 7, Linkage: json.RawMessage(`{"0": ["lex:haus"]}`)},
	}}
	a := NewAdapter(src, logger.Nop())

	states, err := a.Collect(context.Background(), "deck:german")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(states) != 1 || len(states["lex:haus"]) != 1 {
		t.Fatalf("expected only the well-formed record, got %v", states)
	}
}

func TestAdapterCollectPropagatesSourceError(t *testing.T) {
	src := &fakeSource{err: wrapErr("query", errors.New("connection refused"))}
	a := NewAdapter(src, logger.Nop())

	if _, err := a.Collect(context.Background(), ""); err == nil {
		t.Fatalf("expected source error to propagate")
	}
}

func TestErrorTimeoutClassification(t *testing.T) {
	err := wrapErr("query", context.DeadlineExceeded)
	if !IsTimeout(err) {
		t.Fatalf("deadline exceeded should classify as timeout")
	}
	err = wrapErr("query", errors.New("401 unauthorized"))
	if IsTimeout(err) {
		t.Fatalf("auth failure must not classify as timeout")
	}
	if IsTimeout(nil) {
		t.Fatalf("nil error is not a timeout")
	}
}
