package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// nodeRelation is the current linkage schema: a typed edge whose target side
// names the knowledge node. Older exports populated only source, so the
// adapter prefers target and falls back.
type nodeRelation struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// linkageEntry holds exactly one decoded schema variant for a single cloze
// index: either the legacy flat id list or the relation form.
type linkageEntry struct {
	legacy    []string
	relations []nodeRelation
}

func (e linkageEntry) nodeIDs() []string {
	if e.legacy != nil {
		return e.legacy
	}
	ids := make([]string, 0, len(e.relations))
	for _, r := range e.relations {
		if id := strings.TrimSpace(r.Target); id != "" {
			ids = append(ids, id)
			continue
		}
		if id := strings.TrimSpace(r.Source); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// decodeLinkage parses one record's linkage block, mapping cloze index to the
// node ids it references. Both schema generations are accepted; any payload
// matching neither is an error and the caller drops the whole record.
func decodeLinkage(raw json.RawMessage) (map[string][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var block map[string]json.RawMessage
	if err := json.Unmarshal(raw, &block); err != nil {
		return nil, fmt.Errorf("linkage block: %w", err)
	}
	out := make(map[string][]string, len(block))
	for idx, payload := range block {
		entry, err := decodeLinkageEntry(payload)
		if err != nil {
			return nil, fmt.Errorf("linkage index %q: %w", idx, err)
		}
		if ids := entry.nodeIDs(); len(ids) > 0 {
			out[idx] = ids
		}
	}
	return out, nil
}

func decodeLinkageEntry(payload json.RawMessage) (linkageEntry, error) {
	var legacy []string
	if err := json.Unmarshal(payload, &legacy); err == nil {
		return linkageEntry{legacy: legacy}, nil
	}
	var rels []nodeRelation
	if err := json.Unmarshal(payload, &rels); err == nil {
		return linkageEntry{relations: rels}, nil
	}
	var rel nodeRelation
	if err := json.Unmarshal(payload, &rel); err == nil {
		return linkageEntry{relations: []nodeRelation{rel}}, nil
	}
	return linkageEntry{}, errors.New("unrecognized linkage schema")
}
