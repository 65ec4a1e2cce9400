package elastic

import (
	"bytes"
	"encoding/json"
)

// TotalHits unmarshals both the plain integer emitted up to 6.x and the
// {"value": n, "relation": ...} object newer servers answer with.
type TotalHits int64

func (t *TotalHits) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Value int64 `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*t = TotalHits(obj.Value)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = TotalHits(n)
	return nil
}

type SearchHit struct {
	Index  string          `json:"_index"`
	Type   string          `json:"_type"`
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

type SearchHits struct {
	Total TotalHits   `json:"total"`
	Hits  []SearchHit `json:"hits"`
}

// SearchResult is one page of hits. For scrolling searches ScrollID carries
// the cursor that must be fed into the next continuation.
type SearchResult struct {
	Took     int64      `json:"took"`
	TimedOut bool       `json:"timed_out"`
	ScrollID string     `json:"_scroll_id"`
	Hits     SearchHits `json:"hits"`
}

// RawSearchResult pairs a parsed page with the raw response body.
type RawSearchResult struct {
	SearchResult
	Raw json.RawMessage
}

// DocumentIDs extracts the hit ids of this page in response order.
func (r *SearchResult) DocumentIDs() []string {
	ids := make([]string, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids
}
