package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
)

// fakeTransport scripts responses per request and records every call.
type fakeTransport struct {
	handler  func(req Request) (*Response, error)
	requests []Request
}

func (f *fakeTransport) Perform(ctx context.Context, req Request) (*Response, error) {
	f.requests = append(f.requests, req)
	return f.handler(req)
}

func jsonResponse(status int, body string) *Response {
	return &Response{StatusCode: status, Body: []byte(body)}
}

func errorResponse(status int, errType, reason string) *Response {
	body := fmt.Sprintf(`{"error":{"type":%q,"reason":%q},"status":%d}`, errType, reason, status)
	return jsonResponse(status, body)
}

// scrollPage builds a scroll response with the given cursor and hit ids.
func scrollPage(t *testing.T, scrollID string, total int, ids ...string) *Response {
	t.Helper()

	hits := make([]map[string]interface{}, len(ids))
	for i, id := range ids {
		hits[i] = map[string]interface{}{"_id": id, "_index": "test"}
	}
	body, err := json.Marshal(map[string]interface{}{
		"took":       3,
		"_scroll_id": scrollID,
		"hits": map[string]interface{}{
			"total": total,
			"hits":  hits,
		},
	})
	if err != nil {
		t.Fatalf("building scroll page: %v", err)
	}
	return &Response{StatusCode: 200, Body: body}
}

func bodyJSON(t *testing.T, req Request) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	if err := json.Unmarshal(req.Body, &out); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	return out
}
