package elastic

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestDeleteByQueryParams(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *DeleteByQueryService) *DeleteByQueryService
		want  map[string]string
		unset []string
	}{
		{
			"defaults",
			func(s *DeleteByQueryService) *DeleteByQueryService { return s },
			map[string]string{"wait_for_completion": "true"},
			[]string{"conflicts", "refresh", "slices"},
		},
		{
			"async",
			func(s *DeleteByQueryService) *DeleteByQueryService { return s.WaitForCompletion(false) },
			map[string]string{"wait_for_completion": "false"},
			[]string{"conflicts", "refresh", "slices"},
		},
		{
			"all knobs",
			func(s *DeleteByQueryService) *DeleteByQueryService {
				return s.ProceedOnConflicts(true).Refresh(true).AutoSlices(true)
			},
			map[string]string{
				"wait_for_completion": "true",
				"conflicts":           "proceed",
				"refresh":             "true",
				"slices":              "auto",
			},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{handler: func(req Request) (*Response, error) {
				return jsonResponse(200, `{"took":1,"deleted":0}`), nil
			}}
			client := NewClient(ft, V6)

			svc := tt.setup(client.DeleteByQuery("logs", "entry", matchAll{}))
			if _, err := svc.Do(context.Background()); err != nil {
				t.Fatalf("delete by query failed: %v", err)
			}

			req := ft.requests[0]
			if req.Path != "/logs/entry/_delete_by_query" {
				t.Errorf("path = %s", req.Path)
			}
			for key, want := range tt.want {
				if got := req.Params.Get(key); got != want {
					t.Errorf("param %s = %q, want %q", key, got, want)
				}
			}
			for _, key := range tt.unset {
				if req.Params.Has(key) {
					t.Errorf("param %s must be absent, got %q", key, req.Params.Get(key))
				}
			}
		})
	}
}

// purgeFake serves a scripted scroll traversal plus delete-by-query calls and
// records the ids every delete was restricted to.
type purgeFake struct {
	t          *testing.T
	pages      [][]string
	total      int
	deleteWith func(ids []string) *Response
	deleted    [][]string
	scrolls    int
}

func (p *purgeFake) handler(req Request) (*Response, error) {
	if req.Method == "DELETE" {
		return jsonResponse(200, `{"succeeded":true}`), nil
	}

	if strings.HasSuffix(req.Path, "_delete_by_query") {
		body := bodyJSON(p.t, req)
		clause := body["query"].(map[string]interface{})["ids"].(map[string]interface{})
		values := clause["values"].([]interface{})
		ids := make([]string, len(values))
		for i, v := range values {
			ids[i] = v.(string)
		}
		p.deleted = append(p.deleted, ids)
		if p.deleteWith != nil {
			return p.deleteWith(ids), nil
		}
		return jsonResponse(200, fmt.Sprintf(`{"took":1,"deleted":%d}`, len(ids))), nil
	}

	var ids []string
	if p.scrolls < len(p.pages) {
		ids = p.pages[p.scrolls]
	}
	p.scrolls++
	return scrollPage(p.t, fmt.Sprintf("cursor-%d", p.scrolls), p.total, ids...), nil
}

func TestDeleteAllByQuery(t *testing.T) {
	// 5 documents, page size 2: pages of 2, 2, 1 and the empty terminal page
	fake := &purgeFake{
		t:     t,
		pages: [][]string{{"a", "b"}, {"c", "d"}, {"e"}},
		total: 5,
	}
	ft := &fakeTransport{handler: fake.handler}
	client := NewClient(ft, V6)

	var pageSizes []int
	acc, err := client.DeleteAllByQuery("logs", "entry", matchAll{}).
		Size(2).
		ProceedOnConflicts(true).
		OnPage(func(page []DeleteOutcome) { pageSizes = append(pageSizes, len(page)) }).
		Do(context.Background())
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	if acc.Len() != 5 {
		t.Errorf("accumulated %d outcomes, want 5", acc.Len())
	}
	if want := []string{"a", "b", "c", "d", "e"}; !reflect.DeepEqual(acc.IDs(), want) {
		t.Errorf("ids = %v, want %v", acc.IDs(), want)
	}
	for _, out := range acc.All() {
		if out.Result != ResultDeleted {
			t.Errorf("outcome for %s = %s, want deleted", out.ID, out.Result)
		}
	}

	// scroll ran to the empty terminal page, deletes covered exactly the
	// non-empty pages
	if fake.scrolls != 4 {
		t.Errorf("scroll pages fetched = %d, want 4", fake.scrolls)
	}
	if want := [][]string{{"a", "b"}, {"c", "d"}, {"e"}}; !reflect.DeepEqual(fake.deleted, want) {
		t.Errorf("deleted pages = %v, want %v", fake.deleted, want)
	}
	if want := []int{2, 2, 1}; !reflect.DeepEqual(pageSizes, want) {
		t.Errorf("page hook sizes = %v, want %v", pageSizes, want)
	}
}

func TestDeleteAllPartialPageFailure(t *testing.T) {
	// a partially failed page records the failure outcomes and the
	// traversal continues
	fake := &purgeFake{
		t:     t,
		pages: [][]string{{"a", "b"}, {"c", "d"}},
		total: 4,
	}
	fake.deleteWith = func(ids []string) *Response {
		for _, id := range ids {
			if id == "c" {
				return jsonResponse(200, `{"took":1,"deleted":1,"version_conflicts":1,
					"failures":[{"index":"logs","id":"c","status":409,"cause":{"type":"version_conflict_engine_exception"}}]}`)
			}
		}
		return jsonResponse(200, fmt.Sprintf(`{"took":1,"deleted":%d}`, len(ids)))
	}
	ft := &fakeTransport{handler: fake.handler}

	acc, err := NewClient(ft, V6).
		DeleteAllByQuery("logs", "entry", matchAll{}).
		Size(2).
		Do(context.Background())
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	if acc.Len() != 4 {
		t.Fatalf("accumulated %d outcomes, want 4", acc.Len())
	}
	out, ok := acc.Get("c")
	if !ok || out.Result != ResultConflict || out.Status != 409 {
		t.Errorf("outcome for c = %+v, want conflict/409", out)
	}
	for _, id := range []string{"a", "b", "d"} {
		if out, _ := acc.Get(id); out.Result != ResultDeleted {
			t.Errorf("outcome for %s = %+v, want deleted", id, out)
		}
	}
}

func TestDeleteOutcomesOrderAndOverwrite(t *testing.T) {
	acc := NewDeleteOutcomes()
	acc.Set(DeleteOutcome{ID: "a", Result: ResultDeleted, Status: 200})
	acc.Set(DeleteOutcome{ID: "b", Result: ResultFailed, Status: 500})
	// duplicate keys keep their position, last write wins
	acc.Set(DeleteOutcome{ID: "a", Result: ResultConflict, Status: 409})

	if acc.Len() != 2 {
		t.Errorf("len = %d, want 2", acc.Len())
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(acc.IDs(), want) {
		t.Errorf("ids = %v, want %v", acc.IDs(), want)
	}
	if out, _ := acc.Get("a"); out.Result != ResultConflict {
		t.Errorf("outcome for a = %+v, want conflict", out)
	}
}

func TestIdsQueryRendering(t *testing.T) {
	q := idsQuery{tpe: "entry", ids: []string{"a", "b"}}

	v6 := q.Source(V6)
	if _, ok := v6["ids"].(map[string]interface{})["type"]; ok {
		t.Errorf("6.x ids clause must not carry a type: %v", v6)
	}

	v2 := q.Source(V2)
	if got := v2["ids"].(map[string]interface{})["type"]; got != "entry" {
		t.Errorf("2.x ids clause type = %v, want entry", got)
	}
}
