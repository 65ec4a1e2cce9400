package elastic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// DeleteByQueryService issues one delete-by-query call. The four knobs map
// onto query parameters: wait_for_completion is always emitted explicitly,
// the others only when enabled.
type DeleteByQueryService struct {
	client             *Client
	indices            []Index
	tpe                Type
	query              Query
	waitForCompletion  bool
	proceedOnConflicts bool
	refresh            bool
	autoSlices         bool
}

func (c *Client) DeleteByQuery(index Index, tpe Type, query Query) *DeleteByQueryService {
	return &DeleteByQueryService{
		client:            c,
		indices:           []Index{index},
		tpe:               tpe,
		query:             query,
		waitForCompletion: true,
	}
}

func (s *DeleteByQueryService) Index(indices ...Index) *DeleteByQueryService {
	s.indices = append(s.indices, indices...)
	return s
}

// WaitForCompletion governs whether the call blocks until finished or returns
// a task handle. The parameter is sent either way.
func (s *DeleteByQueryService) WaitForCompletion(wait bool) *DeleteByQueryService {
	s.waitForCompletion = wait
	return s
}

// ProceedOnConflicts keeps the operation going past version conflicts instead
// of aborting the request.
func (s *DeleteByQueryService) ProceedOnConflicts(proceed bool) *DeleteByQueryService {
	s.proceedOnConflicts = proceed
	return s
}

// Refresh makes the deletion visible to searches right after the call.
func (s *DeleteByQueryService) Refresh(refresh bool) *DeleteByQueryService {
	s.refresh = refresh
	return s
}

// AutoSlices lets the server partition the operation for parallel execution.
func (s *DeleteByQueryService) AutoSlices(auto bool) *DeleteByQueryService {
	s.autoSlices = auto
	return s
}

func (s *DeleteByQueryService) params() url.Values {
	params := url.Values{}
	params.Set("wait_for_completion", strconv.FormatBool(s.waitForCompletion))
	if s.proceedOnConflicts {
		params.Set("conflicts", "proceed")
	}
	if s.refresh {
		params.Set("refresh", "true")
	}
	if s.autoSlices {
		params.Set("slices", "auto")
	}
	return params
}

func (s *DeleteByQueryService) Do(ctx context.Context) (*BulkDeleteResult, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": s.query.Source(s.client.version),
	})
	if err != nil {
		return nil, err
	}

	res, err := s.client.perform(ctx, Request{
		Method: http.MethodPost,
		Path:   pathJoin(indexList(s.indices), string(s.tpe), "_delete_by_query"),
		Params: s.params(),
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	result := new(BulkDeleteResult)
	if err := json.Unmarshal(res.Body, result); err != nil {
		return nil, err
	}
	return result, nil
}

// BulkDeleteResult is the aggregate response of one delete-by-query call.
type BulkDeleteResult struct {
	Took             int64           `json:"took"`
	TimedOut         bool            `json:"timed_out"`
	Total            int64           `json:"total"`
	Deleted          int64           `json:"deleted"`
	Batches          int64           `json:"batches"`
	VersionConflicts int64           `json:"version_conflicts"`
	Noops            int64           `json:"noops"`
	Failures         []DeleteFailure `json:"failures"`
	Task             string          `json:"task"`
}

type DeleteFailure struct {
	Index  string          `json:"index"`
	Type   string          `json:"type"`
	ID     string          `json:"id"`
	Status int             `json:"status"`
	Cause  json.RawMessage `json:"cause"`
}

const (
	ResultDeleted  = "deleted"
	ResultConflict = "conflict"
	ResultFailed   = "failed"
)

// DeleteOutcome is the recorded fate of one document id.
type DeleteOutcome struct {
	ID     string
	Result string
	Status int
}

// DeleteOutcomes is an insertion-ordered accumulator of per-document
// outcomes. Duplicate ids keep their original position, last write wins.
type DeleteOutcomes struct {
	order []string
	byID  map[string]DeleteOutcome
}

func NewDeleteOutcomes() *DeleteOutcomes {
	return &DeleteOutcomes{byID: make(map[string]DeleteOutcome)}
}

func (o *DeleteOutcomes) Set(out DeleteOutcome) {
	if _, ok := o.byID[out.ID]; !ok {
		o.order = append(o.order, out.ID)
	}
	o.byID[out.ID] = out
}

func (o *DeleteOutcomes) Get(id string) (DeleteOutcome, bool) {
	out, ok := o.byID[id]
	return out, ok
}

func (o *DeleteOutcomes) Len() int { return len(o.order) }

func (o *DeleteOutcomes) IDs() []string {
	ids := make([]string, len(o.order))
	copy(ids, o.order)
	return ids
}

// All returns every outcome in insertion order.
func (o *DeleteOutcomes) All() []DeleteOutcome {
	outs := make([]DeleteOutcome, 0, len(o.order))
	for _, id := range o.order {
		outs = append(outs, o.byID[id])
	}
	return outs
}

// idsQuery restricts a page's delete to exactly the ids the page produced.
// 2.x still carries the document type inside the clause.
type idsQuery struct {
	tpe Type
	ids []string
}

func (q idsQuery) Source(v ProtocolVersion) map[string]interface{} {
	clause := map[string]interface{}{"values": q.ids}
	if v == V2 && q.tpe != "" {
		clause["type"] = string(q.tpe)
	}
	return map[string]interface{}{"ids": clause}
}

// DeleteAllService is the scroll-driven delete-by-query orchestrator. It
// walks the query's result set page by page and deletes each page's documents
// before continuing the cursor; pages are processed strictly sequentially.
// The sole success terminal is the first empty page.
type DeleteAllService struct {
	client             *Client
	indices            []Index
	tpe                Type
	query              Query
	size               int
	keepAlive          string
	waitForCompletion  bool
	proceedOnConflicts bool
	refresh            bool
	autoSlices         bool
	onPage             func(page []DeleteOutcome)
}

func (c *Client) DeleteAllByQuery(index Index, tpe Type, query Query) *DeleteAllService {
	return &DeleteAllService{
		client:            c,
		indices:           []Index{index},
		tpe:               tpe,
		query:             query,
		keepAlive:         c.keepAlive,
		waitForCompletion: true,
	}
}

func (s *DeleteAllService) Index(indices ...Index) *DeleteAllService {
	s.indices = append(s.indices, indices...)
	return s
}

func (s *DeleteAllService) Size(size int) *DeleteAllService {
	s.size = size
	return s
}

func (s *DeleteAllService) KeepAlive(d string) *DeleteAllService {
	s.keepAlive = d
	return s
}

func (s *DeleteAllService) WaitForCompletion(wait bool) *DeleteAllService {
	s.waitForCompletion = wait
	return s
}

func (s *DeleteAllService) ProceedOnConflicts(proceed bool) *DeleteAllService {
	s.proceedOnConflicts = proceed
	return s
}

func (s *DeleteAllService) Refresh(refresh bool) *DeleteAllService {
	s.refresh = refresh
	return s
}

func (s *DeleteAllService) AutoSlices(auto bool) *DeleteAllService {
	s.autoSlices = auto
	return s
}

// OnPage registers a hook invoked with each page's outcomes after that page's
// deletes completed, before the next continuation is issued.
func (s *DeleteAllService) OnPage(fn func(page []DeleteOutcome)) *DeleteAllService {
	s.onPage = fn
	return s
}

// Do runs the traversal to exhaustion and returns the accumulated outcomes.
// A page whose deletes partially fail does not abort the run: the failed ids
// get their failure outcome recorded and the traversal continues.
func (s *DeleteAllService) Do(ctx context.Context) (*DeleteOutcomes, error) {
	scroll := s.client.Scroll(s.indices[0], s.tpe, s.query).
		Index(s.indices[1:]...).
		Size(s.size).
		KeepAlive(s.keepAlive)
	defer scroll.Clear(context.WithoutCancel(ctx))

	acc := NewDeleteOutcomes()
	for {
		page, err := scroll.Do(ctx)
		if errors.Is(err, io.EOF) {
			return acc, nil
		}
		if err != nil {
			return nil, err
		}

		outcomes, err := s.deletePage(ctx, page.DocumentIDs())
		if err != nil {
			return nil, err
		}
		for _, out := range outcomes {
			acc.Set(out)
		}
		if s.onPage != nil {
			s.onPage(outcomes)
		}
	}
}

func (s *DeleteAllService) deletePage(ctx context.Context, ids []string) ([]DeleteOutcome, error) {
	dbq := &DeleteByQueryService{
		client:             s.client,
		indices:            s.indices,
		tpe:                s.tpe,
		query:              idsQuery{tpe: s.tpe, ids: ids},
		waitForCompletion:  s.waitForCompletion,
		proceedOnConflicts: s.proceedOnConflicts,
		refresh:            s.refresh,
		autoSlices:         s.autoSlices,
	}

	result, err := dbq.Do(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]DeleteOutcome, 0, len(ids))
	failed := make(map[string]DeleteOutcome, len(result.Failures))
	for _, f := range result.Failures {
		res := ResultFailed
		if f.Status == 409 {
			res = ResultConflict
		}
		failed[f.ID] = DeleteOutcome{ID: f.ID, Result: res, Status: f.Status}
	}
	for _, id := range ids {
		if out, ok := failed[id]; ok {
			outcomes = append(outcomes, out)
			continue
		}
		outcomes = append(outcomes, DeleteOutcome{ID: id, Result: ResultDeleted, Status: 200})
	}
	return outcomes, nil
}
