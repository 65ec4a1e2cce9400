package elastic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// ScrollService walks a query's result set page by page through a server-side
// cursor. The first Do opens the cursor, every further Do continues it with
// the freshest scroll id, and an empty page reports io.EOF and ends the
// session. Cursor lifetime is governed by the server; an expired cursor
// surfaces as an error on the next continuation and is never retried here.
type ScrollService struct {
	client     *Client
	indices    []Index
	tpe        Type
	query      Query
	size       int
	keepAlive  string
	preference string

	scrollID  string
	exhausted bool
}

func (c *Client) Scroll(index Index, tpe Type, query Query) *ScrollService {
	return &ScrollService{
		client:    c,
		indices:   []Index{index},
		tpe:       tpe,
		query:     query,
		keepAlive: c.keepAlive,
	}
}

// Index adds further indices to the traversal.
func (s *ScrollService) Index(indices ...Index) *ScrollService {
	s.indices = append(s.indices, indices...)
	return s
}

// Size sets the number of hits returned per page.
func (s *ScrollService) Size(size int) *ScrollService {
	s.size = size
	return s
}

// KeepAlive sets the result-window duration, e.g. "1m".
func (s *ScrollService) KeepAlive(d string) *ScrollService {
	s.keepAlive = d
	return s
}

func (s *ScrollService) Preference(p string) *ScrollService {
	s.preference = p
	return s
}

// ScrollID exposes the current cursor token, mainly for diagnostics.
func (s *ScrollService) ScrollID() string { return s.scrollID }

// Do fetches the next page. It returns io.EOF once the result set is
// exhausted; no further continuation is issued after that.
func (s *ScrollService) Do(ctx context.Context) (*SearchResult, error) {
	if s.exhausted {
		return nil, io.EOF
	}

	var req Request
	var err error
	if s.scrollID == "" {
		req, err = s.openRequest()
	} else {
		req, err = s.continueRequest()
	}
	if err != nil {
		return nil, err
	}

	res, err := s.client.perform(ctx, req)
	if err != nil {
		return nil, err
	}

	result := new(SearchResult)
	if err := json.Unmarshal(res.Body, result); err != nil {
		return nil, err
	}

	// the token is not guaranteed stable across pages, always take the
	// freshest one
	if result.ScrollID != "" {
		s.scrollID = result.ScrollID
	}

	if len(result.Hits.Hits) == 0 {
		s.exhausted = true
		return nil, io.EOF
	}
	return result, nil
}

func (s *ScrollService) openRequest() (Request, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": s.query.Source(s.client.version),
	})
	if err != nil {
		return Request{}, err
	}

	params := url.Values{}
	params.Set("scroll", s.keepAlive)
	if s.size > 0 {
		params.Set("size", strconv.Itoa(s.size))
	}
	if s.preference != "" {
		params.Set("preference", s.preference)
	} else if s.client.preference != "" {
		params.Set("preference", s.client.preference)
	}

	return Request{
		Method: http.MethodPost,
		Path:   pathJoin(indexList(s.indices), string(s.tpe), "_search"),
		Params: params,
		Body:   body,
	}, nil
}

// continueRequest renders the continuation for the active generation: 6.x
// takes a JSON body, 2.x takes the bare scroll id with the window as a query
// parameter.
func (s *ScrollService) continueRequest() (Request, error) {
	if s.client.version == V2 {
		params := url.Values{}
		params.Set("scroll", s.keepAlive)
		return Request{
			Method:      http.MethodPost,
			Path:        "/_search/scroll",
			Params:      params,
			Body:        []byte(s.scrollID),
			ContentType: "text/plain",
		}, nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"scroll":    s.keepAlive,
		"scroll_id": s.scrollID,
	})
	if err != nil {
		return Request{}, err
	}
	return Request{
		Method: http.MethodPost,
		Path:   "/_search/scroll",
		Body:   body,
	}, nil
}

// Clear releases the server-side cursor early. Like the continuation, the
// wire shape is generation-specific: 6.x takes a JSON body listing the ids,
// 2.x the bare cursor token.
func (s *ScrollService) Clear(ctx context.Context) error {
	if s.scrollID == "" {
		return nil
	}

	req := Request{
		Method: http.MethodDelete,
		Path:   "/_search/scroll",
	}
	if s.client.version == V2 {
		req.Body = []byte(s.scrollID)
		req.ContentType = "text/plain"
	} else {
		body, err := json.Marshal(map[string]interface{}{
			"scroll_id": []string{s.scrollID},
		})
		if err != nil {
			return err
		}
		req.Body = body
	}

	_, err := s.client.perform(ctx, req)
	s.scrollID = ""
	return err
}
