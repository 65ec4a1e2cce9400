package elastic

import (
	"context"
	"net/url"
	"strings"
)

// pathJoin builds a request path from non-empty segments. Segments are used
// as-is so multi-index lists like "a,b" stay intact.
func pathJoin(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString("/")
		b.WriteString(p)
	}
	return b.String()
}

// Request is one rendered call against the search engine's REST API.
type Request struct {
	Method      string
	Path        string
	Params      url.Values
	Body        []byte
	ContentType string
}

// Response is the raw body+status envelope returned by a Transport.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport executes a rendered request against an endpoint. Implementations
// live in the elastic/v8 and elastic/v9 packages; tests use an in-memory fake.
type Transport interface {
	Perform(ctx context.Context, req Request) (*Response, error)
}

// perform runs a request and translates error-status responses into *Error.
// Transport failures pass through unchanged.
func (c *Client) perform(ctx context.Context, req Request) (*Response, error) {
	if req.ContentType == "" {
		req.ContentType = "application/json"
	}
	res, err := c.transport.Perform(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 400 {
		return nil, parseError(res)
	}
	return res, nil
}

func indexList(indices []Index) string {
	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = string(idx)
	}
	return strings.Join(names, ",")
}
