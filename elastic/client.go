package elastic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

const defaultKeepAlive = "1m"

// Client is a typed client for one search cluster speaking one protocol
// generation. The HTTP plumbing is delegated to the Transport; the client owns
// rendering, cursor handling and error classification.
type Client struct {
	transport  Transport
	version    ProtocolVersion
	keepAlive  string
	scriptLang string
	preference string
}

type ClientOption func(*Client)

// SetScrollKeepAlive sets the result-window duration sent with every scroll
// request, e.g. "1m".
func SetScrollKeepAlive(d string) ClientOption {
	return func(c *Client) { c.keepAlive = d }
}

// SetScriptLang overrides the script language. 2.x addresses scripts by
// language in the path, so the default there is groovy; 6.x defaults to
// painless.
func SetScriptLang(lang string) ClientOption {
	return func(c *Client) { c.scriptLang = lang }
}

// SetPreference routes search requests to consistent shard copies.
func SetPreference(p string) ClientOption {
	return func(c *Client) { c.preference = p }
}

func NewClient(t Transport, v ProtocolVersion, opts ...ClientOption) *Client {
	c := &Client{
		transport: t,
		version:   v,
		keepAlive: defaultKeepAlive,
	}
	if v == V2 {
		c.scriptLang = "groovy"
	} else {
		c.scriptLang = "painless"
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Version returns the protocol generation this client renders for.
func (c *Client) Version() ProtocolVersion { return c.version }

// Count returns the number of documents matching query in the given indices.
func (c *Client) Count(ctx context.Context, indices []Index, query Query) (int64, error) {
	body, err := json.Marshal(map[string]interface{}{"query": query.Source(c.version)})
	if err != nil {
		return 0, err
	}

	res, err := c.perform(ctx, Request{
		Method: http.MethodPost,
		Path:   pathJoin(indexList(indices), "_count"),
		Body:   body,
	})
	if err != nil {
		return 0, err
	}

	var out struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(res.Body, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Search runs a single non-scrolling page and keeps the raw body around.
func (c *Client) Search(ctx context.Context, indices []Index, tpe Type, query Query, size int) (*RawSearchResult, error) {
	body, err := json.Marshal(map[string]interface{}{"query": query.Source(c.version)})
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	if size > 0 {
		params.Set("size", strconv.Itoa(size))
	}
	if c.preference != "" {
		params.Set("preference", c.preference)
	}

	res, err := c.perform(ctx, Request{
		Method: http.MethodPost,
		Path:   pathJoin(indexList(indices), string(tpe), "_search"),
		Params: params,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	result := &RawSearchResult{Raw: res.Body}
	if err := json.Unmarshal(res.Body, &result.SearchResult); err != nil {
		return nil, err
	}
	return result, nil
}

// Refresh makes prior writes visible to subsequent searches.
func (c *Client) Refresh(ctx context.Context, indices ...Index) error {
	_, err := c.perform(ctx, Request{
		Method: http.MethodPost,
		Path:   pathJoin(indexList(indices), "_refresh"),
	})
	return err
}
