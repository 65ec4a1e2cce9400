// Package v8 adapts the go-elasticsearch v8 HTTP client to the
// elastic.Transport contract. The client generation used for HTTP is
// independent of the wire-protocol generation being rendered.
package v8

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/pteich/elastic-purge/elastic"
)

type Transport struct {
	es *elasticsearch.Client
}

func NewTransport(cfg elasticsearch.Config) (*Transport, error) {
	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Transport{es: es}, nil
}

func NewConfig(url string, username string, password string, httpClient *http.Client) elasticsearch.Config {
	cfg := elasticsearch.Config{
		Addresses: []string{url},
		Username:  username,
		Password:  password,
	}
	if httpClient != nil {
		cfg.Transport = httpClient.Transport
	}
	return cfg
}

func (t *Transport) Perform(ctx context.Context, req elastic.Request) (*elastic.Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.Path, body)
	if err != nil {
		return nil, err
	}
	if len(req.Params) > 0 {
		httpReq.URL.RawQuery = req.Params.Encode()
	}
	if req.Body != nil {
		contentType := req.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		httpReq.Header.Set("Content-Type", contentType)
	}

	res, err := t.es.Perform(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	return &elastic.Response{StatusCode: res.StatusCode, Body: data}, nil
}
