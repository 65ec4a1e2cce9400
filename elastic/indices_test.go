package elastic

import (
	"context"
	"errors"
	"testing"
)

func TestCreateIndexAlreadyExists(t *testing.T) {
	tests := []struct {
		name    string
		errType string
	}{
		{"6.x signature", "resource_already_exists_exception"},
		{"2.x signature", "index_already_exists_exception"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := false
			ft := &fakeTransport{handler: func(req Request) (*Response, error) {
				if !created {
					created = true
					return jsonResponse(200, `{"acknowledged":true}`), nil
				}
				return errorResponse(400, tt.errType, "index [logs] already exists"), nil
			}}
			client := NewClient(ft, V6)
			ctx := context.Background()

			if err := client.CreateIndex(ctx, "logs", nil, nil); err != nil {
				t.Fatalf("first create failed: %v", err)
			}

			err := client.CreateIndex(ctx, "logs", nil, nil)
			if !errors.Is(err, ErrIndexAlreadyExists) {
				t.Errorf("second create = %v, want ErrIndexAlreadyExists", err)
			}
		})
	}
}

func TestCreateIndexOtherErrorsPropagate(t *testing.T) {
	ft := &fakeTransport{handler: func(req Request) (*Response, error) {
		return errorResponse(400, "illegal_argument_exception", "bad settings"), nil
	}}
	client := NewClient(ft, V6)

	err := client.CreateIndex(context.Background(), "logs", map[string]interface{}{"number_of_shards": 0}, nil)
	if errors.Is(err, ErrIndexAlreadyExists) {
		t.Fatal("unrelated failure translated into already-exists")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Type != "illegal_argument_exception" {
		t.Errorf("err = %v, want the structured error unchanged", err)
	}
}

func TestCreateIndexBody(t *testing.T) {
	ft := &fakeTransport{handler: func(req Request) (*Response, error) {
		return jsonResponse(200, `{"acknowledged":true}`), nil
	}}
	client := NewClient(ft, V6)

	settings := map[string]interface{}{"number_of_shards": 1}
	mappings := map[string]interface{}{"entry": map[string]interface{}{"properties": map[string]interface{}{}}}
	if err := client.CreateIndex(context.Background(), "logs", settings, mappings); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	req := ft.requests[0]
	if req.Method != "PUT" || req.Path != "/logs" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	body := bodyJSON(t, req)
	if _, ok := body["settings"]; !ok {
		t.Errorf("settings missing from body: %v", body)
	}
	if _, ok := body["mappings"]; !ok {
		t.Errorf("mappings missing from body: %v", body)
	}
}

func TestPutMapping(t *testing.T) {
	ft := &fakeTransport{handler: func(req Request) (*Response, error) {
		return jsonResponse(200, `{"acknowledged":true}`), nil
	}}
	client := NewClient(ft, V6)

	properties := map[string]interface{}{
		"level": map[string]interface{}{"type": "keyword"},
	}
	if err := client.PutMapping(context.Background(), "logs", "entry", properties); err != nil {
		t.Fatalf("put mapping failed: %v", err)
	}

	req := ft.requests[0]
	if req.Method != "PUT" || req.Path != "/logs/_mapping/entry" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	body := bodyJSON(t, req)
	props, ok := body["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("body lacks a properties object: %v", body)
	}
	level, ok := props["level"].(map[string]interface{})
	if !ok || level["type"] != "keyword" {
		t.Errorf("properties = %v", props)
	}
}

func TestPutMappingErrorPropagates(t *testing.T) {
	ft := &fakeTransport{handler: func(req Request) (*Response, error) {
		return errorResponse(400, "mapper_parsing_exception", "no handler for type [bogus]"), nil
	}}
	client := NewClient(ft, V6)

	err := client.PutMapping(context.Background(), "logs", "entry", map[string]interface{}{
		"level": map[string]interface{}{"type": "bogus"},
	})
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Type != "mapper_parsing_exception" {
		t.Errorf("err = %v, want the structured error unchanged", err)
	}
}

func TestIndexExists(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"present", 200, true},
		{"absent", 404, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{handler: func(req Request) (*Response, error) {
				// HEAD responses carry no body
				return &Response{StatusCode: tt.status}, nil
			}}
			client := NewClient(ft, V6)

			exists, err := client.IndexExists(context.Background(), "logs")
			if err != nil {
				t.Fatalf("exists check failed: %v", err)
			}
			if exists != tt.want {
				t.Errorf("exists = %v, want %v", exists, tt.want)
			}

			req := ft.requests[0]
			if req.Method != "HEAD" || req.Path != "/logs" {
				t.Errorf("request = %s %s", req.Method, req.Path)
			}
		})
	}
}

func TestDeleteIndexIdempotent(t *testing.T) {
	ft := &fakeTransport{handler: func(req Request) (*Response, error) {
		return errorResponse(404, "index_not_found_exception", "no such index"), nil
	}}
	client := NewClient(ft, V6)

	deleted, err := client.DeleteIndex(context.Background(), "gone")
	if err != nil {
		t.Fatalf("a 404 must not surface as an error, got %v", err)
	}
	if deleted {
		t.Error("reported true for a missing index")
	}
}
