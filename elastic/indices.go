package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CreateIndex creates an index with optional settings and mappings. Creating
// an index that is already there returns ErrIndexAlreadyExists; every other
// failure propagates unchanged.
func (c *Client) CreateIndex(ctx context.Context, index Index, settings, mappings map[string]interface{}) error {
	payload := map[string]interface{}{}
	if len(settings) > 0 {
		payload["settings"] = settings
	}
	if len(mappings) > 0 {
		payload["mappings"] = mappings
	}

	var body []byte
	if len(payload) > 0 {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}

	_, err := c.perform(ctx, Request{
		Method: http.MethodPut,
		Path:   pathJoin(string(index)),
		Body:   body,
	})
	if err != nil {
		if isAlreadyExists(err) {
			return fmt.Errorf("%w: %s", ErrIndexAlreadyExists, index)
		}
		return err
	}
	return nil
}

// PutMapping pushes rendered field mappings for one type. The mapping package
// produces the properties argument for the client's generation.
func (c *Client) PutMapping(ctx context.Context, index Index, tpe Type, properties map[string]interface{}) error {
	body, err := json.Marshal(map[string]interface{}{"properties": properties})
	if err != nil {
		return err
	}

	_, err = c.perform(ctx, Request{
		Method: http.MethodPut,
		Path:   pathJoin(string(index), "_mapping", string(tpe)),
		Body:   body,
	})
	return err
}

// DeleteIndex drops an index. Deleting an absent index reports false with a
// nil error, mirroring the script registry semantics.
func (c *Client) DeleteIndex(ctx context.Context, index Index) (bool, error) {
	_, err := c.perform(ctx, Request{
		Method: http.MethodDelete,
		Path:   pathJoin(string(index)),
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IndexExists reports whether the index is present.
func (c *Client) IndexExists(ctx context.Context, index Index) (bool, error) {
	_, err := c.perform(ctx, Request{
		Method: http.MethodHead,
		Path:   pathJoin(string(index)),
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
