package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// StoredScript is a named server-side script.
type StoredScript struct {
	ID     string
	Lang   string
	Source string
}

// scriptPath renders the registry path for the active generation: 6.x
// addresses scripts by id alone, 2.x keys them by language as well.
func (c *Client) scriptPath(id string) string {
	if c.version == V2 {
		return pathJoin("_scripts", c.scriptLang, id)
	}
	return pathJoin("_scripts", id)
}

// GetScript looks up a stored script. A 404 is not an error: it reports
// found=false with a nil error.
func (c *Client) GetScript(ctx context.Context, id string) (*StoredScript, bool, error) {
	res, err := c.perform(ctx, Request{
		Method: http.MethodGet,
		Path:   c.scriptPath(id),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var out struct {
		Found  bool            `json:"found"`
		Lang   string          `json:"lang"`
		Script json.RawMessage `json:"script"`
	}
	if err := json.Unmarshal(res.Body, &out); err != nil {
		return nil, false, err
	}
	if !out.Found {
		return nil, false, nil
	}

	script := &StoredScript{ID: id, Lang: out.Lang}
	if trimmed := bytes.TrimSpace(out.Script); len(trimmed) > 0 && trimmed[0] == '{' {
		// 6.x wraps lang and source in a script object
		var body struct {
			Lang   string `json:"lang"`
			Source string `json:"source"`
		}
		if err := json.Unmarshal(out.Script, &body); err != nil {
			return nil, false, err
		}
		script.Lang = body.Lang
		script.Source = body.Source
	} else if err := json.Unmarshal(out.Script, &script.Source); err != nil {
		return nil, false, err
	}
	return script, true, nil
}

// PutScript upserts a stored script and reports the acknowledgment.
func (c *Client) PutScript(ctx context.Context, id, source string) (bool, error) {
	var payload interface{}
	if c.version == V2 {
		payload = map[string]interface{}{"script": source}
	} else {
		payload = map[string]interface{}{
			"script": map[string]interface{}{
				"lang":   c.scriptLang,
				"source": source,
			},
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}

	res, err := c.perform(ctx, Request{
		Method: http.MethodPost,
		Path:   c.scriptPath(id),
		Body:   body,
	})
	if err != nil {
		return false, err
	}

	var out struct {
		Acknowledged bool `json:"acknowledged"`
	}
	if err := json.Unmarshal(res.Body, &out); err != nil {
		return false, err
	}
	return out.Acknowledged, nil
}

// DeleteScript removes a stored script. Deleting an absent id returns false
// with a nil error, so repeated deletes are idempotent.
func (c *Client) DeleteScript(ctx context.Context, id string) (bool, error) {
	_, err := c.perform(ctx, Request{
		Method: http.MethodDelete,
		Path:   c.scriptPath(id),
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
