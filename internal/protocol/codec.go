package protocol

import (
	"encoding/json"
	"fmt"
)

// ActionResponse is the envelope every frontend reply uses. Unknown
// fields are preserved in Extra so newer frontends keep working.
type ActionResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Field unmarshals a named extra field into out. It reports false when
// the field is absent.
func (r ActionResponse) Field(name string, out any) (bool, error) {
	raw, ok := r.Extra[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decode field %q: %w", name, err)
	}
	return true, nil
}

// Encode serializes a request message to its UTF-8 JSON wire form.
func Encode(req any) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	return string(data), nil
}

// DecodeResponse parses a frontend reply. Anything that is not a JSON
// object is a decode failure; extra fields beyond the envelope are kept.
func DecodeResponse(raw string) (ActionResponse, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return ActionResponse{}, fmt.Errorf("response is not a JSON object: %w", err)
	}
	if fields == nil {
		return ActionResponse{}, fmt.Errorf("response is not a JSON object: null")
	}

	resp := ActionResponse{Extra: fields}
	if raw, ok := fields["ok"]; ok {
		if err := json.Unmarshal(raw, &resp.OK); err != nil {
			return ActionResponse{}, fmt.Errorf("decode ok flag: %w", err)
		}
		delete(fields, "ok")
	}
	if raw, ok := fields["error"]; ok {
		if err := json.Unmarshal(raw, &resp.Error); err != nil {
			return ActionResponse{}, fmt.Errorf("decode error field: %w", err)
		}
		delete(fields, "error")
	}
	return resp, nil
}
