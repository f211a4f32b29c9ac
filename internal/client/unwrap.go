package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// APIError is a failed response from the server
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Unwrap extracts the payload of a response body.
//
// The server answers {"success": true, "data": X}. Older deployments nest
// the payload once more as {"data": {"data": X}} and some endpoints return
// X bare. All three yield X. A body carrying {"success": false, "error": ...}
// becomes an *APIError.
func Unwrap(body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return json.RawMessage("null"), nil
	}

	top, ok := asObject(body)
	if !ok {
		return json.RawMessage(body), nil
	}

	if raw, found := top["error"]; found && isFalse(top["success"]) {
		apiErr := &APIError{}
		if err := json.Unmarshal(raw, apiErr); err != nil {
			var msg string
			_ = json.Unmarshal(raw, &msg)
			apiErr.Message = msg
		}
		return nil, apiErr
	}

	data, found := top["data"]
	if !found {
		return json.RawMessage(body), nil
	}

	if inner, ok := asObject(data); ok {
		if nested, found := inner["data"]; found && len(inner) == 1 {
			return nested, nil
		}
	}
	return data, nil
}

// Decode unwraps body into dest
func Decode(body []byte, dest interface{}) error {
	payload, err := Unwrap(body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func asObject(raw []byte) (map[string]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func isFalse(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("false"))
}
