// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package upstream

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// messageFields are the body fields searched for an error message, in
// priority order.
var messageFields = []string{"error", "message", "detail"}

// DecodeBody decodes a response body. Empty bodies decode to nil and bodies
// that are not JSON are returned as a string.
func DecodeBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return string(body)
	}
	return v
}

// ErrorMessage builds the display message for a non-2xx response:
// "<status>: <text>" where text is the body itself when it is a string, or
// the first non-empty error, message or detail field when it is an object.
// Otherwise it falls back to a generic status message.
func ErrorMessage(status int, body []byte) string {
	if text := bodyMessage(DecodeBody(body)); text != "" {
		return fmt.Sprintf("%d: %s", status, text)
	}
	return fmt.Sprintf("Request failed with status code %d", status)
}

func bodyMessage(decoded any) string {
	switch v := decoded.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, field := range messageFields {
			if text := fieldText(v[field]); text != "" {
				return text
			}
		}
	}
	return ""
}

// fieldText renders a message field. Empty strings, false, zero and null are
// treated as absent.
func fieldText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return "true"
	case float64:
		if t == 0 {
			return ""
		}
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// UnwrapData returns the "data" array of an object body, or the body itself
// when there is none.
func UnwrapData(body any) any {
	if obj, ok := body.(map[string]any); ok {
		if data, ok := obj["data"].([]any); ok {
			return data
		}
	}
	return body
}
