package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrShape = errors.New("unexpected list shape")

var listKeys = []string{"results", "items", "data"}

// DecodeList accepts a bare array, {"results": [...]}, {"items": [...]}
// or an object keyed by one of fields.
func DecodeList[T any](raw []byte, fields ...string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	switch raw[0] {
	case '[':
		var out []T
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return out, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decode envelope: %w", err)
		}
		for _, k := range append(append([]string{}, listKeys...), fields...) {
			v, ok := obj[k]
			if !ok {
				continue
			}
			v = bytes.TrimSpace(v)
			if bytes.Equal(v, []byte("null")) {
				return []T{}, nil
			}
			if len(v) == 0 || v[0] != '[' {
				continue
			}
			var out []T
			if err := json.Unmarshal(v, &out); err != nil {
				return nil, fmt.Errorf("decode %s: %w", k, err)
			}
			return out, nil
		}
	}
	return nil, ErrShape
}

var messageKeys = []string{"error", "detail", "message", "non_field_errors"}

// ErrorMessage extracts the server's message from an error body. The
// first non-empty of error, detail, message wins; otherwise the first
// field error in key order (the shape of form validation responses).
func ErrorMessage(raw []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, k := range messageKeys {
		if s := text(obj[k]); s != "" {
			return s
		}
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s := text(obj[k]); s != "" {
			return s
		}
	}
	return ""
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			if s, ok := p.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}
