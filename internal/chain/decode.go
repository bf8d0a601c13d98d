package chain

import (
	"encoding/json"
	"strconv"
)

// DecodeBool decodes a simulated-call boolean: a single-element byte array
// where 1 is true. Any other shape is false.
func DecodeBool(b []byte) bool {
	return len(b) == 1 && b[0] == 1
}

// FieldString reads a string field from decoded Move object fields.
func FieldString(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

// FieldBool reads a bool field from decoded Move object fields.
func FieldBool(fields map[string]any, key string) bool {
	if v, ok := fields[key].(bool); ok {
		return v
	}
	return false
}

// FieldUint reads a numeric field. Move u64 values arrive as string-encoded
// integers; smaller widths arrive as JSON numbers. Both are handled.
func FieldUint(fields map[string]any, key string) uint64 {
	switch v := fields[key].(type) {
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case float64:
		if v < 0 {
			return 0
		}
		return uint64(v)
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// FieldStrings reads a vector<ID> or vector<address> field.
func FieldStrings(fields map[string]any, key string) []string {
	arr, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// FieldOptionString reads a Move Option<String>, which the fullnode renders
// either as a bare string or as a wrapped {fields: {vec: [..]}} form.
func FieldOptionString(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case map[string]any:
		inner, ok := v["fields"].(map[string]any)
		if !ok {
			return ""
		}
		vec, ok := inner["vec"].([]any)
		if !ok || len(vec) == 0 {
			return ""
		}
		s, _ := vec[0].(string)
		return s
	default:
		return ""
	}
}
