package response

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// DecodeToken reads a JSON string answer. Booleans are accepted as YES/NO
// since some clients post checkboxes.
func DecodeToken(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", invalid("answer is required")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return Yes, nil
		}
		return No, nil
	}
	return "", invalid("answer %s: expected a string", compact(raw))
}

// DecodeNumber reads a JSON number answer. Numeric strings are accepted.
func DecodeNumber(raw json.RawMessage) (float64, error) {
	if isNull(raw) {
		return 0, invalid("answer is required")
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, perr := strconv.ParseFloat(strings.TrimSpace(s), 64); perr == nil {
			return v, nil
		}
	}
	return 0, invalid("answer %s: expected a number", compact(raw))
}

// DecodeTokens reads a multiselect answer: a JSON array of strings, a single
// string, or a comma-separated string.
func DecodeTokens(raw json.RawMessage) ([]string, error) {
	if isNull(raw) {
		return nil, invalid("answer is required")
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	}
	return nil, invalid("answer %s: expected a list of options", compact(raw))
}

// DecodeAge reads either a bare number or {"age": n, "student": bool}.
func DecodeAge(raw json.RawMessage) (Age, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			Age     *float64 `json:"age"`
			Student *bool    `json:"student"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return Age{}, invalid("answer %s: malformed age object", compact(raw))
		}
		if obj.Age == nil {
			return Age{}, invalid("answer %s: age is required", compact(raw))
		}
		return ParseAge(*obj.Age, obj.Student)
	}
	n, err := DecodeNumber(raw)
	if err != nil {
		return Age{}, err
	}
	return ParseAge(n, nil)
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func compact(raw json.RawMessage) string {
	const limit = 64
	s := string(bytes.TrimSpace(raw))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
