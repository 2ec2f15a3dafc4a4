package utils

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when a model response contains no decodable JSON
// object, even after scanning for a brace-delimited substring.
var ErrNoJSON = errors.New("no JSON object found in response")

// DecodeModelJSON unmarshals an LLM response into out. Models routinely wrap
// their JSON in prose or markdown fences, so decoding is strict-then-lenient:
// try the raw text first, then the first balanced brace-delimited substring.
func DecodeModelJSON(raw string, out interface{}) error {
	trimmed := strings.TrimSpace(StripFences(raw))
	if json.Unmarshal([]byte(trimmed), out) == nil {
		return nil
	}

	candidate, ok := firstJSONObject(trimmed)
	if !ok {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(candidate), out); err != nil {
		return ErrNoJSON
	}
	return nil
}

// firstJSONObject returns the first balanced {...} substring of s, tracking
// string literals so braces inside values do not confuse the scan.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// StripFences removes a surrounding markdown code fence, if any.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
