package llm

import (
	"fmt"
	"strings"
)

// markers wrapping inline reasoning segments that some models emit
const (
	ReasoningOpenMarker  = "<think>"
	ReasoningCloseMarker = "</think>"
)

// ParseError identifies which extraction stage rejected a model response
type ParseError struct {
	Stage  string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failed at %s: %s", e.Stage, e.Detail)
}

// StripReasoning removes a reasoning block delimited by think markers.
// If only a closing marker is present, everything before it is dropped.
func StripReasoning(s string) string {
	closeIdx := strings.Index(s, ReasoningCloseMarker)
	if closeIdx == -1 {
		return s
	}

	return s[closeIdx+len(ReasoningCloseMarker):]
}

// ExtractJSONObject returns the first top-level brace-delimited substring.
// Models routinely prepend commentary or wrap output in code fences, so the
// scan tolerates arbitrary surrounding text. Braces inside JSON strings
// (including escaped quotes) do not count toward nesting depth.
func ExtractJSONObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", &ParseError{Stage: "scan", Detail: "no opening brace found"}
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}

			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", &ParseError{Stage: "scan", Detail: "unbalanced braces"}
}
