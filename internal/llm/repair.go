package llm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/slatecrew/callsheet/internal/common"
)

// Repair recovers valid JSON from raw completion output, which may arrive
// wrapped in prose or markdown, truncated mid-array, or otherwise malformed.
// Steps run in a fixed order and are idempotent: repairing already-valid
// JSON returns an equivalent document. Only when every strategy fails does
// the caller see a hard error.
func Repair(raw []byte) ([]byte, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return nil, fmt.Errorf("repair: empty output: %w", common.ErrUnparsable)
	}

	s = stripFences(s)
	s = sliceToBraces(s)
	s = stripTrailingCommas(s)
	s = insertMissingCommas(s)

	if sonic.Valid([]byte(s)) {
		return []byte(s), nil
	}

	// Unbalanced braces/brackets mean truncation: trim to the last
	// syntactically complete value and append the missing closers.
	if balanced := closeTruncated(s); balanced != "" {
		balanced = stripTrailingCommas(balanced)
		if sonic.Valid([]byte(balanced)) {
			return []byte(balanced), nil
		}
		// Closers can expose a dangling comma that was hidden mid-array.
		if again := closeTruncated(stripTrailingCommas(balanced)); again != "" && sonic.Valid([]byte(again)) {
			return []byte(again), nil
		}
	}

	// Narrower recovery: pull out just the known top-level array and wrap
	// it standalone.
	if arr := extractArrayField(s, "scenes"); arr != "" {
		candidate := `{"scenes":` + arr + `}`
		if sonic.Valid([]byte(candidate)) {
			return []byte(candidate), nil
		}
	}

	return nil, fmt.Errorf("repair: output not recoverable as JSON: %w", common.ErrUnparsable)
}

// stripFences removes markdown code block wrappers (```json ... ```).
func stripFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "```") {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

// sliceToBraces cuts prose around the JSON object: substring from the first
// opening brace to the last closing brace. Left alone when no brace pair
// exists, so later stages still see the raw text.
func sliceToBraces(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}
	end := strings.LastIndexByte(s, '}')
	if end > start {
		return s[start : end+1]
	}
	return s[start:]
}

var reTrailingComma = regexp.MustCompile(`,\s*([}\]])`)

// stripTrailingCommas removes commas before closing brackets, repeatedly
// until a fixed point.
func stripTrailingCommas(s string) string {
	for {
		next := reTrailingComma.ReplaceAllString(s, "$1")
		if next == s {
			return s
		}
		s = next
	}
}

var reMissingComma = regexp.MustCompile(`([}\]])\s*([{\[])`)

// insertMissingCommas normalizes adjacent value boundaries the model forgot
// to separate: "}{", "]["  and their mixed forms become "},{" etc.
func insertMissingCommas(s string) string {
	return reMissingComma.ReplaceAllString(s, "$1,$2")
}

// closeTruncated walks the document tracking string state and nesting. When
// openers outnumber closers it trims back to the end of the last complete
// value and appends the closers owed at that point. Returns "" when the
// document is balanced (nothing to do) or hopeless.
func closeTruncated(s string) string {
	var stack []byte
	inString := false
	escaped := false
	lastGood := -1 // index just past the last complete value

	// A closed string is only a value if no colon follows it; otherwise it was
	// an object key and trimming after it would leave the key dangling.
	pendingEnd := -1
	commitPending := func() {
		if pendingEnd > 0 {
			lastGood = pendingEnd
			pendingEnd = -1
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
				pendingEnd = i + 1
			}
			continue
		}
		switch c {
		case ' ', '\t', '\n', '\r':
		case ':':
			pendingEnd = -1
		case '"':
			commitPending()
			inString = true
		case '{':
			commitPending()
			stack = append(stack, '}')
		case '[':
			commitPending()
			stack = append(stack, ']')
		case '}', ']':
			commitPending()
			if len(stack) == 0 {
				return "" // over-closed; not a truncation problem
			}
			stack = stack[:len(stack)-1]
			lastGood = i + 1
		case ',':
			commitPending()
		case 'e', 'l': // true/false/null terminators
			lastGood = i + 1
		default:
			if c >= '0' && c <= '9' {
				lastGood = i + 1
			}
		}
	}

	if len(stack) == 0 && !inString {
		return "" // already balanced
	}
	commitPending()
	if lastGood <= 0 {
		return ""
	}

	out := strings.TrimRight(s[:lastGood], ", \n\t\r")
	// Recompute what is still open at the cut and close it.
	return out + openClosersAt(out)
}

// openClosersAt rescans a prefix and returns the closers owed, innermost
// first.
func openClosersAt(s string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	var sb strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		sb.WriteByte(stack[i])
	}
	return sb.String()
}

// extractArrayField finds `"name": [ ... ]` and returns the bracketed slice,
// trimmed to balance if the tail is truncated.
func extractArrayField(s, name string) string {
	re := regexp.MustCompile(`"` + regexp.QuoteMeta(name) + `"\s*:\s*\[`)
	loc := re.FindStringIndex(s)
	if loc == nil {
		return ""
	}
	start := loc[1] - 1 // at the '['
	rest := s[start:]
	if closed := closeTruncated(rest); closed != "" {
		return closed
	}
	// Balanced already: take through the matching bracket.
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return rest[:i+1]
			}
		}
	}
	return ""
}
