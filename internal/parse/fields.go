// Package parse is the deterministic scene/character entry parser. It owns
// the disambiguation between comma-separated cast-number lists and lone
// alphanumeric scene identifiers, and recognizes the table renderings a
// schedule PDF flattens into: single-line rows and stacked two-row blocks.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// A lone scene identifier: digits with an optional short letter suffix.
	reSceneNumber = regexp.MustCompile(`^\d{1,4}[A-Z]{0,2}$`)

	// The "N, N, N" shape. Anything matching this is a cast list, never a
	// scene number.
	reCastList = regexp.MustCompile(`^\d{1,3}(?:\s*,\s*\d{1,3})+$`)

	reIntExt = regexp.MustCompile(`\b(INT/EXT|I/E|INT|EXT)\b\.?`)

	// Story-day markers ("D5", "N8") come first so they win over generic
	// day/night labels when both appear.
	reStoryDay = regexp.MustCompile(`^[DN]\d{1,2}$`)
	reDayNight = regexp.MustCompile(`^(?i:DAY|NIGHT|MORNING|AFTERNOON|EVENING|DAWN|DUSK|CONTINUOUS|LATER)$`)

	rePages     = regexp.MustCompile(`^(\d+)?\s*(\d/\d)?\s*(?i:pgs?|pages?)\.?$`)
	rePagesTail = regexp.MustCompile(`(\d+\s+\d/\d|\d/\d|\d+(?:\.\d+)?)\s*(?i:pgs?|pages?)\.?`)

	reEstTime = regexp.MustCompile(`^(?:\d{1,2}:\d{2}(?:\s*(?i:AM|PM))?|\d+(?:\.\d+)?\s*(?i:hrs?|hours?|min|mins?))$`)

	reCastLabel = regexp.MustCompile(`(?i)^cast\s*:?\s*`)

	reMultiSpace = regexp.MustCompile(`\s{2,}`)
)

// IsSceneNumber reports whether s can stand as a scene identifier. A
// comma-separated list of short integers is syntactically close ("1, 2, 4"
// vs "4A") and is always rejected here.
func IsSceneNumber(s string) bool {
	s = strings.TrimSpace(s)
	if reCastList.MatchString(s) {
		return false
	}
	return reSceneNumber.MatchString(s)
}

// IsCastList reports whether s has the "N, N, N" shape of two or more short
// integers.
func IsCastList(s string) bool {
	return reCastList.MatchString(strings.TrimSpace(s))
}

// CastNumbers parses a comma-separated cast reference list. A single bare
// integer is accepted too; disambiguation against scene numbers is the
// caller's job, done by position. Order is kept, duplicates dropped.
func CastNumbers(s string) []int {
	s = reCastLabel.ReplaceAllString(strings.TrimSpace(s), "")
	parts := strings.Split(s, ",")
	seen := make(map[int]struct{}, len(parts))
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 || n > 999 {
			return nil
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// intExtToken pulls the first INT/EXT marker out of a string.
func intExtToken(s string) (string, bool) {
	m := reIntExt.FindString(s)
	if m == "" {
		return "", false
	}
	return strings.TrimSuffix(m, "."), true
}

// isUpperDominant reports whether letters in s are (almost) all uppercase,
// the shape of set/location cells.
func isUpperDominant(s string) bool {
	upper, letters := 0, 0
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			letters++
		} else if r >= 'A' && r <= 'Z' {
			letters++
			upper++
		}
	}
	if letters == 0 {
		return false
	}
	return upper*10 >= letters*9
}

// splitCells breaks a serialized row into cells. Reconstructed rows separate
// columns with tabs; text that arrived without layout info falls back to
// runs of two or more spaces.
func splitCells(line string) []string {
	var raw []string
	if strings.ContainsRune(line, '\t') {
		raw = strings.Split(line, "\t")
	} else {
		raw = reMultiSpace.Split(line, -1)
	}
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		if t := strings.TrimSpace(c); t != "" {
			out = append(out, t)
		}
	}
	return out
}
