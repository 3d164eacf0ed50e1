// Package metadata is the synchronous stage-1 extractor: cast roster, day
// count and document title from reconstructed text. No network, no I/O;
// callers get a usable (possibly empty) result within the latency budget.
// Emptiness means "needs stage 2", never an error.
package metadata

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/slatecrew/callsheet/constants"
	"github.com/slatecrew/callsheet/internal/entity"
)

// headWindow bounds how many lines of the document roster strategies scan.
// Cast lists live on the cover pages of every schedule observed so far.
const headWindow = 120

// Result is everything stage 1 can pull out without a network call.
type Result struct {
	Title     string
	Roster    entity.Roster
	TotalDays int
}

// rosterStrategy is one named pattern family for cast lines. Strategies are
// tried in priority order over each head line; all matches union into the
// roster.
type rosterStrategy struct {
	name  string
	match func(line string) (entity.CastMember, bool)
}

var (
	reNumberedCast = regexp.MustCompile(`^\s*(\d{1,3})\.\s+([A-Z][A-Za-z0-9 .,'\-]+?)\s*$`)
	reTabularCast  = regexp.MustCompile(`^\s*(\d{1,3})\t+\s*([A-Z][A-Za-z0-9 .,'\-]+?)\s*$`)
	reSectionCast  = regexp.MustCompile(`^\s*(\d{1,3})[.\t ]+\s*([A-Z][A-Za-z0-9 .,'\-]+?)\s*$`)
	reCastHeader   = regexp.MustCompile(`(?i)^\s*cast(\s+(list|members))?\s*:?\s*$`)

	// EndOfDay and DayHeader are the shooting-day boundary markers. The
	// segmenter splits on the same patterns stage 1 counts.
	EndOfDay  = regexp.MustCompile(`(?i)end\s+of\s+(?:shooting\s+)?day\s+#?(\d+)`)
	DayHeader = regexp.MustCompile(`(?i)^\s*(?:shooting\s+)?day\s+#?(\d+)\b`)
)

// strategies, in priority order. The CAST-section family is stateful and
// handled separately in Extract.
var strategies = []rosterStrategy{
	{name: "numbered_list", match: matchPattern(reNumberedCast)},
	{name: "tabular", match: matchPattern(reTabularCast)},
}

func matchPattern(re *regexp.Regexp) func(string) (entity.CastMember, bool) {
	return func(line string) (entity.CastMember, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return entity.CastMember{}, false
		}
		return buildMember(m[1], m[2])
	}
}

func buildMember(numStr, name string) (entity.CastMember, bool) {
	num, err := strconv.Atoi(numStr)
	if err != nil || num <= 0 {
		return entity.CastMember{}, false
	}
	name = strings.TrimSpace(name)
	if !validName(name) {
		return entity.CastMember{}, false
	}
	return entity.CastMember{Number: num, Name: name}, true
}

func validName(name string) bool {
	if len(name) < constants.MinNameLen || len(name) > constants.MaxNameLen {
		return false
	}
	if constants.IsDenylistedName(name) {
		return false
	}
	hasLetter := false
	for _, r := range name {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			hasLetter = true
			break
		}
	}
	return hasLetter
}

// Extract runs stage 1 over reconstructed document text. Always returns;
// empty collections mean the patterns found nothing.
func Extract(text string) Result {
	lines := strings.Split(text, "\n")

	res := Result{Roster: entity.Roster{}}
	for _, line := range lines {
		if t := strings.TrimSpace(line); t != "" {
			res.Title = t
			break
		}
	}

	head := lines
	if len(head) > headWindow {
		head = head[:headWindow]
	}

	// Independent pattern families over the head; results union, first
	// writer wins per cast number.
	for _, line := range head {
		for _, st := range strategies {
			if m, ok := st.match(line); ok {
				if _, exists := res.Roster[m.Number]; !exists {
					res.Roster[m.Number] = m
				}
				break
			}
		}
	}

	// Explicit CAST section block: looser per-line pattern, active only
	// between the header and the next blank line or unrelated header.
	inSection := false
	for _, line := range head {
		if reCastHeader.MatchString(line) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if strings.TrimSpace(line) == "" {
			inSection = false
			continue
		}
		m := reSectionCast.FindStringSubmatch(line)
		if m == nil {
			inSection = false
			continue
		}
		if member, ok := buildMember(m[1], m[2]); ok {
			if _, exists := res.Roster[member.Number]; !exists {
				res.Roster[member.Number] = member
			}
		}
	}

	res.TotalDays = countDays(text)
	return res
}

// countDays counts unique end-of-day boundary markers, falling back to day
// headers when a schedule carries none.
func countDays(text string) int {
	seen := map[int]struct{}{}
	for _, m := range EndOfDay.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			seen[n] = struct{}{}
		}
	}
	if len(seen) > 0 {
		return len(seen)
	}
	for _, line := range strings.Split(text, "\n") {
		if m := DayHeader.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				seen[n] = struct{}{}
			}
		}
	}
	return len(seen)
}
