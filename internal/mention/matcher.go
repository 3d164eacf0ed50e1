// Package mention backfills cast references for scene entries that carry no
// explicit number list, by scanning scene text for roster-name mentions with
// a single Aho-Corasick automaton.
package mention

import (
	"sort"
	"strings"
	"unicode"

	"github.com/coregx/ahocorasick"

	"github.com/slatecrew/callsheet/internal/entity"
)

// RosterMatcher scans free text for cast-member name mentions.
type RosterMatcher struct {
	ac           *ahocorasick.Automaton
	patterns     []string
	patternToNum []int
}

// NewRosterMatcher compiles one automaton over every surface form of every
// roster name. Multiword names also register their last token ("SMITH" for
// "JANE SMITH") so partial mentions still resolve, as long as the short form
// is unambiguous within the roster.
func NewRosterMatcher(roster entity.Roster) (*RosterMatcher, error) {
	m := &RosterMatcher{}
	patternIndex := map[string]int{}
	ambiguous := map[string]bool{}

	add := func(surface string, num int) {
		key := canonicalize(surface)
		if len(key) < 3 {
			return
		}
		if idx, ok := patternIndex[key]; ok {
			if m.patternToNum[idx] != num {
				ambiguous[key] = true
			}
			return
		}
		patternIndex[key] = len(m.patterns)
		m.patterns = append(m.patterns, key)
		m.patternToNum = append(m.patternToNum, num)
	}

	nums := make([]int, 0, len(roster))
	for n := range roster {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	for _, n := range nums {
		name := roster[n].Name
		add(name, n)
		if parts := strings.Fields(canonicalize(name)); len(parts) > 1 {
			add(parts[len(parts)-1], n)
			add(parts[0], n)
		}
	}

	// Drop short forms shared by more than one member.
	kept := m.patterns[:0]
	keptNums := m.patternToNum[:0]
	for i, p := range m.patterns {
		if ambiguous[p] {
			continue
		}
		kept = append(kept, p)
		keptNums = append(keptNums, m.patternToNum[i])
	}
	m.patterns = kept
	m.patternToNum = keptNums

	if len(m.patterns) == 0 {
		return m, nil
	}
	ac, err := ahocorasick.NewBuilder().
		AddStrings(m.patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	m.ac = ac
	return m, nil
}

// Mentions returns the cast numbers mentioned in text, ascending, unique.
func (m *RosterMatcher) Mentions(text string) []int {
	if m == nil || m.ac == nil || text == "" {
		return nil
	}
	haystack := canonicalize(text)
	seen := map[int]struct{}{}
	var out []int
	for _, match := range m.ac.FindAllOverlapping([]byte(haystack)) {
		if !wordBounded(haystack, match.Start, match.End) {
			continue
		}
		n := m.patternToNum[match.PatternID]
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Backfill fills CastNumbers on entries that have none, from name mentions
// in the entry's description and location text. Entries with explicit lists
// are left untouched.
func (m *RosterMatcher) Backfill(scenes []entity.SceneEntry) int {
	if m == nil || m.ac == nil {
		return 0
	}
	filled := 0
	for i := range scenes {
		if len(scenes[i].CastNumbers) > 0 {
			continue
		}
		text := scenes[i].Description + " " + scenes[i].SetLocation
		if nums := m.Mentions(text); len(nums) > 0 {
			scenes[i].CastNumbers = nums
			filled++
		}
	}
	return filled
}

// canonicalize folds to lowercase, keeps letters/digits/name joiners, and
// collapses everything else to single spaces, so patterns and haystack agree.
func canonicalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	lastWasSpace := true
	for _, ch := range s {
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '\'' || c == '-' || c == '.' {
			out.WriteRune(c)
			lastWasSpace = false
			continue
		}
		if !lastWasSpace {
			out.WriteRune(' ')
			lastWasSpace = true
		}
	}
	return strings.TrimRight(out.String(), " ")
}

// wordBounded rejects matches glued to adjacent word characters ("ANNE"
// inside "ANNETTE").
func wordBounded(s string, start, end int) bool {
	if start > 0 {
		prev := s[start-1]
		if isWordByte(prev) {
			return false
		}
	}
	if end < len(s) {
		next := s[end]
		if isWordByte(next) {
			return false
		}
	}
	return true
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b >= 0x80
}
