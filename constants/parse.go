package constants

import "strings"

// CastNameDenylist holds tokens that pattern matching must never accept as a
// cast member name. They collide with scene headings and time-of-day labels
// that share the same "short uppercase word" shape.
var CastNameDenylist = map[string]struct{}{
	"INT":        {},
	"EXT":        {},
	"INT/EXT":    {},
	"DAY":        {},
	"NIGHT":      {},
	"MORNING":    {},
	"EVENING":    {},
	"AFTERNOON":  {},
	"DAWN":       {},
	"DUSK":       {},
	"CONTINUOUS": {},
	"LATER":      {},
	"SCENE":      {},
	"SCENES":     {},
	"PAGE":       {},
	"PAGES":      {},
	"CAST":       {},
	"TOTAL":      {},
	"NOTES":      {},
	"LUNCH":      {},
	"MOVE":       {},
}

// TransitionDenylist holds uppercase lines that look like dialogue cues but
// are screenplay transitions or directions.
var TransitionDenylist = map[string]struct{}{
	"FADE IN":      {},
	"FADE OUT":     {},
	"FADE TO":      {},
	"CUT TO":       {},
	"SMASH CUT TO": {},
	"MATCH CUT TO": {},
	"DISSOLVE TO":  {},
	"INTERCUT":     {},
	"CONTINUED":    {},
	"THE END":      {},
	"END":          {},
	"TITLE":        {},
	"SUPER":        {},
	"MONTAGE":      {},
	"BACK TO":      {},
}

// Length bounds for heuristic name candidates.
const (
	MinNameLen = 2
	MaxNameLen = 40
	MaxCueLen  = 30
)

// IsDenylistedName reports whether a candidate cast/character name collides
// with a scene-heading or time-of-day token.
func IsDenylistedName(s string) bool {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.TrimSuffix(key, ":")
	_, ok := CastNameDenylist[key]
	return ok
}

// IsTransition reports whether an uppercase line is a screenplay transition
// rather than a dialogue cue.
func IsTransition(s string) bool {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.TrimSuffix(key, ":")
	key = strings.TrimSuffix(key, ".")
	_, ok := TransitionDenylist[key]
	return ok
}
