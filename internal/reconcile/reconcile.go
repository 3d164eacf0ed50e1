// Package reconcile merges the deterministic parser's output with the
// AI-assisted extractor's output for the same span of schedule text.
package reconcile

import (
	"log/slog"
	"sort"
	"strconv"

	"github.com/slatecrew/callsheet/internal/entity"
	"github.com/slatecrew/callsheet/internal/llm"
)

// Source names which extractor won a reconciliation.
type Source string

const (
	SourceDeterministic Source = "deterministic"
	SourceAI            Source = "ai"
)

// Policy decides between competing extractions. Counting found entries is the
// whole heuristic: the deterministic parser never fabricates, so when the AI
// finds strictly more scenes it has read rows the regex cascade missed. Ties
// go to the deterministic side, whose field classification is exact.
type Policy struct {
	Log *slog.Logger
}

func NewPolicy(logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Policy{Log: logger}
}

// Choose returns the winning scene list for one day.
func (p *Policy) Choose(dayNumber int, det, ai []entity.SceneEntry) ([]entity.SceneEntry, Source) {
	winner, source := det, SourceDeterministic
	if len(ai) > len(det) {
		winner, source = ai, SourceAI
	}
	p.Log.Info("reconcile.choose",
		"day", dayNumber,
		"deterministic_scenes", len(det),
		"ai_scenes", len(ai),
		"winner", string(source),
	)
	return winner, source
}

// Merge folds an incoming scene list into an existing one: first occurrence
// of a scene number wins, order is normalized by scene identifier so repeated
// merges are deterministic regardless of arrival order. ShootOrder is
// reassigned to match the merged order.
func Merge(existing, incoming []entity.SceneEntry) []entity.SceneEntry {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]entity.SceneEntry, 0, len(existing)+len(incoming))
	for _, list := range [][]entity.SceneEntry{existing, incoming} {
		for _, s := range list {
			if _, dup := seen[s.SceneNumber]; dup {
				continue
			}
			seen[s.SceneNumber] = struct{}{}
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lessSceneNumber(out[i].SceneNumber, out[j].SceneNumber)
	})
	for i := range out {
		out[i].ShootOrder = i + 1
	}
	return out
}

// FromExtraction converts AI output into schedule entries, assigning shoot
// order by position.
func FromExtraction(ex llm.DayExtraction) []entity.SceneEntry {
	out := make([]entity.SceneEntry, 0, len(ex.Scenes))
	for i, s := range ex.Scenes {
		out = append(out, entity.SceneEntry{
			SceneNumber:   s.SceneNumber,
			Pages:         s.Pages,
			IntExt:        entity.IntExt(s.IntExt),
			DayNight:      s.DayNight,
			SetLocation:   s.SetLocation,
			Description:   s.Description,
			CastNumbers:   append([]int(nil), s.CastNumbers...),
			EstimatedTime: s.EstimatedTime,
			ShootOrder:    i + 1,
		})
	}
	return out
}

// lessSceneNumber orders "4" < "4A" < "6" < "10": numeric prefix first,
// letter suffix second, falling back to plain string order for odd shapes.
func lessSceneNumber(a, b string) bool {
	an, as := splitSceneNumber(a)
	bn, bs := splitSceneNumber(b)
	if an != bn {
		return an < bn
	}
	if as != bs {
		return as < bs
	}
	return a < b
}

func splitSceneNumber(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 1 << 30, s
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 1 << 30, s
	}
	return n, s[i:]
}
