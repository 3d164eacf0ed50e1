package parse

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/slatecrew/callsheet/constants"
	"github.com/slatecrew/callsheet/internal/entity"
)

var (
	reSlugline = regexp.MustCompile(`^\s*(?:(\d+[A-Z]?)\s+)?(INT/EXT|I/E|INT|EXT)[. ]\s*(.+?)\s*$`)

	// Name-extension parentheticals on dialogue cues: voice-over,
	// off-screen/off-camera, continued.
	reCueExtension = regexp.MustCompile(`\s*\((?:V\.?O\.?|O\.?S\.?|O\.?C\.?|CONT'?D\.?|CONTINUED)\)\s*$`)

	reCueShape = regexp.MustCompile(`^[A-Z][A-Z0-9 .'\-]*$`)

	titleCaser = cases.Title(language.English)
)

// ScreenplayResult is the deterministic output for one screenplay chunk.
type ScreenplayResult struct {
	Scenes     []entity.SceneRecord
	Characters []entity.CharacterRecord
}

// Screenplay parses a screenplay chunk: sluglines open scenes, short
// fully-uppercase lines are dialogue cues. Cues unify across extension
// parentheticals, so "SARAH (V.O.)" and "SARAH (CONT'D)" are one character.
func Screenplay(chunk string) ScreenplayResult {
	var res ScreenplayResult
	chars := map[string]*entity.CharacterRecord{} // keyed by normalized name
	var charOrder []string
	sceneSeen := map[string]struct{}{}
	autoNumber := 0

	currentIdx := -1 // index into res.Scenes; -1 before the first slugline
	presentSeen := map[string]struct{}{}

	for _, raw := range strings.Split(chunk, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := reSlugline.FindStringSubmatch(line); m != nil {
			num := m[1]
			if num == "" {
				autoNumber++
				num = strconv.Itoa(autoNumber)
			} else if n, err := strconv.Atoi(strings.TrimRight(num, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")); err == nil && n > autoNumber {
				autoNumber = n
			}
			if _, dup := sceneSeen[num]; dup {
				currentIdx = -1
				continue
			}
			sceneSeen[num] = struct{}{}

			loc, tod := splitSlugline(m[3])
			res.Scenes = append(res.Scenes, entity.SceneRecord{
				SceneNumber:       num,
				Slugline:          line,
				IntExt:            normalizeIntExt(m[2]),
				Location:          loc,
				TimeOfDay:         tod,
				CharactersPresent: []string{},
			})
			currentIdx = len(res.Scenes) - 1
			presentSeen = map[string]struct{}{}
			continue
		}

		name, ok := dialogueCue(line)
		if !ok {
			continue
		}
		norm := NormalizeCharacterName(name)

		rec, exists := chars[norm]
		if !exists {
			rec = &entity.CharacterRecord{
				Name:           titleCaser.String(strings.ToLower(norm)),
				NormalizedName: norm,
			}
			chars[norm] = rec
			charOrder = append(charOrder, norm)
		}
		addVariant(rec, line)

		if currentIdx >= 0 {
			scene := &res.Scenes[currentIdx]
			if _, dup := presentSeen[norm]; !dup {
				presentSeen[norm] = struct{}{}
				scene.CharactersPresent = append(scene.CharactersPresent, rec.Name)
			}
			addScene(rec, scene.SceneNumber)
		}
	}

	// Flatten the map in first-seen order.
	for _, norm := range charOrder {
		res.Characters = append(res.Characters, *chars[norm])
	}
	return res
}

// dialogueCue recognizes a dialogue cue: short, fully uppercase, not a
// transition and not a slugline. Returns the cue with extensions stripped.
func dialogueCue(line string) (string, bool) {
	if reSlugline.MatchString(line) {
		return "", false
	}
	stripped := strings.TrimSpace(reCueExtension.ReplaceAllString(line, ""))
	if len(stripped) < constants.MinNameLen || len(stripped) > constants.MaxCueLen {
		return "", false
	}
	if constants.IsTransition(stripped) || constants.IsDenylistedName(stripped) {
		return "", false
	}
	if !reCueShape.MatchString(stripped) {
		return "", false
	}
	// Cues have no lowercase letters at all; reCueShape already enforces
	// the allowed alphabet, this rejects mixed-case action lines.
	if strings.ToUpper(stripped) != stripped {
		return "", false
	}
	return stripped, true
}

// NormalizeCharacterName canonicalizes a cue for identity comparison:
// extensions stripped, whitespace collapsed, uppercase.
func NormalizeCharacterName(name string) string {
	s := reCueExtension.ReplaceAllString(strings.TrimSpace(name), "")
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToUpper(s)
}

func addVariant(rec *entity.CharacterRecord, surface string) {
	surface = strings.TrimSpace(surface)
	for _, v := range rec.Variants {
		if v == surface {
			return
		}
	}
	rec.Variants = append(rec.Variants, surface)
}

func addScene(rec *entity.CharacterRecord, sceneNumber string) {
	for _, s := range rec.ScenesAppeared {
		if s == sceneNumber {
			return
		}
	}
	rec.ScenesAppeared = append(rec.ScenesAppeared, sceneNumber)
}
