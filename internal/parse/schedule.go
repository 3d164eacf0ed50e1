package parse

import (
	"regexp"
	"strings"

	"github.com/slatecrew/callsheet/internal/entity"
)

// DayResult is everything the deterministic parser recovers from one day
// block. Scenes is the required output; the rest is best-effort metadata.
type DayResult struct {
	Scenes     []entity.SceneEntry
	Date       string
	DayOfWeek  string
	Location   string
	Sunrise    string
	Sunset     string
	TotalPages string
	Notes      []string
}

var (
	reDate    = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2,4})\b`)
	reWeekday = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	reSunrise = regexp.MustCompile(`(?i)sunrise\s*:?\s*(\d{1,2}:\d{2}(?:\s*(?:AM|PM))?)`)
	reSunset  = regexp.MustCompile(`(?i)sunset\s*:?\s*(\d{1,2}:\d{2}(?:\s*(?:AM|PM))?)`)
	reTotalPg = regexp.MustCompile(`(?i)total\s*:?\s*(\d+(?:\s+\d/\d)?)\s*(?:pgs?|pages?)`)
	reNote    = regexp.MustCompile(`(?i)^\s*(?:note|nb)\s*:?\s*(.+)$`)

	// A stacked-format header opens with the literal "scene" label (no digit
	// immediately after it) and carries an INT/EXT token further on.
	reStackedHeader = regexp.MustCompile(`(?i)^\s*scene\b[^0-9]`)
)

// Day parses one day block into scene entries plus day-level metadata.
// Scene numbers are deduplicated by first occurrence; ShootOrder follows
// parse order and is strictly increasing.
func Day(block string) DayResult {
	var res DayResult
	lines := strings.Split(block, "\n")
	seen := make(map[string]struct{})

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}

		res.absorbMetadata(line)

		// Stacked two-row form first: its header would also superficially
		// satisfy the single-line INT/EXT check.
		if i+1 < len(lines) && isStackedHeader(line) {
			if entry, ok := parseStackedPair(line, lines[i+1]); ok {
				res.appendScene(entry, seen)
				i++
				continue
			}
		}

		if entry, ok := parseSingleLine(line); ok {
			res.appendScene(entry, seen)
		}
	}
	return res
}

func (r *DayResult) appendScene(entry entity.SceneEntry, seen map[string]struct{}) {
	if _, dup := seen[entry.SceneNumber]; dup {
		return
	}
	seen[entry.SceneNumber] = struct{}{}
	entry.ShootOrder = len(r.Scenes) + 1
	r.Scenes = append(r.Scenes, entry)
}

func (r *DayResult) absorbMetadata(line string) {
	if r.Date == "" {
		if m := reDate.FindStringSubmatch(line); m != nil {
			r.Date = m[1]
		}
	}
	if r.DayOfWeek == "" {
		if m := reWeekday.FindStringSubmatch(line); m != nil {
			r.DayOfWeek = strings.ToUpper(m[1][:1]) + strings.ToLower(m[1][1:])
		}
	}
	if r.Sunrise == "" {
		if m := reSunrise.FindStringSubmatch(line); m != nil {
			r.Sunrise = m[1]
		}
	}
	if r.Sunset == "" {
		if m := reSunset.FindStringSubmatch(line); m != nil {
			r.Sunset = m[1]
		}
	}
	if r.TotalPages == "" {
		if m := reTotalPg.FindStringSubmatch(line); m != nil {
			r.TotalPages = m[1]
		}
	}
	if m := reNote.FindStringSubmatch(line); m != nil {
		note := strings.TrimSpace(m[1])
		for _, existing := range r.Notes {
			if existing == note {
				return
			}
		}
		r.Notes = append(r.Notes, note)
	}
}

// isStackedHeader detects the header row of the two-row rendering: opens
// with the "scene" label (no digit immediately after) and contains INT/EXT.
func isStackedHeader(line string) bool {
	if !reStackedHeader.MatchString(line) {
		return false
	}
	_, ok := intExtToken(line)
	return ok
}

// parseStackedPair combines a header row (column labels interleaved with
// INT/EXT, location, "Est. Time" label) with the following value row (scene
// number first, then pages, day/night, description, time, story-day) in the
// same column order.
func parseStackedPair(header, value string) (entity.SceneEntry, bool) {
	valueCells := splitCells(value)
	if len(valueCells) == 0 {
		return entity.SceneEntry{}, false
	}
	// The value row must open with a bare identifier that is not a
	// comma-separated cast list.
	first := valueCells[0]
	if IsCastList(first) || !IsSceneNumber(first) {
		return entity.SceneEntry{}, false
	}

	entry := entity.SceneEntry{SceneNumber: first}

	ie, _ := intExtToken(header)
	entry.IntExt = normalizeIntExt(ie)
	entry.SetLocation = headerLocation(header)

	classifyCells(&entry, valueCells[1:])
	if entry.DayNight == "" {
		// Header sometimes carries the day/night column value too.
		for _, c := range splitCells(header) {
			if reStoryDay.MatchString(c) || reDayNight.MatchString(c) {
				entry.DayNight = strings.ToUpper(c)
				break
			}
		}
	}
	return entry, true
}

// headerLocation pulls the uppercase location run out of a stacked header,
// skipping the label words and the INT/EXT token itself.
func headerLocation(header string) string {
	var parts []string
	for _, cell := range splitCells(header) {
		c := reIntExt.ReplaceAllString(cell, "")
		c = strings.Trim(c, " .-")
		if c == "" {
			continue
		}
		up := strings.ToUpper(c)
		if strings.HasPrefix(up, "SCENE") || strings.HasPrefix(up, "EST") ||
			strings.HasPrefix(up, "CAST") || strings.HasPrefix(up, "PG") ||
			strings.HasPrefix(up, "PAGE") || strings.HasPrefix(up, "D/N") ||
			strings.HasPrefix(up, "TIME") {
			continue
		}
		if isUpperDominant(c) {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// parseSingleLine recognizes the one-row rendering: all fields on a single
// line in varying order, identified by field-specific patterns.
func parseSingleLine(line string) (entity.SceneEntry, bool) {
	if _, ok := intExtToken(line); !ok {
		return entity.SceneEntry{}, false
	}
	cells := splitCells(line)
	if len(cells) < 2 {
		cells = sluglineCells(line)
	}
	if len(cells) == 0 {
		return entity.SceneEntry{}, false
	}

	var entry entity.SceneEntry

	// The scene identifier must stand alone in its cell (the row-level
	// analogue of "alone on its line") or immediately precede the page
	// marker, and must not have the comma-list shape.
	for i, c := range cells {
		if IsCastList(c) {
			continue
		}
		if IsSceneNumber(c) {
			followedByPages := i+1 < len(cells) && rePages.MatchString(cells[i+1])
			if i == 0 || followedByPages {
				entry.SceneNumber = c
				cells = append(cells[:i], cells[i+1:]...)
				break
			}
		}
	}
	if entry.SceneNumber == "" {
		return entity.SceneEntry{}, false
	}

	classifyCells(&entry, cells)
	if entry.IntExt == "" {
		ie, _ := intExtToken(line)
		entry.IntExt = normalizeIntExt(ie)
	}
	return entry, true
}

// sluglineCells handles rows whose layout collapsed into one cell, e.g.
// "4A  INT. KITCHEN - DAY  1, 2  3/8 pgs" arriving as plain text.
func sluglineCells(line string) []string {
	return splitCells(reMultiSpace.ReplaceAllString(strings.TrimSpace(line), "\t"))
}

// classifyCells assigns remaining cells to fields by pattern, an ordered
// cascade per cell: story-day, generic day/night, pages, estimated time,
// cast list, INT/EXT + location, then free-text description.
func classifyCells(entry *entity.SceneEntry, cells []string) {
	var descParts []string
	for _, c := range cells {
		switch {
		case reStoryDay.MatchString(c):
			entry.DayNight = c
		case reDayNight.MatchString(c):
			if entry.DayNight == "" {
				entry.DayNight = strings.ToUpper(c)
			}
		case rePages.MatchString(c):
			if entry.Pages == "" {
				entry.Pages = strings.TrimSpace(c)
			}
		case reEstTime.MatchString(c):
			if entry.EstimatedTime == "" {
				entry.EstimatedTime = c
			}
		case IsCastList(c) || reCastLabel.MatchString(c):
			if nums := CastNumbers(c); nums != nil {
				entry.CastNumbers = append(entry.CastNumbers, nums...)
			}
		case hasIntExtPrefix(c):
			ie, _ := intExtToken(c)
			entry.IntExt = normalizeIntExt(ie)
			loc, dn := splitSlugline(c)
			if entry.SetLocation == "" {
				entry.SetLocation = loc
			}
			if entry.DayNight == "" && dn != "" {
				entry.DayNight = dn
			}
		case entry.Pages == "" && rePagesTail.MatchString(c):
			entry.Pages = strings.TrimSpace(rePagesTail.FindStringSubmatch(c)[1])
		case isUpperDominant(c) && len(c) >= 3 && entry.SetLocation == "":
			entry.SetLocation = c
		default:
			// A lone integer after the scene number is a one-member cast
			// reference; anything else is description text.
			if nums := CastNumbers(c); nums != nil && len(c) <= 3 {
				entry.CastNumbers = append(entry.CastNumbers, nums...)
			} else {
				descParts = append(descParts, c)
			}
		}
	}
	if len(descParts) > 0 {
		entry.Description = strings.Join(descParts, " ")
	}
	if entry.CastNumbers == nil {
		entry.CastNumbers = []int{}
	}
}

func hasIntExtPrefix(s string) bool {
	up := strings.ToUpper(strings.TrimSpace(s))
	return strings.HasPrefix(up, "INT") || strings.HasPrefix(up, "EXT") || strings.HasPrefix(up, "I/E")
}

// splitSlugline splits "INT. KITCHEN - DAY" into location and day/night.
func splitSlugline(s string) (string, string) {
	s = reIntExt.ReplaceAllString(s, "")
	s = strings.Trim(s, " .-")
	for _, sep := range []string{" - ", " – ", "-"} {
		if idx := strings.LastIndex(s, sep); idx > 0 {
			tail := strings.TrimSpace(s[idx+len(sep):])
			if reDayNight.MatchString(tail) || reStoryDay.MatchString(tail) {
				return strings.TrimSpace(s[:idx]), strings.ToUpper(tail)
			}
		}
	}
	return s, ""
}

func normalizeIntExt(s string) entity.IntExt {
	up := strings.ToUpper(s)
	if strings.HasPrefix(up, "EXT") {
		return entity.Exterior
	}
	if up != "" {
		return entity.Interior
	}
	return ""
}
