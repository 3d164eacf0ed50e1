package llm

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// NormalizeDayJSON
// - Renames known synonyms (sceneNumber -> scene_number, cast -> cast_numbers)
// - Coerces numeric scene numbers to strings and stringy cast lists to ints
// - Uppercases and trims int_ext ("int." -> "INT")
// - Drops null/empty optionals and unknown keys (additionalProperties = false friendliness)
func NormalizeDayJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var doc map[string]any
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var dropped []string

	// The scenes array may arrive under a synonym.
	for _, syn := range []string{"entries", "scene_entries", "sceneList", "scene_list"} {
		if v, ok := doc[syn]; ok {
			if _, exists := doc["scenes"]; !exists {
				doc["scenes"] = v
			}
			delete(doc, syn)
			dropped = append(dropped, syn+"->scenes")
		}
	}
	for k := range doc {
		if k != "scenes" {
			delete(doc, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	rawScenes, _ := doc["scenes"].([]any)
	scenes := make([]any, 0, len(rawScenes))
	for i, item := range rawScenes {
		m, ok := item.(map[string]any)
		if !ok {
			dropped = append(dropped, fmt.Sprintf("scenes[%d](type)", i))
			continue
		}
		cleaned, d := normalizeScene(m)
		dropped = append(dropped, prefix(d, fmt.Sprintf("scenes[%d].", i))...)
		if cleaned != nil {
			scenes = append(scenes, cleaned)
		} else {
			dropped = append(dropped, fmt.Sprintf("scenes[%d](no scene_number)", i))
		}
	}
	doc["scenes"] = scenes

	out, err := sonic.Marshal(doc)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

// sceneKeySynonyms is ordered: when two synonyms for the same target key are
// both present, the earlier one wins.
var sceneKeySynonyms = []struct{ from, to string }{
	{"sceneNumber", "scene_number"},
	{"scene", "scene_number"},
	{"number", "scene_number"},
	{"intExt", "int_ext"},
	{"interior_exterior", "int_ext"},
	{"dayNight", "day_night"},
	{"time_of_day", "day_night"},
	{"location", "set_location"},
	{"set", "set_location"},
	{"setLocation", "set_location"},
	{"cast", "cast_numbers"},
	{"castNumbers", "cast_numbers"},
	{"cast_ids", "cast_numbers"},
	{"page_count", "pages"},
	{"estimatedTime", "estimated_time"},
	{"est_time", "estimated_time"},
}

var sceneKnownKeys = map[string]struct{}{
	"scene_number": {}, "pages": {}, "int_ext": {}, "day_night": {},
	"set_location": {}, "description": {}, "cast_numbers": {}, "estimated_time": {},
}

func normalizeScene(m map[string]any) (map[string]any, []string) {
	var dropped []string

	for _, syn := range sceneKeySynonyms {
		if v, ok := m[syn.from]; ok {
			if _, exists := m[syn.to]; !exists {
				m[syn.to] = v
			}
			delete(m, syn.from)
			dropped = append(dropped, syn.from+"->"+syn.to)
		}
	}
	for k := range m {
		if _, ok := sceneKnownKeys[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	// scene_number: coerce numbers, reject comma lists (those are cast).
	switch v := m["scene_number"].(type) {
	case float64:
		m["scene_number"] = strconv.Itoa(int(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" || strings.Contains(s, ",") {
			return nil, dropped
		}
		m["scene_number"] = strings.ToUpper(s)
	default:
		return nil, dropped
	}

	// int_ext: normalize to the two-value enum.
	if v, ok := m["int_ext"].(string); ok {
		up := strings.ToUpper(strings.Trim(strings.TrimSpace(v), "."))
		switch {
		case strings.HasPrefix(up, "EXT"):
			m["int_ext"] = "EXT"
		case strings.HasPrefix(up, "INT") || strings.HasPrefix(up, "I/E"):
			m["int_ext"] = "INT"
		default:
			delete(m, "int_ext")
			dropped = append(dropped, "int_ext(value)")
		}
	}
	if _, ok := m["int_ext"]; !ok {
		// Required by the schema; default interior rather than losing the
		// whole entry over a missing label.
		m["int_ext"] = "INT"
		dropped = append(dropped, "int_ext(defaulted)")
	}

	// cast_numbers: accept arrays of numbers or strings, or one "1, 2, 4"
	// string, always landing on unique positive ints.
	if v, ok := m["cast_numbers"]; ok {
		nums := coerceCastNumbers(v)
		if nums == nil {
			delete(m, "cast_numbers")
			dropped = append(dropped, "cast_numbers(type)")
		} else {
			m["cast_numbers"] = nums
		}
	}

	// Optionals: trim strings, drop null/empty.
	for _, k := range []string{"pages", "day_night", "set_location", "description", "estimated_time"} {
		switch v := m[k].(type) {
		case nil:
			if _, present := m[k]; present {
				delete(m, k)
				dropped = append(dropped, k+"(null)")
			}
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		case float64:
			m[k] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			if _, present := m[k]; present {
				delete(m, k)
				dropped = append(dropped, k+"(type)")
			}
		}
	}

	return m, dropped
}

func coerceCastNumbers(v any) []int {
	appendNum := func(out []int, seen map[int]struct{}, n int) []int {
		if n <= 0 || n > 999 {
			return out
		}
		if _, dup := seen[n]; dup {
			return out
		}
		seen[n] = struct{}{}
		return append(out, n)
	}

	seen := map[int]struct{}{}
	out := []int{}
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			switch n := e.(type) {
			case float64:
				out = appendNum(out, seen, int(n))
			case string:
				if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
					out = appendNum(out, seen, i)
				}
			}
		}
	case string:
		for _, part := range strings.Split(t, ",") {
			if i, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				out = appendNum(out, seen, i)
			}
		}
	case float64:
		out = appendNum(out, seen, int(t))
	default:
		return nil
	}
	return out
}

func prefix(items []string, p string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = p + s
	}
	return out
}
