package llm

import (
	"fmt"
	"strings"
)

// maxChunkChars bounds how much chunk text one request carries.
const maxChunkChars = 8000

// BuildSystemPrompt composes the system message: strict JSON, schema shape,
// and the disambiguation rules the deterministic parser also follows.
func BuildSystemPrompt() string {
	parts := []string{
		"You are a production shooting-schedule parser. Return ONLY one JSON object that matches the provided JSON Schema.",
		"The object has a single key 'scenes', an array of scene entries in the order they appear.",
		"scene_number is an alphanumeric identifier like '7' or '4A'. A comma-separated list of numbers such as '1, 2, 4, 7' is NEVER a scene number; it is a cast_numbers list.",
		"int_ext must be exactly 'INT' or 'EXT'.",
		"day_night is a story-day marker like 'D5' or 'N8' when present, otherwise a label like 'DAY' or 'NIGHT'.",
		"cast_numbers are integers referencing the cast list; use the exact numbers printed in the schedule.",
		"Never output null. If a field is not present, omit it.",
		"No markdown, no explanation. Start with { and end with }.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the chunk with the known roster so the service
// reuses exact canonical names instead of inventing spellings.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	if req.DayNumber > 0 {
		fmt.Fprintf(&b, "Shooting day %d.\n", req.DayNumber)
	}
	if len(req.Roster) > 0 {
		b.WriteString("KNOWN CAST (number. name, use these exact names and numbers):\n")
		b.WriteString(strings.Join(req.Roster, "\n"))
		b.WriteString("\n\n")
	}

	b.WriteString("Schedule text:\n")
	text := req.ChunkText
	if len(text) > maxChunkChars {
		b.WriteString(text[:maxChunkChars])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	b.WriteString("\n\nReturn ONLY JSON that matches the provided schema.")
	return b.String()
}

// RosterLines renders "N. NAME" reference lines for the prompt.
func RosterLines(names map[int]string) []string {
	if len(names) == 0 {
		return nil
	}
	max := 0
	for n := range names {
		if n > max {
			max = n
		}
	}
	out := make([]string, 0, len(names))
	for n := 1; n <= max; n++ {
		if name, ok := names[n]; ok {
			out = append(out, fmt.Sprintf("%d. %s", n, name))
		}
	}
	return out
}
