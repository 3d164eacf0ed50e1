package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRosterLinesSortedByNumber(t *testing.T) {
	lines := RosterLines(map[int]string{
		7: "ELENA VASQUEZ",
		1: "SARAH CONNOR",
		4: "MARCUS WEBB",
	})
	require.Equal(t, []string{
		"1. SARAH CONNOR",
		"4. MARCUS WEBB",
		"7. ELENA VASQUEZ",
	}, lines)

	require.Nil(t, RosterLines(nil))
}

func TestBuildUserPromptEmbedsRosterAndChunk(t *testing.T) {
	got := BuildUserPrompt(ExtractRequest{
		ChunkText: "4A INT KITCHEN",
		DayNumber: 3,
		Roster:    []string{"1. SARAH CONNOR"},
	})
	require.Contains(t, got, "Shooting day 3.")
	require.Contains(t, got, "1. SARAH CONNOR")
	require.Contains(t, got, "4A INT KITCHEN")
}

func TestBuildUserPromptTruncatesLongChunks(t *testing.T) {
	got := BuildUserPrompt(ExtractRequest{ChunkText: strings.Repeat("x", maxChunkChars+500)})
	require.Less(t, len(got), maxChunkChars+400)
	require.Contains(t, got, "truncated")
}

func TestBuildSystemPromptStatesDisambiguationRule(t *testing.T) {
	got := BuildSystemPrompt()
	require.Contains(t, got, "NEVER a scene number")
	require.Contains(t, got, "'INT' or 'EXT'")
}
