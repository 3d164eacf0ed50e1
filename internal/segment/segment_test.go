package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDaysSplitsOnEndOfDayMarkers(t *testing.T) {
	text := strings.Join([]string{
		"Day 1",
		"7 INT KITCHEN",
		"End of Day 1",
		"Day 2",
		"8 EXT STREET",
		"End of Day 2",
	}, "\n")

	blocks := Days(text)
	require.Len(t, blocks, 2)
	require.Equal(t, 1, blocks[0].DayNumber)
	require.Equal(t, 2, blocks[1].DayNumber)
	require.Contains(t, blocks[0].Text, "KITCHEN")
	require.NotContains(t, blocks[0].Text, "STREET")
	require.Contains(t, blocks[1].Text, "STREET")
}

func TestDaysHeaderFallback(t *testing.T) {
	text := strings.Join([]string{
		"Day 1",
		"7 INT KITCHEN",
		"Day 2",
		"8 EXT STREET",
	}, "\n")

	blocks := Days(text)
	require.Len(t, blocks, 2)
	require.Equal(t, 1, blocks[0].DayNumber)
	require.Equal(t, 2, blocks[1].DayNumber)
}

func TestDaysBlocksEndAtMarkers(t *testing.T) {
	text := "Day 1\naaa\nEnd of Day 1\nDay 2\nbbb\nEnd of Day 2"
	blocks := Days(text)
	require.Len(t, blocks, 2)
	require.NotContains(t, blocks[0].Text, "Day 2", "a block must not leak into its successor")
	require.NotContains(t, blocks[0].Text, "bbb")
	require.NotContains(t, blocks[1].Text, "aaa")
}

func TestDaysSingleBlockWhenNoMarkers(t *testing.T) {
	blocks := Days("just some text\nno days here")
	require.Len(t, blocks, 1)
	require.Equal(t, 1, blocks[0].DayNumber)
}

func TestDaysUnnumberedBlockGetsNextNumber(t *testing.T) {
	text := "prologue text\nEnd of Day 3\nmore text\nEnd of Day 4"
	blocks := Days(text)
	require.Len(t, blocks, 2)
	require.Equal(t, 3, blocks[0].DayNumber)
	require.Equal(t, 4, blocks[1].DayNumber)
}

func TestChunksRespectSizeBound(t *testing.T) {
	text := strings.Repeat("some action line about nothing in particular\n", 400)
	cfg := Config{ChunkSize: 2000, Overlap: 100, Lookback: 300}

	chunks := Chunks(text, cfg)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks[:len(chunks)-1] {
		require.LessOrEqual(t, len(c.Text), cfg.ChunkSize+cfg.Overlap)
	}
}

func TestChunksCutAtSceneHeading(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("action line filler text for the first scene goes here\n")
	}
	b.WriteString("INT. KITCHEN - DAY\n")
	for i := 0; i < 40; i++ {
		b.WriteString("second scene action filler text continues down the page\n")
	}
	text := b.String()

	cfg := Config{ChunkSize: len(text) - 200, Overlap: 0, Lookback: len(text)}
	chunks := Chunks(text, cfg)
	require.Len(t, chunks, 2)
	require.True(t, strings.HasPrefix(chunks[1].Text, "INT. KITCHEN"))
}

func TestChunksCoverWholeText(t *testing.T) {
	text := strings.Repeat("x", 5000)
	chunks := Chunks(text, Config{ChunkSize: 1200, Overlap: 50, Lookback: 200})
	require.NotEmpty(t, chunks)
	require.True(t, strings.HasSuffix(chunks[len(chunks)-1].Text, "x"))

	total := 0
	for _, c := range chunks {
		total += len(c.Text)
	}
	require.GreaterOrEqual(t, total, len(text))
}
