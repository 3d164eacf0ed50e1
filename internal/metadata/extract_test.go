package metadata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const scheduleHead = `BLACKBIRD - SHOOTING SCHEDULE

CAST LIST
1. SARAH CONNOR
2. JOHN DOE
4. DET. MIKE O'BRIEN

Day 1 - Monday 3/4/24
7 INT KITCHEN
End of Day 1
Day 2
8 EXT STREET
End of Day 2
End of Shooting Day 3
`

func TestExtractRoster(t *testing.T) {
	res := Extract(scheduleHead)

	require.Len(t, res.Roster, 3)
	require.Equal(t, "SARAH CONNOR", res.Roster[1].Name)
	require.Equal(t, "JOHN DOE", res.Roster[2].Name)
	require.Equal(t, "DET. MIKE O'BRIEN", res.Roster[4].Name)
	require.Equal(t, "BLACKBIRD - SHOOTING SCHEDULE", res.Title)
}

func TestExtractCountsUniqueEndOfDayMarkers(t *testing.T) {
	res := Extract(scheduleHead)
	require.Equal(t, 3, res.TotalDays)
}

func TestExtractDayHeaderFallback(t *testing.T) {
	text := "Day 1\nstuff\nDay 2\nmore\nDay 2\nrepeat"
	res := Extract(text)
	require.Equal(t, 2, res.TotalDays)
}

func TestExtractDenylistedNamesRejected(t *testing.T) {
	text := "TITLE\n1. INT\n2. TOTAL\n3. SARAH\n"
	res := Extract(text)
	require.Len(t, res.Roster, 1)
	require.Equal(t, "SARAH", res.Roster[3].Name)
}

func TestExtractTabularRoster(t *testing.T) {
	text := "TITLE\n1\tSARAH CONNOR\n2\tJOHN DOE\n"
	res := Extract(text)
	require.Len(t, res.Roster, 2)
	require.Equal(t, "SARAH CONNOR", res.Roster[1].Name)
}

func TestExtractCastSectionBlock(t *testing.T) {
	text := strings.Join([]string{
		"TITLE",
		"CAST",
		"1  SARAH CONNOR",
		"2  JOHN DOE",
		"",
		"5  NOT A CAST LINE ANYMORE",
	}, "\n")
	res := Extract(text)
	require.Contains(t, res.Roster, 1)
	require.Contains(t, res.Roster, 2)
	require.NotContains(t, res.Roster, 5)
}

func TestExtractEmptyTextIsNotAnError(t *testing.T) {
	res := Extract("")
	require.Empty(t, res.Roster)
	require.Zero(t, res.TotalDays)
}

func TestExtractFirstWriterWinsPerNumber(t *testing.T) {
	text := "TITLE\n1. SARAH CONNOR\n1. SOMEBODY ELSE\n"
	res := Extract(text)
	require.Equal(t, "SARAH CONNOR", res.Roster[1].Name)
}
