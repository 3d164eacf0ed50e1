package mention

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slatecrew/callsheet/internal/entity"
)

func testRoster() entity.Roster {
	return entity.Roster{
		1: {Number: 1, Name: "SARAH CONNOR"},
		2: {Number: 2, Name: "JOHN DOE"},
		4: {Number: 4, Name: "DET. MIKE O'BRIEN"},
	}
}

func TestMentionsFindRosterNames(t *testing.T) {
	m, err := NewRosterMatcher(testRoster())
	require.NoError(t, err)

	got := m.Mentions("Sarah Connor argues with John Doe in the kitchen.")
	require.Equal(t, []int{1, 2}, got)
}

func TestMentionsMatchShortForms(t *testing.T) {
	m, err := NewRosterMatcher(testRoster())
	require.NoError(t, err)

	require.Equal(t, []int{1}, m.Mentions("CONNOR watches from the doorway."))
	require.Equal(t, []int{4}, m.Mentions("O'BRIEN pulls up outside."))
}

func TestMentionsRespectWordBoundaries(t *testing.T) {
	m, err := NewRosterMatcher(entity.Roster{
		1: {Number: 1, Name: "ANNE"},
	})
	require.NoError(t, err)

	require.Empty(t, m.Mentions("ANNETTE enters."))
	require.Equal(t, []int{1}, m.Mentions("ANNE enters."))
}

func TestAmbiguousShortFormsDropped(t *testing.T) {
	m, err := NewRosterMatcher(entity.Roster{
		1: {Number: 1, Name: "JOHN SMITH"},
		2: {Number: 2, Name: "JANE SMITH"},
	})
	require.NoError(t, err)

	// "SMITH" alone could be either member; full names still resolve.
	require.Empty(t, m.Mentions("SMITH enters."))
	require.Equal(t, []int{1}, m.Mentions("JOHN SMITH enters."))
	require.Equal(t, []int{2}, m.Mentions("the letter is addressed to JANE SMITH"))
}

func TestBackfillOnlyFillsEmptyEntries(t *testing.T) {
	m, err := NewRosterMatcher(testRoster())
	require.NoError(t, err)

	scenes := []entity.SceneEntry{
		{SceneNumber: "7", Description: "Sarah Connor burns the photographs", CastNumbers: []int{}},
		{SceneNumber: "8", Description: "John Doe waits in the car", CastNumbers: []int{9}},
	}
	filled := m.Backfill(scenes)
	require.Equal(t, 1, filled)
	require.Equal(t, []int{1}, scenes[0].CastNumbers)
	require.Equal(t, []int{9}, scenes[1].CastNumbers)
}

func TestEmptyRosterMatcherIsInert(t *testing.T) {
	m, err := NewRosterMatcher(entity.Roster{})
	require.NoError(t, err)
	require.Empty(t, m.Mentions("anything at all"))
	require.Zero(t, m.Backfill([]entity.SceneEntry{{SceneNumber: "1"}}))
}
