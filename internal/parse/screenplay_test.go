package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slatecrew/callsheet/internal/entity"
)

const screenplayChunk = `FADE IN:

INT. KITCHEN - DAY

Sarah stands at the counter, staring at the kettle.

SARAH
It's never going to boil.

JOHN (O.S.)
Watched pots and all that.

EXT. BACKYARD - NIGHT

SARAH (V.O.)
I should have left that morning.

CUT TO:

MARCUS
You're still here.
`

func TestScreenplayScenesFromSluglines(t *testing.T) {
	res := Screenplay(screenplayChunk)

	require.Len(t, res.Scenes, 2)
	require.Equal(t, "1", res.Scenes[0].SceneNumber)
	require.Equal(t, entity.Interior, res.Scenes[0].IntExt)
	require.Equal(t, "KITCHEN", res.Scenes[0].Location)
	require.Equal(t, "DAY", res.Scenes[0].TimeOfDay)

	require.Equal(t, "2", res.Scenes[1].SceneNumber)
	require.Equal(t, entity.Exterior, res.Scenes[1].IntExt)
	require.Equal(t, "BACKYARD", res.Scenes[1].Location)
	require.Equal(t, "NIGHT", res.Scenes[1].TimeOfDay)
}

func TestScreenplayUnifiesCueVariants(t *testing.T) {
	res := Screenplay(screenplayChunk)

	var sarah *entity.CharacterRecord
	for i := range res.Characters {
		if res.Characters[i].NormalizedName == "SARAH" {
			sarah = &res.Characters[i]
		}
	}
	require.NotNil(t, sarah)
	require.Equal(t, "Sarah", sarah.Name)
	require.ElementsMatch(t, []string{"SARAH", "SARAH (V.O.)"}, sarah.Variants)
	require.Equal(t, []string{"1", "2"}, sarah.ScenesAppeared)
}

func TestScreenplayRejectsTransitionsAndActionLines(t *testing.T) {
	res := Screenplay(screenplayChunk)

	names := make([]string, 0, len(res.Characters))
	for _, c := range res.Characters {
		names = append(names, c.NormalizedName)
	}
	require.ElementsMatch(t, []string{"SARAH", "JOHN", "MARCUS"}, names)
}

func TestScreenplayCharactersPresentPerScene(t *testing.T) {
	res := Screenplay(screenplayChunk)
	require.ElementsMatch(t, []string{"Sarah", "John"}, res.Scenes[0].CharactersPresent)
	require.ElementsMatch(t, []string{"Sarah", "Marcus"}, res.Scenes[1].CharactersPresent)
}

func TestScreenplayNumberedSluglines(t *testing.T) {
	chunk := strings.Join([]string{
		"12 INT. LAB - NIGHT",
		"",
		"DOCTOR",
		"It lives.",
		"",
		"INT. HALLWAY - NIGHT",
	}, "\n")

	res := Screenplay(chunk)
	require.Len(t, res.Scenes, 2)
	require.Equal(t, "12", res.Scenes[0].SceneNumber)
	// Unnumbered successor continues from the explicit number.
	require.Equal(t, "13", res.Scenes[1].SceneNumber)
}

func TestNormalizeCharacterName(t *testing.T) {
	require.Equal(t, "SARAH", NormalizeCharacterName("SARAH (V.O.)"))
	require.Equal(t, "SARAH", NormalizeCharacterName("  sarah "))
	require.Equal(t, "DET. O'BRIEN", NormalizeCharacterName("DET. O'BRIEN (CONT'D)"))
}
