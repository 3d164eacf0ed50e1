package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slatecrew/callsheet/internal/entity"
	"github.com/slatecrew/callsheet/internal/llm"
)

func mkScenes(nums ...string) []entity.SceneEntry {
	out := make([]entity.SceneEntry, len(nums))
	for i, n := range nums {
		out[i] = entity.SceneEntry{SceneNumber: n, ShootOrder: i + 1}
	}
	return out
}

func TestChooseLargerCountWins(t *testing.T) {
	p := NewPolicy(nil)

	det := mkScenes("7", "8", "9")
	ai := mkScenes("6", "7", "8", "9", "10")

	got, source := p.Choose(1, det, ai)
	require.Equal(t, SourceAI, source)
	require.Len(t, got, 5)
}

func TestChooseTieGoesToDeterministic(t *testing.T) {
	p := NewPolicy(nil)

	det := mkScenes("7", "8")
	ai := mkScenes("7", "9")

	got, source := p.Choose(1, det, ai)
	require.Equal(t, SourceDeterministic, source)
	require.Equal(t, det, got)
}

func TestChooseEmptyDeterministicAcceptsAI(t *testing.T) {
	p := NewPolicy(nil)

	got, source := p.Choose(1, nil, mkScenes("7"))
	require.Equal(t, SourceAI, source)
	require.Len(t, got, 1)
}

func TestChooseBothEmpty(t *testing.T) {
	p := NewPolicy(nil)
	got, source := p.Choose(1, nil, nil)
	require.Equal(t, SourceDeterministic, source)
	require.Empty(t, got)
}

func TestMergeFirstOccurrenceWins(t *testing.T) {
	existing := []entity.SceneEntry{
		{SceneNumber: "7", Description: "kept"},
	}
	incoming := []entity.SceneEntry{
		{SceneNumber: "7", Description: "discarded"},
		{SceneNumber: "4A", Description: "new"},
	}

	got := Merge(existing, incoming)
	require.Len(t, got, 2)
	require.Equal(t, "4A", got[0].SceneNumber)
	require.Equal(t, "7", got[1].SceneNumber)
	require.Equal(t, "kept", got[1].Description)
	require.Equal(t, 1, got[0].ShootOrder)
	require.Equal(t, 2, got[1].ShootOrder)
}

func TestMergeOrdersBySceneIdentifier(t *testing.T) {
	got := Merge(mkScenes("10", "4A", "4", "6"), nil)
	nums := make([]string, len(got))
	for i, s := range got {
		nums[i] = s.SceneNumber
	}
	require.Equal(t, []string{"4", "4A", "6", "10"}, nums)
}

func TestFromExtraction(t *testing.T) {
	ex := llm.DayExtraction{Scenes: []llm.SceneFields{
		{SceneNumber: "7", IntExt: "INT", CastNumbers: []int{1, 2}},
		{SceneNumber: "8", IntExt: "EXT"},
	}}

	got := FromExtraction(ex)
	require.Len(t, got, 2)
	require.Equal(t, entity.Interior, got[0].IntExt)
	require.Equal(t, []int{1, 2}, got[0].CastNumbers)
	require.Equal(t, 1, got[0].ShootOrder)
	require.Equal(t, entity.Exterior, got[1].IntExt)
	require.Equal(t, 2, got[1].ShootOrder)
}
