package llm

import (
	"errors"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/slatecrew/callsheet/internal/common"
)

func decodeScenes(t *testing.T, data []byte) DayExtraction {
	t.Helper()
	var out DayExtraction
	require.NoError(t, sonic.Unmarshal(data, &out))
	return out
}

func TestRepairPassesValidJSONThrough(t *testing.T) {
	in := `{"scenes":[{"scene_number":"7","int_ext":"INT"}]}`
	out, err := Repair([]byte(in))
	require.NoError(t, err)
	require.JSONEq(t, in, string(out))
}

func TestRepairStripsMarkdownFences(t *testing.T) {
	in := "```json\n{\"scenes\":[{\"scene_number\":\"7\",\"int_ext\":\"INT\"}]}\n```"
	out, err := Repair([]byte(in))
	require.NoError(t, err)
	require.Len(t, decodeScenes(t, out).Scenes, 1)
}

func TestRepairSlicesSurroundingProse(t *testing.T) {
	in := `Here is the result you asked for: {"scenes":[]} Hope that helps!`
	out, err := Repair([]byte(in))
	require.NoError(t, err)
	require.JSONEq(t, `{"scenes":[]}`, string(out))
}

func TestRepairRemovesTrailingCommas(t *testing.T) {
	in := `{"scenes":[{"scene_number":"7","int_ext":"INT",},],}`
	out, err := Repair([]byte(in))
	require.NoError(t, err)
	require.Len(t, decodeScenes(t, out).Scenes, 1)
}

func TestRepairInsertsMissingCommas(t *testing.T) {
	in := `{"scenes":[{"scene_number":"7","int_ext":"INT"}{"scene_number":"8","int_ext":"EXT"}]}`
	out, err := Repair([]byte(in))
	require.NoError(t, err)
	require.Len(t, decodeScenes(t, out).Scenes, 2)
}

func TestRepairClosesTruncatedOutput(t *testing.T) {
	// Cut off mid-way through the second entry, inside a string value.
	in := `{"scenes":[{"scene_number":"7","int_ext":"INT"},{"scene_number":"8","int_ext":"EX`
	out, err := Repair([]byte(in))
	require.NoError(t, err)

	got := decodeScenes(t, out)
	// Recovery keeps only complete values: the first scene survives intact,
	// nothing is fabricated for the second.
	require.NotEmpty(t, got.Scenes)
	require.Equal(t, "7", got.Scenes[0].SceneNumber)
	for _, s := range got.Scenes {
		require.NotEqual(t, "EX", s.IntExt)
	}
}

func TestRepairRecoversScenesArrayFromBrokenWrapper(t *testing.T) {
	in := `{"comment": unquoted garbage, "scenes":[{"scene_number":"7","int_ext":"INT"}]}`
	out, err := Repair([]byte(in))
	require.NoError(t, err)
	require.Len(t, decodeScenes(t, out).Scenes, 1)
}

func TestRepairHopelessInputFails(t *testing.T) {
	for _, in := range []string{"", "complete nonsense without braces", "{{{{"} {
		_, err := Repair([]byte(in))
		require.Error(t, err, "input %q", in)
		require.True(t, errors.Is(err, common.ErrUnparsable), "input %q", in)
	}
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildDayJSONSchema()

	good := []byte(`{"scenes":[{"scene_number":"4A","int_ext":"INT","cast_numbers":[1,2]}]}`)
	require.NoError(t, ValidateJSONAgainstSchema(schema, good))

	missingIntExt := []byte(`{"scenes":[{"scene_number":"4A"}]}`)
	require.Error(t, ValidateJSONAgainstSchema(schema, missingIntExt))

	commaListSceneNumber := []byte(`{"scenes":[{"scene_number":"1, 2, 4","int_ext":"INT"}]}`)
	require.Error(t, ValidateJSONAgainstSchema(schema, commaListSceneNumber))

	unknownKey := []byte(`{"scenes":[],"extra":true}`)
	require.Error(t, ValidateJSONAgainstSchema(schema, unknownKey))
}
