package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slatecrew/callsheet/internal/pdftext"
)

func TestReconstructGroupsBands(t *testing.T) {
	// Two visual lines with y jitter inside the tolerance, cells out of order.
	tokens := []pdftext.Token{
		{Text: "KITCHEN", X: 120, Y: 700.5, Width: 50, Page: 1},
		{Text: "7", X: 10, Y: 700, Width: 8, Page: 1},
		{Text: "INT", X: 60, Y: 699.2, Width: 20, Page: 1},
		{Text: "EXT", X: 60, Y: 680, Width: 20, Page: 1},
		{Text: "8", X: 10, Y: 680.8, Width: 8, Page: 1},
	}

	rows := Reconstruct(tokens, DefaultConfig())
	require.Len(t, rows, 2)

	first := rows[0]
	require.Len(t, first.Cells, 3)
	require.Equal(t, "7", first.Cells[0].Text)
	require.Equal(t, "INT", first.Cells[1].Text)
	require.Equal(t, "KITCHEN", first.Cells[2].Text)
	for i := 1; i < len(first.Cells); i++ {
		require.Greater(t, first.Cells[i].X, first.Cells[i-1].X)
	}

	require.Equal(t, "8", rows[1].Cells[0].Text)
}

func TestReconstructSeparatesPages(t *testing.T) {
	tokens := []pdftext.Token{
		{Text: "a", X: 0, Y: 700, Width: 5, Page: 2},
		{Text: "b", X: 0, Y: 700, Width: 5, Page: 1},
	}
	rows := Reconstruct(tokens, DefaultConfig())
	require.Len(t, rows, 2)
	require.Equal(t, 1, rows[0].Page)
	require.Equal(t, 2, rows[1].Page)
}

func TestReconstructDropsWhitespaceTokens(t *testing.T) {
	tokens := []pdftext.Token{
		{Text: "   ", X: 0, Y: 700, Width: 5, Page: 1},
		{Text: "x", X: 10, Y: 700, Width: 5, Page: 1},
	}
	rows := Reconstruct(tokens, DefaultConfig())
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Cells, 1)
}

func TestSerializeSeparators(t *testing.T) {
	row := Row{Cells: []Cell{
		{X: 0, Width: 10, Text: "7"},
		{X: 14, Width: 20, Text: "INT"}, // gap 4 -> space
		{X: 80, Width: 50, Text: "KITCHEN"}, // gap 46 -> tab
		{X: 130, Width: 30, Text: "-DAY"}, // gap 0 -> concatenated
	}}
	got := row.Serialize(DefaultConfig())
	require.Equal(t, "7 INT\tKITCHEN-DAY", got)
}

func TestTextJoinsRows(t *testing.T) {
	tokens := []pdftext.Token{
		{Text: "one", X: 0, Y: 700, Width: 10, Page: 1},
		{Text: "two", X: 0, Y: 600, Width: 10, Page: 1},
	}
	cfg := DefaultConfig()
	text := Text(Reconstruct(tokens, cfg), cfg)
	require.Equal(t, []string{"one", "two"}, strings.Split(text, "\n"))
}
