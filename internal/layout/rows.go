// Package layout reconstructs tabular rows from positioned text tokens.
// Source pages carry no semantic markup: rows and columns exist only as glyph
// geometry, so the package quantizes vertical positions into bands, orders
// cells by x, and serializes with a strong separator where a horizontal gap
// is wide enough to mean "next column".
package layout

import (
	"sort"
	"strings"

	"github.com/slatecrew/callsheet/internal/pdftext"
)

// Cell is one token of a reconstructed row.
type Cell struct {
	X     float64
	Width float64
	Text  string
}

// Row is an ordered sequence of cells sharing an inferred vertical band.
type Row struct {
	Page  int
	Y     float64
	Cells []Cell
}

// Config holds the geometric tolerances.
type Config struct {
	// BandTolerance absorbs rendering jitter when deciding whether two
	// tokens share a line.
	BandTolerance float64

	// ColumnGap is the horizontal gap beyond which a strong column
	// separator is emitted instead of a space.
	ColumnGap float64
}

// DefaultConfig returns tolerances that hold up across the schedule PDFs
// observed so far.
func DefaultConfig() Config {
	return Config{BandTolerance: 3.0, ColumnGap: 18.0}
}

// Reconstruct groups tokens into rows: bands top-to-bottom, cells left-to-
// right. Ordering is deterministic and stable; only whitespace-only tokens
// are dropped.
func Reconstruct(tokens []pdftext.Token, cfg Config) []Row {
	if cfg.BandTolerance <= 0 {
		cfg = DefaultConfig()
	}

	kept := make([]pdftext.Token, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t.Text) != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	// Page ascending, then top-to-bottom (PDF y grows upward), then x.
	// SliceStable keeps original token order for exact ties.
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Page != kept[j].Page {
			return kept[i].Page < kept[j].Page
		}
		if kept[i].Y != kept[j].Y {
			return kept[i].Y > kept[j].Y
		}
		return kept[i].X < kept[j].X
	})

	var rows []Row
	cur := Row{Page: kept[0].Page, Y: kept[0].Y}
	for _, t := range kept {
		if t.Page != cur.Page || abs(t.Y-cur.Y) > cfg.BandTolerance {
			rows = append(rows, cur)
			cur = Row{Page: t.Page, Y: t.Y}
		}
		cur.Cells = append(cur.Cells, Cell{X: t.X, Width: t.Width, Text: t.Text})
	}
	rows = append(rows, cur)

	for i := range rows {
		cells := rows[i].Cells
		sort.SliceStable(cells, func(a, b int) bool { return cells[a].X < cells[b].X })
	}
	return rows
}

// Serialize renders one row as text. Gaps wider than ColumnGap become a tab,
// smaller gaps a single space; overlapping or touching cells concatenate.
func (r Row) Serialize(cfg Config) string {
	if cfg.ColumnGap <= 0 {
		cfg = DefaultConfig()
	}
	var sb strings.Builder
	for i, c := range r.Cells {
		if i > 0 {
			prev := r.Cells[i-1]
			gap := c.X - (prev.X + prev.Width)
			switch {
			case gap > cfg.ColumnGap:
				sb.WriteByte('\t')
			case gap > 1.0:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(c.Text)
	}
	return sb.String()
}

// Text serializes all rows into newline-separated text, the form the
// metadata extractor and segmenter operate on.
func Text(rows []Row, cfg Config) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, r.Serialize(cfg))
	}
	return strings.Join(lines, "\n")
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
