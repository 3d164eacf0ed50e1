// Package segment splits full document text into per-shooting-day blocks
// (schedule path) or size-bounded chunks cut at scene-heading-like lines
// (screenplay path). Screenplay chunks keep a trailing overlap so an entry
// straddling an arbitrary size cut is never truncated away from both sides;
// day blocks end at explicit day boundaries, so they carry no overlap.
package segment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/slatecrew/callsheet/internal/metadata"
)

// Config bounds chunking for the screenplay path.
type Config struct {
	ChunkSize int // hard upper bound on chunk length, in bytes
	Overlap   int // trailing overlap carried past each cut
	Lookback  int // how far back from the bound to hunt for a safe cut
}

// DefaultConfig mirrors the pipeline defaults.
func DefaultConfig() Config {
	return Config{ChunkSize: 6000, Overlap: 200, Lookback: 600}
}

// DayBlock is one shooting day's worth of schedule text.
type DayBlock struct {
	DayNumber int
	Text      string
}

// Chunk is one size-bounded slice of screenplay text.
type Chunk struct {
	Index int
	Text  string
}

var sceneHeading = regexp.MustCompile(`(?m)^\s*(?:\d+[A-Z]?\.?\s+)?(?:INT|EXT|INT/EXT|I/E)[. /]`)

// Days splits schedule text into contiguous per-day blocks using the
// end-of-day boundary markers from stage 1, falling back to day headers when
// a schedule carries no explicit markers. Text before the first recognizable
// day lands in the first block. Blocks never extend past their boundary
// marker: a day's scenes belong to exactly one block.
func Days(text string) []DayBlock {
	lines := strings.Split(text, "\n")

	var blocks []DayBlock
	var cur []string
	curDay := 0 // unknown until a marker names it

	flush := func(dayNum int) {
		body := strings.TrimRight(strings.Join(cur, "\n"), "\n")
		cur = nil
		if strings.TrimSpace(body) == "" {
			return
		}
		if dayNum == 0 {
			dayNum = nextDayNumber(blocks)
		}
		blocks = append(blocks, DayBlock{DayNumber: dayNum, Text: body})
	}

	sawMarker := false
	for _, line := range lines {
		cur = append(cur, line)
		if m := metadata.EndOfDay.FindStringSubmatch(line); m != nil {
			sawMarker = true
			n, _ := strconv.Atoi(m[1])
			flush(n)
			curDay = 0
			continue
		}
		if curDay == 0 {
			if m := metadata.DayHeader.FindStringSubmatch(line); m != nil {
				curDay, _ = strconv.Atoi(m[1])
			}
		}
	}
	flush(curDay)

	// No end-of-day markers anywhere: re-split on day headers instead so
	// multi-day schedules without footers still separate.
	if !sawMarker && len(blocks) == 1 {
		if reSplit := splitOnHeaders(lines); len(reSplit) > 1 {
			blocks = reSplit
		}
	}

	return blocks
}

func nextDayNumber(blocks []DayBlock) int {
	max := 0
	for _, b := range blocks {
		if b.DayNumber > max {
			max = b.DayNumber
		}
	}
	return max + 1
}

func splitOnHeaders(lines []string) []DayBlock {
	var blocks []DayBlock
	var cur []string
	curDay := 0

	flush := func() {
		body := strings.TrimRight(strings.Join(cur, "\n"), "\n")
		cur = nil
		if strings.TrimSpace(body) == "" {
			return
		}
		n := curDay
		if n == 0 {
			n = nextDayNumber(blocks)
		}
		blocks = append(blocks, DayBlock{DayNumber: n, Text: body})
	}

	for _, line := range lines {
		if m := metadata.DayHeader.FindStringSubmatch(line); m != nil {
			if len(cur) > 0 {
				flush()
			}
			curDay, _ = strconv.Atoi(m[1])
		}
		cur = append(cur, line)
	}
	flush()
	return blocks
}

// Chunks splits screenplay text into size-bounded pieces, preferring the
// nearest scene-heading line within the lookback window and hard-cutting
// when none is close. Each chunk retains Overlap bytes past its cut.
func Chunks(text string, cfg Config) []Chunk {
	if cfg.ChunkSize <= 0 {
		cfg = DefaultConfig()
	}

	var chunks []Chunk
	start := 0
	for start < len(text) {
		end := start + cfg.ChunkSize
		if end >= len(text) {
			chunks = append(chunks, Chunk{Index: len(chunks), Text: text[start:]})
			break
		}

		cut := bestCut(text, start, end, cfg.Lookback)

		sliceEnd := cut + cfg.Overlap
		if sliceEnd > len(text) {
			sliceEnd = len(text)
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Text: text[start:sliceEnd]})
		start = cut
	}
	return chunks
}

// bestCut hunts backward from the size bound for a scene heading, then for a
// newline, then gives up and cuts hard.
func bestCut(text string, start, bound, lookback int) int {
	windowStart := bound - lookback
	if windowStart < start {
		windowStart = start
	}
	window := text[windowStart:bound]

	if locs := sceneHeading.FindAllStringIndex(window, -1); len(locs) > 0 {
		last := locs[len(locs)-1]
		cut := windowStart + last[0]
		if cut > start {
			return cut
		}
	}
	if idx := strings.LastIndexByte(window, '\n'); idx > 0 {
		cut := windowStart + idx + 1
		if cut > start {
			return cut
		}
	}
	return bound
}
