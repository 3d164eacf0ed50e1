package pipeline

import (
	"context"
	"strings"

	"github.com/slatecrew/callsheet/internal/common"
	"github.com/slatecrew/callsheet/internal/entity"
	"github.com/slatecrew/callsheet/internal/parse"
	"github.com/slatecrew/callsheet/internal/segment"
)

// IngestScreenplay parses screenplay text into scenes and unified speaking
// characters. Chunks overlap, so scenes dedup by number and characters merge
// across chunk boundaries.
func (p *Processor) IngestScreenplay(ctx context.Context, text string) (*entity.ScreenplayModel, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.WrapError(common.ErrEmptyDocument, "screenplay text")
	}

	chunks := segment.Chunks(text, segment.Config{
		ChunkSize: p.cfg.Pipeline.ChunkSize,
		Overlap:   p.cfg.Pipeline.ChunkOverlap,
		Lookback:  p.cfg.Pipeline.Lookback,
	})
	p.log.Info("pipeline.screenplay.segment", "chunks", len(chunks), "text_len", len(text))

	model := &entity.ScreenplayModel{}
	sceneSeen := map[string]struct{}{}
	chars := map[string]*entity.CharacterRecord{}
	var charOrder []string

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := parse.Screenplay(chunk.Text)

		for _, sc := range res.Scenes {
			if _, dup := sceneSeen[sc.SceneNumber]; dup {
				continue
			}
			sceneSeen[sc.SceneNumber] = struct{}{}
			model.Scenes = append(model.Scenes, sc)
		}

		for _, c := range res.Characters {
			existing, ok := chars[c.NormalizedName]
			if !ok {
				rec := c
				rec.ScenesAppeared = append([]string(nil), c.ScenesAppeared...)
				rec.Variants = append([]string(nil), c.Variants...)
				chars[c.NormalizedName] = &rec
				charOrder = append(charOrder, c.NormalizedName)
				continue
			}
			existing.ScenesAppeared = appendMissing(existing.ScenesAppeared, c.ScenesAppeared)
			existing.Variants = appendMissing(existing.Variants, c.Variants)
		}
	}

	for _, norm := range charOrder {
		model.Characters = append(model.Characters, *chars[norm])
	}
	model.SortCharacters()

	p.log.Info("pipeline.screenplay.ok",
		"scenes", len(model.Scenes),
		"characters", len(model.Characters),
	)
	return model, nil
}

func appendMissing(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range src {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
