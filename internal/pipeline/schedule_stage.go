package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/slatecrew/callsheet/constants"
	"github.com/slatecrew/callsheet/internal/common"
	"github.com/slatecrew/callsheet/internal/entity"
	"github.com/slatecrew/callsheet/internal/llm"
	"github.com/slatecrew/callsheet/internal/mention"
	"github.com/slatecrew/callsheet/internal/metadata"
	"github.com/slatecrew/callsheet/internal/parse"
	"github.com/slatecrew/callsheet/internal/reconcile"
	"github.com/slatecrew/callsheet/internal/segment"
)

// runSchedule is the background stage: segment into days, extract each day
// deterministically and (when available) with the completion service,
// reconcile, and fold into the session model. One failed day never abandons
// the rest; the model always reflects the best result so far.
func (p *Processor) runSchedule(ctx context.Context, sess *session, text string, meta metadata.Result) {
	start := time.Now()
	defer close(sess.done)
	defer close(sess.progress)

	blocks := segment.Days(text)
	p.log.Info("pipeline.segment.ok", "session_id", sess.id, "days", len(blocks))

	matcher, err := mention.NewRosterMatcher(meta.Roster)
	if err != nil {
		p.log.Warn("pipeline.mention.compile_failed", "session_id", sess.id, "err", err)
		matcher = nil
	}
	policy := reconcile.NewPolicy(p.log)
	rosterLines := llm.RosterLines(rosterNames(meta.Roster))

	aiDisabled := p.extractor == nil || !p.cfg.LLM.Enabled
	parsedDays := 0
	var lastErr error

	for i, block := range blocks {
		if ctx.Err() != nil {
			p.log.Info("pipeline.session.cancelled", "session_id", sess.id, "day", block.DayNumber)
			return
		}

		det := parse.Day(block.Text)

		var aiScenes []entity.SceneEntry
		if !aiDisabled {
			ex, _, err := p.extractor.ExtractScenes(ctx, llm.ExtractRequest{
				ChunkText: block.Text,
				DayNumber: block.DayNumber,
				Roster:    rosterLines,
			})
			switch {
			case err == nil:
				aiScenes = reconcile.FromExtraction(ex)
			case common.IsTerminal(err):
				// No point issuing further requests this session.
				aiDisabled = true
				lastErr = err
				p.log.Warn("pipeline.ai.terminal", "session_id", sess.id, "day", block.DayNumber, "err", err)
			default:
				lastErr = err
				p.log.Warn("pipeline.ai.day_failed", "session_id", sess.id, "day", block.DayNumber, "err", err)
			}
		}

		scenes, source := policy.Choose(block.DayNumber, det.Scenes, aiScenes)
		if matcher != nil {
			if filled := matcher.Backfill(scenes); filled > 0 {
				p.log.Info("pipeline.mention.backfilled", "session_id", sess.id, "day", block.DayNumber, "entries", filled)
			}
		}

		if len(scenes) > 0 {
			parsedDays++
		}
		if !p.commitDay(sess, block.DayNumber, det, scenes) {
			return // superseded mid-flight
		}

		sess.emit(entity.Progress{
			Status:  constants.StatusProcessing,
			Percent: (i + 1) * 100 / (len(blocks) + 1),
			Message: fmt.Sprintf("day %d extracted (%d scenes, %s)", block.DayNumber, len(scenes), source),
		})
	}

	if !p.isCurrent(sess) {
		return
	}

	sess.mu.Lock()
	status := constants.StatusComplete
	errMsg := ""
	if parsedDays == 0 && lastErr != nil {
		status = constants.StatusError
		errMsg = lastErr.Error()
	}
	sess.model.ProcessingStatus = status
	sess.mu.Unlock()

	sess.emitFinal(entity.Progress{
		Status:  status,
		Percent: 100,
		Message: fmt.Sprintf("ingestion finished: %d days", parsedDays),
		Err:     errMsg,
	})
	p.log.Info("pipeline.ingest.done",
		"session_id", sess.id,
		"status", string(status),
		"days", parsedDays,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

// commitDay folds one day's result into the session model: merge when the day
// already exists (repeated headers can make two blocks claim the same day),
// append and re-sort otherwise. Returns false when the session has been
// superseded.
func (p *Processor) commitDay(sess *session, dayNumber int, det parse.DayResult, scenes []entity.SceneEntry) bool {
	if !p.isCurrent(sess) {
		return false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if day := sess.model.Day(dayNumber); day != nil {
		day.Scenes = reconcile.Merge(day.Scenes, scenes)
		return true
	}
	sess.model.Days = append(sess.model.Days, entity.ScheduleDay{
		DayNumber:  dayNumber,
		Date:       det.Date,
		DayOfWeek:  det.DayOfWeek,
		Location:   det.Location,
		Sunrise:    det.Sunrise,
		Sunset:     det.Sunset,
		Notes:      det.Notes,
		Scenes:     scenes,
		TotalPages: det.TotalPages,
	})
	sort.SliceStable(sess.model.Days, func(i, j int) bool {
		return sess.model.Days[i].DayNumber < sess.model.Days[j].DayNumber
	})
	if len(sess.model.Days) > sess.model.TotalDays {
		sess.model.TotalDays = len(sess.model.Days)
	}
	return true
}

func rosterNames(r entity.Roster) map[int]string {
	out := make(map[int]string, len(r))
	for n, m := range r {
		out[n] = m.Name
	}
	return out
}
