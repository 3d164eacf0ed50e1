// Package pipeline coordinates the two-stage schedule ingestion: a fast
// synchronous metadata pass, then background day-by-day extraction that
// progressively fills the model behind a session key.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/slatecrew/callsheet/constants"
	"github.com/slatecrew/callsheet/internal/common"
	"github.com/slatecrew/callsheet/internal/entity"
	"github.com/slatecrew/callsheet/internal/layout"
	"github.com/slatecrew/callsheet/internal/llm"
	"github.com/slatecrew/callsheet/internal/metadata"
	"github.com/slatecrew/callsheet/internal/pdftext"
)

// progressBuffer bounds the progress channel; a slow consumer loses
// intermediate events, never the terminal one.
const progressBuffer = 16

// Processor owns ingestion sessions. One session per key: starting a new
// ingest under a key a running session holds supersedes that session, and
// superseded work never writes to the model again.
type Processor struct {
	cfg       *common.Config
	log       *slog.Logger
	extractor llm.ChunkExtractor // nil runs the deterministic path only

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	id       string
	key      string
	cancel   context.CancelFunc
	progress chan entity.Progress
	done     chan struct{}

	mu    sync.Mutex
	model *entity.ScheduleModel
}

// Ingest is the caller's handle on one started ingestion.
type Ingest struct {
	SessionID string
	Stage1    *entity.ScheduleModel
	Progress  <-chan entity.Progress
	Done      <-chan struct{}
}

func NewProcessor(cfg *common.Config, extractor llm.ChunkExtractor, logger *slog.Logger) *Processor {
	if cfg == nil {
		cfg = common.LoadConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		cfg:       cfg,
		log:       logger,
		extractor: extractor,
		sessions:  make(map[string]*session),
	}
}

// IngestSchedule reads a schedule PDF and starts ingestion under key.
func (p *Processor) IngestSchedule(ctx context.Context, key string, r io.Reader) (*Ingest, error) {
	tokens, err := pdftext.ExtractTokens(r)
	if err != nil {
		p.log.Error("pipeline.ingest.pdf_failed", "key", key, "err", err)
		return nil, err
	}
	lcfg := layout.Config{
		BandTolerance: p.cfg.Layout.BandTolerance,
		ColumnGap:     p.cfg.Layout.ColumnGap,
	}
	text := layout.Text(layout.Reconstruct(tokens, lcfg), lcfg)
	return p.IngestScheduleText(ctx, key, text)
}

// IngestScheduleText starts ingestion from already-reconstructed text. The
// synchronous part runs stage 1 and returns its model immediately; the rest
// continues in the background and streams progress.
func (p *Processor) IngestScheduleText(ctx context.Context, key, text string) (*Ingest, error) {
	meta := metadata.Extract(text)
	p.log.Info("pipeline.stage1.ok",
		"key", key,
		"cast", len(meta.Roster),
		"total_days", meta.TotalDays,
		"title", meta.Title,
	)

	model := &entity.ScheduleModel{
		CastList:         rosterList(meta.Roster),
		TotalDays:        meta.TotalDays,
		ProcessingStatus: constants.StatusProcessing,
	}

	sessCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sess := &session{
		id:       uuid.New().String(),
		key:      key,
		cancel:   cancel,
		progress: make(chan entity.Progress, progressBuffer),
		done:     make(chan struct{}),
		model:    model,
	}

	p.mu.Lock()
	if prev, ok := p.sessions[key]; ok {
		p.log.Info("pipeline.session.superseded", "key", key, "old_id", prev.id, "new_id", sess.id)
		prev.cancel()
	}
	p.sessions[key] = sess
	p.mu.Unlock()

	go p.runSchedule(sessCtx, sess, text, meta)

	return &Ingest{
		SessionID: sess.id,
		Stage1:    model.Clone(),
		Progress:  sess.progress,
		Done:      sess.done,
	}, nil
}

// Model returns the current best snapshot for a key.
func (p *Processor) Model(key string) (*entity.ScheduleModel, bool) {
	p.mu.Lock()
	sess, ok := p.sessions[key]
	p.mu.Unlock()
	if !ok {
		return nil, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.model.Clone(), true
}

// Cancel stops the session under key, if any.
func (p *Processor) Cancel(key string) {
	p.mu.Lock()
	sess, ok := p.sessions[key]
	if ok {
		delete(p.sessions, key)
	}
	p.mu.Unlock()
	if ok {
		sess.cancel()
	}
}

// isCurrent reports whether sess still owns its key. Superseded sessions must
// not publish results.
func (p *Processor) isCurrent(sess *session) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessions[sess.key] == sess
}

// emit delivers an intermediate event, dropping it when the buffer is full.
func (sess *session) emit(ev entity.Progress) {
	select {
	case sess.progress <- ev:
	default:
	}
}

// emitFinal delivers the terminal event even against a full buffer by
// evicting the oldest queued event until the send lands.
func (sess *session) emitFinal(ev entity.Progress) {
	for {
		select {
		case sess.progress <- ev:
			return
		default:
		}
		select {
		case <-sess.progress:
		default:
		}
	}
}

func rosterList(r entity.Roster) []entity.CastMember {
	nums := make([]int, 0, len(r))
	for n := range r {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	out := make([]entity.CastMember, 0, len(nums))
	for _, n := range nums {
		out = append(out, r[n])
	}
	return out
}
