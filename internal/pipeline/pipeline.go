// Package pipeline orchestrates a recovery run end to end.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"qsrescue/internal/extract"
	"qsrescue/internal/model"
	"qsrescue/internal/sanitize"
	"qsrescue/internal/segment"
	"qsrescue/internal/sink"
	"qsrescue/internal/util"
	"qsrescue/internal/validate"
)

// Messages published between progress log lines
const progressInterval = 500

// Hex dumps emitted for the first recovered messages in verbose mode
const verboseDumpCount = 3

// Pipeline runs one extraction strategy across a catalog of segment files
// and forwards accepted messages to a sink. Everything is sequential: one
// file at a time, one candidate at a time, publish blocking the scan. A file
// is read into memory in full before parsing, so peak memory is bounded by
// the largest segment file.
type Pipeline struct {
	catalog   *segment.Catalog
	strategy  extract.Strategy
	sanitizer *sanitize.Sanitizer
	validator *validate.Validator
	sink      sink.Sink
	cfg       *model.Config
	logger    *slog.Logger
}

// New creates a pipeline from the run configuration and collaborators
func New(cfg *model.Config, strategy extract.Strategy, snk sink.Sink, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		catalog:   segment.NewCatalog(cfg.Source.Extension, logger),
		strategy:  strategy,
		sanitizer: sanitize.New(cfg.Heuristics),
		validator: validate.New(cfg.Heuristics),
		sink:      sink.RateLimited(snk, cfg.Broker.Rate),
		cfg:       cfg,
		logger:    logger,
	}
}

// Run processes every cataloged file in ascending sequence order and returns
// the aggregated counters. Per-file and per-candidate failures are absorbed:
// the run keeps salvaging whatever else it can. Limits are cooperative,
// checked between units of work; there is no mid-unit preemption and no
// resume, so a re-run starts over and republishes.
func (p *Pipeline) Run(ctx context.Context) (*model.RunStats, error) {
	stats := &model.RunStats{}

	files, err := p.catalog.Scan(p.cfg.Source.Dir)
	if err != nil {
		return stats, err
	}
	p.logger.Info("found segment files", "count", len(files), "dir", p.cfg.Source.Dir)

	if limit := p.cfg.Limits.Files; limit > 0 && len(files) > limit {
		p.logger.Info("file limit reached, truncating catalog", "limit", limit)
		files = files[:limit]
		stats.LimitsHit++
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if p.messageLimitReached(stats) {
			p.logger.Info("message limit reached, stopping", "limit", p.cfg.Limits.Messages)
			stats.LimitsHit++
			break
		}

		p.processFile(ctx, file, stats)
	}

	p.logger.Info("run complete",
		"files_scanned", stats.FilesScanned,
		"messages_published", stats.MessagesPublished,
		"candidates_skipped", stats.CandidatesSkipped,
		"publish_failures", stats.PublishFailures)

	return stats, nil
}

// processFile salvages one segment file. Read failures are logged and the
// file contributes zero messages; the run continues.
func (p *Pipeline) processFile(ctx context.Context, file model.SegmentFile, stats *model.RunStats) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		p.logger.Warn("cannot read segment file", "file", file.Path, "error", err)
		return
	}
	stats.FilesScanned++

	name := filepath.Base(file.Path)
	p.logger.Debug("processing segment file", "file", name, "bytes", len(data))

	published := 0
	skipped := p.strategy.Extract(data, func(c extract.Candidate) bool {
		msg, ok := p.recover(c, file.Path)
		if !ok {
			stats.CandidatesSkipped++
			return true
		}

		if err := p.sink.Publish(ctx, msg.Body, msg.ContentType); err != nil {
			stats.PublishFailures++
			p.logger.Warn("publish failed", "file", name, "offset", msg.Offset, "error", err)
			return ctx.Err() == nil
		}

		stats.MessagesPublished++
		published++

		if p.cfg.Output.Verbose && published <= verboseDumpCount {
			p.logger.Debug("recovered message",
				"file", name,
				"offset", msg.Offset,
				"content_type", string(msg.ContentType),
				"bytes", len(msg.Body))
			fmt.Fprint(os.Stderr, util.HexDump(msg.Body, msg.Offset, 128))
		}
		if stats.MessagesPublished%progressInterval == 0 {
			p.logger.Info("progress", "messages_published", stats.MessagesPublished)
		}

		return !p.messageLimitReached(stats)
	})

	stats.CandidatesSkipped += skipped
	p.logger.Debug("segment file done", "file", name, "published", published, "skipped", skipped)
}

// recover sanitizes and validates one candidate, producing a publishable
// message. Candidates from the marker strategy tolerate invalid UTF-8 via
// replacement; candidates from the entry strategy are dropped on invalid
// encoding instead.
func (p *Pipeline) recover(c extract.Candidate, path string) (model.RecoveredMessage, bool) {
	body := p.sanitizer.Clean(c.Bytes)

	if c.Lossy {
		body = bytes.ToValidUTF8(body, []byte("�"))
	} else if !utf8.Valid(body) {
		p.logger.Debug("dropping candidate with invalid encoding", "file", filepath.Base(path), "offset", c.Offset)
		return model.RecoveredMessage{}, false
	}

	if !p.validator.Valid(string(body)) {
		return model.RecoveredMessage{}, false
	}

	return model.RecoveredMessage{
		Body:        body,
		ContentType: model.InferContentType(body),
		SourceFile:  path,
		Offset:      c.Offset,
	}, true
}

func (p *Pipeline) messageLimitReached(stats *model.RunStats) bool {
	limit := p.cfg.Limits.Messages
	return limit > 0 && stats.MessagesPublished >= limit
}

// NewReport assembles the run report written when --report is set
func NewReport(cfg *model.Config, stats *model.RunStats, started time.Time) *model.Report {
	return &model.Report{
		Directory:  cfg.Source.Dir,
		Strategy:   cfg.Source.Strategy,
		DryRun:     cfg.Broker.DryRun,
		StartedAt:  started.UTC(),
		FinishedAt: time.Now().UTC(),
		Stats:      *stats,
	}
}
