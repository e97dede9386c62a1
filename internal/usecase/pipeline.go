package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"HNDigest/internal/comments"
	"HNDigest/internal/domain"
	"HNDigest/internal/ports"
	"HNDigest/internal/summarize"
)

// PipelineDeps wires all driven adapters into the collection pipeline.
type PipelineDeps struct {
	Source     ports.ContentSource
	Extractor  ports.Extractor
	Collector  *comments.Collector
	Summarizer *summarize.Summarizer
	Store      ports.DocumentStore
	Archive    ports.Archive
	TopLimit   int
	Logger     *slog.Logger
}

// Pipeline implements the collection workflow: list top items, enrich each
// with an article extract and a comment tree, summarize both, persist one
// record per item.
type Pipeline struct {
	source     ports.ContentSource
	extractor  ports.Extractor
	collector  *comments.Collector
	summarizer *summarize.Summarizer
	store      ports.DocumentStore
	archive    ports.Archive
	topLimit   int
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := deps.TopLimit
	if limit <= 0 {
		limit = 5
	}
	return &Pipeline{
		source:     deps.Source,
		extractor:  deps.Extractor,
		collector:  deps.Collector,
		summarizer: deps.Summarizer,
		store:      deps.Store,
		archive:    deps.Archive,
		topLimit:   limit,
		logger:     logger,
	}
}

// Collect processes the current top-ranked items sequentially in rank order.
// Absent items and items without a title are skipped silently; any other
// failure aborts the run. There is no rollback across items: records already
// persisted stay persisted.
func (p *Pipeline) Collect(ctx context.Context) error {
	ids, err := p.source.TopItemIDs(ctx, p.topLimit)
	if err != nil {
		return fmt.Errorf("list top items: %w", err)
	}

	for _, id := range ids {
		item, err := p.source.Item(ctx, id)
		if err != nil {
			return fmt.Errorf("fetch item %d: %w", id, err)
		}
		if item == nil || item.Title == "" {
			p.logger.Debug("skipping item", "id", id)
			continue
		}

		if err := p.processItem(ctx, *item); err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) processItem(ctx context.Context, item domain.Item) error {
	rendered, err := p.collector.Collect(ctx, item.Kids, 0)
	if err != nil {
		return fmt.Errorf("collect comments for %d: %w", item.ID, err)
	}

	articleText := summarize.ArticleText(ctx, p.extractor, item)

	articleSummary, err := p.summarizer.Article(ctx, item, articleText)
	if err != nil {
		return err
	}

	commentSummary, err := p.summarizer.Comments(ctx, rendered)
	if err != nil {
		return err
	}

	record := domain.SummaryRecord{
		Title:          item.Title,
		URL:            item.URL,
		ArticleSummary: articleSummary,
		CommentSummary: commentSummary,
		Author:         item.By,
		Score:          item.Score,
		PostedAt:       item.PostedAt(),
	}

	if err := p.store.CreateSummary(ctx, record); err != nil {
		return fmt.Errorf("persist record for %d: %w", item.ID, err)
	}

	if p.archive != nil {
		if err := p.archive.SaveRecord(ctx, record); err != nil {
			return fmt.Errorf("archive record for %d: %w", item.ID, err)
		}
	}

	p.logger.Info("saved item", "id", item.ID, "title", item.Title, "score", item.Score)
	return nil
}
