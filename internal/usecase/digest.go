package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"HNDigest/internal/domain"
	"HNDigest/internal/ports"
	"HNDigest/internal/summarize"
)

// Separator delimits per-item sections in the rendered digest. Chunk
// boundaries only ever fall on it: a section is never split mid-item.
const Separator = "---\n\n"

const closingLine = "ご意見・ご感想はぜひコメントで！🙌\n"

// Composer turns a window of persisted records into one digest document
// sized for the store's field-length constraints.
type Composer struct{}

// Compose ranks the records by score (descending, stable) and renders the
// digest. The primary chunk holds the header plus the top-ranked section;
// every further section becomes one overflow block.
func (Composer) Compose(records []domain.SummaryRecord, now time.Time) domain.DigestDocument {
	ranked := make([]domain.SummaryRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	content := render(ranked, now)
	chunks := SplitChunks(content)

	doc := domain.DigestDocument{
		Title:       fmt.Sprintf("Hacker News 注目記事まとめ %d/%d/%d", now.Year(), int(now.Month()), now.Day()),
		GeneratedAt: now,
		Draft:       true,
	}

	if len(chunks) >= 2 {
		doc.Primary = chunks[0] + Separator + chunks[1]
		doc.Overflow = chunks[2:]
	} else if len(chunks) == 1 {
		doc.Primary = chunks[0]
	}

	return doc
}

// render produces the digest text: a dated header, the per-item sections
// joined by the separator, and the closing line riding on the final section.
func render(records []domain.SummaryRecord, now time.Time) string {
	header := fmt.Sprintf("🗓 %d年%d月 第%d週｜Hacker News 注目記事まとめ\n\n",
		now.Year(), int(now.Month()), weekOfMonth(now))

	parts := []string{header}
	for _, record := range records {
		parts = append(parts, renderSection(record))
	}

	return strings.Join(parts, Separator) + closingLine
}

func renderSection(record domain.SummaryRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### 🔸 [%s](%s)\n\n", record.Title, record.URL)
	fmt.Fprintf(&sb, "✅ 記事の要約\n%s\n\n", record.ArticleSummary)
	if record.CommentSummary != summarize.NoCommentsPlaceholder {
		fmt.Fprintf(&sb, "💬 コメントの要約\n%s\n\n", record.CommentSummary)
	}
	return sb.String()
}

// SplitChunks splits rendered digest text on the separator, dropping chunks
// that are blank after trimming.
func SplitChunks(content string) []string {
	var chunks []string
	for _, chunk := range strings.Split(content, Separator) {
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// weekOfMonth numbers weeks from the 1st: days 1-7 are week 1, 8-14 week 2.
func weekOfMonth(t time.Time) int {
	return (t.Day() + 6) / 7
}

// DigestDeps wires the digest run.
type DigestDeps struct {
	Store      ports.DocumentStore
	WindowDays int
	Logger     *slog.Logger
	Now        func() time.Time
}

// Digest reads the recent record window, composes the roll-up, and publishes
// it back into the store as a new draft page.
type Digest struct {
	store      ports.DocumentStore
	windowDays int
	logger     *slog.Logger
	now        func() time.Time
	composer   Composer
}

// NewDigest constructs the digest use case.
func NewDigest(deps DigestDeps) *Digest {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	window := deps.WindowDays
	if window <= 0 {
		window = 7
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Digest{
		store:      deps.Store,
		windowDays: window,
		logger:     logger,
		now:        now,
	}
}

// Run composes and publishes one digest document.
func (d *Digest) Run(ctx context.Context) error {
	now := d.now()
	oldest := now.Add(-time.Duration(d.windowDays) * 24 * time.Hour)

	records, err := d.store.SummariesSince(ctx, oldest)
	if err != nil {
		return fmt.Errorf("load record window: %w", err)
	}
	d.logger.Info("composing digest", "records", len(records), "window_days", d.windowDays)

	doc := d.composer.Compose(records, now)

	pageID, err := d.store.CreateDigest(ctx, doc)
	if err != nil {
		return fmt.Errorf("create digest: %w", err)
	}

	if err := d.store.SetDigestContent(ctx, pageID, doc.Primary); err != nil {
		return fmt.Errorf("write digest content: %w", err)
	}

	if err := d.store.AppendDigestBlocks(ctx, pageID, doc.Overflow); err != nil {
		return fmt.Errorf("append digest blocks: %w", err)
	}

	d.logger.Info("published digest", "page", pageID, "overflow_blocks", len(doc.Overflow))
	return nil
}
