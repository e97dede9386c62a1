package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"HNDigest/internal/ports"
)

// contentSelectors matches the conventional content-container classes plus
// a generic content id, the third rung of the fallback chain.
const contentSelectors = ".post-content, .article-content, .entry-content, #content"

// strategy is one heuristic for locating an article's main text. Strategies
// run in declaration order; the first non-empty result wins.
type strategy struct {
	name     string
	selector string
}

var strategies = []strategy{
	{name: "article", selector: "article"},
	{name: "main", selector: "main"},
	{name: "containers", selector: contentSelectors},
	{name: "paragraphs", selector: "p"},
}

var (
	newlineRunExpr    = regexp.MustCompile(`[^\S\n]*\n[\s]*`)
	horizontalRunExpr = regexp.MustCompile(`[^\S\n]+`)
)

// Extractor fetches article pages and reduces them to plain text through the
// ordered strategy chain. Any failure degrades to an empty extract.
type Extractor struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.Extractor = (*Extractor)(nil)

// New wires an HTTP client; a nil client gets a 20s timeout default.
func New(client *http.Client, logger *slog.Logger) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, logger: logger}
}

// Extract returns the meta description plus a blank line plus the normalized
// body text, or "" when the page cannot be fetched or parsed. Errors are
// logged, never propagated: callers must tolerate an empty extract.
func (e *Extractor) Extract(ctx context.Context, url string) string {
	doc, err := e.fetchDocument(ctx, url)
	if err != nil {
		e.logger.Warn("article extraction failed", "url", url, "error", err)
		return ""
	}

	meta, _ := doc.Find(`meta[name="description"]`).Attr("content")
	body := bodyText(doc)

	return strings.TrimSpace(meta + "\n\n" + body)
}

func (e *Extractor) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "HNDigest/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

func bodyText(doc *goquery.Document) string {
	for _, s := range strategies {
		text := collectText(doc, s.selector)
		if text != "" {
			return Normalize(text)
		}
	}
	return ""
}

// collectText concatenates matched elements in document order, trimming each
// and joining with a newline.
func collectText(doc *goquery.Document, selector string) string {
	var parts []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n")
}

// Normalize collapses whitespace runs containing a newline to a single
// newline and remaining horizontal runs to a single space, then trims.
// Idempotent: normalizing already-normalized text returns it unchanged.
func Normalize(text string) string {
	text = newlineRunExpr.ReplaceAllString(text, "\n")
	text = horizontalRunExpr.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
