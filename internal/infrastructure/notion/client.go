package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"HNDigest/internal/config"
	"HNDigest/internal/domain"
	"HNDigest/internal/ports"
)

// Property names inside the two databases. The store treats these as plain
// configuration of the workspace schema, not part of any core contract.
const (
	propName           = "Name"
	propURL            = "URL"
	propArticleSummary = "ArticleSummary"
	propCommentSummary = "CommentSummary"
	propAuthor         = "Author"
	propScore          = "Score"
	propPostedAt       = "PostedAt"
	propContent        = "Content"
	propStatus         = "Status"
	propGeneratedAt    = "GeneratedAt"

	statusDraft = "Draft"
)

// Client talks to a Notion-shaped document API: page creation, database
// queries, page updates, and child-block appends.
type Client struct {
	baseURL         string
	token           string
	version         string
	recordsDatabase string
	digestDatabase  string
	httpClient      *http.Client
}

var _ ports.DocumentStore = (*Client)(nil)

// NewClient builds a store client from configuration.
func NewClient(cfg config.StoreConfig) *Client {
	return &Client{
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		token:           cfg.Token,
		version:         cfg.Version,
		recordsDatabase: cfg.RecordsDatabase,
		digestDatabase:  cfg.DigestDatabase,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
	}
}

type richText struct {
	PlainText string `json:"plain_text,omitempty"`
	Text      struct {
		Content string `json:"content"`
	} `json:"text"`
}

func (r richText) content() string {
	if r.PlainText != "" {
		return r.PlainText
	}
	return r.Text.Content
}

func textValue(content string) []map[string]any {
	return []map[string]any{{"text": map[string]any{"content": content}}}
}

// CreateSummary creates one record page in the records database.
func (c *Client) CreateSummary(ctx context.Context, record domain.SummaryRecord) error {
	payload := map[string]any{
		"parent": map[string]any{"database_id": c.recordsDatabase},
		"properties": map[string]any{
			propName:           map[string]any{"title": textValue(record.Title)},
			propURL:            map[string]any{"url": record.URL},
			propArticleSummary: map[string]any{"rich_text": textValue(record.ArticleSummary)},
			propCommentSummary: map[string]any{"rich_text": textValue(record.CommentSummary)},
			propAuthor:         map[string]any{"rich_text": textValue(record.Author)},
			propScore:          map[string]any{"number": record.Score},
			propPostedAt: map[string]any{
				"date": map[string]any{"start": record.PostedAt.Format(time.RFC3339)},
			},
		},
	}

	if err := c.call(ctx, http.MethodPost, "/v1/pages", payload, nil); err != nil {
		return fmt.Errorf("create summary %q: %w", record.Title, err)
	}
	return nil
}

type queryResponse struct {
	Results []struct {
		ID         string `json:"id"`
		Properties struct {
			Name struct {
				Title []richText `json:"title"`
			} `json:"Name"`
			URL struct {
				URL string `json:"url"`
			} `json:"URL"`
			ArticleSummary struct {
				RichText []richText `json:"rich_text"`
			} `json:"ArticleSummary"`
			CommentSummary struct {
				RichText []richText `json:"rich_text"`
			} `json:"CommentSummary"`
			Author struct {
				RichText []richText `json:"rich_text"`
			} `json:"Author"`
			Score struct {
				Number int `json:"number"`
			} `json:"Score"`
			PostedAt struct {
				Date struct {
					Start string `json:"start"`
				} `json:"date"`
			} `json:"PostedAt"`
		} `json:"properties"`
	} `json:"results"`
}

// SummariesSince queries the records database for pages whose PostedAt falls
// after oldest, sorted descending by PostedAt.
func (c *Client) SummariesSince(ctx context.Context, oldest time.Time) ([]domain.SummaryRecord, error) {
	payload := map[string]any{
		"sorts": []map[string]any{
			{"property": propPostedAt, "direction": "descending"},
		},
		"filter": map[string]any{
			"and": []map[string]any{
				{
					"property": propPostedAt,
					"date":     map[string]any{"after": oldest.Format(time.RFC3339)},
				},
			},
		},
	}

	var parsed queryResponse
	if err := c.call(ctx, http.MethodPost, "/v1/databases/"+c.recordsDatabase+"/query", payload, &parsed); err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}

	records := make([]domain.SummaryRecord, 0, len(parsed.Results))
	for _, page := range parsed.Results {
		record := domain.SummaryRecord{
			URL:   page.Properties.URL.URL,
			Score: page.Properties.Score.Number,
		}
		if len(page.Properties.Name.Title) > 0 {
			record.Title = page.Properties.Name.Title[0].content()
		}
		if len(page.Properties.ArticleSummary.RichText) > 0 {
			record.ArticleSummary = page.Properties.ArticleSummary.RichText[0].content()
		}
		if len(page.Properties.CommentSummary.RichText) > 0 {
			record.CommentSummary = page.Properties.CommentSummary.RichText[0].content()
		}
		if len(page.Properties.Author.RichText) > 0 {
			record.Author = page.Properties.Author.RichText[0].content()
		}
		if start := page.Properties.PostedAt.Date.Start; start != "" {
			if t, err := time.Parse(time.RFC3339, start); err == nil {
				record.PostedAt = t
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// CreateDigest creates the digest page shell and returns its id; the body is
// attached afterwards via SetDigestContent and AppendDigestBlocks.
func (c *Client) CreateDigest(ctx context.Context, doc domain.DigestDocument) (string, error) {
	status := map[string]any{"name": statusDraft}
	payload := map[string]any{
		"parent": map[string]any{"database_id": c.digestDatabase},
		"properties": map[string]any{
			propName:   map[string]any{"title": textValue(doc.Title)},
			propStatus: map[string]any{"status": status},
			propGeneratedAt: map[string]any{
				"date": map[string]any{"start": doc.GeneratedAt.Format(time.RFC3339)},
			},
		},
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.call(ctx, http.MethodPost, "/v1/pages", payload, &created); err != nil {
		return "", fmt.Errorf("create digest page: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("create digest page: store returned no id")
	}
	return created.ID, nil
}

// SetDigestContent writes the primary chunk into the page's Content field.
func (c *Client) SetDigestContent(ctx context.Context, pageID, content string) error {
	payload := map[string]any{
		"properties": map[string]any{
			propContent: map[string]any{"rich_text": textValue(content)},
		},
	}

	if err := c.call(ctx, http.MethodPatch, "/v1/pages/"+pageID, payload, nil); err != nil {
		return fmt.Errorf("set digest content: %w", err)
	}
	return nil
}

// AppendDigestBlocks appends one paragraph block per overflow chunk, in order.
func (c *Client) AppendDigestBlocks(ctx context.Context, pageID string, blocks []string) error {
	if len(blocks) == 0 {
		return nil
	}

	children := make([]map[string]any, 0, len(blocks))
	for _, block := range blocks {
		children = append(children, map[string]any{
			"object": "block",
			"type":   "paragraph",
			"paragraph": map[string]any{
				"rich_text": textValue(block),
			},
		})
	}

	payload := map[string]any{"children": children}
	if err := c.call(ctx, http.MethodPatch, "/v1/blocks/"+pageID+"/children", payload, nil); err != nil {
		return fmt.Errorf("append digest blocks: %w", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, payload, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("store error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
