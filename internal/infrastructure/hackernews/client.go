package hackernews

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"HNDigest/internal/domain"
	"HNDigest/internal/ports"
)

// Client reads the Firebase-style ranking API: an ordered id list plus one
// JSON document per item. Deleted or unknown ids come back as a JSON null
// body, which is an absence, not an error.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.ContentSource = (*Client)(nil)

// NewClient wires the API base URL; client defaults to a 20s timeout.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{baseURL: baseURL, http: client}
}

// TopItemIDs returns at most limit ids from the ranked top-stories list,
// preserving rank order.
func (c *Client) TopItemIDs(ctx context.Context, limit int) ([]int, error) {
	var ids []int
	if err := c.get(ctx, c.baseURL+"/v0/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("top stories: %w", err)
	}

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// Item fetches a single record; (nil, nil) when the source has no such item.
func (c *Client) Item(ctx context.Context, id int) (*domain.Item, error) {
	var item *domain.Item
	if err := c.get(ctx, fmt.Sprintf("%s/v0/item/%d.json", c.baseURL, id), &item); err != nil {
		return nil, fmt.Errorf("item %d: %w", id, err)
	}
	return item, nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "HNDigest/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("source returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	// "null" unmarshals a *domain.Item target to nil, signalling absence.
	if err := json.Unmarshal(bytes.TrimSpace(body), v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}

	return nil
}
