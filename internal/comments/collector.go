package comments

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"HNDigest/internal/ports"
)

// maxDepth allows two recursion levels beyond the root. A hard bound, not a
// knob: it caps fan-out times depth fetch cost on pathological trees.
const maxDepth = 2

// Collector walks an item's reply tree and flattens it into attributed
// lines. Each top-level sibling yields one string; descendants are embedded
// in their parent's string, newline-joined.
type Collector struct {
	source ports.ContentSource
}

// NewCollector wires the content source used for comment fetches.
func NewCollector(source ports.ContentSource) *Collector {
	return &Collector{source: source}
}

// Collect fetches the identified comments up to maxDepth and renders each
// present, non-empty node as "<author>: <text>". Sibling order follows the
// input id order regardless of fetch completion timing; a node's rendering
// is a contiguous block. Absent or textless nodes are dropped entirely,
// along with their descendants. Transport errors propagate.
func (c *Collector) Collect(ctx context.Context, ids []int, depth int) ([]string, error) {
	if depth > maxDepth || len(ids) == 0 {
		return nil, nil
	}

	type result struct {
		line string
		ok   bool
		err  error
	}

	// Scatter the sibling fetches, gather by index so ordering is restored
	// by position, not completion time.
	results := make([]result, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()

			comment, err := c.source.Item(ctx, id)
			if err != nil {
				results[i] = result{err: fmt.Errorf("comment %d: %w", id, err)}
				return
			}
			if comment == nil || comment.Text == "" {
				return
			}

			children, err := c.Collect(ctx, comment.Kids, depth+1)
			if err != nil {
				results[i] = result{err: err}
				return
			}

			line := fmt.Sprintf("%s: %s", comment.By, comment.Text)
			if len(children) > 0 {
				line += "\n" + strings.Join(children, "\n")
			}
			results[i] = result{line: line, ok: true}
		}(i, id)
	}
	wg.Wait()

	var lines []string
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		if r.ok {
			lines = append(lines, r.line)
		}
	}
	return lines, nil
}
