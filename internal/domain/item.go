package domain

import "time"

// Item is a ranked entry fetched from the content source. Fields other than
// ID may be absent upstream and stay zero-valued.
type Item struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
	By    string `json:"by"`
	Time  int64  `json:"time"`
	Kids  []int  `json:"kids"`
	Score int    `json:"score"`
}

// PostedAt converts the source epoch timestamp to wall-clock time.
func (i Item) PostedAt() time.Time {
	return time.Unix(i.Time, 0).UTC()
}

// SummaryRecord is the persisted result of collecting one item: both
// summaries plus the metadata needed to rank and render it later.
type SummaryRecord struct {
	Title          string
	URL            string
	ArticleSummary string
	CommentSummary string
	Author         string
	Score          int
	PostedAt       time.Time
}

// DigestDocument is one composed weekly roll-up. Primary holds the header
// plus the top-ranked section; Overflow carries the remaining sections as
// separate appended blocks, in render order.
type DigestDocument struct {
	Title       string
	Primary     string
	Overflow    []string
	GeneratedAt time.Time
	Draft       bool
}
