package ports

import (
	"context"
	"time"

	"HNDigest/internal/domain"
)

// ContentSource pulls the ranked id list and individual records from the
// discussion API. Item returns (nil, nil) for an absent record; missing
// fields are not an error.
type ContentSource interface {
	TopItemIDs(ctx context.Context, limit int) ([]int, error)
	Item(ctx context.Context, id int) (*domain.Item, error)
}

// Extractor produces a plain-text approximation of the article behind a URL.
// Failures degrade to an empty string, never an error.
type Extractor interface {
	Extract(ctx context.Context, url string) string
}

// Completer sends one prompt pair to the text-generation service and returns
// the trimmed text of the first response.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// DocumentStore creates and reads records in the external document database.
type DocumentStore interface {
	CreateSummary(ctx context.Context, record domain.SummaryRecord) error
	SummariesSince(ctx context.Context, oldest time.Time) ([]domain.SummaryRecord, error)
	CreateDigest(ctx context.Context, doc domain.DigestDocument) (pageID string, err error)
	SetDigestContent(ctx context.Context, pageID, content string) error
	AppendDigestBlocks(ctx context.Context, pageID string, blocks []string) error
}

// Archive mirrors persisted records into local storage for audit/inspection.
type Archive interface {
	SaveRecord(ctx context.Context, record domain.SummaryRecord) error
	RecentRecords(ctx context.Context, limit int) ([]domain.SummaryRecord, error)
}

// Scheduler controls when collection runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
