package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"HNDigest/internal/domain"
	"HNDigest/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS summary_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	url TEXT NOT NULL DEFAULT '',
	article_summary TEXT NOT NULL DEFAULT '',
	comment_summary TEXT NOT NULL DEFAULT '',
	author TEXT NOT NULL DEFAULT '',
	score INTEGER NOT NULL DEFAULT 0,
	posted_at INTEGER NOT NULL,
	archived_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_summary_records_archived ON summary_records(archived_at);
`

// SQLiteArchive mirrors each persisted SummaryRecord into a local database
// so a run's output can be inspected without store access. Plain inserts,
// no dedup: every run appends its own rows.
type SQLiteArchive struct {
	db *sql.DB
}

var _ ports.Archive = (*SQLiteArchive)(nil)

// Open creates (or opens) the archive file and ensures the schema exists.
func Open(path string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init archive schema: %w", err)
	}

	return &SQLiteArchive{db: db}, nil
}

// Close releases the underlying database handle.
func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}

// SaveRecord appends one record snapshot.
func (a *SQLiteArchive) SaveRecord(ctx context.Context, record domain.SummaryRecord) error {
	query, args, err := sq.Insert("summary_records").
		Columns("title", "url", "article_summary", "comment_summary", "author", "score", "posted_at", "archived_at").
		Values(
			record.Title,
			record.URL,
			record.ArticleSummary,
			record.CommentSummary,
			record.Author,
			record.Score,
			record.PostedAt.Unix(),
			time.Now().Unix(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// RecentRecords returns the latest archived records, newest first.
func (a *SQLiteArchive) RecentRecords(ctx context.Context, limit int) ([]domain.SummaryRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := sq.Select("title", "url", "article_summary", "comment_summary", "author", "score", "posted_at").
		From("summary_records").
		OrderBy("archived_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []domain.SummaryRecord
	for rows.Next() {
		var record domain.SummaryRecord
		var postedAt int64
		if err := rows.Scan(
			&record.Title,
			&record.URL,
			&record.ArticleSummary,
			&record.CommentSummary,
			&record.Author,
			&record.Score,
			&postedAt,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		record.PostedAt = time.Unix(postedAt, 0).UTC()
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return records, nil
}
