package summarize

import (
	"context"
	"fmt"
	"strings"

	"HNDigest/internal/domain"
	"HNDigest/internal/ports"
)

// NoCommentsPlaceholder is stored verbatim when an item has no rendered
// comments; the digest composer keys off it to omit the comment block.
const NoCommentsPlaceholder = "コメントはありません"

// commentBatchSize caps how many rendered comment blocks reach the prompt.
const commentBatchSize = 5

const (
	articleSystemPrompt = "あなたは日本語が得意な編集者です。英語の記事を読みやすく自然な日本語で要約してください。記事の詳細リンクは必要ありません。"
	commentSystemPrompt = "あなたは日本語が得意な編集者です。英語のコメントを読みやすく自然な日本語で要約してください。"
)

// Summarizer builds the two prompt shapes and forwards them to the
// text-generation service. Service failures propagate: the caller aborts
// the item rather than persist a partial record.
type Summarizer struct {
	completer ports.Completer
}

// New wires the completion client.
func New(completer ports.Completer) *Summarizer {
	return &Summarizer{completer: completer}
}

// Article summarizes the item against its extracted text, targeting 400
// characters of Japanese without a link back to the source.
func (s *Summarizer) Article(ctx context.Context, item domain.Item, articleText string) (string, error) {
	url := item.URL
	if url == "" {
		url = "なし"
	}

	prompt := fmt.Sprintf(`以下はHacker Newsの技術記事の情報です。日本語で400字以内に要約してください。記事の詳細リンクは必要ありません。

タイトル: %s
本文: %s
投稿者: %s
スコア: %d
投稿日時: %s
URL: %s`,
		item.Title,
		articleText,
		item.By,
		item.Score,
		item.PostedAt().Format("2006/01/02 15:04:05"),
		url,
	)

	text, err := s.completer.Complete(ctx, articleSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize article %q: %w", item.Title, err)
	}
	return strings.TrimSpace(text), nil
}

// Comments summarizes at most the first five rendered comment blocks into
// 200 characters of Japanese. With no comments it short-circuits to the
// placeholder without calling the service.
func (s *Summarizer) Comments(ctx context.Context, rendered []string) (string, error) {
	if len(rendered) == 0 {
		return NoCommentsPlaceholder, nil
	}

	batch := rendered
	if len(batch) > commentBatchSize {
		batch = batch[:commentBatchSize]
	}

	prompt := fmt.Sprintf(`以下はHacker Newsの記事に対するコメントです。日本語で200字以内に要約してください。

コメント:
%s`, strings.Join(batch, "\n\n"))

	text, err := s.completer.Complete(ctx, commentSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize comments: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// ArticleText picks the source text for the article prompt: the extract of
// the item's URL when one exists, else the item's own inline text.
func ArticleText(ctx context.Context, extractor ports.Extractor, item domain.Item) string {
	if item.URL != "" {
		return extractor.Extract(ctx, item.URL)
	}
	return item.Text
}
