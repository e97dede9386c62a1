package summarize

import (
	"context"
	"strings"
	"testing"

	"HNDigest/internal/domain"
)

// countingCompleter records every call and echoes a canned reply.
type countingCompleter struct {
	calls   int
	lastSys string
	lastUsr string
	reply   string
	err     error
}

func (c *countingCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	c.calls++
	c.lastSys = system
	c.lastUsr = user
	return c.reply, c.err
}

func TestCommentsShortCircuitsWithoutServiceCall(t *testing.T) {
	t.Parallel()

	completer := &countingCompleter{reply: "should not be used"}
	s := New(completer)

	got, err := s.Comments(context.Background(), nil)
	if err != nil {
		t.Fatalf("Comments error: %v", err)
	}
	if got != NoCommentsPlaceholder {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if completer.calls != 0 {
		t.Fatalf("expected zero service calls, got %d", completer.calls)
	}
}

func TestCommentsCapsPromptAtFiveBlocks(t *testing.T) {
	t.Parallel()

	completer := &countingCompleter{reply: "  要約です  "}
	s := New(completer)

	rendered := []string{"a: 1", "b: 2", "c: 3", "d: 4", "e: 5", "f: 6", "g: 7"}
	got, err := s.Comments(context.Background(), rendered)
	if err != nil {
		t.Fatalf("Comments error: %v", err)
	}

	if got != "要約です" {
		t.Fatalf("expected trimmed reply, got %q", got)
	}
	if completer.calls != 1 {
		t.Fatalf("expected one service call, got %d", completer.calls)
	}
	if !strings.Contains(completer.lastUsr, "e: 5") {
		t.Fatalf("fifth block missing from prompt: %q", completer.lastUsr)
	}
	if strings.Contains(completer.lastUsr, "f: 6") {
		t.Fatalf("sixth block should not reach the prompt: %q", completer.lastUsr)
	}
}

func TestArticlePromptCarriesItemContext(t *testing.T) {
	t.Parallel()

	completer := &countingCompleter{reply: "記事の要約"}
	s := New(completer)

	item := domain.Item{
		Title: "Go 1.25 Released",
		URL:   "https://example.org/go",
		By:    "gopher",
		Score: 321,
		Time:  1700000000,
	}

	got, err := s.Article(context.Background(), item, "body text")
	if err != nil {
		t.Fatalf("Article error: %v", err)
	}
	if got != "記事の要約" {
		t.Fatalf("unexpected summary: %q", got)
	}

	for _, want := range []string{"Go 1.25 Released", "body text", "gopher", "321", "https://example.org/go"} {
		if !strings.Contains(completer.lastUsr, want) {
			t.Fatalf("prompt missing %q:\n%s", want, completer.lastUsr)
		}
	}
	if !strings.Contains(completer.lastSys, "編集者") {
		t.Fatalf("unexpected system prompt: %q", completer.lastSys)
	}
}

func TestArticlePromptUsesPlaceholderForMissingURL(t *testing.T) {
	t.Parallel()

	completer := &countingCompleter{reply: "ok"}
	s := New(completer)

	item := domain.Item{Title: "Ask HN", By: "someone"}
	if _, err := s.Article(context.Background(), item, "inline"); err != nil {
		t.Fatalf("Article error: %v", err)
	}

	if !strings.Contains(completer.lastUsr, "URL: なし") {
		t.Fatalf("expected URL placeholder in prompt:\n%s", completer.lastUsr)
	}
}

type fixedExtractor struct {
	text string
}

func (f fixedExtractor) Extract(ctx context.Context, url string) string { return f.text }

func TestArticleTextPrefersURLExtract(t *testing.T) {
	t.Parallel()

	item := domain.Item{URL: "https://example.org", Text: "inline body"}
	got := ArticleText(context.Background(), fixedExtractor{text: "extracted"}, item)
	if got != "extracted" {
		t.Fatalf("expected extract to win, got %q", got)
	}

	item.URL = ""
	got = ArticleText(context.Background(), fixedExtractor{text: "extracted"}, item)
	if got != "inline body" {
		t.Fatalf("expected inline text fallback, got %q", got)
	}
}
