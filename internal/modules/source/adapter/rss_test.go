package adapter

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/news-highlights/internal/modules/source/domain"
	"github.com/reshetovitsme/news-highlights/internal/shared/errors"
)

func renderFeed(t *testing.T, title string, atom bool, items ...*feeds.Item) string {
	t.Helper()
	feed := &feeds.Feed{
		Title:   title,
		Link:    &feeds.Link{Href: "https://news.example.com"},
		Created: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Items:   items,
	}
	var (
		out string
		err error
	)
	if atom {
		out, err = feed.ToAtom()
	} else {
		out, err = feed.ToRss()
	}
	if err != nil {
		t.Fatalf("render feed: %v", err)
	}
	return out
}

func serveString(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
}

func TestRSS_Fetch_ParsesRSSFeed(t *testing.T) {
	published := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	body := renderFeed(t, "Example News", false,
		&feeds.Item{Title: "Hello", Link: &feeds.Link{Href: "https://news.example.com/hello"}, Created: published},
		&feeds.Item{Title: "Undated", Link: &feeds.Link{Href: "https://news.example.com/undated"}},
	)
	server := serveString(body)
	defer server.Close()

	items, err := NewRSS().Fetch(context.Background(), domain.SourceConfig{Name: "example", Kind: domain.SourceKindRss, URL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Hello" || items[0].URL != "https://news.example.com/hello" {
		t.Errorf("unexpected item: %+v", items[0])
	}
	if !items[0].PublishedAt.Equal(published) {
		t.Errorf("PublishedAt = %v, want %v", items[0].PublishedAt, published)
	}
	if items[0].SourceLabel != "Example News" {
		t.Errorf("expected feed title as label, got %q", items[0].SourceLabel)
	}
	if !items[1].PublishedAt.IsZero() {
		t.Errorf("undated item should have zero PublishedAt, got %v", items[1].PublishedAt)
	}
}

func TestRSS_Fetch_ParsesAtomFeed(t *testing.T) {
	published := time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC)
	body := renderFeed(t, "Atom News", true,
		&feeds.Item{Title: "Atom entry", Link: &feeds.Link{Href: "https://news.example.com/atom"}, Created: published},
	)
	server := serveString(body)
	defer server.Close()

	items, err := NewRSS().Fetch(context.Background(), domain.SourceConfig{Name: "atom", URL: server.URL, Label: "Override"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].SourceLabel != "Override" {
		t.Errorf("configured label should win, got %q", items[0].SourceLabel)
	}
	if !items[0].PublishedAt.Equal(published) {
		t.Errorf("PublishedAt = %v, want %v", items[0].PublishedAt, published)
	}
}

func TestRSS_Fetch_SkipsItemsWithoutLink(t *testing.T) {
	const body = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <item><title>Has link</title><link>https://x.com/1</link></item>
    <item><title>No link</title></item>
    <item><title>Permalink guid</title><guid>https://x.com/guid</guid></item>
    <item><title>Opaque guid</title><guid isPermaLink="false">abc-123</guid></item>
  </channel>
</rss>`
	server := serveString(body)
	defer server.Close()

	items, err := NewRSS().Fetch(context.Background(), domain.SourceConfig{Name: "x", URL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 usable items, got %d: %+v", len(items), items)
	}
	if items[1].URL != "https://x.com/guid" {
		t.Errorf("expected guid fallback, got %q", items[1].URL)
	}
	if items[0].SourceLabel != "Unknown" {
		t.Errorf("untitled feed should be labelled Unknown, got %q", items[0].SourceLabel)
	}
}

func TestRSS_Fetch_RespectsLimit(t *testing.T) {
	var entries []*feeds.Item
	for i := 1; i <= 10; i++ {
		entries = append(entries, &feeds.Item{
			Title: fmt.Sprintf("Post %d", i),
			Link:  &feeds.Link{Href: fmt.Sprintf("https://x.com/%d", i)},
		})
	}
	server := serveString(renderFeed(t, "Many", false, entries...))
	defer server.Close()

	items, err := NewRSS().Fetch(context.Background(), domain.SourceConfig{Name: "many", URL: server.URL, Limit: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("expected 3 items, got %d", len(items))
	}
}

func TestRSS_Fetch_SendsCredentialHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t0k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `<rss version="2.0"><channel><item><title>Private</title><link>https://p.com/1</link></item></channel></rss>`)
	}))
	defer server.Close()

	src := domain.SourceConfig{Name: "private", URL: server.URL, TokenHeader: "Authorization", Token: "Bearer t0k"}
	items, err := NewRSS().Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestRSS_Fetch_ReturnsSourceErrorOnMalformedXML(t *testing.T) {
	server := serveString("this is not a feed")
	defer server.Close()

	_, err := NewRSS().Fetch(context.Background(), domain.SourceConfig{Name: "bad", URL: server.URL})
	if !stderrors.Is(err, errors.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestRSS_Fetch_ReturnsSourceErrorOnTransportFailure(t *testing.T) {
	server := serveString("")
	url := server.URL
	server.Close()

	_, err := NewRSS(WithRetries(0)).Fetch(context.Background(), domain.SourceConfig{Name: "down", URL: url})
	if !stderrors.Is(err, errors.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestRSS_Validate_RequiresTokenWhenHeaderConfigured(t *testing.T) {
	err := NewRSS().Validate(domain.SourceConfig{Name: "private", URL: "https://p.com/feed", TokenHeader: "Authorization"})
	if !errors.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if err := NewRSS().Validate(domain.SourceConfig{Name: "public", URL: "https://p.com/feed"}); err != nil {
		t.Fatalf("public feed should validate, got %v", err)
	}
}
