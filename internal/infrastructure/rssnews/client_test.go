package rssnews

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"NewsClipper/internal/config"
)

const feedBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>검색 결과</title>
<item>
  <title>알뜰폰 가입자 천만 돌파</title>
  <link>https://n.example.com/1</link>
  <pubDate>Mon, 10 Nov 2025 09:00:00 GMT</pubDate>
</item>
<item>
  <title>스마텔 신규 요금제</title>
  <link>https://n.example.com/2</link>
  <pubDate>Sun, 09 Nov 2025 12:00:00 GMT</pubDate>
</item>
<item>
  <title>프리텔레콤 이벤트</title>
  <link>https://n.example.com/3</link>
</item>
</channel>
</rss>`

func TestSearchParsesFeed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "알뜰폰" {
			t.Errorf("q = %q, want 알뜰폰", got)
		}
		if got := r.URL.Query().Get("ceid"); got != "KR:ko" {
			t.Errorf("ceid = %q", got)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedBody)
	}))
	defer server.Close()

	client := New(config.SearchConfig{RSSEndpoint: server.URL}, nil)
	got, err := client.Search(context.Background(), "알뜰폰", 10)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3", len(got))
	}
	if got[0].RawTitle != "알뜰폰 가입자 천만 돌파" || got[0].URL != "https://n.example.com/1" {
		t.Errorf("candidate 0 = %+v", got[0])
	}
	want := time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)
	if !got[0].PublishedAt.Equal(want) {
		t.Errorf("candidate 0 PublishedAt = %v, want %v", got[0].PublishedAt, want)
	}
	// Item without pubDate keeps the zero time.
	if !got[2].PublishedAt.IsZero() {
		t.Errorf("candidate 2 PublishedAt = %v, want zero", got[2].PublishedAt)
	}
	if got[1].SourceQuery != "알뜰폰" {
		t.Errorf("SourceQuery = %q", got[1].SourceQuery)
	}
}

func TestSearchAppliesLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, feedBody)
	}))
	defer server.Close()

	client := New(config.SearchConfig{RSSEndpoint: server.URL}, nil)
	got, err := client.Search(context.Background(), "알뜰폰", 2)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
}

func TestSearchFeedError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(config.SearchConfig{RSSEndpoint: server.URL}, nil)
	if _, err := client.Search(context.Background(), "알뜰폰", 10); err == nil {
		t.Fatal("expected error for unavailable feed")
	}
}
