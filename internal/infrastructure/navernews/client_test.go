package navernews

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"NewsClipper/internal/config"
)

func newTestClient(endpoint string) *Client {
	return New(config.SearchConfig{
		Endpoint:     endpoint,
		ClientID:     "id",
		ClientSecret: "secret",
	}, nil)
}

func TestSearchMergesSortModes(t *testing.T) {
	t.Parallel()

	var gotHeaders []http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = append(gotHeaders, r.Header.Clone())
		if got := r.URL.Query().Get("query"); got != "SKT" {
			t.Errorf("query = %q, want SKT", got)
		}

		switch r.URL.Query().Get("sort") {
		case "date":
			fmt.Fprint(w, `{"items": [
				{"title": "첫 기사", "originallink": "https://n.example.com/1", "link": "https://proxy.example.com/1", "pubDate": "Mon, 10 Nov 2025 09:00:00 +0900"},
				{"title": "둘째 기사", "originallink": "https://n.example.com/2", "pubDate": "Mon, 10 Nov 2025 08:00:00 +0900"}
			]}`)
		case "sim":
			fmt.Fprint(w, `{"items": [
				{"title": "둘째 기사", "originallink": "https://n.example.com/2", "pubDate": "Mon, 10 Nov 2025 08:00:00 +0900"},
				{"title": "셋째 기사", "link": "https://n.example.com/3", "pubDate": "not a date"}
			]}`)
		default:
			t.Errorf("unexpected sort %q", r.URL.Query().Get("sort"))
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	got, err := client.Search(context.Background(), "SKT", 50)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	// Date-sorted batch first, then the relevance batch minus the URL repeat.
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3: %+v", len(got), got)
	}
	if got[0].URL != "https://n.example.com/1" {
		t.Errorf("candidate 0 URL = %q, want originallink", got[0].URL)
	}
	if got[1].URL != "https://n.example.com/2" {
		t.Errorf("candidate 1 URL = %q", got[1].URL)
	}
	if got[2].URL != "https://n.example.com/3" {
		t.Errorf("candidate 2 URL = %q, want link fallback", got[2].URL)
	}

	wantPublished := time.Date(2025, 11, 10, 9, 0, 0, 0, time.FixedZone("", 9*3600))
	if !got[0].PublishedAt.Equal(wantPublished) {
		t.Errorf("candidate 0 PublishedAt = %v, want %v", got[0].PublishedAt, wantPublished)
	}
	// Unparseable pubDate stays zero instead of failing the batch.
	if !got[2].PublishedAt.IsZero() {
		t.Errorf("candidate 2 PublishedAt = %v, want zero", got[2].PublishedAt)
	}
	if got[0].SourceQuery != "SKT" {
		t.Errorf("SourceQuery = %q", got[0].SourceQuery)
	}

	if len(gotHeaders) != 2 {
		t.Fatalf("got %d requests, want 2", len(gotHeaders))
	}
	for _, h := range gotHeaders {
		if h.Get("X-Naver-Client-Id") != "id" || h.Get("X-Naver-Client-Secret") != "secret" {
			t.Errorf("credential headers missing: %v", h)
		}
	}
}

func TestSearchErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Search(context.Background(), "KT", 10); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestSearchRequiresCredentials(t *testing.T) {
	t.Parallel()

	client := New(config.SearchConfig{Endpoint: "http://unused.invalid"}, nil)
	if _, err := client.Search(context.Background(), "KT", 10); err == nil {
		t.Fatal("expected error without credentials")
	}
}
