package navernews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"NewsClipper/internal/config"
	"NewsClipper/internal/domain"
	"NewsClipper/internal/ports"
)

// pubDate format used by the news search API, e.g. "Mon, 02 Jan 2006 15:04:05 +0900".
const pubDateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// Both sort modes are queried and merged: recency first for the short-window
// categories, relevance to backfill what a pure date sort misses.
var sortModes = []string{"date", "sim"}

// Client implements ports.SearchSource against the Naver Open API news search.
type Client struct {
	endpoint     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *slog.Logger
}

var _ ports.SearchSource = (*Client)(nil)

// New wires credentials and endpoint from configuration.
func New(cfg config.SearchConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:     cfg.Endpoint,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		logger:       logger,
	}
}

// Name identifies the source inside the registry.
func (c *Client) Name() string {
	return "naver"
}

// Search runs the query under every sort mode and merges the batches in a
// deterministic order, dropping exact URL repeats between the two sorts.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, fmt.Errorf("naver search credentials missing")
	}
	if limit <= 0 {
		limit = 50
	}

	seen := map[string]struct{}{}
	var out []domain.Candidate
	for _, mode := range sortModes {
		items, err := c.search(ctx, query, limit, mode)
		if err != nil {
			return nil, fmt.Errorf("sort %s: %w", mode, err)
		}
		for _, item := range items {
			if _, dup := seen[item.URL]; dup {
				continue
			}
			seen[item.URL] = struct{}{}
			out = append(out, item)
		}
	}
	return out, nil
}

func (c *Client) search(ctx context.Context, query string, limit int, sort string) ([]domain.Candidate, error) {
	reqURL := fmt.Sprintf("%s?query=%s&display=%d&sort=%s",
		c.endpoint, url.QueryEscape(query), limit, sort)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("search returned %s", resp.Status)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(payload.Items))
	for _, item := range payload.Items {
		link := item.OriginalLink
		if link == "" {
			link = item.Link
		}
		if link == "" {
			continue
		}

		published, err := time.Parse(pubDateLayout, item.PubDate)
		if err != nil {
			// Left as the zero time; the engine treats it as not recent.
			c.logger.Debug("unparseable pubDate", "value", item.PubDate, "url", link)
			published = time.Time{}
		}

		candidates = append(candidates, domain.Candidate{
			RawTitle:    item.Title,
			URL:         link,
			PublishedAt: published,
			SourceQuery: query,
		})
	}
	return candidates, nil
}

type searchResponse struct {
	Items []struct {
		Title        string `json:"title"`
		OriginalLink string `json:"originallink"`
		Link         string `json:"link"`
		PubDate      string `json:"pubDate"`
	} `json:"items"`
}
