package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"NewsClipper/internal/config"
	"NewsClipper/internal/domain"
	"NewsClipper/internal/ports"
)

const apiVersion = "2022-06-28"

// Client talks to the Notion HTTP API. It serves both sink roles: creating
// one page per accepted record and archiving a collection's existing pages
// before a run.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

var (
	_ ports.RecordSink   = (*Client)(nil)
	_ ports.StoreCleaner = (*Client)(nil)
)

// New wires token and endpoint from configuration.
func New(cfg config.NotionConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Persist creates one database page for the accepted record. The tag goes
// into a multi-select property but always holds exactly one label.
func (c *Client) Persist(ctx context.Context, collection string, rec domain.AcceptedRecord) error {
	if c.token == "" {
		return fmt.Errorf("notion client misconfigured")
	}

	properties := map[string]any{
		"Title": map[string]any{
			"title": []map[string]any{
				{"text": map[string]any{"content": rec.DisplayTitle}},
			},
		},
		"URL": map[string]any{"url": rec.URL},
		"Tag": map[string]any{
			"multi_select": []map[string]any{{"name": rec.Tag}},
		},
	}
	if !rec.PublishedDate.IsZero() {
		properties["Date"] = map[string]any{
			"date": map[string]any{"start": rec.PublishedDate.Format("2006-01-02")},
		}
	}

	payload := map[string]any{
		"parent":     map[string]any{"database_id": collection},
		"properties": properties,
	}
	if rec.CoverImage != "" {
		payload["cover"] = map[string]any{
			"type":     "external",
			"external": map[string]any{"url": rec.CoverImage},
		}
	}

	return c.do(ctx, http.MethodPost, "/v1/pages", payload, nil)
}

// Clear archives every page currently in the collection, page by page.
func (c *Client) Clear(ctx context.Context, collection string) error {
	if c.token == "" {
		return fmt.Errorf("notion client misconfigured")
	}

	cursor := ""
	archived := 0
	for {
		body := map[string]any{"page_size": 100}
		if cursor != "" {
			body["start_cursor"] = cursor
		}

		var page queryResponse
		path := fmt.Sprintf("/v1/databases/%s/query", collection)
		if err := c.do(ctx, http.MethodPost, path, body, &page); err != nil {
			return fmt.Errorf("query collection: %w", err)
		}

		for _, result := range page.Results {
			patch := map[string]any{"archived": true}
			if err := c.do(ctx, http.MethodPatch, "/v1/pages/"+result.ID, patch, nil); err != nil {
				return fmt.Errorf("archive page %s: %w", result.ID, err)
			}
			archived++
		}

		if !page.HasMore || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	c.logger.Debug("collection cleared", "collection", collection, "archived", archived)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("notion error: %s", resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

type queryResponse struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}
