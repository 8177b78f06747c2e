package rssnews

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsClipper/internal/config"
	"NewsClipper/internal/domain"
	"NewsClipper/internal/ports"
)

// Client implements ports.SearchSource against a Google News style RSS
// search feed. The feed has no sort or result-size knobs; the limit is
// applied client-side.
type Client struct {
	endpoint string
	parser   *gofeed.Parser
	logger   *slog.Logger
}

var _ ports.SearchSource = (*Client)(nil)

// New builds the RSS source from configuration.
func New(cfg config.SearchConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 15 * time.Second}
	return &Client{
		endpoint: cfg.RSSEndpoint,
		parser:   parser,
		logger:   logger,
	}
}

// Name identifies the source inside the registry.
func (c *Client) Name() string {
	return "gnews"
}

// Search fetches and parses the keyword feed.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	if limit <= 0 {
		limit = 50
	}

	feedURL := fmt.Sprintf("%s?q=%s&hl=ko&gl=KR&ceid=KR:ko", c.endpoint, url.QueryEscape(query))
	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	candidates := make([]domain.Candidate, 0, limit)
	for _, item := range feed.Items {
		if len(candidates) >= limit {
			break
		}
		if item.Link == "" {
			continue
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.Published != "" {
			c.logger.Debug("unparseable published date", "value", item.Published, "url", item.Link)
		}

		candidates = append(candidates, domain.Candidate{
			RawTitle:    item.Title,
			URL:         item.Link,
			PublishedAt: published,
			SourceQuery: query,
		})
	}
	return candidates, nil
}
