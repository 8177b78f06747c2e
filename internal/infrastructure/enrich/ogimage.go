package enrich

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsClipper/internal/ports"
)

// OGImageResolver reads the og:image metadata of an accepted record's target
// page. Enrichment is cosmetic: dead links, error pages and missing metadata
// all fall back to the placeholder and never reject the record.
type OGImageResolver struct {
	httpClient  *http.Client
	placeholder string
	logger      *slog.Logger
}

var _ ports.CoverResolver = (*OGImageResolver)(nil)

// New wires an HTTP client and the fallback image URL.
func New(placeholder string, logger *slog.Logger) *OGImageResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &OGImageResolver{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		placeholder: placeholder,
		logger:      logger,
	}
}

// Resolve fetches the page and extracts its og:image URL.
func (r *OGImageResolver) Resolve(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return r.placeholder
	}
	req.Header.Set("User-Agent", "NewsClipper/1.0")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Debug("cover fetch failed", "url", pageURL, "error", err)
		return r.placeholder
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Debug("cover fetch failed", "url", pageURL, "status", resp.Status)
		return r.placeholder
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return r.placeholder
	}

	content, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	if !ok {
		return r.placeholder
	}
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "http://") && !strings.HasPrefix(content, "https://") {
		return r.placeholder
	}
	return content
}
