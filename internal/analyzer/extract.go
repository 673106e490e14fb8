package analyzer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// PageContent is what gets extracted from a business website before
// summarization.
type PageContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

const maxContentLen = 5000

// Containers checked for main content when the page has no <article>.
var contentSelectors = []string{
	".main-content", "#content", ".article-body",
	".post-content", ".entry-content", ".content",
}

// Fetcher downloads a business URL and extracts its marketing-relevant text.
type Fetcher struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
}

func NewFetcher(timeoutMS, maxRetries int, log *zap.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		log:        log,
		maxRetries: maxRetries,
	}
}

// NormalizeURL prepends https:// when the scheme is missing, matching how the
// wizard's URL box accepts bare domains.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*PageContent, error) {
	url := NormalizeURL(rawURL)

	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		page, err := Extract(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return page, nil
	}

	return nil, fmt.Errorf("cannot reach website: %w", lastErr)
}

// Extract pulls the title, meta description and main text out of an HTML
// document. Content is looked up in <article>, then in common content
// containers, then falls back to joining all paragraphs.
func Extract(r io.Reader) (*PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	page := &PageContent{}

	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if page.Title == "" {
		page.Title = "Untitled"
	}

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		page.Description = strings.TrimSpace(desc)
	}

	var content string
	if article := doc.Find("article").First(); article.Length() > 0 {
		content = collapseText(article.Text())
	} else {
		for _, sel := range contentSelectors {
			if container := doc.Find(sel).First(); container.Length() > 0 {
				content = collapseText(container.Text())
				break
			}
		}
		if content == "" {
			var parts []string
			doc.Find("p").Each(func(_ int, s *goquery.Selection) {
				if t := strings.TrimSpace(s.Text()); t != "" {
					parts = append(parts, t)
				}
			})
			content = collapseText(strings.Join(parts, " "))
		}
	}

	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}
	page.Content = content

	return page, nil
}

func collapseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
