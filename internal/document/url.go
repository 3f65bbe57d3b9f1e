package document

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/gocolly/colly/v2"
)

// CrawlMaxDepth bounds link-following from the start URL. Depth 2 means the
// start page plus pages it links to directly.
const CrawlMaxDepth = 2

// Crawler fetches a site starting at one URL and converts each HTML page
// into cleaned, split chunks. Crawls stay on the start URL's host, skip
// fragment-only links, and stop when ctx is done.
type Crawler struct {
	timeout time.Duration
}

// NewCrawler creates a crawler whose individual page fetches are bounded by
// timeout.
func NewCrawler(timeout time.Duration) *Crawler {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Crawler{timeout: timeout}
}

// Load crawls starting at rawURL up to CrawlMaxDepth and returns the split,
// cleaned chunks of every fetched page. The start URL is the fallback source
// for pages where extraction yields no metadata.
func (c *Crawler) Load(ctx context.Context, rawURL string) ([]Chunk, error) {
	start, err := url.Parse(rawURL)
	if err != nil || start.Host == "" {
		return nil, fmt.Errorf("invalid url %q", rawURL)
	}

	collector := colly.NewCollector(
		colly.MaxDepth(CrawlMaxDepth),
		colly.AllowedDomains(start.Hostname()),
	)
	collector.SetRequestTimeout(c.timeout)

	var raw []Chunk

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := strings.TrimSpace(e.Attr("href"))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		_ = e.Request.Visit(href)
	})

	collector.OnResponse(func(r *colly.Response) {
		if !strings.Contains(r.Headers.Get("Content-Type"), "text/html") {
			return
		}
		pageURL := r.Request.URL
		title, text := extractText(r.Body, pageURL)
		if strings.TrimSpace(text) == "" {
			return
		}
		meta := map[string]string{
			MetaSource: pageURL.String(),
			MetaURL:    pageURL.String(),
		}
		if title != "" {
			meta[MetaTitle] = title
		}
		raw = append(raw, Chunk{PageContent: text, Metadata: meta})
	})

	if err := collector.Visit(start.String()); err != nil {
		return nil, fmt.Errorf("crawling %q: %w", rawURL, err)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("crawling %q: %w", rawURL, ctx.Err())
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("crawl of %q fetched no readable pages", rawURL)
	}

	split := NewSplitter(ChunkSize, ChunkOverlap).SplitChunks(raw)
	return Clean(split, rawURL), nil
}

// extractText pulls the readable text out of an HTML page, preferring
// readability extraction and falling back to stripped body text.
func extractText(body []byte, pageURL *url.URL) (title, text string) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return article.Title, article.TextContent
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", ""
	}
	doc.Find("script, style, noscript").Remove()
	title = strings.TrimSpace(doc.Find("title").First().Text())
	text = normalizeWhitespace(doc.Find("body").Text())
	return title, text
}

// normalizeWhitespace collapses runs of blank lines and trims each line.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
