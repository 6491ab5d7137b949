// Package arxiv provides a paper source backed by the arXiv Atom API.
// arXiv asks clients to stay under one request every three seconds, so all
// calls go through a shared rate limiter.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/livingcool/researchfirm/internal/core/domain"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
	"github.com/livingcool/researchfirm/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.PaperSource = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://export.arxiv.org/api/query"
	DefaultPDFBase = "http://arxiv.org/pdf"
	DefaultTimeout = 30 * time.Second

	// requestsPerSecond respects arXiv's published usage policy of one
	// request per three seconds.
	requestsPerSecond = 1.0 / 3.0
)

// Config holds configuration for the arXiv client.
type Config struct {
	// BaseURL is the query API endpoint (default: export.arxiv.org).
	BaseURL string

	// PDFBase is the PDF download base URL (default: arxiv.org/pdf).
	PDFBase string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Client searches arXiv and downloads paper PDFs.
type Client struct {
	client  *http.Client
	baseURL string
	pdfBase string
	limiter *rate.Limiter
}

// New creates an arXiv client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PDFBase == "" {
		cfg.PDFBase = DefaultPDFBase
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		pdfBase: cfg.PDFBase,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// atomFeed is the arXiv API response envelope.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

// atomEntry is one paper in the feed.
type atomEntry struct {
	ID      string     `xml:"id"`
	Title   string     `xml:"title"`
	Summary string     `xml:"summary"`
	Links   []atomLink `xml:"link"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// Search queries arXiv for papers matching the topic, ordered by relevance.
func (c *Client) Search(ctx context.Context, topic string, max int) ([]domain.Paper, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("arxiv: rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("search_query", "all:"+topic)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", max))
	params.Set("sortBy", "relevance")
	params.Set("sortOrder", "descending")

	reqURL := c.baseURL + "?" + params.Encode()
	logger.Debug("arXiv query: %s", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("arxiv: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv: API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("arxiv: read response: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("arxiv: decode feed: %w", err)
	}

	papers := make([]domain.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		papers = append(papers, domain.Paper{
			ID:       entryID(entry.ID),
			Title:    collapseWhitespace(entry.Title),
			Abstract: collapseWhitespace(entry.Summary),
			PDFURL:   pdfLink(entry.Links),
		})
	}
	logger.Debug("arXiv returned %d papers", len(papers))
	return papers, nil
}

// FetchPDF downloads the PDF for the given paper ID.
func (c *Client) FetchPDF(ctx context.Context, id string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("arxiv: rate limit wait: %w", err)
	}

	pdfURL := c.pdfBase + "/" + id
	logger.Debug("Downloading PDF: %s", pdfURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("arxiv: create pdf request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv: download pdf: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv: pdf download returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("arxiv: read pdf: %w", err)
	}
	return raw, nil
}

// entryID strips the abs URL prefix from an Atom entry ID, leaving the bare
// arXiv identifier like "2401.12345v2".
func entryID(raw string) string {
	if i := strings.LastIndex(raw, "/abs/"); i >= 0 {
		return raw[i+len("/abs/"):]
	}
	return raw
}

// pdfLink finds the PDF link in an entry's link list, if present.
func pdfLink(links []atomLink) string {
	for _, l := range links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	return ""
}

// collapseWhitespace folds the newline-wrapped text arXiv returns into a
// single line.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
