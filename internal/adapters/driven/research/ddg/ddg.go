// Package ddg provides a news source backed by DuckDuckGo. The news
// backend needs a per-query vqd token scraped from the search page; when
// the news backend fails, the client pauses briefly and falls back to the
// plain HTML text search, whose results carry placeholder source and date
// fields because that backend reports neither.
package ddg

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/livingcool/researchfirm/internal/core/domain"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
	"github.com/livingcool/researchfirm/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.NewsSource = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "https://duckduckgo.com"
	DefaultHTMLBaseURL = "https://html.duckduckgo.com"
	DefaultTimeout     = 20 * time.Second
	DefaultPause       = 2 * time.Second

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
)

// Config holds configuration for the DuckDuckGo client.
type Config struct {
	// BaseURL serves the vqd token page and the news.js backend.
	BaseURL string

	// HTMLBaseURL serves the plain HTML search used as fallback.
	HTMLBaseURL string

	// Timeout is the per-request timeout (default: 20s).
	Timeout time.Duration

	// Pause is how long to wait before the text-search fallback
	// (default: 2s).
	Pause time.Duration
}

// Client searches DuckDuckGo news with a text-search fallback.
type Client struct {
	client   *http.Client
	baseURL  string
	htmlBase string
	pause    time.Duration
	limiter  *rate.Limiter
}

// New creates a DuckDuckGo client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTMLBaseURL == "" {
		cfg.HTMLBaseURL = DefaultHTMLBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Pause == 0 {
		cfg.Pause = DefaultPause
	}
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:  cfg.BaseURL,
		htmlBase: cfg.HTMLBaseURL,
		pause:    cfg.Pause,
		limiter:  rate.NewLimiter(rate.Limit(1), 2),
	}
}

// Search returns up to max recent articles for the topic. News results are
// preferred; when the news backend fails the client falls back to text
// search after a pause.
func (c *Client) Search(ctx context.Context, topic string, max int) ([]domain.Article, error) {
	articles, err := c.searchNews(ctx, topic, max)
	if err == nil && len(articles) > 0 {
		return articles, nil
	}
	if err != nil {
		logger.Warn("News search failed: %v, falling back to text search", err)
	} else {
		logger.Warn("News search returned nothing, falling back to text search")
	}

	select {
	case <-time.After(c.pause):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return c.searchText(ctx, topic, max)
}

// newsResponse is the news.js JSON envelope.
type newsResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Source  string `json:"source"`
		Date    int64  `json:"date"`
		Excerpt string `json:"excerpt"`
	} `json:"results"`
}

// searchNews queries the news backend using a scraped vqd token.
func (c *Client) searchNews(ctx context.Context, topic string, max int) ([]domain.Article, error) {
	vqd, err := c.fetchVQD(ctx, topic)
	if err != nil {
		return nil, err
	}
	logger.Debug("DuckDuckGo vqd token: %s", vqd)

	params := url.Values{}
	params.Set("l", "wt-wt")
	params.Set("o", "json")
	params.Set("noamp", "1")
	params.Set("q", topic)
	params.Set("vqd", vqd)

	body, err := c.get(ctx, c.baseURL+"/news.js?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("news search: %w", err)
	}

	var resp newsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("news search: decode results: %w", err)
	}

	articles := make([]domain.Article, 0, len(resp.Results))
	for _, r := range resp.Results {
		if len(articles) >= max {
			break
		}
		articles = append(articles, domain.Article{
			Title:  r.Title,
			URL:    r.URL,
			Source: r.Source,
			Date:   formatEpoch(r.Date),
		})
	}
	logger.Debug("News search: %d articles", len(articles))
	return articles, nil
}

var (
	vqdPattern = regexp.MustCompile(`vqd=['"]?([\d-]+)`)

	// resultLink matches anchors in the HTML search results page.
	resultLink = regexp.MustCompile(`(?is)<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	allTags    = regexp.MustCompile(`<[^>]+>`)
)

// fetchVQD scrapes the per-query token the news backend requires.
func (c *Client) fetchVQD(ctx context.Context, topic string) (string, error) {
	body, err := c.get(ctx, c.baseURL+"/?q="+url.QueryEscape(topic))
	if err != nil {
		return "", fmt.Errorf("fetch vqd: %w", err)
	}
	m := vqdPattern.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("fetch vqd: token not found in response")
	}
	return string(m[1]), nil
}

// searchText queries the plain HTML search. The backend reports no
// publisher or date, so results carry placeholders.
func (c *Client) searchText(ctx context.Context, topic string, max int) ([]domain.Article, error) {
	body, err := c.get(ctx, c.htmlBase+"/html/?q="+url.QueryEscape(topic))
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	matches := resultLink.FindAllSubmatch(body, -1)
	articles := make([]domain.Article, 0, len(matches))
	for _, m := range matches {
		if len(articles) >= max {
			break
		}
		title := strings.TrimSpace(html.UnescapeString(allTags.ReplaceAllString(string(m[2]), "")))
		link := resolveRedirect(html.UnescapeString(string(m[1])))
		if title == "" || link == "" {
			continue
		}
		articles = append(articles, domain.Article{
			Title:  title,
			URL:    link,
			Source: "Web Search",
			Date:   "Recent",
		})
	}
	logger.Debug("Text search: %d articles", len(articles))
	return articles, nil
}

// get performs a rate-limited GET and returns the body.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links to the
// target URL. Direct links pass through unchanged.
func resolveRedirect(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return link
}

// formatEpoch renders the news backend's epoch dates as calendar dates.
func formatEpoch(epoch int64) string {
	if epoch <= 0 {
		return "Recent"
	}
	return time.Unix(epoch, 0).UTC().Format("2006-01-02")
}
