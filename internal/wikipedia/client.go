// Package wikipedia talks to the MediaWiki action API and resolves search
// phrases to a single article.
package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
)

var (
	// ErrNetwork wraps transport failures and non-2xx responses.
	ErrNetwork = errors.New("wikipedia request failed")
	// ErrNotFound is returned when a phrase matches no article at all.
	ErrNotFound = errors.New("no matching article")
	// ErrPageNotFound is returned when a chosen title does not resolve to a page.
	ErrPageNotFound = errors.New("page not found")
)

// APIError is an error object returned in a MediaWiki response body.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wikipedia api error %s: %s", e.Code, e.Info)
}

// Hit is one full-text search result.
type Hit struct {
	Title   string
	Snippet string
}

// SearchResult holds the hits of a search along with the spelling suggestion
// the API offers, if any.
type SearchResult struct {
	Hits       []Hit
	Suggestion string
	TotalHits  int
}

// Page is a resolved article.
type Page struct {
	PageID         int
	Title          string
	URL            string
	Extract        string
	Disambiguation bool
}

// Client is a MediaWiki API client.
type Client struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

// NewClient creates a client for the given api.php endpoint. A nil httpClient
// gets a default one with the given timeout.
func NewClient(endpoint, userAgent string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint:  endpoint,
		userAgent: userAgent,
		client:    httpClient,
	}
}

// Search runs a full-text search and returns at most limit hits.
func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(limit))
	params.Set("srprop", "snippet")
	params.Set("srinfo", "suggestion|totalhits")

	var resp struct {
		Query struct {
			SearchInfo struct {
				TotalHits  int    `json:"totalhits"`
				Suggestion string `json:"suggestion"`
			} `json:"searchinfo"`
			Search []struct {
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	result := &SearchResult{
		Suggestion: resp.Query.SearchInfo.Suggestion,
		TotalHits:  resp.Query.SearchInfo.TotalHits,
	}
	for _, h := range resp.Query.Search {
		result.Hits = append(result.Hits, Hit{
			Title:   h.Title,
			Snippet: snippetText(h.Snippet),
		})
	}
	return result, nil
}

// Suggest asks the title-completion endpoint for the closest article title.
// It returns an empty string when nothing is suggested.
func (c *Client) Suggest(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", "1")
	params.Set("namespace", "0")
	params.Set("redirects", "resolve")

	// [query, [titles], [descriptions], [urls]]
	var resp []any
	if err := c.get(ctx, params, &resp); err != nil {
		return "", err
	}
	if len(resp) < 2 {
		return "", nil
	}
	titles, ok := resp[1].([]any)
	if !ok || len(titles) == 0 {
		return "", nil
	}
	title, _ := titles[0].(string)
	return title, nil
}

// Page loads the plain-text lead section of an article, following redirects.
func (c *Client) Page(ctx context.Context, title string) (*Page, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts|info|pageprops")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("inprop", "url")
	params.Set("ppprop", "disambiguation")
	params.Set("redirects", "1")
	params.Set("titles", title)

	var resp struct {
		Query struct {
			Pages []struct {
				PageID    int            `json:"pageid"`
				Title     string         `json:"title"`
				Extract   string         `json:"extract"`
				FullURL   string         `json:"fullurl"`
				Missing   bool           `json:"missing"`
				Invalid   bool           `json:"invalid"`
				PageProps map[string]any `json:"pageprops"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Query.Pages) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrPageNotFound, title)
	}
	p := resp.Query.Pages[0]
	if p.Missing || p.Invalid {
		return nil, fmt.Errorf("%w: %q", ErrPageNotFound, title)
	}

	_, disambiguation := p.PageProps["disambiguation"]
	return &Page{
		PageID:         p.PageID,
		Title:          p.Title,
		URL:            p.FullURL,
		Extract:        p.Extract,
		Disambiguation: disambiguation,
	}, nil
}

// Options returns the article titles listed on a disambiguation page, in the
// order they appear in the rendered page.
func (c *Client) Options(ctx context.Context, title string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", title)
	params.Set("prop", "text")
	params.Set("redirects", "1")

	var resp struct {
		Parse struct {
			Text string `json:"text"`
		} `json:"parse"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.Parse.Text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page html: %w", err)
	}

	var titles []string
	seen := map[string]bool{}
	doc.Find(`li a[href^="/wiki/"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("new") {
			return true
		}
		href, _ := s.Attr("href")
		option := articleTitle(s.AttrOr("title", ""), href)
		if option == "" || seen[option] {
			return true
		}
		seen[option] = true
		titles = append(titles, option)
		return limit <= 0 || len(titles) < limit
	})
	return titles, nil
}

// Namespaces whose pages are never offered as options.
var nonArticlePrefixes = []string{
	"Special:", "Help:", "Wikipedia:", "File:", "Category:", "Template:", "Portal:", "Talk:",
}

// articleTitle picks the link title, or derives it from the /wiki/ path.
func articleTitle(title, href string) string {
	if title == "" {
		path := strings.TrimPrefix(href, "/wiki/")
		if i := strings.IndexAny(path, "#?"); i >= 0 {
			path = path[:i]
		}
		unescaped, err := url.PathUnescape(path)
		if err != nil {
			return ""
		}
		title = strings.ReplaceAll(unescaped, "_", " ")
	}
	for _, prefix := range nonArticlePrefixes {
		if strings.HasPrefix(title, prefix) {
			return ""
		}
	}
	return title
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("format", "json")
	if params.Get("action") != "opensearch" {
		params.Set("formatversion", "2")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: http %d", ErrNetwork, resp.StatusCode)
	}

	var envelope struct {
		Error *APIError `json:"error"`
	}
	if len(body) > 0 && body[0] == '{' {
		if err := sonic.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
			return envelope.Error
		}
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal wikipedia response: %w", err)
	}
	return nil
}

// snippetText turns a search snippet (HTML with searchmatch spans) into text.
func snippetText(snippet string) string {
	if snippet == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return snippet
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
