package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/clems4ever/wiki-query/internal/logger"
)

// MaxCandidates is the upper bound on titles offered for disambiguation.
const MaxCandidates = 5

// API is the subset of the MediaWiki client the resolver depends on.
type API interface {
	Search(ctx context.Context, query string, limit int) (*SearchResult, error)
	Suggest(ctx context.Context, query string) (string, error)
	Page(ctx context.Context, title string) (*Page, error)
	Options(ctx context.Context, title string, limit int) ([]string, error)
}

var _ API = (*Client)(nil)

// Candidate is a title offered to the user when a phrase is ambiguous.
type Candidate struct {
	Title   string
	Snippet string
}

// Resolution is the outcome of resolving a search phrase. Exactly one of
// Page and Candidates is set.
type Resolution struct {
	Query      string
	Page       *Page
	Candidates []Candidate
}

// Ambiguous reports whether the user has to pick one of the candidates.
func (r *Resolution) Ambiguous() bool {
	return r.Page == nil && len(r.Candidates) > 0
}

// Resolver maps search phrases to articles.
type Resolver struct {
	api           API
	log           *logger.Logger
	notify        func(format string, args ...any)
	maxCandidates int
	searchLimit   int
}

// NewResolver creates a resolver. maxCandidates is clamped to [1, MaxCandidates].
func NewResolver(api API, log *logger.Logger, maxCandidates, searchLimit int) *Resolver {
	if maxCandidates < 1 || maxCandidates > MaxCandidates {
		maxCandidates = MaxCandidates
	}
	if searchLimit < maxCandidates {
		searchLimit = maxCandidates
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Resolver{
		api:           api,
		log:           log,
		notify:        func(string, ...any) {},
		maxCandidates: maxCandidates,
		searchLimit:   searchLimit,
	}
}

// OnNotice registers a callback for fallbacks the user should know about.
func (r *Resolver) OnNotice(fn func(format string, args ...any)) {
	if fn != nil {
		r.notify = fn
	}
}

var dashRuns = regexp.MustCompile(`[‐-―-]+`)

// SanitizeQuery replaces hyphen and dash runs with spaces and collapses
// whitespace.
func SanitizeQuery(query string) string {
	return strings.Join(strings.Fields(dashRuns.ReplaceAllString(query, " ")), " ")
}

// Resolve searches for phrase. A single hit, or a hit whose title equals the
// phrase, is fetched directly. Several hits come back as candidates. With no
// hits the auto-suggest fallback is tried once.
func (r *Resolver) Resolve(ctx context.Context, phrase string) (*Resolution, error) {
	query := SanitizeQuery(phrase)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search phrase", ErrNotFound)
	}
	res := &Resolution{Query: query}

	r.log.Debug("searching", "query", query, "limit", r.searchLimit)
	result, err := r.api.Search(ctx, query, r.searchLimit)
	if err != nil {
		if !errors.Is(err, ErrNetwork) {
			return nil, err
		}
		r.log.Warn("search failed, trying auto-suggest", "query", query, "error", err)
		page, sErr := r.viaSuggest(ctx, query, "")
		if sErr != nil {
			return nil, fmt.Errorf("search %q: %w", query, err)
		}
		res.Page = page
		return res, nil
	}

	switch {
	case len(result.Hits) == 0:
		r.log.Info("no search hits, trying auto-suggest", "query", query, "suggestion", result.Suggestion)
		r.notify("No results for '%s', trying auto-suggest...", query)
		page, err := r.viaSuggest(ctx, query, result.Suggestion)
		if err != nil {
			if errors.Is(err, ErrNetwork) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %q", ErrNotFound, query)
		}
		res.Page = page
		return res, nil

	case len(result.Hits) == 1 || sameTitle(result.Hits[0].Title, query):
		page, err := r.Fetch(ctx, result.Hits[0].Title, query)
		if err != nil {
			return nil, err
		}
		res.Page = page
		return res, nil
	}

	for _, h := range result.Hits {
		if len(res.Candidates) == r.maxCandidates {
			break
		}
		res.Candidates = append(res.Candidates, Candidate{Title: h.Title, Snippet: h.Snippet})
	}
	return res, nil
}

// Fetch loads title. A missing page or a failed request is retried once
// through auto-suggest on query. A disambiguation page is replaced by its
// first linked article.
func (r *Resolver) Fetch(ctx context.Context, title, query string) (*Page, error) {
	page, err := r.api.Page(ctx, title)
	if err != nil {
		network := errors.Is(err, ErrNetwork)
		if !network && !errors.Is(err, ErrPageNotFound) {
			return nil, err
		}
		r.log.Warn("page lookup failed, trying auto-suggest", "title", title, "query", query, "error", err)
		if !network {
			r.notify("Page '%s' not found, trying auto-suggest...", title)
		}
		alt, sErr := r.viaSuggest(ctx, query, "")
		if sErr != nil {
			if network {
				return nil, fmt.Errorf("load %q: %w", title, err)
			}
			if errors.Is(sErr, ErrNetwork) {
				return nil, sErr
			}
			return nil, fmt.Errorf("%w: %q", ErrPageNotFound, title)
		}
		return alt, nil
	}

	if page.Disambiguation {
		return r.firstOption(ctx, page)
	}
	return page, nil
}

// viaSuggest is the single auto-suggest attempt. A spelling correction already
// returned by the search is used as is; otherwise the suggestion endpoint is
// asked.
func (r *Resolver) viaSuggest(ctx context.Context, query, correction string) (*Page, error) {
	suggestion := correction
	if suggestion == "" {
		var err error
		suggestion, err = r.api.Suggest(ctx, query)
		if err != nil {
			return nil, err
		}
	}
	if suggestion == "" {
		return nil, fmt.Errorf("%w: no suggestion for %q", ErrNotFound, query)
	}
	r.log.Debug("auto-suggest", "query", query, "suggestion", suggestion)

	page, err := r.api.Page(ctx, suggestion)
	if err != nil {
		return nil, err
	}
	if page.Disambiguation {
		return r.firstOption(ctx, page)
	}
	return page, nil
}

func (r *Resolver) firstOption(ctx context.Context, page *Page) (*Page, error) {
	options, err := r.api.Options(ctx, page.Title, 1)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: %q is a disambiguation page without options", ErrPageNotFound, page.Title)
	}
	r.log.Warn("disambiguation page, using first option", "title", page.Title, "option", options[0])
	r.notify("Disambiguation: using first option '%s'", options[0])

	alt, err := r.api.Page(ctx, options[0])
	if err != nil {
		return nil, err
	}
	return alt, nil
}

func sameTitle(a, b string) bool {
	norm := func(s string) string {
		return strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " ")
	}
	return strings.EqualFold(norm(a), norm(b))
}
