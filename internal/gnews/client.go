package gnews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/TobiSchelling/newsbrowse/internal/news"
)

// DefaultBaseURL is the public GNews v4 endpoint.
const DefaultBaseURL = "https://gnews.io/api/v4"

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	Language   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client queries the GNews top-headlines and search endpoints.
// Each method issues exactly one request and never retries.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	client   *http.Client
}

// NewClient creates a new GNews client.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	lang := opts.Language
	if lang == "" {
		lang = "en"
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   opts.APIKey,
		language: lang,
		client:   hc,
	}
}

// IsConfigured returns whether an API key is available.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// FetchTopHeadlines returns up to count headlines (at most one page) for
// category, in provider order.
func (c *Client) FetchTopHeadlines(ctx context.Context, count int, category string) ([]news.Article, error) {
	if category == "" {
		category = news.DefaultCategory
	}
	params := url.Values{
		"max":      {strconv.Itoa(news.ClampCount(count))},
		"category": {category},
	}
	articles, err := c.get(ctx, "top-headlines", params)
	if err != nil {
		return nil, err
	}
	log.Printf("Fetched %d headlines for category: %s", len(articles), category)
	return articles, nil
}

// SearchByKeywords returns up to maxResults articles matching query.
// An empty match set is returned as an empty slice without error.
func (c *Client) SearchByKeywords(ctx context.Context, query string, maxResults int) ([]news.Article, error) {
	params := url.Values{
		"q":   {query},
		"max": {strconv.Itoa(news.ClampCount(maxResults))},
	}
	articles, err := c.get(ctx, "search", params)
	if err != nil {
		return nil, err
	}
	log.Printf("Fetched %d articles for query: %s", len(articles), query)
	return articles, nil
}

// FindArticleByField searches the title or source index for searchTerm and
// returns the first result whose field literally contains it, ignoring case.
// A nil article with a nil error means nothing matched.
func (c *Client) FindArticleByField(ctx context.Context, searchTerm string, field news.Field) (*news.Article, error) {
	in := "source"
	if field == news.FieldTitle {
		in = "title"
	}
	params := url.Values{
		"q":   {searchTerm},
		"max": {strconv.Itoa(news.MaxPageSize)},
		"in":  {in},
	}
	articles, err := c.get(ctx, "search", params)
	if err != nil {
		return nil, err
	}

	for i := range articles {
		if articles[i].Matches(searchTerm, field) {
			log.Printf("Found article by %s %q among %d candidates", field, searchTerm, len(articles))
			found := articles[i]
			return &found, nil
		}
	}
	log.Printf("No %s match for %q among %d candidates", field, searchTerm, len(articles))
	return nil, nil
}

// Retrieve dispatches a request to the matching operation. FieldFind
// results are returned as a zero- or one-element slice.
func (c *Client) Retrieve(ctx context.Context, req news.Request) ([]news.Article, error) {
	switch r := req.(type) {
	case news.TopHeadlines:
		return c.FetchTopHeadlines(ctx, r.Count, r.Category)
	case news.KeywordSearch:
		return c.SearchByKeywords(ctx, r.Query, r.MaxResults)
	case news.FieldFind:
		a, err := c.FindArticleByField(ctx, r.SearchTerm, r.Field)
		if err != nil || a == nil {
			return []news.Article{}, err
		}
		return []news.Article{*a}, nil
	}
	return nil, fmt.Errorf("unsupported request type %T", req)
}

type response struct {
	TotalArticles int             `json:"totalArticles"`
	Articles      *[]rawArticle   `json:"articles"`
	Errors        json.RawMessage `json:"errors"`
}

type rawArticle struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	URL         *string `json:"url"`
	Image       *string `json:"image"`
	PublishedAt *string `json:"publishedAt"`
	Source      *struct {
		Name *string `json:"name"`
		URL  *string `json:"url"`
	} `json:"source"`
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]news.Article, error) {
	params.Set("token", c.apiKey)
	params.Set("lang", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &RetrievalError{Op: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &RetrievalError{Op: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetrievalError{Op: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RetrievalError{
			Op:         endpoint,
			StatusCode: resp.StatusCode,
			Message:    providerMessage(body),
		}
	}

	var result response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &RetrievalError{Op: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	// A success body always carries the articles array, even when empty.
	if result.Articles == nil {
		return nil, &RetrievalError{
			Op:         endpoint,
			StatusCode: resp.StatusCode,
			Message:    providerMessage(body),
			Err:        errors.New("response has no articles field"),
		}
	}

	return normalize(*result.Articles), nil
}

// normalize drops entries without a URL or title and flattens optional
// fields. Provider order is kept.
func normalize(raw []rawArticle) []news.Article {
	articles := make([]news.Article, 0, len(raw))
	for _, r := range raw {
		a := news.Article{
			Title:       strings.TrimSpace(deref(r.Title)),
			Description: strings.TrimSpace(deref(r.Description)),
			Content:     deref(r.Content),
			URL:         strings.TrimSpace(deref(r.URL)),
			Image:       deref(r.Image),
			PublishedAt: deref(r.PublishedAt),
		}
		if r.Source != nil {
			a.Source = news.Source{Name: deref(r.Source.Name), URL: deref(r.Source.URL)}
		}
		if a.URL == "" || a.Title == "" {
			continue
		}
		articles = append(articles, a)
	}
	return articles
}

// providerMessage extracts the error text GNews puts in its JSON body,
// either {"errors": ["..."]} or {"errors": {"field": "..."}}.
func providerMessage(body []byte) string {
	var payload struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Errors) == 0 {
		return ""
	}

	var list []string
	if err := json.Unmarshal(payload.Errors, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var byField map[string]string
	if err := json.Unmarshal(payload.Errors, &byField); err == nil {
		parts := make([]string, 0, len(byField))
		for k, v := range byField {
			parts = append(parts, k+": "+v)
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
