package reader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// minTextLength is the shortest extracted body treated as real content.
const minTextLength = 100

// ErrNoContent means the page loaded but held no extractable article text.
var ErrNoContent = errors.New("no extractable content")

// Page is the readable form of an article.
type Page struct {
	URL     string
	Title   string
	Byline  string
	Excerpt string
	Text    string
}

// Reader fetches article pages and extracts their main text.
type Reader struct {
	client    *http.Client
	userAgent string
}

// New creates a new reader.
func New(timeout time.Duration, userAgent string) *Reader {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if userAgent == "" {
		userAgent = "newsbrowse/1.0 (news reader)"
	}
	return &Reader{
		userAgent: userAgent,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Read downloads articleURL and returns its readable text.
func (r *Reader) Read(ctx context.Context, articleURL string) (*Page, error) {
	parsedURL, err := url.Parse(articleURL)
	if err != nil {
		return nil, err
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, &url.Error{Op: "read", URL: articleURL, Err: errors.New("unsupported scheme")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	article, err := readability.FromReader(bytes.NewReader(bodyBytes), parsedURL)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) < minTextLength {
		log.Printf("No extractable content from: %s", articleURL)
		return nil, ErrNoContent
	}

	log.Printf("Extracted %d characters from %s", len(text), articleURL)
	return &Page{
		URL:     articleURL,
		Title:   strings.TrimSpace(article.Title),
		Byline:  strings.TrimSpace(article.Byline),
		Excerpt: strings.TrimSpace(article.Excerpt),
		Text:    text,
	}, nil
}

// StatusError is returned when the article server answers with 4xx or 5xx.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return http.StatusText(e.Code)
}
