package gnews

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/TobiSchelling/newsbrowse/internal/news"
)

// fakeProvider records every query and answers with a canned body.
type fakeProvider struct {
	mu      sync.Mutex
	status  int
	body    string
	paths   []string
	queries []url.Values
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	f.queries = append(f.queries, r.URL.Query())
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
	}
	w.Write([]byte(f.body))
}

func newTestClient(t *testing.T, status int, body string) (*Client, *fakeProvider) {
	t.Helper()
	fp := &fakeProvider{status: status, body: body}
	srv := httptest.NewServer(fp)
	t.Cleanup(srv.Close)
	c := NewClient(Options{BaseURL: srv.URL, APIKey: "test-key"})
	return c, fp
}

const threeArticles = `{
  "totalArticles": 3,
  "articles": [
    {"title": "Markets rally on rate news", "description": "Stocks up", "url": "https://a.example/1",
     "image": "https://a.example/1.jpg", "publishedAt": "2026-10-18T12:00:00Z",
     "source": {"name": "Jane Doe News", "url": "https://a.example"}},
    {"title": "Rate decision looms", "description": "", "url": "https://b.example/2",
     "image": null, "publishedAt": "2026-04-19T12:00:00Z",
     "source": {"name": "John Smith", "url": "https://b.example"}},
    {"title": "Old rate story", "url": "https://c.example/3",
     "publishedAt": "2024-10-19T12:00:00Z", "source": {"name": "Archive Weekly"}}
  ]
}`

func TestFetchTopHeadlinesQuery(t *testing.T) {
	c, fp := newTestClient(t, http.StatusOK, threeArticles)

	articles, err := c.FetchTopHeadlines(context.Background(), 10, "general")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(articles))
	}
	if len(fp.paths) != 1 || fp.paths[0] != "/top-headlines" {
		t.Errorf("expected one call to /top-headlines, got %v", fp.paths)
	}

	q := fp.queries[0]
	checks := map[string]string{
		"token":    "test-key",
		"lang":     "en",
		"max":      "10",
		"category": "general",
	}
	for k, want := range checks {
		if got := q.Get(k); got != want {
			t.Errorf("param %s = %q, want %q", k, got, want)
		}
	}
}

func TestFetchTopHeadlinesPreservesOrderAndFields(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, threeArticles)

	articles, err := c.FetchTopHeadlines(context.Background(), 5, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantURLs := []string{"https://a.example/1", "https://b.example/2", "https://c.example/3"}
	for i, want := range wantURLs {
		if articles[i].URL != want {
			t.Errorf("article %d url = %q, want %q", i, articles[i].URL, want)
		}
	}
	first := articles[0]
	if first.Source.Name != "Jane Doe News" {
		t.Errorf("expected source name, got %q", first.Source.Name)
	}
	if first.Image != "https://a.example/1.jpg" {
		t.Errorf("expected image, got %q", first.Image)
	}
	if articles[1].Image != "" {
		t.Errorf("expected empty image for null, got %q", articles[1].Image)
	}
}

func TestCountIsClamped(t *testing.T) {
	tests := []struct {
		requested int
		want      string
	}{
		{50, "10"},
		{20, "10"},
		{10, "10"},
		{5, "5"},
		{0, "10"},
		{-3, "10"},
	}
	for _, tt := range tests {
		c, fp := newTestClient(t, http.StatusOK, `{"articles": []}`)
		if _, err := c.FetchTopHeadlines(context.Background(), tt.requested, "world"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := fp.queries[0].Get("max"); got != tt.want {
			t.Errorf("FetchTopHeadlines(%d) sent max=%s, want %s", tt.requested, got, tt.want)
		}

		c, fp = newTestClient(t, http.StatusOK, `{"articles": []}`)
		if _, err := c.SearchByKeywords(context.Background(), "go", tt.requested); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := fp.queries[0].Get("max"); got != tt.want {
			t.Errorf("SearchByKeywords(%d) sent max=%s, want %s", tt.requested, got, tt.want)
		}
	}
}

func TestSearchByKeywordsEmptyResult(t *testing.T) {
	c, fp := newTestClient(t, http.StatusOK, `{"totalArticles": 0, "articles": []}`)

	articles, err := c.SearchByKeywords(context.Background(), "nothing matches", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if articles == nil || len(articles) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", articles)
	}
	if fp.paths[0] != "/search" {
		t.Errorf("expected /search, got %s", fp.paths[0])
	}
	if got := fp.queries[0].Get("q"); got != "nothing matches" {
		t.Errorf("expected q param, got %q", got)
	}
	if fp.queries[0].Has("in") {
		t.Error("keyword search must not scope the index")
	}
}

func TestFindArticleByAuthor(t *testing.T) {
	c, fp := newTestClient(t, http.StatusOK, threeArticles)

	a, err := c.FindArticleByField(context.Background(), "jane doe", news.FieldAuthor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil || a.URL != "https://a.example/1" {
		t.Fatalf("expected Jane Doe News article, got %+v", a)
	}
	q := fp.queries[0]
	if q.Get("in") != "source" {
		t.Errorf("expected in=source, got %q", q.Get("in"))
	}
	if q.Get("max") != "10" {
		t.Errorf("expected max=10, got %q", q.Get("max"))
	}
}

func TestFindArticleByAuthorAbsent(t *testing.T) {
	body := `{"articles": [{"title": "T", "url": "https://b.example/2", "publishedAt": "2026-10-18T12:00:00Z", "source": {"name": "John Smith"}}]}`
	c, _ := newTestClient(t, http.StatusOK, body)

	a, err := c.FindArticleByField(context.Background(), "Jane Doe", news.FieldAuthor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != nil {
		t.Errorf("expected absent, got %+v", a)
	}
}

func TestFindArticleByTitleFirstMatch(t *testing.T) {
	c, fp := newTestClient(t, http.StatusOK, threeArticles)

	a, err := c.FindArticleByField(context.Background(), "RATE", news.FieldTitle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil || a.URL != "https://a.example/1" {
		t.Fatalf("expected first provider-order match, got %+v", a)
	}
	if fp.queries[0].Get("in") != "title" {
		t.Errorf("expected in=title, got %q", fp.queries[0].Get("in"))
	}
}

func TestFindArticleByTitleRequiresLiteralMatch(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, threeArticles)

	a, err := c.FindArticleByField(context.Background(), "interest rates", news.FieldTitle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != nil {
		t.Errorf("expected no literal match, got %q", a.Title)
	}
}

func TestNonSuccessStatus(t *testing.T) {
	c, _ := newTestClient(t, http.StatusForbidden, `{"errors": ["You did not provide an API key."]}`)

	_, err := c.FetchTopHeadlines(context.Background(), 10, "general")
	var re *RetrievalError
	if !errors.As(err, &re) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
	if re.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", re.StatusCode)
	}
	if re.Message != "You did not provide an API key." {
		t.Errorf("expected provider message, got %q", re.Message)
	}
	if re.Op != "top-headlines" {
		t.Errorf("expected op top-headlines, got %q", re.Op)
	}
}

func TestFieldErrorsMessage(t *testing.T) {
	c, _ := newTestClient(t, http.StatusBadRequest, `{"errors": {"q": "The query is required.", "max": "Too big."}}`)

	_, err := c.SearchByKeywords(context.Background(), "", 10)
	var re *RetrievalError
	if !errors.As(err, &re) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
	if re.Message != "max: Too big.; q: The query is required." {
		t.Errorf("unexpected message %q", re.Message)
	}
}

func TestMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{"articles": [`)

	_, err := c.FindArticleByField(context.Background(), "x", news.FieldTitle)
	var re *RetrievalError
	if !errors.As(err, &re) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
	if re.Err == nil {
		t.Error("expected wrapped decode error")
	}
}

func TestMissingArticlesField(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"null body", `null`},
		{"count only", `{"totalArticles": 5}`},
		{"null articles", `{"articles": null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.StatusOK, tt.body)

			articles, err := c.SearchByKeywords(context.Background(), "go", 10)
			var re *RetrievalError
			if !errors.As(err, &re) {
				t.Fatalf("expected RetrievalError, got articles=%v err=%v", articles, err)
			}
			if re.StatusCode != http.StatusOK {
				t.Errorf("expected status 200 recorded, got %d", re.StatusCode)
			}
		})
	}
}

func TestRetrievalErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *RetrievalError
		want string
	}{
		{
			"decode failure keeps cause",
			&RetrievalError{Op: "search", StatusCode: 200, Err: errors.New("unexpected EOF")},
			"gnews search: 200 OK: unexpected EOF",
		},
		{
			"provider message",
			&RetrievalError{Op: "search", StatusCode: 403, Message: "You did not provide an API key."},
			"gnews search: 403 Forbidden: You did not provide an API key.",
		},
		{
			"message and cause",
			&RetrievalError{Op: "top-headlines", StatusCode: 200, Message: "bad", Err: errors.New("no articles")},
			"gnews top-headlines: 200 OK: bad: no articles",
		},
		{
			"transport failure",
			&RetrievalError{Op: "search", Err: errors.New("connection refused")},
			"gnews search: connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClient(Options{BaseURL: base, APIKey: "k"})
	_, err := c.SearchByKeywords(context.Background(), "go", 10)
	var re *RetrievalError
	if !errors.As(err, &re) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
	if re.StatusCode != 0 {
		t.Errorf("expected no status for transport failure, got %d", re.StatusCode)
	}
}

func TestSingleAttemptOnFailure(t *testing.T) {
	c, fp := newTestClient(t, http.StatusInternalServerError, `oops`)

	if _, err := c.FetchTopHeadlines(context.Background(), 10, "general"); err == nil {
		t.Fatal("expected error")
	}
	if len(fp.paths) != 1 {
		t.Errorf("expected exactly one request, got %d", len(fp.paths))
	}
}

func TestMalformedEntriesSkipped(t *testing.T) {
	body := `{"articles": [
		{"title": "", "url": "https://x.example/1"},
		{"title": "No URL"},
		{"title": "Good", "url": "https://x.example/2", "publishedAt": "2026-10-18T12:00:00Z"}
	]}`
	c, _ := newTestClient(t, http.StatusOK, body)

	articles, err := c.SearchByKeywords(context.Background(), "x", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "Good" {
		t.Errorf("expected only the well-formed entry, got %+v", articles)
	}
	if articles[0].Source.Name != "" {
		t.Errorf("expected empty source for missing object, got %q", articles[0].Source.Name)
	}
}

func TestRetrieveDispatch(t *testing.T) {
	c, fp := newTestClient(t, http.StatusOK, threeArticles)
	ctx := context.Background()

	got, err := c.Retrieve(ctx, news.FieldFind{SearchTerm: "archive", Field: news.FieldAuthor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://c.example/3" {
		t.Errorf("expected single archive article, got %+v", got)
	}

	got, err = c.Retrieve(ctx, news.FieldFind{SearchTerm: "nobody", Field: news.FieldAuthor})
	if err != nil || len(got) != 0 {
		t.Errorf("expected empty result, got %v %v", got, err)
	}

	got, err = c.Retrieve(ctx, news.KeywordSearch{Query: "rate", MaxResults: 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected all three search results, got %d", len(got))
	}
	last := fp.queries[len(fp.queries)-1]
	if fp.paths[len(fp.paths)-1] != "/search" || last.Get("q") != "rate" || last.Get("max") != "10" {
		t.Errorf("unexpected search request %s %v", fp.paths[len(fp.paths)-1], last)
	}

	if _, err := c.Retrieve(ctx, news.TopHeadlines{Count: 3, Category: "science"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last = fp.queries[len(fp.queries)-1]
	if last.Get("category") != "science" || last.Get("max") != "3" {
		t.Errorf("unexpected headlines params %v", last)
	}
}
