package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TobiSchelling/newsbrowse/internal/datefilter"
	"github.com/TobiSchelling/newsbrowse/internal/news"
)

//go:generate mockgen -destination=mock_retriever_test.go -package=session github.com/TobiSchelling/newsbrowse/internal/session Retriever

// ErrEmptyQuery is returned when a search or find is attempted with a blank
// term. No provider call is made.
var ErrEmptyQuery = errors.New("please enter a search term")

// AllowedCounts are the article counts a user can pick when browsing.
var AllowedCounts = []int{5, 10, 20, 50}

// Retriever is the provider-facing half of a session.
type Retriever interface {
	FetchTopHeadlines(ctx context.Context, count int, category string) ([]news.Article, error)
	SearchByKeywords(ctx context.Context, query string, maxResults int) ([]news.Article, error)
	FindArticleByField(ctx context.Context, searchTerm string, field news.Field) (*news.Article, error)
}

// NoticeKind classifies the message shown after a retrieval.
type NoticeKind string

const (
	NoticeNone      NoticeKind = ""
	NoticeSuccess   NoticeKind = "success"
	NoticeError     NoticeKind = "error"
	NoticeNoResults NoticeKind = "no_results"
	NoticeFound     NoticeKind = "found"
	NoticeNotFound  NoticeKind = "not_found"
)

// Notice is the user-facing summary of the last action.
type Notice struct {
	Kind    NoticeKind `json:"kind,omitempty"`
	Title   string     `json:"title,omitempty"`
	Message string     `json:"message,omitempty"`
}

func (n Notice) String() string {
	if n.Title == "" {
		return n.Message
	}
	return n.Title + ": " + n.Message
}

// Outcome describes one completed retrieval.
type Outcome struct {
	RequestID string            `json:"request_id"`
	Mode      string            `json:"mode"`
	Filter    datefilter.Filter `json:"date_filter"`
	Received  int               `json:"received"`
	Articles  []news.Article    `json:"articles"`
	Notice    Notice            `json:"notice"`
}

// Options configures a new Session.
type Options struct {
	Category   string
	DateFilter datefilter.Filter
	Count      int
	Now        func() time.Time
}

// Session holds the browsing state of one user: the selected date window,
// article count and find field, plus the current result list.
//
// Retrievals do not hold the lock while waiting on the provider, so
// overlapping calls race and the last one to finish sets the results.
type Session struct {
	retriever Retriever
	now       func() time.Time

	mu       sync.Mutex
	category string
	filter   datefilter.Filter
	count    int
	field    news.Field
	articles []news.Article
	notice   Notice
}

// New creates a session over r.
func New(r Retriever, opts Options) *Session {
	s := &Session{
		retriever: r,
		now:       opts.Now,
		category:  opts.Category,
		filter:    opts.DateFilter,
		count:     opts.Count,
		field:     news.FieldTitle,
		articles:  []news.Article{},
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.category == "" {
		s.category = news.DefaultCategory
	}
	if s.filter == "" {
		s.filter = datefilter.All
	}
	if !isAllowedCount(s.count) {
		s.count = news.DefaultCount
	}
	return s
}

func isAllowedCount(n int) bool {
	for _, c := range AllowedCounts {
		if c == n {
			return true
		}
	}
	return false
}

// DateFilter returns the selected date window.
func (s *Session) DateFilter() datefilter.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetDateFilter changes the date window used by later retrievals. The
// current results are left untouched.
func (s *Session) SetDateFilter(f datefilter.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Count returns the selected number of headlines to fetch.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// SetCount selects how many headlines Fetch asks for.
func (s *Session) SetCount(n int) error {
	if !isAllowedCount(n) {
		return fmt.Errorf("count %d not allowed (valid: 5, 10, 20, 50)", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = n
	return nil
}

// Field returns the field Find matches against.
func (s *Session) Field() news.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.field
}

// SetField selects title or author matching for Find.
func (s *Session) SetField(f news.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.field = f
}

// Category returns the headlines category.
func (s *Session) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// SetCategory changes the headlines category.
func (s *Session) SetCategory(c string) error {
	if !news.IsCategory(c) {
		return fmt.Errorf("unknown category %q", c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = c
	return nil
}

// Articles returns a copy of the current result list.
func (s *Session) Articles() []news.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]news.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// Notice returns the message produced by the last action.
func (s *Session) Notice() Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// LoadInitial fetches the default page of headlines shown on start.
func (s *Session) LoadInitial(ctx context.Context) (Outcome, error) {
	return s.headlines(ctx, news.DefaultCount, "Failed to load articles. Please check your API key.", false)
}

// Fetch retrieves headlines using the selected count and category.
func (s *Session) Fetch(ctx context.Context) (Outcome, error) {
	return s.headlines(ctx, s.Count(), "Failed to fetch articles", true)
}

func (s *Session) headlines(ctx context.Context, count int, failure string, announce bool) (Outcome, error) {
	req := news.TopHeadlines{Count: count, Category: s.Category()}
	out := s.begin(req)

	articles, err := s.retriever.FetchTopHeadlines(ctx, req.Count, req.Category)
	if err != nil {
		return s.fail(out, err, failure)
	}

	out.Received = len(articles)
	out.Articles = datefilter.Apply(articles, out.Filter, s.now())
	if announce {
		out.Notice = Notice{Kind: NoticeSuccess, Title: "Success", Message: fmt.Sprintf("Fetched %d articles", len(out.Articles))}
	}
	return s.finish(out), nil
}

// Search runs a keyword search and applies the date window.
func (s *Session) Search(ctx context.Context, query string) (Outcome, error) {
	req := news.KeywordSearch{Query: query, MaxResults: news.MaxPageSize}
	out := s.begin(req)
	if strings.TrimSpace(req.Query) == "" {
		return s.reject(out)
	}

	articles, err := s.retriever.SearchByKeywords(ctx, req.Query, req.MaxResults)
	if err != nil {
		return s.fail(out, err, "Failed to search articles")
	}

	out.Received = len(articles)
	out.Articles = datefilter.Apply(articles, out.Filter, s.now())
	if len(out.Articles) == 0 {
		out.Notice = Notice{Kind: NoticeNoResults, Title: "No Results", Message: "No articles found for your search"}
	}
	return s.finish(out), nil
}

// Find looks up a single article by the selected field. A match that falls
// outside the date window is reported separately from no match at all.
func (s *Session) Find(ctx context.Context, term string) (Outcome, error) {
	req := news.FieldFind{SearchTerm: term, Field: s.Field()}
	out := s.begin(req)
	if strings.TrimSpace(req.SearchTerm) == "" {
		return s.reject(out)
	}

	found, err := s.retriever.FindArticleByField(ctx, req.SearchTerm, req.Field)
	if err != nil {
		return s.fail(out, err, "Failed to find article")
	}

	if found == nil {
		out.Articles = []news.Article{}
		out.Notice = Notice{Kind: NoticeNotFound, Title: "Not Found", Message: fmt.Sprintf("No article found with %s: %q", req.Field, req.SearchTerm)}
		return s.finish(out), nil
	}

	out.Received = 1
	out.Articles = datefilter.Apply([]news.Article{*found}, out.Filter, s.now())
	if len(out.Articles) > 0 {
		out.Notice = Notice{Kind: NoticeFound, Title: "Found", Message: "Article found!"}
	} else {
		out.Notice = Notice{Kind: NoticeNotFound, Title: "Not Found", Message: "Article found but doesn't match date filter"}
	}
	return s.finish(out), nil
}

// begin tags req with a request ID and snapshots the date window.
func (s *Session) begin(req news.Request) Outcome {
	out := Outcome{
		RequestID: uuid.NewString(),
		Mode:      req.Mode(),
		Filter:    s.DateFilter(),
	}
	log.Printf("[%s] %s started (date filter: %s)", out.RequestID, out.Mode, out.Filter)
	return out
}

func (s *Session) reject(out Outcome) (Outcome, error) {
	out.Notice = Notice{Kind: NoticeError, Title: "Error", Message: "Please enter a search term"}
	s.mu.Lock()
	s.notice = out.Notice
	s.mu.Unlock()
	return out, ErrEmptyQuery
}

// fail records the error notice and keeps the previous results.
func (s *Session) fail(out Outcome, err error, message string) (Outcome, error) {
	log.Printf("[%s] %s failed: %v", out.RequestID, out.Mode, err)
	out.Notice = Notice{Kind: NoticeError, Title: "Error", Message: message}
	s.mu.Lock()
	s.notice = out.Notice
	s.mu.Unlock()
	return out, err
}

func (s *Session) finish(out Outcome) Outcome {
	if out.Articles == nil {
		out.Articles = []news.Article{}
	}
	log.Printf("[%s] %s done: %d received, %d shown", out.RequestID, out.Mode, out.Received, len(out.Articles))
	s.mu.Lock()
	s.articles = out.Articles
	s.notice = out.Notice
	s.mu.Unlock()
	return out
}
