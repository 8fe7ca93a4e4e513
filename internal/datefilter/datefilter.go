package datefilter

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/TobiSchelling/newsbrowse/internal/news"
)

// Filter is a publish-date window applied to a result list.
type Filter string

const (
	All   Filter = "all"
	Today Filter = "today"
	Week  Filter = "week"
	Year  Filter = "year"
)

// Filters lists every window in display order.
var Filters = []Filter{All, Today, Week, Year}

// Parse converts user input to a Filter. Empty input means All.
func Parse(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return All, nil
	}
	for _, f := range Filters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown date filter %q (valid: all, today, week, year)", s)
}

// Label returns the human-readable name of the window.
func (f Filter) Label() string {
	switch f {
	case Today:
		return "Today"
	case Week:
		return "This Week"
	case Year:
		return "This Year"
	default:
		return "All Time"
	}
}

// Next cycles to the following window, wrapping back to All.
func (f Filter) Next() Filter {
	for i, cur := range Filters {
		if cur == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return All
}

// Cutoff returns the earliest publish time accepted by f at now.
// ok is false for All, which accepts everything.
func (f Filter) Cutoff(now time.Time) (cutoff time.Time, ok bool) {
	switch f {
	case Today:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case Week:
		return now.AddDate(0, 0, -7), true
	case Year:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true
	}
	return time.Time{}, false
}

// ParsePublished parses a provider publishedAt value. Zone-less values are
// read in loc.
func ParsePublished(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return dateparse.ParseIn(s, loc)
}

// Apply keeps the articles published inside the window, in input order.
// Articles whose timestamp does not parse only survive All.
func Apply(articles []news.Article, f Filter, now time.Time) []news.Article {
	cutoff, ok := f.Cutoff(now)
	if !ok {
		return articles
	}

	filtered := make([]news.Article, 0, len(articles))
	for _, a := range articles {
		pub, err := ParsePublished(a.PublishedAt, now.Location())
		if err != nil {
			continue
		}
		if !pub.Before(cutoff) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
