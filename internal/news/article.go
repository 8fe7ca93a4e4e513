package news

import (
	"fmt"
	"strings"
)

// Source identifies the outlet that published an article.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Article is a provider-supplied news record. URL is the only stable key.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	URL         string `json:"url"`
	Image       string `json:"image,omitempty"`
	PublishedAt string `json:"publishedAt"`
	Source      Source `json:"source"`
}

// Field selects which article attribute a find request matches against.
type Field string

const (
	FieldTitle  Field = "title"
	FieldAuthor Field = "author"
)

// ParseField converts user input to a Field.
func ParseField(s string) (Field, error) {
	switch Field(strings.ToLower(strings.TrimSpace(s))) {
	case FieldTitle:
		return FieldTitle, nil
	case FieldAuthor:
		return FieldAuthor, nil
	}
	return "", fmt.Errorf("unknown field %q (valid: title, author)", s)
}

// Matches reports whether the article's field contains term, ignoring case.
// The author field is matched against the source name.
func (a Article) Matches(term string, field Field) bool {
	var value string
	if field == FieldTitle {
		value = a.Title
	} else {
		value = a.Source.Name
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(term))
}
