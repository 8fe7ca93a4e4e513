package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"

	"github.com/TobiSchelling/newsbrowse/internal/datefilter"
	"github.com/TobiSchelling/newsbrowse/internal/news"
)

var md = goldmark.New()

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "[", `\[`, "]", `\]`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`, "<", "&lt;", ">", "&gt;",
)

// PlainText strips markup from a provider description and collapses
// whitespace.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// DisplayDate formats publishedAt as a local calendar date.
func DisplayDate(publishedAt string) string {
	t, err := datefilter.ParsePublished(publishedAt, time.Local)
	if err != nil {
		return "Unknown date"
	}
	return t.Local().Format("Jan 2, 2006")
}

// SourceName returns the outlet name or a placeholder.
func SourceName(a news.Article) string {
	if a.Source.Name == "" {
		return "Unknown source"
	}
	return a.Source.Name
}

// Markdown renders a result list as a Markdown digest.
func Markdown(heading string, filter datefilter.Filter, articles []news.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", mdEscaper.Replace(heading))
	fmt.Fprintf(&b, "_%s · %d articles_\n\n", filter.Label(), len(articles))

	if len(articles) == 0 {
		b.WriteString("No articles found.\n")
		return b.String()
	}

	for _, a := range articles {
		fmt.Fprintf(&b, "## [%s](<%s>)\n\n", mdEscaper.Replace(a.Title), a.URL)
		fmt.Fprintf(&b, "**%s** · %s\n\n", mdEscaper.Replace(SourceName(a)), DisplayDate(a.PublishedAt))
		if desc := PlainText(a.Description); desc != "" {
			b.WriteString(mdEscaper.Replace(desc))
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// HTML converts Markdown to HTML, falling back to escaped text.
func HTML(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}
