package news

// MaxPageSize is the largest page the provider serves in a single call.
const MaxPageSize = 10

// DefaultCount is used when a caller asks for a non-positive count.
const DefaultCount = 10

// DefaultCategory is the top-headlines category used when none is given.
const DefaultCategory = "general"

// Categories lists the top-headlines categories the provider accepts.
var Categories = []string{
	"general", "world", "nation", "business", "technology",
	"entertainment", "sports", "science", "health",
}

// IsCategory reports whether c is a known top-headlines category.
func IsCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// ClampCount normalises a requested result count to the provider page size.
func ClampCount(n int) int {
	if n <= 0 {
		n = DefaultCount
	}
	if n > MaxPageSize {
		n = MaxPageSize
	}
	return n
}

// Request is one of TopHeadlines, KeywordSearch or FieldFind.
type Request interface {
	// Mode names the retrieval mode for logs and responses.
	Mode() string
	isRequest()
}

// TopHeadlines asks for the current headlines of a category.
type TopHeadlines struct {
	Count    int
	Category string
}

// KeywordSearch asks for articles matching free text.
type KeywordSearch struct {
	Query      string
	MaxResults int
}

// FieldFind asks for the single article whose title or source name
// contains SearchTerm.
type FieldFind struct {
	SearchTerm string
	Field      Field
}

func (TopHeadlines) Mode() string  { return "headlines" }
func (KeywordSearch) Mode() string { return "search" }
func (FieldFind) Mode() string     { return "find" }

func (TopHeadlines) isRequest()  {}
func (KeywordSearch) isRequest() {}
func (FieldFind) isRequest()     {}
