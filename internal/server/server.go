package server

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TobiSchelling/newsbrowse/internal/datefilter"
	"github.com/TobiSchelling/newsbrowse/internal/gnews"
	"github.com/TobiSchelling/newsbrowse/internal/news"
	"github.com/TobiSchelling/newsbrowse/internal/render"
	"github.com/TobiSchelling/newsbrowse/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the server defaults.
type Options struct {
	Category   string
	DateFilter datefilter.Filter
	Now        func() time.Time
}

// Server exposes the retrieval pipeline over HTTP. Every request gets its
// own session, so the date window comes from the query string.
type Server struct {
	retriever session.Retriever
	opts      Options
	engine    *gin.Engine
}

// New creates a new Server.
func New(r session.Retriever, opts Options) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.SetHTMLTemplate(tmpl)

	s := &Server{retriever: r, opts: opts, engine: engine}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	api.GET("/headlines", s.handleHeadlines)
	api.GET("/search", s.handleSearch)
	api.GET("/find", s.handleFind)
}

// newSession builds a per-request session from the date query parameter.
func (s *Server) newSession(c *gin.Context) (*session.Session, bool) {
	filter := s.opts.DateFilter
	if raw := c.Query("date"); raw != "" {
		f, err := datefilter.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		filter = f
	}
	return session.New(s.retriever, session.Options{
		Category:   s.opts.Category,
		DateFilter: filter,
		Now:        s.opts.Now,
	}), true
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleHeadlines(c *gin.Context) {
	sess, ok := s.newSession(c)
	if !ok {
		return
	}
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err == nil {
			err = sess.SetCount(n)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid count %q", raw)})
			return
		}
	}
	if category := c.Query("category"); category != "" {
		if err := sess.SetCategory(category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	out, err := sess.Fetch(c.Request.Context())
	s.respond(c, out, err)
}

func (s *Server) handleSearch(c *gin.Context) {
	sess, ok := s.newSession(c)
	if !ok {
		return
	}
	out, err := sess.Search(c.Request.Context(), c.Query("q"))
	s.respond(c, out, err)
}

func (s *Server) handleFind(c *gin.Context) {
	sess, ok := s.newSession(c)
	if !ok {
		return
	}
	if raw := c.Query("field"); raw != "" {
		field, err := news.ParseField(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess.SetField(field)
	}

	out, err := sess.Find(c.Request.Context(), c.Query("q"))
	if err == nil && len(out.Articles) == 0 {
		c.JSON(http.StatusNotFound, out)
		return
	}
	s.respond(c, out, err)
}

func (s *Server) respond(c *gin.Context, out session.Outcome, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, out)
	case errors.Is(err, session.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "notice": out.Notice})
	default:
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "notice": out.Notice, "request_id": out.RequestID})
	}
}

func statusFor(err error) int {
	var re *gnews.RetrievalError
	if errors.As(err, &re) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

type filterLink struct {
	Value  datefilter.Filter
	Label  string
	Active bool
}

func (s *Server) handleIndex(c *gin.Context) {
	sess, ok := s.newSession(c)
	if !ok {
		return
	}
	query := strings.TrimSpace(c.Query("q"))

	var (
		out     session.Outcome
		err     error
		heading = "Top Headlines"
	)
	if query != "" {
		heading = "Search: " + query
		out, err = sess.Search(c.Request.Context(), query)
	} else {
		out, err = sess.LoadInitial(c.Request.Context())
	}

	status := http.StatusOK
	if err != nil {
		log.Printf("Index retrieval failed: %v", err)
		status = statusFor(err)
	}

	links := make([]filterLink, 0, len(datefilter.Filters))
	for _, f := range datefilter.Filters {
		links = append(links, filterLink{Value: f, Label: f.Label(), Active: f == out.Filter})
	}

	c.HTML(status, "index.html", gin.H{
		"Heading":    heading,
		"Query":      query,
		"Filter":     out.Filter,
		"Filters":    links,
		"Notice":     out.Notice.String(),
		"NoticeKind": string(out.Notice.Kind),
		"Body":       render.HTML(render.Markdown(heading, out.Filter, out.Articles)),
	})
}

// Serve starts the HTTP server on the given port.
func Serve(r session.Retriever, opts Options, port int) error {
	gin.SetMode(gin.ReleaseMode)
	srv, err := New(r, opts)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
