package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TobiSchelling/newsbrowse/internal/news"
	"github.com/TobiSchelling/newsbrowse/internal/reader"
	"github.com/TobiSchelling/newsbrowse/internal/session"
)

type tab int

const (
	tabBrowse tab = iota
	tabSearch
	tabFind
)

var tabNames = []string{"Browse", "Search", "Find"}

// PageReader loads the readable text of an article.
type PageReader interface {
	Read(ctx context.Context, url string) (*reader.Page, error)
}

type retrievalMsg struct {
	out session.Outcome
	err error
}

type pageMsg struct {
	page *reader.Page
	err  error
}

// App is the bubbletea model for the interactive browser.
type App struct {
	sess   *session.Session
	reader PageReader

	tab     tab
	input   textinput.Model
	cursor  int
	loading bool

	page         *reader.Page
	readerScroll int

	width  int
	height int
}

// NewApp creates the browser model over an existing session.
func NewApp(sess *session.Session, r PageReader) *App {
	ti := textinput.New()
	ti.Placeholder = "Enter keywords..."
	ti.Prompt = "/ "
	ti.CharLimit = 200

	return &App{
		sess:   sess,
		reader: r,
		input:  ti,
		width:  80,
		height: 24,
	}
}

// Run starts the full-screen browser.
func Run(sess *session.Session, r PageReader) error {
	_, err := tea.NewProgram(NewApp(sess, r), tea.WithAltScreen()).Run()
	return err
}

func (a *App) Init() tea.Cmd {
	a.loading = true
	sess := a.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		out, err := sess.LoadInitial(ctx)
		return retrievalMsg{out: out, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case retrievalMsg:
		a.loading = false
		if msg.err == nil {
			a.cursor = 0
		}
		return a, nil

	case pageMsg:
		a.loading = false
		if msg.err != nil {
			a.page = &reader.Page{Title: "Could not open article", Text: msg.err.Error()}
		} else {
			a.page = msg.page
		}
		a.readerScroll = 0
		return a, nil

	case tea.KeyMsg:
		if a.page != nil {
			return a.updateReader(msg)
		}
		return a.updateKey(msg)
	}
	return a, nil
}

func (a *App) updateReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc", "q":
		a.page = nil
	case "up", "k":
		if a.readerScroll > 0 {
			a.readerScroll--
		}
	case "down", "j":
		a.readerScroll++
	}
	return a, nil
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "tab":
		return a, a.switchTab((a.tab + 1) % 3)
	case "shift+tab":
		return a, a.switchTab((a.tab + 2) % 3)
	case "ctrl+f":
		a.sess.SetDateFilter(a.sess.DateFilter().Next())
		return a, nil
	case "ctrl+t":
		if a.sess.Field() == news.FieldTitle {
			a.sess.SetField(news.FieldAuthor)
		} else {
			a.sess.SetField(news.FieldTitle)
		}
		a.input.Placeholder = fmt.Sprintf("Enter %s...", a.sess.Field())
		return a, nil
	case "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "down":
		if a.cursor < len(a.sess.Articles())-1 {
			a.cursor++
		}
		return a, nil
	case "ctrl+o":
		return a, a.openSelected()
	case "enter":
		return a, a.run()
	}

	if a.tab == tabBrowse {
		switch msg.String() {
		case "q", "esc":
			return a, tea.Quit
		case "n":
			a.cycleCount()
		case "d":
			a.sess.SetDateFilter(a.sess.DateFilter().Next())
		case "o":
			return a, a.openSelected()
		}
		return a, nil
	}

	if msg.String() == "esc" {
		return a, a.switchTab(tabBrowse)
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) switchTab(t tab) tea.Cmd {
	a.tab = t
	if t == tabBrowse {
		a.input.Blur()
		return nil
	}
	if t == tabFind {
		a.input.Placeholder = fmt.Sprintf("Enter %s...", a.sess.Field())
	} else {
		a.input.Placeholder = "Enter keywords..."
	}
	return a.input.Focus()
}

func (a *App) cycleCount() {
	counts := session.AllowedCounts
	cur := a.sess.Count()
	for i, c := range counts {
		if c == cur {
			_ = a.sess.SetCount(counts[(i+1)%len(counts)])
			return
		}
	}
	_ = a.sess.SetCount(counts[0])
}

// run captures the current input into the command closure.
func (a *App) run() tea.Cmd {
	if a.loading {
		return nil
	}
	sess := a.sess
	query := a.input.Value()
	current := a.tab
	a.loading = true
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var (
			out session.Outcome
			err error
		)
		switch current {
		case tabSearch:
			out, err = sess.Search(ctx, query)
		case tabFind:
			out, err = sess.Find(ctx, query)
		default:
			out, err = sess.Fetch(ctx)
		}
		return retrievalMsg{out: out, err: err}
	}
}

func (a *App) openSelected() tea.Cmd {
	if a.loading {
		return nil
	}
	articles := a.sess.Articles()
	if a.reader == nil || a.cursor >= len(articles) {
		return nil
	}
	url := articles[a.cursor].URL
	rd := a.reader
	a.loading = true
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		page, err := rd.Read(ctx, url)
		return pageMsg{page: page, err: err}
	}
}

func (a *App) View() string {
	if a.page != nil {
		return a.viewReader()
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("newsbrowse"))
	b.WriteString("\n\n")
	b.WriteString(a.viewTabs())
	b.WriteString("\n\n")
	b.WriteString(a.viewControls())
	b.WriteString("\n\n")

	if a.loading {
		b.WriteString(noticeStyle.Render("Loading..."))
	} else if n := a.sess.Notice(); n.Message != "" {
		if n.Kind == session.NoticeError {
			b.WriteString(noticeErrorStyle.Render(n.String()))
		} else {
			b.WriteString(noticeStyle.Render(n.String()))
		}
	}
	b.WriteString("\n\n")

	used := lipgloss.Height(b.String()) + 2
	b.WriteString(renderList(a.sess.Articles(), a.cursor, a.height-used, a.width))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(a.help()))
	return b.String()
}

func (a *App) viewTabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == a.tab {
			parts[i] = tabActiveStyle.Render(name)
		} else {
			parts[i] = tabInactiveStyle.Render(name)
		}
	}
	return " " + lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) viewControls() string {
	filter := labelStyle.Render("Date: ") + optionActiveStyle.Render(a.sess.DateFilter().Label())

	switch a.tab {
	case tabSearch:
		return labelStyle.Render("Search by keywords:") + "\n " + a.input.View() + "\n" + filter
	case tabFind:
		field := labelStyle.Render("Find by: ")
		for _, f := range []news.Field{news.FieldTitle, news.FieldAuthor} {
			if f == a.sess.Field() {
				field += optionActiveStyle.Render("["+string(f)+"]") + " "
			} else {
				field += optionStyle.Render(string(f)) + " "
			}
		}
		return field + "\n " + a.input.View() + "\n" + filter
	}

	count := labelStyle.Render("Articles: ")
	for _, c := range session.AllowedCounts {
		label := fmt.Sprintf("%d", c)
		if c == a.sess.Count() {
			count += optionActiveStyle.Render("["+label+"]") + " "
		} else {
			count += optionStyle.Render(label) + " "
		}
	}
	return count + "\n" + filter
}

func (a *App) help() string {
	switch a.tab {
	case tabSearch:
		return "enter search · ctrl+f date · ↑/↓ move · ctrl+o open · tab switch · esc back"
	case tabFind:
		return "enter find · ctrl+t title/author · ctrl+f date · ctrl+o open · tab switch · esc back"
	}
	return "enter fetch · n count · d date · ↑/↓ move · o open · tab switch · q quit"
}

func (a *App) viewReader() string {
	width := a.width - 2
	if width < 20 {
		width = 20
	}
	body := readerBodyStyle.Width(width).Render(a.page.Text)
	lines := strings.Split(body, "\n")

	visible := a.height - 6
	if visible < 1 {
		visible = 1
	}
	if a.readerScroll > len(lines)-1 {
		a.readerScroll = len(lines) - 1
	}
	end := a.readerScroll + visible
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	b.WriteString(readerTitleStyle.Render(a.page.Title))
	b.WriteString("\n")
	b.WriteString(strings.Join(lines[a.readerScroll:end], "\n"))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ scroll · esc back"))
	return b.String()
}
