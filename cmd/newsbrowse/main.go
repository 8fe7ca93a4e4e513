package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/TobiSchelling/newsbrowse/internal/config"
	"github.com/TobiSchelling/newsbrowse/internal/datefilter"
	"github.com/TobiSchelling/newsbrowse/internal/gnews"
	"github.com/TobiSchelling/newsbrowse/internal/news"
	"github.com/TobiSchelling/newsbrowse/internal/reader"
	"github.com/TobiSchelling/newsbrowse/internal/render"
	"github.com/TobiSchelling/newsbrowse/internal/server"
	"github.com/TobiSchelling/newsbrowse/internal/session"
	"github.com/TobiSchelling/newsbrowse/internal/tui"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "newsbrowse",
	Short:   "Browse news headlines from the terminal",
	Long:    "newsbrowse fetches top headlines, keyword searches and single-article lookups from GNews and filters them by publish date.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		config.LoadEnv()
		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		applyLogLevel(cfg.Logging.Level)
		return nil
	},
}

// applyLogLevel silences the informational log lines unless the level is
// INFO or DEBUG. --verbose always keeps them.
func applyLogLevel(level string) {
	if verbose {
		return
	}
	switch strings.ToUpper(level) {
	case "", "INFO", "DEBUG":
		log.SetOutput(os.Stderr)
	default:
		log.SetOutput(io.Discard)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	for _, c := range []*cobra.Command{headlinesCmd, searchCmd, findCmd, browseCmd} {
		c.Flags().StringVarP(&dateFlag, "date", "d", "", "Date filter: all, today, week, year")
	}
	for _, c := range []*cobra.Command{headlinesCmd, searchCmd, findCmd} {
		c.Flags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, markdown, json")
	}

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(headlinesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newsbrowse", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/newsbrowse/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Printf("Set %s in your environment or a .env file.\n", config.DefaultAPIKeyEnv)
		return nil
	},
}

// --- retrieval commands ---

var (
	dateFlag   string
	formatFlag string
	countFlag  int
	category   string
	fieldFlag  string
)

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Show top headlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}
		if countFlag != 0 {
			if err := sess.SetCount(countFlag); err != nil {
				return err
			}
		}
		if category != "" {
			if err := sess.SetCategory(category); err != nil {
				return err
			}
		}

		out, err := sess.Fetch(cmd.Context())
		if err != nil {
			return err
		}
		return writeOutcome(cmd.OutOrStdout(), formatFlag, "Top Headlines", out)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search articles by keywords",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")
		out, err := sess.Search(cmd.Context(), query)
		if err != nil {
			return err
		}
		return writeOutcome(cmd.OutOrStdout(), formatFlag, "Search: "+query, out)
	},
}

var findCmd = &cobra.Command{
	Use:   "find <term>",
	Short: "Find a single article by title or author",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		field, err := news.ParseField(fieldFlag)
		if err != nil {
			return err
		}
		sess, err := newSession()
		if err != nil {
			return err
		}
		sess.SetField(field)

		term := strings.Join(args, " ")
		out, err := sess.Find(cmd.Context(), term)
		if err != nil {
			return err
		}
		return writeOutcome(cmd.OutOrStdout(), formatFlag, fmt.Sprintf("Find %s: %s", field, term), out)
	},
}

var readCmd = &cobra.Command{
	Use:   "read <url>",
	Short: "Print the readable text of an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := reader.New(cfg.ReaderTimeout(), cfg.Reader.UserAgent)
		page, err := r.Read(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, page.Title)
		if page.Byline != "" {
			fmt.Fprintln(w, page.Byline)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, page.Text)
		return nil
	},
}

func init() {
	headlinesCmd.Flags().IntVarP(&countFlag, "count", "n", 0, "Number of articles (5, 10, 20, 50)")
	headlinesCmd.Flags().StringVar(&category, "category", "", "Headline category")
	findCmd.Flags().StringVar(&fieldFlag, "field", "title", "Field to match: title or author")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(newClient(), server.Options{
			Category:   cfg.Browse.DefaultCategory,
			DateFilter: cfg.DateFilter(),
		}, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

// --- browse command ---

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}
		// Log lines would draw over the full-screen UI.
		if verbose {
			f, err := tea.LogToFile("newsbrowse-debug.log", "newsbrowse")
			if err != nil {
				return fmt.Errorf("opening debug log: %w", err)
			}
			defer f.Close()
		} else {
			log.SetOutput(io.Discard)
		}
		return tui.Run(sess, reader.New(cfg.ReaderTimeout(), cfg.Reader.UserAgent))
	},
}

func newClient() *gnews.Client {
	client := gnews.NewClient(gnews.Options{
		BaseURL:  cfg.Provider.BaseURL,
		APIKey:   cfg.APIKey(),
		Language: cfg.Provider.Language,
		Timeout:  cfg.ProviderTimeout(),
	})
	if !client.IsConfigured() {
		log.Printf("Warning: %s is not set, provider requests will be rejected", cfg.Provider.APIKeyEnv)
	}
	return client
}

func newSession() (*session.Session, error) {
	filter := cfg.DateFilter()
	if dateFlag != "" {
		f, err := datefilter.Parse(dateFlag)
		if err != nil {
			return nil, err
		}
		filter = f
	}
	sess := session.New(newClient(), session.Options{
		Category:   cfg.Browse.DefaultCategory,
		DateFilter: filter,
		Count:      cfg.Browse.DefaultCount,
	})
	return sess, nil
}

// writeOutcome prints an outcome in the requested format.
func writeOutcome(w io.Writer, format, heading string, out session.Outcome) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "markdown", "md":
		_, err := io.WriteString(w, render.Markdown(heading, out.Filter, out.Articles))
		return err
	case "text", "":
	default:
		return fmt.Errorf("unknown format %q (want text, markdown or json)", format)
	}

	if out.Notice.Message != "" {
		fmt.Fprintln(w, out.Notice.String())
	}
	fmt.Fprintf(w, "%s (%s)\n\n", heading, out.Filter.Label())
	for i, a := range out.Articles {
		fmt.Fprintf(w, "%2d. %s\n", i+1, a.Title)
		fmt.Fprintf(w, "    %s · %s\n", render.SourceName(a), render.DisplayDate(a.PublishedAt))
		fmt.Fprintf(w, "    %s\n", a.URL)
	}
	return nil
}
