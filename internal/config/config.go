package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/TobiSchelling/newsbrowse/internal/datefilter"
	"github.com/TobiSchelling/newsbrowse/internal/news"
)

// DefaultAPIKeyEnv is the environment variable holding the GNews token
// unless provider.api_key_env names another.
const DefaultAPIKeyEnv = "GNEWS_API_KEY"

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Provider Provider `yaml:"provider"`
	Browse   Browse   `yaml:"browse"`
	Reader   Reader   `yaml:"reader"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

type Provider struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Language  string `yaml:"language"`
	Timeout   string `yaml:"timeout"`
}

type Browse struct {
	DefaultCount    int    `yaml:"default_count"`
	DefaultCategory string `yaml:"default_category"`
	DateFilter      string `yaml:"date_filter"`
}

type Reader struct {
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for newsbrowse.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "newsbrowse")
}

// LoadEnv reads a .env file from the working directory if there is one.
func LoadEnv() {
	_ = godotenv.Load()
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/newsbrowse/config.yaml > ./config.yaml.
// An empty path with a nil error means no file exists and the embedded
// defaults apply.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", nil
}

// Load reads and parses a config YAML file. An empty path yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return parse(DefaultConfigYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Provider: Provider{
			BaseURL:   "https://gnews.io/api/v4",
			APIKeyEnv: DefaultAPIKeyEnv,
			Language:  "en",
			Timeout:   "30s",
		},
		Browse: Browse{
			DefaultCount:    news.DefaultCount,
			DefaultCategory: news.DefaultCategory,
			DateFilter:      string(datefilter.All),
		},
		Reader: Reader{
			Timeout:   "15s",
			UserAgent: "newsbrowse/1.0 (news reader)",
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := datefilter.Parse(c.Browse.DateFilter); err != nil {
		return fmt.Errorf("browse.date_filter: %w", err)
	}
	if !news.IsCategory(c.Browse.DefaultCategory) {
		return fmt.Errorf("browse.default_category: unknown category %q (valid: %s)",
			c.Browse.DefaultCategory, strings.Join(news.Categories, ", "))
	}
	if c.Browse.DefaultCount <= 0 {
		return fmt.Errorf("browse.default_count must be positive, got %d", c.Browse.DefaultCount)
	}
	if _, err := time.ParseDuration(c.Provider.Timeout); err != nil {
		return fmt.Errorf("provider.timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Reader.Timeout); err != nil {
		return fmt.Errorf("reader.timeout: %w", err)
	}
	return nil
}

// APIKey returns the provider token from the configured environment variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.Provider.APIKeyEnv)
}

// ProviderTimeout returns the parsed provider request timeout.
func (c *Config) ProviderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Provider.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ReaderTimeout returns the parsed article fetch timeout.
func (c *Config) ReaderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Reader.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// DateFilter returns the configured starting date window.
func (c *Config) DateFilter() datefilter.Filter {
	f, err := datefilter.Parse(c.Browse.DateFilter)
	if err != nil {
		return datefilter.All
	}
	return f
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
