package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName is used for the config directory and the default User-Agent.
const AppName = "commonsmeta"

// Config holds the application configuration.
type Config struct {
	Request  RequestConfig  `yaml:"request"`
	Log      LogConfig      `yaml:"log"`
	Commons  CommonsConfig  `yaml:"commons"`
	Wikidata WikidataConfig `yaml:"wikidata"`
	Harvest  HarvestConfig  `yaml:"harvest"`
}

// RequestConfig holds HTTP request settings.
type RequestConfig struct {
	UserAgent string   `yaml:"user_agent"`
	Timeout   Duration `yaml:"timeout"` // 0 = wait forever
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// LogSettings holds settings for a specific logger.
// An empty Path disables the file output.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// CommonsConfig holds settings for the metadata API.
type CommonsConfig struct {
	Lang        string `yaml:"lang"`         // host prefix, e.g. "commons" -> commons.wikimedia.org
	APIEndpoint string `yaml:"api_endpoint"` // optional override of https://<lang>.wikimedia.org/w/api.php
	PageLimit   int    `yaml:"page_limit"`   // single page size for member listings, no continuation
}

// WikidataConfig holds settings for the knowledge-base lookups.
type WikidataConfig struct {
	SPARQLEndpoint  string `yaml:"sparql_endpoint"`
	LabelLanguage   string `yaml:"label_language"`
	DepictsProperty string `yaml:"depicts_property"`
}

// HarvestConfig holds settings for the run driver.
type HarvestConfig struct {
	Category       string   `yaml:"category"`
	SkipCategories []string `yaml:"skip_categories"`
	Color          bool     `yaml:"color"`
}

var (
	// ErrInvalidPageLimit is returned when page_limit is outside 1..500.
	ErrInvalidPageLimit = errors.New("invalid page_limit: must be between 1 and 500")
	// ErrInvalidLang is returned when the API language/host prefix is malformed.
	ErrInvalidLang = errors.New("invalid lang: must be a host prefix like 'commons' or 'en'")
	// ErrInvalidProperty is returned when depicts_property is not a P-id.
	ErrInvalidProperty = errors.New("invalid depicts_property: must look like 'P180'")
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Request: RequestConfig{
			Timeout: Duration(0),
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "",
				Level: "INFO",
			},
		},
		Commons: CommonsConfig{
			Lang:      "commons",
			PageLimit: 500,
		},
		Wikidata: WikidataConfig{
			SPARQLEndpoint:  "https://query.wikidata.org/sparql",
			LabelLanguage:   "en",
			DepictsProperty: "P180",
		},
		Harvest: HarvestConfig{
			Category:       "Category:Images_by_Ana_Beatriz_Sampaio_in_Wiki_Loves_Monuments_2021_in_Brazil",
			SkipCategories: []string{"Category:Pages with maps"},
			Color:          true,
		},
	}
}

// DefaultPath returns the XDG location of the config file.
// On Linux: ~/.config/commonsmeta/config.yaml
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Load loads the configuration from the given path.
// A missing file yields the defaults; nothing is written to disk.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Load from Env if empty (as a fallback, but do NOT save back to disk)
	if cfg.Request.UserAgent == "" {
		if ua := os.Getenv("COMMONSMETA_USER_AGENT"); ua != "" {
			cfg.Request.UserAgent = ua
		}
	}

	cfg.Log.Server.Path = expandPath(cfg.Log.Server.Path)
	cfg.Log.Requests.Path = expandPath(cfg.Log.Requests.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	reLang     = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	reProperty = regexp.MustCompile(`^P[1-9][0-9]*$`)
)

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.Commons.PageLimit < 1 || c.Commons.PageLimit > 500 {
		return fmt.Errorf("%w (got %d)", ErrInvalidPageLimit, c.Commons.PageLimit)
	}
	if !reLang.MatchString(c.Commons.Lang) {
		return fmt.Errorf("%w (got %q)", ErrInvalidLang, c.Commons.Lang)
	}
	if !reProperty.MatchString(c.Wikidata.DepictsProperty) {
		return fmt.Errorf("%w (got %q)", ErrInvalidProperty, c.Wikidata.DepictsProperty)
	}
	if time.Duration(c.Request.Timeout) < 0 {
		return fmt.Errorf("invalid timeout: must not be negative")
	}
	return nil
}

// expandPath resolves $VAR and %VAR% references.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	reWin := regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)%`)
	return reWin.ReplaceAllStringFunc(p, func(m string) string {
		return os.Getenv(strings.Trim(m, "%"))
	})
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# commonsmeta Configuration
# ------------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	// Inject comments for fields whose meaning is not obvious from the key.
	reTimeout := regexp.MustCompile(`(?m)^(\s+)timeout:`)
	data = reTimeout.ReplaceAll(data, []byte("${1}# 0s waits forever for each response\n${1}timeout:"))

	reLimit := regexp.MustCompile(`(?m)^(\s+)page_limit:`)
	data = reLimit.ReplaceAll(data, []byte("${1}# Members beyond this limit are not fetched (no continuation)\n${1}page_limit:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, do nothing
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write default config
	return Save(path, DefaultConfig())
}
