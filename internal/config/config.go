package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"SentimentExporter/internal/domain"
	"SentimentExporter/internal/normalize"
	"SentimentExporter/internal/source"
)

const (
	configPathEnv = "SENTIMENT_EXPORTER_CONFIG"
	sourceEnv     = "SENTIMENT_EXPORTER_SOURCE"
	logLevelEnv   = "SENTIMENT_EXPORTER_LOG_LEVEL"
	cacheTTLEnv   = "SENTIMENT_EXPORTER_CACHE_TTL"
)

// Cache backends.
const (
	CacheLRU  = "lru"
	CacheTTL  = "ttl"
	CacheNone = "none"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig  `yaml:"logging"`
	HTTP          HTTPConfig     `yaml:"http"`
	Render        RenderConfig   `yaml:"render"`
	Cache         CacheConfig    `yaml:"cache"`
	Server        ServerConfig   `yaml:"server"`
	DefaultSource string         `yaml:"defaultSource"`
	Sources       []SourceConfig `yaml:"sources"`
}

// LoggingConfig selects level and handler ("text" or "tint").
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HTTPConfig bounds every upstream request.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// RenderConfig drives the headless browser for script-populated pages.
type RenderConfig struct {
	// Headless defaults to true when unset.
	Headless    *bool         `yaml:"headless"`
	WaitTimeout time.Duration `yaml:"waitTimeout"`
	ExecPath    string        `yaml:"execPath"`
}

// CacheConfig declares the read-through cache for raw fetches.
type CacheConfig struct {
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
	Size    int           `yaml:"size"`
}

// IsHeadless reports the effective headless flag.
func (r RenderConfig) IsHeadless() bool {
	return r.Headless == nil || *r.Headless
}

// ServerConfig is used by the HTTP shell.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// WarmInterval refreshes every source's cache in the background; zero disables it.
	WarmInterval time.Duration `yaml:"warmInterval"`
}

// SourceConfig describes one upstream and how its rows map onto the canonical schema.
type SourceConfig struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	Kind  string `yaml:"kind"`
	URL   string `yaml:"url"`

	// html-table only.
	Render    bool   `yaml:"render"`
	Selector  string `yaml:"selector"`
	Signature string `yaml:"signature"`

	// json-api only.
	Records string `yaml:"records"`

	Columns map[string]string `yaml:"columns"`
	Date    DateConfig        `yaml:"date"`
}

// DateConfig names the one date encoding a source uses.
type DateConfig struct {
	Codec  string `yaml:"codec"`
	Layout string `yaml:"layout"`
}

// FileLabel is the export filename prefix; it falls back to the source name.
func (s SourceConfig) FileLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// Source looks a configured source up by name.
func (c Config) Source(name string) (SourceConfig, bool) {
	for _, src := range c.Sources {
		if src.Name == name {
			return src, true
		}
	}
	return SourceConfig{}, false
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An explicit path wins over SENTIMENT_EXPORTER_CONFIG.
func Load(path string) Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot load .env: %v", err)
	}

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(sourceEnv); v != "" {
		c.DefaultSource = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(cacheTTLEnv); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("config: invalid %s=%q: %v", cacheTTLEnv, v, err)
		} else {
			c.Cache.TTL = ttl
		}
	}
}

// Validate rejects configurations that could not build a working pipeline.
func (c Config) Validate() error {
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}

	switch c.Cache.Backend {
	case CacheLRU, CacheTTL:
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive for backend %q", c.Cache.Backend)
		}
	case CacheNone, "":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	seen := map[string]struct{}{}
	for _, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("source without name")
		}
		if _, dup := seen[src.Name]; dup {
			return fmt.Errorf("source %s declared twice", src.Name)
		}
		seen[src.Name] = struct{}{}

		if err := src.validate(); err != nil {
			return fmt.Errorf("source %s: %w", src.Name, err)
		}
	}

	if c.DefaultSource != "" {
		if _, ok := seen[c.DefaultSource]; !ok {
			return fmt.Errorf("default source %s is not configured", c.DefaultSource)
		}
	}
	return nil
}

func (s SourceConfig) validate() error {
	if s.URL == "" {
		return fmt.Errorf("url is required")
	}

	switch s.Kind {
	case source.KindHTMLTable:
		if strings.TrimSpace(s.Signature) == "" {
			return fmt.Errorf("signature is required for %s", s.Kind)
		}
	case source.KindJSONAPI:
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}

	if _, err := normalize.CodecFor(s.Date.Codec, s.Date.Layout); err != nil {
		return err
	}

	mapped := map[string]bool{}
	for _, dst := range s.Columns {
		mapped[dst] = true
	}
	for _, field := range domain.CanonicalFields {
		if !mapped[field] {
			return fmt.Errorf("columns do not map %q", field)
		}
	}
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.HTTP.Timeout != 0 {
		base.HTTP.Timeout = override.HTTP.Timeout
	}
	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}

	if override.Render.WaitTimeout != 0 {
		base.Render.WaitTimeout = override.Render.WaitTimeout
	}
	if override.Render.ExecPath != "" {
		base.Render.ExecPath = override.Render.ExecPath
	}
	if override.Render.Headless != nil {
		base.Render.Headless = override.Render.Headless
	}

	if override.Cache.Backend != "" {
		base.Cache.Backend = override.Cache.Backend
	}
	if override.Cache.TTL != 0 {
		base.Cache.TTL = override.Cache.TTL
	}
	if override.Cache.Size != 0 {
		base.Cache.Size = override.Cache.Size
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.WarmInterval != 0 {
		base.Server.WarmInterval = override.Server.WarmInterval
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
		// The built-in default names a built-in source, so it cannot survive a replaced list.
		base.DefaultSource = override.Sources[0].Name
	}

	if override.DefaultSource != "" {
		base.DefaultSource = override.DefaultSource
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		HTTP:    HTTPConfig{Timeout: 20 * time.Second},
		Render:  RenderConfig{WaitTimeout: 20 * time.Second},
		Cache:   CacheConfig{Backend: CacheLRU, TTL: time.Hour, Size: 64},
		Server:  ServerConfig{Addr: ":8080"},

		DefaultSource: "finhacker",
		Sources: []SourceConfig{
			{
				Name:      "finhacker",
				Label:     "finhacker_fg_index",
				Kind:      source.KindHTMLTable,
				URL:       "https://finhacker.cz/fear-and-greed-index-historical-data/",
				Render:    true,
				Selector:  "#tablepress-2",
				Signature: "F&G Value",
				Columns:   map[string]string{"Date": domain.FieldDate, "F&G Value": domain.FieldValue, "F&G Rating": domain.FieldRating},
				Date:      DateConfig{Codec: normalize.CodecLayout, Layout: "January 2, 2006"},
			},
			{
				Name:      "finhacker-http",
				Label:     "finhacker_fg_index",
				Kind:      source.KindHTMLTable,
				URL:       "https://finhacker.cz/fear-and-greed-index-historical-data/",
				Signature: "F&G Value",
				Columns:   map[string]string{"Date": domain.FieldDate, "F&G Value": domain.FieldValue, "F&G Rating": domain.FieldRating},
				Date:      DateConfig{Codec: normalize.CodecLayout, Layout: "January 2, 2006"},
			},
			{
				Name:    "cnn",
				Label:   "cnn_fg_index",
				Kind:    source.KindJSONAPI,
				URL:     "https://production.dataviz.cnn.io/index/fearandgreed/graphdata/2020-09-19",
				Records: "fear_and_greed_historical.data",
				Columns: map[string]string{"x": domain.FieldDate, "y": domain.FieldValue, "rating": domain.FieldRating},
				Date:    DateConfig{Codec: normalize.CodecEpochMS},
			},
			{
				Name:    "alternative",
				Label:   "crypto_fg_index",
				Kind:    source.KindJSONAPI,
				URL:     "https://api.alternative.me/fng/?limit=0",
				Records: "data",
				Columns: map[string]string{"timestamp": domain.FieldDate, "value": domain.FieldValue, "value_classification": domain.FieldRating},
				Date:    DateConfig{Codec: normalize.CodecEpochS},
			},
		},
	}
}
