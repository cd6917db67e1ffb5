package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrDocsRootRequired = errors.New("lessons config: docs root is required")
var ErrLanguagesRequired = errors.New("lessons config: at least one language is required")
var ErrDefaultLanguageRequired = errors.New("lessons config: default language is required")
var ErrServerAddrRequired = errors.New("lessons config: server address is required")
var ErrStorageProviderUnknown = errors.New("lessons config: storage provider is invalid")
var ErrStorageDSNRequired = errors.New("lessons config: storage dsn is required for sql providers")
var ErrStoragePathRequired = errors.New("lessons config: storage path is required for the bolt provider")
var ErrPreviewLinesInvalid = errors.New("lessons config: preview lines must be positive")
var ErrEvaluatorTimeoutInvalid = errors.New("lessons config: evaluator timeout must be zero or positive")

// ErrWatchRequiresCache ensures the docs watcher has a cache to invalidate.
var ErrWatchRequiresCache = errors.New("lessons config: watching docs requires the asset cache to be enabled")
var ErrLoggingProviderRequired = errors.New("lessons config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("lessons config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("lessons config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("lessons config: logging format is invalid")

// Storage providers backing the UI-state store.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageBolt     = "bolt"
)

// Config aggregates the settings of the portal, its CLI and its adapters.
type Config struct {
	// DocsRoot holds one directory per language, e.g. docs/english.
	DocsRoot        string   `yaml:"docs_root"`
	DefaultLanguage string   `yaml:"default_language"`
	Languages       []string `yaml:"languages"`
	// Labels overrides the embedded interface label catalog.
	Labels string `yaml:"labels"`
	// Manifest points at a site manifest; empty uses the built-in guide layout.
	Manifest  string          `yaml:"manifest"`
	Server    ServerConfig    `yaml:"server"`
	Evaluator EvaluatorConfig `yaml:"evaluator"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Render    RenderConfig    `yaml:"render"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Logging   LoggingConfig   `yaml:"logging"`
	Features  Features        `yaml:"features"`
}

// ServerConfig captures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	SessionCookie   string        `yaml:"session_cookie"`
	SecureCookie    bool          `yaml:"secure_cookie"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// EvaluatorConfig bounds code cell evaluation. Zero values disable a limit.
type EvaluatorConfig struct {
	MaxSteps uint64        `yaml:"max_steps"`
	Timeout  time.Duration `yaml:"timeout"`
}

// StorageConfig selects the UI-state repository.
type StorageConfig struct {
	Provider string `yaml:"provider"`
	DSN      string `yaml:"dsn"`
	Path     string `yaml:"path"`
}

// CacheConfig toggles the resolved document cache.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// RenderConfig captures section page rendering.
type RenderConfig struct {
	PreviewLines int    `yaml:"preview_lines"`
	AssetPrefix  string `yaml:"asset_prefix"`
	HideTOC      bool   `yaml:"hide_toc"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// Features toggles module functionality.
type Features struct {
	// Execution evaluates code cells of executable sections. When off every
	// section renders statically.
	Execution bool `yaml:"execution"`
	// Watch invalidates cached documents when files under DocsRoot change.
	Watch  bool `yaml:"watch"`
	Logger bool `yaml:"logger"`
}

// DefaultConfig returns the settings of the bundled English/Spanish guide.
func DefaultConfig() Config {
	return Config{
		DocsRoot:        "docs",
		DefaultLanguage: "English",
		Languages:       []string{"English", "Spanish"},
		Server: ServerConfig{
			Addr:            ":8080",
			SessionCookie:   "lessons_session",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Evaluator: EvaluatorConfig{
			MaxSteps: 10_000_000,
			Timeout:  5 * time.Second,
		},
		Storage: StorageConfig{
			Provider: StorageMemory,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Debounce: 100 * time.Millisecond,
		},
		Render: RenderConfig{
			PreviewLines: 3,
			AssetPrefix:  "/assets/",
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"gfm"},
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{
			Execution: true,
		},
	}
}

// Load reads a YAML config file over DefaultConfig and validates the result.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("lessons config: read %s: %w", path, err)
	}
	cfg, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return Config{}, fmt.Errorf("lessons config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML over DefaultConfig. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DocsRoot) == "" {
		return ErrDocsRootRequired
	}
	if len(cfg.Languages) == 0 {
		return ErrLanguagesRequired
	}
	if strings.TrimSpace(cfg.DefaultLanguage) == "" {
		return ErrDefaultLanguageRequired
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	switch provider := normalize(cfg.Storage.Provider); provider {
	case "", StorageMemory:
	case StorageSQLite, StoragePostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, provider)
		}
	case StorageBolt:
		if strings.TrimSpace(cfg.Storage.Path) == "" {
			return ErrStoragePathRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Render.PreviewLines <= 0 {
		return ErrPreviewLinesInvalid
	}
	if cfg.Evaluator.Timeout < 0 {
		return ErrEvaluatorTimeoutInvalid
	}
	if cfg.Features.Watch && !cfg.Cache.Enabled {
		return ErrWatchRequiresCache
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// StorageProvider returns the normalized storage provider, memory when unset.
func (cfg Config) StorageProvider() string {
	if provider := normalize(cfg.Storage.Provider); provider != "" {
		return provider
	}
	return StorageMemory
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
