package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lessons/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.StorageProvider() != runtimeconfig.StorageMemory {
		t.Fatalf("expected memory storage, got %q", cfg.StorageProvider())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"docs root", func(c *runtimeconfig.Config) { c.DocsRoot = " " }, runtimeconfig.ErrDocsRootRequired},
		{"languages", func(c *runtimeconfig.Config) { c.Languages = nil }, runtimeconfig.ErrLanguagesRequired},
		{"default language", func(c *runtimeconfig.Config) { c.DefaultLanguage = "" }, runtimeconfig.ErrDefaultLanguageRequired},
		{"server addr", func(c *runtimeconfig.Config) { c.Server.Addr = "" }, runtimeconfig.ErrServerAddrRequired},
		{"unknown storage", func(c *runtimeconfig.Config) { c.Storage.Provider = "redis" }, runtimeconfig.ErrStorageProviderUnknown},
		{"sqlite dsn", func(c *runtimeconfig.Config) { c.Storage.Provider = "SQLite" }, runtimeconfig.ErrStorageDSNRequired},
		{"bolt path", func(c *runtimeconfig.Config) { c.Storage.Provider = "bolt" }, runtimeconfig.ErrStoragePathRequired},
		{"preview lines", func(c *runtimeconfig.Config) { c.Render.PreviewLines = 0 }, runtimeconfig.ErrPreviewLinesInvalid},
		{"evaluator timeout", func(c *runtimeconfig.Config) { c.Evaluator.Timeout = -time.Second }, runtimeconfig.ErrEvaluatorTimeoutInvalid},
		{"watch without cache", func(c *runtimeconfig.Config) {
			c.Features.Watch = true
			c.Cache.Enabled = false
		}, runtimeconfig.ErrWatchRequiresCache},
		{"logging provider", func(c *runtimeconfig.Config) {
			c.Features.Logger = true
			c.Logging.Provider = ""
		}, runtimeconfig.ErrLoggingProviderRequired},
		{"unknown logging provider", func(c *runtimeconfig.Config) {
			c.Features.Logger = true
			c.Logging.Provider = "syslog"
		}, runtimeconfig.ErrLoggingProviderUnknown},
		{"logging level", func(c *runtimeconfig.Config) {
			c.Features.Logger = true
			c.Logging.Level = "loud"
		}, runtimeconfig.ErrLoggingLevelInvalid},
		{"logging format", func(c *runtimeconfig.Config) {
			c.Features.Logger = true
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, runtimeconfig.ErrLoggingFormatInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestConfigValidate_AllowsStorageProviders(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage = runtimeconfig.StorageConfig{Provider: "postgres", DSN: "postgres://localhost/lessons"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}

	cfg.Storage = runtimeconfig.StorageConfig{Provider: "bolt", Path: "state.db"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestDecodeOverlaysDefaults(t *testing.T) {
	cfg, err := runtimeconfig.Decode(strings.NewReader(`
docs_root: ./guide
languages: [English, Spanish, French]
server:
  addr: 127.0.0.1:9000
evaluator:
  timeout: 2s
storage:
  provider: sqlite
  dsn: file:lessons.db
features:
  watch: true
`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if cfg.DocsRoot != "./guide" || cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected overlay %+v", cfg)
	}
	if diff := cmp.Diff([]string{"English", "Spanish", "French"}, cfg.Languages); diff != "" {
		t.Fatalf("languages mismatch (-want +got):\n%s", diff)
	}
	if cfg.Evaluator.Timeout != 2*time.Second {
		t.Fatalf("expected 2s timeout, got %s", cfg.Evaluator.Timeout)
	}
	if cfg.DefaultLanguage != "English" || cfg.Render.PreviewLines != 3 || !cfg.Features.Execution {
		t.Fatalf("expected defaults to survive, got %+v", cfg)
	}
	if cfg.StorageProvider() != runtimeconfig.StorageSQLite {
		t.Fatalf("expected sqlite, got %q", cfg.StorageProvider())
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	if _, err := runtimeconfig.Decode(strings.NewReader("docs_rot: x\n")); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestDecodeValidates(t *testing.T) {
	_, err := runtimeconfig.Decode(strings.NewReader("storage:\n  provider: bolt\n"))
	if !errors.Is(err, runtimeconfig.ErrStoragePathRequired) {
		t.Fatalf("expected ErrStoragePathRequired, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lessons.yaml")
	if err := os.WriteFile(path, []byte("default_language: Spanish\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultLanguage != "Spanish" {
		t.Fatalf("expected Spanish, got %q", cfg.DefaultLanguage)
	}

	if _, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}
}
