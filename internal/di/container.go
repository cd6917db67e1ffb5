package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	"github.com/goliatone/go-lessons/internal/assets"
	"github.com/goliatone/go-lessons/internal/commands"
	portalcmd "github.com/goliatone/go-lessons/internal/commands/portal"
	"github.com/goliatone/go-lessons/internal/evaluator"
	"github.com/goliatone/go-lessons/internal/evaluator/sandbox"
	"github.com/goliatone/go-lessons/internal/i18n"
	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/internal/logging/console"
	"github.com/goliatone/go-lessons/internal/logging/gologger"
	"github.com/goliatone/go-lessons/internal/markdown"
	"github.com/goliatone/go-lessons/internal/portal"
	"github.com/goliatone/go-lessons/internal/render"
	"github.com/goliatone/go-lessons/internal/runtimeconfig"
	"github.com/goliatone/go-lessons/internal/uistate"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// Container wires the portal dependencies described by a Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	docs     fs.FS
	resolver *assets.Resolver
	cache    *assets.Cache

	bunDB *bun.DB
	state uistate.Repository

	manifest   *portal.Manifest
	languages  *i18n.Registry
	labels     *i18n.Catalog
	parser     interfaces.MarkdownParser
	evaluator  interfaces.Evaluator
	dispatcher *render.Dispatcher

	portalSvc *portal.Service
	handlers  *portalcmd.HandlerSet
	registry  *commands.DispatcherRegistry

	closeOnce sync.Once
	closers   []func() error
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithDocsFS serves documents from fsys instead of Config.DocsRoot.
func WithDocsFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.docs = fsys
	}
}

// WithStateRepository overrides the repository selected by Config.Storage.
func WithStateRepository(repo uistate.Repository) Option {
	return func(c *Container) {
		c.state = repo
	}
}

// WithBunDB stores UI state in db, migrating the flag table on start.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithManifest overrides the manifest loaded from Config.Manifest.
func WithManifest(manifest *portal.Manifest) Option {
	return func(c *Container) {
		c.manifest = manifest
	}
}

// WithEvaluator overrides the Starlark sandbox.
func WithEvaluator(e interfaces.Evaluator) Option {
	return func(c *Container) {
		c.evaluator = e
	}
}

// WithCommandRegistry subscribes the portal handlers on reg.
func WithCommandRegistry(reg *commands.DispatcherRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// NewContainer validates cfg and builds every portal dependency.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func(context.Context) error{
		c.configureLogging,
		c.configureAssets,
		c.configureManifest,
		c.configureLanguages,
		c.configureRendering,
		c.configureStorage,
		c.configurePortal,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	c.logger.Info("container.configured",
		"docs_root", cfg.DocsRoot,
		"sections", len(c.manifest.Sections),
		"languages", len(c.languages.Languages()),
		"storage", cfg.StorageProvider(),
		"execution", evaluator.CanExecute(c.evaluator),
	)
	return c, nil
}

func (c *Container) configureLogging(context.Context) error {
	if c.loggerProvider == nil {
		provider, err := newLoggerProvider(c.Config.Logging, c.Config.Features.Logger)
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "lessons")
	return nil
}

func newLoggerProvider(cfg runtimeconfig.LoggingConfig, enabled bool) (interfaces.LoggerProvider, error) {
	if !enabled {
		return nil, nil
	}
	switch cfg.Provider {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		opts := console.Options{Writer: os.Stderr}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	}
}

func (c *Container) configureAssets(context.Context) error {
	if c.docs == nil {
		c.docs = os.DirFS(c.Config.DocsRoot)
	}
	c.resolver = assets.NewResolver(c.docs, assets.WithLogger(logging.AssetsLogger(c.loggerProvider)))
	if c.Config.Cache.Enabled {
		c.cache = assets.NewCache(c.resolver)
	}
	return nil
}

func (c *Container) configureManifest(ctx context.Context) error {
	if c.manifest != nil {
		return nil
	}
	manifest, err := portal.LoadManifest(ctx, c.Config.Manifest)
	if err != nil {
		return err
	}
	c.manifest = manifest
	return nil
}

func (c *Container) configureLanguages(ctx context.Context) error {
	i18nCfg := i18n.Config{
		DefaultLanguage: c.Config.DefaultLanguage,
		Languages:       c.Config.Languages,
		LabelsPath:      c.Config.Labels,
	}
	registry, err := i18n.NewRegistry(i18nCfg)
	if err != nil {
		return err
	}
	labels, err := i18n.LoadCatalog(ctx, i18nCfg)
	if err != nil {
		return err
	}
	c.languages = registry
	c.labels = labels
	return nil
}

func (c *Container) configureRendering(context.Context) error {
	md := c.Config.Markdown
	c.parser = markdown.NewGoldmarkParser(interfaces.ParseOptions{
		Extensions: md.Extensions,
		Sanitize:   md.Sanitize,
		HardWraps:  md.HardWraps,
		SafeMode:   md.SafeMode,
	})
	if c.evaluator == nil {
		if c.Config.Features.Execution {
			c.evaluator = sandbox.New(
				sandbox.WithMaxSteps(c.Config.Evaluator.MaxSteps),
				sandbox.WithTimeout(c.Config.Evaluator.Timeout),
				sandbox.WithLogger(logging.EvaluatorLogger(c.loggerProvider)),
			)
		} else {
			c.evaluator = evaluator.Disabled{}
		}
	}
	c.dispatcher = render.NewDispatcher(
		render.WithEvaluator(c.evaluator),
		render.WithLogger(logging.RenderLogger(c.loggerProvider)),
	)
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.state != nil {
		return nil
	}
	if c.bunDB == nil {
		switch c.Config.StorageProvider() {
		case runtimeconfig.StorageSQLite:
			db, err := openBun("sqlite3", c.Config.Storage.DSN, sqlitedialect.New())
			if err != nil {
				return err
			}
			c.bunDB = db
			c.closers = append(c.closers, db.Close)
		case runtimeconfig.StoragePostgres:
			db, err := openBun("postgres", c.Config.Storage.DSN, pgdialect.New())
			if err != nil {
				return err
			}
			c.bunDB = db
			c.closers = append(c.closers, db.Close)
		case runtimeconfig.StorageBolt:
			repo, err := uistate.OpenBolt(c.Config.Storage.Path)
			if err != nil {
				return err
			}
			c.state = repo
			c.closers = append(c.closers, repo.Close)
			return nil
		default:
			c.state = uistate.NewMemoryRepository()
			return nil
		}
	}
	if err := uistate.Migrate(ctx, c.bunDB); err != nil {
		return fmt.Errorf("migrate ui state: %w", err)
	}
	c.state = uistate.NewBunRepository(c.bunDB)
	return nil
}

func openBun(driver, dsn string, dialect schema.Dialect) (*bun.DB, error) {
	sqldb, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return bun.NewDB(sqldb, dialect), nil
}

func (c *Container) configurePortal(context.Context) error {
	svc, err := portal.NewService(c.manifest, c.AssetResolver(), c.languages,
		portal.WithDispatcher(c.dispatcher),
		portal.WithStateRepository(c.state),
		portal.WithLabels(c.labels),
		portal.WithLogger(logging.PortalLogger(c.loggerProvider)),
		portal.WithPreviewLines(c.Config.Render.PreviewLines),
		portal.WithHideTOC(c.Config.Render.HideTOC),
		portal.WithImageResolver(portal.AssetURL(c.Config.Render.AssetPrefix)),
	)
	if err != nil {
		return err
	}
	c.portalSvc = svc

	var reg portalcmd.CommandRegistry
	if c.registry != nil {
		reg = c.registry
	}
	handlers, err := portalcmd.RegisterPortalCommands(reg, svc, c.loggerProvider)
	if err != nil {
		return err
	}
	c.handlers = handlers
	return nil
}

// Close releases the databases the container opened itself.
func (c *Container) Close() error {
	var errs []error
	c.closeOnce.Do(func() {
		if c.registry != nil {
			c.registry.Close()
		}
		for i := len(c.closers) - 1; i >= 0; i-- {
			if err := c.closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) Logger() interfaces.Logger {
	return c.logger
}

// Docs returns the filesystem documents and images are read from.
func (c *Container) Docs() fs.FS {
	return c.docs
}

// Cache returns the document cache, nil when caching is disabled.
func (c *Container) Cache() *assets.Cache {
	return c.cache
}

func (c *Container) Manifest() *portal.Manifest {
	return c.manifest
}

func (c *Container) Languages() *i18n.Registry {
	return c.languages
}

func (c *Container) MarkdownParser() interfaces.MarkdownParser {
	return c.parser
}

func (c *Container) Dispatcher() *render.Dispatcher {
	return c.dispatcher
}

func (c *Container) StateRepository() uistate.Repository {
	return c.state
}

func (c *Container) PortalService() *portal.Service {
	return c.portalSvc
}

func (c *Container) Commands() *portalcmd.HandlerSet {
	return c.handlers
}

func (c *Container) Evaluator() interfaces.Evaluator {
	return c.evaluator
}

// AssetResolver returns the cached resolver when caching is enabled.
func (c *Container) AssetResolver() interfaces.AssetResolver {
	if c.cache != nil {
		return c.cache
	}
	return c.resolver
}
