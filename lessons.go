// Package lessons assembles the tutorial portal: localized markdown lessons
// rendered section by section, with executable code cells evaluated in a
// sandbox that keeps its bindings across the cells of a document.
package lessons

import (
	"context"
	"net/http"

	"github.com/goliatone/go-lessons/internal/commands"
	portalcmd "github.com/goliatone/go-lessons/internal/commands/portal"
	"github.com/goliatone/go-lessons/internal/di"
	lessonshttp "github.com/goliatone/go-lessons/internal/http"
	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/internal/portal"
	"github.com/goliatone/go-lessons/internal/render"
)

// PortalService exports the portal service.
type PortalService = *portal.Service

// Manifest exports the site manifest.
type Manifest = portal.Manifest

// RenderReport exports the summary of a render pass.
type RenderReport = render.Report

// Module represents the top level portal runtime façade.
type Module struct {
	container *di.Container
	registry  *commands.DispatcherRegistry
}

// New constructs a portal module using the provided configuration and
// optional DI overrides. Portal commands are subscribed on the go-command
// dispatcher until Close.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	registry := commands.NewDispatcherRegistry()
	opts = append([]di.Option{di.WithCommandRegistry(registry)}, opts...)
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container, registry: registry}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Portal returns the portal service.
func (m *Module) Portal() PortalService {
	return m.container.PortalService()
}

// Commands returns the portal command handlers.
func (m *Module) Commands() *portalcmd.HandlerSet {
	return m.container.Commands()
}

// Handler builds the HTTP handler serving the portal pages and the docs
// images under /assets/.
func (m *Module) Handler() (http.Handler, error) {
	cfg := m.container.Config
	server, err := lessonshttp.NewServer(m.container.PortalService(), m.container.Commands(),
		lessonshttp.WithMarkdown(m.container.MarkdownParser()),
		lessonshttp.WithStaticFS(m.container.Docs()),
		lessonshttp.WithLogger(logging.HTTPLogger(m.container.LoggerProvider())),
		lessonshttp.WithSessionCookie(cfg.Server.SessionCookie, cfg.Server.SecureCookie),
	)
	if err != nil {
		return nil, err
	}
	return server.Handler()
}

// Close releases the command subscriptions and storage handles.
func (m *Module) Close() error {
	return m.container.Close()
}
