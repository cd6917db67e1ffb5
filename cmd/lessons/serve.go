package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-lessons"
	"github.com/goliatone/go-lessons/internal/assets"
	"github.com/goliatone/go-lessons/internal/logging"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portal over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("watch") {
				cfg.Features.Watch = watch
				cfg.Cache.Enabled = cfg.Cache.Enabled || watch
			}
			return runServe(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload documents when files under the docs root change")
	return cmd
}

func runServe(ctx context.Context, cfg lessons.Config, out io.Writer) error {
	module, err := lessons.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	handler, err := module.Handler()
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	logger := module.Container().Logger()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		logger.Info("serve.shutdown", "timeout", timeout)
		return server.Shutdown(shutdownCtx)
	})

	if cache := module.Container().Cache(); cfg.Features.Watch && cache != nil {
		watcher, err := assets.NewWatcher(cfg.DocsRoot, func(rel string) {
			logger.Debug("serve.docs.changed", "path", rel, "dropped", cache.Invalidate(rel))
		},
			assets.WithDebounce(cfg.Cache.Debounce),
			assets.WithWatcherLogger(logging.AssetsLogger(module.Container().LoggerProvider())),
		)
		if err != nil {
			_ = listener.Close()
			return err
		}
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	fmt.Fprintf(out, "serving %s on http://%s\n", cfg.DocsRoot, listener.Addr())
	logger.Info("serve.started", "addr", listener.Addr().String(), "docs_root", cfg.DocsRoot, "watch", cfg.Features.Watch)
	return g.Wait()
}
