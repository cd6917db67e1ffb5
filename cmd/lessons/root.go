package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-lessons"
)

type rootOptions struct {
	configPath string
	docsRoot   string
	manifest   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "lessons",
		Short:         "Localized tutorial portal with executable code cells",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (defaults apply when empty)")
	flags.StringVar(&opts.docsRoot, "docs", "", "Docs root holding one directory per language")
	flags.StringVar(&opts.manifest, "manifest", "", "Site manifest YAML (built-in guide layout when empty)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Enable logging at the given level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newRenderCmd(opts),
		newPreviewCmd(opts),
		newCheckCmd(opts),
	)
	return cmd
}

// config loads the config file and applies the persistent flags on top.
func (o *rootOptions) config() (lessons.Config, error) {
	cfg := lessons.DefaultConfig()
	if o.configPath != "" {
		loaded, err := lessons.LoadConfig(o.configPath)
		if err != nil {
			return lessons.Config{}, err
		}
		cfg = loaded
	}
	if o.docsRoot != "" {
		cfg.DocsRoot = o.docsRoot
	}
	if o.manifest != "" {
		cfg.Manifest = o.manifest
	}
	if o.logLevel != "" {
		cfg.Features.Logger = true
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return lessons.Config{}, err
	}
	return cfg, nil
}
