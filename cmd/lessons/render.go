package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-lessons"
	portalcmd "github.com/goliatone/go-lessons/internal/commands/portal"
	"github.com/goliatone/go-lessons/internal/render"
	"github.com/goliatone/go-lessons/internal/surface/recording"
	"github.com/goliatone/go-lessons/internal/surface/terminal"
	"github.com/goliatone/go-lessons/internal/surface/web"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

type renderOptions struct {
	language string
	mode     string
	hideTOC  bool
	trace    bool
	style    string
	width    int
}

func (o *renderOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.language, "lang", "l", "", "Language name or tag (default language when empty)")
	cmd.Flags().StringVar(&o.mode, "mode", "", "Override the section mode: static or executable")
	cmd.Flags().BoolVar(&o.hideTOC, "no-toc", false, "Skip the table of contents")
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render SECTION DOCUMENT",
		Short: "Render a document as an HTML fragment, or as a draw call trace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			opts.hideTOC = opts.hideTOC || cfg.Render.HideTOC
			return withModule(cmd.Context(), cfg, func(module *lessons.Module) error {
				if opts.trace {
					surface := recording.New()
					report, err := renderDocument(cmd.Context(), surface, args, opts)
					if err != nil {
						return err
					}
					if err := surface.WriteJSON(cmd.OutOrStdout()); err != nil {
						return err
					}
					return summarize(cmd.ErrOrStderr(), args, report)
				}

				surface := web.New(web.Options{
					Markdown: module.Container().MarkdownParser(),
				})
				report, err := renderDocument(cmd.Context(), surface, args, opts)
				if err != nil {
					return err
				}
				if _, err := io.WriteString(cmd.OutOrStdout(), string(surface.HTML())+"\n"); err != nil {
					return err
				}
				return summarize(cmd.ErrOrStderr(), args, report)
			})
		},
	}
	opts.bind(cmd)
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Write the draw calls as JSON instead of HTML")
	return cmd
}

func newPreviewCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "preview SECTION DOCUMENT",
		Short: "Render a document in the terminal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			opts.hideTOC = opts.hideTOC || cfg.Render.HideTOC
			return withModule(cmd.Context(), cfg, func(module *lessons.Module) error {
				surface, err := terminal.New(cmd.OutOrStdout(), terminal.Options{
					Style:    opts.style,
					WordWrap: opts.width,
				})
				if err != nil {
					return err
				}
				report, err := renderDocument(cmd.Context(), surface, args, opts)
				if err != nil {
					return err
				}
				if err := surface.Err(); err != nil {
					return err
				}
				return summarize(cmd.ErrOrStderr(), args, report)
			})
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.style, "style", "", "Glamour style (dark, light, notty); detected when empty")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Word wrap width")
	return cmd
}

func withModule(ctx context.Context, cfg lessons.Config, fn func(*lessons.Module) error) error {
	module, err := lessons.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer module.Close()
	return fn(module)
}

type renderResult struct {
	report  *render.Report
	elapsed time.Duration
}

// renderDocument sends a RenderDocumentCommand through the command
// dispatcher the module subscribed its handlers on.
func renderDocument(ctx context.Context, surface interfaces.Surface, args []string, opts *renderOptions) (renderResult, error) {
	started := time.Now()
	var result renderResult
	err := dispatcher.Dispatch(ctx, portalcmd.RenderDocumentCommand{
		Language: opts.language,
		Section:  args[0],
		Document: args[1],
		Mode:     opts.mode,
		HideTOC:  opts.hideTOC,
		Surface:  surface,
		OnReport: func(report *render.Report) { result.report = report },
	})
	result.elapsed = time.Since(started)
	return result, err
}

func summarize(w io.Writer, args []string, result renderResult) error {
	report := result.report
	if report == nil {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s/%s: %s draw calls, %s cells, %s failed, %d scan issues in %s\n",
		args[0], args[1],
		humanize.Comma(int64(report.Calls)),
		humanize.Comma(int64(report.Cells)),
		humanize.Comma(int64(len(report.Failures))),
		len(report.Issues),
		result.elapsed.Round(time.Millisecond),
	)
	for _, failure := range report.Failures {
		fmt.Fprintf(w, "  cell %d: %v\n", failure.Index, failure.Err)
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(w, "  %v\n", issue)
	}
	return err
}
