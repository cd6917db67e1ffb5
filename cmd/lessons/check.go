package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-lessons"
	"github.com/goliatone/go-lessons/internal/assets"
	"github.com/goliatone/go-lessons/internal/document"
	"github.com/goliatone/go-lessons/internal/portal"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// errCheckFailed reports that check found missing files or scan issues.
var errCheckFailed = errors.New("check failed")

type checkSummary struct {
	documents int
	bytes     int64
	missing   int
	issues    int
	fallbacks int
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the manifest and scan every document of every language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			return withModule(cmd.Context(), cfg, func(module *lessons.Module) error {
				summary, err := runCheck(cmd.Context(), module, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s documents (%s), %d missing, %d with scan issues, %d labels from file names\n",
					humanize.Comma(int64(summary.documents)),
					humanize.Bytes(uint64(summary.bytes)),
					summary.missing, summary.issues, summary.fallbacks,
				)
				if summary.missing > 0 || (strict && summary.issues > 0) {
					return errCheckFailed
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on scan issues as well as missing files")
	return cmd
}

func runCheck(ctx context.Context, module *lessons.Module, out io.Writer) (checkSummary, error) {
	var summary checkSummary
	container := module.Container()
	resolver := container.AssetResolver()
	manifest := container.Manifest()

	for _, lang := range container.Languages().Languages() {
		fmt.Fprintf(out, "%s (%s)\n", lang.Name, lang.Dir)

		sidebar, err := resolver.Resolve(ctx, lang.Dir, "", assets.SidebarFile)
		switch {
		case errors.Is(err, assets.ErrAssetNotFound):
			fmt.Fprintf(out, "  ! %s missing, sidebar falls back to section titles\n", assets.SidebarFile)
		case err != nil:
			return summary, err
		default:
			if entries := document.SidebarEntries(string(sidebar.Content)); len(entries) < len(manifest.Sections) {
				fmt.Fprintf(out, "  ! %s lists %d of %d sections\n", assets.SidebarFile, len(entries), len(manifest.Sections))
			}
		}

		for _, section := range manifest.Sections {
			for _, ref := range section.Documents {
				if err := checkDocument(ctx, resolver, lang.Dir, section, ref, out, &summary); err != nil {
					return summary, err
				}
			}
		}
	}
	return summary, nil
}

func checkDocument(ctx context.Context, resolver interfaces.AssetResolver, dir string, section portal.Section, ref portal.DocumentRef, out io.Writer, summary *checkSummary) error {
	path := section.Folder + "/" + ref.File
	asset, err := resolver.Resolve(ctx, dir, section.Folder, ref.File)
	if errors.Is(err, assets.ErrAssetNotFound) {
		summary.missing++
		fmt.Fprintf(out, "  ✗ %s missing\n", path)
		return nil
	}
	if err != nil {
		return err
	}

	summary.documents++
	summary.bytes += asset.Size
	label, fallback := portal.TabLabel(asset.Content, ref.File)
	if fallback {
		summary.fallbacks++
	}
	doc := document.Scan(string(asset.Content))
	cells := 0
	for _, segment := range doc.Segments {
		if _, ok := segment.(document.Code); ok {
			cells++
		}
	}
	fmt.Fprintf(out, "  ✓ %s %q %s, %d segments, %d code, modified %s\n",
		path, label, humanize.Bytes(uint64(asset.Size)), len(doc.Segments), cells, humanize.Time(asset.Modified))
	if len(doc.Issues) > 0 {
		summary.issues++
		for _, issue := range doc.Issues {
			fmt.Fprintf(out, "      %v\n", issue)
		}
	}
	return nil
}
