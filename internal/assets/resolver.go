package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-lessons/internal/document"
	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// SidebarFile is the per-language file listing the sidebar tabs.
const SidebarFile = "side_bar.md"

// Resolver reads documents from a docs tree laid out as
// <language>/<folder>/<file>, where <language> is the lowercase English
// language name.
type Resolver struct {
	fs     fs.FS
	logger interfaces.Logger
}

var _ interfaces.AssetResolver = (*Resolver)(nil)

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver returns a resolver over fsys, usually os.DirFS(docsRoot).
func NewResolver(fsys fs.FS, opts ...ResolverOption) *Resolver {
	r := &Resolver{fs: fsys, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// FS exposes the underlying filesystem, e.g. for serving images.
func (r *Resolver) FS() fs.FS {
	return r.fs
}

// Path joins the components of a document location and rejects paths that
// escape the docs tree.
func Path(language, folder, filename string) (string, error) {
	root := strings.ToLower(strings.TrimSpace(language))
	if root == "" {
		return "", fmt.Errorf("assets: language is required")
	}
	parts := []string{root}
	if trimmed := strings.Trim(strings.TrimSpace(folder), "/"); trimmed != "" {
		parts = append(parts, trimmed)
	}
	parts = append(parts, strings.TrimSpace(filename))
	joined := path.Join(parts...)
	if !fs.ValidPath(joined) || (joined != root && !strings.HasPrefix(joined, root+"/")) {
		return "", fmt.Errorf("assets: invalid path %q", joined)
	}
	return joined, nil
}

// Resolve reads <language>/<folder>/<filename>.
func (r *Resolver) Resolve(ctx context.Context, language, folder, filename string) (*interfaces.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel, err := Path(language, folder, filename)
	if err != nil {
		return nil, err
	}

	info, err := fs.Stat(r.fs, rel)
	if err != nil || info.IsDir() {
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("assets.resolve.missing", "path", rel)
			return nil, &NotFoundError{Language: language, Path: rel}
		}
		return nil, fmt.Errorf("assets: stat %s: %w", rel, err)
	}

	data, err := fs.ReadFile(r.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", rel, err)
	}

	return &interfaces.Asset{
		Path:     rel,
		Language: language,
		Content:  data,
		Size:     info.Size(),
		Modified: info.ModTime(),
	}, nil
}

// Sidebar returns the non-blank lines of the language's sidebar file.
func (r *Resolver) Sidebar(ctx context.Context, language string) ([]string, error) {
	asset, err := r.Resolve(ctx, language, "", SidebarFile)
	if err != nil {
		return nil, err
	}
	return document.SidebarEntries(string(asset.Content)), nil
}

// List returns the Markdown files of a folder in lexical order.
func (r *Resolver) List(ctx context.Context, language, folder string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := Path(language, folder, ".")
	if err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(r.fs, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Language: language, Path: dir}
		}
		return nil, fmt.Errorf("assets: list %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
