// Package web renders documents as HTML fragments for the portal pages.
package web

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"

	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// CellAction returns the form action a code cell posts its edited source to.
type CellAction func(index int) string

// Options configures a Surface.
type Options struct {
	Markdown interfaces.MarkdownParser
	// CellAction enables the Run form on code cells. Without it cells are
	// drawn with their source only.
	CellAction CellAction
	// RunLabel is the caption of the Run button. Defaults to "Run".
	RunLabel string
	// IDPrefix namespaces cell element ids when several documents share
	// a page.
	IDPrefix string
	Logger   interfaces.Logger
}

// Surface accumulates an HTML fragment. It is not safe for concurrent use;
// build one per render pass.
type Surface struct {
	buf      bytes.Buffer
	markdown interfaces.MarkdownParser
	action   CellAction
	runLabel string
	idPrefix string
	logger   interfaces.Logger
}

var _ interfaces.Surface = (*Surface)(nil)

// New returns an empty surface.
func New(opts Options) *Surface {
	runLabel := opts.RunLabel
	if runLabel == "" {
		runLabel = "Run"
	}
	return &Surface{
		markdown: opts.Markdown,
		action:   opts.CellAction,
		runLabel: runLabel,
		idPrefix: opts.IDPrefix,
		logger:   logging.OrNoOp(opts.Logger),
	}
}

// HTML returns the fragment drawn so far.
func (s *Surface) HTML() template.HTML {
	return template.HTML(s.buf.String())
}

// Len reports the size of the fragment in bytes.
func (s *Surface) Len() int {
	return s.buf.Len()
}

func (s *Surface) printf(format string, args ...any) {
	fmt.Fprintf(&s.buf, format, args...)
}

func (s *Surface) markdownHTML(text string) string {
	if s.markdown == nil {
		return "<p>" + html.EscapeString(text) + "</p>"
	}
	out, err := s.markdown.Parse([]byte(text))
	if err != nil {
		s.logger.Warn("surface.markdown.failed", "error", err)
		return "<pre>" + html.EscapeString(text) + "</pre>"
	}
	return string(out)
}

func (s *Surface) RenderTOC(entries []interfaces.TOCEntry) {
	s.buf.WriteString(`<nav class="toc"><ul>`)
	for _, entry := range entries {
		s.printf(`<li class="toc-level-%d"><a href="#%s">%s</a></li>`,
			entry.Level, html.EscapeString(entry.Slug), html.EscapeString(entry.Label))
	}
	s.buf.WriteString(`</ul></nav>`)
}

func (s *Surface) RenderProse(text string) {
	s.buf.WriteString(`<div class="prose">`)
	s.buf.WriteString(s.markdownHTML(text))
	s.buf.WriteString(`</div>`)
}

func (s *Surface) RenderImage(path, caption string) {
	s.printf(`<figure class="image"><img src="%s" alt="%s"/>`, html.EscapeString(path), html.EscapeString(caption))
	if caption != "" {
		s.printf(`<figcaption>%s</figcaption>`, html.EscapeString(caption))
	}
	s.buf.WriteString(`</figure>`)
}

func (s *Surface) RenderAlert(severity interfaces.Severity, text string) {
	s.printf(`<div class="alert alert-%s" role="alert">%s</div>`, severity, s.markdownHTML(text))
}

func (s *Surface) RenderCodeReadOnly(lang, text string) {
	s.buf.WriteString(`<pre class="code"><code`)
	if lang != "" {
		s.printf(` class="language-%s"`, html.EscapeString(lang))
	}
	s.printf(`>%s</code></pre>`, html.EscapeString(text))
}

func (s *Surface) RenderCodeCell(index int, lang, source string) {
	id := s.idPrefix + "cell-" + strconv.Itoa(index)
	if s.action == nil {
		s.printf(`<div class="cell" id="%s">`, id)
		s.RenderCodeReadOnly(lang, source)
		s.buf.WriteString(`</div>`)
		return
	}
	s.printf(`<form class="cell" id="%s" method="post" action="%s">`, id, html.EscapeString(s.action(index)))
	s.printf(`<textarea name="source" data-lang="%s" spellcheck="false">%s</textarea>`,
		html.EscapeString(lang), html.EscapeString(source))
	s.printf(`<button type="submit">%s</button></form>`, html.EscapeString(s.runLabel))
}

func (s *Surface) RenderOutput(text string) {
	s.printf(`<pre class="cell-output">%s</pre>`, html.EscapeString(text))
}

func (s *Surface) RenderError(text string) {
	s.printf(`<div class="cell-error" role="alert">%s</div>`, html.EscapeString(text))
}

func (s *Surface) RenderFigure(fig interfaces.Figure) {
	s.buf.WriteString(`<div class="figure-wrap">`)
	s.buf.WriteString(renderFigureSVG(fig))
	s.buf.WriteString(`</div>`)
}
