package render

import (
	"context"
	"strings"

	"github.com/goliatone/go-lessons/internal/document"
	"github.com/goliatone/go-lessons/internal/evaluator"
	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// ImageResolver maps an image path written in a document onto the path the
// surface should load.
type ImageResolver func(path string) string

// Options controls a single render pass.
type Options struct {
	Mode Mode
	// Namespace is shared by every code cell of the pass. A fresh namespace
	// is created when nil.
	Namespace *interfaces.Namespace
	// Overrides replaces the source of code cells by index.
	Overrides    map[int]string
	ResolveImage ImageResolver
	// HideTOC suppresses the table of contents panel.
	HideTOC bool
}

// CellFailure records a code cell whose evaluation raised.
type CellFailure struct {
	Index int
	Err   error
}

// Report summarises a render pass.
type Report struct {
	Calls     int
	Cells     int
	Failures  []CellFailure
	Issues    []document.Issue
	Namespace *interfaces.Namespace
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithEvaluator sets the evaluator used in executable mode.
func WithEvaluator(e interfaces.Evaluator) Option {
	return func(d *Dispatcher) {
		if e != nil {
			d.evaluator = e
		}
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Dispatcher draws documents onto surfaces.
type Dispatcher struct {
	evaluator interfaces.Evaluator
	logger    interfaces.Logger
}

// NewDispatcher returns a dispatcher. Without WithEvaluator code cells are
// never executed.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		evaluator: evaluator.Disabled{},
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// RenderSource scans text and renders the result.
func (d *Dispatcher) RenderSource(ctx context.Context, surface interfaces.Surface, text string, opts Options) (*Report, error) {
	doc := document.Scan(text)
	return d.Render(ctx, surface, &doc, opts)
}

// Render draws doc onto surface in segment order. Cell failures are drawn
// inline and collected in the report; only a done ctx stops the pass early.
func (d *Dispatcher) Render(ctx context.Context, surface interfaces.Surface, doc *document.Document, opts Options) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ns := opts.Namespace
	if ns == nil {
		ns = interfaces.NewNamespace()
	}
	report := &Report{Namespace: ns}
	if doc == nil {
		return report, nil
	}
	report.Issues = append(report.Issues, doc.Issues...)
	for _, issue := range doc.Issues {
		d.logger.Debug("render.document.issue", "line", issue.Line, "error", issue.Err)
	}

	pass := &pass{
		ctx:      ctx,
		surface:  surface,
		opts:     opts,
		ns:       ns,
		report:   report,
		logger:   d.logger,
		evaluate: opts.Mode == ModeExecutable && evaluator.CanExecute(d.evaluator),
		eval:     d.evaluator,
	}

	if !opts.HideTOC {
		if entries := document.TableOfContents(doc.Source); len(entries) > 0 {
			surface.RenderTOC(entries)
			report.Calls++
		}
	}

	for _, segment := range doc.Segments {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := pass.segment(segment); err != nil {
			return report, err
		}
	}
	return report, nil
}

type pass struct {
	ctx      context.Context
	surface  interfaces.Surface
	opts     Options
	ns       *interfaces.Namespace
	report   *Report
	logger   interfaces.Logger
	evaluate bool
	eval     interfaces.Evaluator
	cell     int
}

func (p *pass) segment(segment document.Segment) error {
	switch seg := segment.(type) {
	case document.Prose:
		text := seg.Text()
		if strings.TrimSpace(text) == "" {
			return nil
		}
		p.surface.RenderProse(text)
		p.report.Calls++
	case document.Image:
		path := seg.Path
		if p.opts.ResolveImage != nil {
			path = p.opts.ResolveImage(path)
		}
		p.surface.RenderImage(path, seg.Caption)
		p.report.Calls++
	case document.Alert:
		p.surface.RenderAlert(SeverityFor(seg.Kind), seg.Text())
		p.report.Calls++
	case document.Code:
		return p.code(seg)
	}
	return nil
}

func (p *pass) code(seg document.Code) error {
	index := p.cell
	p.cell++
	p.report.Cells++

	source := seg.Text()
	if override, ok := p.opts.Overrides[index]; ok {
		source = override
	}

	if !p.evaluate {
		p.surface.RenderCodeReadOnly(seg.Lang, source)
		p.report.Calls++
		return nil
	}

	p.surface.RenderCodeCell(index, seg.Lang, source)
	p.report.Calls++

	result := p.eval.Evaluate(p.ctx, source, p.ns)
	if evaluator.IsCancelled(result.Err) {
		if err := p.ctx.Err(); err != nil {
			return err
		}
	}

	if result.Stdout != "" {
		p.surface.RenderOutput(result.Stdout)
		p.report.Calls++
	}
	if result.Err != nil {
		p.surface.RenderError(result.Err.Error())
		p.report.Calls++
		p.report.Failures = append(p.report.Failures, CellFailure{
			Index: index,
			Err:   evaluator.Classify(result.Err),
		})
		p.logger.Debug("render.cell.failed", "cell", index, "error", result.Err)
	}
	for _, fig := range result.Figures {
		p.surface.RenderFigure(fig)
		p.report.Calls++
	}
	p.eval.ClearFigures(p.ns)
	return nil
}
