package sandbox

import (
	"context"
	"errors"
	"strings"
	"time"

	starlarkjson "go.starlark.net/lib/json"
	starlarkmath "go.starlark.net/lib/math"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/goliatone/go-lessons/internal/evaluator"
	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

const (
	chunkName         = "cell"
	namespaceLocalKey = "lessons.namespace"
)

// Option configures the evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for evaluation diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxSteps bounds the number of interpreter steps a single cell may take.
// Zero leaves cells unbounded.
func WithMaxSteps(steps uint64) Option {
	return func(e *Evaluator) {
		e.maxSteps = steps
	}
}

// WithTimeout bounds the wall time of a single cell. Zero leaves cells
// bounded only by the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Evaluator) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithBuiltin predeclares an extra value for every cell.
func WithBuiltin(name string, value starlark.Value) Option {
	return func(e *Evaluator) {
		if strings.TrimSpace(name) != "" && value != nil {
			e.builtins[name] = value
		}
	}
}

// Evaluator runs cell source in a Starlark thread.
type Evaluator struct {
	fileOptions *syntax.FileOptions
	builtins    starlark.StringDict
	maxSteps    uint64
	timeout     time.Duration
	logger      interfaces.Logger
}

var _ interfaces.Evaluator = (*Evaluator)(nil)

// New returns a sandboxed evaluator with the plot, math and json modules
// predeclared.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		fileOptions: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
			Recursion:       true,
		},
		builtins: starlark.StringDict{
			"plot": plotModule,
			"math": starlarkmath.Module,
			"json": starlarkjson.Module,
		},
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *Evaluator) Capability() interfaces.Capability {
	return interfaces.CapabilitySandboxed
}

// Evaluate runs source against ns. Output written with print is captured in
// Stdout; figures drawn by the cell are returned and stay buffered in ns until
// ClearFigures.
func (e *Evaluator) Evaluate(ctx context.Context, source string, ns *interfaces.Namespace) interfaces.Evaluation {
	if ctx == nil {
		ctx = context.Background()
	}
	if ns == nil {
		ns = interfaces.NewNamespace()
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return interfaces.Evaluation{Err: evaluator.Cancelled(ctx)}
	}

	before := len(ns.Figures())

	var stdout strings.Builder
	thread := &starlark.Thread{
		Name: chunkName,
		Print: func(_ *starlark.Thread, msg string) {
			stdout.WriteString(msg)
			stdout.WriteByte('\n')
		},
	}
	thread.SetLocal(namespaceLocalKey, ns)
	if e.maxSteps > 0 {
		thread.SetMaxExecutionSteps(e.maxSteps)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(context.Cause(ctx).Error())
		case <-done:
		}
	}()

	err := e.run(thread, source, ns)

	result := interfaces.Evaluation{Stdout: stdout.String()}
	if figures := ns.Figures(); len(figures) > before {
		result.Figures = figures[before:]
	}
	if err != nil {
		if ctx.Err() != nil {
			result.Err = evaluator.Cancelled(ctx)
		} else {
			result.Err = classify(err)
		}
		e.logger.Debug("evaluator.cell.failed", "error", result.Err, "bindings", ns.Len())
	}
	return result
}

func (e *Evaluator) run(thread *starlark.Thread, source string, ns *interfaces.Namespace) error {
	file, err := e.fileOptions.Parse(chunkName, source, 0)
	if err != nil {
		return err
	}

	globals := make(starlark.StringDict, len(e.builtins)+ns.Len())
	for name, value := range e.builtins {
		globals[name] = value
	}
	for _, name := range ns.Names() {
		raw, _ := ns.Get(name)
		value, convErr := ToValue(raw)
		if convErr != nil {
			e.logger.Warn("evaluator.binding.skipped", "name", name, "error", convErr)
			continue
		}
		globals[name] = value
	}

	err = starlark.ExecREPLChunk(file, thread, globals)

	// globals reflect assignments made before a failure too
	for name, value := range globals {
		if builtin, ok := e.builtins[name]; ok && builtin == value {
			continue
		}
		ns.Set(name, value)
	}
	return err
}

// ClearFigures drops the figures buffered in ns.
func (e *Evaluator) ClearFigures(ns *interfaces.Namespace) {
	if ns != nil {
		ns.ResetFigures()
	}
}

func classify(err error) *evaluator.Error {
	var syntaxErr syntax.Error
	if errors.As(err, &syntaxErr) {
		return &evaluator.Error{
			Kind:    evaluator.KindSyntax,
			Message: syntaxErr.Msg,
			Line:    int(syntaxErr.Pos.Line),
			Cause:   err,
		}
	}

	var resolveErrs resolve.ErrorList
	if errors.As(err, &resolveErrs) && len(resolveErrs) > 0 {
		first := resolveErrs[0]
		return &evaluator.Error{
			Kind:    evaluator.KindRuntime,
			Message: first.Msg,
			Line:    int(first.Pos.Line),
			Cause:   err,
		}
	}

	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		line := 0
		if n := len(evalErr.CallStack); n > 0 {
			line = int(evalErr.CallStack[n-1].Pos.Line)
		}
		return &evaluator.Error{
			Kind:    evaluator.KindRuntime,
			Message: evalErr.Msg,
			Line:    line,
			Cause:   err,
		}
	}

	return &evaluator.Error{Kind: evaluator.KindRuntime, Message: err.Error(), Cause: err}
}

func namespaceOf(thread *starlark.Thread) *interfaces.Namespace {
	ns, _ := thread.Local(namespaceLocalKey).(*interfaces.Namespace)
	return ns
}
