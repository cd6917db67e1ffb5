package interfaces

import (
	"context"
	"sort"
	"sync"
)

// Capability reports what an evaluator is able to do.
type Capability string

const (
	// CapabilitySandboxed evaluators execute cell source in an isolated interpreter.
	CapabilitySandboxed Capability = "sandboxed"
	// CapabilityDisabled evaluators never execute code; cells render read-only.
	CapabilityDisabled Capability = "disabled"
)

// Evaluator executes code cell source against a persistent namespace.
type Evaluator interface {
	Capability() Capability
	// Evaluate runs source against ns. Errors raised by the evaluated code are
	// reported through Evaluation.Err; Evaluate itself does not fail.
	Evaluate(ctx context.Context, source string, ns *Namespace) Evaluation
	// ClearFigures drops figures buffered in ns so later cells start clean.
	ClearFigures(ns *Namespace)
}

// Evaluation is the captured result of a single cell run.
type Evaluation struct {
	Stdout  string
	Err     error
	Figures []Figure
}

// FigureKind enumerates the chart types evaluated code can produce.
type FigureKind string

const (
	FigureLine    FigureKind = "line"
	FigureBar     FigureKind = "bar"
	FigureHist    FigureKind = "hist"
	FigureScatter FigureKind = "scatter"
)

// Figure is a chart produced by evaluated code.
type Figure struct {
	Kind   FigureKind `json:"kind"`
	Title  string     `json:"title,omitempty"`
	XLabel string     `json:"x_label,omitempty"`
	YLabel string     `json:"y_label,omitempty"`
	Series []Series   `json:"series"`
}

// Series is one data set drawn on a figure.
type Series struct {
	Label string    `json:"label,omitempty"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
}

// Namespace is the mutable binding environment shared by every code cell of a
// single document render. It is passed by reference so later cells observe the
// definitions of earlier ones.
type Namespace struct {
	mu       sync.RWMutex
	bindings map[string]any
	figures  []Figure
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{bindings: map[string]any{}}
}

// Get returns the value bound to name.
func (n *Namespace) Get(name string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	value, ok := n.bindings[name]
	return value, ok
}

// Set binds name to value, replacing any previous binding.
func (n *Namespace) Set(name string, value any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.bindings == nil {
		n.bindings = map[string]any{}
	}
	n.bindings[name] = value
}

// Delete removes the binding for name.
func (n *Namespace) Delete(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.bindings, name)
}

// Names returns the bound identifiers in lexical order.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	names := make([]string, 0, len(n.bindings))
	for name := range n.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of bindings.
func (n *Namespace) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.bindings)
}

// AddFigure buffers a figure produced while evaluating a cell.
func (n *Namespace) AddFigure(fig Figure) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.figures = append(n.figures, fig)
}

// Figures returns a copy of the buffered figures.
func (n *Namespace) Figures() []Figure {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if len(n.figures) == 0 {
		return nil
	}
	return append([]Figure(nil), n.figures...)
}

// ResetFigures empties the figure buffer.
func (n *Namespace) ResetFigures() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.figures = nil
}
