// Package recording provides a surface that records every draw call. It backs
// the trace output of the CLI and the dispatcher tests.
package recording

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// Op names a surface method.
type Op string

const (
	OpTOC          Op = "toc"
	OpProse        Op = "prose"
	OpImage        Op = "image"
	OpAlert        Op = "alert"
	OpCodeReadOnly Op = "code_readonly"
	OpCodeCell     Op = "code_cell"
	OpOutput       Op = "output"
	OpError        Op = "error"
	OpFigure       Op = "figure"
)

// Call is one recorded draw call. Only the fields relevant to Op are set.
type Call struct {
	Op       Op                    `json:"op"`
	Text     string                `json:"text,omitempty"`
	Path     string                `json:"path,omitempty"`
	Caption  string                `json:"caption,omitempty"`
	Severity interfaces.Severity   `json:"severity,omitempty"`
	Lang     string                `json:"lang,omitempty"`
	Index    *int                  `json:"index,omitempty"`
	TOC      []interfaces.TOCEntry `json:"toc,omitempty"`
	Figure   *interfaces.Figure    `json:"figure,omitempty"`
}

// Surface records calls in arrival order.
type Surface struct {
	mu    sync.Mutex
	calls []Call
}

var _ interfaces.Surface = (*Surface)(nil)

// New returns an empty recording surface.
func New() *Surface {
	return &Surface{}
}

func (s *Surface) record(call Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *Surface) RenderTOC(entries []interfaces.TOCEntry) {
	s.record(Call{Op: OpTOC, TOC: append([]interfaces.TOCEntry(nil), entries...)})
}

func (s *Surface) RenderProse(text string) {
	s.record(Call{Op: OpProse, Text: text})
}

func (s *Surface) RenderImage(path, caption string) {
	s.record(Call{Op: OpImage, Path: path, Caption: caption})
}

func (s *Surface) RenderAlert(severity interfaces.Severity, text string) {
	s.record(Call{Op: OpAlert, Severity: severity, Text: text})
}

func (s *Surface) RenderCodeReadOnly(lang, text string) {
	s.record(Call{Op: OpCodeReadOnly, Lang: lang, Text: text})
}

func (s *Surface) RenderCodeCell(index int, lang, source string) {
	s.record(Call{Op: OpCodeCell, Index: &index, Lang: lang, Text: source})
}

func (s *Surface) RenderOutput(text string) {
	s.record(Call{Op: OpOutput, Text: text})
}

func (s *Surface) RenderError(text string) {
	s.record(Call{Op: OpError, Text: text})
}

func (s *Surface) RenderFigure(fig interfaces.Figure) {
	s.record(Call{Op: OpFigure, Figure: &fig})
}

// Calls returns a copy of the recorded calls.
func (s *Surface) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Ops returns the recorded operations in order.
func (s *Surface) Ops() []Op {
	calls := s.Calls()
	ops := make([]Op, len(calls))
	for i, call := range calls {
		ops[i] = call.Op
	}
	return ops
}

// Reset drops the recorded calls.
func (s *Surface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// WriteJSON encodes the recorded calls as an indented JSON array.
func (s *Surface) WriteJSON(w io.Writer) error {
	calls := s.Calls()
	if calls == nil {
		calls = []Call{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(calls)
}
