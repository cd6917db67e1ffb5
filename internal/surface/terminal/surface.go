// Package terminal draws documents for a terminal, rendering prose with
// glamour and everything else with lipgloss styles.
package terminal

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

const defaultWordWrap = 80

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Options configures the terminal surface.
type Options struct {
	// Style is a glamour style name such as "dark", "light" or "notty".
	// Empty selects the style from the terminal background.
	Style    string
	WordWrap int
	Styles   *Styles
	Logger   interfaces.Logger
}

// Surface writes each draw call to an io.Writer as it arrives.
type Surface struct {
	out      io.Writer
	renderer *glamour.TermRenderer
	styles   Styles
	logger   interfaces.Logger
	err      error
}

var _ interfaces.Surface = (*Surface)(nil)

// New returns a surface writing to out.
func New(out io.Writer, opts Options) (*Surface, error) {
	wrap := opts.WordWrap
	if wrap <= 0 {
		wrap = defaultWordWrap
	}
	style := glamour.WithAutoStyle()
	if opts.Style != "" {
		style = glamour.WithStylePath(opts.Style)
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil, fmt.Errorf("terminal: glamour renderer: %w", err)
	}
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	return &Surface{
		out:      out,
		renderer: renderer,
		styles:   styles,
		logger:   logging.OrNoOp(opts.Logger),
	}, nil
}

// Err returns the first write error, if any.
func (s *Surface) Err() error {
	return s.err
}

func (s *Surface) writeln(text string) {
	if s.err != nil {
		return
	}
	if _, err := io.WriteString(s.out, text+"\n"); err != nil {
		s.err = err
	}
}

func (s *Surface) RenderTOC(entries []interfaces.TOCEntry) {
	lines := []string{s.styles.TOCTitle.Render("Contents")}
	for _, entry := range entries {
		indent := strings.Repeat("  ", max(entry.Level-2, 0))
		lines = append(lines, indent+"• "+s.styles.TOCEntry.Render(entry.Label))
	}
	s.writeln(strings.Join(lines, "\n") + "\n")
}

func (s *Surface) RenderProse(text string) {
	out, err := s.renderer.Render(text)
	if err != nil {
		s.logger.Warn("surface.glamour.failed", "error", err)
		out = text
	}
	s.writeln(strings.TrimRight(out, "\n"))
}

func (s *Surface) RenderImage(path, caption string) {
	label := caption
	if label == "" {
		label = "image"
	}
	s.writeln(s.styles.Caption.Render(fmt.Sprintf("[%s] %s", label, path)))
}

func (s *Surface) RenderAlert(severity interfaces.Severity, text string) {
	style, ok := s.styles.Alerts[severity]
	if !ok {
		style = s.styles.Alerts[interfaces.SeverityInfo]
	}
	s.writeln(style.Render(strings.ToUpper(string(severity)) + "\n" + text))
}

func (s *Surface) RenderCodeReadOnly(lang, text string) {
	if lang != "" {
		s.writeln(s.styles.CellHead.Render(lang))
	}
	s.writeln(s.styles.Code.Render(text))
}

func (s *Surface) RenderCodeCell(index int, lang, source string) {
	head := fmt.Sprintf("In [%d]", index+1)
	if lang != "" {
		head += " " + lang
	}
	s.writeln(s.styles.CellHead.Render(head))
	s.writeln(s.styles.Code.Render(source))
}

func (s *Surface) RenderOutput(text string) {
	s.writeln(s.styles.Output.Render(strings.TrimRight(text, "\n")))
}

func (s *Surface) RenderError(text string) {
	s.writeln(s.styles.Error.Render(text))
}

func (s *Surface) RenderFigure(fig interfaces.Figure) {
	title := fig.Title
	if title == "" {
		title = string(fig.Kind)
	}
	lines := []string{title}
	for _, series := range fig.Series {
		line := sparkline(series.Y)
		if series.Label != "" {
			line = series.Label + " " + line
		}
		lines = append(lines, line)
	}
	s.writeln(s.styles.Figure.Render(strings.Join(lines, "\n")))
}

// sparkline scales values onto block characters of increasing height.
func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	var sb strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		sb.WriteRune(sparkBlocks[idx])
	}
	return sb.String()
}
