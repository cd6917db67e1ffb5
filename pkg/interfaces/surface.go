package interfaces

import "strings"

// Severity is the visual weight used when drawing alert callouts.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// TOCEntry is one navigation link of the floating table of contents.
type TOCEntry struct {
	Level int    `json:"level"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// Marker returns the header marker ("##" or "###") the entry was derived from.
func (e TOCEntry) Marker() string {
	if e.Level <= 0 {
		return ""
	}
	return strings.Repeat("#", e.Level)
}

// Surface is the display capability documents are drawn onto. Calls arrive in
// document order; implementations must not reorder them.
type Surface interface {
	RenderTOC(entries []TOCEntry)
	RenderProse(text string)
	RenderImage(path, caption string)
	RenderAlert(severity Severity, text string)
	RenderCodeReadOnly(lang, text string)
	// RenderCodeCell draws an executable cell; index is the zero-based position
	// of the cell among the code segments of the document.
	RenderCodeCell(index int, lang, source string)
	RenderOutput(text string)
	RenderError(text string)
	RenderFigure(fig Figure)
}
