package document

import (
	"strings"
)

// SegmentType identifies the variant of a Segment.
type SegmentType uint8

const (
	SegmentProse SegmentType = iota
	SegmentImage
	SegmentAlert
	SegmentCode
)

func (t SegmentType) String() string {
	switch t {
	case SegmentProse:
		return "prose"
	case SegmentImage:
		return "image"
	case SegmentAlert:
		return "alert"
	case SegmentCode:
		return "code"
	default:
		return "unknown"
	}
}

// Segment is one classified unit of a partitioned document. The set of
// variants is closed: Prose, Image, Alert and Code.
type Segment interface {
	Type() SegmentType
	// source returns the original lines of the segment, markers included.
	source() []string
}

// Prose is a run of ordinary Markdown lines.
type Prose struct {
	Lines []string
}

func (Prose) Type() SegmentType { return SegmentProse }

// Text joins the prose lines with their original line breaks.
func (p Prose) Text() string { return strings.Join(p.Lines, "\n") }

func (p Prose) source() []string { return p.Lines }

// Image is a whole-line image reference.
type Image struct {
	Caption string
	Path    string
	// Line is the raw source line.
	Line string
}

func (Image) Type() SegmentType { return SegmentImage }

func (i Image) source() []string { return []string{i.Line} }

// AlertKind is the kind recorded by an alert-open marker.
type AlertKind string

const (
	AlertNote      AlertKind = "NOTE"
	AlertTip       AlertKind = "TIP"
	AlertImportant AlertKind = "IMPORTANT"
	AlertWarning   AlertKind = "WARNING"
	AlertCaution   AlertKind = "CAUTION"
)

// ParseAlertKind maps a marker keyword onto an AlertKind. END is not a kind.
func ParseAlertKind(value string) (AlertKind, bool) {
	switch kind := AlertKind(strings.ToUpper(strings.TrimSpace(value))); kind {
	case AlertNote, AlertTip, AlertImportant, AlertWarning, AlertCaution:
		return kind, true
	default:
		return "", false
	}
}

// Alert is a callout delimited by "> [!KIND]" and "> [!END]".
type Alert struct {
	Kind AlertKind
	// Body holds the lines between the markers with leading and trailing blank
	// lines removed.
	Body  []string
	Open  string
	Close string
}

func (Alert) Type() SegmentType { return SegmentAlert }

// Text joins the alert body lines.
func (a Alert) Text() string { return strings.Join(a.Body, "\n") }

func (a Alert) source() []string {
	lines := make([]string, 0, len(a.Body)+2)
	lines = append(lines, a.Open)
	lines = append(lines, a.Body...)
	return append(lines, a.Close)
}

// Code is a fenced code block.
type Code struct {
	// Lang is the info string of the opening fence, possibly empty.
	Lang string
	Body []string
	Open string
	// Close is the closing fence line; empty when the fence ran to end of input.
	Close  string
	Closed bool
}

func (Code) Type() SegmentType { return SegmentCode }

// Text joins the code body lines.
func (c Code) Text() string { return strings.Join(c.Body, "\n") }

func (c Code) source() []string {
	lines := make([]string, 0, len(c.Body)+2)
	lines = append(lines, c.Open)
	lines = append(lines, c.Body...)
	if c.Closed {
		lines = append(lines, c.Close)
	}
	return lines
}

// Join reassembles segments into Markdown, reinserting marker lines. The
// result matches the scanned input except for blank lines trimmed from alert
// bodies and the final line break, which Document.Reassemble restores.
func Join(segments []Segment) string {
	var lines []string
	for _, segment := range segments {
		if segment == nil {
			continue
		}
		lines = append(lines, segment.source()...)
	}
	return strings.Join(lines, "\n")
}
