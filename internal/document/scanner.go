package document

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedAlertBlock reports an alert span that was never closed. The
// scanner degrades such spans to literal prose instead of failing.
var ErrMalformedAlertBlock = errors.New("document: malformed alert block")

// ErrUnclosedFence reports a code fence that ran to the end of input. The
// accumulated code is still emitted.
var ErrUnclosedFence = errors.New("document: unclosed code fence")

const fenceMarker = "```"

var (
	alertOpenPattern  = regexp.MustCompile(`(?i)^> \[!(NOTE|TIP|IMPORTANT|WARNING|CAUTION)\]\s*$`)
	alertClosePattern = regexp.MustCompile(`(?i)^> \[!END\]\s*$`)
	imagePattern      = regexp.MustCompile(`^!\[(.*?)\]\((.*?)\)\s*$`)
)

// Issue describes malformed input the scanner tolerated.
type Issue struct {
	// Line is the 1-based line of the marker that opened the offending span.
	Line int
	Err  error
}

func (i Issue) Error() string {
	return fmt.Sprintf("line %d: %v", i.Line, i.Err)
}

func (i Issue) Unwrap() error { return i.Err }

// Document is the result of scanning one Markdown source.
type Document struct {
	Source          string
	Segments        []Segment
	Issues          []Issue
	TrailingNewline bool
}

// Reassemble rebuilds the source from the segments. Apart from blank lines
// trimmed inside alert bodies it returns Source unchanged.
func (d Document) Reassemble() string {
	out := Join(d.Segments)
	if d.TrailingNewline {
		out += "\n"
	}
	return out
}

// Partition splits text into its ordered segments. It never fails: malformed
// input degrades to prose.
func Partition(text string) []Segment {
	return Scan(text).Segments
}

type mode uint8

const (
	modeProse mode = iota
	modeCode
	modeAlert
)

type lineClass uint8

const (
	lineText lineClass = iota
	lineFence
	lineAlertOpen
	lineAlertClose
	lineImage
	lineClassCount
)

type action uint8

const (
	actAppend action = iota
	actOpenCode
	actCloseCode
	actOpenAlert
	actCloseAlert
	actEmitImage
)

// transitions maps the current mode and the class of the incoming line to the
// scanner action. Markers that are not meaningful in a mode are content.
var transitions = [...][lineClassCount]action{
	modeProse: {
		lineText:       actAppend,
		lineFence:      actOpenCode,
		lineAlertOpen:  actOpenAlert,
		lineAlertClose: actAppend,
		lineImage:      actEmitImage,
	},
	modeCode: {
		lineText:       actAppend,
		lineFence:      actCloseCode,
		lineAlertOpen:  actAppend,
		lineAlertClose: actAppend,
		lineImage:      actAppend,
	},
	modeAlert: {
		lineText:       actAppend,
		lineFence:      actAppend,
		lineAlertOpen:  actAppend,
		lineAlertClose: actCloseAlert,
		lineImage:      actAppend,
	},
}

type classified struct {
	class   lineClass
	kind    AlertKind
	caption string
	path    string
}

func classify(line string) classified {
	if strings.HasPrefix(line, fenceMarker) {
		return classified{class: lineFence}
	}
	trimmed := strings.TrimRight(line, "\r")
	if match := alertOpenPattern.FindStringSubmatch(trimmed); match != nil {
		kind, _ := ParseAlertKind(match[1])
		return classified{class: lineAlertOpen, kind: kind}
	}
	if alertClosePattern.MatchString(trimmed) {
		return classified{class: lineAlertClose}
	}
	if match := imagePattern.FindStringSubmatch(trimmed); match != nil {
		return classified{class: lineImage, caption: match[1], path: match[2]}
	}
	return classified{class: lineText}
}

type scanner struct {
	mode     mode
	segments []Segment
	issues   []Issue

	prose []string

	code     []string
	codeOpen string
	codeLang string
	codeLine int

	alert     []string
	alertOpen string
	alertKind AlertKind
	alertLine int
}

// Scan partitions text and reports the malformed spans it tolerated.
func Scan(text string) Document {
	lines, trailing := splitLines(text)
	s := &scanner{}
	for i, line := range lines {
		s.step(i+1, line)
	}
	s.finish()
	return Document{
		Source:          text,
		Segments:        s.segments,
		Issues:          s.issues,
		TrailingNewline: trailing,
	}
}

func (s *scanner) step(lineNo int, line string) {
	c := classify(line)
	switch transitions[s.mode][c.class] {
	case actAppend:
		s.appendLine(line)
	case actOpenCode:
		s.flushProse()
		s.mode = modeCode
		s.code = nil
		s.codeOpen = line
		s.codeLang = fenceLanguage(line)
		s.codeLine = lineNo
	case actCloseCode:
		s.segments = append(s.segments, Code{
			Lang:   s.codeLang,
			Body:   s.code,
			Open:   s.codeOpen,
			Close:  line,
			Closed: true,
		})
		s.mode = modeProse
		s.code = nil
	case actOpenAlert:
		s.flushProse()
		s.mode = modeAlert
		s.alert = nil
		s.alertOpen = line
		s.alertKind = c.kind
		s.alertLine = lineNo
	case actCloseAlert:
		s.segments = append(s.segments, Alert{
			Kind:  s.alertKind,
			Body:  trimBlankLines(s.alert),
			Open:  s.alertOpen,
			Close: line,
		})
		s.mode = modeProse
		s.alert = nil
	case actEmitImage:
		s.flushProse()
		s.segments = append(s.segments, Image{
			Caption: c.caption,
			Path:    c.path,
			Line:    line,
		})
	}
}

func (s *scanner) appendLine(line string) {
	switch s.mode {
	case modeCode:
		s.code = append(s.code, line)
	case modeAlert:
		s.alert = append(s.alert, line)
	default:
		s.prose = append(s.prose, line)
	}
}

func (s *scanner) flushProse() {
	if len(s.prose) == 0 {
		return
	}
	s.segments = append(s.segments, Prose{Lines: s.prose})
	s.prose = nil
}

func (s *scanner) finish() {
	switch s.mode {
	case modeCode:
		s.segments = append(s.segments, Code{
			Lang: s.codeLang,
			Body: s.code,
			Open: s.codeOpen,
		})
		s.issues = append(s.issues, Issue{Line: s.codeLine, Err: ErrUnclosedFence})
	case modeAlert:
		lines := make([]string, 0, len(s.alert)+1)
		lines = append(lines, s.alertOpen)
		lines = append(lines, s.alert...)
		s.segments = append(s.segments, Prose{Lines: lines})
		s.issues = append(s.issues, Issue{Line: s.alertLine, Err: ErrMalformedAlertBlock})
	default:
		s.flushProse()
	}
	s.mode = modeProse
}

func splitLines(text string) ([]string, bool) {
	if text == "" {
		return nil, false
	}
	lines := strings.Split(text, "\n")
	trailing := false
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
		trailing = true
	}
	return lines, trailing
}

func fenceLanguage(line string) string {
	info := strings.TrimLeft(strings.TrimSpace(line), "`")
	info = strings.TrimSpace(info)
	if idx := strings.IndexAny(info, " \t{"); idx >= 0 {
		info = info[:idx]
	}
	return info
}

func trimBlankLines(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return nil
	}
	return lines[start:end]
}
