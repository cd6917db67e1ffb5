package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-lessons/internal/document"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// Mode selects whether code segments are executed.
type Mode uint8

const (
	// ModeStatic draws code segments as read-only text.
	ModeStatic Mode = iota
	// ModeExecutable draws code segments as cells and evaluates them.
	ModeExecutable
)

func (m Mode) String() string {
	if m == ModeExecutable {
		return "executable"
	}
	return "static"
}

// ParseMode maps "static" or "executable" onto a Mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "static":
		return ModeStatic, nil
	case "executable", "exec":
		return ModeExecutable, nil
	default:
		return ModeStatic, fmt.Errorf("render: unknown mode %q", value)
	}
}

// SeverityFor maps an alert kind onto the severity it is drawn with.
func SeverityFor(kind document.AlertKind) interfaces.Severity {
	switch kind {
	case document.AlertTip:
		return interfaces.SeveritySuccess
	case document.AlertImportant, document.AlertCaution:
		return interfaces.SeverityWarning
	case document.AlertWarning:
		return interfaces.SeverityError
	default:
		return interfaces.SeverityInfo
	}
}
