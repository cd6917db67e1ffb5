package document

import (
	"errors"
	"strings"
)

// ErrMissingHeader reports a document without a first-level header. Callers
// deriving tab labels must fall back to a label of their own.
var ErrMissingHeader = errors.New("document: missing first-level header")

// FirstLevelHeader returns the label of the first "# " header line.
func FirstLevelHeader(text string) (string, error) {
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, "# ") {
			continue
		}
		label := strings.TrimSpace(strings.Trim(line, "# \r"))
		if label == "" {
			continue
		}
		return label, nil
	}
	return "", ErrMissingHeader
}

// HeaderOrDefault is FirstLevelHeader with a caller supplied fallback.
func HeaderOrDefault(text, fallback string) string {
	label, err := FirstLevelHeader(text)
	if err != nil {
		return fallback
	}
	return label
}

// Preview returns the first n lines of text, skipping leading blank lines.
func Preview(text string, n int) []string {
	if n <= 0 {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	lines = lines[start:]
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}

// SidebarEntries parses a sidebar file: one entry per non-blank line.
func SidebarEntries(text string) []string {
	var entries []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	return entries
}
