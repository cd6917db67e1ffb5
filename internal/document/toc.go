package document

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-lessons/pkg/interfaces"
)

var (
	tocHeaderPattern = regexp.MustCompile(`^(#{2,3})\s+(.*?)\s*$`)
	closingHashes    = regexp.MustCompile(`\s+#+$`)
	slugSpaces       = regexp.MustCompile(`\s+`)
	slugInvalid      = regexp.MustCompile(`[^a-z0-9\-_]`)
)

// Slug derives the anchor id of a header label: lowercase, whitespace runs
// become a hyphen, anything outside [a-z0-9-_] is dropped.
func Slug(label string) string {
	id := strings.ToLower(label)
	id = slugSpaces.ReplaceAllString(id, "-")
	return slugInvalid.ReplaceAllString(id, "")
}

// TableOfContents collects second and third level headers from the raw
// document text in order of appearance.
func TableOfContents(raw string) []interfaces.TOCEntry {
	var entries []interfaces.TOCEntry
	for _, line := range strings.Split(raw, "\n") {
		match := tocHeaderPattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if match == nil {
			continue
		}
		label := closingHashes.ReplaceAllString(match[2], "")
		if label == "" {
			continue
		}
		entries = append(entries, interfaces.TOCEntry{
			Level: len(match[1]),
			Label: label,
			Slug:  Slug(label),
		})
	}
	return entries
}
