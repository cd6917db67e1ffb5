package portal

import (
	"path"
	"strings"
	"unicode"

	"github.com/goliatone/go-lessons/internal/document"
	"github.com/goliatone/go-lessons/internal/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TabLabel derives the tab label of a document: its first-level header,
// then its frontmatter title, then its humanised file stem. The boolean
// reports whether a fallback was used.
func TabLabel(content []byte, file string) (string, bool) {
	meta, body, err := markdown.ParseFrontMatter(content)
	if err != nil {
		body = content
	}
	if label, err := document.FirstLevelHeader(string(body)); err == nil {
		return label, false
	}
	if title := strings.TrimSpace(meta.Title); title != "" {
		return title, true
	}
	return HumanizeStem(file), true
}

// HumanizeStem turns "02_standard_model.md" into "Standard Model".
func HumanizeStem(file string) string {
	stem := strings.TrimSuffix(path.Base(file), path.Ext(file))
	stem = strings.TrimLeftFunc(stem, func(r rune) bool {
		return unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'
	})
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	if len(words) == 0 {
		return file
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// PromoteHeader turns the first preview line into a first-level header:
// plain text gains "# " and deeper headers lose one level.
func PromoteHeader(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	text := strings.TrimSpace(trimmed[level:])
	switch {
	case level == 0:
		return "# " + trimmed
	case level == 1:
		return "# " + text
	default:
		return strings.Repeat("#", level-1) + " " + text
	}
}
