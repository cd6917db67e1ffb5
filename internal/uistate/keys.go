package uistate

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
)

const (
	KeyLanguage         = "language"
	KeyLanguageSelected = "language_selected"
	KeySelectedTab      = "selected_tab"

	expandedPrefix = "expanded."
	cellPrefix     = "cell."
)

// ExpandedKey returns the key of the expand flag of one document tab.
func ExpandedKey(section, document string) string {
	return expandedPrefix + keyPart(section) + "." + keyPart(strings.TrimSuffix(document, ".md"))
}

// IsExpandedKey reports whether key holds a document expand flag.
func IsExpandedKey(key string) bool {
	return strings.HasPrefix(key, expandedPrefix)
}

// CellKey returns the key holding the edited source of a code cell.
func CellKey(section, document string, index int) string {
	return CellPrefix(section, document) + strconv.Itoa(index)
}

// CellPrefix returns the prefix shared by the cell keys of one document.
func CellPrefix(section, document string) string {
	return cellPrefix + keyPart(section) + "." + keyPart(strings.TrimSuffix(document, ".md")) + "."
}

// CellIndex extracts the cell index from a key built by CellKey for the
// same document.
func CellIndex(key, section, document string) (int, bool) {
	rest, ok := strings.CutPrefix(key, CellPrefix(section, document))
	if !ok {
		return 0, false
	}
	index, err := strconv.Atoi(rest)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

func keyPart(value string) string {
	value = strings.TrimSpace(value)
	if normalized, err := slug.Normalize(value); err == nil && normalized != "" {
		return normalized
	}
	return strings.ToLower(strings.ReplaceAll(value, ".", "_"))
}
