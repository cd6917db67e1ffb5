package uistate

import (
	"strings"
	"testing"
)

func TestExpandedKey(t *testing.T) {
	cases := []struct {
		section  string
		document string
		want     string
	}{
		{"basics", "intro.md", "expanded.basics.intro"},
		{"basics", "intro", "expanded.basics.intro"},
	}
	for _, tc := range cases {
		if got := ExpandedKey(tc.section, tc.document); got != tc.want {
			t.Fatalf("ExpandedKey(%q, %q) = %q, want %q", tc.section, tc.document, got, tc.want)
		}
	}

	if ExpandedKey("basics", "intro.md") == ExpandedKey("advanced", "intro.md") {
		t.Fatalf("expected keys to differ per section")
	}
	if !IsExpandedKey(ExpandedKey("a", "b")) || IsExpandedKey(KeyLanguage) {
		t.Fatalf("IsExpandedKey mismatch")
	}
}

func TestCellKey(t *testing.T) {
	key := CellKey("python", "02_histograms.md", 3)
	if !strings.HasPrefix(key, "cell.python.") || !strings.HasSuffix(key, ".3") {
		t.Fatalf("unexpected cell key %q", key)
	}
	index, ok := CellIndex(key, "python", "02_histograms.md")
	if !ok || index != 3 {
		t.Fatalf("CellIndex() = %d, %v", index, ok)
	}
	if _, ok := CellIndex(key, "python", "01_intro.md"); ok {
		t.Fatalf("expected key of another document to be rejected")
	}
	if _, ok := CellIndex(ExpandedKey("python", "02_histograms.md"), "python", "02_histograms.md"); ok {
		t.Fatalf("expected expand key to be rejected")
	}
}
