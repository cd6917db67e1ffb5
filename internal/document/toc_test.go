package document

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lessons/pkg/interfaces"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"A":                      "a",
		"Hello World!":           "hello-world",
		"Introducción a Python":  "introduccin-a-python",
		"snake_case and-dashes":  "snake_case-and-dashes",
		"Tabs\tand  spaces":      "tabs-and-spaces",
		"What's a histogram?":    "whats-a-histogram",
	}
	for input, want := range cases {
		if got := Slug(input); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTableOfContents(t *testing.T) {
	raw := "# T\n## A\ntext\n### B c\n#### D\n##E\n## Closed ##\n"
	got := TableOfContents(raw)
	want := []interfaces.TOCEntry{
		{Level: 2, Label: "A", Slug: "a"},
		{Level: 3, Label: "B c", Slug: "b-c"},
		{Level: 2, Label: "Closed", Slug: "closed"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("TableOfContents mismatch (-want +got):\n%s", diff)
	}
	if got[0].Marker() != "##" || got[1].Marker() != "###" {
		t.Fatalf("unexpected markers %q %q", got[0].Marker(), got[1].Marker())
	}
}

func TestTableOfContentsEmpty(t *testing.T) {
	if entries := TableOfContents("# Only a title\n\nbody"); len(entries) != 0 {
		t.Fatalf("expected no entries, got %v", entries)
	}
}

func TestFirstLevelHeader(t *testing.T) {
	label, err := FirstLevelHeader("\n# Introduction to Python \nbody\n# Second")
	if err != nil {
		t.Fatalf("FirstLevelHeader: %v", err)
	}
	if label != "Introduction to Python" {
		t.Fatalf("unexpected label %q", label)
	}

	if _, err := FirstLevelHeader("## Not first level\ntext"); !errors.Is(err, ErrMissingHeader) {
		t.Fatalf("expected ErrMissingHeader, got %v", err)
	}
	if got := HeaderOrDefault("no headers", "Histograms"); got != "Histograms" {
		t.Fatalf("expected fallback label, got %q", got)
	}
}

func TestPreview(t *testing.T) {
	got := Preview("\n\n# Title\nline one\nline two\nline three", 3)
	want := []string{"# Title", "line one", "line two"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Preview mismatch (-want +got):\n%s", diff)
	}
	if got := Preview("text", 0); got != nil {
		t.Fatalf("expected nil preview, got %v", got)
	}
}

func TestSidebarEntries(t *testing.T) {
	got := SidebarEntries("Introduction\n\n  Experimental setup  \nPython\n")
	want := []string{"Introduction", "Experimental setup", "Python"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("SidebarEntries mismatch (-want +got):\n%s", diff)
	}
}
