package portal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-lessons/internal/render"
	"github.com/goliatone/go-lessons/internal/validation"
)

func TestDefaultManifest(t *testing.T) {
	manifest, err := DefaultManifest()
	if err != nil {
		t.Fatalf("DefaultManifest() error = %v", err)
	}
	if len(manifest.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(manifest.Sections))
	}
	python, ok := manifest.Section("python")
	if !ok {
		t.Fatalf("expected python section")
	}
	if python.RenderMode() != render.ModeExecutable || !python.Collapsible {
		t.Fatalf("unexpected python section %+v", python)
	}
	experimental, _ := manifest.Section("experimental")
	if experimental.Documents[0].Video == "" {
		t.Fatalf("expected accelerator video")
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	_, err := ParseManifest([]byte("sections:\n  - key: Bad Key\n    folder: x\n    documents:\n      - file: a.md\n"))
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}

	dup := "sections:\n" +
		"  - key: a\n    folder: a\n    documents:\n      - file: a.md\n" +
		"  - key: a\n    folder: b\n    documents:\n      - file: b.md\n"
	if _, err := ParseManifest([]byte(dup)); !errors.Is(err, ErrDuplicateSection) {
		t.Fatalf("expected ErrDuplicateSection, got %v", err)
	}

	if _, err := ParseManifest([]byte("sections: [")); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte(testManifest), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	manifest, err := LoadManifest(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if _, _, err := manifest.Lookup("python", "02_untitled.md"); err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if _, _, err := manifest.Lookup("python", "nope.md"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}

	if m, err := LoadManifest(context.Background(), ""); err != nil || len(m.Sections) != 4 {
		t.Fatalf("expected default manifest for empty path, got %v", err)
	}
}
