package portal

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-lessons/internal/render"
	"github.com/goliatone/go-lessons/internal/validation"
	"gopkg.in/yaml.v3"
)

var (
	ErrSectionNotFound  = errors.New("portal: section not found")
	ErrDocumentNotFound = errors.New("portal: document not found")
	ErrDuplicateSection = errors.New("portal: duplicate section key")
	ErrInvalidCell      = errors.New("portal: invalid cell index")
)

//go:embed default_manifest.yaml
var defaultManifestYAML []byte

// Manifest lists the sections of the site in sidebar order.
type Manifest struct {
	Title        string    `yaml:"title" json:"title,omitempty"`
	SidebarTitle string    `yaml:"sidebar_title" json:"sidebar_title,omitempty"`
	Sections     []Section `yaml:"sections" json:"sections"`
}

// Section is one sidebar entry: a folder of documents shown as tabs.
type Section struct {
	Key    string `yaml:"key" json:"key"`
	Folder string `yaml:"folder" json:"folder"`
	// Title is used when the sidebar file has no entry for the section.
	Title string `yaml:"title" json:"title,omitempty"`
	Intro string `yaml:"intro" json:"intro,omitempty"`
	Mode  string `yaml:"mode" json:"mode,omitempty"`
	// Collapsible sections show a preview per document until expanded.
	Collapsible bool          `yaml:"collapsible" json:"collapsible,omitempty"`
	Documents   []DocumentRef `yaml:"documents" json:"documents"`
}

// DocumentRef names a Markdown file inside the section folder.
type DocumentRef struct {
	File  string `yaml:"file" json:"file"`
	Video string `yaml:"video" json:"video,omitempty"`
}

// RenderMode maps the section mode onto a render mode.
func (s Section) RenderMode() render.Mode {
	mode, err := render.ParseMode(s.Mode)
	if err != nil {
		return render.ModeStatic
	}
	return mode
}

// Document returns the document with the given file name.
func (s Section) Document(file string) (DocumentRef, bool) {
	for _, doc := range s.Documents {
		if doc.File == file {
			return doc, true
		}
	}
	return DocumentRef{}, false
}

// Section returns the section with the given key.
func (m *Manifest) Section(key string) (Section, bool) {
	if m == nil {
		return Section{}, false
	}
	for _, section := range m.Sections {
		if section.Key == key {
			return section, true
		}
	}
	return Section{}, false
}

// Lookup resolves a section and one of its documents.
func (m *Manifest) Lookup(sectionKey, file string) (Section, DocumentRef, error) {
	section, ok := m.Section(sectionKey)
	if !ok {
		return Section{}, DocumentRef{}, fmt.Errorf("%w: %q", ErrSectionNotFound, sectionKey)
	}
	doc, ok := section.Document(file)
	if !ok {
		return Section{}, DocumentRef{}, fmt.Errorf("%w: %s/%s", ErrDocumentNotFound, sectionKey, file)
	}
	return section, doc, nil
}

// DefaultManifest returns the built-in four-section guide layout.
func DefaultManifest() (*Manifest, error) {
	return ParseManifest(defaultManifestYAML)
}

// LoadManifest reads and validates the manifest at path. An empty path
// yields the default manifest.
func LoadManifest(ctx context.Context, path string) (*Manifest, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultManifest()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("portal: read manifest %q: %w", path, err)
	}
	return ParseManifest(data)
}

// ParseManifest validates data against the manifest schema and decodes it.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("portal: decode manifest: %w", err)
	}
	if err := validation.ValidateManifest(raw); err != nil {
		return nil, fmt.Errorf("portal: manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("portal: decode manifest: %w", err)
	}
	seen := make(map[string]bool, len(manifest.Sections))
	for _, section := range manifest.Sections {
		if seen[section.Key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSection, section.Key)
		}
		seen[section.Key] = true
	}
	return &manifest, nil
}
