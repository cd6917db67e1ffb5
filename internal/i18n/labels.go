package i18n

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed labels.json
var defaultLabels []byte

// Catalog holds interface labels per language code.
type Catalog struct {
	Default string                       `json:"default"`
	Labels  map[string]map[string]string `json:"labels"`
}

// DefaultCatalog returns the embedded English and Spanish labels.
func DefaultCatalog() (*Catalog, error) {
	return decodeCatalog(bytes.NewReader(defaultLabels))
}

// Loader reads a label catalog from disk.
type Loader struct {
	path string
}

// NewLoader returns a loader for the catalog at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses the catalog file.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	if l == nil || l.path == "" {
		return nil, errors.New("i18n: loader path cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("i18n: open catalog %q: %w", l.path, err)
	}
	defer file.Close()

	return decodeCatalog(file)
}

// LoadCatalog loads cfg.LabelsPath when set and the embedded catalog
// otherwise.
func LoadCatalog(ctx context.Context, cfg Config) (*Catalog, error) {
	if strings.TrimSpace(cfg.LabelsPath) == "" {
		return DefaultCatalog()
	}
	return NewLoader(cfg.LabelsPath).Load(ctx)
}

func decodeCatalog(r io.Reader) (*Catalog, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var c Catalog
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("i18n: decode catalog: %w", err)
	}
	if c.Labels == nil {
		c.Labels = map[string]map[string]string{}
	}
	return &c, nil
}

// Translate returns the label for key in lang, falling back to the catalog
// default language and finally to the key itself. Arguments are applied with
// fmt.Sprintf.
func (c *Catalog) Translate(lang Language, key string, args ...any) string {
	value, ok := c.lookup(lang.Code(), key)
	if !ok {
		value, ok = c.lookup(c.Default, key)
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(value, args...)
	}
	return value
}

func (c *Catalog) lookup(code, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	labels, ok := c.Labels[code]
	if !ok {
		return "", false
	}
	value, ok := labels[key]
	return value, ok
}
