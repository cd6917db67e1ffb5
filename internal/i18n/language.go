package i18n

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var (
	ErrUnknownLanguage = errors.New("i18n: unknown language")
	ErrNoLanguages     = errors.New("i18n: at least one language is required")
)

// Language is one selectable documentation language.
type Language struct {
	Tag language.Tag
	// Name is the English name, e.g. "Spanish".
	Name string
	// SelfName is the name in the language itself, e.g. "Español".
	SelfName string
	// Dir is the docs directory, the lowercase English name.
	Dir string
}

// Code returns the BCP 47 tag string.
func (l Language) Code() string {
	return l.Tag.String()
}

// Lookup resolves an English language name or a BCP 47 tag.
func Lookup(value string) (Language, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Language{}, fmt.Errorf("%w: empty value", ErrUnknownLanguage)
	}
	if tag, err := language.Parse(trimmed); err == nil {
		if base, conf := tag.Base(); conf != language.No {
			return fromTag(language.Make(base.String())), nil
		}
	}
	for _, base := range display.Supported.BaseLanguages() {
		if strings.EqualFold(display.English.Languages().Name(base), trimmed) {
			return fromTag(language.Make(base.String())), nil
		}
	}
	return Language{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, value)
}

func fromTag(tag language.Tag) Language {
	name := display.English.Languages().Name(tag)
	self := display.Self.Name(tag)
	if self == "" {
		self = name
	}
	return Language{
		Tag:      tag,
		Name:     name,
		SelfName: cases.Title(tag).String(self),
		Dir:      strings.ToLower(name),
	}
}

// Registry holds the configured languages in display order.
type Registry struct {
	languages []Language
	fallback  Language
	matcher   language.Matcher
}

// NewRegistry resolves cfg into a Registry. The default language must be one
// of the configured languages; when empty the first one is used.
func NewRegistry(cfg Config) (*Registry, error) {
	if len(cfg.Languages) == 0 {
		return nil, ErrNoLanguages
	}
	r := &Registry{}
	tags := make([]language.Tag, 0, len(cfg.Languages))
	seen := map[language.Tag]bool{}
	for _, value := range cfg.Languages {
		lang, err := Lookup(value)
		if err != nil {
			return nil, err
		}
		if seen[lang.Tag] {
			continue
		}
		seen[lang.Tag] = true
		r.languages = append(r.languages, lang)
		tags = append(tags, lang.Tag)
	}

	r.fallback = r.languages[0]
	if strings.TrimSpace(cfg.DefaultLanguage) != "" {
		def, err := r.Find(cfg.DefaultLanguage)
		if err != nil {
			return nil, fmt.Errorf("i18n: default language: %w", err)
		}
		r.fallback = def
		// the matcher prefers the first tag
		ordered := []language.Tag{def.Tag}
		for _, tag := range tags {
			if tag != def.Tag {
				ordered = append(ordered, tag)
			}
		}
		tags = ordered
	}
	r.matcher = language.NewMatcher(tags)
	return r, nil
}

// Languages returns the configured languages.
func (r *Registry) Languages() []Language {
	return append([]Language(nil), r.languages...)
}

// Default returns the default language.
func (r *Registry) Default() Language {
	return r.fallback
}

// Find resolves value against the configured languages only.
func (r *Registry) Find(value string) (Language, error) {
	lang, err := Lookup(value)
	if err != nil {
		return Language{}, err
	}
	for _, candidate := range r.languages {
		if candidate.Tag == lang.Tag {
			return candidate, nil
		}
	}
	return Language{}, fmt.Errorf("%w: %q is not offered", ErrUnknownLanguage, value)
}

// Match picks the configured language closest to an Accept-Language header,
// falling back to the default.
func (r *Registry) Match(acceptLanguage string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return r.fallback
	}
	_, index, conf := r.matcher.Match(tags...)
	if conf == language.No {
		return r.fallback
	}
	ordered := r.orderedForMatcher()
	if index < 0 || index >= len(ordered) {
		return r.fallback
	}
	return ordered[index]
}

func (r *Registry) orderedForMatcher() []Language {
	ordered := []Language{r.fallback}
	for _, lang := range r.languages {
		if lang.Tag != r.fallback.Tag {
			ordered = append(ordered, lang)
		}
	}
	return ordered
}
