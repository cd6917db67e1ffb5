package uistate

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
)

// Session reads and writes the typed flags of one visitor.
type Session struct {
	repo Repository
	id   uuid.UUID
}

// ForSession binds repo to the session id.
func ForSession(repo Repository, id uuid.UUID) Session {
	return Session{repo: repo, id: id}
}

// ID returns the session id.
func (s Session) ID() uuid.UUID {
	return s.id
}

func (s Session) value(ctx context.Context, key string) (string, bool, error) {
	flag, err := s.repo.Get(ctx, s.id, key)
	if errors.Is(err, ErrFlagNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return flag.Value, true, nil
}

func (s Session) set(ctx context.Context, key, value string) error {
	_, err := s.repo.Set(ctx, Flag{SessionID: s.id, Key: key, Value: value})
	return err
}

func (s Session) boolean(ctx context.Context, key string) (bool, error) {
	value, ok, err := s.value(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, nil
	}
	return parsed, nil
}

// Language returns the chosen language code, or "" when none was stored.
func (s Session) Language(ctx context.Context) (string, error) {
	value, _, err := s.value(ctx, KeyLanguage)
	return value, err
}

// SetLanguage stores the language and marks it as selected.
func (s Session) SetLanguage(ctx context.Context, code string) error {
	if err := s.set(ctx, KeyLanguage, code); err != nil {
		return err
	}
	return s.set(ctx, KeyLanguageSelected, strconv.FormatBool(true))
}

// LanguageSelected reports whether the landing page was completed.
func (s Session) LanguageSelected(ctx context.Context) (bool, error) {
	return s.boolean(ctx, KeyLanguageSelected)
}

// ResetLanguage returns the visitor to the landing page. Expand flags are
// dropped with it since tab contents differ per language.
func (s Session) ResetLanguage(ctx context.Context) error {
	flags, err := s.repo.List(ctx, s.id)
	if err != nil {
		return err
	}
	for _, flag := range flags {
		if flag.Key != KeyLanguageSelected && !IsExpandedKey(flag.Key) {
			continue
		}
		if err := s.repo.Delete(ctx, s.id, flag.Key); err != nil && !errors.Is(err, ErrFlagNotFound) {
			return err
		}
	}
	return nil
}

// Expanded reports whether the document tab shows its full content.
func (s Session) Expanded(ctx context.Context, section, document string) (bool, error) {
	return s.boolean(ctx, ExpandedKey(section, document))
}

// SetExpanded stores the expand flag of a document tab.
func (s Session) SetExpanded(ctx context.Context, section, document string, expanded bool) error {
	return s.set(ctx, ExpandedKey(section, document), strconv.FormatBool(expanded))
}

// SelectedTab returns the sidebar section key last opened.
func (s Session) SelectedTab(ctx context.Context) (string, error) {
	value, _, err := s.value(ctx, KeySelectedTab)
	return value, err
}

// SetSelectedTab stores the sidebar section key.
func (s Session) SetSelectedTab(ctx context.Context, section string) error {
	return s.set(ctx, KeySelectedTab, section)
}

// CellOverrides returns the edited cell sources stored for a document, keyed
// by cell index.
func (s Session) CellOverrides(ctx context.Context, section, document string) (map[int]string, error) {
	flags, err := s.repo.List(ctx, s.id)
	if err != nil {
		return nil, err
	}
	overrides := map[int]string{}
	for _, flag := range flags {
		if index, ok := CellIndex(flag.Key, section, document); ok {
			overrides[index] = flag.Value
		}
	}
	return overrides, nil
}

// SetCellSource stores the edited source of one code cell.
func (s Session) SetCellSource(ctx context.Context, section, document string, index int, source string) error {
	return s.set(ctx, CellKey(section, document, index), source)
}
