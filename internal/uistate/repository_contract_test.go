package uistate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

// exerciseRepository runs the behaviour shared by every backend.
func exerciseRepository(t *testing.T, repo Repository) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := uuid.New()
	other := uuid.New()

	if _, err := repo.Get(ctx, session, KeyLanguage); !errors.Is(err, ErrFlagNotFound) {
		t.Fatalf("expected ErrFlagNotFound, got %v", err)
	}

	events, err := repo.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if _, err := repo.Set(ctx, Flag{SessionID: session, Key: KeyLanguage, Value: "english"}); err != nil {
		t.Fatalf("Set() create error = %v", err)
	}
	assertEvent(t, events, ChangeCreated, KeyLanguage)

	if _, err := repo.Set(ctx, Flag{SessionID: session, Key: KeyLanguage, Value: "english"}); err != nil {
		t.Fatalf("Set() unchanged error = %v", err)
	}
	assertNoEvent(t, events)

	stored, err := repo.Set(ctx, Flag{SessionID: session, Key: KeyLanguage, Value: "spanish"})
	if err != nil {
		t.Fatalf("Set() update error = %v", err)
	}
	assertEvent(t, events, ChangeUpdated, KeyLanguage)
	if stored.Value != "spanish" || stored.UpdatedAt.IsZero() {
		t.Fatalf("unexpected stored flag %+v", stored)
	}

	expanded := ExpandedKey("Python Basics", "intro.md")
	if _, err := repo.Set(ctx, Flag{SessionID: session, Key: expanded, Value: "true"}); err != nil {
		t.Fatalf("Set() expanded error = %v", err)
	}
	assertEvent(t, events, ChangeCreated, expanded)

	if _, err := repo.Set(ctx, Flag{SessionID: other, Key: KeyLanguage, Value: "english"}); err != nil {
		t.Fatalf("Set() other session error = %v", err)
	}
	assertEvent(t, events, ChangeCreated, KeyLanguage)

	flags, err := repo.List(ctx, session)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(flags) != 2 {
		t.Fatalf("expected 2 flags for session, got %d", len(flags))
	}
	if flags[0].Key != expanded || flags[1].Key != KeyLanguage {
		t.Fatalf("expected keys sorted, got %q and %q", flags[0].Key, flags[1].Key)
	}

	if err := repo.Delete(ctx, session, expanded); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	assertEvent(t, events, ChangeDeleted, expanded)

	if err := repo.Delete(ctx, session, expanded); !errors.Is(err, ErrFlagNotFound) {
		t.Fatalf("expected ErrFlagNotFound on second delete, got %v", err)
	}

	if err := repo.Clear(ctx, session); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	assertEvent(t, events, ChangeDeleted, KeyLanguage)

	if flags, _ := repo.List(ctx, session); len(flags) != 0 {
		t.Fatalf("expected session cleared, got %d flags", len(flags))
	}
	if flag, err := repo.Get(ctx, other, KeyLanguage); err != nil || flag.Value != "english" {
		t.Fatalf("expected other session untouched, got %+v (%v)", flag, err)
	}

	if _, err := repo.Set(ctx, Flag{Key: KeyLanguage, Value: "x"}); err == nil {
		t.Fatalf("expected error for missing session id")
	}
	if _, err := repo.Set(ctx, Flag{SessionID: session, Value: "x"}); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
