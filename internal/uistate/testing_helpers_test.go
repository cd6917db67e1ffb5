package uistate

import (
	"testing"
	"time"
)

func assertEvent(t *testing.T, events <-chan ChangeEvent, want ChangeType, key string) {
	t.Helper()
	select {
	case evt := <-events:
		if evt.Type != want {
			t.Fatalf("expected %s event, got %s", want, evt.Type)
		}
		if evt.Flag.Key != key {
			t.Fatalf("expected event for %q, got %q", key, evt.Flag.Key)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s event", want)
	}
}

func assertNoEvent(t *testing.T, events <-chan ChangeEvent) {
	t.Helper()
	select {
	case evt := <-events:
		t.Fatalf("unexpected event %s for %q", evt.Type, evt.Flag.Key)
	case <-time.After(50 * time.Millisecond):
	}
}
