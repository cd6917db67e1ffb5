package uistate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrFlagNotFound indicates the session has no value for the key.
var ErrFlagNotFound = errors.New("uistate: flag not found")

// Flag is one key/value pair of a session's interface state.
type Flag struct {
	SessionID uuid.UUID
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Repository persists per-session interface flags and emits change
// notifications.
type Repository interface {
	Get(ctx context.Context, session uuid.UUID, key string) (Flag, error)
	List(ctx context.Context, session uuid.UUID) ([]Flag, error)
	Set(ctx context.Context, flag Flag) (Flag, error)
	Delete(ctx context.Context, session uuid.UUID, key string) error
	Clear(ctx context.Context, session uuid.UUID) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates flag change events.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports a flag mutation.
type ChangeEvent struct {
	Type ChangeType
	Flag Flag
}

func newChangeEvent(changeType ChangeType, flag Flag) ChangeEvent {
	return ChangeEvent{Type: changeType, Flag: flag}
}

func validFlag(flag Flag) error {
	if flag.SessionID == uuid.Nil {
		return errors.New("uistate: session id is required")
	}
	if flag.Key == "" {
		return errors.New("uistate: key is required")
	}
	return nil
}
