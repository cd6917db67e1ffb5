package uistate

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps flags in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	flags  map[uuid.UUID]map[string]Flag
	events *broadcaster
	clock  func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		flags:  map[uuid.UUID]map[string]Flag{},
		events: newBroadcaster(),
		clock:  time.Now,
	}
}

func (r *MemoryRepository) Get(_ context.Context, session uuid.UUID, key string) (Flag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	flag, ok := r.flags[session][key]
	if !ok {
		return Flag{}, ErrFlagNotFound
	}
	return flag, nil
}

func (r *MemoryRepository) List(_ context.Context, session uuid.UUID) ([]Flag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Flag, 0, len(r.flags[session]))
	for _, flag := range r.flags[session] {
		out = append(out, flag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Set stores flag. Writing an unchanged value emits no event.
func (r *MemoryRepository) Set(_ context.Context, flag Flag) (Flag, error) {
	if err := validFlag(flag); err != nil {
		return Flag{}, err
	}
	flag.UpdatedAt = r.clock().UTC()

	r.mu.Lock()
	session, ok := r.flags[flag.SessionID]
	if !ok {
		session = map[string]Flag{}
		r.flags[flag.SessionID] = session
	}
	previous, existed := session[flag.Key]
	if existed && previous.Value == flag.Value {
		r.mu.Unlock()
		return previous, nil
	}
	session[flag.Key] = flag
	r.mu.Unlock()

	changeType := ChangeCreated
	if existed {
		changeType = ChangeUpdated
	}
	r.events.publish(newChangeEvent(changeType, flag))
	return flag, nil
}

func (r *MemoryRepository) Delete(_ context.Context, session uuid.UUID, key string) error {
	r.mu.Lock()
	flag, ok := r.flags[session][key]
	if !ok {
		r.mu.Unlock()
		return ErrFlagNotFound
	}
	delete(r.flags[session], key)
	r.mu.Unlock()

	r.events.publish(newChangeEvent(ChangeDeleted, flag))
	return nil
}

func (r *MemoryRepository) Clear(_ context.Context, session uuid.UUID) error {
	r.mu.Lock()
	flags := r.flags[session]
	delete(r.flags, session)
	r.mu.Unlock()

	for _, flag := range flags {
		r.events.publish(newChangeEvent(ChangeDeleted, flag))
	}
	return nil
}

func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.events.subscribe(ctx)
}
