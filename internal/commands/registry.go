package commands

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-command/dispatcher"
)

// Subscription cancels a dispatcher registration.
type Subscription interface {
	Unsubscribe()
}

type subscriber interface {
	subscribe() Subscription
}

func (h *Handler[T]) subscribe() Subscription {
	return dispatcher.SubscribeCommand[T](h)
}

// DispatcherRegistry subscribes handlers on the go-command dispatcher so
// messages can be sent with dispatcher.Dispatch.
type DispatcherRegistry struct {
	mu   sync.Mutex
	subs []Subscription
}

// NewDispatcherRegistry returns an empty registry.
func NewDispatcherRegistry() *DispatcherRegistry {
	return &DispatcherRegistry{}
}

// RegisterCommand subscribes a *Handler.
func (r *DispatcherRegistry) RegisterCommand(handler any) error {
	s, ok := handler.(subscriber)
	if !ok {
		return fmt.Errorf("commands: %T cannot be subscribed to the dispatcher", handler)
	}
	sub := s.subscribe()
	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()
	return nil
}

// Len reports the number of live subscriptions.
func (r *DispatcherRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Close removes every subscription made through the registry.
func (r *DispatcherRegistry) Close() {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
