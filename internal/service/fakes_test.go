package service

import (
	"context"
	"errors"
	"sync"
)

// captureBroadcaster records published events for assertions.
type captureBroadcaster struct {
	mu     sync.Mutex
	events []any
}

func (b *captureBroadcaster) Publish(event any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *captureBroadcaster) Events() []any {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]any, len(b.events))
	copy(out, b.events)
	return out
}

// failingGenerator simulates an unavailable caption collaborator.
type failingGenerator struct{}

func (failingGenerator) Caption(context.Context, []string) (string, error) {
	return "", errors.New("model unavailable")
}

func (failingGenerator) Vibe(context.Context, []string) (string, error) {
	return "", errors.New("model unavailable")
}
