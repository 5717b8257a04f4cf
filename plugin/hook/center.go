package hook

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrInterrupt signals that a handler wants to stop further processing.
// On DecisionBefore it vetoes the decision.
var ErrInterrupt = errors.New("hook interrupted")

// Events raised by the tick loop.
const (
	// DecisionBefore carries the decision about to be committed. A handler
	// returning ErrInterrupt turns it into no action.
	DecisionBefore = "decision.before"
	// DecisionCommitted carries the tick report after the decision is final.
	DecisionCommitted = "decision.committed"
)

// Fn is a hook handler.
// Returns (data, nil) to continue, or (data, ErrInterrupt) to stop.
type Fn func(ctx context.Context, event string, data any) (any, error)

type entry struct {
	priority int
	fn       Fn
	name     string
}

// Center manages event hook registrations.
type Center struct {
	mu    sync.RWMutex
	hooks map[string][]*entry
}

// New creates an empty Center.
func New() *Center {
	return &Center{hooks: make(map[string][]*entry)}
}

// Register adds fn for event with the given priority (lower runs first).
// Handlers of equal priority run in registration order. name is used for
// Unregister.
func (c *Center) Register(event string, priority int, name string, fn Fn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := append(c.hooks[event], &entry{priority: priority, fn: fn, name: name})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority < entries[j].priority
	})
	c.hooks[event] = entries
}

// Unregister removes all handlers with the given name for event.
func (c *Center) Unregister(event, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks[event] = without(c.hooks[event], name)
}

func without(entries []*entry, name string) []*entry {
	n := 0
	for _, e := range entries {
		if e.name != name {
			entries[n] = e
			n++
		}
	}
	return entries[:n]
}

// Handlers returns the handler names of event in run order.
func (c *Center) Handlers(event string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.hooks[event]))
	for _, e := range c.hooks[event] {
		names = append(names, e.name)
	}
	return names
}

// Trigger runs the handlers of event in priority order, threading data
// through them. ErrInterrupt stops the chain and is returned. Other errors,
// including recovered panics, do not stop the chain; they are joined and
// returned after the last handler.
func (c *Center) Trigger(ctx context.Context, event string, data any) (any, error) {
	if c == nil {
		return data, nil
	}
	c.mu.RLock()
	entries := make([]*entry, len(c.hooks[event]))
	copy(entries, c.hooks[event])
	c.mu.RUnlock()

	var errs []error
	for _, e := range entries {
		out, err := call(ctx, e, event, data)
		if errors.Is(err, ErrInterrupt) {
			return out, err
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("hook %s: %w", e.name, err))
			continue
		}
		data = out
	}
	return data, errors.Join(errs...)
}

func call(ctx context.Context, e *entry, event string, data any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = data, fmt.Errorf("panic: %v", r)
		}
	}()
	return e.fn(ctx, event, data)
}
