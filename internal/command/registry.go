// Package command maps bot command names to the handlers that answer them.
package command

import (
	"errors"
	"fmt"

	"github.com/eliseohh/splitonbot/internal/reply"
)

var (
	// ErrDuplicateCommand is returned when a name is registered twice.
	ErrDuplicateCommand = errors.New("duplicate command")
	// ErrUnknownCommand is returned when dispatching a name nobody registered.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidCommand is returned for an empty name or a nil handler.
	ErrInvalidCommand = errors.New("invalid command")
)

// Command describes a user-invocable bot command.
type Command struct {
	Name        string
	Description string
}

// Handler renders the reply for one invocation.
type Handler func(reply.Identity) reply.Response

type entry struct {
	cmd     Command
	handler Handler
}

// Registry is filled once at startup and read-only afterwards, so concurrent
// Dispatch calls need no locking.
type Registry struct {
	entries map[string]entry
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds cmd. A failed call leaves the registry untouched.
func (r *Registry) Register(cmd Command, h Handler) error {
	if cmd.Name == "" || h == nil {
		return fmt.Errorf("%w: %q", ErrInvalidCommand, cmd.Name)
	}
	if _, exists := r.entries[cmd.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, cmd.Name)
	}

	r.entries[cmd.Name] = entry{cmd: cmd, handler: h}
	r.order = append(r.order, cmd.Name)
	return nil
}

// MustRegister is Register for startup code that cannot continue on error.
func (r *Registry) MustRegister(cmd Command, h Handler) {
	if err := r.Register(cmd, h); err != nil {
		panic(err)
	}
}

// Dispatch runs the handler registered under name. Lookup is exact and
// case-sensitive.
func (r *Registry) Dispatch(name string, id reply.Identity) (reply.Response, error) {
	e, ok := r.entries[name]
	if !ok {
		return reply.Response{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return e.handler(id), nil
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []Command {
	list := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.entries[name].cmd)
	}
	return list
}
