package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/helios-os/helios/internal/content"
	"github.com/helios-os/helios/internal/game"
)

// Registry is an immutable named set of command handlers. It implements
// game.CommandSet so a live registry can sit in the game context and be
// serialized by name in snapshots.
type Registry struct {
	name     string
	handlers map[string]*Handler
	aliases  map[string]string
}

// NewRegistry builds a registry from handlers. Every registry carries
// the universal clear and help commands; help is synthesized from the
// registry's own entries so it regenerates whenever the registry
// changes. Duplicate names are a programmer error and panic.
func NewRegistry(name string, handlers ...*Handler) *Registry {
	r := &Registry{
		name:     name,
		handlers: make(map[string]*Handler, len(handlers)+2),
		aliases:  make(map[string]string),
	}
	r.add(clearHandler())
	r.add(helpHandler(r))
	for _, h := range handlers {
		r.add(h)
	}
	return r
}

func (r *Registry) add(h *Handler) {
	key := strings.ToLower(h.Name)
	if _, exists := r.handlers[key]; exists {
		panic(fmt.Sprintf("command: duplicate handler %q in registry %q", key, r.name))
	}
	r.handlers[key] = h
	for _, a := range h.Aliases {
		r.aliases[strings.ToLower(a)] = key
	}
}

// Extend returns a new registry carrying this registry's handlers plus
// the given ones, under a new name. The receiver is unchanged.
func (r *Registry) Extend(name string, handlers ...*Handler) *Registry {
	combined := make([]*Handler, 0, len(r.handlers)+len(handlers))
	for key, h := range r.handlers {
		if key == "clear" || key == "help" {
			continue // re-added by NewRegistry
		}
		combined = append(combined, h)
	}
	combined = append(combined, handlers...)
	return NewRegistry(name, combined...)
}

// Restrict returns a new registry keeping only the named handlers (plus
// the universal clear and help), under a new name.
func (r *Registry) Restrict(name string, keep ...string) *Registry {
	var kept []*Handler
	for _, k := range keep {
		if h, ok := r.handlers[strings.ToLower(k)]; ok {
			kept = append(kept, h)
		}
	}
	return NewRegistry(name, kept...)
}

// Name identifies the registry for snapshot serialization.
func (r *Registry) Name() string { return r.name }

// CommandNames lists canonical command names, sorted.
func (r *Registry) CommandNames() []string {
	names := make([]string, 0, len(r.handlers))
	for key := range r.handlers {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a name resolves, aliases included.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Lookup resolves a command name case-insensitively, following aliases.
func (r *Registry) Lookup(name string) (*Handler, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	h, ok := r.handlers[key]
	return h, ok
}

// From extracts the live registry from a context's command set.
func From(ctx game.Context) (*Registry, bool) {
	r, ok := ctx.AvailableCommands.(*Registry)
	return r, ok
}

// Execute resolves and runs a terminal input line against the context's
// current command set.
//
// Returns the result, the canonical lowercased command name, and
// whether the command was recognized. Unrecognized input yields the
// standard two-line unknown-command result with recognized=false; the
// caller decides whether to count it (the engine counts recognized
// commands only).
//
// A commandContent override for the resolved command short-circuits the
// handler's own output: a static line list is returned as-is, a
// function reference is resolved through the content registry and
// invoked with the context.
func Execute(input string, ctx game.Context) (*Result, string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, "", false
	}
	name := strings.ToLower(strings.Fields(trimmed)[0])

	reg, ok := From(ctx)
	if !ok {
		return Unknown(name), name, false
	}
	h, ok := reg.Lookup(name)
	if !ok {
		return Unknown(name), name, false
	}

	if override, ok := ctx.CommandContent[h.Name]; ok {
		return &Result{Lines: LinesOf(content.Resolve(override, ctx))}, h.Name, true
	}
	return h.Execute(trimmed, ctx), h.Name, true
}

// Unknown is the deterministic two-line result for unrecognized input.
func Unknown(name string) *Result {
	return Lines(
		fmt.Sprintf("Error: unknown command: %s", name),
		"Type 'help' for a list of available commands.",
	)
}

// Args returns the free-text argument portion of an input line, with
// the command word removed. Arguments pass to handlers verbatim.
func Args(input string) string {
	trimmed := strings.TrimSpace(input)
	fields := strings.SplitN(trimmed, " ", 2)
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimSpace(fields[1])
}
