package content

import (
	"fmt"
	"sort"

	"github.com/helios-os/helios/internal/game"
)

// contentFuncs is the registry of named content functions.
//
// Command-content overrides come in two forms: a static line list, or a
// function of the context. Function values cannot be serialized into a
// save snapshot, so overrides reference functions by name and this
// registry resolves them. Registration happens in package inits (the
// story package registers its narrative functions); the set is fixed
// before any actor runs, so no locking is needed afterwards.
var contentFuncs = map[string]game.ContentFunc{}

// RegisterFunc adds a named content function. Duplicate names are a
// programmer error and panic.
func RegisterFunc(name string, fn game.ContentFunc) {
	if _, exists := contentFuncs[name]; exists {
		panic(fmt.Sprintf("content: duplicate content function %q", name))
	}
	contentFuncs[name] = fn
}

// Func resolves a named content function.
func Func(name string) (game.ContentFunc, bool) {
	fn, ok := contentFuncs[name]
	return fn, ok
}

// FuncNames lists registered function names, sorted. For diagnostics.
func FuncNames() []string {
	names := make([]string, 0, len(contentFuncs))
	for name := range contentFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve evaluates a command-content override against the context.
//
// A static line list short-circuits; a function reference is resolved
// through the registry and invoked lazily. An unknown function name is
// a content bug and panics.
func Resolve(cc game.CommandContent, ctx game.Context) []string {
	if cc.Lines != nil {
		return cc.Lines
	}
	if cc.FuncName != "" {
		fn, ok := Func(cc.FuncName)
		if !ok {
			panic(fmt.Sprintf("content: unknown content function %q", cc.FuncName))
		}
		return fn(ctx)
	}
	return nil
}
