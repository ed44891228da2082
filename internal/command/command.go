// Package command maps terminal input to executable handlers.
//
// A Registry is the set of commands available at one narrative step.
// Registries are immutable after construction; the state machine swaps
// whole registries in and out of the game context on step entry, so
// command availability is always in lock-step with narrative progress.
package command

import (
	"strings"

	"github.com/helios-os/helios/internal/game"
)

// Severity is a presentation hint for one output line. It carries no
// state; renderers may colorize by it or ignore it.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityError
	SeverityWarn
	SeverityAI
)

// Line is one line of terminal output.
type Line struct {
	Text     string
	Severity Severity
}

// Classify derives a line's severity from its text prefix. Pure
// presentation: "Error:" lines render as errors, "Warning:" as
// warnings, "AI:" in the AI voice.
func Classify(text string) Severity {
	switch {
	case strings.HasPrefix(text, "Error:"):
		return SeverityError
	case strings.HasPrefix(text, "Warning:"):
		return SeverityWarn
	case strings.HasPrefix(text, "AI:"):
		return SeverityAI
	default:
		return SeverityNormal
	}
}

// LinesOf classifies a list of raw strings into output lines.
func LinesOf(texts []string) []Line {
	lines := make([]Line, len(texts))
	for i, t := range texts {
		lines[i] = Line{Text: t, Severity: Classify(t)}
	}
	return lines
}

// Dialog is a one-shot interactive sub-dialog. The terminal displays
// Prompt, captures exactly the next input line, invokes Continue, and
// discards the dialog regardless of outcome. Not resumable.
type Dialog struct {
	Prompt   string
	Continue func(userInput string) *Result
}

// Result is what executing a command produces.
//
// A nil *Result means "handled with no textual output" (e.g. clear);
// the terminal interprets it as a transcript-clear and does not count
// the execution. Otherwise Lines and/or Dialog are set. Events lists
// game events the terminal should dispatch after displaying the result,
// keeping handlers pure (they never touch the actor directly).
type Result struct {
	Lines  []Line
	Dialog *Dialog
	Events []game.Event
}

// Lines builds a plain result from raw strings.
func Lines(texts ...string) *Result {
	return &Result{Lines: LinesOf(texts)}
}

// Handler is the executable unit bound to a command name.
type Handler struct {
	// Name is the canonical, lowercase command name.
	Name string
	// Description is the one-line help text.
	Description string
	// Usage is the help listing key, e.g. "echo <text>". Defaults to
	// Name when empty.
	Usage string
	// Aliases resolve to this handler, case-insensitively.
	Aliases []string
	// Execute runs the command against the current context snapshot.
	// The raw input includes the command word and any arguments.
	Execute func(input string, ctx game.Context) *Result
}

// usageKey returns the string help alphabetizes and pads by.
func (h *Handler) usageKey() string {
	if h.Usage != "" {
		return h.Usage
	}
	return h.Name
}
