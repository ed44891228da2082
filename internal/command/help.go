package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/helios-os/helios/internal/game"
)

// helpSpamThreshold is the executed-count at which help stops listing
// commands. Counts increment after execution, so a stored count of 3
// means the current call is the 4th.
const helpSpamThreshold = 3

// HelpLimitLines is the message set help returns from its 4th
// invocation onward, replacing the normal listing.
var HelpLimitLines = []string{
	"AI: That is the fourth time you have asked for help, Commander.",
	"AI: The command list has not changed since you last read it.",
	"AI: I am logging this interaction for your own wellbeing review.",
}

// clearHandler clears the visible transcript. Returning nil tells the
// terminal "handled, no output"; by the counting contract a nil result
// does not increment commandCounts.
func clearHandler() *Handler {
	return &Handler{
		Name:        "clear",
		Description: "clear the terminal transcript",
		Usage:       "clear",
		Aliases:     []string{"cls"},
		Execute: func(string, game.Context) *Result {
			return nil
		},
	}
}

// helpHandler synthesizes the help listing from the owning registry.
// The listing is alphabetized by usage string and padded for alignment.
// Invocation counting rides on commandCounts["help"], so it survives
// snapshots and registry swaps.
func helpHandler(r *Registry) *Handler {
	return &Handler{
		Name:        "help",
		Description: "list available commands",
		Usage:       "help",
		Aliases:     []string{"?"},
		Execute: func(_ string, ctx game.Context) *Result {
			if ctx.CommandCount("help") >= helpSpamThreshold {
				return &Result{Lines: LinesOf(HelpLimitLines)}
			}
			return &Result{Lines: LinesOf(r.helpLines())}
		},
	}
}

// helpLines renders the registry's entries as "usage  description"
// rows, alphabetized by usage and padded to the widest usage string.
func (r *Registry) helpLines() []string {
	entries := make([]*Handler, 0, len(r.handlers))
	for _, h := range r.handlers {
		entries = append(entries, h)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].usageKey() < entries[j].usageKey()
	})

	width := 0
	for _, h := range entries {
		if len(h.usageKey()) > width {
			width = len(h.usageKey())
		}
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, "Available commands:")
	for _, h := range entries {
		usage := h.usageKey()
		lines = append(lines, fmt.Sprintf("  %s%s  %s", usage, strings.Repeat(" ", width-len(usage)), h.Description))
	}
	return lines
}
