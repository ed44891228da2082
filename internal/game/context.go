package game

import (
	"maps"
	"slices"
	"strings"
)

// View identifies a UI focus target. View keys double as the keys of
// ViewNotifications.
type View string

const (
	ViewDashboard      View = "dashboard"
	ViewCommunications View = "communications"
	ViewTerminal       View = "terminal"
	ViewLogs           View = "logs"
	ViewObjectives     View = "captains-log_objectives"
	ViewCaptainsLog    View = "captains-log_log"
)

// Views lists all view keys in display order.
var Views = []View{
	ViewDashboard,
	ViewCommunications,
	ViewTerminal,
	ViewLogs,
	ViewObjectives,
	ViewCaptainsLog,
}

// CommandSet is the set of terminal commands available at the current
// narrative step. The concrete implementation lives in the command
// package; Context only needs identity (for snapshots) and membership.
type CommandSet interface {
	// Name identifies the registry for snapshot serialization.
	Name() string
	// CommandNames lists canonical command names, sorted.
	CommandNames() []string
	// Has reports whether a command name resolves (aliases included).
	Has(name string) bool
}

// ContentFunc produces command output lines from the current context.
// Evaluated lazily at command execution time, never at swap time.
type ContentFunc func(Context) []string

// CommandContent is a per-step override of a handler's default output.
//
// Exactly one of Lines and FuncName is set. Lines is a fixed ordered
// list; FuncName is an opaque reference resolved through the content
// package's function registry, keeping snapshots free of code.
type CommandContent struct {
	Lines    []string `json:"lines,omitempty"`
	FuncName string   `json:"funcName,omitempty"`
}

// Context is the single evolving game-state document.
//
// The actor owns exactly one live Context. All mutation is by wholesale
// replacement of sub-trees: every helper below returns a new Context
// whose changed maps/slices are fresh copies. Actions must never write
// through a Context they received.
type Context struct {
	SessionToken      string                    `json:"sessionToken"`
	CommanderName     string                    `json:"commanderName"`
	ActiveView        View                      `json:"activeView"`
	AvailableCommands CommandSet                `json:"-"`
	CommandContent    map[string]CommandContent `json:"commandContent"`
	ViewNotifications map[View]bool             `json:"viewNotifications"`
	Systems           map[string]SystemState    `json:"systems"`
	Messages          []Message                 `json:"messages"`
	MessageViews      []MessageView             `json:"messageViews"`
	Logs              []LogEntry                `json:"logs"`
	CaptainsLog       []CaptainsLogEntry        `json:"captainsLog"`
	Objectives        []Objective               `json:"objectives"`
	CommandCounts     map[string]int            `json:"commandCounts"`
	Diagnostics       Diagnostics               `json:"diagnostics"`
	Mission           Mission                   `json:"mission"`
	AIChat            AIChat                    `json:"aiChat"`
	Repair            Repair                    `json:"repair"`
}

// WithView replaces the active view.
func (c Context) WithView(v View) Context {
	c.ActiveView = v
	return c
}

// WithNotification replaces one view's notification flag. Other flags
// are untouched.
func (c Context) WithNotification(v View, on bool) Context {
	n := maps.Clone(c.ViewNotifications)
	if n == nil {
		n = make(map[View]bool, 1)
	}
	n[v] = on
	c.ViewNotifications = n
	return c
}

// WithCommands swaps the available command set wholesale.
func (c Context) WithCommands(set CommandSet) Context {
	c.AvailableCommands = set
	return c
}

// WithCommandContent swaps the per-step content override table
// wholesale. Pass nil to clear all overrides.
func (c Context) WithCommandContent(content map[string]CommandContent) Context {
	c.CommandContent = maps.Clone(content)
	return c
}

// WithCommanderName replaces the commander name.
func (c Context) WithCommanderName(name string) Context {
	c.CommanderName = name
	return c
}

// WithSystem replaces one system's state, re-deriving its metrics from
// the given status and integrity.
func (c Context) WithSystem(name string, status SystemStatus, integrity float64) Context {
	systems := maps.Clone(c.Systems)
	systems[name] = NewSystemState(name, status, integrity)
	c.Systems = systems
	return c
}

// WithDiagnostics replaces the diagnostics block.
func (c Context) WithDiagnostics(d Diagnostics) Context {
	c.Diagnostics = d
	return c
}

// AppendMessage appends a message and flags the communications view.
func (c Context) AppendMessage(m Message) Context {
	if m.ReceivedAt == 0 {
		m.ReceivedAt = nowMillis()
	}
	c.Messages = append(slices.Clone(c.Messages), m)
	return c.WithNotification(ViewCommunications, true)
}

// OpenMessage appends a message-view record. Append-only; duplicates
// from reopening are fine.
func (c Context) OpenMessage(messageID string) Context {
	c.MessageViews = append(slices.Clone(c.MessageViews), MessageView{
		MessageID: messageID,
		OpenedAt:  nowMillis(),
	})
	return c
}

// AppendLog appends a system event log entry and flags the logs view.
func (c Context) AppendLog(entry LogEntry) Context {
	if entry.Timestamp == 0 {
		entry.Timestamp = nowMillis()
	}
	c.Logs = append(slices.Clone(c.Logs), entry)
	return c.WithNotification(ViewLogs, true)
}

// ClearLogs drops all system event log entries.
func (c Context) ClearLogs() Context {
	c.Logs = nil
	return c
}

// AppendChat appends an AI chat message.
func (c Context) AppendChat(m ChatMessage) Context {
	if m.SentAt == 0 {
		m.SentAt = nowMillis()
	}
	c.AIChat = AIChat{Messages: append(slices.Clone(c.AIChat.Messages), m)}
	return c
}

// AppendObjectiveIfAbsent appends an objective unless its id already
// exists. The bool reports whether it was added.
func (c Context) AppendObjectiveIfAbsent(o Objective) (Context, bool) {
	if HasObjective(c.Objectives, o.ID) {
		return c, false
	}
	if o.Status == "" {
		o.Status = ObjectiveActive
	}
	c.Objectives = append(slices.Clone(c.Objectives), o)
	return c, true
}

// SetObjectiveStatus replaces one objective's status by id. Unknown ids
// are a no-op.
func (c Context) SetObjectiveStatus(id string, status ObjectiveStatus) Context {
	idx := slices.IndexFunc(c.Objectives, func(o Objective) bool { return o.ID == id })
	if idx < 0 {
		return c
	}
	objectives := slices.Clone(c.Objectives)
	objectives[idx].Status = status
	c.Objectives = objectives
	return c
}

// IncrementCommandCount bumps the count for a lowercased command name.
func (c Context) IncrementCommandCount(name string) Context {
	counts := maps.Clone(c.CommandCounts)
	if counts == nil {
		counts = make(map[string]int, 1)
	}
	counts[strings.ToLower(name)]++
	c.CommandCounts = counts
	return c
}

// CommandCount reads the executed count for a lowercased command name.
func (c Context) CommandCount(name string) int {
	return c.CommandCounts[strings.ToLower(name)]
}
