// Package machine implements the hierarchical finite-state machine that
// drives game progression.
//
// States correspond to narrative steps. Each state declares entry/exit
// actions, delayed actions (wall-clock timers relative to state entry),
// and ordered event transitions with guards. The machine itself is an
// immutable description; per-session runtime state is a Config (active
// state path per region) plus the game Context, both owned by the actor.
//
// DISPATCH SEMANTICS:
//
// Regions are parallel: every region sees every event, in region
// declaration order, with the context threaded through. Within a
// region, the active leaf state's transitions are tried first, then its
// parent's (one level of nesting is supported). Candidate transitions
// for an event type are evaluated in declaration order; the first whose
// guard passes (or which has no guard) fires and evaluation stops.
// An event with no matching transition anywhere is a silent no-op.
//
// Transition order is exit actions, then transition actions, then entry
// actions. Entering a compound state enters its initial child. A
// transition targeting a final child completes the parent: the parent's
// OnDone target is entered after exiting both child and parent.
package machine

import (
	"fmt"
	"strings"
	"time"

	"github.com/helios-os/helios/internal/game"
)

// Guard is a pure predicate over (context, event). Guards must not
// mutate anything.
type Guard func(game.Context, game.Event) bool

// Action is a pure function from (context, event) to a new context.
// Actions triggered by timers receive a nil event and must derive
// everything they need from the context.
type Action func(game.Context, game.Event) game.Context

// Transition is one candidate reaction to an event.
type Transition struct {
	// Guard gates the transition; nil means unconditional.
	Guard Guard
	// Actions run when the transition fires.
	Actions []Action
	// Target is the destination state ID. Empty means an internal
	// transition: actions run but the state does not change.
	Target string
}

// Delayed is an action scheduled a fixed wall-clock duration after
// state entry. If the state has been exited by fire time the timer is
// discarded.
type Delayed struct {
	After   time.Duration
	Actions []Action
	// Target optionally transitions when the timer fires (used by the
	// intro sequence to advance on its own).
	Target string
}

// State is one narrative step, or one child of a compound step.
type State struct {
	ID      string
	Entry   []Action
	Exit    []Action
	Delayed []Delayed
	On      map[game.EventType][]Transition

	// Compound state support: Initial names the child entered with the
	// parent. Only one level of nesting is supported.
	Initial  string
	Children []*State

	// Final marks a child whose entry completes the parent.
	Final bool
	// OnDone is the top-level target entered when a final child is
	// reached. Only meaningful on compound states.
	OnDone string
}

func (s *State) child(id string) *State {
	for _, c := range s.Children {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Region is one parallel top-level region: a flat list of (possibly
// compound) states with a designated initial state.
type Region struct {
	Name    string
	Initial string
	States  []*State
}

func (r *Region) state(id string) *State {
	for _, s := range r.States {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Config records the active state per region as "top" or "top.child"
// paths. Configs serialize directly into snapshots.
type Config map[string]string

// Clone copies a config.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Contains reports whether the given state ID is active (as a top-level
// state or a child).
func (c Config) Contains(stateID string) bool {
	for _, path := range c {
		top, child, _ := strings.Cut(path, ".")
		if top == stateID || child == stateID {
			return true
		}
	}
	return false
}

// stateRef locates a state within the machine.
type stateRef struct {
	region *Region
	parent *State // nil for top-level states
	state  *State
}

// Machine is an immutable state chart over parallel regions.
type Machine struct {
	regions []*Region
	index   map[string]stateRef
}

// StepResult is the outcome of one dispatch: the new config and
// context, plus the states entered (for timer scheduling) and the state
// IDs exited (for timer cancellation).
type StepResult struct {
	Config  Config
	Context game.Context
	Entered []*State
	Exited  []string
}

// New builds and validates a machine. State IDs must be unique across
// all regions and nesting levels; initial states, transition targets
// and OnDone targets must resolve.
func New(regions ...*Region) (*Machine, error) {
	m := &Machine{regions: regions, index: make(map[string]stateRef)}

	for _, r := range regions {
		if r.state(r.Initial) == nil {
			return nil, fmt.Errorf("machine: region %q initial state %q not found", r.Name, r.Initial)
		}
		for _, s := range r.States {
			if err := m.addState(r, nil, s); err != nil {
				return nil, err
			}
			for _, c := range s.Children {
				if err := m.addState(r, s, c); err != nil {
					return nil, err
				}
			}
			if len(s.Children) > 0 {
				if s.child(s.Initial) == nil {
					return nil, fmt.Errorf("machine: state %q initial child %q not found", s.ID, s.Initial)
				}
			}
		}
	}

	// Validate targets after the full index exists.
	for _, r := range regions {
		for _, s := range r.States {
			if err := m.validateTargets(r, nil, s); err != nil {
				return nil, err
			}
			if s.OnDone != "" && r.state(s.OnDone) == nil {
				return nil, fmt.Errorf("machine: state %q onDone target %q not found", s.ID, s.OnDone)
			}
			for _, c := range s.Children {
				if err := m.validateTargets(r, s, c); err != nil {
					return nil, err
				}
			}
		}
	}

	return m, nil
}

func (m *Machine) addState(r *Region, parent, s *State) error {
	if _, exists := m.index[s.ID]; exists {
		return fmt.Errorf("machine: duplicate state ID %q", s.ID)
	}
	m.index[s.ID] = stateRef{region: r, parent: parent, state: s}
	return nil
}

func (m *Machine) validateTargets(r *Region, parent, s *State) error {
	resolve := func(target string) bool {
		if parent != nil {
			return parent.child(target) != nil
		}
		return r.state(target) != nil
	}
	for _, transitions := range s.On {
		for _, t := range transitions {
			if t.Target != "" && !resolve(t.Target) {
				return fmt.Errorf("machine: state %q transition target %q not found", s.ID, t.Target)
			}
		}
	}
	for _, d := range s.Delayed {
		if d.Target != "" && !resolve(d.Target) {
			return fmt.Errorf("machine: state %q delayed target %q not found", s.ID, d.Target)
		}
	}
	return nil
}

// MustNew builds a machine and panics on validation failure. Intended
// for statically declared narrative machines, where a bad reference is
// a programmer error.
func MustNew(regions ...*Region) *Machine {
	m, err := New(regions...)
	if err != nil {
		panic(err)
	}
	return m
}

// Lookup finds a state by ID.
func (m *Machine) Lookup(stateID string) (*State, bool) {
	ref, ok := m.index[stateID]
	return ref.state, ok
}

// Init enters every region's initial state and returns the starting
// config, the resulting context, and the entered states.
func (m *Machine) Init(ctx game.Context) StepResult {
	res := StepResult{Config: make(Config, len(m.regions)), Context: ctx}
	for _, r := range m.regions {
		top := r.state(r.Initial)
		res.Context = runActions(top.Entry, res.Context, nil)
		res.Entered = append(res.Entered, top)
		path := top.ID
		if len(top.Children) > 0 {
			child := top.child(top.Initial)
			res.Context = runActions(child.Entry, res.Context, nil)
			res.Entered = append(res.Entered, child)
			path = top.ID + "." + child.ID
		}
		res.Config[r.Name] = path
	}
	return res
}

// InitAt builds a StepResult for a restored config without running any
// entry actions. Used when resuming from a snapshot: the context
// already reflects every entry action that ran before the save.
func (m *Machine) InitAt(cfg Config, ctx game.Context) StepResult {
	return StepResult{Config: cfg.Clone(), Context: ctx}
}

// Dispatch processes one event against the active configuration.
//
// Every region sees the event in declaration order. Unmatched events
// leave config and context unchanged.
func (m *Machine) Dispatch(cfg Config, ctx game.Context, ev game.Event) StepResult {
	res := StepResult{Config: cfg.Clone(), Context: ctx}
	for _, r := range m.regions {
		m.dispatchRegion(r, &res, ev)
	}
	return res
}

// dispatchRegion tries the active leaf's transitions, then the parent's.
func (m *Machine) dispatchRegion(r *Region, res *StepResult, ev game.Event) {
	topID, childID, _ := strings.Cut(res.Config[r.Name], ".")
	top := r.state(topID)
	if top == nil {
		return
	}

	if childID != "" {
		child := top.child(childID)
		if child != nil && m.tryTransitions(r, top, child, child.On[ev.Type()], res, ev) {
			return
		}
	}
	m.tryTransitions(r, nil, top, top.On[ev.Type()], res, ev)
}

// tryTransitions evaluates candidates in declaration order and applies
// the first whose guard passes. Reports whether one fired.
func (m *Machine) tryTransitions(r *Region, parent, current *State, candidates []Transition, res *StepResult, ev game.Event) bool {
	for _, t := range candidates {
		if t.Guard != nil && !t.Guard(res.Context, ev) {
			continue
		}
		m.applyTransition(r, parent, current, t.Actions, t.Target, res, ev)
		return true
	}
	return false
}

// applyTransition runs one fired transition: exit, actions, entry.
// parent is nil for top-level transitions and set for child-level ones.
func (m *Machine) applyTransition(r *Region, parent, current *State, actions []Action, target string, res *StepResult, ev game.Event) {
	if target == "" {
		res.Context = runActions(actions, res.Context, ev)
		return
	}

	if parent != nil {
		// Child-level transition within a compound state.
		res.Context = runActions(current.Exit, res.Context, ev)
		res.Exited = append(res.Exited, current.ID)
		res.Context = runActions(actions, res.Context, ev)

		next := parent.child(target)
		res.Context = runActions(next.Entry, res.Context, ev)
		res.Entered = append(res.Entered, next)
		res.Config[r.Name] = parent.ID + "." + next.ID

		if next.Final && parent.OnDone != "" {
			// Reaching a final child completes the parent.
			res.Exited = append(res.Exited, next.ID)
			res.Context = runActions(parent.Exit, res.Context, ev)
			res.Exited = append(res.Exited, parent.ID)
			m.enterTop(r, r.state(parent.OnDone), res, ev)
		}
		return
	}

	// Top-level transition: exit active child first, then the state.
	topID, childID, _ := strings.Cut(res.Config[r.Name], ".")
	top := r.state(topID)
	if childID != "" {
		if child := top.child(childID); child != nil {
			res.Context = runActions(child.Exit, res.Context, ev)
			res.Exited = append(res.Exited, child.ID)
		}
	}
	res.Context = runActions(top.Exit, res.Context, ev)
	res.Exited = append(res.Exited, top.ID)
	res.Context = runActions(actions, res.Context, ev)
	m.enterTop(r, r.state(target), res, ev)
}

// enterTop enters a top-level state, descending into its initial child.
func (m *Machine) enterTop(r *Region, top *State, res *StepResult, ev game.Event) {
	res.Context = runActions(top.Entry, res.Context, ev)
	res.Entered = append(res.Entered, top)
	path := top.ID
	if len(top.Children) > 0 {
		child := top.child(top.Initial)
		res.Context = runActions(child.Entry, res.Context, ev)
		res.Entered = append(res.Entered, child)
		path = top.ID + "." + child.ID
	}
	res.Config[r.Name] = path
}

// FireDelayed applies one of a state's delayed actions, by index, if
// that state is still active. Returns ok=false for a stale timer (the
// state has since been exited), which the actor discards silently.
//
// Delayed actions receive a nil event and re-read everything from the
// current context; the scheduler never captures a context snapshot.
func (m *Machine) FireDelayed(cfg Config, ctx game.Context, stateID string, index int) (StepResult, bool) {
	ref, ok := m.index[stateID]
	if !ok || index < 0 || index >= len(ref.state.Delayed) {
		return StepResult{}, false
	}
	if !cfg.Contains(stateID) {
		return StepResult{}, false
	}

	res := StepResult{Config: cfg.Clone(), Context: ctx}
	d := ref.state.Delayed[index]
	res.Context = runActions(d.Actions, res.Context, nil)
	if d.Target != "" {
		m.applyTransition(ref.region, ref.parent, ref.state, nil, d.Target, &res, nil)
	}
	return res, true
}

func runActions(actions []Action, ctx game.Context, ev game.Event) game.Context {
	for _, a := range actions {
		ctx = a(ctx, ev)
	}
	return ctx
}
