// Package actor runs the game progression machine as a single-writer
// event loop.
//
// There is exactly one live Context per actor. All transitions are
// synchronous and run to completion before the next event is processed;
// concurrency exists only as timers, which feed back into the same FIFO
// queue. Subscribers receive the full Context snapshot after every
// processed event and select the slices they care about themselves.
//
// Actors are constructed explicitly and passed by reference. There is
// no package-level instance: multiple independent sessions can coexist
// in one process, which is what the tests do.
package actor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/helios-os/helios/internal/game"
	"github.com/helios-os/helios/internal/machine"
)

// delayedFired is the internal event a timer enqueues when it expires.
// Routing it through the queue keeps all mutation on the single-writer
// loop and guarantees the action reads the context current at fire
// time, never a snapshot captured at schedule time.
type delayedFired struct {
	StateID string
	Index   int
}

func (delayedFired) Type() game.EventType { return "internal.DELAYED_FIRED" }

// Subscriber receives the full context snapshot after each processed
// event.
type Subscriber func(game.Context)

// Actor owns one live Context and the active machine configuration.
type Actor struct {
	machine *machine.Machine
	queue   *eventQueue
	sched   Scheduler
	logger  *slog.Logger

	mu      sync.Mutex
	cfg     machine.Config
	ctx     game.Context
	timers  map[string][]CancelFunc
	subs    []Subscriber
	started bool
}

// Option configures an Actor.
type Option func(*Actor)

// WithScheduler injects a timer scheduler. Defaults to WallClock.
func WithScheduler(s Scheduler) Option {
	return func(a *Actor) { a.sched = s }
}

// WithLogger injects a structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Actor) { a.logger = l }
}

// New creates an actor seeded with a fresh context. The machine's
// initial states are entered (and their timers scheduled) on Start.
func New(m *machine.Machine, initial game.Context, opts ...Option) *Actor {
	a := &Actor{
		machine: m,
		queue:   newEventQueue(),
		sched:   WallClock{},
		logger:  slog.Default(),
		ctx:     initial,
		timers:  make(map[string][]CancelFunc),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.ctx.SessionToken == "" {
		a.ctx.SessionToken = uuid.Must(uuid.NewV7()).String()
	}
	return a
}

// NewAt creates an actor resumed from a snapshot: the configuration and
// context are taken as-is and no entry actions run on Start. Pending
// timers from before the snapshot are not restored; delayed actions are
// flavor (message/log arrivals) and losing them across a load is
// accepted.
func NewAt(m *machine.Machine, cfg machine.Config, ctx game.Context, opts ...Option) *Actor {
	a := New(m, ctx, opts...)
	a.cfg = cfg.Clone()
	return a
}

// Start enters the machine's initial states (unless resuming from a
// snapshot) and notifies subscribers of the first snapshot. Must be
// called once before Send.
func (a *Actor) Start() {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return
	}
	a.started = true

	var res machine.StepResult
	if a.cfg == nil {
		res = a.machine.Init(a.ctx)
	} else {
		res = a.machine.InitAt(a.cfg, a.ctx)
	}
	a.applyLocked(res)
	snapshot := a.ctx
	subs := append([]Subscriber(nil), a.subs...)
	a.mu.Unlock()

	a.logger.Info("actor started",
		"session", snapshot.SessionToken,
		"state", a.StatePaths(),
	)
	for _, sub := range subs {
		sub(snapshot)
	}
}

// Send enqueues an event for processing. Safe from any goroutine.
// Returns false if the actor has been stopped.
func (a *Actor) Send(ev game.Event) bool {
	return a.queue.Enqueue(ev)
}

// Subscribe registers a snapshot consumer. Subscribers are invoked from
// the processing goroutine; they must not block.
func (a *Actor) Subscribe(sub Subscriber) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subs = append(a.subs, sub)
}

// Snapshot returns the current context. The returned value shares
// sub-trees with the live context; by the copy-on-write discipline
// those are never mutated in place, so the snapshot is stable.
func (a *Actor) Snapshot() game.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

// Config returns the active machine configuration.
func (a *Actor) Config() machine.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Clone()
}

// StatePaths renders the active configuration for logging.
func (a *Actor) StatePaths() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	paths := make([]string, 0, len(a.cfg))
	for _, p := range a.cfg {
		paths = append(paths, p)
	}
	return paths
}

// Run processes events until the context is cancelled or Stop is
// called. Must be called from exactly one goroutine; all mutation
// happens here (or in Drain, which must not run concurrently with Run).
func (a *Actor) Run(ctx context.Context) error {
	for {
		ev, ok := a.queue.TryDequeue()
		if ok {
			a.process(ev)
			continue
		}
		if a.queue.Closed() {
			return nil
		}

		select {
		case <-ctx.Done():
			a.Stop()
			return ctx.Err()
		case <-a.queue.Wait():
			// A wakeup may be stale: the signal channel coalesces and the
			// dequeue above can outrun a buffered token. Loop back and
			// re-check; an empty open queue just waits again.
		}
	}
}

// Drain synchronously processes every pending event, including events
// enqueued while draining (timer feedback). For callers that own the
// pump, such as tests and the scenario harness. Must not be called
// concurrently with Run.
func (a *Actor) Drain() {
	for {
		ev, ok := a.queue.TryDequeue()
		if !ok {
			return
		}
		a.process(ev)
	}
}

// Stop closes the queue and cancels all pending timers, so no stale
// timer can mutate a replaced actor's context (load replaces actors).
func (a *Actor) Stop() {
	a.queue.Close()
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, cancels := range a.timers {
		for _, cancel := range cancels {
			cancel()
		}
	}
	a.timers = make(map[string][]CancelFunc)
}

// process applies one event and notifies subscribers.
func (a *Actor) process(ev game.Event) {
	a.mu.Lock()

	var res machine.StepResult
	if fired, ok := ev.(delayedFired); ok {
		stepped, ok := a.machine.FireDelayed(a.cfg, a.ctx, fired.StateID, fired.Index)
		if !ok {
			// Stale timer: the state was exited after scheduling.
			a.mu.Unlock()
			a.logger.Debug("stale delayed action discarded",
				"state", fired.StateID,
				"index", fired.Index,
			)
			return
		}
		res = stepped
	} else {
		res = a.machine.Dispatch(a.cfg, a.ctx, ev)
	}

	a.applyLocked(res)
	snapshot := a.ctx
	subs := append([]Subscriber(nil), a.subs...)
	a.mu.Unlock()

	a.logger.Debug("event processed", "type", ev.Type())
	for _, sub := range subs {
		sub(snapshot)
	}
}

// applyLocked installs a step result: cancels timers for exited states,
// schedules delayed actions for entered states, and swaps in the new
// configuration and context. Caller holds a.mu.
func (a *Actor) applyLocked(res machine.StepResult) {
	for _, stateID := range res.Exited {
		for _, cancel := range a.timers[stateID] {
			cancel()
		}
		delete(a.timers, stateID)
	}

	for _, entered := range res.Entered {
		for i, d := range entered.Delayed {
			stateID, index := entered.ID, i
			cancel := a.sched.After(d.After, func() {
				// Only enqueue; the run loop validates the state is
				// still active and reads the context current then.
				a.Send(delayedFired{StateID: stateID, Index: index})
			})
			a.timers[stateID] = append(a.timers[stateID], cancel)
		}
	}

	a.cfg = res.Config
	a.ctx = res.Context
}
