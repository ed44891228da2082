package actor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helios-os/helios/internal/actor"
	"github.com/helios-os/helios/internal/game"
	"github.com/helios-os/helios/internal/machine"
	"github.com/helios-os/helios/internal/testutil"
)

// testMachine is a two-state machine with a delayed action in the first
// state and an event transition between them.
func testMachine() *machine.Machine {
	return machine.MustNew(&machine.Region{
		Name:    "main",
		Initial: "idle",
		States: []*machine.State{
			{
				ID: "idle",
				Delayed: []machine.Delayed{
					{After: 5 * time.Second, Actions: []machine.Action{
						func(ctx game.Context, _ game.Event) game.Context {
							return ctx.IncrementCommandCount("tick")
						},
					}},
				},
				On: map[game.EventType][]machine.Transition{
					game.EventKeypress: {{Target: "active"}},
				},
			},
			{ID: "active"},
		},
	})
}

func TestStartAssignsSessionToken(t *testing.T) {
	a := actor.New(testMachine(), game.Context{}, actor.WithScheduler(testutil.NewManualScheduler()))
	a.Start()
	defer a.Stop()

	assert.NotEmpty(t, a.Snapshot().SessionToken)
	assert.Equal(t, machine.Config{"main": "idle"}, a.Config())
}

func TestStartPreservesExistingToken(t *testing.T) {
	a := actor.New(testMachine(), game.Context{SessionToken: "tok"},
		actor.WithScheduler(testutil.NewManualScheduler()))
	a.Start()
	defer a.Stop()

	assert.Equal(t, "tok", a.Snapshot().SessionToken)
}

func TestSendAndDrainProcessInOrder(t *testing.T) {
	a := actor.New(testMachine(), game.Context{}, actor.WithScheduler(testutil.NewManualScheduler()))
	a.Start()
	defer a.Stop()

	var seen []machine.Config
	a.Subscribe(func(ctx game.Context) {
		seen = append(seen, a.Config())
	})

	require.True(t, a.Send(game.Keypress{}))
	a.Drain()

	assert.Equal(t, machine.Config{"main": "active"}, a.Config())
	require.NotEmpty(t, seen)
}

func TestDelayedActionFiresThroughScheduler(t *testing.T) {
	sched := testutil.NewManualScheduler()
	a := actor.New(testMachine(), game.Context{}, actor.WithScheduler(sched))
	a.Start()
	defer a.Stop()

	sched.Advance(4 * time.Second)
	a.Drain()
	assert.Equal(t, 0, a.Snapshot().CommandCount("tick"))

	sched.Advance(time.Second)
	a.Drain()
	assert.Equal(t, 1, a.Snapshot().CommandCount("tick"))
}

func TestExitingStateCancelsItsTimers(t *testing.T) {
	sched := testutil.NewManualScheduler()
	a := actor.New(testMachine(), game.Context{}, actor.WithScheduler(sched))
	a.Start()
	defer a.Stop()

	a.Send(game.Keypress{})
	a.Drain()
	require.Equal(t, machine.Config{"main": "active"}, a.Config())

	sched.Advance(10 * time.Second)
	a.Drain()
	assert.Equal(t, 0, a.Snapshot().CommandCount("tick"))
}

func TestNewAtResumesWithoutEntryActions(t *testing.T) {
	entered := machine.MustNew(&machine.Region{
		Name:    "main",
		Initial: "first",
		States: []*machine.State{
			{ID: "first", Entry: []machine.Action{
				func(ctx game.Context, _ game.Event) game.Context {
					return ctx.IncrementCommandCount("entered")
				},
			}},
			{ID: "second"},
		},
	})

	a := actor.NewAt(entered, machine.Config{"main": "second"},
		game.Context{SessionToken: "tok"},
		actor.WithScheduler(testutil.NewManualScheduler()))
	a.Start()
	defer a.Stop()

	assert.Equal(t, machine.Config{"main": "second"}, a.Config())
	assert.Equal(t, 0, a.Snapshot().CommandCount("entered"))
}

func TestStopRejectsFurtherSends(t *testing.T) {
	a := actor.New(testMachine(), game.Context{}, actor.WithScheduler(testutil.NewManualScheduler()))
	a.Start()
	a.Stop()

	assert.False(t, a.Send(game.Keypress{}))
}

func TestRunKeepsWaitingAfterStaleWakeup(t *testing.T) {
	a := actor.New(testMachine(), game.Context{}, actor.WithScheduler(testutil.NewManualScheduler()))
	a.Start()

	processed := make(chan struct{}, 8)
	a.Subscribe(func(game.Context) {
		processed <- struct{}{}
	})

	// Enqueue before Run starts: the loop drains the event directly, and
	// the buffered wakeup token arrives later with nothing pending. Run
	// must treat that as a spurious wakeup, not as a closed queue.
	require.True(t, a.Send(game.Keypress{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	select {
	case <-processed:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not processed")
	}

	select {
	case err := <-done:
		t.Fatalf("run returned early: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRunReturnsNilOnceStopped(t *testing.T) {
	a := actor.New(testMachine(), game.Context{}, actor.WithScheduler(testutil.NewManualScheduler()))
	a.Start()
	a.Stop()

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return for a stopped actor")
	}
}

func TestRunProcessesUntilCancelled(t *testing.T) {
	a := actor.New(testMachine(), game.Context{}, actor.WithScheduler(testutil.NewManualScheduler()))
	a.Start()

	processed := make(chan struct{}, 8)
	a.Subscribe(func(game.Context) {
		processed <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.True(t, a.Send(game.Keypress{}))
	select {
	case <-processed:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not processed")
	}
	assert.Equal(t, machine.Config{"main": "active"}, a.Config())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
