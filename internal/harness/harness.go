// Package harness executes scripted play-through scenarios against the
// real progression engine.
//
// A scenario drives an actor through terminal inputs, raw events and
// manual clock advances, then asserts on the final game state and the
// accumulated terminal transcript. The actor runs with a manual
// scheduler, so delayed narrative actions fire exactly when a scenario
// advances the clock; runs are fully deterministic and transcripts are
// suitable for golden-file comparison.
package harness

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/helios-os/helios/internal/actor"
	"github.com/helios-os/helios/internal/command"
	"github.com/helios-os/helios/internal/game"
	"github.com/helios-os/helios/internal/story"
	"github.com/helios-os/helios/internal/testutil"
)

// Result reports one scenario run.
type Result struct {
	Passed     bool
	Failures   []string
	Transcript []byte
}

// Harness drives one actor through a scenario script.
type Harness struct {
	actor      *actor.Actor
	sched      *testutil.ManualScheduler
	dialog     *command.Dialog
	transcript bytes.Buffer
}

// Run executes a scenario from a fresh initial context and returns the
// result. Each run owns its own actor; scenarios never share state.
func Run(scenario *Scenario) (*Result, error) {
	sched := testutil.NewManualScheduler()
	h := &Harness{
		sched: sched,
		actor: actor.New(story.NewMachine(), story.InitialContext(),
			actor.WithScheduler(sched),
			actor.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		),
	}
	h.actor.Start()
	h.actor.Drain()

	for i, step := range scenario.Steps {
		if err := h.execute(step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	result := &Result{Passed: true, Transcript: h.transcript.Bytes()}
	snapshot := h.actor.Snapshot()
	cfg := h.actor.Config()
	for i, a := range scenario.Assertions {
		if failure := h.check(a, snapshot, cfg); failure != "" {
			result.Passed = false
			result.Failures = append(result.Failures, fmt.Sprintf("assertions[%d]: %s", i, failure))
		}
	}
	h.actor.Stop()
	return result, nil
}

func (h *Harness) execute(step Step) error {
	switch {
	case step.Input != "":
		h.input(step.Input)
	case step.Event != "":
		ev, err := buildEvent(step)
		if err != nil {
			return err
		}
		fmt.Fprintf(&h.transcript, "~ %s\n", step.Event)
		h.actor.Send(ev)
		h.actor.Drain()
	case step.Advance != "":
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return fmt.Errorf("bad advance duration: %w", err)
		}
		fmt.Fprintf(&h.transcript, "~ advance %s\n", step.Advance)
		h.sched.Advance(d)
		h.actor.Drain()
	}
	return nil
}

// input processes one terminal line under the same contract the
// interactive session uses: keypress first, then dialog continuation or
// command execution, then the execution event and any handler-requested
// events.
func (h *Harness) input(line string) {
	fmt.Fprintf(&h.transcript, "> %s\n", line)

	h.actor.Send(game.Keypress{Key: line})
	h.actor.Drain()

	if d := h.dialog; d != nil {
		h.dialog = nil
		h.finish(d.Continue(line), "")
		return
	}

	res, name, recognized := command.Execute(line, h.actor.Snapshot())
	h.present(res)
	if !recognized {
		return
	}
	if res != nil && res.Dialog != nil {
		h.dialog = res.Dialog
	}
	h.dispatch(res, name)
}

func (h *Harness) finish(res *command.Result, name string) {
	h.present(res)
	h.dispatch(res, name)
}

func (h *Harness) present(res *command.Result) {
	if res == nil {
		fmt.Fprintln(&h.transcript, "[clear]")
		return
	}
	for _, line := range res.Lines {
		fmt.Fprintln(&h.transcript, line.Text)
	}
	if res.Dialog != nil {
		fmt.Fprintln(&h.transcript, res.Dialog.Prompt)
	}
}

func (h *Harness) dispatch(res *command.Result, name string) {
	if res == nil {
		return
	}
	if name != "" {
		h.actor.Send(game.CommandExecuted{Command: name})
	}
	for _, ev := range res.Events {
		h.actor.Send(ev)
	}
	h.actor.Drain()
}

// buildEvent maps a step's event name and payload fields to a game
// event.
func buildEvent(step Step) (game.Event, error) {
	switch game.EventType(step.Event) {
	case game.EventStartGame:
		return game.StartGame{CommanderName: step.Commander}, nil
	case game.EventChangeView:
		return game.ChangeView{View: game.View(step.View)}, nil
	case game.EventMessageOpened:
		return game.MessageOpened{MessageID: step.MessageID}, nil
	case game.EventAddMessage:
		if step.Message == nil {
			return nil, fmt.Errorf("%s requires message", step.Event)
		}
		return game.AddMessage{Message: *step.Message}, nil
	case game.EventAddLog:
		if step.Log == nil {
			return nil, fmt.Errorf("%s requires log", step.Event)
		}
		return game.AddLog{Log: *step.Log}, nil
	case game.EventAIChatAddMessage:
		if step.Chat == nil {
			return nil, fmt.Errorf("%s requires chat", step.Event)
		}
		return game.AIChatAddMessage{Message: *step.Chat}, nil
	case game.EventAddObjective:
		if step.Objective == nil {
			return nil, fmt.Errorf("%s requires objective", step.Event)
		}
		return game.AddObjective{Objective: *step.Objective}, nil
	case game.EventUpdateObjective:
		if step.ObjectiveID == "" || step.Status == "" {
			return nil, fmt.Errorf("%s requires objective_id and status", step.Event)
		}
		return game.UpdateObjective{ObjectiveID: step.ObjectiveID, Status: game.ObjectiveStatus(step.Status)}, nil
	case game.EventCompleteObjective:
		if step.ObjectiveID == "" {
			return nil, fmt.Errorf("%s requires objective_id", step.Event)
		}
		return game.CompleteObjective{ObjectiveID: step.ObjectiveID}, nil
	case game.EventUpdateDiagnostics:
		return game.UpdateDiagnostics{}, nil
	case game.EventUpdateSystemStatus:
		return game.UpdateSystemStatus{
			SystemName: step.System,
			Status:     game.SystemStatus(step.Status),
			Integrity:  step.Integrity,
		}, nil
	case game.EventUpdateSystemIntegrity:
		if step.Integrity == nil {
			return nil, fmt.Errorf("%s requires integrity", step.Event)
		}
		return game.UpdateSystemIntegrity{SystemName: step.System, Integrity: *step.Integrity}, nil
	case game.EventStartRepair:
		return game.StartRepair{SystemName: step.System, RepairType: game.RepairType(step.RepairType)}, nil
	case game.EventCompleteRepair:
		return game.CompleteRepair{SystemName: step.System}, nil
	case game.EventRecoverEnergy:
		return game.RecoverEnergy{Amount: step.Amount}, nil
	case game.EventFinishedIntroSequence:
		return game.FinishedIntroSequence{}, nil
	case game.EventKeypress:
		return game.Keypress{}, nil
	default:
		return nil, fmt.Errorf("unsupported event %q", step.Event)
	}
}

// check evaluates one assertion; empty string means pass.
func (h *Harness) check(a Assertion, ctx game.Context, cfg map[string]string) string {
	switch a.Type {
	case AssertState:
		if got := cfg[a.Region]; got != a.State {
			return fmt.Sprintf("region %s in state %q, want %q", a.Region, got, a.State)
		}
	case AssertObjective:
		if got := game.ObjectiveStatusOf(ctx.Objectives, a.ID); string(got) != a.Status {
			return fmt.Sprintf("objective %s status %q, want %q", a.ID, got, a.Status)
		}
	case AssertNotification:
		if got := ctx.ViewNotifications[game.View(a.View)]; got != *a.On {
			return fmt.Sprintf("notification %s = %v, want %v", a.View, got, *a.On)
		}
	case AssertCommander:
		if ctx.CommanderName != a.Name {
			return fmt.Sprintf("commander %q, want %q", ctx.CommanderName, a.Name)
		}
	case AssertCommandAvailable:
		got := ctx.AvailableCommands != nil && ctx.AvailableCommands.Has(a.Name)
		if got != *a.Available {
			return fmt.Sprintf("command %q available = %v, want %v", a.Name, got, *a.Available)
		}
	case AssertCommandCount:
		if got := ctx.CommandCount(a.Name); got != *a.Count {
			return fmt.Sprintf("command %q count %d, want %d", a.Name, got, *a.Count)
		}
	case AssertSystem:
		sys, ok := ctx.Systems[a.System]
		if !ok {
			return fmt.Sprintf("unknown system %q", a.System)
		}
		if string(sys.Status) != a.Status {
			return fmt.Sprintf("system %s status %q, want %q", a.System, sys.Status, a.Status)
		}
		if a.Integrity != nil && sys.Integrity != *a.Integrity {
			return fmt.Sprintf("system %s integrity %.1f, want %.1f", a.System, sys.Integrity, *a.Integrity)
		}
	case AssertResources:
		if a.Energy != nil && ctx.Repair.Energy != *a.Energy {
			return fmt.Sprintf("energy %.1f, want %.1f", ctx.Repair.Energy, *a.Energy)
		}
		if a.Materials != nil && ctx.Repair.Materials != *a.Materials {
			return fmt.Sprintf("materials %d, want %d", ctx.Repair.Materials, *a.Materials)
		}
	case AssertUnread:
		if got := game.UnreadCount(ctx.Messages, ctx.MessageViews); got != *a.Count {
			return fmt.Sprintf("unread count %d, want %d", got, *a.Count)
		}
	case AssertOutputContains:
		if !strings.Contains(h.transcript.String(), a.Text) {
			return fmt.Sprintf("transcript does not contain %q", a.Text)
		}
	}
	return ""
}
