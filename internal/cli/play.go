package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/helios-os/helios/internal/actor"
	"github.com/helios-os/helios/internal/command"
	"github.com/helios-os/helios/internal/config"
	"github.com/helios-os/helios/internal/content"
	"github.com/helios-os/helios/internal/game"
	"github.com/helios-os/helios/internal/machine"
	"github.com/helios-os/helios/internal/save"
	"github.com/helios-os/helios/internal/story"
)

// errQuit unwinds the session loop on /quit.
var errQuit = errors.New("quit")

// NewPlayCommand creates the interactive bridge session command.
func NewPlayCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "start an interactive bridge session",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(opts)
			if err != nil {
				return err
			}
			logger, err := newLogger(opts, settings)
			if err != nil {
				return err
			}

			store, err := save.Open(settings.SavePath)
			if err != nil {
				return err
			}
			defer store.Close()

			sess := newSession(store, logger, settings)
			return sess.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// pendingDialog remembers an open one-shot prompt and the command that
// opened it.
type pendingDialog struct {
	name   string
	dialog *command.Dialog
}

// session owns one interactive game: the actor, its save store, and the
// terminal pump. The session goroutine is the only one that drains the
// actor; timers and the background ticker just enqueue.
type session struct {
	machine  *machine.Machine
	actor    *actor.Actor
	store    *save.Store
	logger   *slog.Logger
	settings config.Settings
	dialog   *pendingDialog
}

func newSession(store *save.Store, logger *slog.Logger, settings config.Settings) *session {
	m := story.NewMachine()
	return &session{
		machine:  m,
		actor:    actor.New(m, story.InitialContext(), actor.WithLogger(logger)),
		store:    store,
		logger:   logger,
		settings: settings,
	}
}

func (s *session) run(ctx context.Context, in io.Reader, out io.Writer) error {
	s.actor.Start()
	s.actor.Drain()

	stop := make(chan struct{})
	defer close(stop)
	go s.tick(stop)

	for _, line := range content.BootLines() {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, "Press ENTER to continue. Type 'help' for commands, /quit to exit.")

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			s.actor.Stop()
			return err
		}
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		if err := s.handleLine(ctx, out, scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}

	s.actor.Stop()
	return scanner.Err()
}

// tick enqueues the periodic housekeeping events. They are processed by
// the session goroutine at its next pump.
func (s *session) tick(stop <-chan struct{}) {
	ticker := time.NewTicker(s.settings.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.actor.Send(game.UpdateDiagnostics{})
			s.actor.Send(game.RecoverEnergy{})
		}
	}
}

func (s *session) handleLine(ctx context.Context, out io.Writer, raw string) error {
	line := strings.TrimSpace(raw)

	// Any input doubles as a keypress: it lets the player skip the boot
	// animation. Outside the intro the event is a silent no-op.
	s.actor.Send(game.Keypress{Key: line})
	s.completeDueRepairs()
	s.actor.Drain()

	if line == "" {
		return nil
	}
	if strings.HasPrefix(line, "/") {
		return s.handleMeta(ctx, out, line)
	}

	if d := s.dialog; d != nil {
		s.dialog = nil
		res := d.dialog.Continue(line)
		s.present(out, res)
		s.dispatch(res, "")
		return nil
	}

	res, name, recognized := command.Execute(line, s.actor.Snapshot())
	s.present(out, res)
	if !recognized {
		return nil
	}
	if res != nil && res.Dialog != nil {
		s.dialog = &pendingDialog{name: name, dialog: res.Dialog}
	}
	s.dispatch(res, name)
	return nil
}

// present renders a result. A nil result is a transcript clear.
func (s *session) present(out io.Writer, res *command.Result) {
	if res == nil {
		fmt.Fprint(out, "\x1b[2J\x1b[H")
		return
	}
	for _, line := range res.Lines {
		fmt.Fprintln(out, line.Text)
	}
	if res.Dialog != nil {
		fmt.Fprintln(out, res.Dialog.Prompt)
	}
}

// dispatch feeds a result back into the engine: the execution event for
// a recognized, non-nil result, then any events the handler requested.
// Dialog continuations pass an empty name; their command was already
// counted when the dialog opened.
func (s *session) dispatch(res *command.Result, name string) {
	if res == nil {
		return
	}
	if name != "" {
		s.actor.Send(game.CommandExecuted{Command: name})
	}
	for _, ev := range res.Events {
		s.actor.Send(ev)
	}
	s.actor.Drain()
}

// completeDueRepairs turns elapsed repair jobs into completion events.
func (s *session) completeDueRepairs() {
	for _, name := range s.actor.Snapshot().RepairDue() {
		s.actor.Send(game.CompleteRepair{SystemName: name})
	}
}

func (s *session) handleMeta(ctx context.Context, out io.Writer, line string) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return errQuit

	case "/save":
		snap := story.Take(s.actor.Config(), s.actor.Snapshot())
		id, err := s.store.Save(ctx, snap)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Session saved as #%d.\n", id)
		return nil

	case "/load":
		var id int64
		if len(fields) > 1 {
			parsed, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return fmt.Errorf("usage: /load [id]")
			}
			id = parsed
		}
		snap, ok, err := s.store.Load(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "No such save; session unchanged.")
			return nil
		}
		cfg, gctx, err := story.Restore(snap)
		if err != nil {
			return err
		}
		s.actor.Stop()
		s.dialog = nil
		s.actor = actor.NewAt(s.machine, cfg, gctx, actor.WithLogger(s.logger))
		s.actor.Start()
		s.actor.Drain()
		fmt.Fprintln(out, "Session restored.")
		return nil

	case "/saves":
		return printSaves(ctx, out, s.store)

	default:
		fmt.Fprintf(out, "Unknown control sequence %s. Try /save, /load, /saves, /quit.\n", fields[0])
		return nil
	}
}
