package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helios-os/helios/internal/config"
	"github.com/helios-os/helios/internal/save"
)

func testSession(t *testing.T) *session {
	t.Helper()
	store, err := save.Open(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// A long tick keeps the background ticker quiet during the test.
	return newSession(store, logger, config.Settings{TickInterval: time.Hour})
}

func runScript(t *testing.T, sess *session, script string) string {
	t.Helper()
	var out bytes.Buffer
	err := sess.run(context.Background(), strings.NewReader(script), &out)
	require.NoError(t, err)
	return out.String()
}

func TestSessionBootsAndQuits(t *testing.T) {
	out := runScript(t, testSession(t), "/quit\n")
	assert.Contains(t, out, "HELIOS SHIP OPERATING SYSTEM")
	assert.Contains(t, out, "> ")
}

func TestSessionUnknownCommandDuringIntro(t *testing.T) {
	// The intro command set is empty; any command is unknown, but the
	// input still skips the boot animation.
	out := runScript(t, testSession(t), "whoami\n/quit\n")
	assert.Contains(t, out, "Error: unknown command: whoami")
	assert.Contains(t, out, "Type 'help' for a list of available commands.")
}

func TestSessionSaveListQuit(t *testing.T) {
	out := runScript(t, testSession(t), "/save\n/saves\n/quit\n")
	assert.Contains(t, out, "Session saved as #1.")
	assert.Contains(t, out, "#1")
}

func TestSessionLoadMissingKeepsSession(t *testing.T) {
	out := runScript(t, testSession(t), "/load 42\n/quit\n")
	assert.Contains(t, out, "No such save; session unchanged.")
}

func TestSessionLoadRestores(t *testing.T) {
	sess := testSession(t)
	out := runScript(t, sess, "/save\n/load 1\n/quit\n")
	assert.Contains(t, out, "Session restored.")
}

func TestSessionUnknownMetaCommand(t *testing.T) {
	out := runScript(t, testSession(t), "/warp\n/quit\n")
	assert.Contains(t, out, "Unknown control sequence /warp.")
}
