package save

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helios-os/helios/internal/machine"
	"github.com/helios-os/helios/internal/story"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func snapshotAt(state string, commander string) story.Snapshot {
	ctx := story.InitialContext().WithCommanderName(commander)
	cfg := machine.Config{
		story.RegionShipboard: story.StateOperations,
		story.RegionNarrative: state,
	}
	return story.Take(cfg, ctx)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, snapshotAt(story.StateOrientation, "Vega"))
	require.NoError(t, err)
	assert.Positive(t, id)

	snap, ok, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Vega", snap.Context.CommanderName)
	assert.Equal(t, story.StateOrientation, snap.State[story.RegionNarrative])
}

func TestLoadDefaultsToLatest(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, snapshotAt(story.StateOrientation, "first"))
	require.NoError(t, err)
	_, err = s.Save(ctx, snapshotAt(story.StateInvestigation, "second"))
	require.NoError(t, err)

	snap, ok, err := s.Load(ctx, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", snap.Context.CommanderName)
	assert.Equal(t, story.StateInvestigation, snap.State[story.RegionNarrative])
}

func TestLoadMissingIsNotAnError(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, ok, err := s.Load(ctx, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Save(ctx, snapshotAt(story.StateOrientation, "Vega"))
	require.NoError(t, err)

	_, ok, err = s.Load(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadingNeverDeletesSaves(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, snapshotAt(story.StateOrientation, "early"))
	require.NoError(t, err)
	_, err = s.Save(ctx, snapshotAt(story.StateLockdown, "late"))
	require.NoError(t, err)

	_, ok, err := s.Load(ctx, 0)
	require.NoError(t, err)
	require.True(t, ok)

	// The earlier save is still there and still loadable.
	snap, ok, err := s.Load(ctx, first)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "early", snap.Context.CommanderName)

	infos, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 2)
}

func TestListNewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	a, err := s.Save(ctx, snapshotAt(story.StateOrientation, "a"))
	require.NoError(t, err)
	b, err := s.Save(ctx, snapshotAt(story.StateOrientation, "b"))
	require.NoError(t, err)

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, b, infos[0].ID)
	assert.Equal(t, a, infos[1].ID)
}

func TestTamperedSnapshotFailsIntegrityCheck(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, snapshotAt(story.StateOrientation, "Vega"))
	require.NoError(t, err)

	_, err = s.db.Exec(`UPDATE saves SET snapshot = replace(snapshot, 'Vega', 'Eve') WHERE id = ?`, id)
	require.NoError(t, err)

	_, _, err = s.Load(ctx, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "integrity")
}

func TestSchemaVersionMismatchFails(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, snapshotAt(story.StateOrientation, "Vega"))
	require.NoError(t, err)

	_, err = s.db.Exec(`UPDATE saves SET schema_version = 99 WHERE id = ?`, id)
	require.NoError(t, err)

	_, _, err = s.Load(ctx, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version")
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.db")

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.Save(context.Background(), snapshotAt(story.StateOrientation, "Vega"))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	snap, ok, err := s2.Load(context.Background(), 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Vega", snap.Context.CommanderName)
}
