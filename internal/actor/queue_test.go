package actor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helios-os/helios/internal/game"
)

func TestEventQueueFIFO(t *testing.T) {
	q := newEventQueue()

	require.True(t, q.Enqueue(game.Keypress{Key: "a"}))
	require.True(t, q.Enqueue(game.Keypress{Key: "b"}))
	require.True(t, q.Enqueue(game.Keypress{Key: "c"}))
	assert.Equal(t, 3, q.Len())

	for _, want := range []string{"a", "b", "c"} {
		ev, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, ev.(game.Keypress).Key)
	}
	_, ok := q.TryDequeue()
	assert.False(t, ok)
}

func TestEventQueueCloseRejectsEnqueue(t *testing.T) {
	q := newEventQueue()
	require.True(t, q.Enqueue(game.UpdateDiagnostics{}))

	q.Close()
	assert.False(t, q.Enqueue(game.UpdateDiagnostics{}))

	// Already-queued events stay dequeuable after close.
	_, ok := q.TryDequeue()
	assert.True(t, ok)

	// Close is idempotent.
	q.Close()
}

func TestEventQueueCloseWakesWaiters(t *testing.T) {
	q := newEventQueue()

	done := make(chan struct{})
	go func() {
		<-q.Wait()
		close(done)
	}()

	q.Close()
	<-done
}

func TestEventQueueConcurrentEnqueue(t *testing.T) {
	q := newEventQueue()

	const senders, each = 8, 100
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				q.Enqueue(game.UpdateDiagnostics{})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, senders*each, q.Len())
}
