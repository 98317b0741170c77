package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failN records n failures and returns the outcome of the last one.
func failN(b *Breaker, n int) (bool, StateChange) {
	var (
		useFallback bool
		change      StateChange
	)
	for range n {
		useFallback, change = b.RecordFailure()
	}
	return useFallback, change
}

func succeedN(b *Breaker, n int) (bool, StateChange) {
	var (
		usePrimary bool
		change     StateChange
	)
	for range n {
		usePrimary, change = b.RecordSuccess()
	}
	return usePrimary, change
}

func TestNewBreakerDefaults(t *testing.T) {
	b := New("ratelimit-redis")

	assert.Equal(t, "ratelimit-redis", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())

	useFallback, _ := failN(b, 4)
	assert.False(t, useFallback, "default threshold is five failures")
	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.Equal(t, "open", b.State().String())
}

func TestNonPositiveThresholdsKeepDefaults(t *testing.T) {
	b := New("ratelimit-redis", WithFailureThreshold(0), WithSuccessThreshold(-1))

	failN(b, 4)
	assert.False(t, b.IsOpen())
	failN(b, 1)
	require.True(t, b.IsOpen())

	succeedN(b, 2)
	assert.True(t, b.IsOpen())
	succeedN(b, 1)
	assert.False(t, b.IsOpen())
}

func TestBreakerTransitions(t *testing.T) {
	t.Run("opens on the threshold failure only", func(t *testing.T) {
		b := New("primary", WithFailureThreshold(3))

		useFallback, change := failN(b, 2)
		assert.False(t, useFallback)
		assert.False(t, change.Opened)

		useFallback, change = b.RecordFailure()
		assert.True(t, useFallback)
		assert.True(t, change.Opened)

		useFallback, change = b.RecordFailure()
		assert.True(t, useFallback, "still open")
		assert.False(t, change.Opened, "no repeated transition")
	})

	t.Run("closes after consecutive successes", func(t *testing.T) {
		b := New("primary", WithFailureThreshold(1), WithSuccessThreshold(2))
		failN(b, 1)

		usePrimary, change := b.RecordSuccess()
		assert.False(t, usePrimary)
		assert.False(t, change.Closed)

		usePrimary, change = b.RecordSuccess()
		assert.True(t, usePrimary)
		assert.True(t, change.Closed)
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("a success while closed clears the failure streak", func(t *testing.T) {
		b := New("primary", WithFailureThreshold(3))
		failN(b, 2)
		b.RecordSuccess()
		failN(b, 2)
		assert.False(t, b.IsOpen())
		failN(b, 1)
		assert.True(t, b.IsOpen())
	})

	t.Run("a failure while open restarts the recovery streak", func(t *testing.T) {
		b := New("primary", WithFailureThreshold(1), WithSuccessThreshold(3))
		failN(b, 1)
		succeedN(b, 2)
		b.RecordFailure()
		succeedN(b, 2)
		assert.True(t, b.IsOpen())
		succeedN(b, 1)
		assert.False(t, b.IsOpen())
	})

	t.Run("reset closes immediately", func(t *testing.T) {
		b := New("primary", WithFailureThreshold(1))
		failN(b, 1)
		b.Reset()
		assert.Equal(t, StateClosed, b.State())

		usePrimary, change := b.RecordSuccess()
		assert.True(t, usePrimary)
		assert.False(t, change.Closed)
	})
}

func TestBreakerConcurrentRecording(t *testing.T) {
	b := New("primary", WithFailureThreshold(50))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		opened int
	)
	for range 100 {
		wg.Go(func() {
			if _, change := b.RecordFailure(); change.Opened {
				mu.Lock()
				opened++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	assert.True(t, b.IsOpen())
	assert.Equal(t, 1, opened, "exactly one caller observes the transition")
}
