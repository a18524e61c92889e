package ratelimiter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketAllow(t *testing.T) {
	t.Run("allows requests within the limit", func(t *testing.T) {
		b := &bucket{
			tokens:     10,
			capacity:   10,
			rate:       1,
			lastRefill: time.Now(),
		}

		assert.True(t, b.allow())
		assert.Equal(t, 9.0, b.tokens)
	})

	t.Run("denies when tokens are depleted", func(t *testing.T) {
		b := &bucket{
			tokens:     0,
			capacity:   10,
			rate:       1,
			lastRefill: time.Now(),
		}

		assert.False(t, b.allow())
	})

	t.Run("refills tokens over time", func(t *testing.T) {
		b := &bucket{
			tokens:     0,
			capacity:   10,
			rate:       1,
			lastRefill: time.Now().Add(-2 * time.Second),
		}

		assert.True(t, b.allow())
		assert.InDelta(t, 0.0, b.tokens, 1.1) // Account for slight time discrepancies
	})

	t.Run("does not exceed capacity", func(t *testing.T) {
		b := &bucket{
			tokens:     9,
			capacity:   10,
			rate:       1,
			lastRefill: time.Now().Add(-2 * time.Second),
		}

		b.allow()
		assert.Equal(t, float64(9), b.tokens)
	})
}

func TestGetBucket(t *testing.T) {
	t.Run("creates a new bucket for a new identity", func(t *testing.T) {
		l := New(1, 10, time.Minute)
		b := l.getBucket("ip-1.2.3.4")

		require.NotNil(t, b)
		assert.Equal(t, 10.0, b.tokens)
		assert.Equal(t, "ip-1.2.3.4", b.identity)
	})

	t.Run("returns the existing bucket for the same identity", func(t *testing.T) {
		l := New(1, 10, time.Minute)
		b1 := l.getBucket("ip-1.2.3.4")
		b2 := l.getBucket("ip-1.2.3.4")

		assert.Same(t, b1, b2)
	})

	t.Run("concurrent creation makes exactly one bucket", func(t *testing.T) {
		l := New(1, 10, time.Minute)
		wg := sync.WaitGroup{}

		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.getBucket("user-1")
			}()
		}
		wg.Wait()

		l.mu.RLock()
		defer l.mu.RUnlock()
		require.NotNil(t, l.buckets["user-1"])
		assert.Equal(t, 1, len(l.buckets))
	})
}

func TestGetBucketConcurrentAccessSameIdentity(t *testing.T) {
	// Exercises the read-path timer reset from many goroutines at once.
	// Run with -race: the timer swap must happen under the bucket lock.
	l := New(1000, 1000, time.Minute)
	wg := sync.WaitGroup{}

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Allow("user-1")
			}
		}()
	}
	wg.Wait()

	l.mu.RLock()
	defer l.mu.RUnlock()
	assert.Equal(t, 1, len(l.buckets))
}

func TestLimiterAllow(t *testing.T) {
	l := New(1, 2, time.Minute) // 1 rps, capacity 2

	assert.True(t, l.Allow("user-1"))
	assert.True(t, l.Allow("user-1"))
	assert.False(t, l.Allow("user-1")) // Depleted

	assert.True(t, l.Allow("user-2")) // Separate bucket
}

func TestExpiration(t *testing.T) {
	t.Run("removes idle bucket after expiration", func(t *testing.T) {
		l := New(1, 10, 1*time.Millisecond)
		_ = l.getBucket("user-1")

		require.Eventually(t, func() bool {
			l.mu.RLock()
			defer l.mu.RUnlock()
			_, exists := l.buckets["user-1"]
			return !exists
		}, 100*time.Millisecond, 10*time.Millisecond)
	})

	t.Run("access resets the expiration timer", func(t *testing.T) {
		l := New(1, 10, 50*time.Millisecond)
		l.Allow("user-1")

		time.Sleep(30 * time.Millisecond)
		l.Allow("user-1")

		time.Sleep(30 * time.Millisecond) // 60ms since creation, under 50ms since last access

		l.mu.RLock()
		_, exists := l.buckets["user-1"]
		l.mu.RUnlock()
		assert.True(t, exists, "bucket should survive because the timer was reset")
	})
}

func TestStop(t *testing.T) {
	l := New(1, 10, time.Minute)
	l.getBucket("user-1")
	l.getBucket("user-2")

	l.Stop()

	assert.False(t, l.buckets["user-1"].timer.Stop())
	assert.False(t, l.buckets["user-2"].timer.Stop())
}
