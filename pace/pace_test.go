package pace_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/pace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuman_Duration(t *testing.T) {
	t.Parallel()

	t.Run("stays within the delay range", func(t *testing.T) {
		t.Parallel()

		h := pace.NewHuman(1, 0)
		d := linkbot.Delay{Min: 10 * time.Millisecond, Max: 20 * time.Millisecond}

		for range 200 {
			got := h.Duration(d)
			assert.GreaterOrEqual(t, got, d.Min)
			assert.LessOrEqual(t, got, d.Max)
		}
	})

	t.Run("scales the range", func(t *testing.T) {
		t.Parallel()

		h := pace.NewHuman(2, 0)

		got := h.Duration(linkbot.Delay{Min: time.Second, Max: time.Second})

		assert.Equal(t, 2*time.Second, got)
	})

	t.Run("clamps tiny scales", func(t *testing.T) {
		t.Parallel()

		h := pace.NewHuman(0, 0)

		assert.InDelta(t, pace.MinScale, h.Scale(), 1e-9)
		assert.Equal(t, 100*time.Millisecond, h.Duration(linkbot.Delay{Min: time.Second, Max: time.Second}))
	})

	t.Run("swapped bounds", func(t *testing.T) {
		t.Parallel()

		h := pace.NewHuman(1, 0)

		got := h.Duration(linkbot.Delay{Min: 20 * time.Millisecond, Max: 10 * time.Millisecond})

		assert.GreaterOrEqual(t, got, 10*time.Millisecond)
		assert.LessOrEqual(t, got, 20*time.Millisecond)
	})
}

func TestHuman_Pause(t *testing.T) {
	t.Parallel()

	t.Run("waits at least the drawn duration", func(t *testing.T) {
		t.Parallel()

		h := pace.NewHuman(1, 0)

		start := time.Now()
		err := h.Pause(context.Background(), linkbot.Delay{Min: 20 * time.Millisecond, Max: 20 * time.Millisecond})

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("enforces the gap between pauses", func(t *testing.T) {
		t.Parallel()

		h := pace.NewHuman(1, 100*time.Millisecond)
		require.NoError(t, h.Pause(context.Background(), linkbot.Delay{}))

		start := time.Now()
		err := h.Pause(context.Background(), linkbot.Delay{})

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("returns when context is cancelled", func(t *testing.T) {
		t.Parallel()

		h := pace.NewHuman(1, 0)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := h.Pause(ctx, linkbot.Delay{Min: time.Minute, Max: time.Minute})

		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestRetry(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{time.Millisecond, time.Millisecond}

	t.Run("succeeds after failures", func(t *testing.T) {
		t.Parallel()

		var calls int
		var retried []int
		err := pace.Retry(context.Background(), delays, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("flaky")
			}
			return nil
		}, func(attempt int, _ error) { retried = append(retried, attempt) })

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{2, 3}, retried)
	})

	t.Run("returns the last error", func(t *testing.T) {
		t.Parallel()

		var calls int
		err := pace.Retry(context.Background(), delays, func(context.Context) error {
			calls++
			return errors.New("down")
		}, nil)

		require.EqualError(t, err, "down")
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var calls int
		err := pace.Retry(ctx, delays, func(context.Context) error {
			calls++
			cancel()
			return errors.New("down")
		}, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
