package benchmark

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSamplerRejectsNonPositiveRuns(t *testing.T) {
	for _, runs := range []int{0, -1, -10} {
		_, err := NewSampler(runs)
		require.ErrorIs(t, err, ErrInvalidConfig, "runs=%d", runs)
	}

	s, err := NewSampler(1)
	require.NoError(t, err)
	require.Equal(t, 1, s.Runs())
}

func TestMeasureDiscardsWarmUp(t *testing.T) {
	s, err := NewSampler(5)
	require.NoError(t, err)

	calls := 0
	mean, err := s.Measure(func() error {
		calls++
		return nil
	})
	require.NoError(t, err)

	// One warm-up plus five timed runs.
	require.Equal(t, 6, calls)
	require.GreaterOrEqual(t, mean.Nanoseconds(), int64(0))
}

func TestMeasurePropagatesOperationError(t *testing.T) {
	s, err := NewSampler(3)
	require.NoError(t, err)

	boom := errors.New("boom")

	// Failure on the warm-up.
	_, err = s.Measure(func() error { return boom })
	require.ErrorIs(t, err, boom)

	// Failure on a timed run.
	calls := 0
	_, err = s.Measure(func() error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestMeasureAfterRunHook(t *testing.T) {
	s, err := NewSampler(2)
	require.NoError(t, err)

	hooks := 0
	s.AfterRun = func() error {
		hooks++
		return nil
	}

	_, err = s.Measure(func() error { return nil })
	require.NoError(t, err)
	require.Equal(t, 3, hooks, "hook fires for the warm-up and every timed run")

	failed := errors.New("integrity check failed")
	s.AfterRun = func() error { return failed }
	_, err = s.Measure(func() error { return nil })
	require.ErrorIs(t, err, failed)
}
