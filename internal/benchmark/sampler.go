package benchmark

import (
	"fmt"
	"time"
)

// Sampler times an operation over a fixed number of runs and reports the
// arithmetic mean. The first invocation is a discarded warm-up: its side
// effects happen (e.g. its ciphertext can be inspected) but its duration
// is not recorded.
type Sampler struct {
	runs int

	// AfterRun, when set, fires after every invocation of the measured
	// operation, warm-up included, outside the timed region. Returning an
	// error aborts the measurement.
	AfterRun func() error
}

func NewSampler(runs int) (*Sampler, error) {
	if runs < 1 {
		return nil, fmt.Errorf("%w: runs must be >= 1, got %d", ErrInvalidConfig, runs)
	}
	return &Sampler{runs: runs}, nil
}

func (s *Sampler) Runs() int { return s.runs }

// Measure runs op once unrecorded, then s.runs more times, and returns the
// mean wall-clock duration of the timed runs. Everything op does is inside
// the timed region, so per-call setup cost counts toward the measurement.
func (s *Sampler) Measure(op func() error) (time.Duration, error) {
	if err := op(); err != nil {
		return 0, fmt.Errorf("warm-up run: %w", err)
	}
	if err := s.afterRun(); err != nil {
		return 0, err
	}

	var total time.Duration
	for i := 0; i < s.runs; i++ {
		start := time.Now()
		err := op()
		elapsed := time.Since(start)
		if err != nil {
			return 0, fmt.Errorf("run %d: %w", i+1, err)
		}
		total += elapsed

		if err := s.afterRun(); err != nil {
			return 0, err
		}
	}

	return total / time.Duration(s.runs), nil
}

func (s *Sampler) afterRun() error {
	if s.AfterRun == nil {
		return nil
	}
	return s.AfterRun()
}
