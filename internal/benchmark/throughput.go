package benchmark

import "time"

// Throughput converts a byte count processed in mean wall-clock time per
// run into MiB/s (or MB/s when a decimal divisor is configured).
func Throughput(bytes int, mean time.Duration, divisor float64) float64 {
	if mean <= 0 || divisor <= 0 {
		return 0
	}
	return (float64(bytes) / divisor) / mean.Seconds()
}
