package benchmark

import (
	"errors"
	"time"
)

var (
	// ErrInvalidConfig reports a configuration that would make the sweep
	// meaningless: no runs, no algorithms, no files.
	ErrInvalidConfig = errors.New("invalid benchmark configuration")

	// ErrIntegrity reports a decrypt that failed to reproduce the original
	// plaintext. It indicates a correctness bug, never a transient fault,
	// so it aborts the whole run.
	ErrIntegrity = errors.New("decrypted output does not match original plaintext")
)

// DefaultRuns is the number of timed runs per (algorithm, file, operation).
const DefaultRuns = 10

// DefaultMiBDivisor converts bytes to MiB. A decimal deployment can swap
// in 1e6 to report MB/s instead.
const DefaultMiBDivisor = 1 << 20

// FileSize names one benchmark payload.
type FileSize struct {
	Label string `json:"label" yaml:"label"`
	Bytes int    `json:"bytes" yaml:"bytes"`
}

// DefaultSizes is the shipped size sweep.
var DefaultSizes = []FileSize{
	{Label: "1KB", Bytes: 1 * 1024},
	{Label: "1MB", Bytes: 1 * 1024 * 1024},
	{Label: "10MB", Bytes: 10 * 1024 * 1024},
}

// TestFile is a payload read fully into memory once and shared read-only
// by every sample against it.
type TestFile struct {
	Label   string
	Size    int
	Content []byte
}

type Config struct {
	Algorithms   []string   `json:"algorithms"`
	Sizes        []FileSize `json:"sizes"`
	Runs         int        `json:"runs"`
	MiBDivisor   float64    `json:"mib_divisor"`
	DataDir      string     `json:"data_dir"`
	ShowProgress bool       `json:"show_progress"`
	Verbose      bool       `json:"verbose"`
}

type Operation string

const (
	OpEncrypt Operation = "encrypt"
	OpDecrypt Operation = "decrypt"
)

// Result is one benchmarked (algorithm, file, operation) row. Encrypt rows
// carry the plaintext byte count, decrypt rows the ciphertext byte count.
type Result struct {
	Algorithm   string        `json:"algorithm"`
	File        string        `json:"file"`
	Operation   Operation     `json:"operation"`
	InputBytes  int           `json:"input_bytes"`
	Runs        int           `json:"runs"`
	MeanTime    time.Duration `json:"mean_time"`
	Throughput  float64       `json:"throughput_mib_s"`
	CompletedAt time.Time     `json:"completed_at"`
}

// ProgressUpdate is published after each run, warm-ups included, for
// consumers like the web server's websocket stream.
type ProgressUpdate struct {
	Current    int     `json:"current"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Algorithm  string  `json:"algorithm"`
	File       string  `json:"file"`
	Operation  string  `json:"operation"`
}
