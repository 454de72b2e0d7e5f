package benchmark

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/brasiledu/BenchAESDES/internal/encryption"
)

type Runner struct {
	config       Config
	progressChan chan ProgressUpdate
}

func NewRunner(config Config) *Runner {
	return &Runner{config: config}
}

// SetProgressChannel directs per-run progress updates to ch. Used by the
// web server; the CLI relies on the progress bar instead.
func (r *Runner) SetProgressChannel(ch chan ProgressUpdate) {
	r.progressChan = ch
}

// Run executes the sweep over {algorithms} x {files} x {encrypt, decrypt},
// strictly sequentially, and returns one Result per combination. Any error
// aborts the whole run: nothing here is transient, so a failure means the
// remaining measurements would be worthless anyway.
func (r *Runner) Run() ([]Result, error) {
	sampler, err := NewSampler(r.config.Runs)
	if err != nil {
		return nil, err
	}
	if len(r.config.Algorithms) == 0 {
		return nil, fmt.Errorf("%w: no algorithms selected", ErrInvalidConfig)
	}

	variants := make([]encryption.Variant, 0, len(r.config.Algorithms))
	for _, name := range r.config.Algorithms {
		v, err := encryption.VariantByName(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		variants = append(variants, v)
	}

	divisor := r.config.MiBDivisor
	if divisor <= 0 {
		divisor = DefaultMiBDivisor
	}

	if len(r.config.Sizes) == 0 {
		return nil, fmt.Errorf("%w: no file sizes configured", ErrInvalidConfig)
	}
	dataDir := r.config.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	files, err := EnsureTestFiles(dataDir, r.config.Sizes)
	if err != nil {
		return nil, err
	}

	// Warm-ups included, every (variant, file) pair runs runs+1 encrypts
	// and runs+1 decrypts.
	total := len(variants) * len(files) * (sampler.Runs() + 1) * 2
	done := 0

	var results []Result
	for _, file := range files {
		if r.config.Verbose {
			fmt.Printf("Benchmarking %s...\n", file.Label)
		}
		for _, v := range variants {
			if r.config.Verbose {
				fmt.Printf("  - %s (%d runs)\n", v.Name, sampler.Runs())
			}
			rows, err := r.benchmarkPair(sampler, v, file, divisor, total, &done)
			if err != nil {
				return nil, fmt.Errorf("%s on %s: %w", v.Name, file.Label, err)
			}
			results = append(results, rows...)
		}
		if r.config.Verbose {
			reportOrdering(results, file.Label)
		}
	}

	return results, nil
}

// encRun carries one encryption's key/IV pairing and output forward to the
// decrypt phase.
type encRun struct {
	key        []byte
	iv         []byte
	ciphertext []byte
}

// benchmarkPair times encryption then decryption of one file under one
// variant. Key/IV generation and padding run inside the timed encrypt
// region, and unpadding inside the timed decrypt region: per-call setup
// cost is part of the measurement policy, which materially changes
// small-file numbers. Decrypt run i reuses exactly the key/IV produced by
// encrypt run i (the warm-ups pair up too).
func (r *Runner) benchmarkPair(sampler *Sampler, v encryption.Variant, file TestFile, divisor float64, total int, done *int) ([]Result, error) {
	var progress *progressbar.ProgressBar
	if r.config.ShowProgress {
		progress = progressbar.NewOptions((sampler.Runs()+1)*2,
			progressbar.OptionSetDescription(fmt.Sprintf("[%s %s]", v.Name, file.Label)),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)
	}
	defer func() { sampler.AfterRun = nil }()

	runs := make([]encRun, 0, sampler.Runs()+1)
	encOp := func() error {
		key, iv, err := encryption.GenerateKeyIV(v)
		if err != nil {
			return err
		}
		padded := encryption.Pad(file.Content, v.BlockSize)
		ciphertext, err := encryption.EncryptCBC(v, padded, key, iv)
		if err != nil {
			return err
		}
		runs = append(runs, encRun{key: key, iv: iv, ciphertext: ciphertext})
		return nil
	}

	sampler.AfterRun = func() error {
		r.step(progress, v, file, OpEncrypt, total, done)
		return nil
	}
	encMean, err := sampler.Measure(encOp)
	if err != nil {
		return nil, err
	}

	// The warm-up ciphertext fixes the padded length for decrypt throughput.
	ciphertextLen := len(runs[0].ciphertext)

	next := 0
	var lastPlaintext []byte
	decOp := func() error {
		run := runs[next]
		next++
		padded, err := encryption.DecryptCBC(v, run.ciphertext, run.key, run.iv)
		if err != nil {
			return err
		}
		lastPlaintext, err = encryption.Unpad(padded, v.BlockSize)
		return err
	}

	// The round-trip check runs after each timed region closes, so the
	// comparison cost never leaks into the decrypt numbers.
	sampler.AfterRun = func() error {
		r.step(progress, v, file, OpDecrypt, total, done)
		if !bytes.Equal(lastPlaintext, file.Content) {
			return fmt.Errorf("%w: %s round-trip on %s (run %d of %d)", ErrIntegrity, v.Name, file.Label, next, len(runs))
		}
		lastPlaintext = nil
		return nil
	}
	decMean, err := sampler.Measure(decOp)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return []Result{
		{
			Algorithm:   v.Name,
			File:        file.Label,
			Operation:   OpEncrypt,
			InputBytes:  file.Size,
			Runs:        sampler.Runs(),
			MeanTime:    encMean,
			Throughput:  Throughput(file.Size, encMean, divisor),
			CompletedAt: now,
		},
		{
			Algorithm:   v.Name,
			File:        file.Label,
			Operation:   OpDecrypt,
			InputBytes:  ciphertextLen,
			Runs:        sampler.Runs(),
			MeanTime:    decMean,
			Throughput:  Throughput(ciphertextLen, decMean, divisor),
			CompletedAt: now,
		},
	}, nil
}

func (r *Runner) step(progress *progressbar.ProgressBar, v encryption.Variant, file TestFile, op Operation, total int, done *int) {
	*done++
	if progress != nil {
		progress.Add(1)
	}
	if r.progressChan == nil {
		return
	}
	update := ProgressUpdate{
		Current:    *done,
		Total:      total,
		Percentage: float64(*done) / float64(total) * 100,
		Algorithm:  v.Name,
		File:       file.Label,
		Operation:  string(op),
	}
	select {
	case r.progressChan <- update:
	default:
	}
}

// reportOrdering logs when the usual AES-128 >= AES-256 >= DES encrypt
// throughput ordering does not hold for a file. Measurement noise can flip
// it, so this never fails the run.
func reportOrdering(results []Result, fileLabel string) {
	throughput := make(map[string]float64)
	for _, result := range results {
		if result.File == fileLabel && result.Operation == OpEncrypt {
			throughput[result.Algorithm] = result.Throughput
		}
	}
	expected := []string{"AES-128", "AES-256", "DES"}
	for i := 0; i < len(expected)-1; i++ {
		faster, slower := throughput[expected[i]], throughput[expected[i+1]]
		if faster == 0 || slower == 0 {
			continue
		}
		if faster < slower {
			log.Printf("note: %s encrypt throughput on %s (%.2f) below %s (%.2f); likely measurement noise",
				expected[i], fileLabel, faster, expected[i+1], slower)
		}
	}
}
