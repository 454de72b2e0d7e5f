package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brasiledu/BenchAESDES/internal/benchmark"
)

func TestDefaultSettings(t *testing.T) {
	settings := Default()

	require.Equal(t, benchmark.DefaultRuns, settings.Runs)
	require.Equal(t, float64(benchmark.DefaultMiBDivisor), settings.MiBDivisor)
	require.Equal(t, []string{"AES-128", "AES-256", "DES"}, settings.Algorithms)
	require.Equal(t, benchmark.DefaultSizes, settings.Sizes)
}

func TestParseSizeLabel(t *testing.T) {
	cases := []struct {
		label string
		bytes int
	}{
		{"1KB", 1024},
		{"1MB", 1024 * 1024},
		{"10MB", 10 * 1024 * 1024},
		{"1GB", 1024 * 1024 * 1024},
		{"512B", 512},
		{" 2kb ", 2048},
	}

	for _, tc := range cases {
		size, err := ParseSizeLabel(tc.label)
		require.NoError(t, err, tc.label)
		require.Equal(t, tc.bytes, size.Bytes, tc.label)
	}

	for _, label := range []string{"", "KB", "1XB", "0KB", "abc"} {
		_, err := ParseSizeLabel(label)
		require.ErrorIs(t, err, benchmark.ErrInvalidConfig, label)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	content := `
runs: 5
algorithms:
  - aes-128
  - des
sizes:
  - label: 1KB
  - label: tiny
    bytes: 64
mib_divisor: 1000000
data_dir: /tmp/payloads
results_dir: /tmp/reports
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	settings, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 5, settings.Runs)
	require.Equal(t, []string{"aes-128", "des"}, settings.Algorithms)
	require.Equal(t, []benchmark.FileSize{
		{Label: "1KB", Bytes: 1024},
		{Label: "tiny", Bytes: 64},
	}, settings.Sizes)
	require.Equal(t, 1e6, settings.MiBDivisor)
	require.Equal(t, "/tmp/payloads", settings.DataDir)
	require.Equal(t, "/tmp/reports", settings.ResultsDir)
}

func TestLoadConfigFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runs: 3\n"), 0644))

	settings, err := Load(path)
	require.NoError(t, err)

	// Unset fields keep their defaults.
	require.Equal(t, 3, settings.Runs)
	require.Equal(t, benchmark.DefaultSizes, settings.Sizes)
	require.Equal(t, "data", settings.DataDir)
}

func TestLoadConfigFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "bad_runs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runs: -2\n"), 0644))
	_, err := Load(path)
	require.ErrorIs(t, err, benchmark.ErrInvalidConfig)

	path = filepath.Join(dir, "bad_size.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sizes:\n  - label: nonsense\n"), 0644))
	_, err = Load(path)
	require.ErrorIs(t, err, benchmark.ErrInvalidConfig)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
