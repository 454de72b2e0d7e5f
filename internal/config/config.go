package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brasiledu/BenchAESDES/internal/benchmark"
)

// Settings is the resolved runtime configuration: defaults, overlaid by an
// optional YAML file, overlaid by CLI flags.
type Settings struct {
	Algorithms []string
	Sizes      []benchmark.FileSize
	Runs       int
	MiBDivisor float64
	DataDir    string
	ResultsDir string
}

func Default() Settings {
	return Settings{
		Algorithms: []string{"AES-128", "AES-256", "DES"},
		Sizes:      benchmark.DefaultSizes,
		Runs:       benchmark.DefaultRuns,
		MiBDivisor: benchmark.DefaultMiBDivisor,
		DataDir:    "data",
		ResultsDir: "results",
	}
}

type fileConfig struct {
	Runs       int        `yaml:"runs"`
	Algorithms []string   `yaml:"algorithms"`
	Sizes      []SizeSpec `yaml:"sizes"`
	MiBDivisor float64    `yaml:"mib_divisor"`
	DataDir    string     `yaml:"data_dir"`
	ResultsDir string     `yaml:"results_dir"`
}

// SizeSpec is one payload entry in the YAML file. Bytes may be omitted
// when the label itself encodes the size ("10MB").
type SizeSpec struct {
	Label string `yaml:"label"`
	Bytes int    `yaml:"bytes"`
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Settings, error) {
	settings := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return settings, fmt.Errorf("parsing config file: %w", err)
	}

	if fc.Runs != 0 {
		if fc.Runs < 1 {
			return settings, fmt.Errorf("%w: runs must be >= 1, got %d", benchmark.ErrInvalidConfig, fc.Runs)
		}
		settings.Runs = fc.Runs
	}
	if len(fc.Algorithms) > 0 {
		settings.Algorithms = fc.Algorithms
	}
	if len(fc.Sizes) > 0 {
		sizes := make([]benchmark.FileSize, 0, len(fc.Sizes))
		for _, spec := range fc.Sizes {
			size, err := spec.resolve()
			if err != nil {
				return settings, err
			}
			sizes = append(sizes, size)
		}
		settings.Sizes = sizes
	}
	if fc.MiBDivisor != 0 {
		if fc.MiBDivisor < 0 {
			return settings, fmt.Errorf("%w: mib_divisor must be positive", benchmark.ErrInvalidConfig)
		}
		settings.MiBDivisor = fc.MiBDivisor
	}
	if fc.DataDir != "" {
		settings.DataDir = fc.DataDir
	}
	if fc.ResultsDir != "" {
		settings.ResultsDir = fc.ResultsDir
	}

	return settings, nil
}

func (s SizeSpec) resolve() (benchmark.FileSize, error) {
	if s.Bytes > 0 {
		label := s.Label
		if label == "" {
			label = strconv.Itoa(s.Bytes) + "B"
		}
		return benchmark.FileSize{Label: label, Bytes: s.Bytes}, nil
	}
	return ParseSizeLabel(s.Label)
}

// Binary units: "1KB" here means 1024 bytes, matching the shipped size
// sweep and the MiB/s throughput unit.
var sizeUnits = map[string]int{
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
}

// ParseSizeLabel turns a label like "1KB" or "10MB" into a FileSize.
func ParseSizeLabel(label string) (benchmark.FileSize, error) {
	s := strings.ToUpper(strings.TrimSpace(label))

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return benchmark.FileSize{}, fmt.Errorf("%w: size %q has no numeric part", benchmark.ErrInvalidConfig, label)
	}

	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return benchmark.FileSize{}, fmt.Errorf("%w: size %q: %v", benchmark.ErrInvalidConfig, label, err)
	}

	unit, ok := sizeUnits[strings.TrimSpace(s[i:])]
	if !ok {
		return benchmark.FileSize{}, fmt.Errorf("%w: size %q has unknown unit %q", benchmark.ErrInvalidConfig, label, s[i:])
	}
	if n <= 0 {
		return benchmark.FileSize{}, fmt.Errorf("%w: size %q must be positive", benchmark.ErrInvalidConfig, label)
	}

	return benchmark.FileSize{Label: s, Bytes: n * unit}, nil
}

// ParseSizeLabels resolves a list of CLI size labels.
func ParseSizeLabels(labels []string) ([]benchmark.FileSize, error) {
	sizes := make([]benchmark.FileSize, 0, len(labels))
	for _, label := range labels {
		size, err := ParseSizeLabel(label)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}
