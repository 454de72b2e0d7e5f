package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/brasiledu/BenchAESDES/internal/benchmark"
)

// RenderThroughputCharts writes one throughput bar chart per operation
// (throughput_encrypt.png, throughput_decrypt.png) into dir and returns
// the paths written.
func RenderThroughputCharts(dir string, results []benchmark.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating chart directory: %w", err)
	}

	var paths []string
	for _, op := range []benchmark.Operation{benchmark.OpEncrypt, benchmark.OpDecrypt} {
		path := filepath.Join(dir, fmt.Sprintf("throughput_%s.png", op))
		if err := renderOperationChart(path, op, results); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func renderOperationChart(path string, op benchmark.Operation, results []benchmark.Result) error {
	var bars []chart.Value
	for _, result := range results {
		if result.Operation != op {
			continue
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s %s", result.File, result.Algorithm),
			Value: result.Throughput,
		})
	}
	if len(bars) == 0 {
		return fmt.Errorf("no %s results to chart", op)
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Throughput %s (MiB/s)", op),
		Width:    1024,
		Height:   512,
		BarWidth: 60,
		Bars:     bars,
		XAxis: chart.Style{
			TextRotationDegrees: 25,
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return nil
}
