package output

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/brasiledu/BenchAESDES/internal/benchmark"
)

type TableFormatter struct{}

func (t *TableFormatter) Format(w io.Writer, data Data) error {
	fmt.Fprintln(w, "\nBenchmark Results")
	fmt.Fprintln(w, "================")
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"Algorithm",
		"File",
		"Operation",
		"Input Bytes",
		"Runs",
		"Mean Time",
		"Throughput",
	})

	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, result := range data.Results {
		row := []string{
			result.Algorithm,
			result.File,
			string(result.Operation),
			fmt.Sprintf("%d", result.InputBytes),
			fmt.Sprintf("%d", result.Runs),
			formatDuration(result.MeanTime),
			fmt.Sprintf("%.2f %s", result.Throughput, throughputUnit(data.Config)),
		}
		table.Append(row)
	}

	table.Render()

	writePivot(w, data)

	// Summary statistics
	fmt.Fprintln(w, "\nSummary")
	fmt.Fprintln(w, "-------")

	totalRuns := 0
	var totalTime time.Duration
	for _, result := range data.Results {
		totalRuns += result.Runs
		totalTime += result.MeanTime * time.Duration(result.Runs)
	}

	fmt.Fprintf(w, "Result rows: %d\n", len(data.Results))
	fmt.Fprintf(w, "Timed cipher operations: %d\n", totalRuns)
	fmt.Fprintf(w, "Total timed duration: %s\n", formatDuration(totalTime))

	return nil
}

// writePivot renders the summary table: one row per file x operation, one
// throughput column per algorithm.
func writePivot(w io.Writer, data Data) {
	algorithms := orderedValues(data.Results, func(r benchmark.Result) string { return r.Algorithm })
	files := orderedValues(data.Results, func(r benchmark.Result) string { return r.File })

	throughput := make(map[string]float64, len(data.Results))
	for _, result := range data.Results {
		throughput[result.File+"|"+string(result.Operation)+"|"+result.Algorithm] = result.Throughput
	}

	fmt.Fprintf(w, "\nThroughput Summary (%s)\n", throughputUnit(data.Config))
	fmt.Fprintln(w)

	pivot := tablewriter.NewWriter(w)
	pivot.SetHeader(append([]string{"File", "Operation"}, algorithms...))
	pivot.SetBorder(false)
	pivot.SetCenterSeparator("|")
	pivot.SetColumnSeparator("|")
	pivot.SetRowSeparator("-")
	pivot.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	pivot.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, file := range files {
		for _, op := range []benchmark.Operation{benchmark.OpEncrypt, benchmark.OpDecrypt} {
			row := []string{file, string(op)}
			for _, algo := range algorithms {
				if v, ok := throughput[file+"|"+string(op)+"|"+algo]; ok {
					row = append(row, fmt.Sprintf("%.2f", v))
				} else {
					row = append(row, "-")
				}
			}
			pivot.Append(row)
		}
	}

	pivot.Render()
}

// orderedValues collects distinct values in first-seen order, preserving
// the runner's sweep order in the pivot.
func orderedValues(results []benchmark.Result, key func(benchmark.Result) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, result := range results {
		k := key(result)
		if !seen[k] {
			seen[k] = true
			values = append(values, k)
		}
	}
	return values
}

func throughputUnit(config benchmark.Config) string {
	if config.MiBDivisor > 0 && config.MiBDivisor != benchmark.DefaultMiBDivisor {
		return "MB/s"
	}
	return "MiB/s"
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.2fµs", float64(d.Nanoseconds())/1000)
	} else if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.2fm", d.Minutes())
}
