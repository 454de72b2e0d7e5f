package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

type CSVFormatter struct{}

func (c *CSVFormatter) Format(w io.Writer, data Data) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"Timestamp",
		"Algorithm",
		"File",
		"Operation",
		"InputBytes",
		"Runs",
		"MeanTime(s)",
		"Throughput(MiB/s)",
		"OS",
		"Architecture",
		"CPUModel",
		"CPUCores",
		"AESAccel",
		"TotalMemory(GB)",
	}

	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range data.Results {
		row := []string{
			result.CompletedAt.Format(time.RFC3339),
			result.Algorithm,
			result.File,
			string(result.Operation),
			fmt.Sprintf("%d", result.InputBytes),
			fmt.Sprintf("%d", result.Runs),
			fmt.Sprintf("%.7f", result.MeanTime.Seconds()),
			fmt.Sprintf("%.2f", result.Throughput),
			data.SystemInfo.OS,
			data.SystemInfo.Architecture,
			data.SystemInfo.CPUModel,
			fmt.Sprintf("%d", data.SystemInfo.CPUCores),
			fmt.Sprintf("%t", data.SystemInfo.AESAccel),
			fmt.Sprintf("%.2f", float64(data.SystemInfo.TotalMemory)/(1024*1024*1024)),
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}
