package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

type JSONFormatter struct{}

type JSONOutput struct {
	Timestamp  time.Time `json:"timestamp"`
	SystemInfo any       `json:"system_info"`
	Config     any       `json:"config"`
	Results    any       `json:"results"`
	Summary    struct {
		Rows            int     `json:"rows"`
		TimedOperations int     `json:"timed_operations"`
		PeakThroughput  float64 `json:"peak_throughput_mib_s"`
		PeakCombination string  `json:"peak_combination"`
	} `json:"summary"`
}

func (j *JSONFormatter) Format(w io.Writer, data Data) error {
	output := JSONOutput{
		Timestamp:  time.Now(),
		SystemInfo: data.SystemInfo,
		Config: map[string]any{
			"algorithms":  data.Config.Algorithms,
			"sizes":       data.Config.Sizes,
			"runs":        data.Config.Runs,
			"mib_divisor": data.Config.MiBDivisor,
		},
		Results: data.Results,
	}

	for _, result := range data.Results {
		output.Summary.Rows++
		output.Summary.TimedOperations += result.Runs
		if result.Throughput > output.Summary.PeakThroughput {
			output.Summary.PeakThroughput = result.Throughput
			output.Summary.PeakCombination = fmt.Sprintf("%s %s %s", result.Algorithm, result.File, result.Operation)
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
