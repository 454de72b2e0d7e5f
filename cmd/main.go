package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/brasiledu/BenchAESDES/internal/benchmark"
	"github.com/brasiledu/BenchAESDES/internal/config"
	"github.com/brasiledu/BenchAESDES/internal/output"
	"github.com/brasiledu/BenchAESDES/internal/server"
	"github.com/brasiledu/BenchAESDES/pkg/sysinfo"
)

var (
	algorithms   []string
	sizeLabels   []string
	runs         int
	outputFormat string
	outputFile   string
	configFile   string
	dataDir      string
	resultsDir   string
	decimal      bool
	renderCharts bool
	verbose      bool
	showProgress bool
	webMode      bool
	webPort      string
)

var rootCmd = &cobra.Command{
	Use:   "benchaesdes",
	Short: "A throughput benchmark for AES and DES in CBC mode",
	Long: `BenchAESDES measures encryption and decryption throughput of AES-128,
AES-256 and DES under CBC mode with PKCS7 padding, across several payload
sizes, and produces comparative tables, CSV/JSON exports and bar charts.

Every timed run uses a fresh random key and IV, and each decryption is
verified byte-for-byte against the original plaintext before its row is
accepted.`,
	RunE: runBenchmark,
}

func init() {
	rootCmd.Flags().StringSliceVarP(&algorithms, "algorithms", "a", []string{"aes-128", "aes-256", "des"}, "Algorithms to benchmark (aes-128, aes-256, des)")
	rootCmd.Flags().StringSliceVarP(&sizeLabels, "sizes", "s", []string{"1KB", "1MB", "10MB"}, "Payload sizes to test (binary units: 1KB = 1024 bytes)")
	rootCmd.Flags().IntVarP(&runs, "runs", "r", benchmark.DefaultRuns, "Timed runs per (algorithm, file, operation)")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "Output format (table, json, csv)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "data", "Directory for generated payload files")
	rootCmd.Flags().StringVar(&resultsDir, "results-dir", "results", "Directory for charts and saved reports")
	rootCmd.Flags().BoolVar(&decimal, "decimal", false, "Report MB/s (divisor 10^6) instead of MiB/s (2^20)")
	rootCmd.Flags().BoolVar(&renderCharts, "charts", true, "Render throughput bar charts")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.Flags().BoolVar(&showProgress, "progress", true, "Show progress bar")
	rootCmd.Flags().BoolVarP(&webMode, "web", "w", false, "Run in web server mode")
	rootCmd.Flags().StringVar(&webPort, "port", "8080", "Web server port")
}

// resolveSettings layers defaults, the optional config file, and any flags
// the user actually set.
func resolveSettings(cmd *cobra.Command) (config.Settings, error) {
	settings := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return settings, err
		}
		settings = loaded
	}

	if cmd.Flags().Changed("algorithms") {
		settings.Algorithms = algorithms
	}
	if cmd.Flags().Changed("sizes") {
		sizes, err := config.ParseSizeLabels(sizeLabels)
		if err != nil {
			return settings, err
		}
		settings.Sizes = sizes
	}
	if cmd.Flags().Changed("runs") {
		settings.Runs = runs
	}
	if cmd.Flags().Changed("data-dir") {
		settings.DataDir = dataDir
	}
	if cmd.Flags().Changed("results-dir") {
		settings.ResultsDir = resultsDir
	}
	if decimal {
		settings.MiBDivisor = 1e6
	}

	return settings, nil
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	if webMode {
		srv, err := server.NewServer(webPort, resultsDir)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		log.Printf("Starting BenchAESDES web server on http://localhost:%s", webPort)
		log.Println("Press Ctrl+C to stop")

		return srv.Start()
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Println("BenchAESDES - CBC Cipher Throughput Benchmark")
		fmt.Println("=============================================")
		fmt.Println()
	}

	sysInfo, err := sysinfo.Collect()
	if err != nil {
		return fmt.Errorf("failed to collect system info: %w", err)
	}

	if verbose {
		fmt.Printf("System Information:\n")
		fmt.Printf("  OS: %s\n", sysInfo.OS)
		fmt.Printf("  Architecture: %s\n", sysInfo.Architecture)
		fmt.Printf("  CPU: %s (%d cores)\n", sysInfo.CPUModel, sysInfo.CPUCores)
		fmt.Printf("  AES acceleration: %t\n", sysInfo.AESAccel)
		fmt.Printf("  Memory: %.2f GB\n", float64(sysInfo.TotalMemory)/(1024*1024*1024))
		fmt.Printf("  Go Version: %s\n", sysInfo.GoVersion)
		fmt.Println()
	}

	benchConfig := benchmark.Config{
		Algorithms:   settings.Algorithms,
		Sizes:        settings.Sizes,
		Runs:         settings.Runs,
		MiBDivisor:   settings.MiBDivisor,
		DataDir:      settings.DataDir,
		ShowProgress: showProgress,
		Verbose:      verbose,
	}

	runner := benchmark.NewRunner(benchConfig)
	results, err := runner.Run()
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	formatter, err := output.NewFormatter(outputFormat)
	if err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}

	outputData := output.Data{
		SystemInfo: sysInfo,
		Results:    results,
		Config:     benchConfig,
	}

	var writer *os.File
	if outputFile != "" {
		writer, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer writer.Close()
	} else {
		writer = os.Stdout
	}

	if err := formatter.Format(writer, outputData); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if renderCharts {
		paths, err := output.RenderThroughputCharts(settings.ResultsDir, results)
		if err != nil {
			return fmt.Errorf("failed to render charts: %w", err)
		}
		if verbose {
			for _, path := range paths {
				fmt.Printf("Chart written: %s\n", path)
			}
		}
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
