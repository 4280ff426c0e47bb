// Package main provides a performance benchmarking tool for the shiftlog CLI.
// It seeds SQLite record stores of different sizes through `shiftlog import`,
// then measures report exports in every file format, treating the first successful run as cold
// and averaging the rest as warm, generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - shiftlog binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated fixtures and stores (defaults to a temp dir)
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Records  int
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Runs        int
	StoreSizes  []int
	OutputModes []string
}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "shiftlog-bench-")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     5 * time.Minute,
		Runs:        4,
		StoreSizes:  []int{100, 1000, 10000},
		OutputModes: []string{"csv", "json", "xlsx", "parquet"},
	}

	if _, err := exec.LookPath("shiftlog"); err != nil {
		fmt.Printf("Prerequisites check failed: shiftlog binary not found in PATH\n")
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// runBenchmarks seeds one store per size and times every report format against it
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d store sizes, %v timeout, %d runs per command\n",
		len(config.StoreSizes), config.Timeout, config.Runs)

	for _, size := range config.StoreSizes {
		fmt.Printf("Seeding store with %d records\n", size)
		env, err := seedStore(config, size)
		if err != nil {
			return nil, err
		}

		for _, mode := range config.OutputModes {
			outFile := filepath.Join(config.WorkDir, fmt.Sprintf("report_%d.%s", size, mode))
			args := []string{"report", "--output", mode, "--output-file", outFile}
			results = append(results, runBenchmarkSuite(config, env, size, "report "+mode, args))
		}
		results = append(results, runBenchmarkSuite(config, env, size, "customers", []string{"customers", "--output", "json"}))
	}

	return results, nil
}

// seedStore writes a fixture of n records and imports it into a fresh SQLite store
func seedStore(config BenchmarkConfig, n int) ([]string, error) {
	fixture := filepath.Join(config.WorkDir, fmt.Sprintf("records_%d.json", n))
	if err := writeFixture(fixture, n); err != nil {
		return nil, fmt.Errorf("failed to write fixture: %w", err)
	}

	dbPath := filepath.Join(config.WorkDir, fmt.Sprintf("shiftlog_%d.db", n))
	_ = os.Remove(dbPath)
	env := append(os.Environ(),
		"SHIFTLOG_BACKEND=sqlite",
		"SHIFTLOG_DB_CONNECT="+dbPath,
		"SHIFTLOG_COLOR=no",
	)

	cmd := exec.Command("shiftlog", "import", fixture)
	cmd.Env = env
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("import failed: %v\nOutput: %s", err, string(output))
	}
	return env, nil
}

// writeFixture generates n shift logs spread over sections, customers and shifts
func writeFixture(path string, n int) error {
	sections := []string{"ASB 1 (PET)", "ASB 2 (PC)", "ASB 3", "ASB 4 (Jar)"}
	customers := []string{"Acme", "Zeta Water", "Northwind", "Blue Spring", "Harbor Dairy"}
	shifts := [][3]string{{"Day", "06:00", "14:00"}, {"Evening", "14:00", "22:00"}, {"Night", "22:00", "06:00"}}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	records := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		shift := shifts[i%len(shifts)]
		rec := map[string]any{
			"section":         sections[i%len(sections)],
			"date":            base.AddDate(0, 0, i/len(shifts)).Format(time.DateOnly),
			"shift":           shift[0],
			"shiftStart":      shift[1],
			"shiftEnd":        shift[2],
			"customerName":    customers[i%len(customers)],
			"goodBottles":     strconv.Itoa(800 + i%400),
			"rejectedBottles": strconv.Itoa(i % 40),
			"preform":         strconv.Itoa(i % 15),
			"lumpsKg":         strconv.FormatFloat(float64(i%10)/2, 'f', 1, 64),
			"processes":       []string{"Labelling"},
		}
		if i%4 == 0 {
			rec["breakdownStart1"] = shift[1]
			rec["breakdownEnd1"] = shift[1][:3] + "45"
			rec["breakdownReason1"] = "Mold change"
		}
		records = append(records, rec)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// runBenchmarkSuite runs one command repeatedly and summarizes cold and warm timings
func runBenchmarkSuite(config BenchmarkConfig, env []string, size int, name string, args []string) BenchmarkResult {
	fmt.Printf("  Running %s (%d runs)\n", name, config.Runs)

	cold, warm := runBenchmark(config, env, args)

	coldTimeStr := "TIMEOUT"
	if cold > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", cold)
	}
	warmAvg := "TIMEOUT"
	if len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Records:  size,
		Command:  name,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a shiftlog command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, env, args []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("shiftlog", args...)
		cmd.Env = env

		done := make(chan error, 1)
		go func() {
			done <- cmd.Run()
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/shiftlog_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"records", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{strconv.Itoa(result.Records), result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	for _, size := range config.StoreSizes {
		fmt.Printf("%d records:\n", size)
		for _, result := range results {
			if result.Records == size {
				fmt.Printf("  %-16s: Cold: %s, Warm: %s\n", result.Command, result.ColdTime, result.WarmTime)
			}
		}
	}

	fmt.Printf("Fixtures and stores kept in %s\n", config.WorkDir)
}
