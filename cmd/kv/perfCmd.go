package kv

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/uKV/cmd/util"
	"github.com/ValentinKolb/uKV/lib/resource"
	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for ukv servers",
		Long:    "",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix  = "__test"
	perfNumThreads = 10
	perfKeySpread  = 100
	perfListSize   = 10
	perfSkip       = make([]string, 0)
	perfPercentile = []float64{0.5, 0.95, 0.99}
)

// perfResult combines the throughput measured by testing.Benchmark with the
// latency distribution of the individual requests
type perfResult struct {
	bench   testing.BenchmarkResult
	latency metrics.Timer
	errors  metrics.Counter
}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. create,read)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "list-size"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("How many items the list resources of the read-list test hold"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfKeySpread = viper.GetInt("keys")
	perfNumThreads = viper.GetInt("threads")
	perfListSize = viper.GetInt("list-size")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	if perfKeySpread <= 0 {
		return fmt.Errorf("keys must be positive")
	}
	if perfListSize <= 0 {
		return fmt.Errorf("list-size must be positive")
	}

	return nil
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for ukv servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("staring tests...")

	single := resource.NewSingle(resource.Human{Name: "perf"})
	list := make([]resource.Human, perfListSize)
	for i := range list {
		list[i] = resource.Human{Name: fmt.Sprintf("perf-%d", i)}
	}

	benchmarks := []struct {
		name    string
		prepare func(key string) error
		op      func(key string, counter int) error
	}{
		{
			name: "create",
			op: func(key string, _ int) error {
				return rpcStore.Create(key, single)
			},
		},
		{
			name:    "read",
			prepare: func(key string) error { return rpcStore.Create(key, single) },
			op: func(key string, _ int) error {
				_, _, err := rpcStore.Read(key)
				return err
			},
		},
		{
			name:    "read-list",
			prepare: func(key string) error { return rpcStore.Create(key, resource.NewList(list...)) },
			op: func(key string, _ int) error {
				_, _, err := rpcStore.Read(key)
				return err
			},
		},
		{
			name: "read-missing",
			op: func(key string, _ int) error {
				_, _, err := rpcStore.Read(key)
				return err
			},
		},
		{
			name: "update",
			op: func(key string, _ int) error {
				return rpcStore.Update(key, single)
			},
		},
		{
			name:    "append",
			prepare: func(key string) error { return rpcStore.Create(key, resource.NewList[resource.Human]()) },
			op: func(key string, counter int) error {
				return rpcStore.AppendToList(key, []resource.Human{{Name: strconv.Itoa(counter)}})
			},
		},
		{
			name:    "remove",
			prepare: func(key string) error { return rpcStore.Create(key, resource.NewList(list...)) },
			op: func(key string, counter int) error {
				return rpcStore.RemoveFromList(key, list[counter%len(list)])
			},
		},
		{
			name:    "mixed",
			prepare: func(key string) error { return rpcStore.Create(key, resource.NewList[resource.Human]()) },
			op: func(key string, counter int) error {
				var err error
				switch counter % 4 {
				case 0: // read
					_, _, err = rpcStore.Read(key)
				case 1: // append
					err = rpcStore.AppendToList(key, []resource.Human{{Name: "mixed"}})
				case 2: // remove
					err = rpcStore.RemoveFromList(key, resource.Human{Name: "mixed"})
				case 3: // update
					err = rpcStore.Update(key, resource.NewList[resource.Human]())
				}
				return err
			},
		},
	}

	// Create results map
	results := make(map[string]perfResult)
	order := make([]string, 0, len(benchmarks))

	for _, bm := range benchmarks {
		result := perfResult{
			latency: metrics.NewTimer(),
			errors:  metrics.NewCounter(),
		}

		result.bench = testing.Benchmark(func(b *testing.B) {
			if shouldSkip(bm.name) {
				return
			}

			// prepare keys
			getKey, iter := getKeys(bm.name)

			// set keys
			if bm.prepare != nil {
				iter(func(k string) {
					if err := bm.prepare(k); err != nil {
						log.Printf("(%s) - error preparing key: %v\n", bm.name, err)
					}
				})
			}

			// cleanup
			b.Cleanup(func() {
				iter(func(k string) {
					if err := rpcStore.Delete(k); err != nil {
						log.Printf("(%s) - error deleting key: %v\n", bm.name, err)
					}
				})
			})

			b.SetParallelism(perfNumThreads)

			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					start := time.Now()
					err := bm.op(getKey(counter), counter)
					result.latency.UpdateSince(start)
					if err != nil {
						result.errors.Inc(1)
						log.Printf("(%s) - error performing operation: %v\n", bm.name, err)
					}
					counter++
				}
			})
		})

		result.latency.Stop()
		results[bm.name] = result
		order = append(order, bm.name)
		printResult(bm.name, result)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, order, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// opsPerSec converts a benchmark result into throughput, 0 means skipped
func opsPerSec(result testing.BenchmarkResult) (float64, float64) {
	if result.NsPerOp() == 0 {
		return 0, 0
	}
	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	return nsPerOp, 1.0 / (nsPerOp / 1e9)
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result perfResult) {
	nsPerOp, ops := opsPerSec(result.bench)
	if nsPerOp == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	p := result.latency.Percentiles(perfPercentile)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp50=%s p95=%s p99=%s\terrors=%d\n",
		test, nsPerOp, time.Duration(nsPerOp), ops,
		time.Duration(p[0]), time.Duration(p[1]), time.Duration(p[2]),
		result.errors.Count())
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, order []string, results map[string]perfResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"P50Ns", "P95Ns", "P99Ns", "Errors",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"Threads", "Keys Count", "List Size",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for _, test := range order {
		result := results[test]
		nsPerOp, ops := opsPerSec(result.bench)
		p := result.latency.Percentiles(perfPercentile)

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", ops),
			strconv.FormatBool(nsPerOp == 0),
			fmt.Sprintf("%.0f", p[0]),
			fmt.Sprintf("%.0f", p[1]),
			fmt.Sprintf("%.0f", p[2]),
			strconv.FormatInt(result.errors.Count(), 10),
			strings.Join(config.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.RetryCount),
			strconv.Itoa(config.ConnectionsPerEndpoint),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfKeySpread),
			strconv.Itoa(perfListSize),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
