package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

func main() {
	fmt.Println("=== kiohash Benchmark Suite ===")
	fmt.Println("Running engine benchmarks")
	fmt.Println()

	benchmarks := []struct {
		name        string
		pattern     string
		description string
		benchtime   string
	}{
		{
			name:        "Cached Hash",
			pattern:     "BenchmarkEngineHash",
			description: "Single-value hashing with cache hits and misses",
			benchtime:   "3s",
		},
		{
			name:        "Algorithms",
			pattern:     "BenchmarkEngineAlgorithms",
			description: "Raw throughput of every built-in algorithm",
			benchtime:   "2s",
		},
		{
			name:        "Digests",
			pattern:     "BenchmarkEngineDigests",
			description: "Throughput of cryptographic digest kernels",
			benchtime:   "2s",
		},
		{
			name:        "Batch",
			pattern:     "BenchmarkEngineBatch",
			description: "Batched hashing through GetBulk/SetBulk",
			benchtime:   "3s",
		},
		{
			name:        "Sequence",
			pattern:     "BenchmarkSequence",
			description: "Serial vs parallel ordered sequence folds",
			benchtime:   "3s",
		},
		{
			name:        "Sharding Efficiency",
			pattern:     "BenchmarkCacheShardComparison",
			description: "Cache contention across shard counts",
			benchtime:   "3s",
		},
		{
			name:        "Eviction Stress",
			pattern:     "BenchmarkCacheEviction",
			description: "FIFO eviction under constant inserts",
			benchtime:   "3s",
		},
		{
			name:        "MinHash",
			pattern:     "BenchmarkMinHashSimilarity",
			description: "Signature computation and Jaccard estimate, k=128",
			benchtime:   "3s",
		},
	}

	totalStart := time.Now()

	for i, bench := range benchmarks {
		fmt.Printf("[%d/%d] %s\n", i+1, len(benchmarks), bench.name)
		fmt.Printf("Description: %s\n", bench.description)
		fmt.Printf("Running: go test -bench=%s -benchmem -benchtime=%s\n", bench.pattern, bench.benchtime)
		fmt.Println(strings.Repeat("-", 80))

		start := time.Now()

		cmd := exec.Command("go", "test", "-bench="+bench.pattern, "-benchmem", "-benchtime="+bench.benchtime, ".")
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		err := cmd.Run()

		duration := time.Since(start)

		if err != nil {
			fmt.Printf(" - Benchmark failed: %v\n", err)
		} else {
			fmt.Printf(" + Benchmark completed in %v\n", duration)
		}

		fmt.Println()
	}

	totalDuration := time.Since(totalStart)
	fmt.Printf("🏁 All benchmarks completed in %v\n", totalDuration)
	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Println("Key performance areas tested:")
	fmt.Println("- Memoized vs pass-through hashing")
	fmt.Println("- Algorithm and digest throughput")
	fmt.Println("- Parallel sequence scaling")
	fmt.Println("- Cache sharding and eviction")
	fmt.Println("- MinHash signature cost")
}
