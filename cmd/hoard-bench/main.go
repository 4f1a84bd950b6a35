// hoard-bench measures cache throughput and latency under concurrent load.
package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hoardcache/hoard/cache"
)

var (
	concurrency = flag.Int("c", 50, "Concurrency")
	requests    = flag.Int("n", 100000, "Requests")
	dataSize    = flag.Int("d", 256, "Payload size")
	maxSize     = flag.Int("max", 10000, "Cache capacity")
	writeRatio  = flag.Float64("w", 0.1, "Fraction of writes")
)

func main() {
	flag.Parse()

	payload := make([]byte, *dataSize)
	for i := range payload {
		payload[i] = 'x'
	}

	ctx := context.Background()
	c := cache.New[[]byte](
		cache.WithMaxSize[[]byte](*maxSize),
		cache.WithDefaultTTL[[]byte](time.Hour),
	)
	defer c.Destroy()

	key := "bench:key"
	if err := c.Set(ctx, key, payload); err != nil {
		fmt.Println("warmup failed:", err)
		return
	}

	var wg sync.WaitGroup
	var ops int64
	totalReqs := *requests
	latencies := make([]int64, totalReqs)
	writeEvery := 0
	if *writeRatio > 0 {
		writeEvery = int(1 / *writeRatio)
	}

	start := time.Now()
	chunk := totalReqs / *concurrency

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			offset := idx * chunk
			for j := 0; j < chunk; j++ {
				reqStart := time.Now()
				if writeEvery > 0 && j%writeEvery == 0 {
					_ = c.Set(ctx, key, payload)
				} else {
					c.Get(ctx, key)
				}
				atomic.AddInt64(&ops, 1)
				latencies[offset+j] = time.Since(reqStart).Nanoseconds()
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	throughput := float64(ops) / elapsed.Seconds()
	avgLat := float64(elapsed.Nanoseconds()) / float64(ops)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	p99Idx := int(float64(len(latencies)) * 0.99)
	if p99Idx >= len(latencies) {
		p99Idx = len(latencies) - 1
	}

	fmt.Printf("| %-10s | %-12s | %-12s |\n", "Ops/sec", "Avg Latency", "P99 Latency")
	fmt.Println("|:---|:---|:---|")
	fmt.Printf("| %-10.0f | %-12.0f | %-12d |\n", throughput, avgLat, latencies[p99Idx])
	fmt.Printf("\nstats: %+v\n", c.Stats())
}
