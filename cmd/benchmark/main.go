package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kass/coordcon/pkg/config"
	"github.com/kass/coordcon/pkg/convert"
	"github.com/kass/coordcon/pkg/models"
	"github.com/kass/coordcon/pkg/utm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type BenchmarkResult struct {
	Type          string
	TotalOps      int
	Failed        int64
	TotalDuration time.Duration
	AvgDuration   time.Duration
	OpsPerSec     float64
	MinDuration   time.Duration
	MaxDuration   time.Duration
}

type bounds struct {
	minLat, maxLat, minLon, maxLon float64
}

func (b bounds) random(r *rand.Rand) models.GeodeticCoordinate {
	return models.GeodeticCoordinate{
		Latitude:  b.minLat + r.Float64()*(b.maxLat-b.minLat),
		Longitude: b.minLon + r.Float64()*(b.maxLon-b.minLon),
	}
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		benchType = flag.String("t", "forward", "Benchmark type: forward, inverse, roundtrip, pipeline")
		numOps    = flag.Int("n", 100000, "Number of conversions to run")
		workers   = flag.Int("w", runtime.NumCPU(), "Number of concurrent workers")
		seed      = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
		// Geographic bounds for random points (default: the whole projectable band)
		minLat = flag.Float64("min-lat", utm.MinLatitude, "Minimum latitude for random points")
		maxLat = flag.Float64("max-lat", utm.MaxLatitude-1e-9, "Maximum latitude for random points")
		minLon = flag.Float64("min-lon", -180.0, "Minimum longitude for random points")
		maxLon = flag.Float64("max-lon", 180.0, "Maximum longitude for random points")
	)
	flag.Parse()

	b := bounds{*minLat, *maxLat, *minLon, *maxLon}
	log.Info().
		Str("type", *benchType).
		Int("n", *numOps).
		Int("workers", *workers).
		Int64("seed", *seed).
		Msg("Running benchmark")

	var result BenchmarkResult
	switch *benchType {
	case "forward":
		result = runOps("forward", *numOps, *workers, *seed, func(r *rand.Rand) error {
			_, err := utm.Forward(b.random(r))
			return err
		})
	case "inverse":
		points := projectedPoints(b, *numOps, *seed)
		var next atomic.Int64
		result = runOps("inverse", *numOps, *workers, *seed, func(*rand.Rand) error {
			_, err := utm.Inverse(points[next.Add(1)-1])
			return err
		})
	case "roundtrip":
		result = runOps("roundtrip", *numOps, *workers, *seed, func(r *rand.Rand) error {
			u, err := utm.Forward(b.random(r))
			if err != nil {
				return err
			}
			_, err = utm.Inverse(u)
			return err
		})
	case "pipeline":
		result = runPipeline(b, *numOps, *workers, *seed)
	default:
		log.Fatal().Str("type", *benchType).Msg("Unknown benchmark type")
	}

	fmt.Println("\n=== Benchmark Results ===")
	fmt.Printf("Type: %s\n", result.Type)
	fmt.Printf("Total Conversions: %d\n", result.TotalOps)
	fmt.Printf("Failed: %d\n", result.Failed)
	fmt.Printf("Total Duration: %v\n", result.TotalDuration)
	if result.AvgDuration > 0 {
		fmt.Printf("Average Duration: %v\n", result.AvgDuration)
		fmt.Printf("Min Duration: %v\n", result.MinDuration)
		fmt.Printf("Max Duration: %v\n", result.MaxDuration)
	}
	fmt.Printf("Conversions/Second: %.2f\n", result.OpsPerSec)
	fmt.Printf("Workers Used: %d\n", *workers)
	fmt.Printf("CPU Cores: %d\n", runtime.NumCPU())
}

// runOps runs op numOps times on a pool of workers, timing every call
func runOps(name string, numOps, workers int, seed int64, op func(r *rand.Rand) error) BenchmarkResult {
	var (
		failed      atomic.Int64
		minDuration = time.Hour
		maxDuration time.Duration
		total       time.Duration
		mu          sync.Mutex
	)

	startTime := time.Now()

	opCh := make(chan int, numOps)
	var wg sync.WaitGroup

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(r *rand.Rand) {
			defer wg.Done()
			var localMin, localMax, localTotal time.Duration = time.Hour, 0, 0

			for range opCh {
				opStart := time.Now()
				err := op(r)
				d := time.Since(opStart)

				if err != nil {
					failed.Add(1)
				}
				localTotal += d
				if d < localMin {
					localMin = d
				}
				if d > localMax {
					localMax = d
				}
			}

			mu.Lock()
			total += localTotal
			if localMin < minDuration {
				minDuration = localMin
			}
			if localMax > maxDuration {
				maxDuration = localMax
			}
			mu.Unlock()
		}(rand.New(rand.NewSource(seed + int64(w))))
	}

	for i := 0; i < numOps; i++ {
		opCh <- i
	}
	close(opCh)

	wg.Wait()
	totalDuration := time.Since(startTime)

	result := BenchmarkResult{
		Type:          name,
		TotalOps:      numOps,
		Failed:        failed.Load(),
		TotalDuration: totalDuration,
		OpsPerSec:     float64(numOps) / totalDuration.Seconds(),
		MinDuration:   minDuration,
		MaxDuration:   maxDuration,
	}
	if numOps > 0 {
		result.AvgDuration = total / time.Duration(numOps)
	}
	return result
}

func projectedPoints(b bounds, n int, seed int64) []models.UtmCoordinate {
	r := rand.New(rand.NewSource(seed))
	points := make([]models.UtmCoordinate, 0, n)
	for len(points) < n {
		u, err := utm.Forward(b.random(r))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to generate UTM points")
		}
		points = append(points, u)
	}
	return points
}

// runPipeline pushes n text records, alternating forward and inverse, through
// the line converter used by the CLI
func runPipeline(b bounds, n, workers int, seed int64) BenchmarkResult {
	r := rand.New(rand.NewSource(seed))
	var input bytes.Buffer
	for i := 0; i < n; i++ {
		g := b.random(r)
		if i%2 == 0 {
			fmt.Fprintf(&input, "%.6f %.6f\n", g.Latitude, g.Longitude)
			continue
		}
		u, err := utm.Forward(g)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to generate UTM records")
		}
		fmt.Fprintf(&input, "%.3f %.3f %s\n", u.Easting, u.Northing, u.Zone())
	}

	cfg := config.Default()
	cfg.Workers = workers
	cfg.OnError = config.Skip
	conv := convert.New(cfg, log.Logger)

	start := time.Now()
	stats, err := conv.Lines(context.Background(), &input, io.Discard)
	totalDuration := time.Since(start)
	if err != nil {
		log.Fatal().Err(err).Msg("Pipeline failed")
	}

	return BenchmarkResult{
		Type:          "pipeline",
		TotalOps:      n,
		Failed:        int64(stats.Skipped),
		TotalDuration: totalDuration,
		OpsPerSec:     float64(n) / totalDuration.Seconds(),
	}
}
