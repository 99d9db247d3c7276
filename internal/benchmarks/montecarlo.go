package benchmarks

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// convergencePoints is the number of running estimates recorded during the
// sequential pass.
const convergencePoints = 100

// emaPeriod smooths the convergence curve.
const emaPeriod = 10

// MonteCarlo estimates π by uniform sampling of the unit square, sequentially
// and then across a fixed-size worker pool, and reports speedup, efficiency
// and a smoothed convergence curve.
type MonteCarlo struct {
	samples int
	workers int
}

// NewMonteCarlo creates the Monte Carlo benchmark. A non-positive sample
// count or worker count falls back to defaults.
func NewMonteCarlo(samples, workers int) *MonteCarlo {
	if samples <= 0 {
		samples = 4_000_000
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &MonteCarlo{samples: samples, workers: workers}
}

// Name returns the benchmark identifier.
func (b *MonteCarlo) Name() string { return "montecarlo" }

// Description returns a one-line summary.
func (b *MonteCarlo) Description() string {
	return "Parallel Monte Carlo π with speedup, efficiency and convergence"
}

// Run executes the benchmark.
func (b *MonteCarlo) Run(ctx context.Context, rng *rand.Rand) (*Report, error) {
	report := newReport(b.Name())

	// Sequential pass, recording the convergence curve as it goes.
	seqStart := time.Now()
	estimate, curve := estimatePiWithCurve(b.samples, rng)
	seqTime := time.Since(seqStart)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Parallel pass over the worker pool. Each worker owns a chunk and an
	// independent RNG; the final estimate is the mean of chunk estimates.
	parStart := time.Now()
	chunkEstimates := b.chunkEstimates(rng.Int63())
	parTime := time.Since(parStart)

	parEstimate := stat.Mean(chunkEstimates, nil)
	chunkSpread := stat.StdDev(chunkEstimates, nil)

	speedup := 0.0
	if parTime > 0 {
		speedup = float64(seqTime) / float64(parTime)
	}

	smoothed := curve
	if len(curve) >= emaPeriod {
		smoothed = talib.Ema(curve, emaPeriod)
	}

	pi := 3.141592653589793

	report.Metrics["samples"] = float64(b.samples)
	report.Metrics["workers"] = float64(b.workers)
	report.Metrics["estimate_sequential"] = estimate
	report.Metrics["estimate_parallel"] = parEstimate
	report.Metrics["error_sequential"] = abs(estimate - pi)
	report.Metrics["error_parallel"] = abs(parEstimate - pi)
	report.Metrics["sequential_ms"] = float64(seqTime.Microseconds()) / 1000
	report.Metrics["parallel_ms"] = float64(parTime.Microseconds()) / 1000
	report.Metrics["speedup"] = speedup
	report.Metrics["efficiency"] = speedup / float64(b.workers)
	report.Metrics["chunk_stddev"] = chunkSpread
	report.Details["convergence"] = curve
	report.Details["convergence_ema"] = smoothed

	host, err := CollectHostInfo()
	if err == nil {
		report.Details["host"] = host
	}

	return report.finish(), nil
}

// estimatePiWithCurve samples sequentially and records the running estimate
// at regular checkpoints.
func estimatePiWithCurve(samples int, rng *rand.Rand) (float64, []float64) {
	checkpoint := samples / convergencePoints
	if checkpoint == 0 {
		checkpoint = 1
	}

	inside := 0
	curve := make([]float64, 0, convergencePoints)

	for i := 1; i <= samples; i++ {
		x, y := rng.Float64(), rng.Float64()
		if x*x+y*y <= 1.0 {
			inside++
		}
		if i%checkpoint == 0 {
			curve = append(curve, 4.0*float64(inside)/float64(i))
		}
	}

	return 4.0 * float64(inside) / float64(samples), curve
}

func estimatePi(samples int, rng *rand.Rand) float64 {
	inside := 0
	for i := 0; i < samples; i++ {
		x, y := rng.Float64(), rng.Float64()
		if x*x+y*y <= 1.0 {
			inside++
		}
	}
	return 4.0 * float64(inside) / float64(samples)
}

// chunkEstimates runs one chunk per worker and collects the per-chunk
// π estimates. The caller averages them.
func (b *MonteCarlo) chunkEstimates(seed int64) []float64 {
	chunk := b.samples / b.workers
	if chunk == 0 {
		chunk = 1
	}

	results := make(chan float64, b.workers)
	var wg sync.WaitGroup

	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func(workerSeed int64) {
			defer wg.Done()
			workerRng := rand.New(rand.NewSource(workerSeed))
			results <- estimatePi(chunk, workerRng)
		}(seed + int64(w))
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	estimates := make([]float64, 0, b.workers)
	for estimate := range results {
		estimates = append(estimates, estimate)
	}
	return estimates
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
