package garch

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Request identifies one simulation: spot, discrete horizon in ticks, fitted
// params and path count. It doubles as the memoization identity for the
// simulation cache.
type Request struct {
	InitialPrice float64
	HorizonSteps int
	Params       Params
	PathCount    int
}

// Validate rejects requests that cannot produce a meaningful sample.
func (r Request) Validate() error {
	if r.InitialPrice <= 0 {
		return fmt.Errorf("garch: initial price must be positive, got %g", r.InitialPrice)
	}
	if r.HorizonSteps < 0 {
		return fmt.Errorf("garch: horizon must be non-negative, got %d", r.HorizonSteps)
	}
	if r.PathCount <= 0 {
		return fmt.Errorf("garch: path count must be positive, got %d", r.PathCount)
	}
	return r.Params.Validate()
}

// Simulator drives the GARCH(1,1) recursion across independent Monte-Carlo
// paths. Paths share no state; each carries its own variance, squared return
// and RNG stream, so the work is split across a worker pool without locks.
type Simulator struct {
	seed    uint64
	workers int
}

// NewSimulator creates a simulator with an explicit seed. The same seed and
// request always produce the same matrix, which is what makes cached samples
// and test expectations reproducible.
func NewSimulator(seed uint64) *Simulator {
	return &Simulator{
		seed:    seed,
		workers: runtime.GOMAXPROCS(0),
	}
}

// Simulate returns a price matrix indexed [tick][path] with HorizonSteps+1
// rows; row 0 is the initial price. Horizon zero degenerates to a single row,
// settlement equal to spot on every path.
func (s *Simulator) Simulate(req Request) ([][]float64, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prices := make([][]float64, req.HorizonSteps+1)
	for t := range prices {
		prices[t] = make([]float64, req.PathCount)
	}
	for j := 0; j < req.PathCount; j++ {
		prices[0][j] = req.InitialPrice
	}
	if req.HorizonSteps == 0 {
		return prices, nil
	}

	workers := s.workers
	if workers > req.PathCount {
		workers = req.PathCount
	}
	chunk := (req.PathCount + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > req.PathCount {
			hi = req.PathCount
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for j := lo; j < hi; j++ {
				s.simulatePath(req, prices, j)
			}
		}(lo, hi)
	}
	wg.Wait()
	return prices, nil
}

// simulatePath advances one path through the full horizon. The RNG stream is
// derived from the simulator seed and the path index, not from goroutine
// scheduling, so path j draws the same innovations on every run.
func (s *Simulator) simulatePath(req Request, prices [][]float64, j int) {
	normal := distuv.Normal{
		Mu:    0,
		Sigma: 1,
		Src:   rand.NewSource(pathSeed(s.seed, uint64(j))),
	}

	variance := req.Params.UnconditionalVariance()
	sqReturn := variance
	price := req.InitialPrice

	for t := 0; t < req.HorizonSteps; t++ {
		variance = req.Params.NextVariance(variance, sqReturn)
		logReturn := math.Sqrt(variance) * normal.Rand()
		price *= math.Exp(logReturn)
		prices[t+1][j] = price
		sqReturn = logReturn * logReturn
	}
}

// pathSeed mixes the base seed with the path index (splitmix64 finalizer) so
// neighbouring paths do not receive correlated streams.
func pathSeed(base, path uint64) uint64 {
	z := base + (path+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
