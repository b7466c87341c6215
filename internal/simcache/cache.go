// Package simcache memoizes settlement samples per simulation request.
// Within one pricing tick the same horizon and parameter set is queried once
// per strike on the ladder; without the cache every strike would pay the full
// Monte-Carlo cost again.
package simcache

import (
	"container/list"
	"math"
	"sync"

	"github.com/sawpanic/binquote/internal/garch"
)

// DefaultCapacity bounds the number of retained samples. Two horizons per
// ladder and a handful of spot quantization buckets fit comfortably.
const DefaultCapacity = 16

// DefaultSpotDigits is the number of significant digits kept of the spot
// price when forming the cache key.
const DefaultSpotDigits = 6

// Observer receives cache hit/miss notifications, typically wired to the
// telemetry counters. May be nil.
type Observer interface {
	CacheHit()
	CacheMiss()
}

// key is the value identity of a request. Spot is quantized before keying:
// sub-cent jitter between consecutive feed ticks would otherwise miss on
// every lookup and re-simulate continuously. This is a deliberate lossy-key
// policy, not float carelessness; params arrive from the fit file and are
// bit-stable within a tick, so they key exactly.
type key struct {
	spot    float64
	horizon int
	omega   float64
	alpha   float64
	beta    float64
	paths   int
}

type entry struct {
	key    key
	sample []float64
}

// Cache maps simulation requests to settlement samples with LRU eviction.
// A single mutex serializes lookup, simulation and insert, which also gives
// the at-most-one-simulation-per-key guarantee for concurrent pricers: the
// second caller for a key blocks until the first has populated it.
type Cache struct {
	mu         sync.Mutex
	sim        *garch.Simulator
	window     int
	capacity   int
	spotDigits int
	observer   Observer

	order   *list.List
	entries map[key]*list.Element
}

// Option configures a Cache.
type Option func(*Cache)

// WithCapacity overrides the LRU bound.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithSpotDigits overrides the significant digits kept of spot in the key.
func WithSpotDigits(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.spotDigits = n
		}
	}
}

// WithObserver wires hit/miss notifications.
func WithObserver(o Observer) Option {
	return func(c *Cache) { c.observer = o }
}

// New builds a cache around a simulator and a settlement window length.
func New(sim *garch.Simulator, window int, opts ...Option) *Cache {
	c := &Cache{
		sim:        sim,
		window:     window,
		capacity:   DefaultCapacity,
		spotDigits: DefaultSpotDigits,
		order:      list.New(),
		entries:    make(map[key]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrSimulate returns the settlement sample for the request, running the
// simulation on a miss. The returned slice is owned by the cache entry:
// callers read it, never write it. Back-to-back identical requests receive
// the same slice.
func (c *Cache) GetOrSimulate(req garch.Request) ([]float64, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	k := c.keyFor(req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[k]; ok {
		c.order.MoveToFront(el)
		if c.observer != nil {
			c.observer.CacheHit()
		}
		return el.Value.(*entry).sample, nil
	}
	if c.observer != nil {
		c.observer.CacheMiss()
	}

	prices, err := c.sim.Simulate(req)
	if err != nil {
		return nil, err
	}
	sample := garch.SettlementAverages(prices, c.window)

	el := c.order.PushFront(&entry{key: k, sample: sample})
	c.entries[k] = el
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}
	return sample, nil
}

// Len reports the number of cached samples.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache) keyFor(req garch.Request) key {
	return key{
		spot:    QuantizeSpot(req.InitialPrice, c.spotDigits),
		horizon: req.HorizonSteps,
		omega:   req.Params.Omega,
		alpha:   req.Params.Alpha,
		beta:    req.Params.Beta,
		paths:   req.PathCount,
	}
}

// QuantizeSpot rounds a price to the given number of significant digits.
func QuantizeSpot(spot float64, digits int) float64 {
	if spot == 0 || math.IsNaN(spot) || math.IsInf(spot, 0) {
		return spot
	}
	magnitude := math.Ceil(math.Log10(math.Abs(spot)))
	scale := math.Pow(10, float64(digits)-magnitude)
	return math.Round(spot*scale) / scale
}
