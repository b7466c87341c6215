package pricing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/binquote/internal/contracts"
	"github.com/sawpanic/binquote/internal/garch"
	"github.com/sawpanic/binquote/internal/simcache"
)

// Quote is a priced contract. Bid and ask are probabilities in [0,1] at cent
// granularity; the presentation layer rescales to currency units.
type Quote struct {
	Ticker string  `json:"ticker" db:"ticker"`
	Bid    float64 `json:"bid" db:"bid"`
	Ask    float64 `json:"ask" db:"ask"`
}

// Skip records a contract left out of a batch and why. A single unpriceable
// contract never aborts the rest of the ladder.
type Skip struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// BatchResult is one pricing tick's output across a contract ladder.
type BatchResult struct {
	RunID   string    `json:"run_id"`
	Spot    float64   `json:"spot"`
	At      time.Time `json:"at"`
	Quotes  []Quote   `json:"quotes"`
	Skipped []Skip    `json:"skipped,omitempty"`
}

// Config tunes the batch engine.
type Config struct {
	// PathCount is the Monte-Carlo path count per simulation.
	PathCount int `yaml:"paths"`
	// HorizonJitter perturbs the base horizon by +/- this many ticks to
	// produce the two estimates the spread is built from.
	HorizonJitter int `yaml:"horizon_jitter"`
	// MinHorizon skips contracts closer to expiry than this many ticks;
	// so near settlement the simulation adds nothing over the spot print.
	MinHorizon int `yaml:"min_horizon"`
}

// DefaultConfig mirrors the production quote loop tuning.
func DefaultConfig() Config {
	return Config{
		PathCount:     1000,
		HorizonJitter: 5,
		MinHorizon:    10,
	}
}

// Observer receives batch pricing telemetry. May be nil.
type Observer interface {
	QuoteEmitted()
	ContractSkipped(reason string)
	SimulationObserved(d time.Duration)
}

// Engine prices contract ladders against cached Monte-Carlo settlement
// samples. Stateless between calls except for the shared simulation cache.
type Engine struct {
	cache    *simcache.Cache
	cfg      Config
	observer Observer
}

// NewEngine builds a batch engine over a simulation cache.
func NewEngine(cache *simcache.Cache, cfg Config, observer Observer) *Engine {
	if cfg.PathCount <= 0 {
		cfg.PathCount = DefaultConfig().PathCount
	}
	if cfg.HorizonJitter <= 0 {
		cfg.HorizonJitter = DefaultConfig().HorizonJitter
	}
	return &Engine{cache: cache, cfg: cfg, observer: observer}
}

// QuoteBatch prices every contract in the ladder at the given spot. The two
// jittered horizons share simulations through the cache, so a six-strike
// ladder costs two simulations, not twelve. Contracts that cannot be priced
// are reported in Skipped with a reason; only invalid spot or params fail the
// whole batch, since those poison every contract equally.
func (e *Engine) QuoteBatch(spot float64, params garch.Params, ladder []contracts.Contract, now time.Time) (BatchResult, error) {
	if spot <= 0 {
		return BatchResult{}, fmt.Errorf("pricing: spot must be positive, got %g", spot)
	}
	if err := params.Validate(); err != nil {
		return BatchResult{}, fmt.Errorf("pricing: %w", err)
	}

	result := BatchResult{
		RunID: uuid.NewString(),
		Spot:  spot,
		At:    now,
	}

	for _, c := range ladder {
		quote, err := e.quoteOne(spot, params, c, now)
		if err != nil {
			result.Skipped = append(result.Skipped, Skip{Ticker: c.Ticker, Reason: err.Error()})
			if e.observer != nil {
				e.observer.ContractSkipped(err.Error())
			}
			log.Warn().Str("ticker", c.Ticker).Err(err).Msg("contract skipped")
			continue
		}
		result.Quotes = append(result.Quotes, quote)
		if e.observer != nil {
			e.observer.QuoteEmitted()
		}
	}

	log.Debug().
		Str("run_id", result.RunID).
		Float64("spot", spot).
		Int("quoted", len(result.Quotes)).
		Int("skipped", len(result.Skipped)).
		Msg("batch priced")
	return result, nil
}

func (e *Engine) quoteOne(spot float64, params garch.Params, c contracts.Contract, now time.Time) (Quote, error) {
	horizon := int(c.Expiry.Sub(now) / time.Second)
	if horizon <= e.cfg.MinHorizon {
		return Quote{}, fmt.Errorf("%ds to expiry, below %ds floor", horizon, e.cfg.MinHorizon)
	}

	lowT, highT := PerturbHorizon(horizon, e.cfg.HorizonJitter)
	pLow, err := e.probabilityAt(spot, params, c, lowT)
	if err != nil {
		return Quote{}, err
	}
	pHigh, err := e.probabilityAt(spot, params, c, highT)
	if err != nil {
		return Quote{}, err
	}

	bid, ask := Spread(pLow, pHigh)
	return Quote{Ticker: c.Ticker, Bid: bid, Ask: ask}, nil
}

func (e *Engine) probabilityAt(spot float64, params garch.Params, c contracts.Contract, horizon int) (float64, error) {
	start := time.Now()
	sample, err := e.cache.GetOrSimulate(garch.Request{
		InitialPrice: spot,
		HorizonSteps: horizon,
		Params:       params,
		PathCount:    e.cfg.PathCount,
	})
	if err != nil {
		return 0, err
	}
	if e.observer != nil {
		e.observer.SimulationObserved(time.Since(start))
	}
	return Probability(sample, c), nil
}
