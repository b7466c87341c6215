package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/binquote/internal/contracts"
	"github.com/sawpanic/binquote/internal/garch"
	"github.com/sawpanic/binquote/internal/simcache"
)

var testParams = garch.Params{Omega: 1e-6, Alpha: 0.05, Beta: 0.90}

func TestProbability_Directions(t *testing.T) {
	sample := []float64{95, 100, 105, 110}

	assert.Equal(t, 0.75, Probability(sample, contracts.Contract{Direction: contracts.Above, Strike: 100}))
	assert.Equal(t, 0.5, Probability(sample, contracts.Contract{Direction: contracts.Below, Strike: 100}))
	assert.Equal(t, 0.5, Probability(sample, contracts.Contract{Direction: contracts.Between, Low: 99, High: 106}))
}

func TestProbability_Extremes(t *testing.T) {
	sample := []float64{95, 100, 105, 110}

	// A strike below every settlement is a sure Above.
	assert.Equal(t, 1.0, Probability(sample, contracts.Contract{Direction: contracts.Above, Strike: math.Inf(-1)}))
	// A strike above every settlement can never pay.
	assert.Equal(t, 0.0, Probability(sample, contracts.Contract{Direction: contracts.Above, Strike: 111}))
	assert.Equal(t, 0.0, Probability(nil, contracts.Contract{Direction: contracts.Above, Strike: 0}))
}

func TestSpread_DirectionalRounding(t *testing.T) {
	bid, ask := Spread(0.432, 0.457)
	assert.InDelta(t, 0.43, bid, 1e-12)
	assert.InDelta(t, 0.46, ask, 1e-12)

	// Order of arguments must not matter.
	bid2, ask2 := Spread(0.457, 0.432)
	assert.Equal(t, bid, bid2)
	assert.Equal(t, ask, ask2)
}

func TestSpread_EqualInputs(t *testing.T) {
	for _, p := range []float64{0, 0.004, 0.431, 0.5, 0.999, 1} {
		bid, ask := Spread(p, p)
		assert.LessOrEqual(t, bid, ask)
		assert.Less(t, ask-bid, 0.02, "equal inputs must not open more than a cent either way")
	}
	// Exactly on a cent boundary floor and ceil agree.
	bid, ask := Spread(0.25, 0.25)
	assert.Equal(t, bid, ask)
}

func TestPerturbHorizon_ClampsAtZero(t *testing.T) {
	lo, hi := PerturbHorizon(3, 5)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 8, hi)

	lo, hi = PerturbHorizon(3600, 5)
	assert.Equal(t, 3595, lo)
	assert.Equal(t, 3605, hi)
}

type recordingObserver struct {
	quotes int
	skips  []string
}

func (r *recordingObserver) QuoteEmitted()                    { r.quotes++ }
func (r *recordingObserver) ContractSkipped(reason string)    { r.skips = append(r.skips, reason) }
func (r *recordingObserver) SimulationObserved(time.Duration) {}

func newTestEngine(obs Observer) *Engine {
	cache := simcache.New(garch.NewSimulator(2024), 60)
	return NewEngine(cache, Config{PathCount: 1000, HorizonJitter: 5, MinHorizon: 10}, obs)
}

func TestEngine_QuoteBatch_AtTheMoney(t *testing.T) {
	e := newTestEngine(nil)
	now := time.Now()
	ladder := []contracts.Contract{
		{Ticker: "ATM", Direction: contracts.Above, Strike: 100000, Expiry: now.Add(time.Hour)},
	}

	result, err := e.QuoteBatch(100000, testParams, ladder, now)
	require.NoError(t, err)
	require.Len(t, result.Quotes, 1)
	q := result.Quotes[0]
	assert.LessOrEqual(t, q.Bid, q.Ask)
	// Drift-free diffusion at the money: both sides near a half.
	assert.InDelta(t, 0.5, q.Bid, 0.07)
	assert.InDelta(t, 0.5, q.Ask, 0.07)
	assert.NotEmpty(t, result.RunID)
}

func TestEngine_QuoteBatch_PartialFailure(t *testing.T) {
	obs := &recordingObserver{}
	e := newTestEngine(obs)
	now := time.Now()
	ladder := []contracts.Contract{
		{Ticker: "LIVE", Direction: contracts.Above, Strike: 100000, Expiry: now.Add(time.Hour)},
		{Ticker: "DEAD", Direction: contracts.Above, Strike: 100000, Expiry: now.Add(5 * time.Second)},
		{Ticker: "GONE", Direction: contracts.Below, Strike: 100000, Expiry: now.Add(-time.Minute)},
	}

	result, err := e.QuoteBatch(100000, testParams, ladder, now)
	require.NoError(t, err)
	assert.Len(t, result.Quotes, 1)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, "DEAD", result.Skipped[0].Ticker)
	assert.Equal(t, "GONE", result.Skipped[1].Ticker)
	assert.Equal(t, 1, obs.quotes)
	assert.Len(t, obs.skips, 2)
}

func TestEngine_QuoteBatch_FatalInputs(t *testing.T) {
	e := newTestEngine(nil)
	now := time.Now()
	ladder := []contracts.Contract{{Ticker: "X", Direction: contracts.Above, Strike: 1, Expiry: now.Add(time.Hour)}}

	_, err := e.QuoteBatch(-5, testParams, ladder, now)
	assert.Error(t, err)

	_, err = e.QuoteBatch(100000, garch.Params{Omega: 1e-6, Alpha: 0.7, Beta: 0.4}, ladder, now)
	assert.Error(t, err)
}

func TestEngine_QuoteBatch_LadderOrdering(t *testing.T) {
	// Deeper strikes must price monotonically: a lower Above strike can only
	// be more likely to pay than a higher one from the same sample.
	e := newTestEngine(nil)
	now := time.Now()
	expiry := now.Add(30 * time.Minute)
	ladder := []contracts.Contract{
		{Ticker: "LOW", Direction: contracts.Above, Strike: 99000, Expiry: expiry},
		{Ticker: "MID", Direction: contracts.Above, Strike: 100000, Expiry: expiry},
		{Ticker: "HIGH", Direction: contracts.Above, Strike: 101000, Expiry: expiry},
	}

	result, err := e.QuoteBatch(100000, testParams, ladder, now)
	require.NoError(t, err)
	require.Len(t, result.Quotes, 3)
	assert.GreaterOrEqual(t, result.Quotes[0].Bid, result.Quotes[1].Bid)
	assert.GreaterOrEqual(t, result.Quotes[1].Bid, result.Quotes[2].Bid)
	assert.GreaterOrEqual(t, result.Quotes[0].Ask, result.Quotes[1].Ask)
	assert.GreaterOrEqual(t, result.Quotes[1].Ask, result.Quotes[2].Ask)
}
