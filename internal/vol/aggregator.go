package vol

import (
	"fmt"
)

// Default blend weights: the 24-hour window anchors the level, the 1-hour
// window tilts it toward current conditions.
const (
	DefaultWeight24h = 0.8
	DefaultWeight1h  = 0.2
)

// Aggregator is the facade over the three look-back sources. Sources fail
// independently; the aggregator degrades by re-normalizing blend weights over
// whatever is present and reports total absence through the ok flag instead
// of a zero sentinel, so callers can tell "no signal" from "zero vol".
type Aggregator struct {
	oneMin  Source
	oneHour Source
	day     Source

	w24h float64
	w1h  float64
}

// NewAggregator builds the facade. Weights must sum to a strictly positive
// number; anything else is a fatal configuration error since every blend
// would divide by zero weight mass.
func NewAggregator(oneMin, oneHour, day Source, w24h, w1h float64) (*Aggregator, error) {
	if w24h+w1h <= 0 {
		return nil, fmt.Errorf("vol: blend weights must sum to a positive number, got %g", w24h+w1h)
	}
	return &Aggregator{
		oneMin:  oneMin,
		oneHour: oneHour,
		day:     day,
		w24h:    w24h,
		w1h:     w1h,
	}, nil
}

// NewDefaultAggregator applies the production 80/20 blend.
func NewDefaultAggregator(oneMin, oneHour, day Source) *Aggregator {
	agg, _ := NewAggregator(oneMin, oneHour, day, DefaultWeight24h, DefaultWeight1h)
	return agg
}

// EffectiveSigma blends the 24h and 1h sigmas by weight, re-normalized over
// the available subset. Each source is sampled exactly once per call so the
// blend sees a consistent snapshot even while feed goroutines update the
// underlying windows. ok is false when both sources are absent.
func (a *Aggregator) EffectiveSigma() (sigma float64, ok bool) {
	var sum, weight float64

	if s, present := a.day.Sample(); present {
		sum += a.w24h * s
		weight += a.w24h
	}
	if s, present := a.oneHour.Sample(); present {
		sum += a.w1h * s
		weight += a.w1h
	}
	if weight == 0 {
		return 0, false
	}
	return sum / weight, true
}

// ErrorSigma is the sigma behind the analytic ±3σ band. It prefers the
// freshest window since it measures near-term estimation error rather than
// long-run level: 1m, then 1h, then 24h, absent when all three are.
func (a *Aggregator) ErrorSigma() (sigma float64, ok bool) {
	for _, src := range []Source{a.oneMin, a.oneHour, a.day} {
		if s, present := src.Sample(); present {
			return s, true
		}
	}
	return 0, false
}
